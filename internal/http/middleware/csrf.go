package middleware

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"

	"github.com/aanand-mishra/contacts/internal/view"
)

// FormFieldName is the hidden input carrying the CSRF token.
const FormFieldName = "csrf_token"

// CSRFOptions mirror the session settings.
type CSRFOptions struct {
	Secret          string
	SecureCookie    bool
	LifetimeSeconds int
}

// CSRF protects every unsafe method with a gorilla/csrf token. The 32-byte
// key is derived from the session secret. When cookies are not marked
// secure the app is served over plain HTTP, so requests are flagged as
// plaintext to skip the TLS-only Referer check.
func CSRF(opts CSRFOptions, views *view.Renderer) func(http.Handler) http.Handler {
	key := sha256.Sum256([]byte(opts.Secret))

	protect := csrf.Protect(key[:],
		csrf.Secure(opts.SecureCookie),
		csrf.MaxAge(opts.LifetimeSeconds),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(FormFieldName),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			views.Forbidden(w, r, csrf.FailureReason(r))
		})),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if opts.SecureCookie {
			return h
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
