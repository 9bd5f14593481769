package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/aanand-mishra/contacts/internal/view"
)

// Recoverer turns a handler panic into the 500 page; the panic value and
// stack are logged by view.Renderer.InternalError.
func Recoverer(views *view.Renderer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// ErrAbortHandler is net/http's way to abort a response.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				var err error
				switch v := rec.(type) {
				case error:
					err = v
				default:
					err = fmt.Errorf("%v", v)
				}
				views.InternalError(w, r, fmt.Errorf("panic: %w\n%s", err, debug.Stack()))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
