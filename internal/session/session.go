// Package session keeps flash messages in a signed cookie session.
package session

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const cookieName = "contacts_session"

// Options configure the session cookie.
type Options struct {
	Secret          string
	SecureCookie    bool
	LifetimeSeconds int
}

// Flashes queues one-shot messages shown on the next rendered page.
type Flashes struct {
	store sessions.Store
}

// New builds a cookie store signed with opts.Secret.
func New(opts Options) *Flashes {
	store := sessions.NewCookieStore([]byte(opts.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   opts.LifetimeSeconds,
		Secure:   opts.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Flashes{store: store}
}

// Add queues msg. It must run before the response headers are written.
func (f *Flashes) Add(w http.ResponseWriter, r *http.Request, msg string) error {
	// Get returns a fresh session alongside a decode error for tampered or
	// expired cookies, so the error is not fatal here.
	sess, _ := f.store.Get(r, cookieName)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Pop drains pending messages. Like Add, it writes a cookie and must run
// before the response headers are written.
func (f *Flashes) Pop(w http.ResponseWriter, r *http.Request) ([]string, error) {
	sess, _ := f.store.Get(r, cookieName)
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil, nil
	}

	msgs := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			msgs = append(msgs, s)
		}
	}
	return msgs, sess.Save(r, w)
}
