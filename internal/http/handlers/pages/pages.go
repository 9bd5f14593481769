// Package pages serves the static welcome page and the router-level error
// pages.
package pages

import (
	"net/http"

	"github.com/aanand-mishra/contacts/internal/view"
)

// WelcomeText is the body of GET /home.
const WelcomeText = "Welcome To The Home Page"

// Home handles GET /home.
func Home() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(WelcomeText))
	}
}

// NotFound renders the 404 page for unknown paths.
func NotFound(views *view.Renderer) http.HandlerFunc {
	return views.NotFound
}

// MethodNotAllowed answers a known path hit with the wrong method, such as
// GET /delete/{id}.
func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}
