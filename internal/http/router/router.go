// Package router assembles the chi router: middleware stack, contact
// routes, static pages and metrics.
package router

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/http/handlers/pages"
	"github.com/aanand-mishra/contacts/internal/http/handlers/person"
	"github.com/aanand-mishra/contacts/internal/http/middleware"
	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/validation"
	"github.com/aanand-mishra/contacts/internal/view"
)

// maxBodyBytes caps form submissions.
const maxBodyBytes = 1 << 20

// Options carries everything the router needs. All fields but
// CSRFEnabled are required.
type Options struct {
	Logger   *zap.Logger
	Store    storage.Storage
	Views    *view.Renderer
	Flashes  person.FlashStore
	Registry *prometheus.Registry

	CSRFEnabled bool
	CSRF        middleware.CSRFOptions
}

// New returns the application handler.
//
// Route table:
//
//	GET  /              list contacts
//	POST /              create a contact
//	POST /delete/{id}   delete a contact
//	GET  /update/{id}   edit form
//	POST /update/{id}   update a contact
//	GET  /home          welcome text
//	GET  /metrics       Prometheus metrics
func New(opts Options) (http.Handler, error) {
	if opts.Logger == nil || opts.Store == nil || opts.Views == nil || opts.Flashes == nil || opts.Registry == nil {
		return nil, errors.New("router: missing dependency")
	}

	metrics, err := middleware.NewMetrics(opts.Registry)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.NotFound(pages.NotFound(opts.Views))
	r.MethodNotAllowed(pages.MethodNotAllowed())

	r.Use(
		middleware.RequestID(),
		// RealIP trusts X-Forwarded-For; deploy behind a proxy that sets it.
		chimiddleware.RealIP,
		middleware.RequestLogger(opts.Logger),
		middleware.AccessLogger(),
		metrics.Handler(),
		middleware.Security(),
		middleware.Recoverer(opts.Views),
		chimiddleware.RequestSize(maxBodyBytes),
	)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	r.Get("/home", pages.Home())

	h := person.New(opts.Store, validation.New(), opts.Views, opts.Flashes)

	r.Group(func(r chi.Router) {
		if opts.CSRFEnabled {
			r.Use(middleware.CSRF(opts.CSRF, opts.Views))
		}
		r.Get("/", h.List())
		r.Post("/", h.Create())
		r.Post("/delete/{id}", h.Delete())
		r.Get("/update/{id}", h.Edit())
		r.Post("/update/{id}", h.Update())
	})

	return r, nil
}
