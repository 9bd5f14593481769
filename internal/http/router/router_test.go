package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/http/handlers/pages"
	"github.com/aanand-mishra/contacts/internal/http/middleware"
	"github.com/aanand-mishra/contacts/internal/session"
	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/storage/sqlite"
	"github.com/aanand-mishra/contacts/internal/view"
)

const secret = "0123456789abcdef0123"

func newHandler(t *testing.T, csrfEnabled bool) (http.Handler, storage.Storage) {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	views, err := view.New()
	require.NoError(t, err)

	h, err := New(Options{
		Logger:      zap.NewNop(),
		Store:       store,
		Views:       views,
		Flashes:     session.New(session.Options{Secret: secret, LifetimeSeconds: 3600}),
		Registry:    prometheus.NewRegistry(),
		CSRFEnabled: csrfEnabled,
		CSRF:        middleware.CSRFOptions{Secret: secret, LifetimeSeconds: 3600},
	})
	require.NoError(t, err)
	return h, store
}

func serve(h http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestContactLifecycle(t *testing.T) {
	h, store := newHandler(t, false)
	ctx := context.Background()

	rec := serve(h, http.MethodPost, "/", url.Values{"fname": {"John"}, "lname": {"Doe"}, "email": {"john@doe.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	people, err := store.GetPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	id := people[0].ID

	rec = serve(h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "john@doe.com")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))

	rec = serve(h, http.MethodPost, "/update/1", url.Values{"fname": {"Jim"}, "lname": {"Doe"}, "email": {"jim@doe.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	got, err := store.GetPersonByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Jim", got.FirstName)
	assert.Equal(t, "jim@doe.com", got.Email)
	assert.Equal(t, id, got.ID)

	rec = serve(h, http.MethodPost, "/delete/1", url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	people, err = store.GetPeople(ctx)
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestStaticAndErrorRoutes(t *testing.T) {
	h, _ := newHandler(t, false)

	rec := serve(h, http.MethodGet, "/home", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pages.WelcomeText, rec.Body.String())

	rec = serve(h, http.MethodGet, "/no/such/page", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = serve(h, http.MethodGet, "/update/12345", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(h, http.MethodGet, "/delete/1", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newHandler(t, false)

	serve(h, http.MethodGet, "/home", nil)
	serve(h, http.MethodGet, "/update/1", nil)

	rec := serve(h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `contacts_http_requests_total{method="GET",route="/home",status="200"} 1`)
	assert.Contains(t, body, `contacts_http_requests_total{method="GET",route="/update/{id}",status="404"} 1`)
}

func TestCSRFEnabled(t *testing.T) {
	h, store := newHandler(t, true)

	rec := serve(h, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="csrf_token"`)

	rec = serve(h, http.MethodPost, "/", url.Values{"fname": {"John"}, "lname": {"Doe"}, "email": {"john@doe.com"}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(h, http.MethodPost, "/delete/1", url.Values{})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	people, err := store.GetPeople(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)

	// Pages outside the form group carry no token requirement.
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, "/home", nil).Code)
}
