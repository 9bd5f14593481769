package view

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/aanand-mishra/contacts/internal/logger"
	"github.com/aanand-mishra/contacts/internal/types"
	"github.com/aanand-mishra/contacts/internal/validation"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r
}

func TestRenderIndex(t *testing.T) {
	v := newRenderer(t)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	v.Render(rec, req, http.StatusOK, Index, ListData{
		People: []types.Person{{ID: 7, FirstName: "John", LastName: "Doe", Email: "john@doe.com"}},
	}, "Contact added")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "john@doe.com")
	assert.Contains(t, body, `href="/update/7"`)
	assert.Contains(t, body, `action="/delete/7"`)
	assert.Contains(t, body, "Contact added")
	assert.NotContains(t, body, "No contacts yet.")
}

func TestRenderIndexEscapesAndShowsErrors(t *testing.T) {
	v := newRenderer(t)
	rec := httptest.NewRecorder()

	v.Render(rec, httptest.NewRequest(http.MethodPost, "/", nil), http.StatusUnprocessableEntity, Index, ListData{
		People: []types.Person{},
		Form:   types.PersonForm{FirstName: "<script>alert(1)</script>", LastName: "Doe", Email: "x"},
		Errors: validation.FieldErrors{"fname": "Only letters and spaces are allowed."},
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Only letters and spaces are allowed.")
	assert.Contains(t, body, "No contacts yet.")
}

func TestRenderUpdate(t *testing.T) {
	v := newRenderer(t)
	rec := httptest.NewRecorder()

	v.Render(rec, httptest.NewRequest(http.MethodGet, "/update/3", nil), http.StatusOK, Update, EditData{
		ID:   3,
		Form: types.PersonForm{FirstName: "Jane", LastName: "Roe", Email: "jane@roe.com"},
	})

	body := rec.Body.String()
	assert.Contains(t, body, `action="/update/3"`)
	assert.Contains(t, body, `value="Jane"`)
	assert.Contains(t, body, `value="jane@roe.com"`)
}

func TestErrorPages(t *testing.T) {
	v := newRenderer(t)

	rec := httptest.NewRecorder()
	v.NotFound(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	core, recorded := observer.New(zapcore.DebugLevel)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithContext(req.Context(), zap.New(core)))

	rec = httptest.NewRecorder()
	v.InternalError(rec, req, errors.New("db is down"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Internal server error")

	entries := recorded.FilterMessage("internal server error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "db is down", entries[0].ContextMap()["error"])

	rec = httptest.NewRecorder()
	v.Forbidden(rec, req, errors.New("token mismatch"))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, recorded.FilterMessage("request forbidden").All(), 1)
}

func TestRenderUnknownPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newRenderer(t).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusOK, "nope.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
