// Package person contains the HTTP handlers for contact records.
//
// Every handler is built by a method on Handler, which carries the
// dependencies injected at startup:
//
//	h := person.New(store, validator, views, flashes)
//	router.Get("/", h.List())
//
// Mutations follow post/redirect/get: a successful POST answers 303 See
// Other to the list so a browser refresh cannot resubmit the form.
package person

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"github.com/aanand-mishra/contacts/internal/logger"
	"github.com/aanand-mishra/contacts/internal/storage"
	"github.com/aanand-mishra/contacts/internal/types"
	"github.com/aanand-mishra/contacts/internal/validation"
	"github.com/aanand-mishra/contacts/internal/view"
)

// Flash messages queued after successful mutations.
const (
	FlashCreated = "Contact added."
	FlashUpdated = "Contact updated."
	FlashDeleted = "Contact deleted."
)

// Form-level messages shown when the store rejects a valid submission.
const (
	msgCreateFailed = "The contact could not be saved. Please try again."
	msgUpdateFailed = "The contact could not be updated. Please try again."
)

// FlashStore queues and drains one-shot messages across a redirect.
type FlashStore interface {
	Add(w http.ResponseWriter, r *http.Request, msg string) error
	Pop(w http.ResponseWriter, r *http.Request) ([]string, error)
}

// Handler serves the contact list, create, update and delete routes.
type Handler struct {
	store    storage.Storage
	validate *validation.Validator
	views    *view.Renderer
	flashes  FlashStore
	decoder  *schema.Decoder
}

// New wires a Handler.
func New(store storage.Storage, validate *validation.Validator, views *view.Renderer, flashes FlashStore) *Handler {
	decoder := schema.NewDecoder()
	// The CSRF token and submit button travel in the same form.
	decoder.IgnoreUnknownKeys(true)

	return &Handler{
		store:    store,
		validate: validate,
		views:    views,
		flashes:  flashes,
		decoder:  decoder,
	}
}

// List handles GET /: every record plus an empty create form.
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		people, err := h.store.GetPeople(r.Context())
		if err != nil {
			h.views.InternalError(w, r, err)
			return
		}
		h.views.Render(w, r, http.StatusOK, view.Index, view.ListData{People: people}, h.popFlashes(w, r)...)
	}
}

// Create handles POST /.
//
//   - invalid input: 422, the list as it was, the form echoing the input
//   - store failure: logged and rolled back, 200 with a form-level error
//   - success: trimmed values inserted, 303 to /
func (h *Handler) Create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		submitted, ok := h.decodeForm(w, r)
		if !ok {
			return
		}

		form, errs := h.validate.Form(submitted)
		if len(errs) > 0 {
			log.Info("rejected contact form", zap.Strings("fields", fieldNames(errs)))
			h.renderList(w, r, http.StatusUnprocessableEntity, view.ListData{Form: submitted, Errors: errs})
			return
		}

		id, err := h.store.CreatePerson(r.Context(), form.Person())
		if err != nil {
			log.Error("create contact failed", zap.Error(err))
			h.renderList(w, r, http.StatusOK, view.ListData{Form: submitted, FormError: msgCreateFailed})
			return
		}

		log.Info("contact created", zap.Int64("id", id))
		h.redirectHome(w, r, FlashCreated)
	}
}

// Delete handles POST /delete/{id}. A missing record is a silent no-op;
// the answer is always a redirect to /.
func (h *Handler) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			h.views.NotFound(w, r)
			return
		}

		deleted, err := h.store.DeletePersonByID(r.Context(), id)
		if err != nil {
			h.views.InternalError(w, r, err)
			return
		}

		if !deleted {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		logger.FromContext(r.Context()).Info("contact deleted", zap.Int64("id", id))
		h.redirectHome(w, r, FlashDeleted)
	}
}

// Edit handles GET /update/{id}: the form pre-populated from the record,
// or the 404 page when it does not exist.
func (h *Handler) Edit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(r)
		if !ok {
			h.views.NotFound(w, r)
			return
		}

		p, err := h.store.GetPersonByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			h.views.NotFound(w, r)
			return
		}
		if err != nil {
			h.views.InternalError(w, r, err)
			return
		}

		h.views.Render(w, r, http.StatusOK, view.Update, view.EditData{ID: id, Form: types.FormFromPerson(p)})
	}
}

// Update handles POST /update/{id}. It validates like Create and
// overwrites the record's three fields in place.
func (h *Handler) Update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		id, ok := parseID(r)
		if !ok {
			h.views.NotFound(w, r)
			return
		}

		if _, err := h.store.GetPersonByID(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				h.views.NotFound(w, r)
				return
			}
			h.views.InternalError(w, r, err)
			return
		}

		submitted, ok := h.decodeForm(w, r)
		if !ok {
			return
		}

		form, errs := h.validate.Form(submitted)
		if len(errs) > 0 {
			log.Info("rejected contact form", zap.Int64("id", id), zap.Strings("fields", fieldNames(errs)))
			h.views.Render(w, r, http.StatusUnprocessableEntity, view.Update, view.EditData{ID: id, Form: submitted, Errors: errs})
			return
		}

		if _, err := h.store.UpdatePersonByID(r.Context(), id, form.Person()); err != nil {
			// Deleted between the lookup and the write.
			if errors.Is(err, storage.ErrNotFound) {
				h.views.NotFound(w, r)
				return
			}
			log.Error("update contact failed", zap.Int64("id", id), zap.Error(err))
			h.views.Render(w, r, http.StatusOK, view.Update, view.EditData{ID: id, Form: submitted, FormError: msgUpdateFailed})
			return
		}

		log.Info("contact updated", zap.Int64("id", id))
		h.redirectHome(w, r, FlashUpdated)
	}
}

// renderList re-fetches the current record set so a rejected or failed
// submission shows exactly what is stored.
func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, status int, data view.ListData) {
	people, err := h.store.GetPeople(r.Context())
	if err != nil {
		h.views.InternalError(w, r, err)
		return
	}
	data.People = people
	h.views.Render(w, r, status, view.Index, data)
}

func (h *Handler) decodeForm(w http.ResponseWriter, r *http.Request) (types.PersonForm, bool) {
	var form types.PersonForm
	if err := r.ParseForm(); err != nil {
		logger.FromContext(r.Context()).Info("malformed form body", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return form, false
	}
	if err := h.decoder.Decode(&form, r.PostForm); err != nil {
		logger.FromContext(r.Context()).Info("undecodable form", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return form, false
	}
	return form, true
}

func (h *Handler) redirectHome(w http.ResponseWriter, r *http.Request, flash string) {
	if err := h.flashes.Add(w, r, flash); err != nil {
		logger.FromContext(r.Context()).Warn("queue flash message", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	msgs, err := h.flashes.Pop(w, r)
	if err != nil {
		logger.FromContext(r.Context()).Warn("read flash messages", zap.Error(err))
	}
	return msgs
}

// parseID reads the {id} path segment. Anything but a non-negative
// decimal integer is treated as an unknown path.
func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

func fieldNames(errs validation.FieldErrors) []string {
	names := make([]string, 0, len(errs))
	for _, f := range []string{"fname", "lname", "email"} {
		if _, ok := errs[f]; ok {
			names = append(names, f)
		}
	}
	return names
}
