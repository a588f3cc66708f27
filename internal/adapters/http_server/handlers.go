package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"campfind/internal/app"
	"campfind/internal/domain"
)

type Handlers struct {
	Catalog   *app.QueryService
	Favorites *app.Favorites
	Ledger    *app.Ledger
	Flow      *app.BookingFlow
	Sessions  *Sessions
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Fields []domain.FieldError `json:"fields,omitempty"`
	Draft  *domain.Draft       `json:"draft,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/camps", h.listCamps)
		r.Get("/camps/{id}", h.getCamp)
		r.Get("/camps/{id}/rooms", h.listRooms)
		r.Get("/rooms/{id}", h.getRoom)

		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)
		r.Post("/auth/logout", h.logout)
		r.Get("/auth/me", h.me)

		r.Get("/favorites", h.listFavorites)
		r.Put("/favorites/{campId}", h.addFavorite)
		r.Delete("/favorites/{campId}", h.removeFavorite)
		r.Post("/favorites/{campId}/toggle", h.toggleFavorite)

		r.Post("/drafts", h.createDraft)
		r.Post("/bookings", h.submitBooking)
		r.Get("/bookings", h.listBookings)
		r.Get("/bookings/pending", h.pendingDraft)
		r.Get("/bookings/attempts/{id}", h.getAttempt)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields []domain.FieldError) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Fields: fields})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps a domain error kind to a problem response.
func writeError(w http.ResponseWriter, err error) {
	var authReq *domain.AuthRequiredError
	switch {
	case errors.As(err, &authReq):
		d := authReq.Draft
		writeProblemBody(w, problem{Type: "about:blank", Title: "Login Required", Status: http.StatusUnauthorized,
			Detail: err.Error(), Draft: &d})
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error(), domain.Fields(err))
	case errors.Is(err, domain.ErrAuth):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSubmitInProgress):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error(), nil)
	case errors.Is(err, domain.ErrPaymentFailed):
		writeProblem(w, http.StatusPaymentRequired, "Payment Failed", err.Error(), nil)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeProblem(w, http.StatusServiceUnavailable, "Unavailable", "request cancelled", nil)
	default:
		log.Error().Err(err).Msg("unhandled error")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "unexpected error", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.Validation("malformed JSON body: " + err.Error())
	}
	return nil
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable writes reference data with a weak ETag and honors If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// ---- catalog ----

func (h *Handlers) listCamps(w http.ResponseWriter, r *http.Request) {
	camps, err := h.Catalog.ListCamps(r.Context(), domain.CampsQuery{Q: r.URL.Query().Get("q")})
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, camps)
}

func (h *Handlers) getCamp(w http.ResponseWriter, r *http.Request) {
	c, err := h.Catalog.GetCamp(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, c)
}

func (h *Handlers) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.Catalog.ListRooms(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, rooms)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	rm, err := h.Catalog.GetRoom(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCacheable(w, r, rm)
}

// ---- auth ----

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var in app.RegisterInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, _ := h.Sessions.Get(r)
	id, err := sess.Register(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, id)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	sess, stored := h.Sessions.Get(r)
	id, err := sess.Login(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	if !stored {
		h.Sessions.Keep(w, sess)
	}
	writeJSON(w, http.StatusOK, id)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if sess, stored := h.Sessions.Get(r); stored {
		sess.Logout()
		h.Sessions.Drop(w, r)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Sessions.Get(r)
	id, ok := sess.Current()
	if !ok {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "not logged in", nil)
		return
	}
	writeJSON(w, http.StatusOK, id)
}

// ---- favorites ----

type favoriteState struct {
	CampID   string `json:"campId"`
	Favorite bool   `json:"favorite"`
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Sessions.Get(r)
	writeJSON(w, http.StatusOK, h.Favorites.List(sess))
}

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	camp, err := h.Catalog.GetCamp(r.Context(), chi.URLParam(r, "campId"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess, _ := h.Sessions.Get(r)
	h.Favorites.Add(sess, camp)
	writeJSON(w, http.StatusOK, favoriteState{CampID: camp.ID, Favorite: h.Favorites.Contains(sess, camp.ID)})
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	campID := chi.URLParam(r, "campId")
	sess, _ := h.Sessions.Get(r)
	h.Favorites.Remove(sess, campID)
	writeJSON(w, http.StatusOK, favoriteState{CampID: campID, Favorite: false})
}

func (h *Handlers) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	camp, err := h.Catalog.GetCamp(r.Context(), chi.URLParam(r, "campId"))
	if err != nil {
		writeError(w, err)
		return
	}
	sess, _ := h.Sessions.Get(r)
	fav := h.Favorites.Toggle(sess, camp)
	writeJSON(w, http.StatusOK, favoriteState{CampID: camp.ID, Favorite: fav})
}

// ---- bookings ----

type submitRequest struct {
	Draft   domain.Draft   `json:"draft"`
	Payment domain.Payment `json:"payment"`
}

func (h *Handlers) createDraft(w http.ResponseWriter, r *http.Request) {
	var in domain.DraftInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	d, err := h.Flow.NewDraft(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// submitBooking starts a payment attempt and answers 202 with its id. With ?wait=true the
// response is held until the attempt resolves.
func (h *Handlers) submitBooking(w http.ResponseWriter, r *http.Request) {
	var in submitRequest
	if err := decode(w, r, &in); err != nil {
		writeError(w, err)
		return
	}
	a, err := h.Flow.Submit(r.Context(), h.Sessions.Holding(w, r), in.Draft, in.Payment)
	if err != nil {
		writeError(w, err)
		return
	}
	if r.URL.Query().Get("wait") == "true" {
		if _, err := a.Wait(r.Context()); err != nil && !errors.Is(err, domain.ErrPaymentFailed) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a.View())
		return
	}
	w.Header().Set("Location", "/v1/bookings/attempts/"+a.ID())
	writeJSON(w, http.StatusAccepted, a.View())
}

func (h *Handlers) getAttempt(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Sessions.Get(r)
	id, ok := sess.Current()
	a, found := h.Flow.Attempt(chi.URLParam(r, "id"))
	if !ok || !found || a.IdentityID() != id.ID {
		writeProblem(w, http.StatusNotFound, "Not Found", "attempt not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, a.View())
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Sessions.Get(r)
	id, _ := sess.Current()
	writeJSON(w, http.StatusOK, h.Ledger.List(id.ID))
}

func (h *Handlers) pendingDraft(w http.ResponseWriter, r *http.Request) {
	sess, _ := h.Sessions.Get(r)
	d, ok := sess.TakePendingDraft()
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", "no pending draft", nil)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
