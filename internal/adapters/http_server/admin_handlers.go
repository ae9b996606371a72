package httpserver

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"makazi/internal/domain"
)

func (h *Handlers) mountAdmin(r chi.Router) {
	r.Get("/users", h.adminListUsers)
	r.Post("/users/{id}/verify", h.adminVerifyUser)
	r.Delete("/users/{id}", h.adminDeleteUser)

	r.Get("/properties", h.adminListProperties)
	r.Post("/properties/{id}/approve", h.adminModerate((domain.AdminAPI).AdminApproveProperty))
	r.Post("/properties/{id}/reject", h.adminModerate((domain.AdminAPI).AdminRejectProperty))

	r.Get("/bookings", h.adminListBookings)
	r.Get("/payments", h.adminListPayments)

	r.Post("/categories", h.adminCreateCategory)
	r.Put("/categories/{id}", h.adminUpdateCategory)
	r.Delete("/categories/{id}", h.adminDeleteCategory)

	r.Put("/pages/{key}", h.adminSetPage)
}

func (h *Handlers) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.AdminListUsers(r.Context(), requestInfo(r).token)
	if err != nil {
		writeErr(w, err)
		return
	}
	if users == nil {
		users = []domain.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handlers) adminVerifyUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.Admin.AdminVerifyUser(r.Context(), requestInfo(r).token, id)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *Handlers) adminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.AdminDeleteUser(r.Context(), requestInfo(r).token, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminListProperties(w http.ResponseWriter, r *http.Request) {
	page, err := h.Admin.AdminListProperties(r.Context(), requestInfo(r).token, propertyQueryFrom(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) adminModerate(action func(domain.AdminAPI, context.Context, string, int64) (domain.Property, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		p, err := action(h.Admin, r.Context(), requestInfo(r).token, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func (h *Handlers) adminListBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Admin.AdminListBookings(r.Context(), requestInfo(r).token)
	if err != nil {
		writeErr(w, err)
		return
	}
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) adminListPayments(w http.ResponseWriter, r *http.Request) {
	ps, err := h.Admin.AdminListPayments(r.Context(), requestInfo(r).token)
	if err != nil {
		writeErr(w, err)
		return
	}
	if ps == nil {
		ps = []domain.Payment{}
	}
	writeJSON(w, http.StatusOK, ps)
}

func (h *Handlers) adminCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := h.Admin.AdminCreateCategory(r.Context(), requestInfo(r).token, req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

func (h *Handlers) adminUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	cat, err := h.Admin.AdminUpdateCategory(r.Context(), requestInfo(r).token, id, req.Name)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *Handlers) adminDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Admin.AdminDeleteCategory(r.Context(), requestInfo(r).token, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) adminSetPage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Store.SetPageContent(r.Context(), chi.URLParam(r, "key"), req.Text); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
