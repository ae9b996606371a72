package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"makazi/internal/adapters/marketapi"
	"makazi/internal/app"
	"makazi/internal/domain"
)

type Handlers struct {
	Sessions *app.SessionService
	Catalog  *app.CatalogService
	Bookings *app.BookingService
	Payments *app.PaymentService
	Admin    domain.AdminAPI
	Store    domain.SessionStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		// public surface: no session resolution, never authenticated upstream
		r.Post("/session/login", h.login)
		r.Post("/session/register", h.register)
		r.Post("/session/verify", h.verify)
		r.Get("/counts", h.counts)
		r.Get("/categories", h.categories)
		r.Get("/pages/{key}", h.pageContent)

		r.Group(func(r chi.Router) {
			r.Use(h.WithSession)

			r.Get("/properties", h.listProperties)
			r.Get("/properties/{id}", h.getProperty)
			r.Get("/properties/{id}/reviews", h.listReviews)
			r.Post("/properties", h.createProperty)
			r.Put("/properties/{id}", h.updateProperty)
			r.Delete("/properties/{id}", h.deleteProperty)
			r.Post("/properties/{id}/media", h.uploadMedia)

			r.Post("/session/logout", h.logout)
			r.Get("/session/me", h.me)
			r.Put("/session/language", h.setLanguage)
			r.Get("/dashboard", h.dashboard)

			r.Post("/reviews", h.createReview)
			r.Post("/inquiries", h.createInquiry)

			r.Get("/favorites", h.listFavorites)
			r.Post("/favorites", h.addFavorite)
			r.Delete("/favorites/{id}", h.removeFavorite)

			r.Get("/bookings", h.listBookings)
			r.Post("/bookings", h.createBooking)
			r.Post("/bookings/{id}/confirm", h.bookingAction((*app.BookingService).Confirm))
			r.Post("/bookings/{id}/decline", h.bookingAction((*app.BookingService).Decline))
			r.Post("/bookings/{id}/cancel", h.bookingAction((*app.BookingService).Cancel))

			r.Post("/payments", h.initiatePayment)
			r.Get("/payments/{id}", h.paymentStatus)

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(domain.RoleAdmin))
				h.mountAdmin(r)
			})
		})
	})
}

// ---- shared helpers ----

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeErr maps service failures onto HTTP responses. Upstream HTTP errors
// pass through with their own status and message so the frontend sees what
// the API said; transport failures become 502.
func writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, app.ErrAuthRequired) {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}
	var apiErr *marketapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case marketapi.KindTransport:
			writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", apiErr.Message)
		case marketapi.KindHTTP:
			writeProblem(w, apiErr.Status, http.StatusText(apiErr.Status), apiErr.Message)
		default:
			writeProblem(w, http.StatusBadGateway, "Bad Upstream Response", apiErr.Message)
		}
		return
	}
	writeProblem(w, http.StatusBadRequest, "Request Failed", err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return 0, false
	}
	return id, true
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

// ---- session ----

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.Sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.Sessions.Register(r.Context(), req)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *Handlers) verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	res, err := h.Sessions.VerifyEmail(r.Context(), req.Email, req.Code)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(r.Context(), requestInfo(r).token); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) me(w http.ResponseWriter, r *http.Request) {
	info := requestInfo(r)
	if info.session == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	lang, err := h.Store.Language(r.Context(), info.token)
	if err != nil {
		lang = "en"
	}
	writeJSON(w, http.StatusOK, map[string]any{"session": info.session, "language": lang})
}

func (h *Handlers) setLanguage(w http.ResponseWriter, r *http.Request) {
	info := requestInfo(r)
	if info.session == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "no active session")
		return
	}
	var req struct {
		Language string `json:"language"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Store.SetLanguage(r.Context(), info.token, req.Language); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) counts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.Sessions.Counts(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (h *Handlers) pageContent(w http.ResponseWriter, r *http.Request) {
	text, err := h.Store.PageContent(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": chi.URLParam(r, "key"), "text": text})
}

// ---- catalog ----

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	q := propertyQueryFrom(r)
	page, err := h.Catalog.SearchProperties(r.Context(), requestInfo(r).token, q)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func propertyQueryFrom(r *http.Request) domain.PropertyQuery {
	v := r.URL.Query()
	q := domain.PropertyQuery{
		Q:    v.Get("q"),
		City: v.Get("city"),
		Sort: v.Get("sort"),
	}
	q.CategoryID, _ = strconv.ParseInt(v.Get("category_id"), 10, 64)
	q.Page, _ = strconv.Atoi(v.Get("page"))
	q.Limit, _ = strconv.Atoi(v.Get("limit"))
	if s := v.Get("min_price"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			q.MinPrice = &f
		}
	}
	if s := v.Get("max_price"); s != "" {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			q.MaxPrice = &f
		}
	}
	if s := v.Get("bedrooms"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			q.Bedrooms = &n
		}
	}
	return q
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Catalog.Property(r.Context(), requestInfo(r).token, id)
	if err != nil {
		writeErr(w, err)
		return
	}

	etag, body := calcETagAndBody(p)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write getProperty body")
	}
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reviews, err := h.Catalog.Reviews(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handlers) categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Catalog.Categories(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	if cats == nil {
		cats = []domain.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *Handlers) createProperty(w http.ResponseWriter, r *http.Request) {
	var d domain.PropertyDraft
	if !decodeBody(w, r, &d) {
		return
	}
	p, err := h.Catalog.CreateProperty(r.Context(), requestInfo(r).token, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handlers) updateProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var d domain.PropertyDraft
	if !decodeBody(w, r, &d) {
		return
	}
	p, err := h.Catalog.UpdateProperty(r.Context(), requestInfo(r).token, id, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handlers) deleteProperty(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Catalog.DeleteProperty(r.Context(), requestInfo(r).token, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) uploadMedia(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart form expected")
		return
	}
	f, hdr, err := r.FormFile("media")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", `file field "media" is required`)
		return
	}
	defer f.Close()

	images, err := h.Catalog.UploadMedia(r.Context(), requestInfo(r).token, id, hdr.Filename, f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string][]string{"images": images})
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	var d domain.ReviewDraft
	if !decodeBody(w, r, &d) {
		return
	}
	review, err := h.Catalog.CreateReview(r.Context(), requestInfo(r).token, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handlers) createInquiry(w http.ResponseWriter, r *http.Request) {
	var d domain.InquiryDraft
	if !decodeBody(w, r, &d) {
		return
	}
	inq, err := h.Catalog.CreateInquiry(r.Context(), requestInfo(r).token, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inq)
}

func (h *Handlers) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.Catalog.Favorites(r.Context(), requestInfo(r).token)
	if err != nil {
		writeErr(w, err)
		return
	}
	if favs == nil {
		favs = []domain.Favorite{}
	}
	writeJSON(w, http.StatusOK, favs)
}

func (h *Handlers) addFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PropertyID int64 `json:"property_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	fav, err := h.Catalog.AddFavorite(r.Context(), requestInfo(r).token, req.PropertyID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, fav)
}

func (h *Handlers) removeFavorite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Catalog.RemoveFavorite(r.Context(), requestInfo(r).token, id); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- dashboard ----

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	info := requestInfo(r)
	if info.session == nil {
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "login required")
		return
	}
	d, err := h.Catalog.LoadDashboard(r.Context(), info.token, h.Bookings.API())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// ---- bookings ----

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	bs, err := h.Bookings.List(r.Context(), requestInfo(r).token)
	if err != nil {
		writeErr(w, err)
		return
	}
	if bs == nil {
		bs = []domain.Booking{}
	}
	writeJSON(w, http.StatusOK, bs)
}

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	var d domain.BookingDraft
	if !decodeBody(w, r, &d) {
		return
	}
	b, err := h.Bookings.Create(r.Context(), requestInfo(r).token, d)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) bookingAction(action func(*app.BookingService, context.Context, string, int64) (domain.Booking, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		b, err := action(h.Bookings, r.Context(), requestInfo(r).token, id)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}

// ---- payments ----

func (h *Handlers) initiatePayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		domain.PaymentRequest
		Booking *domain.BookingDraft `json:"booking,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	// the legacy frontend carried the staged booking in query parameters;
	// accept that form too
	staged := req.Booking
	if staged == nil {
		staged = stagedBookingFromQuery(r)
	}
	pay, err := h.Payments.Initiate(r.Context(), requestInfo(r).token, req.PaymentRequest, staged)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, pay)
}

func stagedBookingFromQuery(r *http.Request) *domain.BookingDraft {
	v := r.URL.Query()
	propertyID, err := strconv.ParseInt(v.Get("propertyId"), 10, 64)
	if err != nil || propertyID == 0 {
		return nil
	}
	amount, _ := strconv.ParseFloat(v.Get("amount"), 64)
	return &domain.BookingDraft{
		PropertyID:   propertyID,
		StartDate:    v.Get("startDate"),
		EndDate:      v.Get("endDate"),
		DurationType: v.Get("durationType"),
		Amount:       amount,
	}
}

func (h *Handlers) paymentStatus(w http.ResponseWriter, r *http.Request) {
	pay, err := h.Payments.Status(r.Context(), requestInfo(r).token, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pay)
}
