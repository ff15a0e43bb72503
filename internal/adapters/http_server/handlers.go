// internal/adapters/http_server/handlers.go
package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"hotel_booking/internal/adapters/qrcode"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/pricing"
)

const maxBody = 1 << 20

type Handlers struct {
	Catalog  *app.CatalogService
	Bookings *app.BookingService
	Offers   *app.OfferService
	Auth     *app.AuthService
	QR       *qrcode.Encoder
}

type problem struct {
	Type   string              `json:"type"`
	Title  string              `json:"title"`
	Status int                 `json:"status"`
	Detail string              `json:"detail,omitempty"`
	Errors []domain.FieldError `json:"errors,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/states", h.listStates)
	s.mux.Get("/states/{id}", h.getState)
	s.mux.Get("/states/{id}/cities", h.listCities)
	s.mux.Get("/cities", h.listAllCities)
	s.mux.Get("/hotels", h.listHotels)
	s.mux.Get("/hotels/byState/{stateId}", h.hotelsByState)
	s.mux.Get("/hotels/search/{query}", h.searchHotels)
	s.mux.Get("/hotels/{id}", h.getHotel)
	s.mux.Get("/hotels/{id}/quote", h.quote)
	s.mux.Get("/packages", h.listPackages)
	s.mux.Get("/offers", h.listOffers)
	s.mux.Get("/offers/{code}", h.getOffer)
	s.mux.Post("/offers/validate", h.validateOffer)
	s.mux.Post("/generate-qr-code", h.generateQR)

	s.mux.Post("/register", h.register)
	s.mux.Post("/login", h.login)

	s.mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(h.Auth))
		r.Post("/logout", h.logout)
		r.Get("/user", h.currentUser)
		r.Post("/bookings", h.createBooking)
		r.Get("/bookings", h.listBookings)
		r.Get("/bookings/{id}", h.getBooking)
		r.Post("/bookings/{id}/cancel", h.cancelBooking)
	})
}

// ---- responses ----

func writeProblem(w http.ResponseWriter, status int, title, detail string, fields ...domain.FieldError) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{Type: "about:blank", Title: title, Status: status, Detail: detail, Errors: fields}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps domain errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", "request failed validation", ve.Fields...)
	case errors.Is(err, domain.ErrInvalidInput):
		writeProblem(w, http.StatusBadRequest, "Invalid Input", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "booking belongs to another user")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		writeProblem(w, http.StatusBadRequest, "Already Cancelled", err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		writeProblem(w, http.StatusConflict, "Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
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

// writeCached serves catalog reads with a weak ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

// ---- request helpers ----

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", "must be a JSON object")
	}
	return nil
}

// pathID only rejects ids that do not parse; lookups decide NotFound.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return id, nil
}

func queryID(r *http.Request, name string) (*int64, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil, domain.NewValidationError(name, "must be an integer")
	}
	return &id, nil
}

func currentUserID(r *http.Request) (int64, error) {
	uid, ok := UserID(r.Context())
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	return uid, nil
}

// ---- catalog ----

func (h *Handlers) listStates(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListStates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getState(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	st, err := h.Catalog.GetState(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, st)
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Catalog.ListCities(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listAllCities(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.ListAllCities(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) hotelsByState(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "stateId")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Catalog.HotelsByState(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	stateID, err := queryID(r, "stateId")
	if err != nil {
		writeError(w, err)
		return
	}
	cityID, err := queryID(r, "cityId")
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Catalog.ListHotels(r.Context(), domain.HotelFilter{
		StateID: stateID,
		CityID:  cityID,
		Query:   r.URL.Query().Get("query"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) searchHotels(w http.ResponseWriter, r *http.Request) {
	out, err := h.Catalog.SearchHotels(r.Context(), chi.URLParam(r, "query"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	hotel, err := h.Catalog.GetHotel(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, hotel)
}

type quoteResponse struct {
	Quote pricing.Quote        `json:"quote"`
	Offer *app.OfferEvaluation `json:"offer,omitempty"`
}

func (h *Handlers) quote(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	in, out, err := app.ParseStayRange(q.Get("checkIn"), q.Get("checkOut"))
	if err != nil {
		writeError(w, err)
		return
	}
	quote, err := h.Bookings.Quote(r.Context(), id, in, out)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := quoteResponse{Quote: quote}
	if code := strings.TrimSpace(q.Get("offerCode")); code != "" {
		ev, err := h.Offers.Evaluate(r.Context(), code, quote.Subtotal)
		if err != nil {
			writeError(w, err)
			return
		}
		resp.Offer = &ev
	}
	writeJSON(w, http.StatusOK, resp)
}

// ---- packages & offers ----

func (h *Handlers) listPackages(w http.ResponseWriter, r *http.Request) {
	out, err := h.Offers.ListPackages(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) listOffers(w http.ResponseWriter, r *http.Request) {
	out, err := h.Offers.ListOffers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, out)
}

func (h *Handlers) getOffer(w http.ResponseWriter, r *http.Request) {
	o, err := h.Offers.GetOfferByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeCached(w, r, o)
}

func (h *Handlers) validateOffer(w http.ResponseWriter, r *http.Request) {
	var req app.ValidateOfferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := app.Validate(req); err != nil {
		writeError(w, err)
		return
	}
	ev, err := h.Offers.Evaluate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (h *Handlers) generateQR(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentInfo json.RawMessage `json:"paymentInfo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	raw := bytes.TrimSpace(req.PaymentInfo)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		writeError(w, domain.NewValidationError("paymentInfo", "is required"))
		return
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		writeError(w, domain.NewValidationError("paymentInfo", "must be valid JSON"))
		return
	}
	url, err := h.QR.DataURL(compact.Bytes())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"qrCode": url})
}

// ---- auth ----

type loginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	var req app.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Auth.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	var req app.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	tok, u, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: tok, User: u})
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) currentUser(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	u, err := h.Auth.CurrentUser(r.Context(), uid)
	if errors.Is(err, domain.ErrNotFound) {
		err = domain.ErrUnauthorized
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ---- bookings ----

func (h *Handlers) createBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req app.CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	nb, err := req.ToNewBooking(uid)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookings.CreateBooking(r.Context(), nb)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *Handlers) listBookings(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	out, err := h.Bookings.ListBookingsForUser(r.Context(), uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) getBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookings.GetBooking(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *Handlers) cancelBooking(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := h.Bookings.CancelBooking(r.Context(), id, uid)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}
