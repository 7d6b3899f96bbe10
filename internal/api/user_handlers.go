package api

import (
	stderrors "errors"
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/service"

	"github.com/gorilla/mux"
)

type UserHandler struct {
	availability *service.AvailabilityService
	bookings     *service.BookingService
	users        *service.UserService
	tokens       *service.TokenService
}

func NewUserHandler(availability *service.AvailabilityService, bookings *service.BookingService,
	users *service.UserService, tokens *service.TokenService) *UserHandler {
	return &UserHandler{availability: availability, bookings: bookings, users: users, tokens: tokens}
}

func (h *UserHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("doctors portal server is running"))
}

func (h *UserHandler) AppointOptions(w http.ResponseWriter, r *http.Request) {
	out, err := h.availability.ForDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *UserHandler) AppointOptionsV2(w http.ResponseWriter, r *http.Request) {
	out, err := h.availability.ForDateAggregated(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateBooking answers rejections with the acknowledged=false shape the portal expects.
func (h *UserHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req db.Booking
	var res *entities.BookingResult
	err := decodeJSON(r, &req)
	if err == nil {
		res, err = h.bookings.Submit(r.Context(), &req)
	}
	if err != nil {
		status := apperrors.StatusOf(err)
		if status >= http.StatusInternalServerError {
			writeError(w, r, err)
			return
		}
		rejected := entities.BookingResult{Message: errorMessage(err)}
		var he *apperrors.HTTPError
		if stderrors.As(err, &he) {
			rejected.Fields = he.Fields
		}
		writeJSON(w, status, rejected)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) ClientBookings(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok || claims.Email != email {
		writeError(w, r, apperrors.Forbidden("forbidden access"))
		return
	}

	bookings, err := h.bookings.ListForClient(r.Context(), email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// GetBooking returns one booking to its owner or to an admin.
func (h *UserHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Forbidden("forbidden access"))
		return
	}

	b, err := h.bookings.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if b.Email != claims.Email && claims.Role != auth.RoleAdmin {
		writeError(w, r, apperrors.Forbidden("forbidden access"))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *UserHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	var req db.User
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.users.AddUser(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// IssueToken answers unknown users with 403 and an empty object.
func (h *UserHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.tokens.Issue(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindAuthorization {
			writeJSON(w, http.StatusForbidden, struct{}{})
			return
		}
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entities.TokenResponse{AccessToken: token})
}
