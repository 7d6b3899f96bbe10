package api

import (
	"net/http"

	"doctorsportal/internal/db"
	"doctorsportal/internal/service"

	"github.com/gorilla/mux"
)

type AdminHandler struct {
	bookings *service.BookingService
	catalog  *service.CatalogService
}

func NewAdminHandler(bookings *service.BookingService, catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{bookings: bookings, catalog: catalog}
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListForDate(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *AdminHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, services)
}

// UpsertService takes the service name from the path; a name in the body is ignored.
func (h *AdminHandler) UpsertService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Slots []string `json:"slots"`
		Price float64  `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	svc := &db.Service{Name: mux.Vars(r)["name"], Slots: req.Slots, Price: req.Price}
	if err := h.catalog.UpsertService(r.Context(), svc); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, svc)
}
