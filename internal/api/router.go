package api

import (
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/service"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Services are the collaborators the HTTP surface dispatches to.
type Services struct {
	Availability  *service.AvailabilityService
	Bookings      *service.BookingService
	Users         *service.UserService
	Tokens        *service.TokenService
	Admins        service.AdminAuthService
	Catalog       *service.CatalogService
	Payments      *service.PaymentService
	WebhookSecret string
	Gatherer      prometheus.Gatherer
}

func NewRouter(s Services) http.Handler {
	users := NewUserHandler(s.Availability, s.Bookings, s.Users, s.Tokens)
	admin := NewAdminHandler(s.Bookings, s.Catalog)
	adminAuth := NewAdminAuthHandler(s.Admins)
	payments := NewPaymentHandler(s.Payments, s.WebhookSecret)
	verify := auth.VerifyJWT(s.Tokens)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/", users.Health).Methods(http.MethodGet)
	r.HandleFunc("/appointOptions", users.AppointOptions).Methods(http.MethodGet)
	r.HandleFunc("/v2/appointOptions", users.AppointOptionsV2).Methods(http.MethodGet)
	r.HandleFunc("/services", admin.ListServices).Methods(http.MethodGet)
	r.HandleFunc("/bookings", users.CreateBooking).Methods(http.MethodPost)
	r.HandleFunc("/addUser", users.AddUser).Methods(http.MethodPost)
	r.HandleFunc("/jwt", users.IssueToken).Methods(http.MethodGet)
	r.HandleFunc("/webhooks/stripe", payments.HandleWebhook).Methods(http.MethodPost)
	r.HandleFunc("/admin/login", adminAuth.Login).Methods(http.MethodPost)

	// Client endpoints (token required)
	r.Handle("/bookings/{id}", verify(http.HandlerFunc(users.GetBooking))).Methods(http.MethodGet)
	r.Handle("/clientBookings", verify(http.HandlerFunc(users.ClientBookings))).Methods(http.MethodGet)
	r.Handle("/create-payment-intent", verify(http.HandlerFunc(payments.CreatePaymentIntent))).Methods(http.MethodPost)
	r.Handle("/payments", verify(http.HandlerFunc(payments.RecordPayment))).Methods(http.MethodPost)

	// Admin endpoints (protected)
	protected := r.PathPrefix("/admin").Subrouter()
	protected.Use(verify, auth.RequireAdmin)
	protected.HandleFunc("/bookings", admin.ListBookings).Methods(http.MethodGet)
	protected.HandleFunc("/services/{name}", admin.UpsertService).Methods(http.MethodPut)
	protected.HandleFunc("/users", adminAuth.CreateUserAdmin).Methods(http.MethodPost)

	if s.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	return accessLog(handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(cors(r)))
}

func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", m.Code).
			Dur("duration", m.Duration).
			Int64("bytes", m.Written).
			Msg("request")
	})
}
