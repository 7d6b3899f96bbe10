package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	"doctorsportal/internal/metrics"
	"doctorsportal/internal/repository/memstore"
	"doctorsportal/internal/service"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const webhookSecret = "whsec_test"

type stubProvider struct{}

func (stubProvider) CreatePaymentIntent(_ context.Context, amount int64, _, _ string, _ map[string]string) (*service.PaymentIntent, error) {
	return &service.PaymentIntent{ID: "pi_1", ClientSecret: fmt.Sprintf("secret_%d", amount)}, nil
}

type testServer struct {
	handler http.Handler
	store   *memstore.Store
	signer  *auth.Signer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memstore.New(false)
	ctx := context.Background()
	require.NoError(t, store.UpsertService(ctx, &db.Service{Name: "Teeth Cleaning", Slots: []string{"A", "B"}, Price: 25}))
	require.NoError(t, store.UpsertService(ctx, &db.Service{Name: "Fluoride", Slots: []string{"A"}}))

	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("doctors_portal", reg)
	signer := auth.NewSigner("test-secret", time.Hour)

	h := NewRouter(Services{
		Availability:  service.NewAvailabilityService(store, store, store, m),
		Bookings:      service.NewBookingService(store, service.NopNotifier{}, m),
		Users:         service.NewUserService(store),
		Tokens:        service.NewTokenService(store, signer),
		Admins:        service.NewAdminAuthService(store, signer),
		Catalog:       service.NewCatalogService(store),
		Payments:      service.NewPaymentService(store, store, stubProvider{}, "usd"),
		WebhookSecret: webhookSecret,
		Gatherer:      reg,
	})
	return &testServer{handler: h, store: store, signer: signer}
}

func (s *testServer) do(t *testing.T, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "doctors portal server is running", rec.Body.String())
}

func TestBookingFlow(t *testing.T) {
	s := newTestServer(t)
	body := `{"date":"Jan 2, 2026","service":"Teeth Cleaning","email":"a@x.io","time":"A"}`

	rec := s.do(t, http.MethodPost, "/bookings", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	var created entities.BookingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Acknowledged)
	assert.NotEmpty(t, created.InsertedID)

	rec = s.do(t, http.MethodPost, "/bookings", body, "")
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"acknowledged":false,"message":"You already have a booking on Jan 2, 2026"}`, rec.Body.String())

	for _, path := range []string{"/appointOptions", "/v2/appointOptions"} {
		rec = s.do(t, http.MethodGet, path+"?date=Jan+2,+2026", "", "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		var out []entities.ServiceAvailability
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
		require.Len(t, out, 2)
		assert.Equal(t, []string{"B"}, out[0].Slots, path)
		assert.Equal(t, []string{"A"}, out[1].Slots, path)
	}
}

func TestBookingValidation(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/bookings", `{"service":"Teeth Cleaning"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var res entities.BookingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.False(t, res.Acknowledged)
	assert.ElementsMatch(t, []string{"date", "email"}, res.Fields)

	rec = s.do(t, http.MethodPost, "/bookings", `not json`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"acknowledged":false`)
}

func TestTokenAndClientBookings(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/jwt?email=a@x.io", "", "")
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/addUser", `{"name":"Ada","email":"a@x.io"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/jwt?email=a@x.io", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tok entities.TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
	require.NotEmpty(t, tok.AccessToken)

	s.do(t, http.MethodPost, "/bookings", `{"date":"d","service":"Fluoride","email":"a@x.io","time":"A"}`, "")

	rec = s.do(t, http.MethodGet, "/clientBookings?email=a@x.io", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/clientBookings?email=a@x.io", "", "garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/clientBookings?email=b@x.io", "", tok.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"forbidden access"}`, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/clientBookings?email=a@x.io", "", tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	var bookings []db.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bookings))
	assert.Len(t, bookings, 1)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.store.CreateNewUser(context.Background(), "admin@x.io", "pw"))

	clientToken, err := s.signer.Sign("a@x.io", "")
	require.NoError(t, err)
	rec := s.do(t, http.MethodGet, "/admin/bookings?date=d", "", clientToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/admin/login", `{"email":"admin@x.io","password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/admin/login", `{"email":"admin@x.io","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = s.do(t, http.MethodPut, "/admin/services/Fluoride", `{"slots":["A","B","C"],"price":10}`, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/appointOptions?date=d", "", "")
	var out []entities.ServiceAvailability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, []string{"A", "B", "C"}, out[1].Slots)

	rec = s.do(t, http.MethodPut, "/admin/services/Empty", `{"slots":[]}`, login.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/admin/bookings?date=d", "", login.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/admin/users", `{"email":"second@x.io","password":"pw2"}`, login.Token)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/admin/users", `{"email":"second@x.io","password":"pw3"}`, login.Token)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"admin already exists"}`, rec.Body.String())
}

func TestGetBooking(t *testing.T) {
	s := newTestServer(t)
	id, err := s.store.InsertBooking(context.Background(), &db.Booking{Date: "d", Service: "Fluoride", Email: "a@x.io", Time: "A"})
	require.NoError(t, err)

	owner, err := s.signer.Sign("a@x.io", "")
	require.NoError(t, err)
	other, err := s.signer.Sign("eve@x.io", "")
	require.NoError(t, err)
	admin, err := s.signer.Sign("admin@x.io", auth.RoleAdmin)
	require.NoError(t, err)

	rec := s.do(t, http.MethodGet, "/bookings/"+id, "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/bookings/"+id, "", other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, token := range []string{owner, admin} {
		rec = s.do(t, http.MethodGet, "/bookings/"+id, "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var b db.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
		assert.Equal(t, id, b.ID)
		assert.Equal(t, "a@x.io", b.Email)
	}

	rec = s.do(t, http.MethodGet, "/bookings/missing", "", owner)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentRoutes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	booking := &db.Booking{Date: "d", Service: "Teeth Cleaning", Email: "a@x.io", Price: 25}
	id, err := s.store.InsertBooking(ctx, booking)
	require.NoError(t, err)
	token, err := s.signer.Sign("a@x.io", "")
	require.NoError(t, err)

	rec := s.do(t, http.MethodPost, "/create-payment-intent", fmt.Sprintf(`{"bookingId":%q}`, id), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/create-payment-intent", fmt.Sprintf(`{"bookingId":%q}`, id), token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"clientSecret":"secret_2500"}`, rec.Body.String())

	other, err := s.signer.Sign("eve@x.io", "")
	require.NoError(t, err)
	rec = s.do(t, http.MethodPost, "/create-payment-intent", fmt.Sprintf(`{"bookingId":%q}`, id), other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/payments", fmt.Sprintf(`{"bookingId":%q,"transactionId":"txn_1"}`, id), other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/payments", fmt.Sprintf(`{"bookingId":%q,"amount":1,"transactionId":"txn_0"}`, id), token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	b, err := s.store.GetBookingByID(ctx, id)
	require.NoError(t, err)
	assert.False(t, b.Paid)

	rec = s.do(t, http.MethodPost, "/payments", fmt.Sprintf(`{"bookingId":%q,"transactionId":"txn_1"}`, id), token)
	require.Equal(t, http.StatusOK, rec.Code)

	b, err = s.store.GetBookingByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, b.Paid)
	assert.Equal(t, "txn_1", b.TransactionID)
}

func TestStripeWebhook(t *testing.T) {
	s := newTestServer(t)
	id, err := s.store.InsertBooking(context.Background(), &db.Booking{Date: "d", Service: "Fluoride", Email: "a@x.io", Price: 5})
	require.NoError(t, err)

	payload := fmt.Sprintf(`{"id":"evt_1","object":"event","api_version":%q,"type":"payment_intent.succeeded",`+
		`"data":{"object":{"id":"pi_42","object":"payment_intent","metadata":{"booking_id":%q}}}}`, stripe.APIVersion, id)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   []byte(payload),
		Secret:    webhookSecret,
		Timestamp: time.Now(),
	})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", signed.Header)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	b, err := s.store.GetBookingByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, b.Paid)
	assert.Equal(t, "pi_42", b.TransactionID)

	req = httptest.NewRequest(http.MethodPost, "/webhooks/stripe", strings.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/v2/appointOptions?date=d", "", "")

	rec := s.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `doctors_portal_availability_requests_total{version="v2"} 1`)
}
