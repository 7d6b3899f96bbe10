package api

import (
	"encoding/json"
	"io"
	"net/http"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const maxWebhookBodyBytes = int64(65536)

type PaymentHandler struct {
	payments      *service.PaymentService
	webhookSecret string
}

func NewPaymentHandler(payments *service.PaymentService, webhookSecret string) *PaymentHandler {
	return &PaymentHandler{payments: payments, webhookSecret: webhookSecret}
}

func (h *PaymentHandler) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var req entities.PaymentIntentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Forbidden("forbidden access"))
		return
	}

	resp, err := h.payments.CreateIntent(r.Context(), req.BookingID, claims.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecordPayment binds the payment to the caller's token email.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req db.Payment
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, r, apperrors.Forbidden("forbidden access"))
		return
	}
	req.Email = claims.Email

	res, err := h.payments.RecordPayment(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *PaymentHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		log.Warn().Err(err).Msg("reading webhook body")
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		log.Warn().Err(err).Msg("webhook signature verification failed")
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			log.Warn().Err(err).Msg("parsing payment_intent")
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := h.payments.ConfirmIntent(r.Context(), pi.Metadata, pi.ID); err != nil {
			// Unknown bookings are acknowledged so Stripe stops retrying.
			if apperrors.StatusOf(err) >= http.StatusInternalServerError {
				log.Error().Err(err).Str("payment_intent", pi.ID).Msg("confirming payment")
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			log.Warn().Err(err).Str("payment_intent", pi.ID).Msg("payment intent not applied")
		}
	default:
		log.Debug().Str("type", string(event.Type)).Msg("unhandled event type")
	}

	w.WriteHeader(http.StatusOK)
}
