package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailSender delivers one message to one recipient.
type EmailSender interface {
	SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, toNumber, body string) error
}

type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridMailer(apiKey, fromEmail, fromName string) *SendGridMailer {
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *SendGridMailer) SendEmail(ctx context.Context, toEmail, toName, subject, plainText, html string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, html)

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send to %s: %w", toEmail, err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}

	log.Debug().Str("to", toEmail).Str("subject", subject).Int("status", response.StatusCode).Msg("email sent")
	return nil
}

type TwilioSMS struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewTwilioSMS(accountSID, authToken, fromNumber string) *TwilioSMS {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &TwilioSMS{client: client, fromNumber: fromNumber}
}

// SendSMS ignores ctx; the Twilio client has no per-call context.
func (t *TwilioSMS) SendSMS(_ context.Context, toNumber, body string) error {
	if !strings.HasPrefix(toNumber, "+") {
		log.Warn().Str("to", toNumber).Msg("phone number is not E.164, SMS may fail")
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(toNumber)
	params.SetFrom(t.fromNumber)
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", toNumber, err)
	}
	if resp != nil && resp.Sid != nil {
		log.Debug().Str("to", toNumber).Str("sid", *resp.Sid).Msg("sms sent")
	}
	return nil
}
