package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
)

// Notifier tells a patient about their booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b db.Booking) error
	BookingReminder(ctx context.Context, b db.Booking) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(context.Context, db.Booking) error { return nil }
func (NopNotifier) BookingReminder(context.Context, db.Booking) error  { return nil }

var bookingEmailTmpl = template.Must(template.New("booking_email").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>{{.Heading}}</h2>
  <p>Hello {{.PatientName}},</p>
  <table>
    <tr><td><strong>Treatment</strong></td><td>{{.Service}}</td></tr>
    <tr><td><strong>Date</strong></td><td>{{.Date}}</td></tr>
    {{if .Time}}<tr><td><strong>Time</strong></td><td>{{.Time}}</td></tr>{{end}}
  </table>
  <p style="font-size: 12px; color: #888;">&copy; {{.CurrentYear}} Doctors Portal</p>
</body>
</html>`))

// SenderService sends booking messages by email and SMS. A nil transport is skipped.
type SenderService struct {
	email EmailSender
	sms   SMSSender
	now   func() time.Time
}

func NewSenderService(email EmailSender, sms SMSSender) *SenderService {
	return &SenderService{email: email, sms: sms, now: time.Now}
}

func (s *SenderService) BookingConfirmed(ctx context.Context, b db.Booking) error {
	return s.send(ctx, b, "Your appointment is confirmed",
		fmt.Sprintf("Doctors Portal: your %s appointment on %s %s is confirmed.", b.Service, b.Date, b.Time))
}

func (s *SenderService) BookingReminder(ctx context.Context, b db.Booking) error {
	return s.send(ctx, b, "Appointment reminder",
		fmt.Sprintf("Doctors Portal: reminder, your %s appointment is tomorrow, %s %s.", b.Service, b.Date, b.Time))
}

func (s *SenderService) send(ctx context.Context, b db.Booking, heading, smsBody string) error {
	var errs []error

	if s.email != nil && b.Email != "" {
		subject, plain, html, err := s.buildEmail(b, heading)
		if err != nil {
			errs = append(errs, err)
		} else if err := s.email.SendEmail(ctx, b.Email, b.Patient, subject, plain, html); err != nil {
			errs = append(errs, err)
		}
	}

	if s.sms != nil && b.Phone != "" {
		if err := s.sms.SendSMS(ctx, b.Phone, smsBody); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (s *SenderService) buildEmail(b db.Booking, heading string) (subject, plain, html string, err error) {
	data := entities.BookingEmailData{
		PatientName: b.Patient,
		Service:     b.Service,
		Date:        b.Date,
		Time:        b.Time,
		Heading:     heading,
		CurrentYear: s.now().Year(),
	}
	if data.PatientName == "" {
		data.PatientName = b.Email
	}

	subject = fmt.Sprintf("%s: %s on %s", heading, b.Service, b.Date)
	plain = fmt.Sprintf("Hello %s,\n\n%s.\n\nTreatment: %s\nDate: %s\nTime: %s\n\nDoctors Portal",
		data.PatientName, heading, b.Service, b.Date, b.Time)

	var buf bytes.Buffer
	if err := bookingEmailTmpl.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("render booking email: %w", err)
	}
	return subject, plain, buf.String(), nil
}
