package mongostore

import (
	"time"

	"doctorsportal/internal/db"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type serviceDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Slots []string           `bson:"slots"`
	Price float64            `bson:"price,omitempty"`
}

func (d serviceDoc) model() db.Service {
	slots := d.Slots
	if slots == nil {
		slots = []string{}
	}
	return db.Service{ID: hexOrEmpty(d.ID), Name: d.Name, Slots: slots, Price: d.Price}
}

// Bookings and users keep the capitalized keys of the existing collections.
type bookingDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Date          string             `bson:"Date"`
	Service       string             `bson:"Service"`
	Email         string             `bson:"Email"`
	Time          string             `bson:"Time"`
	Patient       string             `bson:"patient,omitempty"`
	Phone         string             `bson:"phone,omitempty"`
	Price         float64            `bson:"price,omitempty"`
	Paid          bool               `bson:"paid"`
	TransactionID string             `bson:"transactionId,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func newBookingDoc(b *db.Booking) bookingDoc {
	return bookingDoc{
		Date:          b.Date,
		Service:       b.Service,
		Email:         b.Email,
		Time:          b.Time,
		Patient:       b.Patient,
		Phone:         b.Phone,
		Price:         b.Price,
		Paid:          b.Paid,
		TransactionID: b.TransactionID,
		CreatedAt:     b.CreatedAt,
	}
}

func (d bookingDoc) model() db.Booking {
	return db.Booking{
		ID:            hexOrEmpty(d.ID),
		Date:          d.Date,
		Service:       d.Service,
		Email:         d.Email,
		Time:          d.Time,
		Patient:       d.Patient,
		Phone:         d.Phone,
		Price:         d.Price,
		Paid:          d.Paid,
		TransactionID: d.TransactionID,
		CreatedAt:     d.CreatedAt,
	}
}

type userDoc struct {
	ID    primitive.ObjectID `bson:"_id,omitempty"`
	Name  string             `bson:"name"`
	Email string             `bson:"Email"`
	Role  string             `bson:"role,omitempty"`
}

type adminDoc struct {
	Email        string `bson:"email"`
	PasswordHash string `bson:"passwordHash"`
}

type paymentDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	BookingID     string             `bson:"bookingId"`
	Email         string             `bson:"email"`
	TransactionID string             `bson:"transactionId"`
	Amount        int64              `bson:"amount"`
	Currency      string             `bson:"currency"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

func hexOrEmpty(id primitive.ObjectID) string {
	if id.IsZero() {
		return ""
	}
	return id.Hex()
}
