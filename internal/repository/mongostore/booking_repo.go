package mongostore

import (
	"context"
	"errors"
	"fmt"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	"doctorsportal/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRepository struct {
	bookings *mongo.Collection
	services *mongo.Collection
}

func NewBookingRepository(mdb *mongo.Database) *BookingRepository {
	return &BookingRepository{
		bookings: mdb.Collection(bookingsCollection),
		services: mdb.Collection(servicesCollection),
	}
}

func (r *BookingRepository) FindBookingsByDate(ctx context.Context, date string) ([]db.Booking, error) {
	return r.find(ctx, bson.D{{Key: "Date", Value: date}})
}

func (r *BookingRepository) FindBookingsByKey(ctx context.Context, date, service, email string) ([]db.Booking, error) {
	return r.find(ctx, bson.D{
		{Key: "Date", Value: date},
		{Key: "Service", Value: service},
		{Key: "Email", Value: email},
	})
}

func (r *BookingRepository) FindBookingsByEmail(ctx context.Context, email string) ([]db.Booking, error) {
	return r.find(ctx, bson.D{{Key: "Email", Value: email}})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.D) ([]db.Booking, error) {
	cur, err := r.bookings.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	out := make([]db.Booking, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id string) (*db.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
	}
	var doc bookingDoc
	err = r.bookings.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	b := doc.model()
	return &b, nil
}

func (r *BookingRepository) InsertBooking(ctx context.Context, b *db.Booking) (string, error) {
	doc := newBookingDoc(b)
	doc.ID = primitive.NewObjectID()
	if _, err := r.bookings.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("insert booking: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert booking: %w", err)
	}
	b.ID = doc.ID.Hex()
	return b.ID, nil
}

func (r *BookingRepository) MarkBookingPaid(ctx context.Context, id, transactionID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
	}
	res, err := r.bookings.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "paid", Value: true},
			{Key: "transactionId", Value: transactionID},
		}}},
	)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
	}
	return nil
}

// AvailabilityForDate runs the whole computation as one aggregation over the catalog.
func (r *BookingRepository) AvailabilityForDate(ctx context.Context, date string) ([]entities.ServiceAvailability, error) {
	cur, err := r.services.Aggregate(ctx, availabilityPipeline(date))
	if err != nil {
		return nil, fmt.Errorf("error aggregating availability: %w", err)
	}
	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding availability: %w", err)
	}
	out := make([]entities.ServiceAvailability, 0, len(docs))
	for _, d := range docs {
		s := d.model()
		out = append(out, entities.ServiceAvailability{ID: s.ID, Name: s.Name, Slots: s.Slots, Price: s.Price})
	}
	return out, nil
}

// availabilityPipeline joins each option with its bookings on date and keeps the
// slots not taken. $filter is used over $setDifference so slot order survives.
func availabilityPipeline(date string) mongo.Pipeline {
	matchBooked := bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "$eq", Value: bson.A{"$Service", "$$serviceName"}}},
		bson.D{{Key: "$eq", Value: bson.A{"$Date", bson.D{{Key: "$literal", Value: date}}}}},
	}}}}}}}

	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: bookingsCollection},
			{Key: "let", Value: bson.D{{Key: "serviceName", Value: "$name"}}},
			{Key: "pipeline", Value: bson.A{
				matchBooked,
				bson.D{{Key: "$project", Value: bson.D{{Key: "Time", Value: 1}}}},
			}},
			{Key: "as", Value: "booked"},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: 1},
			{Key: "booked", Value: bson.D{{Key: "$map", Value: bson.D{
				{Key: "input", Value: "$booked"},
				{Key: "as", Value: "book"},
				{Key: "in", Value: "$$book.Time"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "price", Value: 1},
			{Key: "slots", Value: bson.D{{Key: "$filter", Value: bson.D{
				{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$slots", bson.A{}}}}},
				{Key: "as", Value: "slot"},
				{Key: "cond", Value: bson.D{{Key: "$not", Value: bson.A{
					bson.D{{Key: "$in", Value: bson.A{"$$slot", "$booked"}}},
				}}}},
			}}}},
		}}},
	}
}
