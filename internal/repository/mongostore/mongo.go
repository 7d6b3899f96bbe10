package mongostore

import (
	"context"
	"fmt"

	"doctorsportal/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	servicesCollection = "appointmentOptions"
	bookingsCollection = "bookings"
	usersCollection    = "users"
	adminsCollection   = "admins"
	paymentsCollection = "payments"
)

// Open connects with the stable v1 server API and returns the mongo-backed store.
// uniqueBookings adds a unique index over (Date, Service, Email). Admin emails are
// always unique.
func Open(ctx context.Context, uri, database string, uniqueBookings bool) (*repository.Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	mdb := client.Database(database)
	if err := ensureAdminIndex(ctx, mdb.Collection(adminsCollection)); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	if uniqueBookings {
		if err := ensureBookingIndex(ctx, mdb.Collection(bookingsCollection)); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	bookings := NewBookingRepository(mdb)
	return &repository.Store{
		Services:     NewServiceRepository(mdb),
		Bookings:     bookings,
		Availability: bookings,
		Users:        NewUserRepository(mdb),
		Admins:       NewAdminAuthRepository(mdb),
		Payments:     NewPaymentRepository(mdb),
		Close:        client.Disconnect,
	}, nil
}

func ensureBookingIndex(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "Date", Value: 1},
			{Key: "Service", Value: 1},
			{Key: "Email", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("date_service_email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create booking unique index: %w", err)
	}
	return nil
}

func ensureAdminIndex(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("email_unique"),
	})
	if err != nil {
		return fmt.Errorf("create admin unique index: %w", err)
	}
	return nil
}
