package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDatabase connects to MONGO_TEST_URI and returns a throwaway database.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	mdb := client.Database("doctorsportal_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mdb.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	require.NoError(t, ensureBookingIndex(ctx, mdb.Collection(bookingsCollection)))
	require.NoError(t, ensureAdminIndex(ctx, mdb.Collection(adminsCollection)))
	return mdb
}

func TestMongoAvailabilityForDate(t *testing.T) {
	mdb := testDatabase(t)
	ctx := context.Background()

	services := NewServiceRepository(mdb)
	require.NoError(t, services.UpsertService(ctx, &db.Service{Name: "Teeth Cleaning", Slots: []string{"08.00", "08.30", "09.00"}, Price: 25}))
	require.NoError(t, services.UpsertService(ctx, &db.Service{Name: "Fluoride", Slots: []string{"10.00"}}))

	// Bookings written by the existing clients.
	_, err := mdb.Collection(bookingsCollection).InsertMany(ctx, []interface{}{
		bson.M{"Date": "Jan 2, 2026", "Service": "Teeth Cleaning", "Email": "a@x.io", "Time": "08.30"},
		bson.M{"Date": "Jan 3, 2026", "Service": "Teeth Cleaning", "Email": "b@x.io", "Time": "09.00"},
		bson.M{"Date": "Jan 2, 2026", "Service": "Fluoride", "Email": "c@x.io", "Time": "10.00"},
	})
	require.NoError(t, err)

	bookings := NewBookingRepository(mdb)
	out, err := bookings.AvailabilityForDate(ctx, "Jan 2, 2026")
	require.NoError(t, err)
	require.Len(t, out, 2)

	got := map[string][]string{}
	for _, o := range out {
		got[o.Name] = o.Slots
	}
	assert.Equal(t, []string{"08.00", "09.00"}, got["Teeth Cleaning"])
	assert.Empty(t, got["Fluoride"])

	found, err := bookings.FindBookingsByKey(ctx, "Jan 2, 2026", "Teeth Cleaning", "a@x.io")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "08.30", found[0].Time)

	mine, err := bookings.FindBookingsByEmail(ctx, "b@x.io")
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestMongoUniqueIndexes(t *testing.T) {
	mdb := testDatabase(t)
	ctx := context.Background()

	bookings := NewBookingRepository(mdb)
	b := db.Booking{Date: "d", Service: "Fluoride", Email: "a@x.io", Time: "A"}
	_, err := bookings.InsertBooking(ctx, &b)
	require.NoError(t, err)
	dup := b
	_, err = bookings.InsertBooking(ctx, &dup)
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	admins := NewAdminAuthRepository(mdb)
	require.NoError(t, admins.CreateNewUser(ctx, "admin@x.io", "pw"))
	assert.ErrorIs(t, admins.CreateNewUser(ctx, "admin@x.io", "pw2"), repository.ErrDuplicate)
}

func TestMongoUpsertServiceKeepsID(t *testing.T) {
	mdb := testDatabase(t)
	ctx := context.Background()
	services := NewServiceRepository(mdb)

	first := &db.Service{Name: "Fluoride", Slots: []string{"A"}}
	require.NoError(t, services.UpsertService(ctx, first))
	require.NotEmpty(t, first.ID)

	second := &db.Service{Name: "Fluoride", Slots: []string{"A", "B"}, Price: 5}
	require.NoError(t, services.UpsertService(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	users := NewUserRepository(mdb)
	_, err := mdb.Collection(usersCollection).InsertOne(ctx, bson.M{"name": "Ada", "Email": "ada@x.io"})
	require.NoError(t, err)
	u, err := users.FindUserByEmail(ctx, "ada@x.io")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "Ada", u.Name)
}
