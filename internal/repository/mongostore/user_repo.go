package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(mdb *mongo.Database) *UserRepository {
	return &UserRepository{coll: mdb.Collection(usersCollection)}
}

func (r *UserRepository) InsertUser(ctx context.Context, u *db.User) (string, error) {
	doc := userDoc{ID: primitive.NewObjectID(), Name: u.Name, Email: u.Email, Role: u.Role}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID.Hex()
	return u.ID, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	var doc userDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "Email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &db.User{ID: hexOrEmpty(doc.ID), Name: doc.Name, Email: doc.Email, Role: doc.Role}, nil
}

type AdminAuthRepository struct {
	coll *mongo.Collection
}

func NewAdminAuthRepository(mdb *mongo.Database) *AdminAuthRepository {
	return &AdminAuthRepository{coll: mdb.Collection(adminsCollection)}
}

func (r *AdminAuthRepository) GetByEmail(ctx context.Context, email string) (*db.Admin, error) {
	var doc adminDoc
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &db.Admin{Email: doc.Email, PasswordHash: doc.PasswordHash}, nil
}

func (r *AdminAuthRepository) CreateNewUser(ctx context.Context, email, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, adminDoc{Email: email, PasswordHash: string(hashedPassword)})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("admin %s: %w", email, repository.ErrDuplicate)
	}
	return err
}

type PaymentRepository struct {
	coll *mongo.Collection
}

func NewPaymentRepository(mdb *mongo.Database) *PaymentRepository {
	return &PaymentRepository{coll: mdb.Collection(paymentsCollection)}
}

func (r *PaymentRepository) InsertPayment(ctx context.Context, p *db.Payment) (string, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	doc := paymentDoc{
		ID:            primitive.NewObjectID(),
		BookingID:     p.BookingID,
		Email:         p.Email,
		TransactionID: p.TransactionID,
		Amount:        p.Amount,
		Currency:      p.Currency,
		CreatedAt:     p.CreatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	p.ID = doc.ID.Hex()
	return p.ID, nil
}
