package mongostore

import (
	"context"
	"fmt"

	"doctorsportal/internal/db"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ServiceRepository struct {
	coll *mongo.Collection
}

func NewServiceRepository(mdb *mongo.Database) *ServiceRepository {
	return &ServiceRepository{coll: mdb.Collection(servicesCollection)}
}

func (r *ServiceRepository) ListServices(ctx context.Context) ([]db.Service, error) {
	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	var docs []serviceDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("error decoding services: %w", err)
	}
	out := make([]db.Service, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.model())
	}
	return out, nil
}

// UpsertService sets svc.ID on both the insert and the update path.
func (r *ServiceRepository) UpsertService(ctx context.Context, svc *db.Service) error {
	var doc serviceDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "name", Value: svc.Name}},
		upsertServiceUpdate(svc),
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return fmt.Errorf("upsert service %s: %w", svc.Name, err)
	}
	svc.ID = hexOrEmpty(doc.ID)
	return nil
}

func upsertServiceUpdate(svc *db.Service) bson.D {
	return bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: svc.Name},
		{Key: "slots", Value: svc.Slots},
		{Key: "price", Value: svc.Price},
	}}}
}
