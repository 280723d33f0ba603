package store

import (
	"KneeHeal/backend/go/internal/models"
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoPredictionArchive 把每次写回的预测追加到 MongoDB 集合中, 用于审计和离线分析。
type MongoPredictionArchive struct {
	collection inserter
}

// NewMongoPredictionArchive creates a new MongoPredictionArchive.
func NewMongoPredictionArchive(db *mongo.Database, collectionName string) *MongoPredictionArchive {
	return &MongoPredictionArchive{collection: db.Collection(collectionName)}
}

func (a *MongoPredictionArchive) Name() string { return "mongodb" }

// Record inserts the event as a new document keyed by its id.
func (a *MongoPredictionArchive) Record(ctx context.Context, event *models.PredictionEvent) error {
	_, err := a.collection.InsertOne(ctx, event)
	return err
}
