package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medibook/booking-api/internal/model"
	"github.com/medibook/booking-api/internal/repository"
)

type outboxRepository struct {
	col *mongo.Collection
}

func NewOutboxRepository(db *DB) repository.OutboxRepository {
	return &outboxRepository{col: db.db.Collection("outbox")}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	event.ID = primitive.NewObjectID()
	event.Status = model.OutboxStatusPending
	event.CreatedAt = time.Now()

	if _, err := r.col.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to create outbox event: %w", err)
	}
	return nil
}

func (r *outboxRepository) FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, bson.M{"status": model.OutboxStatusPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending events: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*model.OutboxEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode outbox events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) MarkProcessed(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{
		"status":      model.OutboxStatusProcessed,
		"processedAt": now,
	}}
	if _, err := r.col.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to mark event processed: %w", err)
	}
	return nil
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{"status": model.OutboxStatusFailed},
		"$inc": bson.M{"attempts": 1},
	}
	if _, err := r.col.UpdateByID(ctx, id, update); err != nil {
		return fmt.Errorf("failed to mark event failed: %w", err)
	}
	return nil
}
