package repository

import (
	"context"
	"time"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OutboxRepository struct {
	collection *mongo.Collection
}

func NewOutboxRepository(db *mongo.Database) *OutboxRepository {
	return &OutboxRepository{
		collection: db.Collection("notification_outbox"),
	}
}

func (r *OutboxRepository) Insert(events ...*models.OutboxEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(events))
	now := time.Now()
	for _, e := range events {
		if e.ID.IsZero() {
			e.ID = primitive.NewObjectID()
		}
		e.Status = models.OutboxStatusPending
		e.CreatedAt = now
		e.UpdatedAt = now
		docs = append(docs, e)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindPending returns up to limit undelivered events, oldest first.
func (r *OutboxRepository) FindPending(limit int) ([]*models.OutboxEvent, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"status": models.OutboxStatusPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.OutboxEvent
	for cursor.Next(ctx) {
		var event models.OutboxEvent
		if err := cursor.Decode(&event); err != nil {
			return nil, err
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *OutboxRepository) MarkSent(id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":     models.OutboxStatusSent,
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"attempts": 1},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

// MarkFailed records a delivery failure. Events stay pending until the
// attempt budget runs out so the dispatcher retries them.
func (r *OutboxRepository) MarkFailed(id primitive.ObjectID, sendErr error, maxAttempts int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var event models.OutboxEvent
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		return err
	}

	status := models.OutboxStatusPending
	if event.Attempts+1 >= maxAttempts {
		status = models.OutboxStatusFailed
	}

	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"last_error": sendErr.Error(),
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"attempts": 1},
	}

	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}
