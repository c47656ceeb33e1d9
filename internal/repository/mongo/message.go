package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/converso/chat-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// refQuery matches a message by ObjectID when ref parses as one, otherwise by
// the id assigned by an external system.
func refQuery(ref string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(ref); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"external_id": ref}
}

func messageQuery(f domain.MessageFilter) bson.M {
	query := bson.M{}
	if f.Session != nil {
		query["session"] = *f.Session
	}
	if f.Sender != "" {
		query["sender"] = f.Sender
	}
	return query
}

func (r *MessageRepository) Insert(ctx context.Context, message *domain.ChatMessage) error {
	now := time.Now().UTC()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = now
	}
	if message.UpdatedAt.IsZero() {
		message.UpdatedAt = now
	}
	if message.SenderType == "" {
		message.SenderType = domain.SenderUser
	}
	if message.Category == "" {
		message.Category = domain.CategoryMessage
	}

	res, err := r.db.messages().InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		message.ID = oid
	}
	return nil
}

func (r *MessageRepository) Get(ctx context.Context, ref string) (*domain.ChatMessage, error) {
	var m domain.ChatMessage
	err := r.db.messages().FindOne(ctx, refQuery(ref)).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrMessageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return &m, nil
}

func (r *MessageRepository) Update(ctx context.Context, message *domain.ChatMessage) error {
	message.UpdatedAt = time.Now().UTC()

	res, err := r.db.messages().ReplaceOne(ctx, bson.M{"_id": message.ID}, message)
	if err != nil {
		return fmt.Errorf("failed to update message: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) List(ctx context.Context, filter domain.MessageFilter, limit int64) ([]domain.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.db.messages().Find(ctx, messageQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []domain.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) DistinctSessionIDs(ctx context.Context, sender string) ([]primitive.ObjectID, error) {
	values, err := r.db.messages().Distinct(ctx, "session", bson.M{"sender": sender})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve sender sessions: %w", err)
	}

	ids := make([]primitive.ObjectID, 0, len(values))
	for _, v := range values {
		if oid, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, oid)
		}
	}
	return ids, nil
}
