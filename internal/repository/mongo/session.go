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

// SessionRepository implements domain.SessionRepository
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// sessionQuery translates a typed filter into a bson document. Absent fields
// add no clauses.
func sessionQuery(f domain.SessionFilter) bson.M {
	query := bson.M{}

	if f.Client != nil {
		query["client"] = *f.Client
	}
	if f.ClientChannel != nil {
		query["client_channel"] = *f.ClientChannel
	}
	if f.Active != nil {
		query["active"] = *f.Active
	}
	if f.Handover != nil {
		query["has_handover"] = *f.Handover
	}

	// Inclusive bounds on the update timestamp
	if f.UpdatedAfter != nil || f.UpdatedBefore != nil {
		bounds := bson.M{}
		if f.UpdatedAfter != nil {
			bounds["$gte"] = *f.UpdatedAfter
		}
		if f.UpdatedBefore != nil {
			bounds["$lte"] = *f.UpdatedBefore
		}
		query["updated_at"] = bounds
	}

	if f.SessionIDPattern != "" {
		query["session_id"] = primitive.Regex{Pattern: f.SessionIDPattern, Options: "i"}
	}

	if f.IDs != nil {
		query["_id"] = bson.M{"$in": f.IDs}
	}

	return query
}

func (r *SessionRepository) Insert(ctx context.Context, session *domain.ChatSession) error {
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = now
	}
	if session.Participants == nil {
		session.Participants = []string{}
	}

	res, err := r.db.sessions().InsertOne(ctx, session)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := r.db.sessions().FindOne(ctx, bson.M{"_id": id}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	var s domain.ChatSession
	err := r.db.sessions().FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

func (r *SessionRepository) Count(ctx context.Context, filter domain.SessionFilter) (int64, error) {
	total, err := r.db.sessions().CountDocuments(ctx, sessionQuery(filter))
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return total, nil
}

func (r *SessionRepository) Page(ctx context.Context, filter domain.SessionFilter, skip, limit int64) ([]domain.ChatSession, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	cursor, err := r.db.sessions().Find(ctx, sessionQuery(filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []domain.ChatSession
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("failed to decode sessions: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.ChatSession) error {
	session.UpdatedAt = time.Now().UTC()

	res, err := r.db.sessions().ReplaceOne(ctx, bson.M{"_id": session.ID}, session)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
