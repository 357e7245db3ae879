package session

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// CollectionName is the collection (and table) that holds session records.
const CollectionName = "sessions"

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a store on db.sessions.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{coll: db.Collection(CollectionName)}
}

// EnsureIndexes creates the token, user and expiry indexes. Existing
// indexes with the same definition are left untouched.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "token", Value: 1}}, Options: options.Index().SetName("token_index").SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetName("user_id_index")},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetName("expires_at_index")},
	})
	return err
}

// Create inserts a session document.
func (s *MongoStore) Create(ctx context.Context, session *Session) error {
	if session == nil || session.ID == "" || session.Token == "" {
		return ErrInvalidSession
	}

	doc := session.clone()
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.ExpiresAt = doc.ExpiresAt.UTC()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return err
	}
	return nil
}

// FindByToken fetches the session with the exact token.
func (s *MongoStore) FindByToken(ctx context.Context, token string) (*Session, error) {
	var out Session
	err := s.coll.FindOne(ctx, bson.D{{Key: "token", Value: token}}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Deactivate sets is_active to false.
func (s *MongoStore) Deactivate(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_active", Value: false}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// ListActiveByUser returns active sessions of a user, oldest first.
func (s *MongoStore) ListActiveByUser(ctx context.Context, userID string) ([]*Session, error) {
	cur, err := s.coll.Find(ctx,
		bson.D{{Key: "user_id", Value: userID}, {Key: "is_active", Value: true}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}

	var out []*Session
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
