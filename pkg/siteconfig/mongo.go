package siteconfig

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoRepository stores the document in the site_config collection.
type MongoRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewMongoRepository creates a repository on db.site_config.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName), now: time.Now}
}

// Get returns the most recently updated document.
func (r *MongoRepository) Get(ctx context.Context) (*SiteConfig, error) {
	var out SiteConfig
	err := r.coll.FindOne(ctx, bson.D{},
		options.FindOne().SetSort(bson.D{{Key: "updated_at", Value: -1}}),
	).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Save upserts the document by ID.
func (r *MongoRepository) Save(ctx context.Context, cfg *SiteConfig) error {
	if cfg == nil {
		return ErrInvalidConfig
	}
	doc := prepare(cfg, r.now())
	_, err := r.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: doc.ID}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	*cfg = *doc
	return nil
}

// EnsureDefault inserts def only when the collection has no document. The
// empty filter makes the upsert match any existing document, so concurrent
// callers cannot create two.
func (r *MongoRepository) EnsureDefault(ctx context.Context, def *SiteConfig) (bool, error) {
	if def == nil {
		return false, ErrInvalidConfig
	}
	doc := prepare(def, r.now())
	res, err := r.coll.UpdateOne(ctx,
		bson.D{},
		bson.D{{Key: "$setOnInsert", Value: doc}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}
