package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoRepository stores videos in the videos collection.
type MongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository creates a repository on db.videos.
func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(CollectionName)}
}

func (r *MongoRepository) Insert(ctx context.Context, v *Video) error {
	if v == nil || v.ID == "" {
		return ErrInvalidVideo
	}
	doc := v.clone()
	doc.CreatedAt = doc.CreatedAt.UTC()
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrInvalidVideo
		}
		return err
	}
	return nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*Video, error) {
	var out Video
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *MongoRepository) List(ctx context.Context, f Filter) ([]*Video, error) {
	filter := bson.D{}
	if f.ActiveOnly {
		filter = append(filter, bson.E{Key: "is_active", Value: true})
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var out []*Video
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepository) SetFields(ctx context.Context, id string, fields map[string]string) error {
	set := bson.D{}
	var probe Video
	for name, value := range fields {
		if probe.field(name) == nil {
			return ErrUnknownField
		}
		set = append(set, bson.E{Key: name, Value: value})
	}
	if len(set) == 0 {
		return nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: set}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoRepository) IncrementViews(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "views", Value: 1}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
