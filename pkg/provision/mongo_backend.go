package provision

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	mongox "github.com/vidshop/storefront/pkg/mongo"
)

// metaCollection holds a marker document that materialises the database.
const metaCollection = "storefront_meta"

// MongoBackend provisions collections on a MongoDB database. Attributes are
// enforced with a $jsonSchema validator that grows one property per call.
type MongoBackend struct {
	db *mongo.Database

	mu      sync.Mutex
	schemas map[string][]Attribute
}

// NewMongoBackend creates a backend on db.
func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db, schemas: make(map[string][]Attribute)}
}

func (b *MongoBackend) Ping(ctx context.Context) error {
	return b.db.Client().Ping(ctx, nil)
}

// EnsureDatabase writes the schema marker. MongoDB creates databases
// lazily, so the database is new when its name was not listed before.
func (b *MongoBackend) EnsureDatabase(ctx context.Context) (bool, error) {
	names, err := b.db.Client().ListDatabaseNames(ctx, bson.D{{Key: "name", Value: b.db.Name()}})
	if err != nil {
		return false, err
	}

	_, err = b.db.Collection(metaCollection).UpdateOne(ctx,
		bson.D{{Key: "_id", Value: "schema"}},
		bson.D{{Key: "$setOnInsert", Value: bson.D{
			{Key: "database", Value: DatabaseName},
			{Key: "created_at", Value: time.Now().UTC()},
		}}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return len(names) == 0, nil
}

func (b *MongoBackend) EnsureCollection(ctx context.Context, spec CollectionSpec) (bool, error) {
	err := b.db.CreateCollection(ctx, spec.ID)
	if mongox.IsNamespaceExists(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *MongoBackend) CollectionExists(ctx context.Context, id string) (bool, error) {
	names, err := b.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: id}})
	if err != nil {
		return false, err
	}
	return len(names) > 0, nil
}

// EnsureAttribute adds attr to the collection validator. Re-adding a known
// attribute returns ErrAlreadyExists without touching the server.
func (b *MongoBackend) EnsureAttribute(ctx context.Context, collection string, attr Attribute) error {
	b.mu.Lock()
	attrs := b.schemas[collection]
	if slices.ContainsFunc(attrs, func(a Attribute) bool { return a.Key == attr.Key }) {
		b.mu.Unlock()
		return ErrAlreadyExists
	}
	next := append(slices.Clone(attrs), attr)
	b.mu.Unlock()

	cmd := bson.D{
		{Key: "collMod", Value: collection},
		{Key: "validator", Value: bson.D{{Key: "$jsonSchema", Value: JSONSchema(next)}}},
		{Key: "validationLevel", Value: "moderate"},
	}
	if err := b.db.RunCommand(ctx, cmd).Err(); err != nil {
		return err
	}

	b.mu.Lock()
	b.schemas[collection] = next
	b.mu.Unlock()
	return nil
}

func (b *MongoBackend) EnsureIndex(ctx context.Context, collection string, idx Index) error {
	keys := make(bson.D, 0, len(idx.Attributes))
	for _, a := range idx.Attributes {
		keys = append(keys, bson.E{Key: a, Value: 1})
	}

	_, err := b.db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(idx.Key).SetUnique(idx.Type == IndexUnique),
	})
	if mongox.IsIndexConflict(err) {
		return ErrAlreadyExists
	}
	return err
}

// JSONSchema renders attrs as a MongoDB $jsonSchema document.
func JSONSchema(attrs []Attribute) bson.M {
	props := bson.M{}
	required := bson.A{}
	for _, a := range attrs {
		prop := propertySchema(a)
		if a.Array {
			prop = bson.M{"bsonType": "array", "items": prop}
		}
		props[a.Key] = prop
		if a.Required {
			required = append(required, a.Key)
		}
	}

	schema := bson.M{"bsonType": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func propertySchema(a Attribute) bson.M {
	var prop bson.M
	switch a.Type {
	case AttrString:
		prop = bson.M{"bsonType": "string"}
		if a.Size > 0 {
			prop["maxLength"] = a.Size
		}
	case AttrInteger:
		prop = bson.M{"bsonType": bson.A{"int", "long"}}
	case AttrFloat:
		prop = bson.M{"bsonType": bson.A{"double", "int", "long", "decimal"}}
	case AttrBoolean:
		prop = bson.M{"bsonType": "bool"}
	case AttrDatetime:
		prop = bson.M{"bsonType": "date"}
	default:
		prop = bson.M{}
	}
	if a.Min != nil && (a.Type == AttrInteger || a.Type == AttrFloat) {
		prop["minimum"] = *a.Min
	}
	return prop
}
