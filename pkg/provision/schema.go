package provision

import (
	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/session"
	"github.com/vidshop/storefront/pkg/siteconfig"
)

// DatabaseName is the logical database every collection lives in.
const DatabaseName = "video_site_db"

// Collection types.
const (
	TypeVideo   = "video"
	TypeUser    = "user"
	TypeConfig  = "config"
	TypeSession = "session"
)

// Attribute types.
const (
	AttrString   = "string"
	AttrInteger  = "integer"
	AttrFloat    = "float"
	AttrBoolean  = "boolean"
	AttrDatetime = "datetime"
)

// Index types.
const (
	IndexKey    = "key"
	IndexUnique = "unique"
)

// Attribute describes one field of a collection.
type Attribute struct {
	Key      string
	Type     string
	Size     int
	Required bool
	Min      *float64
	Array    bool
}

// Index describes one index of a collection.
type Index struct {
	Key        string
	Type       string
	Attributes []string
}

// CollectionSpec is a collection with its fields and indexes.
type CollectionSpec struct {
	ID         string
	Name       string
	Type       string
	Attributes []Attribute
	Indexes    []Index
}

// BucketSpec is an object storage bucket.
type BucketSpec struct {
	ID   string
	Name string
}

func zero() *float64 {
	v := 0.0
	return &v
}

func str(key string, size int, required bool) Attribute {
	return Attribute{Key: key, Type: AttrString, Size: size, Required: required}
}

// Collections returns the four storefront collections in setup order.
func Collections() []CollectionSpec {
	types := []struct{ id, name, typ string }{
		{"videos", "Videos", TypeVideo},
		{"users", "Users", TypeUser},
		{siteconfig.CollectionName, "Site Config", TypeConfig},
		{session.CollectionName, "Sessions", TypeSession},
	}
	out := make([]CollectionSpec, 0, len(types))
	for _, t := range types {
		spec, _ := SpecFor(t.id, t.name, t.typ)
		out = append(out, spec)
	}
	return out
}

// SpecFor builds the spec of a collection of the given type. It reports
// false for an unknown type.
func SpecFor(id, name, typ string) (CollectionSpec, bool) {
	attrs, ok := attributesFor(typ)
	if !ok {
		return CollectionSpec{}, false
	}
	return CollectionSpec{
		ID:         id,
		Name:       name,
		Type:       typ,
		Attributes: attrs,
		Indexes:    indexesFor(typ),
	}, true
}

func attributesFor(typ string) ([]Attribute, bool) {
	switch typ {
	case TypeVideo:
		return []Attribute{
			str("title", 255, true),
			str("description", 2000, false),
			{Key: "price", Type: AttrFloat, Required: true, Min: zero()},
			{Key: "duration", Type: AttrInteger, Min: zero()},
			str("video_id", 255, false),
			str("thumbnail_id", 255, false),
			{Key: "created_at", Type: AttrDatetime},
			{Key: "is_active", Type: AttrBoolean},
			{Key: "views", Type: AttrInteger, Min: zero()},
			str("product_link", 500, false),
		}, true
	case TypeUser:
		return []Attribute{
			str("email", 255, true),
			str("name", 255, true),
			str("password", 255, true),
			{Key: "created_at", Type: AttrDatetime},
		}, true
	case TypeConfig:
		return []Attribute{
			str("site_name", 255, true),
			str("paypal_client_id", 255, false),
			str("stripe_publishable_key", 255, false),
			str("stripe_secret_key", 255, false),
			str("telegram_username", 255, false),
			str("video_list_title", 255, false),
			{Key: "crypto", Type: AttrString, Size: 2000, Array: true},
			str("email_host", 255, false),
			str("email_port", 10, false),
			{Key: "email_secure", Type: AttrBoolean},
			str("email_user", 255, false),
			str("email_pass", 255, false),
			str("email_from", 255, false),
		}, true
	case TypeSession:
		return []Attribute{
			str("user_id", 255, true),
			str("token", 255, true),
			{Key: "expires_at", Type: AttrDatetime, Required: true},
			{Key: "created_at", Type: AttrDatetime},
			str("ip_address", 45, false),
			str("user_agent", 1000, false),
		}, true
	default:
		return nil, false
	}
}

func indexesFor(typ string) []Index {
	switch typ {
	case TypeVideo:
		return []Index{
			{Key: "title_index", Type: IndexKey, Attributes: []string{"title"}},
			{Key: "created_at_index", Type: IndexKey, Attributes: []string{"created_at"}},
			{Key: "is_active_index", Type: IndexKey, Attributes: []string{"is_active"}},
		}
	case TypeUser:
		return []Index{
			{Key: "email_index", Type: IndexUnique, Attributes: []string{"email"}},
		}
	case TypeSession:
		return []Index{
			{Key: "token_index", Type: IndexUnique, Attributes: []string{"token"}},
			{Key: "user_id_index", Type: IndexKey, Attributes: []string{"user_id"}},
			{Key: "expires_at_index", Type: IndexKey, Attributes: []string{"expires_at"}},
		}
	default:
		return nil
	}
}

// Buckets returns the storage buckets in setup order.
func Buckets() []BucketSpec {
	return []BucketSpec{
		{ID: file.VideosBucket, Name: "Videos"},
		{ID: file.ThumbnailsBucket, Name: "Thumbnails"},
	}
}
