package catalog

import (
	"context"
	"time"
)

// CollectionName is the collection that holds video documents.
const CollectionName = "videos"

// Stored field names of the encrypted attributes.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldProductLink = "product_link"
	FieldVideoID     = "video_id"
	FieldThumbnailID = "thumbnail_id"
)

// EncryptedFields lists the attributes that are stored encrypted.
var EncryptedFields = []string{
	FieldTitle,
	FieldDescription,
	FieldProductLink,
	FieldVideoID,
	FieldThumbnailID,
}

// Video is a catalog entry. Repositories hold the encrypted form; the
// Service hands out decrypted copies.
type Video struct {
	ID          string    `json:"id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Price       float64   `json:"price" bson:"price"`
	Duration    int64     `json:"duration,omitempty" bson:"duration,omitempty"`
	VideoID     string    `json:"videoId,omitempty" bson:"video_id,omitempty"`
	ThumbnailID string    `json:"thumbnailId,omitempty" bson:"thumbnail_id,omitempty"`
	ProductLink string    `json:"productLink,omitempty" bson:"product_link,omitempty"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	IsActive    bool      `json:"isActive" bson:"is_active"`
	Views       int64     `json:"views" bson:"views"`
}

// field returns a pointer to the named encrypted attribute.
func (v *Video) field(name string) *string {
	switch name {
	case FieldTitle:
		return &v.Title
	case FieldDescription:
		return &v.Description
	case FieldProductLink:
		return &v.ProductLink
	case FieldVideoID:
		return &v.VideoID
	case FieldThumbnailID:
		return &v.ThumbnailID
	default:
		return nil
	}
}

func (v *Video) clone() *Video {
	c := *v
	return &c
}

// Filter narrows List.
type Filter struct {
	ActiveOnly bool
	// Limit caps the result; zero means no limit.
	Limit int
}

// Repository persists videos as stored, without touching encryption.
type Repository interface {
	Insert(ctx context.Context, v *Video) error
	// Get returns ErrNotFound for an unknown id.
	Get(ctx context.Context, id string) (*Video, error)
	// List returns videos newest first.
	List(ctx context.Context, f Filter) ([]*Video, error)
	// SetFields overwrites string attributes by stored name.
	SetFields(ctx context.Context, id string, fields map[string]string) error
	IncrementViews(ctx context.Context, id string) error
}
