package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/validator"
)

// Service encrypts videos on the way in and decrypts them on the way out.
type Service struct {
	repo  Repository
	codec file.FieldCodec
	log   *slog.Logger
	now   func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the clock used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a catalog service. *secrets.Codec satisfies codec.
func NewService(repo Repository, codec file.FieldCodec, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		codec: codec,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("catalog"))
	return s
}

// NewVideo is the input of Create.
type NewVideo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Duration    int64   `json:"duration"`
	VideoID     string  `json:"videoId"`
	ThumbnailID string  `json:"thumbnailId"`
	ProductLink string  `json:"productLink"`
}

// Validate checks the input.
func (n NewVideo) Validate() error {
	return validator.Apply(
		validator.RequiredString("title", n.Title),
		validator.MaxLenString("title", n.Title, 255),
		validator.MaxLenString("description", n.Description, 2000),
		validator.NonNegativeAmount("price", n.Price),
		validator.MinNum("duration", n.Duration, 0),
		validator.Optional(n.ProductLink, validator.ValidURL("productLink", n.ProductLink)),
	)
}

// Create stores a new active video and returns it decrypted.
func (s *Service) Create(ctx context.Context, in NewVideo) (*Video, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	v := &Video{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Duration:    in.Duration,
		VideoID:     in.VideoID,
		ThumbnailID: in.ThumbnailID,
		ProductLink: in.ProductLink,
		CreatedAt:   s.now().UTC(),
		IsActive:    true,
	}

	stored, err := s.encrypt(v)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Insert(ctx, stored); err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}
	return v, nil
}

// Get returns the decrypted video.
func (s *Service) Get(ctx context.Context, id string) (*Video, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.decrypt(v), nil
}

// List returns decrypted videos newest first.
func (s *Service) List(ctx context.Context, f Filter) ([]*Video, error) {
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	for i, v := range list {
		list[i] = s.decrypt(v)
	}
	return list, nil
}

// IncrementViews bumps the view counter. Failures are logged only; a lost
// view must never block playback.
func (s *Service) IncrementViews(ctx context.Context, id string) {
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		s.log.WarnContext(ctx, "failed to increment views", slog.String("video_id", id), logger.Error(err))
	}
}

// FileURL returns the public URL of the video or thumbnail object of v.
func FileURL(storage file.Storage, v *Video, kind file.Kind) string {
	name := v.VideoID
	if kind == file.KindThumbnail {
		name = v.ThumbnailID
	}
	if name == "" {
		return ""
	}
	return storage.URL(kind.Bucket(), name)
}

func (s *Service) encrypt(v *Video) (*Video, error) {
	out := v.clone()
	for _, name := range EncryptedFields {
		p := out.field(name)
		sealed, err := s.codec.EncryptField(*p)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("encrypt %s", name), err)
		}
		*p = sealed
	}
	return out, nil
}

func (s *Service) decrypt(v *Video) *Video {
	out := v.clone()
	for _, name := range EncryptedFields {
		p := out.field(name)
		*p = s.codec.DecryptField(*p)
	}
	return out
}
