package checkout

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/siteconfig"
	"github.com/vidshop/storefront/pkg/validator"
)

// Request is the body of POST /api/create-checkout-session.
// Amount is in minor currency units.
type Request struct {
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

// MaxAmount is the largest charge Stripe accepts, in minor units.
const MaxAmount int64 = 99_999_999

// Validate checks every field and returns validator.ValidationErrors.
func (r Request) Validate(maxName int) error {
	return validator.Apply(
		validator.PositiveAmount("amount", r.Amount),
		validator.MaxAmount("amount", r.Amount, MaxAmount),
		validator.Optional(r.Currency, validator.ValidCurrencyCode("currency", r.Currency)),
		validator.RequiredString("name", r.Name),
		validator.MaxLenString("name", r.Name, maxName),
		validator.ValidURL("success_url", r.SuccessURL),
		validator.ValidURL("cancel_url", r.CancelURL),
	)
}

// Session is a hosted checkout page created by the processor.
type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// LineItem is a single product in a checkout session.
type LineItem struct {
	Name     string
	Amount   int64
	Currency string
	Quantity int64
}

// SessionParams describes the session to create.
type SessionParams struct {
	Item       LineItem
	SuccessURL string
	CancelURL  string
}

// Processor creates hosted checkout sessions.
type Processor interface {
	CreateSession(ctx context.Context, secretKey string, params SessionParams) (*Session, error)
}

// KeySource returns the processor secret key.
type KeySource interface {
	SecretKey(ctx context.Context) (string, error)
}

// KeyResolver reads the secret key from the site config document and falls
// back to a configured key.
type KeyResolver struct {
	sites    siteconfig.Repository
	fallback string
	log      *slog.Logger
}

// NewKeyResolver creates a KeyResolver. sites may be nil.
func NewKeyResolver(sites siteconfig.Repository, fallback string, log *slog.Logger) *KeyResolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &KeyResolver{sites: sites, fallback: fallback, log: log}
}

// SecretKey returns the site config key, then the fallback, then ErrMissingSecretKey.
// Lookup failures are logged and fall through to the fallback.
func (k *KeyResolver) SecretKey(ctx context.Context) (string, error) {
	if k.sites != nil {
		cfg, err := k.sites.Get(ctx)
		switch {
		case err == nil && strings.TrimSpace(cfg.StripeSecretKey) != "":
			return strings.TrimSpace(cfg.StripeSecretKey), nil
		case err != nil && !errors.Is(err, siteconfig.ErrNotFound):
			k.log.WarnContext(ctx, "could not read stripe key from site config", logger.Error(err))
		}
	}

	if key := strings.TrimSpace(k.fallback); key != "" {
		k.log.DebugContext(ctx, "using stripe key from environment")
		return key, nil
	}
	return "", ErrMissingSecretKey
}

// Service validates checkout requests and hands them to a Processor.
type Service struct {
	processor Processor
	keys      KeySource
	cfg       Config
	log       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithConfig sets the checkout configuration.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		s.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService creates a checkout service.
func NewService(processor Processor, keys KeySource, opts ...Option) *Service {
	s := &Service{
		processor: processor,
		keys:      keys,
		cfg:       DefaultConfig(),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.Currency == "" {
		s.cfg.Currency = "usd"
	}
	if s.cfg.MaxProductName <= 0 {
		s.cfg.MaxProductName = 250
	}
	s.log = s.log.With(logger.Component("checkout"))
	return s
}

// CreateSession validates req and creates a single-item payment session.
func (s *Service) CreateSession(ctx context.Context, req Request) (*Session, error) {
	if err := req.Validate(s.cfg.MaxProductName); err != nil {
		return nil, err
	}

	key, err := s.keys.SecretKey(ctx)
	if err != nil {
		return nil, err
	}

	sess, err := s.processor.CreateSession(ctx, key, SessionParams{
		Item: LineItem{
			Name:     strings.TrimSpace(req.Name),
			Amount:   req.Amount,
			Currency: strings.ToLower(s.cfg.Currency),
			Quantity: 1,
		},
		SuccessURL: req.SuccessURL,
		CancelURL:  req.CancelURL,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "checkout session failed", logger.Error(err))
		return nil, err
	}

	s.log.InfoContext(ctx, "checkout session created",
		slog.String("session_id", sess.ID),
		slog.Int64("amount", req.Amount),
	)
	return sess, nil
}
