package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/vidshop/storefront/pkg/logger"
)

// StripeProcessor creates Stripe Checkout sessions.
type StripeProcessor struct {
	backend stripe.Backend
	cfg     Config
}

// StripeOption configures a StripeProcessor.
type StripeOption func(*StripeProcessor)

// WithBackend replaces the Stripe API backend, e.g. to point at a stub server.
func WithBackend(b stripe.Backend) StripeOption {
	return func(p *StripeProcessor) {
		if b != nil {
			p.backend = b
		}
	}
}

// NewStripeProcessor creates a processor using the default Stripe API backend.
// Stripe client logs go to log.
func NewStripeProcessor(cfg Config, log *slog.Logger, opts ...StripeOption) *StripeProcessor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	p := &StripeProcessor{
		backend: stripe.GetBackendWithConfig(stripe.APIBackend, &stripe.BackendConfig{
			LeveledLogger: NewStripeLogger(log),
		}),
		cfg: cfg,
	}
	for _, opt := range opts {
		opt(p)
	}
	if len(p.cfg.PaymentMethods) == 0 {
		p.cfg.PaymentMethods = []string{"card"}
	}
	if p.cfg.BillingAddress == "" {
		p.cfg.BillingAddress = string(stripe.CheckoutSessionBillingAddressCollectionAuto)
	}
	return p
}

// CreateSession creates a payment-mode session with one priced line item.
func (p *StripeProcessor) CreateSession(ctx context.Context, secretKey string, params SessionParams) (*Session, error) {
	if secretKey == "" {
		return nil, ErrMissingSecretKey
	}

	sp := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice(p.cfg.PaymentMethods),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(params.Item.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(params.Item.Name),
				},
				UnitAmount: stripe.Int64(params.Item.Amount),
			},
			Quantity: stripe.Int64(params.Item.Quantity),
		}},
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(params.SuccessURL),
		CancelURL:                stripe.String(params.CancelURL),
		BillingAddressCollection: stripe.String(p.cfg.BillingAddress),
	}
	sp.Context = ctx

	client := session.Client{B: p.backend, Key: secretKey}
	s, err := client.New(sp)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			return nil, errors.Join(ErrProviderError, fmt.Errorf("stripe %s: %s", serr.Code, serr.Msg))
		}
		return nil, errors.Join(ErrProviderError, err)
	}
	if s.URL == "" {
		return nil, ErrNoCheckoutURL
	}
	return &Session{ID: s.ID, URL: s.URL}, nil
}

// StripeLogger adapts slog to stripe.LeveledLoggerInterface.
type StripeLogger struct {
	log *slog.Logger
}

// NewStripeLogger creates a StripeLogger.
func NewStripeLogger(log *slog.Logger) *StripeLogger {
	return &StripeLogger{log: log.With(logger.Component("stripe"))}
}

func (l *StripeLogger) Debugf(format string, v ...any) { l.log.Debug(fmt.Sprintf(format, v...)) }
func (l *StripeLogger) Infof(format string, v ...any)  { l.log.Debug(fmt.Sprintf(format, v...)) }
func (l *StripeLogger) Warnf(format string, v ...any)  { l.log.Warn(fmt.Sprintf(format, v...)) }
func (l *StripeLogger) Errorf(format string, v ...any) { l.log.Error(fmt.Sprintf(format, v...)) }
