package siteconfig

import (
	"context"
	"time"
)

// CollectionName is the collection (and table) that holds the document.
const CollectionName = "site_config"

// SiteConfig is the singleton storefront configuration document.
type SiteConfig struct {
	ID                   string    `json:"id" bson:"_id"`
	SiteName             string    `json:"site_name" bson:"site_name"`
	VideoListTitle       string    `json:"video_list_title,omitempty" bson:"video_list_title,omitempty"`
	PaypalClientID       string    `json:"paypal_client_id,omitempty" bson:"paypal_client_id,omitempty"`
	StripePublishableKey string    `json:"stripe_publishable_key,omitempty" bson:"stripe_publishable_key,omitempty"`
	StripeSecretKey      string    `json:"stripe_secret_key,omitempty" bson:"stripe_secret_key,omitempty"`
	TelegramUsername     string    `json:"telegram_username,omitempty" bson:"telegram_username,omitempty"`
	Crypto               []string  `json:"crypto" bson:"crypto"`
	Email                Email     `json:"email" bson:",inline"`
	UpdatedAt            time.Time `json:"updated_at" bson:"updated_at"`
}

// Email holds outgoing mail settings shown in the admin panel.
type Email struct {
	Host   string `json:"host,omitempty" bson:"email_host,omitempty"`
	Port   string `json:"port,omitempty" bson:"email_port,omitempty"`
	Secure bool   `json:"secure,omitempty" bson:"email_secure,omitempty"`
	User   string `json:"user,omitempty" bson:"email_user,omitempty"`
	Pass   string `json:"pass,omitempty" bson:"email_pass,omitempty"`
	From   string `json:"from,omitempty" bson:"email_from,omitempty"`
}

// Default returns the document written on first setup.
func Default(siteName string) *SiteConfig {
	if siteName == "" {
		siteName = "Video Site"
	}
	return &SiteConfig{
		SiteName:       siteName,
		VideoListTitle: "Featured Videos",
		Crypto:         []string{},
	}
}

// Repository stores the singleton document.
type Repository interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context) (*SiteConfig, error)
	// Save replaces the document. An empty ID gets one assigned.
	Save(ctx context.Context, cfg *SiteConfig) error
	// EnsureDefault writes def unless a document already exists and
	// reports whether it was written.
	EnsureDefault(ctx context.Context, def *SiteConfig) (bool, error)
}
