package session

import (
	"time"
)

// Session is a persisted login session.
// IsActive only ever moves from true to false.
type Session struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Token     string    `json:"token" bson:"token"`
	UserAgent string    `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	ExpiresAt time.Time `json:"expires_at" bson:"expires_at"`
	IsActive  bool      `json:"is_active" bson:"is_active"`
}

// ExpiredAt reports whether the session is past its expiry at now.
func (s *Session) ExpiredAt(now time.Time) bool {
	return s != nil && !now.Before(s.ExpiresAt)
}

// UsableAt reports whether the session is active and not expired at now.
func (s *Session) UsableAt(now time.Time) bool {
	return s != nil && s.IsActive && now.Before(s.ExpiresAt)
}

// clone returns a copy so callers never share cached or stored values.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// maxUserAgentLen bounds the stored user agent.
const maxUserAgentLen = 255

func truncateUserAgent(ua string) string {
	if len(ua) <= maxUserAgentLen {
		return ua
	}
	// avoid cutting a multi-byte rune in half
	cut := maxUserAgentLen
	for cut > 0 && ua[cut]&0xC0 == 0x80 {
		cut--
	}
	return ua[:cut]
}
