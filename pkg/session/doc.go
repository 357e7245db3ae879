// Package session issues, validates and revokes login sessions.
//
// A Session is an opaque 64-character alphanumeric token mapped to a
// persisted record. Records are never deleted through this package; revoking
// a session flips IsActive to false and there is no way back.
//
// # Architecture
//
// The Manager sits between a Store and callers. Every Manager owns a
// validation cache: results, including rejections, are served from memory
// for Config.CacheTTL (30s by default). While one caller looks a token up in
// the store, concurrent callers for the same token get the current cache
// entry right away instead of waiting, or ErrValidationPending when there is
// none yet. Any revocation clears the whole cache.
//
//	client ──token──► Transport ──► Manager ──► validation cache
//	                                   │
//	                                   ▼
//	                                 Store (memory, mongo, postgres, redis)
//
// A TokenKeeper holds the current token between calls. The HTTP server keeps
// it in memory; the CLI keeps it in a file so Current works across runs.
//
// # Usage
//
//	store, err := session.NewStore(cfg.Store, session.Backends{Mongo: db})
//	if err != nil {
//		return err
//	}
//	mgr := session.NewFromConfig(cfg,
//		session.WithStore(store),
//		session.WithLogger(log),
//	)
//
//	r.Mount("/api/session", session.NewHandler(mgr, errorHandler,
//		session.WithIssuer(session.IssuerKey(cfg.IssuerKey)),
//	).Handle())
//
// POST /api/session only issues a session to callers that send the issuer key
// as "Authorization: Bearer <key>". Without WithIssuer it issues none.
//
// Handlers that only need to know who is calling use the middleware:
//
//	r.Use(mgr.Middleware)
//	...
//	if s, ok := session.FromContext(r.Context()); ok { ... }
//
// # Errors
//
// Validate reports why a token was rejected with ErrSessionNotFound,
// ErrSessionInactive, ErrSessionExpired or ErrValidationPending; IsInvalid
// groups them. Backend failures are wrapped in ErrStorage. Callers that
// prefer to degrade to "no session" use ValidateOrNil, CurrentOrNil and
// CreateOrNil, which log and return nil.
package session
