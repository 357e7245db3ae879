// Package mongo connects the storefront's document store.
//
// MongoDB holds the catalog, the site configuration, the provisioning
// state and, with SESSION_STORE=mongo, sessions. New connects and pings
// with a constant retry interval; Healthcheck feeds the readiness probe.
//
// The provisioning code creates collections and indexes idempotently, so
// IsNamespaceExists and IsIndexConflict single out the server errors that
// mean "already there".
package mongo
