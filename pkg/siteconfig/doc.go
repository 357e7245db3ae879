// Package siteconfig stores the singleton storefront configuration
// document: site name, payment keys and contact settings.
//
// Three repositories share the Repository interface: MongoRepository on the
// site_config collection, PostgresRepository on the site_config table and
// MemoryRepository for tests and single-process setups. EnsureDefault is the
// idempotent "create initial data" step used by provisioning.
package siteconfig
