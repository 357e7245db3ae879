// Package catalog stores the videos offered by the storefront.
//
// Title, description, product link and the two file references are stored
// encrypted with a field codec; price, duration, views and flags stay in
// cleartext so they can be sorted and counted. Service encrypts on write and
// decrypts on read, so callers only ever see plaintext.
//
// Two maintenance jobs bring older data in line:
//
//   - EncryptExisting encrypts attributes that were stored as plaintext.
//   - MigrateFiles copies objects with readable names to obfuscated names,
//     rewrites video_id and thumbnail_id and removes the old objects.
//
// Both can be run repeatedly. Per-document and per-file failures end up in
// the returned report and do not stop the run.
package catalog
