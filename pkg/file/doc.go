// Package file stores uploaded assets in named buckets and builds the
// obfuscated names they are stored under.
//
// # Storage
//
// Storage is a flat object store addressed by (bucket, name). Two backends
// are provided:
//   - LocalStorage: one directory per bucket below a base directory
//   - S3Storage: one S3 bucket per logical bucket (AWS S3, MinIO, Wasabi, etc.)
//
// Both implement EnsureBucket so provisioning can create buckets
// idempotently: an existing bucket is reported as (false, nil).
//
// # Obfuscated names
//
// Obfuscator.Build produces names like
//
//	video_1757644868956_1066lk_<ciphertext>:<iv>.mp4
//
// The stem is the original name encrypted with a FieldCodec; the timestamp
// and six-character random suffix keep names unique within a millisecond.
// Obfuscator.ExtractOriginal reverses it and never fails: anything that does
// not match the layout or does not decrypt is returned unchanged.
//
// # Usage
//
//	storage, err := file.NewLocalStorage("./data/storage", "/files/")
//	if err != nil {
//		return err
//	}
//	if _, err := storage.EnsureBucket(ctx, file.VideosBucket); err != nil {
//		return err
//	}
//
//	names, _ := file.NewObfuscator(codec)
//	name, err := names.Build(fh.Filename, file.KindVideo)
//	if err != nil {
//		return err
//	}
//	obj, err := storage.Put(ctx, file.VideosBucket, name, src, fh.Size)
//
// # Error Handling
//
// Backend errors are mapped to package sentinels (ErrFileNotFound,
// ErrBucketNotFound, ErrBucketTaken, ErrAccessDenied, ...) so callers can use
// errors.Is regardless of the backend.
package file
