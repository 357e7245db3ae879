package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/secrets"
)

// EncryptReport summarises an EncryptExisting run.
type EncryptReport struct {
	Scanned int      `json:"scanned"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// EncryptExisting encrypts every plaintext attribute of every stored video.
// Values that already look encrypted are left alone, so the run can be
// repeated. A failing document is reported and the run continues.
func (s *Service) EncryptExisting(ctx context.Context) (EncryptReport, error) {
	var rep EncryptReport

	list, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return rep, fmt.Errorf("list videos: %w", err)
	}

	for _, v := range list {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++

		fields, err := s.plaintextFields(v)
		if err == nil && len(fields) > 0 {
			err = s.repo.SetFields(ctx, v.ID, fields)
		}

		switch {
		case err != nil:
			rep.Failed++
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", v.ID, err))
			s.log.ErrorContext(ctx, "failed to encrypt video", slog.String("video_id", v.ID), logger.Error(err))
		case len(fields) == 0:
			rep.Skipped++
		default:
			rep.Updated++
			s.log.InfoContext(ctx, "video encrypted", slog.String("video_id", v.ID), slog.Int("fields", len(fields)))
		}
	}

	return rep, nil
}

func (s *Service) plaintextFields(v *Video) (map[string]string, error) {
	fields := make(map[string]string)
	for _, name := range EncryptedFields {
		value := *v.field(name)
		if value == "" || secrets.IsEncrypted(value) {
			continue
		}
		sealed, err := s.codec.EncryptField(value)
		if err != nil {
			return nil, fmt.Errorf("encrypt %s: %w", name, err)
		}
		if sealed != value {
			fields[name] = sealed
		}
	}
	return fields, nil
}

// MigrateOptions tunes MigrateFiles.
type MigrateOptions struct {
	// DryRun lists what would be renamed without touching anything.
	DryRun bool
	// KeepOld skips deleting the original objects.
	KeepOld bool
}

// Renamed is one migrated object.
type Renamed struct {
	Kind    file.Kind `json:"kind"`
	OldName string    `json:"oldName"`
	NewName string    `json:"newName"`
}

// MigrateReport summarises a MigrateFiles run.
type MigrateReport struct {
	Migrated   []Renamed `json:"migrated"`
	Skipped    int       `json:"skipped"`
	References int       `json:"references"`
	Errors     []string  `json:"errors,omitempty"`
}

// MigrateFiles copies every object whose name is not obfuscated yet to a
// fresh obfuscated name, rewrites the video references and then deletes
// the old objects. A failing object is reported and left in place.
func (s *Service) MigrateFiles(ctx context.Context, storage file.Storage, names *file.Obfuscator, opts MigrateOptions) (MigrateReport, error) {
	rep := MigrateReport{Migrated: []Renamed{}}
	renames := make(map[string]string)

	for _, kind := range []file.Kind{file.KindVideo, file.KindThumbnail} {
		bucket := kind.Bucket()
		objects, err := storage.List(ctx, bucket)
		if err != nil {
			return rep, fmt.Errorf("list %s: %w", bucket, err)
		}

		for _, obj := range objects {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if file.IsObfuscated(obj.Name) {
				rep.Skipped++
				continue
			}

			newName, err := names.Build(obj.Name, kind)
			if err == nil && !opts.DryRun {
				err = copyObject(ctx, storage, bucket, obj, newName)
			}
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s/%s: %v", bucket, obj.Name, err))
				s.log.ErrorContext(ctx, "failed to migrate file",
					logger.Bucket(bucket), slog.String("name", obj.Name), logger.Error(err))
				continue
			}

			renames[kind.Bucket()+"/"+obj.Name] = newName
			rep.Migrated = append(rep.Migrated, Renamed{Kind: kind, OldName: obj.Name, NewName: newName})
		}
	}

	if opts.DryRun || len(rep.Migrated) == 0 {
		return rep, nil
	}

	failed := len(rep.Errors)
	refs, err := s.rewriteReferences(ctx, renames, &rep)
	if err != nil {
		return rep, err
	}
	rep.References = refs

	if opts.KeepOld {
		return rep, nil
	}
	if len(rep.Errors) > failed {
		s.log.WarnContext(ctx, "some references were not rewritten, keeping original files")
		return rep, nil
	}
	for _, m := range rep.Migrated {
		if err := storage.Delete(ctx, m.Kind.Bucket(), m.OldName); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("delete %s/%s: %v", m.Kind.Bucket(), m.OldName, err))
			s.log.WarnContext(ctx, "failed to delete migrated file",
				logger.Bucket(m.Kind.Bucket()), slog.String("name", m.OldName), logger.Error(err))
		}
	}
	return rep, nil
}

func copyObject(ctx context.Context, storage file.Storage, bucket string, obj file.Object, newName string) error {
	src, err := storage.Open(ctx, bucket, obj.Name)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	_, err = storage.Put(ctx, bucket, newName, src, obj.Size)
	return err
}

// rewriteReferences points video_id and thumbnail_id at the new names.
// The stored values may be plaintext or encrypted; new values are always
// written encrypted.
func (s *Service) rewriteReferences(ctx context.Context, renames map[string]string, rep *MigrateReport) (int, error) {
	list, err := s.repo.List(ctx, Filter{})
	if err != nil {
		return 0, fmt.Errorf("list videos: %w", err)
	}

	refs := 0
	for _, v := range list {
		fields := make(map[string]string)
		for name, kind := range map[string]file.Kind{FieldVideoID: file.KindVideo, FieldThumbnailID: file.KindThumbnail} {
			current := s.codec.DecryptField(*v.field(name))
			newName, ok := renames[kind.Bucket()+"/"+current]
			if !ok {
				continue
			}
			sealed, err := s.codec.EncryptField(newName)
			if err != nil {
				rep.Errors = append(rep.Errors, fmt.Sprintf("%s: encrypt %s: %v", v.ID, name, err))
				continue
			}
			fields[name] = sealed
		}
		if len(fields) == 0 {
			continue
		}
		if err := s.repo.SetFields(ctx, v.ID, fields); err != nil {
			rep.Errors = append(rep.Errors, fmt.Sprintf("%s: %v", v.ID, err))
			continue
		}
		refs += len(fields)
	}
	return refs, nil
}
