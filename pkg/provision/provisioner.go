package provision

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/vidshop/storefront/pkg/file"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/siteconfig"
)

// Provisioner creates the storefront schema, buckets and initial data.
// Every step is idempotent: anything that already exists counts as success.
type Provisioner struct {
	backend Backend
	storage file.Storage
	sites   siteconfig.Repository
	creds   CredentialsStore
	cfg     Config
	log     *slog.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithStorage sets the object storage that holds the buckets.
func WithStorage(s file.Storage) Option {
	return func(p *Provisioner) {
		p.storage = s
	}
}

// WithSiteConfig sets the repository of the site config document.
func WithSiteConfig(r siteconfig.Repository) Option {
	return func(p *Provisioner) {
		p.sites = r
	}
}

// WithCredentialsStore sets where credentials are saved after a successful run.
func WithCredentialsStore(s CredentialsStore) Option {
	return func(p *Provisioner) {
		p.creds = s
	}
}

// WithConfig sets the configuration.
func WithConfig(cfg Config) Option {
	return func(p *Provisioner) {
		p.cfg = cfg
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Provisioner) {
		if log != nil {
			p.log = log
		}
	}
}

// New creates a Provisioner for backend.
func New(backend Backend, opts ...Option) *Provisioner {
	p := &Provisioner{
		backend: backend,
		cfg:     DefaultConfig(),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.sites == nil {
		p.sites = siteconfig.NewMemoryRepository()
	}
	if p.creds == nil {
		p.creds = NewMemoryCredentialsStore(p.cfg.EnvCredentials())
	}
	if p.cfg.PollInterval <= 0 {
		p.cfg.PollInterval = 200 * time.Millisecond
	}
	if p.cfg.ReadyTimeout <= 0 {
		p.cfg.ReadyTimeout = 10 * time.Second
	}
	p.log = p.log.With(logger.Component("provision"))
	return p
}

// Authorize checks creds against the saved (or environment) credentials.
// When nothing is saved yet any complete pair is accepted, so the first
// setup can bootstrap the store.
func (p *Provisioner) Authorize(ctx context.Context, creds Credentials) error {
	if !creds.Complete() {
		return ErrMissingCredentials
	}

	expected, err := p.creds.Load(ctx)
	if errors.Is(err, ErrCredentialsNotFound) {
		p.log.WarnContext(ctx, "no saved provisioning credentials, accepting first caller")
		return nil
	}
	if err != nil {
		return err
	}

	idOK := subtle.ConstantTimeCompare([]byte(creds.ProjectID), []byte(expected.ProjectID)) == 1
	keyOK := subtle.ConstantTimeCompare([]byte(creds.APIKey), []byte(expected.APIKey)) == 1
	if !idOK || !keyOK {
		return ErrInvalidCredentials
	}
	return nil
}

// Do authorizes req and runs its single action.
func (p *Provisioner) Do(ctx context.Context, req Request) (Outcome, error) {
	if err := p.Authorize(ctx, req.Credentials); err != nil {
		return Outcome{}, err
	}
	return p.act(ctx, req)
}

func (p *Provisioner) act(ctx context.Context, req Request) (Outcome, error) {
	switch req.Action {
	case ActionTestConnection:
		if err := p.backend.Ping(ctx); err != nil {
			return Outcome{}, errors.Join(ErrConnectionFailed, err)
		}
		return Outcome{Success: true, Message: "connection established"}, nil

	case ActionCreateDatabase:
		created, err := p.backend.EnsureDatabase(ctx)
		if err != nil {
			return Outcome{}, fmt.Errorf("create database: %w", err)
		}
		if !created {
			return Outcome{Success: true, Message: "database already exists"}, nil
		}
		return Outcome{Success: true, Message: "database created"}, nil

	case ActionCreateCollection:
		if req.CollectionID == "" {
			return Outcome{}, fmt.Errorf("%w: collectionId is required", ErrInvalidRequest)
		}
		name := req.CollectionName
		if name == "" {
			name = req.CollectionID
		}
		spec, ok := SpecFor(req.CollectionID, name, req.CollectionType)
		if !ok {
			return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownCollection, req.CollectionType)
		}
		created, err := p.ensureCollection(ctx, spec)
		if err != nil {
			return Outcome{}, fmt.Errorf("create collection %q: %w", spec.Name, err)
		}
		if !created {
			return Outcome{Success: true, Message: fmt.Sprintf("collection '%s' already exists", spec.Name)}, nil
		}
		return Outcome{Success: true, Message: fmt.Sprintf("collection '%s' created and configured", spec.Name)}, nil

	case ActionCreateBucket:
		if req.BucketID == "" {
			return Outcome{}, fmt.Errorf("%w: bucketId is required", ErrInvalidRequest)
		}
		if err := file.ValidateBucket(req.BucketID); err != nil {
			return Outcome{}, errors.Join(ErrInvalidRequest, err)
		}
		if p.storage == nil {
			return Outcome{}, ErrNoStorage
		}
		name := req.BucketName
		if name == "" {
			name = req.BucketID
		}
		created, err := p.storage.EnsureBucket(ctx, req.BucketID)
		if err != nil {
			return Outcome{}, fmt.Errorf("create bucket %q: %w", name, err)
		}
		p.log.InfoContext(ctx, "bucket ready", logger.Bucket(req.BucketID), slog.Bool("created", created))
		if !created {
			return Outcome{Success: true, Message: fmt.Sprintf("bucket '%s' already exists", name)}, nil
		}
		return Outcome{Success: true, Message: fmt.Sprintf("bucket '%s' created", name)}, nil

	case ActionCreateInitialData:
		created, err := p.sites.EnsureDefault(ctx, siteconfig.Default(p.cfg.SiteName))
		if err != nil {
			return Outcome{}, fmt.Errorf("create initial data: %w", err)
		}
		if !created {
			return Outcome{Success: true, Message: "site config already exists"}, nil
		}
		return Outcome{Success: true, Message: "initial site config created"}, nil

	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
	}
}

// ensureCollection creates the collection, waits until the backend lists
// it and then adds attributes and indexes one by one. A failing attribute
// or index is logged and skipped.
func (p *Provisioner) ensureCollection(ctx context.Context, spec CollectionSpec) (bool, error) {
	log := p.log.With(logger.Collection(spec.ID))

	created, err := p.backend.EnsureCollection(ctx, spec)
	if err != nil {
		return false, err
	}
	if created {
		if err := p.waitReady(ctx, spec.ID); err != nil {
			return true, err
		}
	}

	for _, attr := range spec.Attributes {
		if err := p.settle(ctx); err != nil {
			return created, err
		}
		err := p.backend.EnsureAttribute(ctx, spec.ID, attr)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}
			log.WarnContext(ctx, "failed to create attribute", slog.String("attribute", attr.Key), logger.Error(err))
		}
	}

	for _, idx := range spec.Indexes {
		if err := p.settle(ctx); err != nil {
			return created, err
		}
		err := p.backend.EnsureIndex(ctx, spec.ID, idx)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			if ctx.Err() != nil {
				return created, ctx.Err()
			}
			log.WarnContext(ctx, "failed to create index", slog.String("index", idx.Key), logger.Error(err))
		}
	}

	return created, nil
}

// waitReady polls the backend until the collection is listed.
func (p *Provisioner) waitReady(ctx context.Context, id string) error {
	backoff := retry.WithMaxDuration(p.cfg.ReadyTimeout, retry.NewConstant(p.cfg.PollInterval))
	attempts := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		ok, err := p.backend.CollectionExists(ctx, id)
		if err != nil {
			return retry.RetryableError(err)
		}
		if !ok {
			return retry.RetryableError(ErrNotReady)
		}
		return nil
	})
	if err != nil {
		p.log.WarnContext(ctx, "collection did not become ready",
			logger.Collection(id), logger.RetryCount(attempts), logger.Error(err))
		return errors.Join(ErrNotReady, err)
	}
	return nil
}

func (p *Provisioner) settle(ctx context.Context) error {
	if p.cfg.SettleDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(p.cfg.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run executes the whole pipeline: database, the four collections, the
// two buckets and the initial site config. report, when not nil, receives
// a Progress after every stage with a percentage that never decreases.
// Credentials are saved when the run finishes without errors.
func (p *Provisioner) Run(ctx context.Context, creds Credentials, report func(Progress)) Result {
	if report == nil {
		report = func(Progress) {}
	}
	res := Result{Details: []string{}, Errors: []string{}}
	percent := 0

	emit := func(stage, msg string) {
		percent = stagePercent[stage]
		p.log.InfoContext(ctx, msg, logger.Stage(stage), slog.Int("percent", percent))
		report(Progress{Stage: stage, Percent: percent, Message: msg})
	}
	fail := func(err error) Result {
		report(Progress{Stage: StageError, Percent: percent, Message: err.Error(), IsError: true})
		res.Errors = append(res.Errors, err.Error())
		res.Message = "database setup failed"
		return res
	}
	step := func(req Request, label string) error {
		out, err := p.act(ctx, req)
		if err != nil {
			p.log.ErrorContext(ctx, "setup step failed", slog.String("step", label), logger.Error(err))
			res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", label, err))
			return ctx.Err()
		}
		res.Details = append(res.Details, out.Message)
		return nil
	}

	if err := p.Authorize(ctx, creds); err != nil {
		return fail(err)
	}

	emit(StageInit, "starting database setup")

	if err := step(Request{Action: ActionCreateDatabase}, "database"); err != nil {
		return fail(err)
	}
	emit(StageDatabase, "database configured")

	for _, c := range Collections() {
		req := Request{
			Action:         ActionCreateCollection,
			CollectionID:   c.ID,
			CollectionName: c.Name,
			CollectionType: c.Type,
		}
		if err := step(req, fmt.Sprintf("collection '%s'", c.Name)); err != nil {
			return fail(err)
		}
	}
	emit(StageCollections, "collections configured")

	for _, b := range Buckets() {
		req := Request{Action: ActionCreateBucket, BucketID: b.ID, BucketName: b.Name}
		if err := step(req, fmt.Sprintf("bucket '%s'", b.Name)); err != nil {
			return fail(err)
		}
	}
	emit(StageStorage, "storage buckets configured")

	if err := step(Request{Action: ActionCreateInitialData}, "initial data"); err != nil {
		return fail(err)
	}

	res.Success = len(res.Errors) == 0
	if res.Success {
		res.Message = "database configured successfully"
		if err := p.creds.Save(ctx, creds); err != nil {
			p.log.WarnContext(ctx, "failed to save provisioning credentials", logger.Error(err))
		}
		emit(StageComplete, "setup complete")
	} else {
		res.Message = "setup completed with errors"
		percent = stagePercent[StageComplete]
		report(Progress{
			Stage:   StageComplete,
			Percent: percent,
			Message: fmt.Sprintf("setup finished with %d errors", len(res.Errors)),
			IsError: true,
		})
	}
	return res
}
