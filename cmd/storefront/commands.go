package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/vidshop/storefront/pkg/catalog"
	"github.com/vidshop/storefront/pkg/config"
	"github.com/vidshop/storefront/pkg/logger"
	"github.com/vidshop/storefront/pkg/pg"
	"github.com/vidshop/storefront/pkg/provision"
	"github.com/vidshop/storefront/pkg/secrets"
	"github.com/vidshop/storefront/pkg/session"
)

var (
	errPostgresDisabled = errors.New("PG_CONN_URL is not set")
	errSetupFailed      = errors.New("setup finished with errors")
	errJobFailed        = errors.New("job finished with errors")
)

func newFlagSet(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// withApp loads the configuration, builds the app and closes it afterwards.
func withApp(ctx context.Context, fn func(a *app) error, opts ...session.Option) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log)

	a, err := newApp(ctx, cfg, log, opts...)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	return fn(a)
}

func runServe(ctx context.Context, args []string, out io.Writer) error {
	if err := newFlagSet("serve", out).Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg.Log)

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	return serve(ctx, a)
}

func runMigrate(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("migrate", out)
	down := fs.Bool("down", false, "roll back the most recent migration")
	status := fs.Bool("status", false, "print the migration status and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		logCfg logger.Config
		pgCfg  pg.Config
	)
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	if err := config.Load(&pgCfg); err != nil {
		return err
	}
	if !pgCfg.Enabled() {
		return errPostgresDisabled
	}
	log := newLogger(logCfg)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch {
	case *status:
		return pg.MigrationStatus(ctx, pool, pgCfg, log)
	case *down:
		if err := pg.Rollback(ctx, pool, pgCfg, log); err != nil {
			return err
		}
		fmt.Fprintln(out, "rolled back one migration")
	default:
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			return err
		}
		fmt.Fprintln(out, "migrations applied")
	}
	return nil
}

func runSetup(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("setup", out)
	projectID := fs.String("project", "", "project id (default: PROVISION_PROJECT_ID)")
	apiKey := fs.String("api-key", "", "api key (default: PROVISION_API_KEY)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApp(ctx, func(a *app) error {
		creds := a.cfg.Provision.EnvCredentials()
		if *projectID != "" {
			creds.ProjectID = *projectID
		}
		if *apiKey != "" {
			creds.APIKey = *apiKey
		}
		if err := a.provisioner.Authorize(ctx, creds); err != nil {
			return err
		}

		res := a.provisioner.Run(ctx, creds, func(p provision.Progress) {
			mark := " "
			if p.IsError {
				mark = "!"
			}
			fmt.Fprintf(out, "%s [%3d%%] %-12s %s\n", mark, p.Percent, p.Stage, p.Message)
		})

		fmt.Fprintln(out, res.Message)
		for _, e := range res.Errors {
			fmt.Fprintln(out, "  error:", e)
		}
		if !res.Success {
			return errSetupFailed
		}
		return nil
	})
}

func runEncryptData(ctx context.Context, args []string, out io.Writer) error {
	if err := newFlagSet("encrypt-data", out).Parse(args); err != nil {
		return err
	}

	return withApp(ctx, func(a *app) error {
		rep, err := a.videos.EncryptExisting(ctx)
		if err != nil {
			return err
		}
		printEncryptReport(out, rep)
		if rep.Failed > 0 {
			return errJobFailed
		}
		return nil
	})
}

func printEncryptReport(out io.Writer, rep catalog.EncryptReport) {
	fmt.Fprintf(out, "scanned %d, updated %d, already encrypted %d, failed %d\n",
		rep.Scanned, rep.Updated, rep.Skipped, rep.Failed)
	for _, e := range rep.Errors {
		fmt.Fprintln(out, "  error:", e)
	}
}

func runMigrateFiles(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("migrate-files", out)
	dryRun := fs.Bool("dry-run", false, "list the renames without changing anything")
	keepOld := fs.Bool("keep-old", false, "keep the original objects after copying")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return withApp(ctx, func(a *app) error {
		rep, err := a.videos.MigrateFiles(ctx, a.storage, a.names, catalog.MigrateOptions{
			DryRun:  *dryRun,
			KeepOld: *keepOld,
		})
		if err != nil {
			return err
		}
		printMigrateReport(out, rep, *dryRun)
		if len(rep.Errors) > 0 {
			return errJobFailed
		}
		return nil
	})
}

func printMigrateReport(out io.Writer, rep catalog.MigrateReport, dryRun bool) {
	verb := "migrated"
	if dryRun {
		verb = "would migrate"
	}
	for _, r := range rep.Migrated {
		fmt.Fprintf(out, "  %-9s %s -> %s\n", r.Kind, r.OldName, r.NewName)
	}
	fmt.Fprintf(out, "%s %d, skipped %d, references updated %d\n",
		verb, len(rep.Migrated), rep.Skipped, rep.References)
	for _, e := range rep.Errors {
		fmt.Fprintln(out, "  error:", e)
	}
}

func runKeygen(_ context.Context, args []string, out io.Writer) error {
	if err := newFlagSet("keygen", out).Parse(args); err != nil {
		return err
	}

	secret, err := secrets.GenerateSecret()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, secret)
	return nil
}

func runSession(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: session needs create, current, validate or revoke", errUsage)
	}
	action, args := args[0], args[1:]

	fs := newFlagSet("session "+action, out)
	userID := fs.String("user", "", "user id (create)")
	token := fs.String("token", "", "session token (validate)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var sessionCfg session.Config
	if err := config.Load(&sessionCfg); err != nil {
		return err
	}
	keeper := session.WithKeeper(session.NewFileKeeper(sessionCfg.TokenFile))

	return withApp(ctx, func(a *app) error {
		if a.cfg.Session.Store == session.StoreMemory || a.cfg.Session.Store == "" {
			a.log.WarnContext(ctx, "SESSION_STORE is memory, sessions do not outlive this command")
		}

		switch action {
		case "create":
			s, err := a.sessions.Create(ctx, *userID, "storefront-cli")
			if err != nil {
				return err
			}
			printSession(out, s)
			return nil
		case "current":
			s, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			printSession(out, s)
			return nil
		case "validate":
			s, err := a.sessions.Validate(ctx, *token)
			if err != nil {
				return err
			}
			printSession(out, s)
			return nil
		case "revoke":
			s, err := a.sessions.Current(ctx)
			if err != nil {
				return err
			}
			if err := a.sessions.Revoke(ctx, s.ID); err != nil {
				return err
			}
			fmt.Fprintln(out, "revoked", s.ID)
			return nil
		default:
			return fmt.Errorf("%w: session %q", errUsage, action)
		}
	}, keeper)
}

func printSession(out io.Writer, s *session.Session) {
	fmt.Fprintf(out, "id:      %s\nuser:    %s\nactive:  %t\nexpires: %s\n",
		s.ID, s.UserID, s.IsActive, s.ExpiresAt.Format("2006-01-02 15:04:05 MST"))
	if s.Token != "" {
		fmt.Fprintf(out, "token:   %s\n", s.Token)
	}
}
