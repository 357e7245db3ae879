// Package pg connects the optional Postgres backend and owns its schema.
//
// Postgres backs the session and site configuration stores when
// SESSION_STORE or SITE_CONFIG_STORE select it; an empty PG_CONN_URL turns
// it off. Connect returns a pgxpool.Pool once the database answers a ping,
// retrying with exponential back-off.
//
// The schema lives in goose SQL migrations embedded from the migrations
// directory. Migrate, Rollback and MigrationStatus drive them through the
// pool; PG_MIGRATIONS_PATH swaps in a directory on disk.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//		return err
//	}
package pg
