// Package pg bootstraps the PostgreSQL connection pool (github.com/jackc/pgx/v5)
// and applies schema migrations with github.com/pressly/goose/v3.
//
// The pool is shared by the usage counters, the role store and the task
// outbox. Migrations are embedded in the binary (see package migrations) and
// applied on startup:
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	if err := pg.Migrate(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
// Healthcheck returns a probe for readiness endpoints; IsDuplicateKeyError
// and IsNotFoundError classify driver errors.
package pg
