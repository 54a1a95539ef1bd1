package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate brings the database at connString up to the latest migration in
// migrations/, the teacher's manual "run a SQL file against psql" step
// replaced with pressly/goose/v3 so schema changes ship with the binary
// instead of a README instruction.
//
// goose operates on *database/sql.DB, so this opens a second,
// migration-only connection via pgx's database/sql driver
// (jackc/pgx/v5/stdlib) rather than reusing the pgxpool.Pool a running
// Store holds; migrations run once at deploy time, not on the hot path.
func Migrate(ctx context.Context, connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("store: open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("store: set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("store: run migrations: %w", err)
	}
	return nil
}
