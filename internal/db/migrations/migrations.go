// Package migrations holds the schema as goose Go migrations.
// Importing the package registers every migration.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

// goose still lists the migration directory next to the registered funcs,
// so the sources travel inside the binary.
//
//go:embed 0*.go
var sources embed.FS

// Up applies every pending migration
func Up(ctx context.Context, db *sql.DB) error {
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(sources)
	defer goose.SetBaseFS(nil)

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
