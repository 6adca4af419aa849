package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateInteractions, downCreateInteractions)
}

// likes, shares and favs share one shape: one row per (user, snap)
var interactionTables = []string{"likes", "shares", "favs"}

func upCreateInteractions(ctx context.Context, tx *sql.Tx) error {
	for _, table := range interactionTables {
		_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE %[1]s (
			user_id     TEXT NOT NULL,
			snap_id     UUID NOT NULL REFERENCES snaps(id) ON DELETE CASCADE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, snap_id)
		);

		CREATE INDEX idx_%[1]s_snap ON %[1]s (snap_id);
		CREATE INDEX idx_%[1]s_user_created ON %[1]s (user_id, created_at DESC);
		CREATE INDEX idx_%[1]s_created ON %[1]s (created_at);
		`, table))
		if err != nil {
			return fmt.Errorf("create %s: %w", table, err)
		}
	}
	return nil
}

func downCreateInteractions(ctx context.Context, tx *sql.Tx) error {
	for _, table := range interactionTables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s;`, table)); err != nil {
			return err
		}
	}
	return nil
}
