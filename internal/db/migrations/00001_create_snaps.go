package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateSnaps, downCreateSnaps)
}

func upCreateSnaps(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE snaps (
		id          UUID PRIMARY KEY,
		author_id   TEXT NOT NULL,
		parent_id   UUID REFERENCES snaps(id) ON DELETE SET NULL,
		content     TEXT NOT NULL,
		likes       INTEGER NOT NULL DEFAULT 0,
		shares      INTEGER NOT NULL DEFAULT 0,
		favs        INTEGER NOT NULL DEFAULT 0,
		visibility  SMALLINT NOT NULL DEFAULT 1,
		privacy     SMALLINT NOT NULL DEFAULT 1,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT chk_snaps_likes CHECK (likes >= 0),
		CONSTRAINT chk_snaps_shares CHECK (shares >= 0),
		CONSTRAINT chk_snaps_favs CHECK (favs >= 0),
		CONSTRAINT chk_snaps_visibility CHECK (visibility IN (1, 2)),
		CONSTRAINT chk_snaps_privacy CHECK (privacy IN (1, 2)),
		CONSTRAINT chk_snaps_content CHECK (length(content) > 0)
	);

	CREATE INDEX idx_snaps_author_created ON snaps (author_id, created_at DESC, id DESC);
	CREATE INDEX idx_snaps_parent ON snaps (parent_id) WHERE parent_id IS NOT NULL;
	CREATE INDEX idx_snaps_created ON snaps (created_at);
	`)
	return err
}

func downCreateSnaps(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS snaps;`)
	return err
}
