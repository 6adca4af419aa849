package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTagsAndTopics, downCreateTagsAndTopics)
}

func upCreateTagsAndTopics(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	CREATE TABLE hashtags (
		id          BIGSERIAL PRIMARY KEY,
		snap_id     UUID NOT NULL REFERENCES snaps(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX idx_hashtags_snap ON hashtags (snap_id);
	CREATE INDEX idx_hashtags_created_name ON hashtags (created_at, name);

	-- mentioned_id is 'unknown' when the username did not resolve
	CREATE TABLE mentions (
		id                  BIGSERIAL PRIMARY KEY,
		snap_id             UUID NOT NULL REFERENCES snaps(id) ON DELETE CASCADE,
		mentioned_id        TEXT NOT NULL,
		mentioned_username  TEXT NOT NULL,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX idx_mentions_snap ON mentions (snap_id);
	CREATE INDEX idx_mentions_mentioned ON mentions (mentioned_id);

	CREATE TABLE topics (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),

		CONSTRAINT unique_topic_name UNIQUE (name)
	);

	CREATE INDEX idx_topics_created ON topics (created_at);
	`)
	return err
}

func downCreateTagsAndTopics(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
	DROP TABLE IF EXISTS topics;
	DROP TABLE IF EXISTS mentions;
	DROP TABLE IF EXISTS hashtags;
	`)
	return err
}
