package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ContentDiscovery/internal/core/tags"
)

type postgresTagRepo struct {
	db *sql.DB
}

// NewTagRepository creates a new PostgreSQL hashtag and mention repository
func NewTagRepository(db *sql.DB) tags.Repository {
	return &postgresTagRepo{db: db}
}

// AddHashtags inserts one row per name, duplicates included
func (r *postgresTagRepo) AddHashtags(ctx context.Context, snapID string, names []string, createdAt time.Time) error {
	if len(names) == 0 {
		return nil
	}

	insert := psql.Insert("hashtags").Columns("snap_id", "name", "created_at")
	for _, name := range names {
		insert = insert.Values(snapID, name, createdAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build hashtag insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert hashtags: %w", err)
	}
	return nil
}

func (r *postgresTagRepo) AddMentions(ctx context.Context, snapID string, mentions []tags.Mention, createdAt time.Time) error {
	if len(mentions) == 0 {
		return nil
	}

	insert := psql.Insert("mentions").Columns("snap_id", "mentioned_id", "mentioned_username", "created_at")
	for _, m := range mentions {
		insert = insert.Values(snapID, m.MentionedID, m.Username, createdAt)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mention insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert mentions: %w", err)
	}
	return nil
}
