package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ContentDiscovery/internal/core/trending"
)

type postgresTopicRepo struct {
	db *sql.DB
}

// NewTopicRepository creates a new PostgreSQL trending topic repository
func NewTopicRepository(db *sql.DB) trending.Repository {
	return &postgresTopicRepo{db: db}
}

func (r *postgresTopicRepo) TopHashtags(ctx context.Context, since time.Time, min int) ([]trending.HashtagCount, error) {
	query := `
		SELECT name, COUNT(*) AS count
		FROM hashtags
		WHERE created_at > $1
		GROUP BY name
		HAVING COUNT(*) >= $2
		ORDER BY count DESC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, since, min)
	if err != nil {
		return nil, fmt.Errorf("failed to count hashtags: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []trending.HashtagCount
	for rows.Next() {
		var c trending.HashtagCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan hashtag count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// CreateIfNotExists relies on the unique name constraint; concurrent promoters
// cannot both insert the same name
func (r *postgresTopicRepo) CreateIfNotExists(ctx context.Context, name string, createdAt time.Time) (*trending.Topic, bool, error) {
	query := `
		INSERT INTO topics (id, name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING id, name, created_at
	`

	var topic trending.Topic
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), name, createdAt).
		Scan(&topic.ID, &topic.Name, &topic.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert topic: %w", err)
	}

	topic.CreatedAt = topic.CreatedAt.UTC()
	return &topic, true, nil
}

func (r *postgresTopicRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete topics: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresTopicRepo) List(ctx context.Context) ([]*trending.Topic, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM topics
		ORDER BY created_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	topics := []*trending.Topic{}
	for rows.Next() {
		var t trending.Topic
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		t.CreatedAt = t.CreatedAt.UTC()
		topics = append(topics, &t)
	}
	return topics, rows.Err()
}
