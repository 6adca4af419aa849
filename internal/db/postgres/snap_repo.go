package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ContentDiscovery/internal/core/snaps"
)

type postgresSnapRepo struct {
	db *sql.DB
}

// NewSnapRepository creates a new PostgreSQL snap repository
func NewSnapRepository(db *sql.DB) snaps.Repository {
	return &postgresSnapRepo{db: db}
}

func (r *postgresSnapRepo) Create(ctx context.Context, snap *snaps.Snap) error {
	query := `
		INSERT INTO snaps (
			id, author_id, parent_id, content,
			likes, shares, favs,
			visibility, privacy, created_at
		) VALUES ($1, $2, $3, $4, 0, 0, 0, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		snap.ID, snap.AuthorID, snap.ParentID, snap.Content,
		int(snap.Visibility), int(snap.Privacy), snap.CreatedAt,
	)
	if err != nil {
		// Parent deleted between lookup and insert
		if isPQError(err, pqForeignKeyViolation) {
			return snaps.ErrSnapNotFound
		}
		return fmt.Errorf("failed to insert snap: %w", err)
	}

	snap.Likes, snap.Shares, snap.Favs = 0, 0, 0
	return nil
}

// GetByID returns ErrSnapNotFound for malformed ids without querying
func (r *postgresSnapRepo) GetByID(ctx context.Context, id string) (*snaps.Snap, error) {
	if _, err := snaps.ParseID(id); err != nil {
		return nil, err
	}

	query, args, err := psql.Select(snapColumns...).
		From("snaps s").
		Where("s.id = ?", id).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	snap, err := scanSnap(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snaps.ErrSnapNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snap: %w", err)
	}
	return snap, nil
}

func (r *postgresSnapRepo) UpdateContent(ctx context.Context, id, authorID, content string) (*snaps.Snap, error) {
	return r.updateOwned(ctx, id, authorID, "content", content)
}

func (r *postgresSnapRepo) SetVisibility(ctx context.Context, id, authorID string, visibility snaps.Visibility) (*snaps.Snap, error) {
	return r.updateOwned(ctx, id, authorID, "visibility", int(visibility))
}

// updateOwned sets one column on a snap owned by authorID.
// column must be a constant; it is never taken from input.
func (r *postgresSnapRepo) updateOwned(ctx context.Context, id, authorID, column string, value any) (*snaps.Snap, error) {
	if _, err := snaps.ParseID(id); err != nil {
		return nil, err
	}

	query, args, err := psql.Update("snaps s").
		Set(column, value).
		Where("s.id = ?", id).
		Where("s.author_id = ?", authorID).
		Suffix("RETURNING " + strings.Join(snapColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update: %w", err)
	}

	snap, err := scanSnap(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		// Distinguish a missing snap from one owned by someone else
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, snaps.ErrNotAuthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update snap %s: %w", column, err)
	}
	return snap, nil
}

// Delete removes the snap, its interactions, hashtags and mentions, and
// detaches its replies, all in one transaction
func (r *postgresSnapRepo) Delete(ctx context.Context, id string) error {
	if _, err := snaps.ParseID(id); err != nil {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(tx)

	for _, table := range []string{"likes", "shares", "favs", "hashtags", "mentions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE snap_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE snaps SET parent_id = NULL WHERE parent_id = $1`, id); err != nil {
		return fmt.Errorf("failed to detach replies: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snaps WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete snap: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
