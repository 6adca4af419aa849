package postgres

import (
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ContentDiscovery/internal/core/snaps"
)

// psql builds statements with PostgreSQL $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// PostgreSQL error codes the repositories translate
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// snapColumns is the canonical column order read by scanSnap
var snapColumns = []string{
	"s.id", "s.author_id", "s.parent_id", "s.content",
	"s.likes", "s.shares", "s.favs",
	"s.visibility", "s.privacy", "s.created_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSnap reads snapColumns followed by any extra destinations
func scanSnap(row rowScanner, extra ...any) (*snaps.Snap, error) {
	var (
		snap     snaps.Snap
		parentID sql.NullString
	)

	dest := []any{
		&snap.ID, &snap.AuthorID, &parentID, &snap.Content,
		&snap.Likes, &snap.Shares, &snap.Favs,
		&snap.Visibility, &snap.Privacy, &snap.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	if parentID.Valid {
		snap.ParentID = &parentID.String
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
	return &snap, nil
}

func isPQError(err error, code string) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == code
}

// rollback is deferred after BeginTx; it is a no-op once the tx committed
func rollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// likePattern escapes LIKE wildcards in s and wraps it for a substring match
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}

// stringArray never returns NULL, so "= ANY(?)" compares against an empty set
func stringArray(ids []string) pq.StringArray {
	if ids == nil {
		return pq.StringArray{}
	}
	return pq.StringArray(ids)
}
