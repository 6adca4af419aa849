package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"ContentDiscovery/internal/core/feed"
	"ContentDiscovery/internal/core/snaps"
	"ContentDiscovery/internal/core/visibility"
)

// feedRepoBase holds the query plumbing shared by every feed listing.
//
// DATABASE INDEXES REQUIRED (see migrations 00001 and 00002):
//   - idx_snaps_author_created for ByAuthor and the authored half of Home
//   - idx_shares_user_created and idx_favs_user_created for SharedBy and FavedBy
//   - idx_snaps_parent for Replies and CountReplies
//
// Every listing selects snapColumns followed by sort_at and shared_by so a
// single scanner reads all of them.
type feedRepoBase struct {
	db *sql.DB
}

// visibleTo renders visibility.CanView as a WHERE clause over snaps aliased s
func visibleTo(scope visibility.Scope) squirrel.Sqlizer {
	audience := squirrel.Or{
		squirrel.Eq{"s.privacy": int(snaps.PrivacyPublic)},
		squirrel.Expr("s.author_id = ANY(?)", stringArray(scope.Following)),
	}
	if scope.ViewerID != "" {
		audience = append(audience, squirrel.Expr("s.author_id = ?", scope.ViewerID))
	}

	rule := squirrel.And{
		squirrel.Eq{"s.visibility": int(snaps.VisibilityPublic)},
		audience,
	}

	if scope.IncludeOwnPrivate && scope.ViewerID != "" {
		return squirrel.Or{squirrel.Expr("s.author_id = ?", scope.ViewerID), rule}
	}
	return rule
}

// rowsQuery starts a listing with the extra sort_at and shared_by columns
func rowsQuery(sortAt, sharedBy string) squirrel.SelectBuilder {
	return psql.Select(snapColumns...).
		Column(sortAt + " AS sort_at").
		Column(sharedBy + " AS shared_by").
		From("snaps s")
}

func paginate(q squirrel.SelectBuilder, page feed.Page) squirrel.SelectBuilder {
	return q.Limit(uint64(page.Limit)).Offset(uint64(page.Offset))
}

func (b *feedRepoBase) queryRows(ctx context.Context, q squirrel.SelectBuilder) ([]feed.Row, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build feed query: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query feed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []feed.Row{}
	for rows.Next() {
		var (
			row      feed.Row
			sharedBy pq.StringArray
		)
		snap, err := scanSnap(rows, &row.SortAt, &sharedBy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feed row: %w", err)
		}
		row.Snap = snap
		row.SortAt = row.SortAt.UTC()
		row.SharedBy = []string(sharedBy)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feed rows: %w", err)
	}
	return result, nil
}
