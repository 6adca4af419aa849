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

const (
	noSharers     = `'{}'::text[]`
	newestFirst   = "sort_at DESC"
	idDescending  = "s.id DESC"
	sharersByTime = `COALESCE(ARRAY_AGG(sh.user_id ORDER BY sh.created_at DESC) FILTER (WHERE sh.user_id IS NOT NULL), '{}'::text[])`
)

type postgresFeedRepo struct {
	feedRepoBase
	snaps snaps.Repository
}

// NewFeedRepository creates a new PostgreSQL feed repository
func NewFeedRepository(db *sql.DB) feed.Repository {
	return &postgresFeedRepo{
		feedRepoBase: feedRepoBase{db: db},
		snaps:        NewSnapRepository(db),
	}
}

// Home merges snaps authored by members with snaps shared by members.
// A snap shared several times appears once, sorted by its latest share.
func (r *postgresFeedRepo) Home(ctx context.Context, members []string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	return r.authoredOrShared(ctx, stringArray(members), scope, page)
}

func (r *postgresFeedRepo) AuthoredOrShared(ctx context.Context, userID string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	return r.authoredOrShared(ctx, pq.StringArray{userID}, scope, page)
}

func (r *postgresFeedRepo) authoredOrShared(ctx context.Context, members pq.StringArray, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("COALESCE(MAX(sh.created_at), s.created_at)", sharersByTime).
		LeftJoin("shares sh ON sh.snap_id = s.id AND sh.user_id = ANY(?)", members).
		Where(squirrel.Or{
			squirrel.Expr("s.author_id = ANY(?)", members),
			squirrel.Expr("sh.user_id IS NOT NULL"),
		}).
		Where(visibleTo(scope)).
		GroupBy("s.id").
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

func (r *postgresFeedRepo) ByAuthor(ctx context.Context, authorID string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("s.created_at", noSharers).
		Where("s.author_id = ?", authorID).
		Where(visibleTo(scope)).
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

// SharedBy lists snaps the user shared, newest share first
func (r *postgresFeedRepo) SharedBy(ctx context.Context, userID string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("sh.created_at", "ARRAY[sh.user_id]").
		Join("shares sh ON sh.snap_id = s.id").
		Where("sh.user_id = ?", userID).
		Where(visibleTo(scope)).
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

// FavedBy lists snaps the user favorited, newest fav first
func (r *postgresFeedRepo) FavedBy(ctx context.Context, userID string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("f.created_at", noSharers).
		Join("favs f ON f.snap_id = s.id").
		Where("f.user_id = ?", userID).
		Where(visibleTo(scope)).
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

func (r *postgresFeedRepo) ByHashtag(ctx context.Context, hashtag string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("s.created_at", noSharers).
		Where("EXISTS (SELECT 1 FROM hashtags h WHERE h.snap_id = s.id AND h.name ILIKE ?)", likePattern(hashtag)).
		Where(visibleTo(scope)).
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

func (r *postgresFeedRepo) ByContent(ctx context.Context, text string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	q := rowsQuery("s.created_at", noSharers).
		Where("s.content ILIKE ?", likePattern(text)).
		Where(visibleTo(scope)).
		OrderBy(newestFirst, idDescending)

	return r.queryRows(ctx, paginate(q, page))
}

func (r *postgresFeedRepo) Replies(ctx context.Context, parentID string, scope visibility.Scope, page feed.Page) ([]feed.Row, error) {
	if _, err := snaps.ParseID(parentID); err != nil {
		return []feed.Row{}, nil
	}

	q := rowsQuery("s.created_at", noSharers).
		Where("s.parent_id = ?", parentID).
		Where(visibleTo(scope)).
		OrderBy("sort_at ASC", "s.id ASC")

	return r.queryRows(ctx, paginate(q, page))
}

func (r *postgresFeedRepo) GetByID(ctx context.Context, id string) (*snaps.Snap, error) {
	return r.snaps.GetByID(ctx, id)
}

func (r *postgresFeedRepo) ViewerState(ctx context.Context, viewerID string, snapIDs []string) (map[string]feed.ViewerState, error) {
	states := make(map[string]feed.ViewerState, len(snapIDs))
	if viewerID == "" || len(snapIDs) == 0 {
		return states, nil
	}

	query := `
		SELECT s.id,
			EXISTS (SELECT 1 FROM likes l WHERE l.snap_id = s.id AND l.user_id = $1),
			EXISTS (SELECT 1 FROM shares sh WHERE sh.snap_id = s.id AND sh.user_id = $1),
			EXISTS (SELECT 1 FROM favs f WHERE f.snap_id = s.id AND f.user_id = $1)
		FROM snaps s
		WHERE s.id = ANY($2::uuid[])
	`

	rows, err := r.db.QueryContext(ctx, query, viewerID, stringArray(snapIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to query viewer state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id    string
			state feed.ViewerState
		)
		if err := rows.Scan(&id, &state.Liked, &state.Shared, &state.Faved); err != nil {
			return nil, fmt.Errorf("failed to scan viewer state: %w", err)
		}
		states[id] = state
	}
	return states, rows.Err()
}

func (r *postgresFeedRepo) CountReplies(ctx context.Context, snapIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(snapIDs))
	if len(snapIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT parent_id, COUNT(*)
		FROM snaps
		WHERE parent_id = ANY($1::uuid[])
		GROUP BY parent_id
	`

	rows, err := r.db.QueryContext(ctx, query, stringArray(snapIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to count replies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id    string
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan reply count: %w", err)
		}
		counts[id] = count
	}
	return counts, rows.Err()
}
