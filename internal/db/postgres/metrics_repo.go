package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ContentDiscovery/internal/core/metrics"
	"ContentDiscovery/internal/core/snaps"
)

// frequencyUnits whitelists date_trunc units so no identifier comes from input
var frequencyUnits = map[metrics.Frequency]string{
	metrics.FrequencyHour:  "hour",
	metrics.FrequencyDay:   "day",
	metrics.FrequencyWeek:  "week",
	metrics.FrequencyMonth: "month",
}

type postgresMetricsRepo struct {
	db *sql.DB
}

// NewMetricsRepository creates a new PostgreSQL metrics repository
func NewMetricsRepository(db *sql.DB) metrics.Repository {
	return &postgresMetricsRepo{db: db}
}

// SnapRates splits snaps created in the range by visibility
func (r *postgresMetricsRepo) SnapRates(ctx context.Context, rng metrics.Range) (*metrics.SnapRates, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE visibility = $3),
			COUNT(*) FILTER (WHERE visibility = $4)
		FROM snaps
		WHERE created_at BETWEEN $1 AND $2
	`

	var rates metrics.SnapRates
	err := r.db.QueryRowContext(ctx, query, rng.Start, rng.End,
		int(snaps.VisibilityPrivate), int(snaps.VisibilityPublic),
	).Scan(&rates.Total, &rates.Private, &rates.Public)
	if err != nil {
		return nil, fmt.Errorf("failed to count snap rates: %w", err)
	}
	return &rates, nil
}

// UserMetrics reports lifetime totals from the snap counters and in-range
// counts from the interaction tables
func (r *postgresMetricsRepo) UserMetrics(ctx context.Context, userID string, rng metrics.Range) (*metrics.UserMetrics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM snaps WHERE author_id = $1),
			(SELECT COALESCE(SUM(likes), 0) FROM snaps WHERE author_id = $1),
			(SELECT COALESCE(SUM(shares), 0) FROM snaps WHERE author_id = $1),
			(SELECT COUNT(*) FROM snaps
				WHERE author_id = $1 AND created_at BETWEEN $2 AND $3),
			(SELECT COUNT(*) FROM likes l JOIN snaps s ON s.id = l.snap_id
				WHERE s.author_id = $1 AND l.created_at BETWEEN $2 AND $3),
			(SELECT COUNT(*) FROM shares sh JOIN snaps s ON s.id = sh.snap_id
				WHERE s.author_id = $1 AND sh.created_at BETWEEN $2 AND $3),
			(SELECT COUNT(*) FROM snaps rp JOIN snaps s ON s.id = rp.parent_id
				WHERE s.author_id = $1 AND rp.created_at BETWEEN $2 AND $3)
	`

	m := metrics.UserMetrics{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID, rng.Start, rng.End).Scan(
		&m.TotalSnaps, &m.TotalLikes, &m.TotalShares,
		&m.SnapsInRange, &m.LikesInRange, &m.SharesInRange, &m.RepliesInRange,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load user metrics: %w", err)
	}
	return &m, nil
}

func (r *postgresMetricsRepo) SnapFrequency(ctx context.Context, f metrics.Frequency, rng metrics.Range) ([]metrics.Bucket, error) {
	unit, ok := frequencyUnits[f]
	if !ok {
		return nil, metrics.ErrInvalidFrequency
	}

	query := `
		SELECT date_trunc('` + unit + `', created_at AT TIME ZONE 'UTC') AS period, COUNT(*)
		FROM snaps
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY 1
		ORDER BY 1
	`

	rows, err := r.db.QueryContext(ctx, query, rng.Start, rng.End)
	if err != nil {
		return nil, fmt.Errorf("failed to query snap frequency: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var buckets []metrics.Bucket
	for rows.Next() {
		var b metrics.Bucket
		if err := rows.Scan(&b.Period, &b.Count); err != nil {
			return nil, fmt.Errorf("failed to scan bucket: %w", err)
		}
		b.Period = b.Period.UTC()
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}
