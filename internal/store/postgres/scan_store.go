package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// ScanStore implements domain.ScanStore using PostgreSQL.
type ScanStore struct {
	pool *pgxpool.Pool
}

// NewScanStore creates a ScanStore backed by the given connection pool.
func NewScanStore(pool *pgxpool.Pool) *ScanStore {
	return &ScanStore{pool: pool}
}

const scanSelectCols = `scan_id, keyword, category, subcategory, min_profit,
	listings_analyzed, opportunities_found, highest_net_profit, average_roi,
	started_at, duration_ms`

func scanScanRows(rows pgx.Rows) ([]domain.ScanRecord, error) {
	var recs []domain.ScanRecord
	for rows.Next() {
		var r domain.ScanRecord
		if err := rows.Scan(
			&r.ScanID, &r.Keyword, &r.Category, &r.Subcategory, &r.MinProfit,
			&r.ListingsAnalyzed, &r.OpportunitiesFound, &r.HighestNetProfit,
			&r.AverageROI, &r.StartedAt, &r.DurationMs,
		); err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// Insert stores one completed scan header. Re-inserting the same scan ID is
// a no-op.
func (s *ScanStore) Insert(ctx context.Context, rec domain.ScanRecord) error {
	const query = `
		INSERT INTO scans (
			scan_id, keyword, category, subcategory, min_profit,
			listings_analyzed, opportunities_found, highest_net_profit,
			average_roi, started_at, duration_ms
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11
		) ON CONFLICT (scan_id) DO NOTHING`

	_, err := s.pool.Exec(ctx, query,
		rec.ScanID, rec.Keyword, rec.Category, rec.Subcategory, rec.MinProfit,
		rec.ListingsAnalyzed, rec.OpportunitiesFound, rec.HighestNetProfit,
		rec.AverageROI, rec.StartedAt, rec.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("postgres: insert scan %s: %w", rec.ScanID, err)
	}
	return nil
}

// ListRecent returns the newest scans first.
func (s *ScanStore) ListRecent(ctx context.Context, limit int) ([]domain.ScanRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM scans ORDER BY started_at DESC LIMIT $1`, scanSelectCols)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent scans: %w", err)
	}
	defer rows.Close()

	recs, err := scanScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent scans: %w", err)
	}
	return recs, nil
}

// ListBefore returns scans started before the cutoff, newest first.
func (s *ScanStore) ListBefore(ctx context.Context, cutoff time.Time, limit int) ([]domain.ScanRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM scans WHERE started_at < $1 ORDER BY started_at DESC LIMIT $2`, scanSelectCols)

	rows, err := s.pool.Query(ctx, query, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list scans before %s: %w", cutoff, err)
	}
	defer rows.Close()

	recs, err := scanScanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan scans before %s: %w", cutoff, err)
	}
	return recs, nil
}

// DeleteBefore prunes scans started before the cutoff and returns the count
// removed. Opportunities cascade with their scan.
func (s *ScanStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scans WHERE started_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete scans before %s: %w", cutoff, err)
	}
	return tag.RowsAffected(), nil
}

// Compile-time interface check.
var _ domain.ScanStore = (*ScanStore)(nil)
