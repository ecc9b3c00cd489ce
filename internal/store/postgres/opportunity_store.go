package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// OpportunityStore implements domain.OpportunityStore using PostgreSQL. The
// buy and sell listings are stored as JSONB documents; the scoring columns
// are split out for querying.
type OpportunityStore struct {
	pool *pgxpool.Pool
}

// NewOpportunityStore creates an OpportunityStore backed by the given pool.
func NewOpportunityStore(pool *pgxpool.Pool) *OpportunityStore {
	return &OpportunityStore{pool: pool}
}

const opportunitySelectCols = `id, buy_listing, sell_reference,
	similarity_score, gross_profit, estimated_fees, fee_breakdown,
	net_profit, roi_percentage, risk_level, confidence_score, created_at`

func scanOpportunityRows(rows pgx.Rows) ([]domain.Opportunity, error) {
	var opps []domain.Opportunity
	for rows.Next() {
		var (
			o               domain.Opportunity
			buyDoc, sellDoc []byte
			feesDoc         []byte
		)
		if err := rows.Scan(
			&o.ID, &buyDoc, &sellDoc,
			&o.SimilarityScore, &o.GrossProfit, &o.EstimatedFees, &feesDoc,
			&o.NetProfitAfterFees, &o.ROIPercentage, &o.RiskLevel,
			&o.ConfidenceScore, &o.CreatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(buyDoc, &o.BuyListing); err != nil {
			return nil, fmt.Errorf("unmarshal buy listing for %s: %w", o.ID, err)
		}
		if err := json.Unmarshal(sellDoc, &o.SellReference); err != nil {
			return nil, fmt.Errorf("unmarshal sell reference for %s: %w", o.ID, err)
		}
		if err := json.Unmarshal(feesDoc, &o.FeeBreakdown); err != nil {
			return nil, fmt.Errorf("unmarshal fee breakdown for %s: %w", o.ID, err)
		}
		opps = append(opps, o)
	}
	return opps, rows.Err()
}

// InsertBatch stores all opportunities of one scan using a pgx batch.
// Re-inserting an existing opportunity ID is a no-op.
func (s *OpportunityStore) InsertBatch(ctx context.Context, scanID string, opps []domain.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}

	const query = `
		INSERT INTO opportunities (
			id, scan_id, buy_listing, sell_reference,
			similarity_score, gross_profit, estimated_fees, fee_breakdown,
			net_profit, roi_percentage, risk_level, confidence_score, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13
		) ON CONFLICT (id) DO NOTHING`

	batch := &pgx.Batch{}
	for _, o := range opps {
		buyDoc, err := json.Marshal(o.BuyListing)
		if err != nil {
			return fmt.Errorf("postgres: marshal buy listing for %s: %w", o.ID, err)
		}
		sellDoc, err := json.Marshal(o.SellReference)
		if err != nil {
			return fmt.Errorf("postgres: marshal sell reference for %s: %w", o.ID, err)
		}
		feesDoc, err := json.Marshal(o.FeeBreakdown)
		if err != nil {
			return fmt.Errorf("postgres: marshal fee breakdown for %s: %w", o.ID, err)
		}
		batch.Queue(query,
			o.ID, scanID, buyDoc, sellDoc,
			o.SimilarityScore, o.GrossProfit, o.EstimatedFees, feesDoc,
			o.NetProfitAfterFees, o.ROIPercentage, o.RiskLevel,
			o.ConfidenceScore, o.CreatedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := range opps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("postgres: insert opportunity batch item %d: %w", i, err)
		}
	}
	return nil
}

// ListByScan returns all opportunities of one scan, best net profit first.
func (s *OpportunityStore) ListByScan(ctx context.Context, scanID string) ([]domain.Opportunity, error) {
	query := fmt.Sprintf(`SELECT %s FROM opportunities WHERE scan_id = $1 ORDER BY net_profit DESC`, opportunitySelectCols)

	rows, err := s.pool.Query(ctx, query, scanID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list opportunities for scan %s: %w", scanID, err)
	}
	defer rows.Close()

	opps, err := scanOpportunityRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan opportunities for scan %s: %w", scanID, err)
	}
	return opps, nil
}

// ListRecent returns the newest opportunities across all scans.
func (s *OpportunityStore) ListRecent(ctx context.Context, limit int) ([]domain.Opportunity, error) {
	query := fmt.Sprintf(`SELECT %s FROM opportunities ORDER BY created_at DESC LIMIT $1`, opportunitySelectCols)

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list recent opportunities: %w", err)
	}
	defer rows.Close()

	opps, err := scanOpportunityRows(rows)
	if err != nil {
		return nil, fmt.Errorf("postgres: scan recent opportunities: %w", err)
	}
	return opps, nil
}

// Compile-time interface check.
var _ domain.OpportunityStore = (*OpportunityStore)(nil)
