package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/db"
	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// CDRRepository reads call detail records from ClickHouse. The console
// only queries this store; the mediation pipeline writes it.
type CDRRepository struct {
	db *db.ClickHouseClient
}

// NewCDRRepository creates a new CDR repository
func NewCDRRepository(db *db.ClickHouseClient) *CDRRepository {
	return &CDRRepository{db: db}
}

// ListSubscriberCDRs retrieves CDRs for a subscriber within a date range,
// most recent first.
func (r *CDRRepository) ListSubscriberCDRs(
	ctx context.Context,
	msisdn string,
	from, to time.Time,
	limit int32,
) ([]*models.CDR, error) {
	query := `
		SELECT
			id, msisdn, record_type, timestamp,
			duration_seconds, volume_bytes, other_party,
			toString(charge) as charge, cell_id
		FROM cdrs
		WHERE msisdn = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp DESC
	`

	args := []interface{}{msisdn, from, to}

	// Apply limit if provided
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Conn().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query CDRs for subscriber %s: %w", msisdn, err)
	}
	defer rows.Close()

	var cdrs []*models.CDR

	for rows.Next() {
		var cdr models.CDR
		var recordType string

		err := rows.Scan(
			&cdr.ID,
			&cdr.MSISDN,
			&recordType,
			&cdr.Timestamp,
			&cdr.Duration,
			&cdr.Volume,
			&cdr.OtherParty,
			&cdr.Charge,
			&cdr.CellID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan CDR row: %w", err)
		}

		cdr.Type = models.CDRType(recordType)
		cdrs = append(cdrs, &cdr)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating CDR rows: %w", err)
	}

	return cdrs, nil
}
