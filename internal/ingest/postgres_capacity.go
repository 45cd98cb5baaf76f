// Postgres-backed capacity table loader, offered by spec §6 as an
// alternative to the CSV capacity table.
//
// Grounded on services/history-svc/internal/repository/postgres.go: a thin
// repository wrapping database.DB, one telemetry.StartSpan per method, and
// fmt.Errorf("failed to ...: %w", err) wrapping throughout.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"checkflow/internal/capacity"
	"checkflow/pkg/database"
	"checkflow/pkg/telemetry"
)

// PostgresCapacityRepository loads and persists capacity.RawRow data in a
// Postgres `capacity_records` table (see migrations/00001_capacity_records.sql).
type PostgresCapacityRepository struct {
	db database.DB
}

// NewPostgresCapacityRepository returns a repository backed by db.
func NewPostgresCapacityRepository(db database.DB) *PostgresCapacityRepository {
	return &PostgresCapacityRepository{db: db}
}

// LoadIndex reads every row in capacity_records and folds it into a fresh
// capacity.Index, applying the same aggregation rule ReadCapacityTable
// applies to the CSV source (spec §4.4).
func (r *PostgresCapacityRepository) LoadIndex(ctx context.Context) (*capacity.Index, error) {
	ctx, span := telemetry.StartSpan(ctx, "PostgresCapacityRepository.LoadIndex")
	defer span.End()

	query := `
		SELECT checkpoint_id, sense_code,
			cap_m, cap_a, cap_b, cap_cu, cap_cai, cap_caii,
			fa,
			focup_m, focup_a, focup_b, focup_cu, focup_cai, focup_caii
		FROM capacity_records
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query capacity records: %w", err)
	}
	defer rows.Close()

	builder := capacity.NewBuilder()
	for rows.Next() {
		raw, err := scanRawRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan capacity record: %w", err)
		}
		builder.Add(raw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("capacity records iteration error: %w", err)
	}

	return builder.Build(), nil
}

// scanner is satisfied by both pgx.Rows and pgx.Row.
type scanner interface {
	Scan(dest ...any) error
}

func scanRawRow(s scanner) (capacity.RawRow, error) {
	var raw capacity.RawRow
	var cap [6]sql.NullFloat64
	var fa sql.NullFloat64
	var focup [6]sql.NullFloat64

	err := s.Scan(
		&raw.CheckpointID, &raw.SenseCode,
		&cap[capacity.CategoryM], &cap[capacity.CategoryA], &cap[capacity.CategoryB],
		&cap[capacity.CategoryCU], &cap[capacity.CategoryCAI], &cap[capacity.CategoryCAII],
		&fa,
		&focup[capacity.CategoryM], &focup[capacity.CategoryA], &focup[capacity.CategoryB],
		&focup[capacity.CategoryCU], &focup[capacity.CategoryCAI], &focup[capacity.CategoryCAII],
	)
	if err != nil {
		return capacity.RawRow{}, err
	}

	for _, c := range capacity.Categories {
		raw.Cap[c] = orNaN(cap[c])
		raw.Focup[c] = orNaN(focup[c])
	}
	raw.FA = orNaN(fa)

	return raw, nil
}

// orNaN converts a SQL-nullable float into the capacity package's MISSING
// convention (NaN).
func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// orNull converts the capacity package's MISSING convention (NaN) into a
// SQL NULL for writes.
func orNull(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

// UpsertRow writes one raw capacity row, keyed by (checkpoint_id,
// sense_code). Re-running the same row is idempotent; it does not
// re-aggregate, since aggregation is LoadIndex's job, applied once at read
// time against the full set of stored rows.
func (r *PostgresCapacityRepository) UpsertRow(ctx context.Context, row capacity.RawRow) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresCapacityRepository.UpsertRow")
	defer span.End()

	query := `
		INSERT INTO capacity_records (
			checkpoint_id, sense_code,
			cap_m, cap_a, cap_b, cap_cu, cap_cai, cap_caii,
			fa,
			focup_m, focup_a, focup_b, focup_cu, focup_cai, focup_caii,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
		ON CONFLICT (checkpoint_id, sense_code) DO UPDATE SET
			cap_m = EXCLUDED.cap_m, cap_a = EXCLUDED.cap_a, cap_b = EXCLUDED.cap_b,
			cap_cu = EXCLUDED.cap_cu, cap_cai = EXCLUDED.cap_cai, cap_caii = EXCLUDED.cap_caii,
			fa = EXCLUDED.fa,
			focup_m = EXCLUDED.focup_m, focup_a = EXCLUDED.focup_a, focup_b = EXCLUDED.focup_b,
			focup_cu = EXCLUDED.focup_cu, focup_cai = EXCLUDED.focup_cai, focup_caii = EXCLUDED.focup_caii,
			updated_at = now()
	`

	_, err := r.db.Exec(ctx, query,
		row.CheckpointID, row.SenseCode,
		orNull(row.Cap[capacity.CategoryM]), orNull(row.Cap[capacity.CategoryA]), orNull(row.Cap[capacity.CategoryB]),
		orNull(row.Cap[capacity.CategoryCU]), orNull(row.Cap[capacity.CategoryCAI]), orNull(row.Cap[capacity.CategoryCAII]),
		orNull(row.FA),
		orNull(row.Focup[capacity.CategoryM]), orNull(row.Focup[capacity.CategoryA]), orNull(row.Focup[capacity.CategoryB]),
		orNull(row.Focup[capacity.CategoryCU]), orNull(row.Focup[capacity.CategoryCAI]), orNull(row.Focup[capacity.CategoryCAII]),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert capacity record: %w", err)
	}
	return nil
}

// DeleteByCheckpoint removes every row for checkpointID, used when a
// checkpoint's capacity table is reloaded wholesale rather than patched
// row by row.
func (r *PostgresCapacityRepository) DeleteByCheckpoint(ctx context.Context, checkpointID string) error {
	ctx, span := telemetry.StartSpan(ctx, "PostgresCapacityRepository.DeleteByCheckpoint")
	defer span.End()

	_, err := r.db.Exec(ctx, `DELETE FROM capacity_records WHERE checkpoint_id = $1`, checkpointID)
	if err != nil {
		return fmt.Errorf("failed to delete capacity records: %w", err)
	}
	return nil
}
