package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/levente-murgas/producthunt-ideator/internal/domain"
	"github.com/levente-murgas/producthunt-ideator/internal/ports"
)

// PostgresRunRepository persists pipeline run snapshots into Postgres for
// audit and re-run diagnostics.
type PostgresRunRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RunRepository = (*PostgresRunRepository)(nil)

// NewPostgresRunRepository wires a sql.DB implementation.
func NewPostgresRunRepository(db *sql.DB) *PostgresRunRepository {
	return &PostgresRunRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRun upserts the run snapshot keyed by date.
func (r *PostgresRunRepository) SaveRun(ctx context.Context, record domain.RunRecord) error {
	if r.db == nil {
		return nil
	}

	query, args, err := r.builder.
		Insert("pipeline_runs").
		Columns("run_date", "status", "document_path", "error_message").
		Values(record.Date, string(record.Status), record.DocumentPath, record.Error).
		Suffix(`ON CONFLICT (run_date) DO UPDATE
			SET status = EXCLUDED.status,
			    document_path = EXCLUDED.document_path,
			    error_message = EXCLUDED.error_message,
			    updated_at = NOW()`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}

	return nil
}

// LastRun loads the most recent snapshot for a date, if one exists.
func (r *PostgresRunRepository) LastRun(ctx context.Context, date string) (domain.RunRecord, bool, error) {
	if r.db == nil {
		return domain.RunRecord{}, false, nil
	}

	query, args, err := r.builder.
		Select("run_date", "status", "document_path", "error_message").
		From("pipeline_runs").
		Where(sq.Eq{"run_date": date}).
		ToSql()
	if err != nil {
		return domain.RunRecord{}, false, fmt.Errorf("build select: %w", err)
	}

	var record domain.RunRecord
	var status string
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&record.Date, &status, &record.DocumentPath, &record.Error)
	if err == sql.ErrNoRows {
		return domain.RunRecord{}, false, nil
	}
	if err != nil {
		return domain.RunRecord{}, false, fmt.Errorf("query run: %w", err)
	}

	record.Status = domain.JobStatus(status)
	return record, true, nil
}
