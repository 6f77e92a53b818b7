package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"coursecraft/internal/domain"
	"coursecraft/internal/domain/models/validation"
	"coursecraft/internal/domain/repositories"
)

// PostgresReportRepository implements the ReportRepository interface
type PostgresReportRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewReportRepository creates a new validation-report repository
func NewReportRepository(config *RepositoryConfig) repositories.ReportRepository {
	return &PostgresReportRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// SaveRun persists one orchestrator run
func (r *PostgresReportRepository) SaveRun(ctx context.Context, run *repositories.ValidationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	reports, err := json.Marshal(run.Reports)
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, course_id, mode, overall_severity, summary, reports, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, r.tables.ValidationReports)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		run.ID, run.CourseID, run.Mode, run.OverallSeverity.String(),
		run.Summary, reports, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save validation run: %w", err)
	}
	return nil
}

// LatestRun returns the most recent run for a course
func (r *PostgresReportRepository) LatestRun(ctx context.Context, courseID string) (*repositories.ValidationRun, error) {
	query := fmt.Sprintf(`
		SELECT id, course_id, mode, overall_severity, summary, reports, created_at
		FROM %s
		WHERE course_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, r.tables.ValidationReports)

	executor := GetExecutor(ctx, r.pool)
	row := executor.QueryRow(ctx, query, courseID)

	var run repositories.ValidationRun
	var severity string
	var reports []byte
	err := row.Scan(&run.ID, &run.CourseID, &run.Mode, &severity, &run.Summary, &reports, &run.CreatedAt)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{
				Message: fmt.Sprintf("no validation runs for course %q", courseID),
			}
		}
		return nil, fmt.Errorf("load validation run: %w", err)
	}

	run.OverallSeverity = validation.ParseSeverity(severity)
	if err := json.Unmarshal(reports, &run.Reports); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	return &run, nil
}
