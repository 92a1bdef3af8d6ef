package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/capacita-api/internal/models"
)

const recordColumns = `id, tenant_id, folio, worker_id, course_id, worker, employer, course, instructor, result,
	topic_area_code, passed, issue_place, issued_at, status, revoked_at`

// RecordRepository persists issued compliance records. Records are
// append-only apart from the revoke transition.
type RecordRepository struct {
	db *sqlx.DB
}

// NewRecordRepository constructs the repository.
func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Insert persists a fully composed record in a single statement.
func (r *RecordRepository) Insert(ctx context.Context, record *models.ComplianceRecord) error {
	const query = `INSERT INTO compliance_records
	(id, tenant_id, folio, worker_id, course_id, worker, employer, course, instructor, result,
	 topic_area_code, passed, issue_place, issued_at, status)
VALUES (:id, :tenant_id, :folio, :worker_id, :course_id, :worker, :employer, :course, :instructor, :result,
        :topic_area_code, :passed, :issue_place, :issued_at, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("insert compliance record: %w", err)
	}
	return nil
}

// GetByID fetches a record. sql.ErrNoRows passes through.
func (r *RecordRepository) GetByID(ctx context.Context, id string) (*models.ComplianceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM compliance_records WHERE id = $1`, recordColumns)
	var record models.ComplianceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, err
	}
	return &record, nil
}

// List returns tenant records ordered by folio, newest first, with the
// total count for pagination.
func (r *RecordRepository) List(ctx context.Context, tenantID string, filter models.RecordFilter) ([]models.ComplianceRecord, int, error) {
	where := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	if filter.From != nil {
		args = append(args, *filter.From)
		where += fmt.Sprintf(" AND issued_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where += fmt.Sprintf(" AND issued_at < $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM compliance_records %s", where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count compliance records: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	args = append(args, pageSize, (page-1)*pageSize)
	query := fmt.Sprintf(`SELECT %s FROM compliance_records %s ORDER BY folio DESC LIMIT $%d OFFSET $%d`,
		recordColumns, where, len(args)-1, len(args))

	var records []models.ComplianceRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list compliance records: %w", err)
	}
	return records, total, nil
}

// Revoke flips an issued record to REVOKED. Returns false when the record
// was not in ISSUED state (already revoked or absent).
func (r *RecordRepository) Revoke(ctx context.Context, id string, at time.Time) (bool, error) {
	const query = `UPDATE compliance_records SET status = $2, revoked_at = $3 WHERE id = $1 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, id, models.RecordRevoked, at, models.RecordIssued)
	if err != nil {
		return false, fmt.Errorf("revoke compliance record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("revoke result: %w", err)
	}
	return affected == 1, nil
}

// SummaryBuckets aggregates issued records by topic-area code within the
// half-open interval [from, to).
func (r *RecordRepository) SummaryBuckets(ctx context.Context, tenantID string, from, to time.Time) ([]models.TopicBucket, error) {
	const query = `SELECT topic_area_code,
       COUNT(*) AS total,
       COUNT(*) FILTER (WHERE passed) AS passed,
       COUNT(*) FILTER (WHERE NOT passed) AS failed
FROM compliance_records
WHERE tenant_id = $1 AND status = $2 AND issued_at >= $3 AND issued_at < $4
GROUP BY topic_area_code
ORDER BY topic_area_code ASC`
	var buckets []models.TopicBucket
	if err := r.db.SelectContext(ctx, &buckets, query, tenantID, models.RecordIssued, from, to); err != nil {
		return nil, fmt.Errorf("summarize compliance records: %w", err)
	}
	return buckets, nil
}
