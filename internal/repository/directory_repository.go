package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/capacita-api/internal/models"
)

// DirectoryRepository reads the platform-owned entities the issuance
// pipeline depends on: workers, courses, tenants and enrollment progress.
// All lookups return (nil, nil) on a miss; this layer never writes.
type DirectoryRepository struct {
	db *sqlx.DB
}

// NewDirectoryRepository constructs the repository.
func NewDirectoryRepository(db *sqlx.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// GetWorker fetches a tenant-scoped worker identity.
func (r *DirectoryRepository) GetWorker(ctx context.Context, workerID, tenantID string) (*models.Worker, error) {
	const query = `SELECT id, tenant_id, full_name, curp, rfc, nss, occupation, job_title, nationality, created_at
FROM users WHERE id = $1 AND tenant_id = $2`
	var worker models.Worker
	if err := r.db.GetContext(ctx, &worker, query, workerID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get worker: %w", err)
	}
	return &worker, nil
}

// GetCourse fetches tenant-scoped course metadata.
func (r *DirectoryRepository) GetCourse(ctx context.Context, courseID, tenantID string) (*models.Course, error) {
	const query = `SELECT id, tenant_id, name, objective, start_date, end_date, created_at
FROM courses WHERE id = $1 AND tenant_id = $2`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, courseID, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get course: %w", err)
	}
	return &course, nil
}

// GetTenant fetches the employer legal identity.
func (r *DirectoryRepository) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	const query = `SELECT id, legal_name, rfc, business_activity, street, city, state, postal_code, created_at
FROM tenants WHERE id = $1`
	var tenant models.Tenant
	if err := r.db.GetContext(ctx, &tenant, query, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return &tenant, nil
}

// GetEnrollmentProgress fetches the completion snapshot for a worker and
// course.
func (r *DirectoryRepository) GetEnrollmentProgress(ctx context.Context, workerID, tenantID, courseID string) (*models.EnrollmentProgress, error) {
	const query = `SELECT id, tenant_id, worker_id, course_id, status, best_score, completed_at
FROM enrollment_progress WHERE worker_id = $1 AND tenant_id = $2 AND course_id = $3`
	var progress models.EnrollmentProgress
	if err := r.db.GetContext(ctx, &progress, query, workerID, tenantID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment progress: %w", err)
	}
	return &progress, nil
}
