package models

import "time"

// EnrollmentStatus tracks a worker's progress through a course.
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
)

// EnrollmentProgress is the completion snapshot read at issuance time.
// Owned by the learning runtime; read-only here.
type EnrollmentProgress struct {
	ID          string           `db:"id" json:"id"`
	TenantID    string           `db:"tenant_id" json:"tenant_id"`
	WorkerID    string           `db:"worker_id" json:"worker_id"`
	CourseID    string           `db:"course_id" json:"course_id"`
	Status      EnrollmentStatus `db:"status" json:"status"`
	BestScore   *float64         `db:"best_score" json:"best_score,omitempty"`
	CompletedAt *time.Time       `db:"completed_at" json:"completed_at,omitempty"`
}

// Score returns the best recorded score, defaulting to zero.
func (p EnrollmentProgress) Score() float64 {
	if p.BestScore == nil {
		return 0
	}
	return *p.BestScore
}
