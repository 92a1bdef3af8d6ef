package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/capacita-api/internal/models"
)

const courseProfileColumns = `tenant_id, course_id, enabled, topic_area_code, topic_area_name, duration_hours,
	modality, instructor_type, instructor_name, agent_registry_num, min_passing_score, updated_at`

// CourseProfileRepository persists per-course certification settings.
type CourseProfileRepository struct {
	db *sqlx.DB
}

// NewCourseProfileRepository constructs the repository.
func NewCourseProfileRepository(db *sqlx.DB) *CourseProfileRepository {
	return &CourseProfileRepository{db: db}
}

// Get fetches the profile for a (tenant, course) pair. sql.ErrNoRows
// passes through.
func (r *CourseProfileRepository) Get(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_compliance_profiles WHERE tenant_id = $1 AND course_id = $2`, courseProfileColumns)
	var profile models.CourseComplianceProfile
	if err := r.db.GetContext(ctx, &profile, query, tenantID, courseID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpsertCourseProfileParams carries the partial update. Nil fields keep
// their stored values.
type UpsertCourseProfileParams struct {
	Enabled          *bool
	TopicAreaCode    *string
	TopicAreaName    *string
	DurationHours    *int
	Modality         *string
	InstructorType   *string
	InstructorName   *string
	AgentRegistryNum *string
	MinPassingScore  *float64
}

// Upsert creates or merges a course profile. New profiles default to
// disabled until an administrator enables them explicitly.
func (r *CourseProfileRepository) Upsert(ctx context.Context, tenantID, courseID string, p UpsertCourseProfileParams) (*models.CourseComplianceProfile, error) {
	query := fmt.Sprintf(`INSERT INTO course_compliance_profiles (%s)
VALUES ($1, $2, COALESCE($3, FALSE), COALESCE($4, ''), COALESCE($5, ''), COALESCE($6, 0),
        COALESCE($7, 'ONSITE'), COALESCE($8, 'INTERNAL'), COALESCE($9, ''), $10, COALESCE($11, 0), $12)
ON CONFLICT (tenant_id, course_id)
DO UPDATE SET enabled            = COALESCE($3,  course_compliance_profiles.enabled),
              topic_area_code    = COALESCE($4,  course_compliance_profiles.topic_area_code),
              topic_area_name    = COALESCE($5,  course_compliance_profiles.topic_area_name),
              duration_hours     = COALESCE($6,  course_compliance_profiles.duration_hours),
              modality           = COALESCE($7,  course_compliance_profiles.modality),
              instructor_type    = COALESCE($8,  course_compliance_profiles.instructor_type),
              instructor_name    = COALESCE($9,  course_compliance_profiles.instructor_name),
              agent_registry_num = COALESCE($10, course_compliance_profiles.agent_registry_num),
              min_passing_score  = COALESCE($11, course_compliance_profiles.min_passing_score),
              updated_at         = $12
RETURNING %s`, courseProfileColumns, courseProfileColumns)
	var profile models.CourseComplianceProfile
	err := r.db.GetContext(ctx, &profile, query, tenantID, courseID,
		p.Enabled, p.TopicAreaCode, p.TopicAreaName, p.DurationHours,
		p.Modality, p.InstructorType, p.InstructorName, p.AgentRegistryNum,
		p.MinPassingScore, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("upsert course profile: %w", err)
	}
	return &profile, nil
}

// ListEnabled returns every profile cleared for issuance in the tenant.
func (r *CourseProfileRepository) ListEnabled(ctx context.Context, tenantID string) ([]models.CourseComplianceProfile, error) {
	query := fmt.Sprintf(`SELECT %s FROM course_compliance_profiles
WHERE tenant_id = $1 AND enabled = TRUE ORDER BY course_id ASC`, courseProfileColumns)
	var profiles []models.CourseComplianceProfile
	if err := r.db.SelectContext(ctx, &profiles, query, tenantID); err != nil {
		return nil, fmt.Errorf("list enabled course profiles: %w", err)
	}
	return profiles, nil
}
