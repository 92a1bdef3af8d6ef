package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/models"
)

func newCourseProfileMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseProfileRows(enabled bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"tenant_id", "course_id", "enabled", "topic_area_code", "topic_area_name", "duration_hours",
		"modality", "instructor_type", "instructor_name", "agent_registry_num", "min_passing_score", "updated_at",
	}).AddRow("tenant-1", "course-1", enabled, "6000", "Seguridad e higiene en el trabajo", 16,
		"ONSITE", "INTERNAL", "Ing. Raúl Domínguez", nil, 70.0, time.Now())
}

func TestCourseProfileRepositoryGet(t *testing.T) {
	db, mock, cleanup := newCourseProfileMock(t)
	defer cleanup()
	repo := NewCourseProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM course_compliance_profiles WHERE tenant_id").
		WithArgs("tenant-1", "course-1").
		WillReturnRows(courseProfileRows(true))

	profile, err := repo.Get(context.Background(), "tenant-1", "course-1")
	require.NoError(t, err)
	assert.True(t, profile.Enabled)
	assert.Equal(t, models.ModalityOnsite, profile.Modality)
	assert.Equal(t, 70.0, profile.MinPassingScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseProfileRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newCourseProfileMock(t)
	defer cleanup()
	repo := NewCourseProfileRepository(db)

	enabled := true
	code := "6000"
	name := "Seguridad e higiene en el trabajo"
	mock.ExpectQuery("INSERT INTO course_compliance_profiles").
		WillReturnRows(courseProfileRows(true))

	profile, err := repo.Upsert(context.Background(), "tenant-1", "course-1", UpsertCourseProfileParams{
		Enabled:       &enabled,
		TopicAreaCode: &code,
		TopicAreaName: &name,
	})
	require.NoError(t, err)
	assert.Equal(t, "6000", profile.TopicAreaCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseProfileRepositoryListEnabled(t *testing.T) {
	db, mock, cleanup := newCourseProfileMock(t)
	defer cleanup()
	repo := NewCourseProfileRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM course_compliance_profiles").
		WithArgs("tenant-1").
		WillReturnRows(courseProfileRows(true))

	profiles, err := repo.ListEnabled(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "course-1", profiles[0].CourseID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
