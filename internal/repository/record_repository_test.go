package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/models"
)

func newRecordMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRecordRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newRecordMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectExec("INSERT INTO compliance_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), &models.ComplianceRecord{
		ID:       "rec-1",
		TenantID: "tenant-1",
		Folio:    1,
		WorkerID: "worker-1",
		CourseID: "course-1",
		Worker:   models.WorkerBlock{FullName: "María Sánchez", CURP: "SAMR850101MDFXYZ09"},
		Employer: models.EmployerBlock{LegalName: "Aceros del Norte SA de CV"},
		Course:   models.CourseBlock{Name: "Seguridad industrial básica", TopicAreaCode: "6000"},
		Result:   models.ResultBlock{Score: 88, MinPassingScore: 70, Passed: true},
		Passed:   true,
		IssuedAt: time.Now().UTC(),
		Status:   models.RecordIssued,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRecordMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "folio", "worker_id", "course_id",
		"worker", "employer", "course", "instructor", "result",
		"topic_area_code", "passed", "issue_place", "issued_at", "status", "revoked_at",
	}).AddRow(
		"rec-1", "tenant-1", int64(7), "worker-1", "course-1",
		[]byte(`{"full_name":"María Sánchez","curp":"SAMR850101MDFXYZ09"}`),
		[]byte(`{"legal_name":"Aceros del Norte SA de CV"}`),
		[]byte(`{"name":"Seguridad industrial básica"}`),
		[]byte(`{"name":"Ing. Raúl Domínguez","type":"INTERNAL"}`),
		[]byte(`{"score":88,"min_passing_score":70,"passed":true}`),
		"6000", true, "Ciudad de México", now, "ISSUED", nil,
	)
	mock.ExpectQuery("SELECT (.+) FROM compliance_records WHERE id").
		WithArgs("rec-1").
		WillReturnRows(rows)

	record, err := repo.GetByID(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), record.Folio)
	assert.Equal(t, "María Sánchez", record.Worker.FullName)
	assert.True(t, record.Result.Passed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryRevoke(t *testing.T) {
	db, mock, cleanup := newRecordMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	at := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE compliance_records SET status")).
		WithArgs("rec-1", string(models.RecordRevoked), at, string(models.RecordIssued)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.Revoke(context.Background(), "rec-1", at)
	require.NoError(t, err)
	assert.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE compliance_records SET status")).
		WithArgs("rec-1", string(models.RecordRevoked), at, string(models.RecordIssued)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err = repo.Revoke(context.Background(), "rec-1", at)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositorySummaryBuckets(t *testing.T) {
	db, mock, cleanup := newRecordMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	rows := sqlmock.NewRows([]string{"topic_area_code", "total", "passed", "failed"}).
		AddRow("6000", 2, 2, 0).
		AddRow("8000", 1, 0, 1)
	mock.ExpectQuery("SELECT topic_area_code").
		WithArgs("tenant-1", string(models.RecordIssued), from, to).
		WillReturnRows(rows)

	buckets, err := repo.SummaryBuckets(context.Background(), "tenant-1", from, to)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, 2, buckets[0].Passed)
	assert.Equal(t, 1, buckets[1].Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordRepositoryList(t *testing.T) {
	db, mock, cleanup := newRecordMock(t)
	defer cleanup()
	repo := NewRecordRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM compliance_records")).
		WithArgs("tenant-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "tenant_id", "folio", "worker_id", "course_id",
		"worker", "employer", "course", "instructor", "result",
		"topic_area_code", "passed", "issue_place", "issued_at", "status", "revoked_at",
	}).AddRow(
		"rec-1", "tenant-1", int64(1), "worker-1", "course-1",
		[]byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`), []byte(`{}`),
		"6000", true, "Ciudad de México", now, "ISSUED", nil,
	)
	mock.ExpectQuery("SELECT (.+) FROM compliance_records WHERE tenant_id").
		WithArgs("tenant-1", 50, 0).
		WillReturnRows(rows)

	records, total, err := repo.List(context.Background(), "tenant-1", models.RecordFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, records, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
