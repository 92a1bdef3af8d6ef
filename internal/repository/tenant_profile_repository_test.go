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
)

func newTenantProfileMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestTenantProfileRepositoryGet(t *testing.T) {
	db, mock, cleanup := newTenantProfileMock(t)
	defer cleanup()
	repo := NewTenantProfileRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"tenant_id", "employer_registry_num", "legal_representative", "registered_domicile", "last_folio", "updated_at"}).
		AddRow("tenant-1", "B55-12345-10-9", "Laura Méndez", "", int64(12), now)
	mock.ExpectQuery("SELECT tenant_id, employer_registry_num").
		WithArgs("tenant-1").
		WillReturnRows(rows)

	profile, err := repo.Get(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, int64(12), profile.LastFolio)
	assert.True(t, profile.Configured())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantProfileRepositoryUpsertKeepsCounter(t *testing.T) {
	db, mock, cleanup := newTenantProfileMock(t)
	defer cleanup()
	repo := NewTenantProfileRepository(db)

	registry := "B55-12345-10-9"
	now := time.Now()
	rows := sqlmock.NewRows([]string{"tenant_id", "employer_registry_num", "legal_representative", "registered_domicile", "last_folio", "updated_at"}).
		AddRow("tenant-1", registry, "Laura Méndez", "", int64(40), now)
	mock.ExpectQuery("INSERT INTO tenant_compliance_profiles").
		WithArgs("tenant-1", registry, nil, nil, sqlmock.AnyArg()).
		WillReturnRows(rows)

	profile, err := repo.Upsert(context.Background(), "tenant-1", &registry, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(40), profile.LastFolio)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantProfileRepositoryCompareAndSwapFolio(t *testing.T) {
	db, mock, cleanup := newTenantProfileMock(t)
	defer cleanup()
	repo := NewTenantProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenant_compliance_profiles")).
		WithArgs("tenant-1", int64(12), int64(13), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.CompareAndSwapFolio(context.Background(), "tenant-1", 12, 13)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantProfileRepositoryCompareAndSwapFolioLostRace(t *testing.T) {
	db, mock, cleanup := newTenantProfileMock(t)
	defer cleanup()
	repo := NewTenantProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tenant_compliance_profiles")).
		WithArgs("tenant-1", int64(12), int64(13), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.CompareAndSwapFolio(context.Background(), "tenant-1", 12, 13)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
