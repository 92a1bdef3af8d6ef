package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type recordStore interface {
	GetByID(ctx context.Context, id string) (*models.ComplianceRecord, error)
	List(ctx context.Context, tenantID string, filter models.RecordFilter) ([]models.ComplianceRecord, int, error)
	Revoke(ctx context.Context, id string, at time.Time) (bool, error)
}

// RecordService exposes read and revoke access to issued records. Reads
// are tenant scoped; a record belonging to another tenant behaves as
// absent.
type RecordService struct {
	records recordStore
	logger  *zap.Logger
}

// NewRecordService constructs the service.
func NewRecordService(records recordStore, logger *zap.Logger) *RecordService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordService{records: records, logger: logger}
}

// Get fetches a record within the tenant boundary.
func (s *RecordService) Get(ctx context.Context, tenantID, recordID string) (*models.ComplianceRecord, error) {
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "compliance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance record")
	}
	if record.TenantID != tenantID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "compliance record not found")
	}
	return record, nil
}

// List returns tenant records with pagination metadata.
func (s *RecordService) List(ctx context.Context, tenantID string, filter models.RecordFilter) ([]models.ComplianceRecord, int, error) {
	records, total, err := s.records.List(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list compliance records")
	}
	if records == nil {
		records = []models.ComplianceRecord{}
	}
	return records, total, nil
}

// Revoke marks a record as revoked. The record content stays untouched;
// only the status and timestamp change.
func (s *RecordService) Revoke(ctx context.Context, tenantID, recordID string) (*models.ComplianceRecord, error) {
	record, err := s.Get(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status == models.RecordRevoked {
		return nil, appErrors.Clone(appErrors.ErrRecordRevoked, "")
	}

	now := time.Now().UTC()
	ok, err := s.records.Revoke(ctx, recordID, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to revoke compliance record")
	}
	if !ok {
		// Lost a race with a concurrent revoke.
		return nil, appErrors.Clone(appErrors.ErrRecordRevoked, "")
	}

	record.Status = models.RecordRevoked
	record.RevokedAt = &now
	s.logger.Info("compliance record revoked",
		zap.String("tenant_id", tenantID),
		zap.String("record_id", recordID),
		zap.Int64("folio", record.Folio))
	return record, nil
}
