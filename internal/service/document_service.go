package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type certificateRenderer interface {
	Render(record *models.ComplianceRecord) ([]byte, error)
}

type documentRecorder interface {
	ObserveDocument(source string, duration time.Duration)
}

// DocumentServiceConfig controls document caching.
type DocumentServiceConfig struct {
	CacheTTL time.Duration
}

// DocumentService produces certificate documents from issued records.
// Rendering is deterministic, so cached bytes and fresh renders are
// interchangeable; the cache key carries the record status so a revoke
// invalidates naturally.
type DocumentService struct {
	records  recordStore
	renderer certificateRenderer
	cache    *redis.Client
	metrics  documentRecorder
	logger   *zap.Logger
	cfg      DocumentServiceConfig
}

// NewDocumentService constructs the service. cache may be nil.
func NewDocumentService(records recordStore, renderer certificateRenderer, cache *redis.Client, metrics documentRecorder, logger *zap.Logger, cfg DocumentServiceConfig) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return &DocumentService{
		records:  records,
		renderer: renderer,
		cache:    cache,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Document returns the certificate bytes for a record within the tenant
// boundary.
func (s *DocumentService) Document(ctx context.Context, tenantID, recordID string) ([]byte, error) {
	start := time.Now()
	record, err := s.load(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.TenantID != tenantID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "compliance record not found")
	}

	key := documentKey(record)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			if s.metrics != nil {
				s.metrics.ObserveDocument("cache", time.Since(start))
			}
			return data, nil
		}
	}

	data, err := s.render(ctx, record, key)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveDocument("render", time.Since(start))
	}
	return data, nil
}

// Prime renders a record's document into the cache ahead of the first
// download. Used by the prewarm worker after issuance.
func (s *DocumentService) Prime(ctx context.Context, recordID string) error {
	if s.cache == nil {
		return nil
	}
	record, err := s.load(ctx, recordID)
	if err != nil {
		return err
	}
	_, err = s.render(ctx, record, documentKey(record))
	return err
}

func (s *DocumentService) load(ctx context.Context, recordID string) (*models.ComplianceRecord, error) {
	record, err := s.records.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "compliance record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance record")
	}
	return record, nil
}

func (s *DocumentService) render(ctx context.Context, record *models.ComplianceRecord, key string) ([]byte, error) {
	data, err := s.renderer.Render(record)
	if err != nil {
		s.logger.Error("certificate render failed",
			zap.String("record_id", record.ID),
			zap.Int64("folio", record.Folio),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrRenderFailure.Code, appErrors.ErrRenderFailure.Status, appErrors.ErrRenderFailure.Message)
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, data, s.cfg.CacheTTL).Err(); err != nil {
			s.logger.Warn("document cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return data, nil
}

func documentKey(record *models.ComplianceRecord) string {
	return fmt.Sprintf("document:%s:%s", record.ID, record.Status)
}
