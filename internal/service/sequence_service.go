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

type folioStore interface {
	Get(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error)
	CompareAndSwapFolio(ctx context.Context, tenantID string, expected, next int64) (bool, error)
}

type retryRecorder interface {
	RecordFolioRetry()
}

// SequenceServiceConfig bounds the optimistic retry loop.
type SequenceServiceConfig struct {
	MaxRetries  int
	BackoffBase time.Duration
}

// SequenceService allocates tenant-scoped folio numbers. Two concurrent
// callers never receive the same number; a lost race is retried against
// the fresh counter value with exponential backoff.
type SequenceService struct {
	store   folioStore
	metrics retryRecorder
	logger  *zap.Logger
	cfg     SequenceServiceConfig
}

// NewSequenceService constructs the allocator.
func NewSequenceService(store folioStore, metrics retryRecorder, logger *zap.Logger, cfg SequenceServiceConfig) *SequenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = 25 * time.Millisecond
	}
	return &SequenceService{store: store, metrics: metrics, logger: logger, cfg: cfg}
}

// Next reserves the next folio for the tenant. The returned number is
// permanently consumed even if the caller fails afterwards.
func (s *SequenceService) Next(ctx context.Context, tenantID string) (int64, error) {
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		profile, err := s.store.Get(ctx, tenantID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return 0, appErrors.Clone(appErrors.ErrNotConfigured, "tenant compliance profile missing")
			}
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read folio counter")
		}

		candidate := profile.LastFolio + 1
		ok, err := s.store.CompareAndSwapFolio(ctx, tenantID, profile.LastFolio, candidate)
		if err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to advance folio counter")
		}
		if ok {
			return candidate, nil
		}

		if s.metrics != nil {
			s.metrics.RecordFolioRetry()
		}
		s.logger.Debug("folio allocation lost race",
			zap.String("tenant_id", tenantID),
			zap.Int64("expected", profile.LastFolio),
			zap.Int("attempt", attempt))

		if attempt == s.cfg.MaxRetries {
			break
		}
		if err := sleepBackoff(ctx, s.cfg.BackoffBase, attempt); err != nil {
			return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "folio allocation cancelled")
		}
	}
	return 0, appErrors.ErrSequenceConflict
}

func sleepBackoff(ctx context.Context, base time.Duration, attempt int) error {
	delay := base << uint(attempt-1)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
