package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/capacita-api/internal/dto"
	"github.com/noah-isme/capacita-api/internal/models"
	"github.com/noah-isme/capacita-api/internal/regulatory"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type directoryReader interface {
	GetWorker(ctx context.Context, workerID, tenantID string) (*models.Worker, error)
	GetCourse(ctx context.Context, courseID, tenantID string) (*models.Course, error)
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)
	GetEnrollmentProgress(ctx context.Context, workerID, tenantID, courseID string) (*models.EnrollmentProgress, error)
}

type courseProfileReader interface {
	Get(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error)
}

type tenantProfileReader interface {
	Get(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error)
}

type folioAllocator interface {
	Next(ctx context.Context, tenantID string) (int64, error)
}

type recordWriter interface {
	Insert(ctx context.Context, record *models.ComplianceRecord) error
}

// DocumentPrewarmer primes the document cache after issuance. Best
// effort: the caller logs and ignores failures.
type DocumentPrewarmer interface {
	Warm(recordID string) error
}

type issuanceRecorder interface {
	RecordIssuance(outcome string)
}

// IssuanceServiceConfig carries issuance defaults.
type IssuanceServiceConfig struct {
	DefaultIssuePlace string
}

// IssuanceService runs the eligibility checks and composes immutable
// compliance records. Everything is validated before the single persist
// call; no partial record ever reaches storage.
type IssuanceService struct {
	directory      directoryReader
	courseProfiles courseProfileReader
	tenantProfiles tenantProfileReader
	sequence       folioAllocator
	records        recordWriter
	prewarmer      DocumentPrewarmer
	metrics        issuanceRecorder
	validate       *validator.Validate
	logger         *zap.Logger
	cfg            IssuanceServiceConfig
}

// NewIssuanceService constructs the pipeline.
func NewIssuanceService(
	directory directoryReader,
	courseProfiles courseProfileReader,
	tenantProfiles tenantProfileReader,
	sequence folioAllocator,
	records recordWriter,
	prewarmer DocumentPrewarmer,
	metrics issuanceRecorder,
	logger *zap.Logger,
	cfg IssuanceServiceConfig,
) *IssuanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssuanceService{
		directory:      directory,
		courseProfiles: courseProfiles,
		tenantProfiles: tenantProfiles,
		sequence:       sequence,
		records:        records,
		prewarmer:      prewarmer,
		metrics:        metrics,
		validate:       validator.New(),
		logger:         logger,
		cfg:            cfg,
	}
}

// Issue validates eligibility for (tenant, worker, course) and persists a
// newly numbered compliance record.
func (s *IssuanceService) Issue(ctx context.Context, req dto.IssueRequest) (*models.ComplianceRecord, error) {
	record, err := s.issue(ctx, req)
	if s.metrics != nil {
		s.metrics.RecordIssuance(issuanceOutcome(err))
	}
	return record, err
}

func (s *IssuanceService) issue(ctx context.Context, req dto.IssueRequest) (*models.ComplianceRecord, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issuance payload")
	}
	tenantID, workerID, courseID := req.TenantID, req.UserID, req.CourseID

	var (
		worker *models.Worker
		course *models.Course
		tenant *models.Tenant
	)

	// The three existence lookups are independent; run them in parallel
	// to keep issuance latency near a single round trip.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		worker, err = s.directory.GetWorker(gctx, workerID, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		course, err = s.directory.GetCourse(gctx, courseID, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		tenant, err = s.directory.GetTenant(gctx, tenantID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issuance dependencies")
	}

	switch {
	case worker == nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "worker not found")
	case course == nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	case tenant == nil:
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tenant not found")
	}

	courseProfile, err := s.courseProfiles.Get(ctx, tenantID, courseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course compliance profile")
	}
	if courseProfile == nil || !courseProfile.Enabled {
		return nil, appErrors.Clone(appErrors.ErrNotEligible, "course is not enabled for certification")
	}

	tenantProfile, err := s.tenantProfiles.Get(ctx, tenantID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tenant compliance profile")
	}
	if tenantProfile == nil || !tenantProfile.Configured() {
		return nil, appErrors.Clone(appErrors.ErrNotConfigured, "tenant compliance profile is missing employer registry number or legal representative")
	}

	progress, err := s.directory.GetEnrollmentProgress(ctx, workerID, tenantID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment progress")
	}
	if !isCompleted(progress, courseProfile.MinPassingScore) {
		return nil, appErrors.Clone(appErrors.ErrNotEligible, "enrollment is not completed and best score is below the passing threshold")
	}

	// Account-level validation already checked the CURP, but a malformed
	// value invalidates the certificate so it is re-checked here.
	if !regulatory.ValidateCURP(worker.CURP) {
		return nil, appErrors.Clone(appErrors.ErrInvalidWorkerID, "worker CURP is absent or malformed")
	}

	folio, err := s.sequence.Next(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	record := compose(tenantID, folio, worker, course, tenant, courseProfile, tenantProfile, progress, s.cfg.DefaultIssuePlace)

	if err := s.records.Insert(ctx, record); err != nil {
		// The folio is already consumed; deliberately no counter rollback
		// since it could hand the same number to a concurrent caller.
		s.logger.Error("record persist failed after folio allocation",
			zap.String("tenant_id", tenantID),
			zap.Int64("folio", folio),
			zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrIssuanceIncomplete.Code, appErrors.ErrIssuanceIncomplete.Status, appErrors.ErrIssuanceIncomplete.Message)
	}

	s.logger.Info("compliance record issued",
		zap.String("tenant_id", tenantID),
		zap.String("record_id", record.ID),
		zap.Int64("folio", folio))

	if s.prewarmer != nil {
		if err := s.prewarmer.Warm(record.ID); err != nil {
			s.logger.Warn("document prewarm enqueue failed", zap.String("record_id", record.ID), zap.Error(err))
		}
	}

	return record, nil
}

func isCompleted(progress *models.EnrollmentProgress, minPassingScore float64) bool {
	if progress == nil {
		return false
	}
	if progress.Status == models.EnrollmentCompleted {
		return true
	}
	return progress.BestScore != nil && *progress.BestScore >= minPassingScore
}

// compose builds the immutable record from point-in-time snapshots. No
// field is read from a live source after this point.
func compose(
	tenantID string,
	folio int64,
	worker *models.Worker,
	course *models.Course,
	tenant *models.Tenant,
	courseProfile *models.CourseComplianceProfile,
	tenantProfile *models.TenantComplianceProfile,
	progress *models.EnrollmentProgress,
	defaultIssuePlace string,
) *models.ComplianceRecord {
	score := progress.Score()
	return &models.ComplianceRecord{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Folio:    folio,
		WorkerID: worker.ID,
		CourseID: course.ID,
		Worker: models.WorkerBlock{
			FullName:    worker.FullName,
			CURP:        worker.CURP,
			RFC:         worker.RFC,
			NSS:         worker.NSS,
			Occupation:  worker.Occupation,
			JobTitle:    worker.JobTitle,
			Nationality: worker.Nationality,
		},
		Employer: models.EmployerBlock{
			LegalName:           tenant.LegalName,
			RFC:                 tenant.RFC,
			EmployerRegistryNum: tenantProfile.EmployerRegistryNum,
			BusinessActivity:    tenant.BusinessActivity,
			Address:             employerAddress(tenant, tenantProfile),
			LegalRepresentative: tenantProfile.LegalRepresentative,
		},
		Course: models.CourseBlock{
			Name:          course.Name,
			DurationHours: courseProfile.DurationHours,
			StartDate:     course.StartDate,
			EndDate:       course.EndDate,
			TopicAreaCode: courseProfile.TopicAreaCode,
			TopicAreaName: courseProfile.TopicAreaName,
			Modality:      courseProfile.Modality,
			Objective:     course.Objective,
		},
		Instructor: models.InstructorBlock{
			Name:             courseProfile.InstructorName,
			Type:             courseProfile.InstructorType,
			AgentRegistryNum: courseProfile.AgentRegistryNum,
		},
		Result: models.ResultBlock{
			Score:           score,
			MinPassingScore: courseProfile.MinPassingScore,
			Passed:          score >= courseProfile.MinPassingScore,
		},
		TopicAreaCode: courseProfile.TopicAreaCode,
		Passed:        score >= courseProfile.MinPassingScore,
		IssuePlace:    defaultIssuePlace,
		IssuedAt:      time.Now().UTC(),
		Status:        models.RecordIssued,
	}
}

func employerAddress(tenant *models.Tenant, profile *models.TenantComplianceProfile) string {
	if profile.RegisteredDomicile != "" {
		return profile.RegisteredDomicile
	}
	return tenant.FullAddress()
}

func issuanceOutcome(err error) string {
	if err == nil {
		return "issued"
	}
	switch appErrors.FromError(err).Code {
	case appErrors.ErrSequenceConflict.Code:
		return "conflict"
	case appErrors.ErrIssuanceIncomplete.Code:
		return "incomplete"
	case appErrors.ErrInternal.Code:
		return "error"
	default:
		return "rejected"
	}
}
