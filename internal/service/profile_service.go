package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/capacita-api/internal/dto"
	"github.com/noah-isme/capacita-api/internal/models"
	"github.com/noah-isme/capacita-api/internal/repository"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type tenantProfileStore interface {
	Get(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error)
	Upsert(ctx context.Context, tenantID string, registryNum, legalRep, domicile *string) (*models.TenantComplianceProfile, error)
}

type courseProfileStore interface {
	Get(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error)
	Upsert(ctx context.Context, tenantID, courseID string, p repository.UpsertCourseProfileParams) (*models.CourseComplianceProfile, error)
	ListEnabled(ctx context.Context, tenantID string) ([]models.CourseComplianceProfile, error)
}

type tenantChecker interface {
	GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error)
	GetCourse(ctx context.Context, courseID, tenantID string) (*models.Course, error)
}

// ProfileService manages tenant and course compliance configuration.
type ProfileService struct {
	tenantProfiles tenantProfileStore
	courseProfiles courseProfileStore
	directory      tenantChecker
	validate       *validator.Validate
	logger         *zap.Logger
}

// NewProfileService constructs the service.
func NewProfileService(tenantProfiles tenantProfileStore, courseProfiles courseProfileStore, directory tenantChecker, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		tenantProfiles: tenantProfiles,
		courseProfiles: courseProfiles,
		directory:      directory,
		validate:       validator.New(),
		logger:         logger,
	}
}

// GetTenantProfile fetches the tenant compliance profile.
func (s *ProfileService) GetTenantProfile(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error) {
	profile, err := s.tenantProfiles.Get(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tenant compliance profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tenant compliance profile")
	}
	return profile, nil
}

// UpsertTenantProfile merges the supplied fields into the tenant profile,
// creating it with a zero folio counter on first write.
func (s *ProfileService) UpsertTenantProfile(ctx context.Context, tenantID string, req dto.UpsertTenantProfileRequest) (*models.TenantComplianceProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid tenant profile payload")
	}

	tenant, err := s.directory.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tenant")
	}
	if tenant == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "tenant not found")
	}

	profile, err := s.tenantProfiles.Upsert(ctx, tenantID, req.EmployerRegistryNum, req.LegalRepresentative, req.RegisteredDomicile)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save tenant compliance profile")
	}

	s.logger.Info("tenant compliance profile updated", zap.String("tenant_id", tenantID))
	return profile, nil
}

// GetCourseProfile fetches the certification settings for a course.
func (s *ProfileService) GetCourseProfile(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error) {
	profile, err := s.courseProfiles.Get(ctx, tenantID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course compliance profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course compliance profile")
	}
	return profile, nil
}

// UpsertCourseProfile merges the supplied certification settings. The
// topic-area name is resolved server-side from the controlled vocabulary.
func (s *ProfileService) UpsertCourseProfile(ctx context.Context, tenantID, courseID string, req dto.UpsertCourseProfileRequest) (*models.CourseComplianceProfile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course profile payload")
	}

	params := repository.UpsertCourseProfileParams{
		Enabled:          req.Enabled,
		DurationHours:    req.DurationHours,
		InstructorName:   req.InstructorName,
		AgentRegistryNum: req.AgentRegistryNum,
		MinPassingScore:  req.MinPassingScore,
	}

	if req.TopicAreaCode != nil {
		name, ok := models.TopicAreaName(*req.TopicAreaCode)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown topic area code %q", *req.TopicAreaCode))
		}
		params.TopicAreaCode = req.TopicAreaCode
		params.TopicAreaName = &name
	}
	if req.Modality != nil {
		if !models.ValidModality(models.Modality(*req.Modality)) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown modality %q", *req.Modality))
		}
		params.Modality = req.Modality
	}
	if req.InstructorType != nil {
		if !models.ValidInstructorType(models.InstructorType(*req.InstructorType)) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown instructor type %q", *req.InstructorType))
		}
		params.InstructorType = req.InstructorType
	}

	course, err := s.directory.GetCourse(ctx, courseID, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if course == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	profile, err := s.courseProfiles.Upsert(ctx, tenantID, courseID, params)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save course compliance profile")
	}

	s.logger.Info("course compliance profile updated",
		zap.String("tenant_id", tenantID),
		zap.String("course_id", courseID),
		zap.Bool("enabled", profile.Enabled))
	return profile, nil
}

// ListEnabledCourses returns the profiles cleared for issuance.
func (s *ProfileService) ListEnabledCourses(ctx context.Context, tenantID string) ([]models.CourseComplianceProfile, error) {
	profiles, err := s.courseProfiles.ListEnabled(ctx, tenantID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enabled courses")
	}
	if profiles == nil {
		profiles = []models.CourseComplianceProfile{}
	}
	return profiles, nil
}
