package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/dto"
	"github.com/noah-isme/capacita-api/internal/models"
	"github.com/noah-isme/capacita-api/internal/repository"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type tenantProfileStoreStub struct {
	profile *models.TenantComplianceProfile
}

func (s *tenantProfileStoreStub) Get(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error) {
	if s.profile == nil {
		return nil, sql.ErrNoRows
	}
	cp := *s.profile
	return &cp, nil
}

func (s *tenantProfileStoreStub) Upsert(ctx context.Context, tenantID string, registryNum, legalRep, domicile *string) (*models.TenantComplianceProfile, error) {
	if s.profile == nil {
		s.profile = &models.TenantComplianceProfile{TenantID: tenantID}
	}
	if registryNum != nil {
		s.profile.EmployerRegistryNum = *registryNum
	}
	if legalRep != nil {
		s.profile.LegalRepresentative = *legalRep
	}
	if domicile != nil {
		s.profile.RegisteredDomicile = *domicile
	}
	s.profile.UpdatedAt = time.Now().UTC()
	cp := *s.profile
	return &cp, nil
}

type courseProfileStoreStub struct {
	profile *models.CourseComplianceProfile
	params  *repository.UpsertCourseProfileParams
}

func (s *courseProfileStoreStub) Get(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error) {
	if s.profile == nil {
		return nil, sql.ErrNoRows
	}
	cp := *s.profile
	return &cp, nil
}

func (s *courseProfileStoreStub) Upsert(ctx context.Context, tenantID, courseID string, p repository.UpsertCourseProfileParams) (*models.CourseComplianceProfile, error) {
	s.params = &p
	if s.profile == nil {
		s.profile = &models.CourseComplianceProfile{TenantID: tenantID, CourseID: courseID}
	}
	if p.Enabled != nil {
		s.profile.Enabled = *p.Enabled
	}
	if p.TopicAreaCode != nil {
		s.profile.TopicAreaCode = *p.TopicAreaCode
	}
	if p.TopicAreaName != nil {
		s.profile.TopicAreaName = *p.TopicAreaName
	}
	if p.DurationHours != nil {
		s.profile.DurationHours = *p.DurationHours
	}
	if p.Modality != nil {
		s.profile.Modality = models.Modality(*p.Modality)
	}
	if p.InstructorType != nil {
		s.profile.InstructorType = models.InstructorType(*p.InstructorType)
	}
	if p.InstructorName != nil {
		s.profile.InstructorName = *p.InstructorName
	}
	if p.MinPassingScore != nil {
		s.profile.MinPassingScore = *p.MinPassingScore
	}
	cp := *s.profile
	return &cp, nil
}

func (s *courseProfileStoreStub) ListEnabled(ctx context.Context, tenantID string) ([]models.CourseComplianceProfile, error) {
	if s.profile != nil && s.profile.Enabled {
		return []models.CourseComplianceProfile{*s.profile}, nil
	}
	return nil, nil
}

type tenantCheckerStub struct {
	tenant *models.Tenant
	course *models.Course
}

func (s *tenantCheckerStub) GetTenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	return s.tenant, nil
}

func (s *tenantCheckerStub) GetCourse(ctx context.Context, courseID, tenantID string) (*models.Course, error) {
	return s.course, nil
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }

func newProfileService(tenants *tenantProfileStoreStub, courses *courseProfileStoreStub, checker *tenantCheckerStub) *ProfileService {
	return NewProfileService(tenants, courses, checker, nil)
}

func TestProfileServiceUpsertTenantProfile(t *testing.T) {
	store := &tenantProfileStoreStub{}
	checker := &tenantCheckerStub{tenant: &models.Tenant{ID: "tenant-1"}}
	svc := newProfileService(store, &courseProfileStoreStub{}, checker)

	profile, err := svc.UpsertTenantProfile(context.Background(), "tenant-1", dto.UpsertTenantProfileRequest{
		EmployerRegistryNum: strPtr("B55-12345-10-9"),
		LegalRepresentative: strPtr("Laura Méndez"),
	})
	require.NoError(t, err)
	assert.True(t, profile.Configured())
	assert.Zero(t, profile.LastFolio)
}

func TestProfileServiceUpsertTenantProfilePartial(t *testing.T) {
	store := &tenantProfileStoreStub{profile: &models.TenantComplianceProfile{
		TenantID:            "tenant-1",
		EmployerRegistryNum: "B55-12345-10-9",
		LegalRepresentative: "Laura Méndez",
	}}
	checker := &tenantCheckerStub{tenant: &models.Tenant{ID: "tenant-1"}}
	svc := newProfileService(store, &courseProfileStoreStub{}, checker)

	profile, err := svc.UpsertTenantProfile(context.Background(), "tenant-1", dto.UpsertTenantProfileRequest{
		RegisteredDomicile: strPtr("Av. Industria 100, Monterrey"),
	})
	require.NoError(t, err)
	assert.Equal(t, "B55-12345-10-9", profile.EmployerRegistryNum)
	assert.Equal(t, "Av. Industria 100, Monterrey", profile.RegisteredDomicile)
}

func TestProfileServiceUpsertTenantProfileUnknownTenant(t *testing.T) {
	svc := newProfileService(&tenantProfileStoreStub{}, &courseProfileStoreStub{}, &tenantCheckerStub{})

	_, err := svc.UpsertTenantProfile(context.Background(), "tenant-x", dto.UpsertTenantProfileRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceGetTenantProfileNotFound(t *testing.T) {
	svc := newProfileService(&tenantProfileStoreStub{}, &courseProfileStoreStub{}, &tenantCheckerStub{})

	_, err := svc.GetTenantProfile(context.Background(), "tenant-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceUpsertCourseProfileResolvesTopicArea(t *testing.T) {
	courses := &courseProfileStoreStub{}
	checker := &tenantCheckerStub{course: &models.Course{ID: "course-1"}}
	svc := newProfileService(&tenantProfileStoreStub{}, courses, checker)

	profile, err := svc.UpsertCourseProfile(context.Background(), "tenant-1", "course-1", dto.UpsertCourseProfileRequest{
		Enabled:        boolPtr(true),
		TopicAreaCode:  strPtr("6000"),
		DurationHours:  intPtr(16),
		Modality:       strPtr("ONSITE"),
		InstructorType: strPtr("INTERNAL"),
		InstructorName: strPtr("Ing. Raúl Domínguez"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Seguridad e higiene en el trabajo", profile.TopicAreaName)
	require.NotNil(t, courses.params.TopicAreaName)
	assert.Equal(t, "Seguridad e higiene en el trabajo", *courses.params.TopicAreaName)
}

func TestProfileServiceUpsertCourseProfileUnknownTopicArea(t *testing.T) {
	checker := &tenantCheckerStub{course: &models.Course{ID: "course-1"}}
	svc := newProfileService(&tenantProfileStoreStub{}, &courseProfileStoreStub{}, checker)

	_, err := svc.UpsertCourseProfile(context.Background(), "tenant-1", "course-1", dto.UpsertCourseProfileRequest{
		TopicAreaCode: strPtr("5500"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceUpsertCourseProfileInvalidModality(t *testing.T) {
	checker := &tenantCheckerStub{course: &models.Course{ID: "course-1"}}
	svc := newProfileService(&tenantProfileStoreStub{}, &courseProfileStoreStub{}, checker)

	_, err := svc.UpsertCourseProfile(context.Background(), "tenant-1", "course-1", dto.UpsertCourseProfileRequest{
		Modality: strPtr("REMOTE"),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceListEnabledCourses(t *testing.T) {
	courses := &courseProfileStoreStub{profile: &models.CourseComplianceProfile{
		TenantID: "tenant-1",
		CourseID: "course-1",
		Enabled:  true,
	}}
	svc := newProfileService(&tenantProfileStoreStub{}, courses, &tenantCheckerStub{})

	profiles, err := svc.ListEnabledCourses(context.Background(), "tenant-1")
	require.NoError(t, err)
	require.Len(t, profiles, 1)

	courses.profile.Enabled = false
	profiles, err = svc.ListEnabledCourses(context.Background(), "tenant-1")
	require.NoError(t, err)
	assert.Empty(t, profiles)
}
