package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/capacita-api/internal/dto"
	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
	"github.com/noah-isme/capacita-api/pkg/response"
)

type profileService interface {
	GetTenantProfile(ctx context.Context, tenantID string) (*models.TenantComplianceProfile, error)
	UpsertTenantProfile(ctx context.Context, tenantID string, req dto.UpsertTenantProfileRequest) (*models.TenantComplianceProfile, error)
	GetCourseProfile(ctx context.Context, tenantID, courseID string) (*models.CourseComplianceProfile, error)
	UpsertCourseProfile(ctx context.Context, tenantID, courseID string, req dto.UpsertCourseProfileRequest) (*models.CourseComplianceProfile, error)
	ListEnabledCourses(ctx context.Context, tenantID string) ([]models.CourseComplianceProfile, error)
}

// ProfileHandler exposes compliance configuration endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler builds a new handler.
func NewProfileHandler(service profileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// tenantFromPath resolves the tenant path parameter and enforces the
// caller's token scope.
func tenantFromPath(c *gin.Context) (string, bool) {
	tenantID := c.Param("tenantId")
	claims := claimsFromContext(c)
	if claims == nil || claims.TenantID != tenantID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "tenant scope mismatch"))
		return "", false
	}
	return tenantID, true
}

// GetTenantProfile godoc
// @Summary Get the tenant compliance profile
// @Tags Profiles
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tenants/{tenantId}/compliance-profile [get]
func (h *ProfileHandler) GetTenantProfile(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	profile, err := h.service.GetTenantProfile(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpsertTenantProfile godoc
// @Summary Create or update the tenant compliance profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param payload body dto.UpsertTenantProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /tenants/{tenantId}/compliance-profile [put]
func (h *ProfileHandler) UpsertTenantProfile(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	var req dto.UpsertTenantProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid tenant profile payload"))
		return
	}
	profile, err := h.service.UpsertTenantProfile(c.Request.Context(), tenantID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// GetCourseProfile godoc
// @Summary Get a course compliance profile
// @Tags Profiles
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tenants/{tenantId}/courses/{courseId}/compliance-profile [get]
func (h *ProfileHandler) GetCourseProfile(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	profile, err := h.service.GetCourseProfile(c.Request.Context(), tenantID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// UpsertCourseProfile godoc
// @Summary Create or update a course compliance profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param courseId path string true "Course ID"
// @Param payload body dto.UpsertCourseProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /tenants/{tenantId}/courses/{courseId}/compliance-profile [put]
func (h *ProfileHandler) UpsertCourseProfile(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	var req dto.UpsertCourseProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course profile payload"))
		return
	}
	profile, err := h.service.UpsertCourseProfile(c.Request.Context(), tenantID, c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// ListEnabledCourses godoc
// @Summary List courses enabled for certification
// @Tags Profiles
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Success 200 {object} response.Envelope
// @Router /tenants/{tenantId}/enabled-courses [get]
func (h *ProfileHandler) ListEnabledCourses(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	profiles, err := h.service.ListEnabledCourses(c.Request.Context(), tenantID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profiles, nil)
}
