package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
	"github.com/noah-isme/capacita-api/pkg/response"
)

type recordService interface {
	Get(ctx context.Context, tenantID, recordID string) (*models.ComplianceRecord, error)
	List(ctx context.Context, tenantID string, filter models.RecordFilter) ([]models.ComplianceRecord, int, error)
	Revoke(ctx context.Context, tenantID, recordID string) (*models.ComplianceRecord, error)
}

type documentService interface {
	Document(ctx context.Context, tenantID, recordID string) ([]byte, error)
}

// RecordHandler exposes issued record endpoints.
type RecordHandler struct {
	records   recordService
	documents documentService
}

// NewRecordHandler builds a new handler.
func NewRecordHandler(records recordService, documents documentService) *RecordHandler {
	return &RecordHandler{records: records, documents: documents}
}

// Get godoc
// @Summary Get an issued compliance record
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.records.Get(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

// List godoc
// @Summary List issued compliance records
// @Tags Records
// @Produce json
// @Param from query string false "Issued-at lower bound (RFC 3339)"
// @Param to query string false "Issued-at upper bound (RFC 3339, exclusive)"
// @Param status query string false "Record status (ISSUED or REVOKED)"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter, err := parseRecordFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, total, err := h.records.List(c.Request.Context(), claims.TenantID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	pagination := &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}
	response.JSON(c, http.StatusOK, records, pagination)
}

// Document godoc
// @Summary Download the certificate document for a record
// @Tags Records
// @Produce application/pdf
// @Param id path string true "Record ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /records/{id}/document [get]
func (h *RecordHandler) Document(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	recordID := c.Param("id")
	data, err := h.documents.Document(c.Request.Context(), claims.TenantID, recordID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=constancia-%s.pdf", recordID))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Revoke godoc
// @Summary Revoke an issued compliance record
// @Tags Records
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /records/{id}/revoke [post]
func (h *RecordHandler) Revoke(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	record, err := h.records.Revoke(c.Request.Context(), claims.TenantID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}

func parseRecordFilter(c *gin.Context) (models.RecordFilter, error) {
	filter := models.RecordFilter{Page: 1, PageSize: 50}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "from must be RFC 3339")
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "to must be RFC 3339")
		}
		filter.To = &t
	}
	if raw := c.Query("status"); raw != "" {
		status := models.RecordStatus(raw)
		if status != models.RecordIssued && status != models.RecordRevoked {
			return filter, appErrors.Clone(appErrors.ErrValidation, "status must be ISSUED or REVOKED")
		}
		filter.Status = &status
	}
	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return filter, appErrors.Clone(appErrors.ErrValidation, "page must be a positive integer")
		}
		filter.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 || size > 200 {
			return filter, appErrors.Clone(appErrors.ErrValidation, "page_size must be between 1 and 200")
		}
		filter.PageSize = size
	}
	return filter, nil
}
