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

type issuanceService interface {
	Issue(ctx context.Context, req dto.IssueRequest) (*models.ComplianceRecord, error)
}

// IssuanceHandler exposes the certificate issuance endpoint.
type IssuanceHandler struct {
	service issuanceService
}

// NewIssuanceHandler builds a new handler.
func NewIssuanceHandler(service issuanceService) *IssuanceHandler {
	return &IssuanceHandler{service: service}
}

// Issue godoc
// @Summary Issue a training certificate for a completed enrollment
// @Tags Issuance
// @Accept json
// @Produce json
// @Param payload body dto.IssueRequest true "Issuance payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /issuance [post]
func (h *IssuanceHandler) Issue(c *gin.Context) {
	var req dto.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid issuance payload"))
		return
	}

	claims := claimsFromContext(c)
	if claims == nil || claims.TenantID != req.TenantID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "tenant scope mismatch"))
		return
	}

	record, err := h.service.Issue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
