package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
	"github.com/noah-isme/capacita-api/pkg/response"
)

type summaryService interface {
	Generate(ctx context.Context, tenantID, period string) (*models.SummaryReport, error)
	RenderCSV(report *models.SummaryReport) ([]byte, error)
}

// SummaryHandler exposes the periodic summary report endpoint.
type SummaryHandler struct {
	service summaryService
}

// NewSummaryHandler builds a new handler.
func NewSummaryHandler(service summaryService) *SummaryHandler {
	return &SummaryHandler{service: service}
}

// Get godoc
// @Summary Generate the periodic issuance summary for a tenant
// @Tags Reports
// @Produce json
// @Param tenantId path string true "Tenant ID"
// @Param period query string true "Period as YYYY or YYYY-MM"
// @Param format query string false "Response format (json or csv)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /tenants/{tenantId}/summary [get]
func (h *SummaryHandler) Get(c *gin.Context) {
	tenantID, ok := tenantFromPath(c)
	if !ok {
		return
	}
	period := c.Query("period")
	if period == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period query parameter is required"))
		return
	}

	report, err := h.service.Generate(c.Request.Context(), tenantID, period)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		response.JSON(c, http.StatusOK, report, nil)
	case "csv":
		data, err := h.service.RenderCSV(report)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=summary-%s-%s.csv", tenantID, period))
		c.Data(http.StatusOK, "text/csv", data)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "format must be json or csv"))
	}
}
