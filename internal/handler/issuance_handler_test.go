package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/dto"
	"github.com/noah-isme/capacita-api/internal/middleware"
	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type issuanceServiceMock struct {
	record *models.ComplianceRecord
	err    error
}

func (m *issuanceServiceMock) Issue(ctx context.Context, req dto.IssueRequest) (*models.ComplianceRecord, error) {
	return m.record, m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestIssuanceHandlerIssue(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &issuanceServiceMock{
		record: &models.ComplianceRecord{ID: "rec-1", TenantID: "tenant-1", Folio: 1, Status: models.RecordIssued},
	}
	handler := NewIssuanceHandler(mockSvc)

	payload, _ := json.Marshal(dto.IssueRequest{TenantID: "tenant-1", UserID: "worker-1", CourseID: "course-1"})
	c, w := newGinContext(http.MethodPost, "/issuance", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "issuer", TenantID: "tenant-1", Role: models.RoleIssuer})

	handler.Issue(c)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestIssuanceHandlerTenantMismatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewIssuanceHandler(&issuanceServiceMock{})

	payload, _ := json.Marshal(dto.IssueRequest{TenantID: "tenant-2", UserID: "worker-1", CourseID: "course-1"})
	c, w := newGinContext(http.MethodPost, "/issuance", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "issuer", TenantID: "tenant-1", Role: models.RoleIssuer})

	handler.Issue(c)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestIssuanceHandlerNotEligible(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &issuanceServiceMock{err: appErrors.ErrNotEligible}
	handler := NewIssuanceHandler(mockSvc)

	payload, _ := json.Marshal(dto.IssueRequest{TenantID: "tenant-1", UserID: "worker-1", CourseID: "course-1"})
	c, w := newGinContext(http.MethodPost, "/issuance", payload)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "issuer", TenantID: "tenant-1", Role: models.RoleIssuer})

	handler.Issue(c)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIssuanceHandlerInvalidPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewIssuanceHandler(&issuanceServiceMock{})

	c, w := newGinContext(http.MethodPost, "/issuance", []byte(`{`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{TenantID: "tenant-1"})

	handler.Issue(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
