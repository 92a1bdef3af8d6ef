package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type rendererStub struct {
	data    []byte
	err     error
	renders int
}

func (s *rendererStub) Render(record *models.ComplianceRecord) ([]byte, error) {
	s.renders++
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type documentMetricsStub struct {
	sources []string
}

func (s *documentMetricsStub) ObserveDocument(source string, duration time.Duration) {
	s.sources = append(s.sources, source)
}

func TestDocumentServiceDocument(t *testing.T) {
	store := &recordStoreStub{records: map[string]*models.ComplianceRecord{
		"rec-1": issuedRecord("rec-1", "tenant-1"),
	}}
	renderer := &rendererStub{data: []byte("%PDF-1.3 test")}
	metrics := &documentMetricsStub{}
	svc := NewDocumentService(store, renderer, nil, metrics, nil, DocumentServiceConfig{})

	data, err := svc.Document(context.Background(), "tenant-1", "rec-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.3 test"), data)
	assert.Equal(t, 1, renderer.renders)
	assert.Equal(t, []string{"render"}, metrics.sources)
}

func TestDocumentServiceDocumentOtherTenant(t *testing.T) {
	store := &recordStoreStub{records: map[string]*models.ComplianceRecord{
		"rec-1": issuedRecord("rec-1", "tenant-1"),
	}}
	renderer := &rendererStub{data: []byte("pdf")}
	svc := NewDocumentService(store, renderer, nil, nil, nil, DocumentServiceConfig{})

	_, err := svc.Document(context.Background(), "tenant-2", "rec-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Zero(t, renderer.renders)
}

func TestDocumentServiceRenderFailure(t *testing.T) {
	store := &recordStoreStub{records: map[string]*models.ComplianceRecord{
		"rec-1": issuedRecord("rec-1", "tenant-1"),
	}}
	renderer := &rendererStub{err: errors.New("font descriptor missing")}
	svc := NewDocumentService(store, renderer, nil, nil, nil, DocumentServiceConfig{})

	_, err := svc.Document(context.Background(), "tenant-1", "rec-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRenderFailure.Code, appErrors.FromError(err).Code)
}

func TestDocumentServicePrimeWithoutCacheIsNoop(t *testing.T) {
	renderer := &rendererStub{data: []byte("pdf")}
	svc := NewDocumentService(&recordStoreStub{}, renderer, nil, nil, nil, DocumentServiceConfig{})

	require.NoError(t, svc.Prime(context.Background(), "rec-1"))
	assert.Zero(t, renderer.renders)
}
