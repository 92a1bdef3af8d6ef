package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
)

type bucketReaderStub struct {
	buckets []models.TopicBucket
	from    time.Time
	to      time.Time
}

func (s *bucketReaderStub) SummaryBuckets(ctx context.Context, tenantID string, from, to time.Time) ([]models.TopicBucket, error) {
	s.from = from
	s.to = to
	return s.buckets, nil
}

func TestSummaryServiceGenerateMonthly(t *testing.T) {
	records := &bucketReaderStub{buckets: []models.TopicBucket{
		{TopicAreaCode: "6000", Total: 2, Passed: 2, Failed: 0},
		{TopicAreaCode: "8000", Total: 1, Passed: 0, Failed: 1},
	}}
	svc := NewSummaryService(records, nil, nil, SummaryServiceConfig{})

	report, err := svc.Generate(context.Background(), "tenant-1", "2026-03")
	require.NoError(t, err)

	assert.Equal(t, "tenant-1", report.TenantID)
	assert.Equal(t, "2026-03", report.Period)
	assert.Equal(t, time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), records.from)
	assert.Equal(t, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), records.to)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Buckets, 2)
	assert.Equal(t, "Seguridad e higiene en el trabajo", report.Buckets[0].TopicAreaName)
	assert.Equal(t, "Uso de tecnologías de la información", report.Buckets[1].TopicAreaName)
}

func TestSummaryServiceGenerateYearly(t *testing.T) {
	records := &bucketReaderStub{}
	svc := NewSummaryService(records, nil, nil, SummaryServiceConfig{})

	report, err := svc.Generate(context.Background(), "tenant-1", "2025")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), records.from)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), records.to)
	assert.Empty(t, report.Buckets)
	assert.Zero(t, report.Total)
}

func TestSummaryServiceGenerateInvalidPeriod(t *testing.T) {
	svc := NewSummaryService(&bucketReaderStub{}, nil, nil, SummaryServiceConfig{})

	for _, period := range []string{"", "26-03", "2026-13", "2026-3", "marzo"} {
		_, err := svc.Generate(context.Background(), "tenant-1", period)
		require.Error(t, err, "period %q", period)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestSummaryServiceRenderCSV(t *testing.T) {
	svc := NewSummaryService(&bucketReaderStub{}, nil, nil, SummaryServiceConfig{})

	data, err := svc.RenderCSV(&models.SummaryReport{
		Buckets: []models.TopicBucket{
			{TopicAreaCode: "6000", TopicAreaName: "Seguridad e higiene en el trabajo", Total: 2, Passed: 2},
		},
		Total:  2,
		Passed: 2,
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "topic_area_code,topic_area_name,total,passed,failed", lines[0])
	assert.Contains(t, lines[1], "6000")
	assert.Contains(t, lines[2], "TOTAL")
}

func TestParsePeriod(t *testing.T) {
	from, to, err := parsePeriod("2026-12")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = parsePeriod("2026-00")
	assert.Error(t, err)
}
