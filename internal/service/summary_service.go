package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/capacita-api/internal/models"
	appErrors "github.com/noah-isme/capacita-api/pkg/errors"
	"github.com/noah-isme/capacita-api/pkg/export"
)

var periodPattern = regexp.MustCompile(`^(\d{4})(?:-(\d{2}))?$`)

type bucketReader interface {
	SummaryBuckets(ctx context.Context, tenantID string, from, to time.Time) ([]models.TopicBucket, error)
}

// SummaryServiceConfig controls report caching.
type SummaryServiceConfig struct {
	CacheTTL time.Duration
}

// SummaryService aggregates issued records into periodic reports. Reports
// are derived on demand and cached briefly in Redis; revoked records are
// excluded from every tally.
type SummaryService struct {
	records bucketReader
	cache   *redis.Client
	csv     *export.CSVExporter
	logger  *zap.Logger
	cfg     SummaryServiceConfig
}

// NewSummaryService constructs the service. cache may be nil; reports are
// then computed on every request.
func NewSummaryService(records bucketReader, cache *redis.Client, logger *zap.Logger, cfg SummaryServiceConfig) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &SummaryService{
		records: records,
		cache:   cache,
		csv:     export.NewCSVExporter(),
		logger:  logger,
		cfg:     cfg,
	}
}

// Generate builds the summary report for a period expressed as "YYYY" or
// "YYYY-MM".
func (s *SummaryService) Generate(ctx context.Context, tenantID, period string) (*models.SummaryReport, error) {
	from, to, err := parsePeriod(period)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	cacheKey := fmt.Sprintf("summary:%s:%s", tenantID, period)
	if cached := s.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	buckets, err := s.records.SummaryBuckets(ctx, tenantID, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate compliance records")
	}

	report := &models.SummaryReport{
		TenantID:    tenantID,
		Period:      period,
		From:        from,
		To:          to,
		Buckets:     make([]models.TopicBucket, 0, len(buckets)),
		GeneratedAt: time.Now().UTC(),
	}
	for _, bucket := range buckets {
		if name, ok := models.TopicAreaName(bucket.TopicAreaCode); ok {
			bucket.TopicAreaName = name
		}
		report.Buckets = append(report.Buckets, bucket)
		report.Total += bucket.Total
		report.Passed += bucket.Passed
		report.Failed += bucket.Failed
	}

	s.toCache(ctx, cacheKey, report)
	return report, nil
}

// RenderCSV flattens a report into the CSV layout used for regulatory
// submission, one row per topic area plus a trailing totals row.
func (s *SummaryService) RenderCSV(report *models.SummaryReport) ([]byte, error) {
	dataset := export.Dataset{
		Headers: []string{"topic_area_code", "topic_area_name", "total", "passed", "failed"},
	}
	for _, bucket := range report.Buckets {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"topic_area_code": bucket.TopicAreaCode,
			"topic_area_name": bucket.TopicAreaName,
			"total":           strconv.Itoa(bucket.Total),
			"passed":          strconv.Itoa(bucket.Passed),
			"failed":          strconv.Itoa(bucket.Failed),
		})
	}
	dataset.Rows = append(dataset.Rows, map[string]string{
		"topic_area_code": "TOTAL",
		"topic_area_name": "",
		"total":           strconv.Itoa(report.Total),
		"passed":          strconv.Itoa(report.Passed),
		"failed":          strconv.Itoa(report.Failed),
	})
	data, err := s.csv.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render summary csv")
	}
	return data, nil
}

func (s *SummaryService) fromCache(ctx context.Context, key string) *models.SummaryReport {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var report models.SummaryReport
	if err := json.Unmarshal(raw, &report); err != nil {
		s.logger.Warn("corrupt cached summary dropped", zap.String("key", key), zap.Error(err))
		return nil
	}
	return &report
}

func (s *SummaryService) toCache(ctx context.Context, key string, report *models.SummaryReport) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// parsePeriod resolves "YYYY" or "YYYY-MM" into the half-open UTC interval
// [from, to).
func parsePeriod(period string) (time.Time, time.Time, error) {
	match := periodPattern.FindStringSubmatch(period)
	if match == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("period must be YYYY or YYYY-MM, got %q", period)
	}
	year, _ := strconv.Atoi(match[1])
	if match[2] == "" {
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), nil
	}
	month, _ := strconv.Atoi(match[2])
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("period month out of range in %q", period)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), nil
}
