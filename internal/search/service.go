package search

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/UnknownOlympus/warden/internal/metrics"
	"github.com/UnknownOlympus/warden/internal/models"
	"github.com/UnknownOlympus/warden/internal/repository"
)

// Defaults for the batched scan. The ceiling exists because filter selectivity
// is unknown in advance; without it a highly selective filter would scan the
// whole store before answering.
const (
	DefaultBatchSize   = 100
	DefaultScanCeiling = 1000
	DefaultLimit       = 20
	MaxLimit           = 100
)

// Enricher attaches weather data to a batch of properties, preserving length
// and index order.
type Enricher interface {
	Enrich(ctx context.Context, properties []models.Property) []models.EnrichedProperty
}

// Query describes one property search request.
type Query struct {
	SearchText     string                // Substring match over name/city/state.
	Weather        models.WeatherFilters // Weather criteria, may be empty.
	Limit          int                   // Page size, clamped to MaxLimit.
	Offset         int                   // Number of matching properties to skip.
	IncludeWeather bool                  // Enrich results even without weather criteria.
}

// Service answers property searches, combining the store's stored-field
// filtering with per-property weather enrichment and filtering.
type Service struct {
	log         *slog.Logger         // Logger for logging service activities
	repo        repository.Interface // Interface for property store access
	enricher    Enricher             // Enricher for attaching weather data
	metrics     *metrics.Metrics     // Metrics for tracking search performance
	batchSize   int                  // Number of properties pulled per store batch
	scanCeiling int                  // Hard cap on properties examined per request
}

// NewService creates a new search Service. Non-positive batchSize or
// scanCeiling fall back to the defaults.
func NewService(
	log *slog.Logger,
	repo repository.Interface,
	enricher Enricher,
	metrics *metrics.Metrics,
	batchSize int,
	scanCeiling int,
) *Service {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if scanCeiling <= 0 {
		scanCeiling = DefaultScanCeiling
	}

	return &Service{
		log:         log,
		repo:        repo,
		enricher:    enricher,
		metrics:     metrics,
		batchSize:   batchSize,
		scanCeiling: scanCeiling,
	}
}

// Search returns one page of properties matching the query. Without weather
// criteria it is a direct store query with an exact total. With weather
// criteria it scans the store in batches, enriching and filtering each batch
// until the requested page is covered, and the returned total is a ratio-based
// estimate (PageResult.Approximate is true). A store failure is fatal to the
// request; individual weather fetch failures are not.
func (s *Service) Search(ctx context.Context, query Query) (*models.PageResult, error) {
	if query.Limit <= 0 {
		query.Limit = DefaultLimit
	}
	if query.Limit > MaxLimit {
		query.Limit = MaxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	startTime := time.Now()

	if query.Weather.IsEmpty() {
		result, err := s.directSearch(ctx, query)
		s.metrics.SearchSeconds.WithLabelValues("direct").Observe(time.Since(startTime).Seconds())
		return result, err
	}

	result, err := s.batchedSearch(ctx, query)
	s.metrics.SearchSeconds.WithLabelValues("batched").Observe(time.Since(startTime).Seconds())
	return result, err
}

// directSearch is the cheap path for queries without weather criteria: one
// page query plus one exact count, optionally enriching the page for display.
func (s *Service) directSearch(ctx context.Context, query Query) (*models.PageResult, error) {
	flt := repository.Filter{
		SearchText: query.SearchText,
		// Only require coordinates when weather data is explicitly requested.
		RequireCoords: query.IncludeWeather,
	}

	properties, err := s.repo.FindPage(ctx, flt, query.Limit, query.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch property page: %w", err)
	}

	total, err := s.repo.Count(ctx, flt)
	if err != nil {
		return nil, fmt.Errorf("failed to count properties: %w", err)
	}

	var enriched []models.EnrichedProperty
	if query.IncludeWeather {
		enriched = s.enricher.Enrich(ctx, properties)
	} else {
		enriched = make([]models.EnrichedProperty, len(properties))
		for i, prop := range properties {
			enriched[i].Property = prop
		}
	}
	if enriched == nil {
		enriched = []models.EnrichedProperty{}
	}

	return &models.PageResult{
		Properties:  enriched,
		Total:       total,
		HasMore:     int64(query.Offset+query.Limit) < total,
		Approximate: false,
	}, nil
}

// batchedSearch pulls store-eligible properties in fixed-size batches,
// enriches and filters each batch, and accumulates survivors until the
// requested page is covered, the store is exhausted, or the scan ceiling is
// reached. The total is estimated from the match ratio observed across the
// scanned prefix.
func (s *Service) batchedSearch(ctx context.Context, query Query) (*models.PageResult, error) {
	// Properties without coordinates can never match a weather filter,
	// so they are excluded at the store level.
	flt := repository.Filter{SearchText: query.SearchText, RequireCoords: true}

	var survivors []models.EnrichedProperty
	scanned := 0
	needed := query.Offset + query.Limit
	ceilingHit := false

	for {
		batch, err := s.repo.FindPage(ctx, flt, s.batchSize, scanned)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch property batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		scanned += len(batch)
		s.metrics.PropertiesScanned.Add(float64(len(batch)))

		for _, prop := range s.enricher.Enrich(ctx, batch) {
			if MatchesWeather(prop.Weather, query.Weather) {
				survivors = append(survivors, prop)
			}
		}

		if len(survivors) >= needed {
			break
		}
		if len(batch) < s.batchSize {
			// Store exhausted.
			break
		}
		if scanned >= s.scanCeiling {
			ceilingHit = true
			break
		}
	}

	pageStart := min(query.Offset, len(survivors))
	pageEnd := min(query.Offset+query.Limit, len(survivors))
	page := survivors[pageStart:pageEnd]
	if page == nil {
		page = []models.EnrichedProperty{}
	}

	total, err := s.estimateTotal(ctx, flt, scanned, len(survivors))
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "Batched scan finished",
		"scanned", scanned,
		"survivors", len(survivors),
		"estimated_total", total,
		"ceiling_hit", ceilingHit)

	return &models.PageResult{
		Properties: page,
		Total:      total,
		// A ceiling stop may have left matches unseen, so report more
		// conservatively rather than claiming the listing is complete.
		HasMore:     len(page) == query.Limit || ceilingHit,
		Approximate: true,
	}, nil
}

// estimateTotal extrapolates the store-wide match count from the ratio of
// survivors to scanned properties. It is a point estimate from a prefix
// sample; accuracy degrades when matches cluster at one end of the
// creation-time ordering, which is an accepted tradeoff of avoiding a full
// scan.
func (s *Service) estimateTotal(
	ctx context.Context,
	flt repository.Filter,
	scanned, survivors int,
) (int64, error) {
	if scanned == 0 {
		return 0, nil
	}

	eligible, err := s.repo.Count(ctx, flt)
	if err != nil {
		return 0, fmt.Errorf("failed to count eligible properties: %w", err)
	}

	ratio := float64(survivors) / float64(scanned)
	return int64(math.Round(float64(eligible) * ratio)), nil
}
