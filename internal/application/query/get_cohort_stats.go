package query

import (
	"context"
	"sort"
	"time"

	"github.com/eduguard-hub/eduguard-core/internal/domain/analytics"
	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COHORT STATS QUERY
// Rolls the roster up into per-class and per-teacher statistics. The
// aggregation itself is a pure function; an optional cache sits in front
// of it with a short TTL, and any cache problem silently falls through to
// recomputation.
// ══════════════════════════════════════════════════════════════════════════════

// StatsCacheKey is the cache key for the full cohort stats result.
const StatsCacheKey = "cohort:stats"

// StatsCache caches a computed cohort stats result. Implemented by the
// Redis infrastructure; a nil cache disables caching entirely.
type StatsCache interface {
	// GetStats returns a cached result, or ok=false on miss or error.
	GetStats(ctx context.Context, key string) (*GetCohortStatsResult, bool)

	// SetStats stores a result. Errors are the cache's problem, not the
	// caller's.
	SetStats(ctx context.Context, key string, result *GetCohortStatsResult)
}

// GetCohortStatsResult contains per-class and per-teacher rollups.
type GetCohortStatsResult struct {
	// Cohorts - per-class statistics, sorted by class code.
	Cohorts []analytics.CohortStats `json:"cohorts"`

	// Teachers - per-teacher performance rows, sorted by class code.
	Teachers []analytics.TeacherPerformance `json:"teachers"`

	// TotalTeachers - directory entries.
	TotalTeachers int `json:"total_teachers"`

	// AvgExperienceYears - directory-wide mean of parsed experience years.
	AvgExperienceYears float64 `json:"avg_experience_years"`

	// GeneratedAt - when the statistics were computed (not served from
	// cache).
	GeneratedAt time.Time `json:"generated_at"`
}

// GetCohortStatsHandler handles cohort statistics queries.
type GetCohortStatsHandler struct {
	source     roster.RosterSource
	directory  *roster.Directory
	thresholds risk.Thresholds
	cache      StatsCache
}

// NewGetCohortStatsHandler creates a new cohort stats query handler.
// cache may be nil.
func NewGetCohortStatsHandler(source roster.RosterSource, directory *roster.Directory, thresholds risk.Thresholds, cache StatsCache) *GetCohortStatsHandler {
	return &GetCohortStatsHandler{
		source:     source,
		directory:  directory,
		thresholds: thresholds,
		cache:      cache,
	}
}

// Handle executes the cohort stats query.
func (h *GetCohortStatsHandler) Handle(ctx context.Context) (*GetCohortStatsResult, error) {
	if h.cache != nil {
		if cached, ok := h.cache.GetStats(ctx, StatsCacheKey); ok {
			return cached, nil
		}
	}

	students, _, err := h.source.Load(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "GetCohortStats", shared.ErrServiceUnavailable, "roster load failed", err)
	}

	byClass := analytics.Aggregate(students, h.directory, h.thresholds)
	cohorts := make([]analytics.CohortStats, 0, len(byClass))
	for _, stats := range byClass {
		cohorts = append(cohorts, stats)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].Class < cohorts[j].Class })

	result := &GetCohortStatsResult{
		Cohorts:            cohorts,
		Teachers:           analytics.TeacherRollup(students, h.directory, h.thresholds),
		TotalTeachers:      h.directory.Len(),
		AvgExperienceYears: h.directory.AverageExperienceYears(),
		GeneratedAt:        time.Now().UTC(),
	}

	if h.cache != nil {
		h.cache.SetStats(ctx, StatsCacheKey, result)
	}
	return result, nil
}
