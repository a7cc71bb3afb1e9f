package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduguard-hub/eduguard-core/internal/domain/risk"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
)

type recordingStatsCache struct {
	stored map[string]*GetCohortStatsResult
	gets   int
	sets   int
}

func newRecordingStatsCache() *recordingStatsCache {
	return &recordingStatsCache{stored: make(map[string]*GetCohortStatsResult)}
}

func (c *recordingStatsCache) GetStats(_ context.Context, key string) (*GetCohortStatsResult, bool) {
	c.gets++
	result, ok := c.stored[key]
	return result, ok
}

func (c *recordingStatsCache) SetStats(_ context.Context, key string, result *GetCohortStatsResult) {
	c.sets++
	c.stored[key] = result
}

func cohortFixture(t *testing.T) (*stubRoster, *roster.Directory) {
	source := &stubRoster{
		students: []*roster.Student{
			buildStudent(t, "s1", "Aruzhan Serikova", "10A", 90, 85, 0),
			buildStudent(t, "s2", "Nursultan Bek", "10A", 50, 30, 40),
			buildStudent(t, "s3", "Tomiris Akhmet", "10B", 70, 80, 0),
		},
	}
	directory := roster.NewDirectory(map[roster.ClassCode]roster.Teacher{
		"10A": {Name: "Dr. Priya Sharma", Subject: "Mathematics", Experience: "12 years"},
		"11A": {Name: "Ms. Kavita Rao", Subject: "Chemistry", Experience: "6 years"},
	})
	return source, directory
}

func TestGetCohortStats_SortedCohortsAndRollup(t *testing.T) {
	source, directory := cohortFixture(t)
	h := NewGetCohortStatsHandler(source, directory, risk.DefaultThresholds(), nil)

	result, err := h.Handle(context.Background())
	require.NoError(t, err)

	// 10A and 10B from the roster plus the staffed-but-empty 11A.
	require.Len(t, result.Cohorts, 3)
	assert.Equal(t, roster.ClassCode("10A"), result.Cohorts[0].Class)
	assert.Equal(t, roster.ClassCode("10B"), result.Cohorts[1].Class)
	assert.Equal(t, roster.ClassCode("11A"), result.Cohorts[2].Class)
	assert.Equal(t, 2, result.Cohorts[0].TotalStudents)
	assert.Equal(t, 1, result.Cohorts[0].HighRiskCount)
	assert.InDelta(t, 70.0, result.Cohorts[0].AvgAttendance, 1e-9)
	assert.Equal(t, 0, result.Cohorts[2].TotalStudents)

	// One row per class in the directory or the roster: 10A, 10B, 11A.
	require.Len(t, result.Teachers, 3)
	assert.Equal(t, "Dr. Priya Sharma", result.Teachers[0].TeacherName)
	assert.Equal(t, roster.NotAssignedName, result.Teachers[1].TeacherName)
	assert.Equal(t, "Ms. Kavita Rao", result.Teachers[2].TeacherName)

	assert.Equal(t, 2, result.TotalTeachers)
	assert.InDelta(t, 9.0, result.AvgExperienceYears, 1e-9)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestGetCohortStats_CacheHitSkipsRecompute(t *testing.T) {
	source, directory := cohortFixture(t)
	cache := newRecordingStatsCache()
	h := NewGetCohortStatsHandler(source, directory, risk.DefaultThresholds(), cache)

	first, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	source.students = nil // a hit must not touch the roster again

	second, err := h.Handle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 2, cache.gets)
}

func TestGetCohortStats_CacheMissFallsThrough(t *testing.T) {
	source, directory := cohortFixture(t)
	cache := newRecordingStatsCache()
	h := NewGetCohortStatsHandler(source, directory, risk.DefaultThresholds(), cache)

	result, err := h.Handle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Cohorts, 3)
	assert.Equal(t, 1, cache.gets)
	assert.Equal(t, 1, cache.sets)
}

func TestGetCohortStats_LoadFailureIsSurfaced(t *testing.T) {
	source := &stubRoster{err: errors.New("connection refused")}
	h := NewGetCohortStatsHandler(source, roster.NewDirectory(nil), risk.DefaultThresholds(), nil)

	_, err := h.Handle(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roster load failed")
}
