package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusops/facility-desk/internal/domain"
)

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil, t0)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.AvgCompletionHours)
	require.NotNil(t, stats.CategoryBreakdown)
	assert.Empty(t, stats.CategoryBreakdown)
}

func completed(category domain.Category, created time.Time, took time.Duration) domain.Request {
	return domain.Request{
		Category:  category,
		Status:    domain.StatusCompleted,
		CreatedAt: created,
		Timeline: []domain.TimelineEvent{
			{Status: domain.StatusPending, Timestamp: created},
			{Status: domain.StatusCompleted, Timestamp: created.Add(took)},
		},
	}
}

func TestComputeStatsAggregates(t *testing.T) {
	requests := []domain.Request{
		completed(domain.CategoryRepair, t0, 2*time.Hour),
		{Category: domain.CategoryElectric, Status: domain.StatusPending, CreatedAt: t0},
		completed(domain.CategoryRepair, t0, 90*time.Minute),
		{Category: domain.CategoryCleaning, Status: domain.StatusCancelled, CreatedAt: t0},
		completed(domain.CategoryElectric, t0, 20*time.Minute),
	}

	stats := ComputeStats(requests, t0.Add(100*time.Hour))
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 3, stats.Completed)
	// (2 + 1.5 + 0.333) / 3 = 1.277...
	assert.InDelta(t, 1.3, stats.AvgCompletionHours, 1e-9)
	assert.Equal(t, []domain.CategoryCount{
		{Name: domain.CategoryRepair, Count: 2},
		{Name: domain.CategoryElectric, Count: 2},
		{Name: domain.CategoryCleaning, Count: 1},
	}, stats.CategoryBreakdown)
}

func TestComputeStatsUsesFirstCompletedEvent(t *testing.T) {
	req := completed(domain.CategoryOther, t0, time.Hour)
	req.Timeline = append(req.Timeline, domain.TimelineEvent{Status: domain.StatusCompleted, Timestamp: t0.Add(5 * time.Hour)})

	stats := ComputeStats([]domain.Request{req}, t0.Add(24*time.Hour))
	assert.InDelta(t, 1.0, stats.AvgCompletionHours, 1e-9)
}

func TestComputeStatsFallsBackToNow(t *testing.T) {
	req := domain.Request{Category: domain.CategoryOther, Status: domain.StatusCompleted, CreatedAt: t0}

	stats := ComputeStats([]domain.Request{req}, t0.Add(4*time.Hour))
	assert.InDelta(t, 4.0, stats.AvgCompletionHours, 1e-9)
}
