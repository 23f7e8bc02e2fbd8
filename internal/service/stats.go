package service

import (
	"math"
	"time"

	"github.com/campusops/facility-desk/internal/domain"
)

// ComputeStats aggregates counts, mean completion time and a category breakdown.
// Breakdown order follows the first occurrence of each category in requests.
func ComputeStats(requests []domain.Request, now time.Time) domain.Stats {
	stats := domain.Stats{
		Total:             len(requests),
		CategoryBreakdown: []domain.CategoryCount{},
	}

	index := make(map[domain.Category]int)
	var totalDuration time.Duration
	for i := range requests {
		req := &requests[i]
		switch req.Status {
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusCompleted:
			stats.Completed++
			end := now
			if ev, ok := req.FirstEvent(domain.StatusCompleted); ok {
				end = ev.Timestamp
			}
			totalDuration += end.Sub(req.CreatedAt)
		case domain.StatusInProgress, domain.StatusOnHold, domain.StatusCancelled:
		}

		pos, seen := index[req.Category]
		if !seen {
			index[req.Category] = len(stats.CategoryBreakdown)
			stats.CategoryBreakdown = append(stats.CategoryBreakdown, domain.CategoryCount{Name: req.Category, Count: 1})
			continue
		}
		stats.CategoryBreakdown[pos].Count++
	}

	if stats.Completed > 0 {
		avgHours := totalDuration.Hours() / float64(stats.Completed)
		stats.AvgCompletionHours = math.Round(avgHours*10) / 10
	}
	return stats
}
