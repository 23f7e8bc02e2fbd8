package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campusops/facility-desk/internal/domain"
)

func TestWriteXLSX(t *testing.T) {
	created := time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC)
	requests := []domain.Request{
		{
			ID:            "REQ-00000001",
			Title:         "Projector broken",
			Category:      domain.CategoryElectric,
			Location:      domain.LocationSchoolCenter,
			Urgency:       domain.UrgencyMedium,
			Status:        domain.StatusCompleted,
			RequesterName: "Ji-Min Kim",
			AssigneeName:  "Chul-Soo Park",
			CreatedAt:     created,
			Timeline: []domain.TimelineEvent{
				{Status: domain.StatusPending, Timestamp: created},
				{Status: domain.StatusCompleted, Timestamp: created.Add(3 * time.Hour)},
			},
			FeedbackRating: 5,
		},
		{
			ID:        "REQ-00000002",
			Title:     "Gate stuck",
			Category:  domain.CategorySecurity,
			Location:  domain.LocationOther,
			Urgency:   domain.UrgencyHigh,
			Status:    domain.StatusOnHold,
			CreatedAt: created,
		},
	}
	stats := domain.Stats{
		Total:              2,
		Completed:          1,
		AvgCompletionHours: 3,
		CategoryBreakdown: []domain.CategoryCount{
			{Name: domain.CategoryElectric, Count: 1},
			{Name: domain.CategorySecurity, Count: 1},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, requests, stats))

	book, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer book.Close()

	assert.Equal(t, []string{RequestsSheet, SummarySheet}, book.GetSheetList())

	rows, err := book.GetRows(RequestsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Projector broken", rows[1][1])
	assert.Equal(t, "Electric", rows[1][2])
	assert.Equal(t, "Completed", rows[1][6])
	assert.Equal(t, "2024-05-02 12:30", rows[1][11])
	assert.Equal(t, "5", rows[1][14])
	assert.Equal(t, "Security (Gate)", rows[2][2])
	assert.Equal(t, "On Hold", rows[2][6])

	summary, err := book.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Total requests", "2"}, summary[0])
	assert.Equal(t, []string{"Average completion (hours)", "3"}, summary[3])
	assert.Equal(t, []string{"Security (Gate)", "1"}, summary[len(summary)-1])
}
