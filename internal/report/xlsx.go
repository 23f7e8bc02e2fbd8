// Package report renders request listings as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/campusops/facility-desk/internal/domain"
)

const (
	RequestsSheet = "Requests"
	SummarySheet  = "Summary"

	// ContentType is the MIME type of the generated workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	timeLayout = "2006-01-02 15:04"
)

var requestHeaders = []interface{}{
	"ID", "Title", "Category", "Location", "Specific location", "Urgency", "Status",
	"Requester", "Requester email", "Assignee", "Created", "Completed", "Hold reason",
	"Comments", "Rating",
}

// WriteXLSX writes one row per request plus a summary sheet.
func WriteXLSX(w io.Writer, requests []domain.Request, stats domain.Stats) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName("Sheet1", RequestsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeRequests(f, requests); err != nil {
		return err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, stats); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRequests(f *excelize.File, requests []domain.Request) error {
	if err := f.SetSheetRow(RequestsSheet, "A1", &requestHeaders); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		_ = f.SetRowStyle(RequestsSheet, 1, 1, bold)
	}

	for i := range requests {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := requestRow(&requests[i])
		if err := f.SetSheetRow(RequestsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(RequestsSheet, "B", "B", 40)
	_ = f.SetColWidth(RequestsSheet, "H", "J", 25)
	return nil
}

func requestRow(req *domain.Request) []interface{} {
	completed := ""
	if ev, ok := req.FirstEvent(domain.StatusCompleted); ok {
		completed = ev.Timestamp.Format(timeLayout)
	}
	var rating interface{} = ""
	if req.FeedbackRating > 0 {
		rating = req.FeedbackRating
	}
	return []interface{}{
		req.ID, req.Title, req.Category.Label(), string(req.Location), req.SpecificLocation,
		string(req.Urgency), req.Status.Label(), req.RequesterName, req.RequesterEmail,
		req.AssigneeName, req.CreatedAt.Format(timeLayout), completed, req.HoldReason,
		len(req.Comments), rating,
	}
}

func writeSummary(f *excelize.File, stats domain.Stats) error {
	rows := [][]interface{}{
		{"Total requests", stats.Total},
		{"Pending", stats.Pending},
		{"Completed", stats.Completed},
		{"Average completion (hours)", stats.AvgCompletionHours},
		{},
		{"Category", "Requests"},
	}
	for _, entry := range stats.CategoryBreakdown {
		rows = append(rows, []interface{}{entry.Name.Label(), entry.Count})
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SummarySheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write summary row %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(SummarySheet, "A", "A", 30)
	return nil
}
