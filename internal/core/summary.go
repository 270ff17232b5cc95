// internal/core/summary.go
package core

import (
	"time"

	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// CalendarCells produces one cell per date, taking counts from the summary
// and treating days absent from it as amount=0, completed=0.
func CalendarCells(dates []time.Time, summary []domain.DaySummary, today time.Time) []domain.CalendarCell {
	byDate := make(map[string]domain.DaySummary, len(summary))
	for _, entry := range summary {
		byDate[FormatDate(entry.Date)] = entry
	}

	cells := make([]domain.CalendarCell, 0, len(dates))
	for _, date := range dates {
		key := FormatDate(date)
		entry := byDate[key]
		cells = append(cells, domain.CalendarCell{
			Date:      key,
			Completed: entry.Completed,
			Amount:    entry.Amount,
			Ratio:     CompletionRatio(entry.Completed, entry.Amount),
			Past:      IsPastDay(date, today),
		})
	}
	return cells
}

// CompletionRatio returns completed/amount, or 0 when nothing was available.
func CompletionRatio(completed, amount int) float64 {
	if amount <= 0 {
		return 0
	}
	return float64(completed) / float64(amount)
}
