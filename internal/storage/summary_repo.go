// internal/storage/summary_repo.go
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// GetSummary returns, for every day the user has touched, the number of
// completed and available habits, ordered by date. Zero from/to leave the
// range open on that side.
func GetSummary(ctx context.Context, db *DB, userID string, from, to time.Time) ([]domain.DaySummary, error) {
	var (
		where = []string{"d.user_id = ?"}
		args  = []any{userID}
	)
	if !from.IsZero() {
		where = append(where, "d.date >= ?")
		args = append(args, core.StartOfDayUTC(from))
	}
	if !to.IsZero() {
		where = append(where, "d.date <= ?")
		args = append(args, core.StartOfDayUTC(to))
	}

	query := `
	SELECT
		d.id,
		d.date,
		(SELECT COUNT(*) FROM day_habits dh WHERE dh.day_id = d.id) AS completed,
		(SELECT COUNT(*) FROM daily_habit_availability dha WHERE dha.day_id = d.id) AS amount
	FROM days d
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY d.date`

	rows, err := db.query(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Failed to build summary for UserID %s: %v", userID, err)
		return nil, fmt.Errorf("database error building summary: %w", err)
	}
	defer rows.Close()

	summary := make([]domain.DaySummary, 0)
	for rows.Next() {
		var entry domain.DaySummary
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Completed, &entry.Amount); err != nil {
			customLog.Warnf("Storage: Error scanning summary row: %v", err)
			return nil, fmt.Errorf("failed processing summary: %w", err)
		}
		entry.Date = entry.Date.UTC()
		summary = append(summary, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading summary: %w", err)
	}
	return summary, nil
}
