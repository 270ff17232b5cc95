// internal/storage/day_repo.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// ensureDay returns the user's Day row for date, creating it when missing.
// Concurrent callers converge on a single row through the (date, user_id)
// unique index.
func ensureDay(ctx context.Context, r runner, userID string, date time.Time) (*domain.Day, error) {
	date = core.StartOfDayUTC(date)

	_, err := r.exec(ctx, `INSERT INTO days (id, date, user_id) VALUES (?, ?, ?) ON CONFLICT (date, user_id) DO NOTHING`,
		uuid.NewString(), date, userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to upsert day %s for UserID %s: %v", core.FormatDate(date), userID, err)
		return nil, fmt.Errorf("database error creating day: %w", err)
	}

	day := &domain.Day{}
	err = r.queryRow(ctx, `SELECT id, date, user_id FROM days WHERE date = ? AND user_id = ?`, date, userID).
		Scan(&day.ID, &day.Date, &day.UserID)
	if err != nil {
		customLog.Warnf("Storage: Failed to read day %s for UserID %s: %v", core.FormatDate(date), userID, err)
		return nil, fmt.Errorf("database error reading day: %w", err)
	}
	day.Date = day.Date.UTC()
	return day, nil
}

// findDay returns the user's Day row for date, or nil when the date was never touched.
func findDay(ctx context.Context, r runner, userID string, date time.Time) (*domain.Day, error) {
	rows, err := r.query(ctx, `SELECT id, date, user_id FROM days WHERE date = ? AND user_id = ?`, core.StartOfDayUTC(date), userID)
	if err != nil {
		customLog.Warnf("Storage: Failed to look up day %s for UserID %s: %v", core.FormatDate(date), userID, err)
		return nil, fmt.Errorf("database error reading day: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	day := &domain.Day{}
	if err := rows.Scan(&day.ID, &day.Date, &day.UserID); err != nil {
		return nil, fmt.Errorf("failed processing day: %w", err)
	}
	day.Date = day.Date.UTC()
	return day, nil
}

// MaterializeDay makes sure today's Day row exists for the user and is linked
// to every habit scheduled on today's weekday. Running it twice creates nothing
// new.
func MaterializeDay(ctx context.Context, db *DB, userID string, today time.Time) (*domain.Day, error) {
	var day *domain.Day
	err := withTx(ctx, db, func(tx *Tx) error {
		var err error
		day, err = materializeDay(ctx, tx, userID, today)
		return err
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

// materializeDay upserts the Day row and inserts only the missing
// availability pairs. Callers run it inside a transaction so the Day never
// becomes visible without its availability set.
func materializeDay(ctx context.Context, r runner, userID string, today time.Time) (*domain.Day, error) {
	today = core.StartOfDayUTC(today)

	day, err := ensureDay(ctx, r, userID, today)
	if err != nil {
		return nil, err
	}

	habits, err := habitsScheduledOn(ctx, r, userID, today)
	if err != nil {
		return nil, err
	}
	linked, err := availableHabitIDs(ctx, r, day.ID)
	if err != nil {
		return nil, err
	}

	created := 0
	for _, habit := range habits {
		if _, ok := linked[habit.ID]; ok {
			continue
		}
		inserted, err := insertAvailability(ctx, r, day.ID, habit.ID)
		if err != nil {
			return nil, err
		}
		if inserted {
			created++
		}
	}
	if created > 0 {
		customLog.Debugf("Storage: Materialized %d availability row(s) for UserID %s on %s", created, userID, core.FormatDate(today))
	}
	return day, nil
}

// GetDay returns the habits scheduled on date and the ids of the ones
// completed. Untouched dates report no completions.
func GetDay(ctx context.Context, db *DB, userID string, date time.Time) (*domain.DayDetail, error) {
	date = core.StartOfDayUTC(date)

	possible, err := habitsScheduledOn(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}

	detail := &domain.DayDetail{
		PossibleHabits:  possible,
		CompletedHabits: []string{},
	}

	day, err := findDay(ctx, db, userID, date)
	if err != nil {
		return nil, err
	}
	if day == nil {
		return detail, nil
	}

	rows, err := db.query(ctx, `SELECT habit_id FROM day_habits WHERE day_id = ? ORDER BY habit_id`, day.ID)
	if err != nil {
		customLog.Warnf("Storage: Failed to list completions for day %s: %v", day.ID, err)
		return nil, fmt.Errorf("database error listing completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var habitID string
		if err := rows.Scan(&habitID); err != nil {
			return nil, fmt.Errorf("failed processing completions: %w", err)
		}
		detail.CompletedHabits = append(detail.CompletedHabits, habitID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading completions: %w", err)
	}
	return detail, nil
}
