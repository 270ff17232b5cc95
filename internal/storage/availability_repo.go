// internal/storage/availability_repo.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// insertAvailability links a habit to a day. It reports false when the pair
// already existed.
func insertAvailability(ctx context.Context, r runner, dayID, habitID string) (bool, error) {
	res, err := r.exec(ctx, `
	INSERT INTO daily_habit_availability (id, day_id, habit_id) VALUES (?, ?, ?)
	ON CONFLICT (day_id, habit_id) DO NOTHING`, uuid.NewString(), dayID, habitID)
	if err != nil {
		customLog.Warnf("Storage: Failed to link habit %s to day %s: %v", habitID, dayID, err)
		return false, fmt.Errorf("database error creating availability: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("database error creating availability: %w", err)
	}
	return n > 0, nil
}

func availableHabitIDs(ctx context.Context, r runner, dayID string) (map[string]struct{}, error) {
	rows, err := r.query(ctx, `SELECT habit_id FROM daily_habit_availability WHERE day_id = ?`, dayID)
	if err != nil {
		customLog.Warnf("Storage: Failed to list availability for day %s: %v", dayID, err)
		return nil, fmt.Errorf("database error listing availability: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed processing availability: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// backfillHabitAvailability links the habit to each of its owner's existing
// days on or after from whose weekday is in the habit's recurrence.
func backfillHabitAvailability(ctx context.Context, r runner, habit domain.Habit, from time.Time) (int, error) {
	rows, err := r.query(ctx, `SELECT id, date FROM days WHERE user_id = ? AND date >= ? ORDER BY date`,
		habit.UserID, core.StartOfDayUTC(from))
	if err != nil {
		customLog.Warnf("Storage: Failed to list days for backfill of habit %s: %v", habit.ID, err)
		return 0, fmt.Errorf("database error listing days: %w", err)
	}

	var dayIDs []string
	for rows.Next() {
		var (
			id   string
			date time.Time
		)
		if err := rows.Scan(&id, &date); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed processing days: %w", err)
		}
		if core.ContainsWeekDay(habit.WeekDays, core.WeekDay(date.UTC())) {
			dayIDs = append(dayIDs, id)
		}
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return 0, fmt.Errorf("failed reading days: %w", err)
	}

	created := 0
	for _, dayID := range dayIDs {
		inserted, err := insertAvailability(ctx, r, dayID, habit.ID)
		if err != nil {
			return created, err
		}
		if inserted {
			created++
		}
	}
	return created, nil
}

// SyncAvailability reconciles the user's availability rows for every existing
// day on or after from: each scheduled habit created on or before the day gets
// linked. It returns the number of rows created.
func SyncAvailability(ctx context.Context, db *DB, userID string, from time.Time) (int, error) {
	created := 0
	err := withTx(ctx, db, func(tx *Tx) error {
		habits, err := listHabits(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, habit := range habits {
			start := core.StartOfDayUTC(from)
			if habit.CreatedAt.After(start) {
				start = habit.CreatedAt
			}
			n, err := backfillHabitAvailability(ctx, tx, habit, start)
			if err != nil {
				return err
			}
			created += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	customLog.Printf("Storage: Availability sync for UserID %s created %d row(s)", userID, created)
	return created, nil
}
