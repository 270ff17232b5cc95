// internal/storage/completion_repo.go
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/habitgrid-backend/internal/core"
)

// ToggleHabit flips the completion of a habit for today and returns the new
// state. The habit must belong to the user and be available today.
//
// The delete and insert run as single statements so the (day_id, habit_id)
// unique index decides between concurrent toggles: a losing insert means the
// row is already there, which is reported as completed. A habit deleted
// between the ownership check and the insert is reported as not found.
func ToggleHabit(ctx context.Context, db *DB, userID, habitID string, today time.Time) (bool, error) {
	today = core.StartOfDayUTC(today)

	if _, err := findHabit(ctx, db, userID, habitID); err != nil {
		return false, err
	}

	day, err := MaterializeDay(ctx, db, userID, today)
	if err != nil {
		return false, err
	}

	var available int
	err = db.queryRow(ctx, `SELECT COUNT(*) FROM daily_habit_availability WHERE day_id = ? AND habit_id = ?`, day.ID, habitID).Scan(&available)
	if err != nil {
		customLog.Warnf("Storage: Failed to check availability of habit %s: %v", habitID, err)
		return false, fmt.Errorf("database error checking availability: %w", err)
	}
	if available == 0 {
		return false, ErrHabitNotScheduled
	}

	res, err := db.exec(ctx, `DELETE FROM day_habits WHERE day_id = ? AND habit_id = ?`, day.ID, habitID)
	if err != nil {
		customLog.Warnf("Storage: Failed to clear completion of habit %s: %v", habitID, err)
		return false, fmt.Errorf("database error toggling habit: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("database error toggling habit: %w", err)
	}
	if removed > 0 {
		customLog.Debugf("Storage: Habit %s marked incomplete on %s", habitID, core.FormatDate(today))
		return false, nil
	}

	_, err = db.exec(ctx, `INSERT INTO day_habits (id, day_id, habit_id) VALUES (?, ?, ?)`, uuid.NewString(), day.ID, habitID)
	if err != nil {
		if isUniqueViolation(err) {
			customLog.Debugf("Storage: Habit %s already completed on %s by a concurrent request", habitID, core.FormatDate(today))
			return true, nil
		}
		if isForeignKeyViolation(err) {
			customLog.Debugf("Storage: Habit %s deleted while being toggled", habitID)
			return false, ErrHabitNotFound
		}
		customLog.Warnf("Storage: Failed to complete habit %s: %v", habitID, err)
		return false, fmt.Errorf("database error toggling habit: %w", err)
	}
	customLog.Debugf("Storage: Habit %s marked complete on %s", habitID, core.FormatDate(today))
	return true, nil
}
