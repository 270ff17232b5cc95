// internal/storage/habit_repo.go
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
)

// Specific errors for habit operations
var (
	ErrHabitNotFound     = errors.New("habit not found")
	ErrHabitNotScheduled = errors.New("habit is not scheduled for today")
)

// CreateHabit validates and stores a habit created today, materializes today
// with every scheduled habit (the new one included) and links the habit to
// every later existing day whose weekday it recurs on.
func CreateHabit(ctx context.Context, db *DB, userID, title string, weekDays []int, today time.Time) (*domain.Habit, error) {
	title, err := core.NormalizeTitle(title)
	if err != nil {
		return nil, err
	}
	weekDays, err = core.NormalizeWeekDays(weekDays)
	if err != nil {
		return nil, err
	}

	habit := &domain.Habit{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: core.StartOfDayUTC(today),
		UserID:    userID,
		WeekDays:  weekDays,
	}

	err = withTx(ctx, db, func(tx *Tx) error {
		if _, err := tx.exec(ctx, `INSERT INTO habits (id, title, created_at, user_id) VALUES (?, ?, ?, ?)`,
			habit.ID, habit.Title, habit.CreatedAt, habit.UserID); err != nil {
			customLog.Warnf("Storage: Failed to insert habit for user %s: %v", userID, err)
			return fmt.Errorf("database error creating habit: %w", err)
		}

		for _, day := range weekDays {
			if _, err := tx.exec(ctx, `INSERT INTO habit_week_days (id, habit_id, week_day) VALUES (?, ?, ?)`,
				uuid.NewString(), habit.ID, day); err != nil {
				customLog.Warnf("Storage: Failed to insert week day %d for habit %s: %v", day, habit.ID, err)
				return fmt.Errorf("database error creating habit week days: %w", err)
			}
		}

		if _, err := materializeDay(ctx, tx, userID, habit.CreatedAt); err != nil {
			return err
		}

		created, err := backfillHabitAvailability(ctx, tx, *habit, habit.CreatedAt)
		if err != nil {
			return err
		}
		customLog.Debugf("Storage: Habit %s linked to %d day(s)", habit.ID, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return habit, nil
}

// ListHabits returns every habit owned by the user, ordered by title.
func ListHabits(ctx context.Context, db *DB, userID string) ([]domain.Habit, error) {
	return listHabits(ctx, db, userID)
}

func listHabits(ctx context.Context, r runner, userID string) ([]domain.Habit, error) {
	rows, err := r.query(ctx, `SELECT id, title, created_at, user_id FROM habits WHERE user_id = ? ORDER BY title, created_at, id`, userID)
	if err != nil {
		customLog.Warnf("Storage: Error listing habits for UserID %s: %v", userID, err)
		return nil, fmt.Errorf("database error listing habits: %w", err)
	}
	habits, err := scanHabits(rows)
	if err != nil {
		return nil, err
	}
	if err := attachWeekDays(ctx, r, userID, habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// FindHabit returns the habit when it belongs to userID, ErrHabitNotFound otherwise.
func FindHabit(ctx context.Context, db *DB, userID, habitID string) (*domain.Habit, error) {
	return findHabit(ctx, db, userID, habitID)
}

func findHabit(ctx context.Context, r runner, userID, habitID string) (*domain.Habit, error) {
	var habit domain.Habit
	err := r.queryRow(ctx, `SELECT id, title, created_at, user_id FROM habits WHERE id = ? AND user_id = ? LIMIT 1`, habitID, userID).
		Scan(&habit.ID, &habit.Title, &habit.CreatedAt, &habit.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHabitNotFound
		}
		customLog.Warnf("Storage: Error finding habit %s for UserID %s: %v", habitID, userID, err)
		return nil, fmt.Errorf("database error finding habit: %w", err)
	}

	habits := []domain.Habit{habit}
	if err := attachWeekDays(ctx, r, userID, habits); err != nil {
		return nil, err
	}
	return &habits[0], nil
}

// DeleteHabit removes a habit owned by userID together with its availability,
// completion and weekday rows, in that order, inside one transaction.
func DeleteHabit(ctx context.Context, db *DB, userID, habitID string) error {
	return withTx(ctx, db, func(tx *Tx) error {
		if _, err := findHabit(ctx, tx, userID, habitID); err != nil {
			return err
		}

		steps := []struct {
			table string
			sql   string
		}{
			{"daily_habit_availability", `DELETE FROM daily_habit_availability WHERE habit_id = ?`},
			{"day_habits", `DELETE FROM day_habits WHERE habit_id = ?`},
			{"habit_week_days", `DELETE FROM habit_week_days WHERE habit_id = ?`},
			{"habits", `DELETE FROM habits WHERE id = ?`},
		}
		for _, step := range steps {
			if _, err := tx.exec(ctx, step.sql, habitID); err != nil {
				customLog.Warnf("Storage: Error deleting %s rows for habit %s: %v", step.table, habitID, err)
				return fmt.Errorf("database error deleting habit: %w", err)
			}
		}
		return nil
	})
}

// habitsScheduledOn lists the user's habits created on or before date whose
// weekdays include date's weekday.
func habitsScheduledOn(ctx context.Context, r runner, userID string, date time.Time) ([]domain.Habit, error) {
	query := `
	SELECT h.id, h.title, h.created_at, h.user_id
	FROM habits h
	WHERE h.user_id = ?
		AND h.created_at <= ?
		AND EXISTS (
			SELECT 1 FROM habit_week_days hwd
			WHERE hwd.habit_id = h.id AND hwd.week_day = ?
		)
	ORDER BY h.title, h.created_at, h.id`

	rows, err := r.query(ctx, query, userID, core.StartOfDayUTC(date), core.WeekDay(date))
	if err != nil {
		customLog.Warnf("Storage: Error listing habits scheduled on %s for UserID %s: %v", core.FormatDate(date), userID, err)
		return nil, fmt.Errorf("database error listing scheduled habits: %w", err)
	}
	habits, err := scanHabits(rows)
	if err != nil {
		return nil, err
	}
	if err := attachWeekDays(ctx, r, userID, habits); err != nil {
		return nil, err
	}
	return habits, nil
}

func scanHabits(rows *sql.Rows) ([]domain.Habit, error) {
	defer rows.Close()

	habits := make([]domain.Habit, 0)
	for rows.Next() {
		var habit domain.Habit
		if err := rows.Scan(&habit.ID, &habit.Title, &habit.CreatedAt, &habit.UserID); err != nil {
			customLog.Warnf("Storage: Error scanning habit: %v", err)
			return nil, fmt.Errorf("failed processing habit list: %w", err)
		}
		habit.CreatedAt = habit.CreatedAt.UTC()
		habits = append(habits, habit)
	}
	if err := rows.Err(); err != nil {
		customLog.Warnf("Storage: Error iterating habits: %v", err)
		return nil, fmt.Errorf("failed reading habit list: %w", err)
	}
	return habits, nil
}

// attachWeekDays fills WeekDays for the given habits with one query over the
// user's recurrence rows, narrowed to the habit itself for single lookups.
func attachWeekDays(ctx context.Context, r runner, userID string, habits []domain.Habit) error {
	if len(habits) == 0 {
		return nil
	}

	query := `
	SELECT hwd.habit_id, hwd.week_day
	FROM habit_week_days hwd
	JOIN habits h ON h.id = hwd.habit_id
	WHERE h.user_id = ?`
	args := []any{userID}
	if len(habits) == 1 {
		query += ` AND hwd.habit_id = ?`
		args = append(args, habits[0].ID)
	}
	query += ` ORDER BY hwd.week_day`

	rows, err := r.query(ctx, query, args...)
	if err != nil {
		customLog.Warnf("Storage: Error loading week days for UserID %s: %v", userID, err)
		return fmt.Errorf("database error loading week days: %w", err)
	}
	defer rows.Close()

	byHabit := make(map[string][]int)
	for rows.Next() {
		var (
			habitID string
			weekDay int
		)
		if err := rows.Scan(&habitID, &weekDay); err != nil {
			return fmt.Errorf("failed processing week days: %w", err)
		}
		byHabit[habitID] = append(byHabit[habitID], weekDay)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed reading week days: %w", err)
	}

	for i := range habits {
		habits[i].WeekDays = byHabit[habits[i].ID]
		if habits[i].WeekDays == nil {
			habits[i].WeekDays = []int{}
		}
	}
	return nil
}
