// internal/domain/models.go
package domain

import "time"

// User defines the structure for user data in the DB
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    *string   `json:"avatar_url"`
	ViewMode     string    `json:"view_mode"`
	CreatedAt    time.Time `json:"created_at"`
}

// Habit is a recurring activity scheduled on a set of weekdays
// (0=Sunday..6=Saturday). CreatedAt is the UTC day the habit was created.
type Habit struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"userId"`
	WeekDays  []int     `json:"weekDays"`
}

// Day anchors a user's activity on one UTC calendar date.
type Day struct {
	ID     string    `json:"id"`
	Date   time.Time `json:"date"`
	UserID string    `json:"userId"`
}

// DayDetail lists the habits scheduled on a date and the ids of those completed.
type DayDetail struct {
	PossibleHabits  []Habit  `json:"possibleHabits"`
	CompletedHabits []string `json:"completedHabits"`
}

// DaySummary is one entry of the summary series: completed and available
// habit counts for a touched day.
type DaySummary struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Completed int       `json:"completed"`
	Amount    int       `json:"amount"`
}

// CalendarCell is a zero-filled day of a calendar view.
type CalendarCell struct {
	Date      string  `json:"date"`
	Completed int     `json:"completed"`
	Amount    int     `json:"amount"`
	Ratio     float64 `json:"ratio"`
	Past      bool    `json:"past"`
}
