// api/models/habit_models.go
package models

import "github.com/Annany2002/habitgrid-backend/internal/domain"

// CreateHabitRequest defines the structure for the habit creation body
type CreateHabitRequest struct {
	Title    string `json:"title" binding:"required"`
	WeekDays []int  `json:"weekDays" binding:"required,min=1,dive,min=0,max=6"`
}

// ToggleHabitResponse reports the completion state after a toggle.
type ToggleHabitResponse struct {
	HabitID   string `json:"habit_id"`
	Completed bool   `json:"completed"`
}

// CalendarResponse is the zero-filled calendar view.
type CalendarResponse struct {
	View  string                `json:"view"`
	Today string                `json:"today"`
	Cells []domain.CalendarCell `json:"cells"`
}

// SyncAvailabilityResponse reports how many availability rows were created.
type SyncAvailabilityResponse struct {
	Message string `json:"message"`
	Created int    `json:"created"`
}
