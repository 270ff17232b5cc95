// api/handlers/habit_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/api/models"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// HabitHandler holds dependencies for habit management and completion.
type HabitHandler struct {
	DB    *storage.DB
	Clock core.Clock
}

// NewHabitHandler creates a new HabitHandler.
func NewHabitHandler(db *storage.DB, clock core.Clock) *HabitHandler {
	return &HabitHandler{DB: db, Clock: clock}
}

// ListHabits returns the user's habits ordered by title.
func (h *HabitHandler) ListHabits(c *gin.Context) {
	habits, err := storage.ListHabits(c.Request.Context(), h.DB, currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, habits)
}

// CreateHabit creates a habit starting today.
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	var req models.CreateHabitRequest
	if !bindJSON(c, &req, "CreateHabit") {
		return
	}

	userID := currentUserID(c)
	habit, err := storage.CreateHabit(c.Request.Context(), h.DB, userID, req.Title, req.WeekDays, core.Today(h.Clock))
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Handler: Created habit %s for UserID %s", habit.ID, userID)
	c.JSON(http.StatusCreated, habit)
}

// DeleteHabit removes a habit and everything recorded for it.
func (h *HabitHandler) DeleteHabit(c *gin.Context) {
	habitID, err := core.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	userID := currentUserID(c)
	if err := storage.DeleteHabit(c.Request.Context(), h.DB, userID, habitID); err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Handler: Deleted habit %s for UserID %s", habitID, userID)
	c.Status(http.StatusNoContent)
}

// ToggleHabit flips today's completion of a habit.
func (h *HabitHandler) ToggleHabit(c *gin.Context) {
	habitID, err := core.ParseID(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}

	completed, err := storage.ToggleHabit(c.Request.Context(), h.DB, currentUserID(c), habitID, core.Today(h.Clock))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.ToggleHabitResponse{HabitID: habitID, Completed: completed})
}
