// api/handlers/day_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// DayHandler serves the per-date habit view.
type DayHandler struct {
	DB    *storage.DB
	Clock core.Clock
}

func NewDayHandler(db *storage.DB, clock core.Clock) *DayHandler {
	return &DayHandler{DB: db, Clock: clock}
}

// GetDay returns the possible and completed habits for ?date=YYYY-MM-DD,
// defaulting to today.
func (h *DayHandler) GetDay(c *gin.Context) {
	today := core.Today(h.Clock)
	date := today
	if raw := c.Query("date"); raw != "" {
		parsed, err := core.ParseDate(raw)
		if err != nil {
			_ = c.Error(err)
			return
		}
		date = parsed
	}

	userID := currentUserID(c)
	if date.Equal(today) {
		if _, err := storage.MaterializeDay(c.Request.Context(), h.DB, userID, today); err != nil {
			_ = c.Error(err)
			return
		}
	}

	detail, err := storage.GetDay(c.Request.Context(), h.DB, userID, date)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
