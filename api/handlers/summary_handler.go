// api/handlers/summary_handler.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/api/models"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// SummaryHandler serves aggregated completion data.
type SummaryHandler struct {
	DB    *storage.DB
	Clock core.Clock
}

func NewSummaryHandler(db *storage.DB, clock core.Clock) *SummaryHandler {
	return &SummaryHandler{DB: db, Clock: clock}
}

// GetSummary returns completed/amount per touched day, optionally limited by
// ?from= and ?to=.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	rng, err := core.ParseSummaryRange(c.Request.URL.Query())
	if err != nil {
		_ = c.Error(err)
		return
	}

	summary, err := storage.GetSummary(c.Request.Context(), h.DB, currentUserID(c), rng.From, rng.To)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetCalendar returns a zero-filled cell for every date of the requested year
// or month view. The user's saved view mode applies when ?view= is absent.
func (h *SummaryHandler) GetCalendar(c *gin.Context) {
	ctx := c.Request.Context()
	userID := currentUserID(c)
	today := core.Today(h.Clock)

	user, err := storage.FindUserByID(ctx, h.DB, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	query, err := core.ParseCalendarQuery(c.Request.URL.Query(), user.ViewMode, today)
	if err != nil {
		_ = c.Error(err)
		return
	}
	dates, err := query.Dates(today)
	if err != nil {
		_ = c.Error(err)
		return
	}

	summary := []domain.DaySummary{}
	if len(dates) > 0 {
		summary, err = storage.GetSummary(ctx, h.DB, userID, dates[0], dates[len(dates)-1])
		if err != nil {
			_ = c.Error(err)
			return
		}
	}

	c.JSON(http.StatusOK, models.CalendarResponse{
		View:  query.View,
		Today: core.FormatDate(today),
		Cells: core.CalendarCells(dates, summary, today),
	})
}

// SyncAvailability reconciles availability rows from ?from= (default today).
func (h *SummaryHandler) SyncAvailability(c *gin.Context) {
	from := core.Today(h.Clock)
	if raw := c.Query("from"); raw != "" {
		parsed, err := core.ParseDate(raw)
		if err != nil {
			_ = c.Error(err)
			return
		}
		from = parsed
	}

	created, err := storage.SyncAvailability(c.Request.Context(), h.DB, currentUserID(c), from)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, models.SyncAvailabilityResponse{Message: "Availability synchronized", Created: created})
}
