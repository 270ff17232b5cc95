// api/handlers/user_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/api/models"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

// UserHandler serves the authenticated user's profile.
type UserHandler struct {
	DB *storage.DB
}

func NewUserHandler(db *storage.DB) *UserHandler {
	return &UserHandler{DB: db}
}

// GetMe returns the current user's profile.
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := storage.FindUserByID(c.Request.Context(), h.DB, currentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMe changes the name and/or avatar URL.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindJSON(c, &req, "UpdateMe") {
		return
	}

	if req.AvatarURL != nil {
		if avatar := strings.TrimSpace(*req.AvatarURL); avatar != "" && !isHTTPURL(avatar) {
			_ = c.Error(fmt.Errorf("%w: avatar_url must be an http(s) URL", core.ErrValidation))
			return
		}
	}

	user, err := storage.UpdateUserProfile(c.Request.Context(), h.DB, currentUserID(c), req.Name, req.AvatarURL)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateViewMode stores the preferred calendar view.
func (h *UserHandler) UpdateViewMode(c *gin.Context) {
	var req models.ViewModeRequest
	if !bindJSON(c, &req, "UpdateViewMode") {
		return
	}

	userID := currentUserID(c)
	if err := storage.UpdateViewMode(c.Request.Context(), h.DB, userID, req.ViewMode); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := storage.FindUserByID(c.Request.Context(), h.DB, userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func isHTTPURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
