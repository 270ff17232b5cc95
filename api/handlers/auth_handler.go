// api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/api/models"
	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/auth" // Import internal auth logic
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/domain"
	"github.com/Annany2002/habitgrid-backend/internal/storage" // Import storage functions/errors
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	DB    *storage.DB    // Application connection pool
	Cfg   *config.Config // Application configuration
	Clock core.Clock
}

// NewAuthHandler creates a new AuthHandler with dependencies.
func NewAuthHandler(db *storage.DB, cfg *config.Config, clock core.Clock) *AuthHandler {
	return &AuthHandler{
		DB:    db,
		Cfg:   cfg,
		Clock: clock,
	}
}

// Signup handles user registration requests.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if !bindJSON(c, &req, "Signup") {
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		customLog.Warnf("Failed to hash password during signup for email %s: %v", req.Email, err)
		_ = c.Error(err)
		return
	}

	user, err := storage.CreateUser(c.Request.Context(), h.DB, req.Name, req.Email, hashedPassword, h.Clock.Now())
	if err != nil {
		customLog.Warnf("Failed to create user %s: %v", req.Email, err)
		_ = c.Error(err) // e.g. ErrEmailExists
		return
	}

	token, ok := h.startSession(c, user)
	if !ok {
		return
	}

	customLog.Printf("Successfully registered user with email %s", user.Email)
	c.JSON(http.StatusCreated, models.SignupResponse{Message: "User registered successfully", UserID: user.ID, Token: token})
}

// Login handles user login requests and issues JWT on success.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req, "Login") {
		return
	}

	user, err := storage.FindUserByEmail(c.Request.Context(), h.DB, req.Email)
	if err != nil {
		customLog.Warnf("Login failed for email %s: %v", req.Email, err)
		if errors.Is(err, storage.ErrUserNotFound) {
			err = storage.ErrInvalidCredentials
		}
		_ = c.Error(err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		customLog.Warnf("Login attempt failed for email %s: invalid password", user.Email)
		_ = c.Error(storage.ErrInvalidCredentials)
		return
	}

	token, ok := h.startSession(c, user)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Message: "Login successful", User: *user, Token: token})
}

// Logout clears the auth cookie. Bearer tokens simply expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	setAuthCookie(c, "", -1, h.Cfg.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// startSession prepares today's availability for the user, issues a token and
// sets the auth cookie.
func (h *AuthHandler) startSession(c *gin.Context, user *domain.User) (string, bool) {
	if _, err := storage.MaterializeDay(c.Request.Context(), h.DB, user.ID, core.Today(h.Clock)); err != nil {
		customLog.Warnf("Failed to materialize today for user %s: %v", user.ID, err)
		_ = c.Error(err)
		return "", false
	}

	token, err := auth.GenerateJWT(auth.Identity{UserID: user.ID, Email: user.Email}, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", user.ID, err)
		_ = c.Error(err)
		return "", false
	}

	setAuthCookie(c, token, int(h.Cfg.JWTExpiration.Seconds()), h.Cfg.CookieSecure)
	return token, true
}
