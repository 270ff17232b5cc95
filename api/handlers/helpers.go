// api/handlers/helpers.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Annany2002/habitgrid-backend/api/middleware"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// bindJSON binds the request body into dst. Malformed JSON is reported as a
// validation error so the error middleware answers 400.
func bindJSON(c *gin.Context, dst any, op string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		customLog.Warnf("%s binding error: %v", op, err)
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			err = fmt.Errorf("%w: invalid request body", core.ErrValidation)
		}
		_ = c.Error(err)
		return false
	}
	return true
}

// currentUserID returns the authenticated user set by AuthMiddleware.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}

func setAuthCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, token, maxAge, "/", "", secure, true)
}
