// api/router.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Annany2002/habitgrid-backend/api/handlers"
	"github.com/Annany2002/habitgrid-backend/api/middleware"
	"github.com/Annany2002/habitgrid-backend/config"
	"github.com/Annany2002/habitgrid-backend/internal/core"
	"github.com/Annany2002/habitgrid-backend/internal/logger"
	"github.com/Annany2002/habitgrid-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// SetupRouter initializes the Gin router and sets up all routes.
func SetupRouter(db *storage.DB, cfg *config.Config, clock core.Clock) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Runs after Recovery/logging and wraps every handler below.
	router.Use(middleware.ErrorHandler())

	authHandler := handlers.NewAuthHandler(db, cfg, clock)
	userHandler := handlers.NewUserHandler(db)
	habitHandler := handlers.NewHabitHandler(db, clock)
	dayHandler := handlers.NewDayHandler(db, clock)
	summaryHandler := handlers.NewSummaryHandler(db, clock)

	// --- Public Routes ---
	router.GET("/ping", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			customLog.Warnf("DB Ping error during /ping request: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "pong, but DB connection error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter(cfg.AuthRateLimit, time.Minute)))
	{
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// --- Protected Routes ---
	apiRoutes := router.Group("/api/v1")
	apiRoutes.Use(middleware.AuthMiddleware(db, cfg))
	{
		apiRoutes.GET("/me", userHandler.GetMe)
		apiRoutes.PATCH("/me", userHandler.UpdateMe)
		apiRoutes.PUT("/me/view-mode", userHandler.UpdateViewMode)

		apiRoutes.GET("/habits", habitHandler.ListHabits)
		apiRoutes.POST("/habits", habitHandler.CreateHabit)
		apiRoutes.DELETE("/habits/:id", habitHandler.DeleteHabit)
		apiRoutes.PATCH("/habits/:id/toggle", habitHandler.ToggleHabit)

		apiRoutes.GET("/day", dayHandler.GetDay)

		apiRoutes.GET("/summary", summaryHandler.GetSummary)
		apiRoutes.GET("/summary/calendar", summaryHandler.GetCalendar)

		apiRoutes.POST("/maintenance/sync-availability", summaryHandler.SyncAvailability)
	}

	return router
}
