package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/handler"
	"github.com/studyflow/planner-backend/internal/middleware"
	"github.com/studyflow/planner-backend/internal/response"
	"github.com/studyflow/planner-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Exam    *handler.ExamHandler
	Plan    *handler.PlanHandler
	Session *handler.SessionHandler
	Stats   *handler.StatsHandler
	Setting *handler.SettingHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for login attempts (10 per minute per IP).
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group ─────────────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireJWT(authService), handlers.Auth.Logout)
	}

	// ─── 2. Protected API (JWT + Active Session) ───────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireJWT(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		// Exams
		api.GET("/exams", handlers.Exam.List)
		api.POST("/exams", handlers.Exam.Create)
		api.GET("/exams/:id", handlers.Exam.Get)
		api.PUT("/exams/:id", handlers.Exam.Update)
		api.DELETE("/exams/:id", handlers.Exam.Delete)
		api.GET("/exams/:id/sessions", handlers.Session.ListByExam)

		// Plan
		api.GET("/plan", handlers.Plan.Get)
		api.POST("/plan/regenerate", handlers.Plan.Regenerate)
		api.PUT("/plan/days/:date", handlers.Plan.UpdateDay)
		api.PUT("/plan/days/:date/exams/:exam_id", handlers.Plan.UpdateAssignment)

		// Sessions
		api.POST("/sessions", handlers.Session.Log)
		api.GET("/sessions", handlers.Session.ListRange)

		// Stats
		api.GET("/stats/overview", handlers.Stats.Overview)
		api.GET("/stats/exams/:id", handlers.Stats.ExamStats)

		// Settings
		api.GET("/settings", handlers.Setting.GetAll)
		api.PUT("/settings", handlers.Setting.Update)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(authService))
	{
		ws.GET("/plan/stream", handlers.WS.PlanStream)
	}

	return router
}
