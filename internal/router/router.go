package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/stemsi/resultbook/internal/config"
	"github.com/stemsi/resultbook/internal/handler"
	"github.com/stemsi/resultbook/internal/middleware"
	"github.com/stemsi/resultbook/internal/model"
	"github.com/stemsi/resultbook/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Student     *handler.StudentHandler
	Subject     *handler.SubjectHandler
	Exam        *handler.ExamHandler
	Mark        *handler.MarkHandler
	Report      *handler.ReportHandler
	Setting     *handler.SettingHandler
	QuickResult *handler.QuickResultHandler
	WS          *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	auth middleware.TokenValidator,
	loginLimiter *middleware.RateLimiter,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when set; otherwise allow all for dev.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	authAPI := router.Group("/api/v1/auth")
	{
		authAPI.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		authAPI.GET("/me", middleware.RequireJWT(auth), handlers.Auth.Me)
	}

	// ─── 2. WebSocket Group (token in header or query) ─────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(auth))
	{
		ws.GET("/reports/stream",
			middleware.RequirePermission(model.PermissionReportsRead),
			handlers.WS.ReportStream,
		)
	}

	// ─── 3. Operator API (JWT + RBAC) ──────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(auth), middleware.NoStore())
	{
		students := api.Group("/students")
		{
			students.GET("", middleware.RequirePermission(model.PermissionStudentsRead), handlers.Student.List)
			students.POST("", middleware.RequirePermission(model.PermissionStudentsWrite), handlers.Student.Register)
			students.GET("/classes", middleware.RequirePermission(model.PermissionStudentsRead), handlers.Student.Classes)
			students.GET("/admission-numbers/next", middleware.RequirePermission(model.PermissionStudentsWrite), handlers.Student.NextAdmissionNumber)
			students.GET("/:admission_no", middleware.RequirePermission(model.PermissionStudentsRead), handlers.Student.Get)
		}

		subjects := api.Group("/subjects")
		{
			subjects.GET("", middleware.RequirePermission(model.PermissionSubjectsRead), handlers.Subject.GetAll)
			subjects.POST("", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Create)
			subjects.PUT("/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Update)
			subjects.DELETE("/:id", middleware.RequirePermission(model.PermissionSubjectsWrite), handlers.Subject.Delete)
		}

		exams := api.Group("/exams")
		{
			exams.GET("", middleware.RequirePermission(model.PermissionExamsRead), handlers.Exam.List)
			exams.POST("", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.Create)
			exams.GET("/:id", middleware.RequirePermission(model.PermissionExamsRead), handlers.Exam.Get)
			exams.DELETE("/:id", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.Delete)
			exams.GET("/:id/subjects", middleware.RequirePermission(model.PermissionExamsRead), handlers.Exam.GetSubjects)
			exams.PUT("/:id/subjects", middleware.RequirePermission(model.PermissionExamsWrite), handlers.Exam.ConfigureSubjects)
		}

		marks := api.Group("/marks")
		{
			marks.GET("", middleware.RequirePermission(model.PermissionMarksRead), handlers.Mark.List)
			marks.POST("", middleware.RequirePermission(model.PermissionMarksWrite), handlers.Mark.Record)
		}

		reports := api.Group("/reports")
		reports.Use(middleware.RequirePermission(model.PermissionReportsRead))
		{
			reports.GET("", handlers.Report.Get)
			reports.GET("/export.xlsx", handlers.Report.ExportXLSX)
			reports.POST("/exports", handlers.Report.CreateExport)
			reports.GET("/exports/:id", handlers.Report.ExportStatus)
			reports.GET("/exports/:id/file", handlers.Report.ExportFile)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", middleware.RequirePermission(model.PermissionSettingsRead), handlers.Setting.GetAll)
			settings.PUT("", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Setting.Update)
		}

		quick := api.Group("/quick-results")
		quick.Use(middleware.RequirePermission(model.PermissionQuickResultsWrite))
		{
			quick.GET("", handlers.QuickResult.Search)
			quick.POST("", handlers.QuickResult.Create)
		}
	}

	return router
}
