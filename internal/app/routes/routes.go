package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polycampus/backend/internal/app/controllers"
	"github.com/polycampus/backend/internal/app/models/dto"
	"github.com/polycampus/backend/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	facultyController *controllers.ContentController,
	routineController *controllers.ContentController,
	noticeController *controllers.ContentController,
	authMiddleware *middleware.AuthMiddleware,
	metricsHandler http.Handler,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public content reads ---
	// The website reads these without a session.
	v1.GET("/faculty", facultyController.List)
	v1.GET("/routine", routineController.List)
	v1.GET("/notices", noticeController.List)

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated Routes Group ---
	// Mutations additionally require the admin capability; the mutation
	// coordinator enforces that, the middleware only resolves the identity.
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		faculty := authenticated.Group("/faculty")
		{
			faculty.POST("", facultyController.Create)
			faculty.PUT("/:id", facultyController.Update)
			faculty.DELETE("/:id", facultyController.Delete)
		}

		routine := authenticated.Group("/routine")
		{
			routine.POST("", routineController.Create)
			routine.PUT("/:id", routineController.Update)
			routine.DELETE("/:id", routineController.Delete)
		}

		notices := authenticated.Group("/notices")
		{
			notices.POST("", noticeController.Create)
			notices.PUT("/:id", noticeController.Update)
			notices.DELETE("/:id", noticeController.Delete)
		}
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.APIResponse{
			Data:      gin.H{"status": "ok"},
			Timestamp: time.Now(),
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(metricsHandler))
}
