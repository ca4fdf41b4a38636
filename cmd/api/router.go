package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupBookRoutes(v1, c)
		setupBorrowingRoutes(v1, c)
		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
	}
}

// ========================================
// USER ROUTES
// ========================================
func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetProfile)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	books := v1.Group("/books")
	books.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		// non-staff get 403 from the service, not the middleware
		books.POST("", c.BookHandler.CreateBook)

		staff := books.Group("")
		staff.Use(middleware.StaffMiddleware())
		{
			staff.PUT("/:id", c.BookHandler.UpdateBook)
			staff.DELETE("/:id", c.BookHandler.DeleteBook)
			staff.PUT("/:id/cover", c.BookHandler.UploadCover)
		}
	}
}

// ========================================
// BORROWING ROUTES
// ========================================
func setupBorrowingRoutes(v1 *gin.RouterGroup, c *container.Container) {
	borrowings := v1.Group("/borrowings")
	borrowings.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		borrowings.GET("", c.BorrowingHandler.ListBorrowings)
		borrowings.POST("", c.BorrowingHandler.CreateBorrowing)
		borrowings.GET("/:id", c.BorrowingHandler.GetBorrowing)
		borrowings.PUT("/:id", c.BorrowingHandler.UpdateBorrowing)
		// DELETE processes a return; staff remove records under /admin
		borrowings.DELETE("/:id", c.BorrowingHandler.ReturnBorrowing)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.StaffMiddleware(),
	)
	{
		admin.PUT("/users/:id/staff", c.UserHandler.UpdateStaff)

		admin.GET("/books/export", c.BookHandler.ExportBooks)
		admin.POST("/books/import", c.BulkImportHandler.ImportBooks)

		admin.DELETE("/borrowings/:id", c.BorrowingHandler.DeleteBorrowing)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.Ping(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.HealthCheck(c.Request.Context()); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if appCtx.DB != nil {
			if stats, err := appCtx.DB.Stats(); err == nil {
				health["database_pool"] = stats
			}
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
