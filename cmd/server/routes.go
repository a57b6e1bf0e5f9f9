package main

import (
	"github.com/aadilm/taskboard/backend/internal/handlers"
	"github.com/aadilm/taskboard/backend/internal/middleware"
	"github.com/aadilm/taskboard/backend/internal/models"
	"github.com/aadilm/taskboard/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	// Health check
	healthHandler := handlers.NewHealthHandler()
	r.GET("/health", healthHandler.CheckHealth)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)

			// Projects
			projectHandler := handlers.NewProjectHandler(models.GetDB())
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/available", projectHandler.ListAvailable)
			protected.POST("/projects", projectHandler.Create)
			protected.DELETE("/projects/:id", projectHandler.Delete)
			protected.GET("/projects/:id/members", projectHandler.Members)
			protected.POST("/projects/:id/members", projectHandler.AddMembers)

			// Statuses
			statusHandler := handlers.NewStatusHandler(models.GetDB())
			protected.GET("/projects/:id/statuses", statusHandler.ListByProject)
			protected.POST("/statuses", statusHandler.Create)
			protected.PUT("/statuses/:id", statusHandler.Update)
			protected.DELETE("/statuses/:id", statusHandler.Delete)

			// Tasks and the kanban board
			taskHandler := handlers.NewTaskHandler(models.GetDB())
			protected.GET("/projects/:id/tasks", taskHandler.ListByProject)
			protected.GET("/projects/:id/board", taskHandler.Board)
			protected.POST("/tasks", taskHandler.Create)
			protected.PUT("/tasks/:id", taskHandler.Update)
			protected.PUT("/tasks/:id/move", taskHandler.Move)
			protected.DELETE("/tasks/:id", taskHandler.Delete)
			protected.POST("/tasks/:id/comments", taskHandler.AddComment)
			protected.GET("/tasks/:id/comments", taskHandler.ListComments)

			// Access requests
			accessRequestHandler := handlers.NewAccessRequestHandler(models.GetDB())
			protected.POST("/access-requests", accessRequestHandler.Submit)
			protected.GET("/access-requests/pending", accessRequestHandler.ListPending)
			protected.GET("/access-requests/mine", accessRequestHandler.ListMine)
			protected.POST("/access-requests/:id/resolve", accessRequestHandler.Resolve)

			// Notifications
			notificationHandler := handlers.NewNotificationHandler(models.GetDB())
			protected.GET("/notifications", notificationHandler.List)
			protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
			protected.POST("/notifications/:id/read", notificationHandler.MarkRead)
			protected.POST("/notifications/mark-all-read", notificationHandler.MarkAllRead)
		}

		// Admin only routes
		admin := api.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired(), middleware.AuditLog())
		{
			// Users
			userHandler := handlers.NewUserHandler(models.GetDB())
			admin.GET("/users", userHandler.List)
			admin.PUT("/users/:id", userHandler.Update)
			admin.DELETE("/users/:id", userHandler.Delete)

			// System logs
			systemLogHandler := handlers.NewSystemLogHandler(models.GetDB())
			admin.GET("/logs", systemLogHandler.List)
			admin.GET("/logs/modules", systemLogHandler.GetModules)

			// System config
			systemConfigHandler := handlers.NewSystemConfigHandler(models.GetDB())
			admin.GET("/config/email", systemConfigHandler.GetEmailConfig)
			admin.PUT("/config/email", systemConfigHandler.UpdateEmailConfig)
			admin.GET("/config/retention", systemConfigHandler.GetRetentionConfig)
			admin.PUT("/config/retention", systemConfigHandler.UpdateRetentionConfig)
		}
	}
}
