package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/asyncscrum/scrum-platform/internal/config"
	"github.com/asyncscrum/scrum-platform/internal/database"
	"github.com/asyncscrum/scrum-platform/internal/handlers"
	"github.com/asyncscrum/scrum-platform/internal/middleware"
	"github.com/asyncscrum/scrum-platform/internal/models"
	"github.com/asyncscrum/scrum-platform/internal/services"
)

func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(origin string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":       "ok",
			"db_connected": database.GetDB() != nil,
		})
	})

	// Initialize services
	db := database.GetDB()
	authService := services.NewAuthService(cfg)
	emailService := services.NewEmailService(cfg)
	statusService := services.NewStatusService(db)
	cascadeService := services.NewCascadeService(db)
	inviteService := services.NewInviteService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(authService)
	teamHandler := handlers.NewTeamHandler(inviteService, cascadeService, emailService)
	projectHandler := handlers.NewProjectHandler(cascadeService)
	ceremonyHandler := handlers.NewCeremonyHandler(cascadeService)
	promptHandler := handlers.NewPromptHandler(cascadeService)
	responseHandler := handlers.NewResponseHandler(statusService, cascadeService, emailService, authService)
	dashboardHandler := handlers.NewDashboardHandler()

	// API routes
	api := router.Group("/api")

	// Middleware to check database readiness
	api.Use(func(c *gin.Context) {
		if database.GetDB() == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"error": "Service initializing, please try again shortly",
			})
			return
		}
		c.Next()
	})

	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)

			// Protected auth routes
			authProtected := auth.Group("")
			authProtected.Use(middleware.AuthMiddleware(authService))
			{
				authProtected.GET("/me", authHandler.GetCurrentUser)
				authProtected.PUT("/profile", authHandler.UpdateProfile)
				authProtected.POST("/change-password", authHandler.ChangePassword)
			}
		}

		// User routes
		users := api.Group("/users")
		users.Use(middleware.AuthMiddleware(authService))
		{
			users.GET("", middleware.RequireScrumMaster(), userHandler.ListUsers)
			users.POST("", middleware.RequireAdmin(), userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", middleware.RequireAdmin(), userHandler.DeleteUser)
		}

		// Team routes
		teams := api.Group("/teams")
		teams.Use(middleware.AuthMiddleware(authService))
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", middleware.RequireScrumMaster(), teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", middleware.RequireScrumMaster(), teamHandler.UpdateTeam)
			teams.DELETE("/:id", middleware.RequireScrumMaster(), teamHandler.DeleteTeam)

			teams.GET("/:id/members", teamHandler.ListMembers)
			teams.POST("/:id/members", middleware.RequireScrumMaster(), teamHandler.InviteMember)
			teams.PUT("/:id/members/:userId", middleware.RequireScrumMaster(), teamHandler.UpdateMember)
			teams.DELETE("/:id/members/:userId", middleware.RequireScrumMaster(), teamHandler.RemoveMember)
		}

		// Project routes
		projects := api.Group("/projects")
		projects.Use(middleware.AuthMiddleware(authService))
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", middleware.RequireScrumMaster(), projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PUT("/:id", middleware.RequireScrumMaster(), projectHandler.UpdateProject)
			projects.DELETE("/:id", middleware.RequireScrumMaster(), projectHandler.DeleteProject)
			projects.PUT("/:id/teams", middleware.RequireScrumMaster(), projectHandler.AssignTeams)
		}

		// Ceremony routes
		ceremonies := api.Group("/ceremonies")
		ceremonies.Use(middleware.AuthMiddleware(authService))
		{
			ceremonies.GET("", ceremonyHandler.ListCeremonies)
			ceremonies.POST("", middleware.RequireScrumMaster(), ceremonyHandler.CreateCeremony)
			ceremonies.GET("/:id", ceremonyHandler.GetCeremony)
			ceremonies.PUT("/:id", middleware.RequireScrumMaster(), ceremonyHandler.UpdateCeremony)
			ceremonies.DELETE("/:id", middleware.RequireScrumMaster(), ceremonyHandler.DeleteCeremony)
		}

		// Prompt routes
		prompts := api.Group("/prompts")
		prompts.Use(middleware.AuthMiddleware(authService))
		{
			prompts.GET("", promptHandler.ListPrompts)
			prompts.POST("", middleware.RequireScrumMaster(), promptHandler.CreatePrompt)
			prompts.GET("/:id", promptHandler.GetPrompt)
			prompts.PUT("/:id", middleware.RequireScrumMaster(), promptHandler.UpdatePrompt)
			prompts.DELETE("/:id", middleware.RequireScrumMaster(), promptHandler.DeletePrompt)
		}

		// Response routes
		responses := api.Group("/responses")
		responses.Use(middleware.AuthMiddleware(authService))
		{
			responses.POST("", responseHandler.SubmitResponse)
			responses.GET("", responseHandler.ListResponses)
			responses.GET("/:id", responseHandler.GetResponse)
			responses.DELETE("/:id", responseHandler.DeleteResponse)

			responses.GET("/:id/feedback", responseHandler.ListFeedback)
			responses.POST("/:id/feedback", middleware.RequireScrumMaster(), responseHandler.CreateFeedback)
		}

		// Feedback routes
		feedback := api.Group("/feedback")
		feedback.Use(middleware.AuthMiddleware(authService))
		{
			feedback.PUT("/:id", responseHandler.UpdateFeedback)
			feedback.DELETE("/:id", responseHandler.DeleteFeedback)
		}

		// Dashboard routes
		dashboard := api.Group("/dashboard")
		dashboard.Use(middleware.AuthMiddleware(authService))
		{
			dashboard.GET("/stats", dashboardHandler.GetStats)
		}
	}

	return router
}

// SeedAdminUser creates a default admin user if none exists
func SeedAdminUser(cfg *config.Config, authService *services.AuthService) error {
	if _, err := authService.GetUserByEmail(cfg.AdminEmail); err == nil {
		return nil // Admin exists
	}

	_, err := authService.Register(
		"Admin",
		cfg.AdminEmail,
		cfg.AdminPassword, // Default password, change after first login
		models.RoleAdmin,
	)
	return err
}
