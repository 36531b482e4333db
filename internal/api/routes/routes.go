package routes

import (
	"context"
	"fmt"
	"net/http"

	"talentbase-backend/internal/api/handlers"
	"talentbase-backend/internal/api/middleware"
	"talentbase-backend/internal/api/templates"
	"talentbase-backend/internal/auth"
	"talentbase-backend/internal/blob"
	"talentbase-backend/internal/config"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/repository"
	"talentbase-backend/internal/roster"
	"talentbase-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// SetupRoutes wires repositories, services and handlers and configures all routes
func SetupRoutes(ctx context.Context, db *gorm.DB, cfg *config.Config, blobStore blob.Store) (*gin.Engine, error) {
	// Create router
	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(metrics.Handler())

	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load console templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	// Initialize validator
	validator := service.NewValidator()

	// Initialize repositories
	playerRepo := repository.NewPlayerRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	userRepo := repository.NewUserRepository(db)

	// Initialize services
	playerService := service.NewPlayerService(playerRepo, teamRepo, validator)
	teamService := service.NewTeamService(teamRepo, validator)
	storageService := service.NewStorageService(blobStore)
	rosterService := service.NewRosterService(playerService, teamService)

	// Initialize auth configuration and services
	authService, err := auth.NewAuthService(auth.NewAuthConfig(cfg), userRepo)
	if err != nil {
		return nil, err
	}
	authorizer := auth.NewAuthorizer(cfg.AdminEmail)
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService, authorizer)

	// Console core
	store := roster.NewStore(rosterService)
	if err := store.Reload(ctx); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("Initial roster load failed; consoles start empty")
	}
	sessions := roster.NewSessions(store, rosterService, storageService, authorizer)
	sessions.Attach(authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, string(blobStore.Driver()))
	playerHandler := handlers.NewPlayerHandler(playerService, storageService, store, cfg.MaxUploadBytes())
	teamHandler := handlers.NewTeamHandler(teamService, storageService, store, cfg.MaxUploadBytes())
	consoleHandler := handlers.NewConsoleHandler(sessions, authService, authHandler, cfg.AdminEmail, cfg.MaxUploadBytes())
	blobHandler := handlers.NewBlobHandler(blobStore)

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Ops
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	if blobStore.Driver() == blob.DriverMemory {
		router.GET("/blobs/*key", blobHandler.Serve)
	}

	// Auth routes
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/signin", authHandler.SignIn)
		authGroup.POST("/signout", authMiddleware.RequireAuth(), authHandler.SignOut)
		authGroup.GET("/me", authMiddleware.RequireAuth(), authHandler.Me(authorizer))
	}

	// API v1 routes - All endpoints require authentication, mutations require admin
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	admin := authMiddleware.RequireAdmin()
	{
		players := v1.Group("/players")
		{
			players.GET("", playerHandler.ListPlayers)
			players.POST("", admin, playerHandler.CreatePlayer)
			players.GET("/:id", playerHandler.GetPlayer)
			players.PUT("/:id", admin, playerHandler.UpdatePlayer)
			players.DELETE("/:id", admin, playerHandler.DeletePlayer)
			players.POST("/:id/photo", admin, playerHandler.UploadPhoto)
		}

		teams := v1.Group("/teams")
		{
			teams.GET("", teamHandler.ListTeams)
			teams.POST("", admin, teamHandler.CreateTeam)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.PUT("/:id", admin, teamHandler.UpdateTeam)
			teams.DELETE("/:id", admin, teamHandler.DeleteTeam)
			teams.POST("/:id/logo", admin, teamHandler.UploadLogo)
		}
	}

	// Console routes - the console enforces the admin rule itself
	console := router.Group("/console")
	console.Use(authMiddleware.OptionalAuth())
	{
		console.GET("", consoleHandler.Show)
		console.POST("/signin", consoleHandler.SignIn)
		console.POST("/signup", consoleHandler.SignUp)
		console.POST("/signout", consoleHandler.SignOut)
		console.POST("/refresh", consoleHandler.Refresh)
		console.POST("/filter", consoleHandler.Filter)
		console.POST("/theme", consoleHandler.Theme)
		console.POST("/clear", consoleHandler.Clear)

		console.POST("/players/new", consoleHandler.NewPlayer)
		console.POST("/players/save", consoleHandler.SavePlayer)
		console.POST("/players/cancel", consoleHandler.CancelPlayer)
		console.GET("/players/:id", consoleHandler.ShowPlayer)
		console.POST("/players/:id/edit", consoleHandler.EditPlayer)
		console.POST("/players/:id/delete", consoleHandler.DeletePlayer)

		console.POST("/teams/new", consoleHandler.NewTeam)
		console.POST("/teams/save", consoleHandler.SaveTeam)
		console.POST("/teams/cancel", consoleHandler.CancelTeam)
		console.GET("/teams/:id", consoleHandler.ShowTeam)
		console.POST("/teams/:id/edit", consoleHandler.EditTeam)
		console.POST("/teams/:id/delete", consoleHandler.DeleteTeam)

		console.POST("/delete/confirm", consoleHandler.ConfirmDelete)
		console.POST("/delete/cancel", consoleHandler.CancelDelete)
	}
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/console") })

	return router, nil
}
