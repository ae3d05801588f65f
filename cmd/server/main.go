package main

import (
	"log"
	"math/rand"
	"time"

	_ "github.com/arushsrivastava/HectoClash-Game/docs"
	"github.com/arushsrivastava/HectoClash-Game/internal/config"
	"github.com/arushsrivastava/HectoClash-Game/internal/database"
	"github.com/arushsrivastava/HectoClash-Game/internal/game"
	"github.com/arushsrivastava/HectoClash-Game/internal/handlers"
	"github.com/arushsrivastava/HectoClash-Game/internal/hectoc"
	"github.com/arushsrivastava/HectoClash-Game/internal/middleware"
	"github.com/arushsrivastava/HectoClash-Game/internal/rating"
	"github.com/arushsrivastava/HectoClash-Game/internal/services"
	"github.com/arushsrivastava/HectoClash-Game/internal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           HectoClash API
// @version         1.0
// @description     Competitive mathematical duels: matchmaking, live sessions, ratings
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	hub := ws.NewHub()
	provider := hectoc.NewProvider(
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.CuratedProbability,
	)

	authService := services.NewAuthService(db, cfg.JWTSecret)
	profileService := services.NewProfileService(db)
	resultService := services.NewResultService(db)

	queueCfg := game.QueueConfig{
		BaseWindow:    cfg.RatingWindowBase,
		WindowGrowth:  cfg.RatingWindowGrowth,
		GrowthEvery:   5 * time.Second,
		SweepInterval: cfg.QueueSweepInterval,
	}
	sessionCfg := game.SessionConfig{
		RoundLimit:   cfg.RoundLimit,
		BreakPause:   cfg.BreakPause,
		SessionLimit: cfg.SessionLimit,
		WinThreshold: cfg.WinThreshold,
		RatingK:      rating.DefaultK,
	}
	registry := game.NewRegistry(queueCfg, sessionCfg, provider, resultService, hub)
	registry.Start()
	defer registry.Stop()

	authHandler := handlers.NewAuthHandler(authService)
	lobbyHandler := handlers.NewLobbyHandler(profileService, registry)
	wsHandler := handlers.NewWSHandler(registry, authService, profileService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/ws/play", wsHandler.HandlePlay)

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/guest", authHandler.Guest)
		}

		api.GET("/leaderboard", lobbyHandler.Leaderboard)
		api.GET("/sessions/active", lobbyHandler.ActiveSessions)
		api.GET("/users/:id", lobbyHandler.GetProfile)
		api.GET("/users/:id/history", middleware.JWTAuth(authService), lobbyHandler.GetHistory)
		api.GET("/matches/:session_id", lobbyHandler.GetMatch)
	}

	log.Printf("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
