package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aquamon/cache"
	"aquamon/config"
	"aquamon/controllers"
	"aquamon/middlewares"
)

func main() {
	// Load environment variables
	godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") != "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Connect to PostgreSQL database
	dsn := os.Getenv("DATABASE_URL")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	// Set the global DB in the config package and migrate models
	config.DB = db
	controllers.MigrateModels(db)

	// Load threshold envelopes into the in-memory table, seeding defaults
	if err := config.InitThresholdTable(db); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize threshold table")
	}

	// Optional summary cache
	config.Summaries = cache.New(os.Getenv("REDIS_ADDR"))
	if config.Summaries != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := config.Summaries.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("summary cache unreachable, continuing without it")
		}
		cancel()
		defer config.Summaries.Close()
	}

	// Trim history to the bounded window in the background; the views
	// only ever read the most recent N records anyway.
	scheduler := cron.New()
	scheduler.AddFunc("@every 10m", func() {
		res := db.Exec(
			`DELETE FROM sensor_readings WHERE id NOT IN
			 (SELECT id FROM sensor_readings ORDER BY timestamp DESC LIMIT ?)`,
			config.HistoryWindow(),
		)
		if res.Error != nil {
			log.Error().Err(res.Error).Msg("history retention failed")
		} else if res.RowsAffected > 0 {
			log.Info().Int64("evicted", res.RowsAffected).Msg("trimmed history window")
		}
	})
	scheduler.Start()
	defer scheduler.Stop()

	// Set up Gin router with CORS configuration
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middlewares.LatencyMetrics())

	// Public routes
	r.GET("/healthz", func(c *gin.Context) { c.JSON(200, gin.H{"state": "healthy"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/signup", controllers.Signup)
	r.POST("/login", controllers.Login)
	r.POST("/guest", controllers.GuestLogin)

	// Protected routes using auth middleware
	auth := r.Group("/")
	auth.Use(middlewares.AuthMiddleware())
	auth.GET("/ws", controllers.HandleWebSocket)
	auth.GET("/profile", controllers.GetProfile)
	auth.POST("/sensor-data", controllers.ReceiveData)
	auth.GET("/sensors/latest", controllers.GetLatest)
	auth.GET("/chart/:parameter", controllers.GetChart)
	auth.GET("/thresholds", controllers.GetThresholds)
	auth.PUT("/thresholds/:parameter", controllers.UpdateThreshold)
	auth.POST("/system", controllers.UpdateSystemStatus)
	auth.GET("/system", controllers.GetSystemStatus)

	// History, analytics and account management are closed to guests
	users := auth.Group("/")
	users.Use(middlewares.BlockGuests())
	users.GET("/history", controllers.GetHistory)
	users.GET("/history/dates", controllers.GetHistoryDates)
	users.GET("/history/summary", controllers.GetSummary)
	users.GET("/abnormal-count", controllers.GetAbnormalCount)
	users.GET("/abnormal-history", controllers.GetAbnormalHistory)
	users.GET("/download-csv", controllers.DownloadCSV)
	users.GET("/users", controllers.GetUsers)
	users.POST("/promote-admin", controllers.PromoteToAdmin)
	users.POST("/promote-user", controllers.PromoteToUser)
	users.PUT("/update/:id", controllers.UpdateRecord)
	users.DELETE("/delete/all", controllers.DeleteAllRecords)
	users.DELETE("/delete/:id", controllers.DeleteRecord)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info().Str("port", port).Msg("listening")
	r.Run(":" + port)
}
