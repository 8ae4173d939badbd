package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/poornesh-v09/Milk-Management/api"
	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/cache"
	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/service"
	"github.com/poornesh-v09/Milk-Management/internal/tracing"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	serverPort      int
	gracefulTimeout int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Starts the milk-management API server handling customers, delivery
members, prices, delivery records, attendance and billing reports.

The server respects config.yaml or the --config flag and shuts down
gracefully on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config file)")
	serveCmd.Flags().IntVar(&gracefulTimeout, "graceful-timeout", 10, "Graceful shutdown timeout in seconds")
}

func startServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if serverPort != 0 {
		cfg.Server.Port = serverPort
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	log.Info().Msg("Running database migrations")
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	var redisClient cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis, continuing without caching")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	tracer, err := tracing.NewTracer(cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	gormDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database handle")
	}

	svc := service.NewService(service.Repositories{
		Customers:  repository.NewCustomerRepository(gormDB),
		Members:    repository.NewMemberRepository(gormDB),
		Prices:     repository.NewPriceRepository(gormDB),
		Deliveries: repository.NewDeliveryRepository(gormDB),
		Attendance: repository.NewAttendanceRepository(gormDB),
		Messages:   repository.NewMessageLogRepository(gormDB),
	}, redisClient, tracer, cfg)

	server := api.NewServer(cfg, svc, tracer)
	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(gracefulTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server successfully shutdown")
}
