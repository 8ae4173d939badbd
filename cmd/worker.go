package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/poornesh-v09/Milk-Management/config"
	"github.com/poornesh-v09/Milk-Management/internal/cache"
	"github.com/poornesh-v09/Milk-Management/internal/database"
	"github.com/poornesh-v09/Milk-Management/internal/repository"
	"github.com/poornesh-v09/Milk-Management/internal/service"
	"github.com/poornesh-v09/Milk-Management/internal/tracing"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// workerCmd represents the worker command
var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start the background worker",
	Long:  `Start the background worker that re-drives bill notifications stuck in Pending.`,
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.AutoMigrate(db); err != nil {
		return err
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
		return err
	}

	gormDB, err := db.DB()
	if err != nil {
		return err
	}

	svc := service.NewService(service.Repositories{
		Customers:  repository.NewCustomerRepository(gormDB),
		Members:    repository.NewMemberRepository(gormDB),
		Prices:     repository.NewPriceRepository(gormDB),
		Deliveries: repository.NewDeliveryRepository(gormDB),
		Attendance: repository.NewAttendanceRepository(gormDB),
		Messages:   repository.NewMessageLogRepository(gormDB),
	}, redisClient, tracer, cfg)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Dur("interval", cfg.Worker.RedriveInterval).
			Msg("Starting pending-message redrive job")

		scheduler, err := gocron.NewScheduler()
		if err != nil {
			return err
		}

		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Worker.RedriveInterval),
			gocron.NewTask(func() {
				processed, err := svc.DispatchPendingMessages(ctx)
				if err != nil {
					log.Error().Err(err).Msg("Failed to re-drive pending messages")
					return
				}
				if processed > 0 {
					log.Info().Int("processed", processed).Msg("Re-drove pending messages")
				}
			}),
		)
		if err != nil {
			return err
		}

		scheduler.Start()
		<-ctx.Done()
		return scheduler.Shutdown()
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Worker error")
		return err
	}

	log.Info().Msg("Worker shutting down gracefully")
	return nil
}
