package sweep

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	auditapp "tessera/internal/application/audit"
	subapp "tessera/internal/application/subscription"
	"tessera/internal/infrastructure/config"
	"tessera/internal/infrastructure/database"
	"tessera/internal/infrastructure/repository"
	"tessera/internal/shared/db"
	"tessera/internal/shared/logger"
)

var (
	env      string
	once     bool
	interval time.Duration
)

// NewCommand builds the renewal sweep worker command. The sweep advances
// subscription periods that have passed their renewal date and expires
// trials, applying the configured grace window.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run the subscription renewal sweep",
		Long:  `Run the periodic subscription renewal sweep that rolls over billing periods and expires overdue trials.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&once, "once", false, "Run a single sweep and exit")
	cmd.Flags().DurationVar(&interval, "interval", time.Hour, "Time between sweeps")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, env == "development"); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.NewLogger()
	log.Infow("starting renewal sweep worker",
		"environment", env,
		"grace_days", cfg.Billing.RenewalGraceDays,
		"interval", interval.String(),
		"once", once)

	if err := database.Init(&cfg.Database); err != nil {
		log.Fatalw("failed to initialize database", "error", err)
	}
	defer database.Close()

	subRepo := repository.NewSubscriptionRepository(database.Get(), log)
	planRepo := repository.NewPlanRepository(database.Get(), log)
	historyRepo := repository.NewSubscriptionHistoryRepository(database.Get(), log)
	auditRepo := repository.NewAuditLogRepository(database.Get(), log)
	txManager := db.NewTransactionManager(database.Get())

	auditService := auditapp.NewService(auditRepo, log)
	subService := subapp.NewService(subRepo, planRepo, historyRepo, txManager, auditService, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Infow("shutdown signal received")
		cancel()
	}()

	if once {
		return runSweep(ctx, subService, cfg.Billing.RenewalGraceDays, log)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := runSweep(ctx, subService, cfg.Billing.RenewalGraceDays, log); err != nil {
		log.Errorw("sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			log.Infow("renewal sweep worker stopped")
			return nil
		case <-ticker.C:
			if err := runSweep(ctx, subService, cfg.Billing.RenewalGraceDays, log); err != nil {
				log.Errorw("sweep failed", "error", err)
			}
		}
	}
}

func runSweep(ctx context.Context, subService *subapp.Service, graceDays int, log logger.Interface) error {
	start := time.Now()

	processed, err := subService.RenewalSweep(ctx, graceDays)
	if err != nil {
		return err
	}

	log.Infow("sweep completed",
		"processed", processed,
		"duration", time.Since(start).String())
	return nil
}
