package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/api"
	"wishbot/internal/bot"
	"wishbot/internal/config"
	"wishbot/internal/database"
	"wishbot/internal/events"
	"wishbot/internal/filter"
	"wishbot/internal/logging"
	"wishbot/internal/metrics"
	"wishbot/internal/notify"
	"wishbot/internal/repository"
	"wishbot/internal/service"
	"wishbot/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the bot, the reminder scheduler and the ops HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.logger.Warn().Err(err).Msg("Shutdown cleanup failed")
		}
	}()
	cfg, logger := a.cfg, a.logger

	sender, err := a.telegram()
	if err != nil {
		return err
	}

	// change notices go through the queue; reminders are sent inline so the
	// scheduler can count failures
	gateway := notify.NewTelegramGateway(sender, cfg.Notifications.SendRPS, cfg.Notifications.SendRetries, logging.Component(logger, "gateway"))
	delivery := worker.NewDeliveryWorker(gateway, a.redis, 0, logger)

	bus := events.NewEventBus()
	notify.NewDispatcher(a.db, delivery, logger).Subscribe(bus)

	engine := access.NewEngine(a.db, a.counter(), cfg.Access, logging.Component(logger, "access"))
	users := service.NewUserService(a.db, logger)
	categories := service.NewCategoryService(a.db, engine, bus, cfg.Limits, logger)
	items := service.NewItemService(a.db, engine, filter.NewEngine(a.db, logger), bus, cfg.Limits, logger)
	state := service.NewStateService(a.stateRepository(), logger)

	metrics.Register()
	telegramBot := bot.NewBot(
		service.NewTelegramService(sender), cfg, state,
		users, categories, items,
		bot.NewMetrics(prometheus.DefaultRegisterer), logger,
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		delivery.Start(gctx)
		return nil
	})

	if cfg.Notifications.Disabled {
		logger.Info().Msg("Reminders are disabled")
	} else {
		scheduler := notify.NewScheduler(notify.NewPlanner(a.db, cfg.Notifications), gateway, a.lease(), cfg.Notifications, logger)
		g.Go(func() error { return scheduler.Run(gctx) })
	}

	if cfg.Backup.Enabled && cfg.Database.Driver == config.DriverSQLite {
		backups := database.NewBackupService(a.db, cfg.Backup, logging.Component(logger, "backup"))
		g.Go(func() error {
			backups.Start(gctx)
			return nil
		})
	}

	if cfg.API.Enabled {
		server := api.NewHTTPServer(cfg.API, users, items, a.readinessChecks(), logger)
		g.Go(server.Start)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	g.Go(func() error {
		logger.Info().Msg("Бот запущен...")
		err := telegramBot.Start(gctx)
		// the other workers stop with the bot
		stop()
		return err
	})

	err = g.Wait()
	logger.Info().Msg("Shutdown complete.")
	return err
}

func (a *app) readinessChecks() map[string]api.Check {
	checks := map[string]api.Check{"database": a.db.Ping}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return repository.Ping(ctx, a.redis) }
	}
	return checks
}
