package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/mtarnawa/finbook/internal/ai"
	"github.com/mtarnawa/finbook/internal/config"
	"github.com/mtarnawa/finbook/internal/database"
	"github.com/mtarnawa/finbook/internal/logger"
	"github.com/mtarnawa/finbook/internal/notify"
	"github.com/mtarnawa/finbook/internal/reminder"
	"github.com/mtarnawa/finbook/internal/report"
	"github.com/mtarnawa/finbook/internal/repository"
	"github.com/mtarnawa/finbook/internal/scheduler"
	"github.com/mtarnawa/finbook/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	if err := logger.Init(cfg.DevMode, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	zlog.Info("connected to database")

	applied, err := db.Migrate(ctx)
	if err != nil {
		zlog.Fatal("failed to run migrations", zap.Error(err))
	}
	zlog.Info("database migrations completed", zap.Strings("applied", applied))

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	// Optional Telegram forwarding for alerts
	var tgAPI *tgbotapi.BotAPI
	if cfg.TelegramToken != "" {
		tgAPI, err = tgbotapi.NewBotAPI(cfg.TelegramToken)
		if err != nil {
			zlog.Warn("telegram disabled, failed to create bot api", zap.Error(err))
			tgAPI = nil
		} else {
			zlog.Info("telegram alert forwarding enabled")
		}
	}

	// Optional AI narrative for reports
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		zlog.Info("ai client initialized", zap.String("model", cfg.AIModel))
	}

	sink := notify.NewSink(alertRepo, userRepo, tgAPI, zlog)
	evaluator := reminder.NewEvaluator(sink, zlog)
	engine := reminder.NewEngine(reminderRepo, evaluator, zlog)
	lifecycle := reminder.NewLifecycle(zlog)
	reports := report.NewService(transactionRepo, aiClient, zlog)

	sched := scheduler.New(reminderRepo, evaluator, cfg.SweepInterval, cfg.SweepConcurrency, zlog)
	go sched.Start(ctx)

	srv := server.New(cfg, server.Deps{
		Users:        userRepo,
		Categories:   categoryRepo,
		Transactions: transactionRepo,
		Reminders:    reminderRepo,
		Alerts:       alertRepo,
		Lifecycle:    lifecycle,
		Engine:       engine,
		Reports:      reports,
		Scheduler:    sched,
	}, zlog)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		zlog.Info("shutting down")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		zlog.Fatal("http server error", zap.Error(err))
	}
}
