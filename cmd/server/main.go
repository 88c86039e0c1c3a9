package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/codebuildervaibhav/audio-intelligence/internal/assemblyai"
	"github.com/codebuildervaibhav/audio-intelligence/internal/cleanup"
	"github.com/codebuildervaibhav/audio-intelligence/internal/config"
	"github.com/codebuildervaibhav/audio-intelligence/internal/handlers"
	"github.com/codebuildervaibhav/audio-intelligence/internal/middleware"
	"github.com/codebuildervaibhav/audio-intelligence/internal/queue"
	"github.com/codebuildervaibhav/audio-intelligence/internal/report"
	"github.com/codebuildervaibhav/audio-intelligence/internal/session"
	"github.com/codebuildervaibhav/audio-intelligence/internal/storage"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := config.NewLogger(config.LogConfig{}, nil)
		bootLog.WithError(err).Fatal("Failed to load config")
	}

	logBuffer := handlers.NewLogBuffer(1000)
	log := config.NewLogger(cfg.Log, io.MultiWriter(os.Stdout, logBuffer))
	log.Info("Initializing components...")

	tmp, err := storage.NewTempAudio(cfg.Storage.TempDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to create temp directory")
	}

	db, err := storage.NewSessionDB(cfg.Storage.Database)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	sessions := session.NewManager(db, log)

	drive, err := storage.NewDriveSource(context.Background(), cfg.GoogleDrive.CredentialsFile, cfg.GoogleDrive.TokenFile, log)
	if err != nil {
		log.WithError(err).Warn("Google Drive API not available, public links only")
		drive = storage.NewPublicDriveSource(log)
	}

	client := assemblyai.NewClient(cfg.AssemblyAI.BaseURL,
		assemblyai.WithPollInterval(cfg.PollInterval()),
		assemblyai.WithMaxPollAttempts(cfg.AssemblyAI.MaxPollAttempts),
		assemblyai.WithLogger(log),
	)
	if cfg.AssemblyAI.APIKey == "" {
		log.Warn("No default API key configured, callers must send " + handlers.CredentialHeader)
	}

	workerPool := queue.NewWorkerPool(cfg.Workers.Count, cfg.Workers.QueueSize, client, tmp, cfg.Transform, log)
	workerPool.Start()

	cleanupScheduler := cleanup.NewScheduler(cleanup.Config{
		TempDir:       cfg.Storage.TempDir,
		Interval:      time.Duration(cfg.Cleanup.IntervalMinutes) * time.Minute,
		MaxFileAge:    time.Duration(cfg.Cleanup.MaxAgeHours) * time.Hour,
		SessionIdle:   time.Duration(cfg.Cleanup.SessionIdleMinutes) * time.Minute,
		SessionRetain: time.Duration(cfg.Cleanup.SessionRetainDays) * 24 * time.Hour,
	}, sessions, db, log)
	cleanupScheduler.Start()
	defer cleanupScheduler.Stop()

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.MaxUploadBytes(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + handlers.CredentialHeader,
	}))

	routes := &handlers.Routes{
		Sessions: sessions,
		Session:  handlers.NewSessionHandler(sessions, log),
		Submit:   handlers.NewSubmitHandler(sessions, workerPool, tmp, drive, cfg.AssemblyAI.APIKey, cfg.Limits.MaxFileSizeMB, log),
		Report:   handlers.NewReportHandler(sessions, report.NewExporter(time.Duration(cfg.Report.TimeoutSeconds)*time.Second, log), log),
		Events:   handlers.NewEventsHandler(30*time.Second, log),
		Logs:     logBuffer,
		Logger:   log,
	}
	routes.Register(app)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			log.WithError(err).Warn("Server shutdown failed")
		}
	}()

	log.WithField("addr", cfg.Addr()).Info("Server starting")
	if err := app.Listen(cfg.Addr()); err != nil {
		log.WithError(err).Error("Server failed")
	}

	workerPool.Stop()
}
