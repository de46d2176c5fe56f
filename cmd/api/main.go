package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"hrscreening/resume-screener/internal/config"
	"hrscreening/resume-screener/internal/handlers"
	"hrscreening/resume-screener/internal/logger"
	"hrscreening/resume-screener/internal/repositories"
	"hrscreening/resume-screener/internal/services"
	"hrscreening/resume-screener/internal/validation"
)

func main() {
	cfg := config.Load()

	zapLog, err := logger.New(cfg.Server.Env != "development", cfg.Server.Env == "development")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLog.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		zapLog.Fatal("failed to initialize database", zap.Error(err))
	}
	zapLog.Info("database connected")

	submissionRepo := repositories.NewSubmissionRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zapLog.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewTextExtractorService(zapLog)
	scorer := services.NewScorerService(cfg.Job.Description, cfg.Job.Threshold)

	// Without an API key the chat endpoint degrades to a descriptive reply
	// and scoring stays on the keyword path.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, zapLog)
		if err != nil {
			zapLog.Fatal("failed to initialize gemini client", zap.Error(err))
		}
		zapLog.Info("gemini client initialized", zap.String("model", cfg.Gemini.Model))
	}

	var aiScorer services.AIScorerService
	if cfg.Job.ScoringMode == "gemini" && geminiService != nil {
		aiScorer = services.NewAIScorerService(
			geminiService,
			cfg.Job.Description,
			cfg.Job.Threshold,
			cfg.Gemini.RetryMaxAttempts,
			zapLog,
		)
		zapLog.Info("scoring delegated to gemini")
	}

	sheetLogger := services.NewSheetLoggerService(
		cfg.Sheets.SpreadsheetID,
		cfg.Sheets.CredentialsFile,
		zapLog,
	)

	notifier := services.NewNotifierService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
	)

	exporter := services.NewExporterService()

	validate := validation.New()

	submitHandler := handlers.NewSubmitHandler(
		validate,
		storageService,
		extractor,
		scorer,
		aiScorer,
		sheetLogger,
		notifier,
		submissionRepo,
		cfg.Storage.MaxFileSize,
		zapLog,
	)
	chatHandler := handlers.NewChatHandler(geminiService, cfg.Gemini.RetryMaxAttempts, zapLog)
	exportHandler := handlers.NewExportHandler(submissionRepo, exporter)

	app := fiber.New(fiber.Config{
		AppName:      "HR Screening API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"ok":   true,
			"time": time.Now().UTC().Format(time.RFC3339),
		})
	})

	app.Post("/submit", submitHandler.HandleSubmit)
	app.Post("/chat", chatHandler.HandleChat)
	app.Get("/export", exportHandler.HandleExport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "HR Screening API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /submit",
				"POST /chat",
				"GET /export",
				"GET /health",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLog.Info("shutting down server")
		if err := app.Shutdown(); err != nil {
			zapLog.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLog.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLog.Fatal("failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"ok":    false,
		"error": err.Error(),
		"code":  code,
	})
}
