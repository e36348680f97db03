package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/domus-lending/quote-service/internal/config"
	"github.com/domus-lending/quote-service/internal/engine"
	"github.com/domus-lending/quote-service/internal/handler"
	"github.com/domus-lending/quote-service/internal/integrations/narrative"
	"github.com/domus-lending/quote-service/internal/integrations/zipregion"
	"github.com/domus-lending/quote-service/internal/middleware"
	"github.com/domus-lending/quote-service/internal/repository"
	"github.com/domus-lending/quote-service/internal/service"
	"github.com/domus-lending/quote-service/internal/utils/email"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Optional .env for local development
	_ = godotenv.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	db, err := sql.Open("postgres", cfg.DBConn)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Narrative cache: redis when reachable, in-memory otherwise
	var cache repository.CacheRepository
	redisCache := repository.NewRedisCache(cfg.RedisAddr)
	if err := redisCache.Ping(); err != nil {
		logger.Warnf("Redis unavailable at %s, using in-memory cache: %v", cfg.RedisAddr, err)
		cache = repository.NewMockCache()
	} else {
		cache = redisCache
	}

	// Rate sheet: builtin until a sheet file is loaded, reloaded on schedule.
	// Every reload swaps the whole sheet; in-flight evaluations keep their
	// snapshot.
	sheets := engine.NewSheetStore()
	if cfg.RateSheetPath != "" {
		sheet, err := sheets.LoadFile(cfg.RateSheetPath)
		if err != nil {
			logger.Fatalf("Failed to load rate sheet: %v", err)
		}
		logger.Infof("Loaded rate sheet %s", sheet.Version)

		scheduler := cron.New()
		if _, err := scheduler.AddFunc(cfg.SheetReloadSpec, func() {
			sheet, err := sheets.LoadFile(cfg.RateSheetPath)
			if err != nil {
				logger.Errorf("Rate sheet reload failed, keeping previous sheet: %v", err)
				return
			}
			logger.Infof("Rate sheet reloaded: %s", sheet.Version)
		}); err != nil {
			logger.Fatalf("Invalid sheet reload schedule %q: %v", cfg.SheetReloadSpec, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize layers
	eng := engine.New(sheets)
	repo := repository.NewRepository(db)
	analyzer := narrative.NewGenerator(cfg, logger)

	var notifier service.Notifier
	if cfg.SMTPHost != "" && cfg.ReviewerEmail != "" {
		notifier = email.NewSender(cfg, logger)
	} else {
		logger.Warn("SMTP not configured, reviewer notifications disabled")
	}

	svc := service.NewService(eng, repo, cache, analyzer, notifier, logger)
	zipClient := zipregion.NewClient(cfg, logger)
	h := handler.NewHandler(svc, sheets, zipClient)

	// Setup router
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/rate-sheet", h.RateSheetVersion).Methods("GET")
	r.HandleFunc("/zip-lookup/{zip}", h.ZipLookup).Methods("GET")
	r.HandleFunc("/quotes/{id:[0-9]+}", h.GetQuote).Methods("GET")
	r.HandleFunc("/quotes", h.ListQuotes).Methods("GET")

	// Quote submission carries the LLM call; keep it rate limited
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	defer limiter.Stop()
	submit := r.PathPrefix("/quotes").Subrouter()
	submit.Use(middleware.RateLimitMiddleware(limiter))
	submit.HandleFunc("", h.SubmitQuote).Methods("POST")

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("Server failed: %v", err)
	}
}
