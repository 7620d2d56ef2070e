package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/config"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/crypto"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/database"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/repository"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Field-encryption key for monetary values at rest
	fernetKey := cfg.Encryption.FernetKey
	if fernetKey == "" {
		fernetKey, err = crypto.GenerateKey()
		if err != nil {
			log.Fatalf("Failed to generate encryption key: %v", err)
		}
		log.Println("WARNING: FERNET_KEY not set, using an ephemeral key; stored operations will be unreadable after restart")
	}
	cipher, err := crypto.NewCipher(fernetKey)
	if err != nil {
		log.Fatalf("Failed to initialize field encryption: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	assetRepo := repository.NewAssetRepository(db)
	operationRepo := repository.NewOperationRepository(db, cipher)
	taxRuleRepo := repository.NewTaxRuleRepository(db)
	lossBalanceRepo := repository.NewLossBalanceRepository(db)
	reportCacheRepo := repository.NewReportCacheRepository(db)

	// Create services
	assetService := service.NewAssetService(assetRepo)
	operationService := service.NewOperationService(operationRepo, assetRepo, reportCacheRepo)
	taxService := service.NewTaxService(operationRepo, taxRuleRepo, lossBalanceRepo, reportCacheRepo)

	// Scheduled refresh of the current month's materialized report
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Jobs.ReportRefreshSchedule, func() {
		taxService.RefreshCurrentMonth(context.Background())
	}); err != nil {
		log.Fatalf("Failed to schedule report refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(db, assetService, operationService, taxService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
