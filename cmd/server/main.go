package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/financeapi-br/backend/internal/api"
	"github.com/financeapi-br/backend/internal/config"
	"github.com/financeapi-br/backend/internal/database"
	"github.com/financeapi-br/backend/internal/marketdata"
	"github.com/financeapi-br/backend/internal/repository"
	"github.com/financeapi-br/backend/internal/scheduler"
	"github.com/financeapi-br/backend/internal/secrets"
	"github.com/financeapi-br/backend/internal/service"
	"github.com/financeapi-br/backend/internal/tax"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Auth.FernetKey == "" {
		log.Fatal("FERNET_KEY is required to encrypt broker notes")
	}
	encryptor, err := secrets.NewEncryptor(cfg.Auth.FernetKey)
	if err != nil {
		log.Fatalf("Failed to load fernet key: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Market-data clients
	market := marketdata.NewManager(
		marketdata.NewPolygonClient(cfg.MarketData.PolygonAPIKey),
		marketdata.NewYahooClient(),
		marketdata.NewBCBClient(),
	)

	// Create repositories
	userRepo := repository.NewUserRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	correlationRepo := repository.NewCorrelationRepository(db)
	taxReportRepo := repository.NewTaxReportRepository(db)

	// Create services
	systemService := service.NewSystemService(db)
	userService := service.NewUserService(userRepo, cfg.Auth.PlanLimits)
	fxService := service.NewFXService(rateRepo, market)
	quoteService := service.NewQuoteService(
		quoteRepo,
		market,
		fxService,
		cfg.MarketData.SupportedADRs,
		cfg.MarketData.QuoteDelayMins,
	)
	transactionService := service.NewTransactionService(transactionRepo, fxService, encryptor)
	taxService := service.NewTaxService(
		transactionRepo,
		taxReportRepo,
		transactionService,
		tax.NewEngine(tax.DefaultParams()),
	)
	correlationService := service.NewCorrelationService(correlationRepo, market)
	portfolioService := service.NewPortfolioService(positionRepo, alertRepo, quoteService, correlationService)
	analyticsService := service.NewAnalyticsService(positionRepo, quoteRepo, quoteService, market)
	alertService := service.NewAlertService(alertRepo, quoteService)

	// Create router
	router := api.NewRouter(api.Services{
		System:       systemService,
		Users:        userService,
		Quotes:       quoteService,
		FX:           fxService,
		Transactions: transactionService,
		Taxes:        taxService,
		Portfolio:    portfolioService,
		Analytics:    analyticsService,
		Alerts:       alertService,
		Correlations: correlationService,
	}, cfg)

	// Background jobs
	jobs := scheduler.New(quoteService, fxService, correlationService, alertService, userService)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

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

	jobs.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
