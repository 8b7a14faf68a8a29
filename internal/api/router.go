package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/financeapi-br/backend/internal/api/handlers"
	custommiddleware "github.com/financeapi-br/backend/internal/api/middleware"
	"github.com/financeapi-br/backend/internal/config"
	"github.com/financeapi-br/backend/internal/service"
)

// Services bundles everything the router needs.
type Services struct {
	System       *service.SystemService
	Users        *service.UserService
	Quotes       *service.QuoteService
	FX           *service.FXService
	Transactions *service.TransactionService
	Taxes        *service.TaxService
	Portfolio    *service.PortfolioService
	Analytics    *service.AnalyticsService
	Alerts       *service.AlertService
	Correlations *service.CorrelationService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	r.Route("/api", func(r chi.Router) {
		// Public namespace: registration and system probes carry no key.
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Post("/users/register", handlers.NewUserHandler(svc.Users).Register)

		// Everything else requires an API key and counts against the
		// plan's daily quota.
		r.Group(func(r chi.Router) {
			r.Use(custommiddleware.APIKey(svc.Users))
			r.Use(custommiddleware.RateLimit(svc.Users))

			r.Route("/quotes", func(r chi.Router) {
				quoteHandler := handlers.NewQuoteHandler(svc.Quotes)
				r.Get("/", quoteHandler.Tickers)
				r.Get("/{ticker}", quoteHandler.Quote)
			})

			r.Route("/fx", func(r chi.Router) {
				fxHandler := handlers.NewFXHandler(svc.FX)
				r.Get("/current", fxHandler.CurrentRate)
				r.Get("/history", fxHandler.RateHistory)
				r.Get("/selic", fxHandler.SelicRate)
			})

			r.Route("/transactions", func(r chi.Router) {
				transactionHandler := handlers.NewTransactionHandler(svc.Transactions)
				r.Get("/", transactionHandler.List)
				r.Post("/", transactionHandler.Create)
				r.Get("/{uuid}", transactionHandler.Get)
				r.Delete("/{uuid}", transactionHandler.Delete)
			})

			r.Route("/taxes", func(r chi.Router) {
				taxHandler := handlers.NewTaxHandler(svc.Taxes)
				r.Post("/calculate", taxHandler.Calculate)
				r.Get("/{year}", taxHandler.Report)
			})

			r.Route("/portfolio", func(r chi.Router) {
				portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio)
				r.Get("/positions", portfolioHandler.Positions)
				r.Put("/positions", portfolioHandler.UpsertPosition)
				r.Delete("/positions/{ticker}", portfolioHandler.DeletePosition)
				r.Get("/summary", portfolioHandler.Summary)
				r.Get("/dashboard", portfolioHandler.Dashboard)
			})

			r.Get("/analytics/risk", handlers.NewAnalyticsHandler(svc.Analytics).RiskReport)

			r.Route("/alerts", func(r chi.Router) {
				alertHandler := handlers.NewAlertHandler(svc.Alerts)
				r.Get("/", alertHandler.List)
				r.Post("/", alertHandler.Create)
				r.Delete("/{uuid}", alertHandler.Delete)
			})

			r.Get("/market/correlation", handlers.NewCorrelationHandler(svc.Correlations).Correlation)
		})
	})

	return r
}
