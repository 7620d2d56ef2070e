package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/config"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	db *sql.DB,
	assetService *service.AssetService,
	operationService *service.OperationService,
	taxService *service.TaxService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(db)
			r.Get("/health", systemHandler.Health)
		})

		r.Route("/asset", func(r chi.Router) {
			assetHandler := handlers.NewAssetHandler(assetService)
			r.Get("/", assetHandler.Assets)
			r.Post("/", assetHandler.CreateAsset)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", assetHandler.GetAsset)
			})
		})

		r.Route("/operation", func(r chi.Router) {
			operationHandler := handlers.NewOperationHandler(operationService)
			r.Get("/", operationHandler.AllOperations)
			r.Post("/", operationHandler.CreateOperation)
			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", operationHandler.GetOperation)
				r.Delete("/", operationHandler.DeleteOperation)
			})
		})

		r.Route("/tax", func(r chi.Router) {
			taxHandler := handlers.NewTaxHandler(taxService)
			r.Get("/report", taxHandler.MonthlyReport)
			r.Post("/report/refresh", taxHandler.RefreshReport)
			r.Get("/losses", taxHandler.LossBalances)
		})
	})

	return r
}
