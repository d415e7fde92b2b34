package wire

import (
	"net/http"

	"salon-refunds/internal/adaptor"
	"salon-refunds/internal/data/repository"
	"salon-refunds/internal/events"
	"salon-refunds/internal/gateway"
	"salon-refunds/internal/usecase"
	"salon-refunds/pkg/middleware"
	"salon-refunds/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the assembled dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and routes
func Wiring(
	repo *repository.Repository,
	gw gateway.RefundGateway,
	journal usecase.AttemptJournal,
	pub *events.Publisher,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, gw, journal, pub, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, logger)

	return &App{
		Router: router,
	}
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireRefund(r, handler.Refund, logger)
	wireReport(r, handler.Report, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
