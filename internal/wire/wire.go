package wire

import (
	"net/http"

	"github.com/SawLinThant/hotel-management-backend-api/internal/adaptor"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/entity"
	"github.com/SawLinThant/hotel-management-backend-api/internal/data/repository"
	"github.com/SawLinThant/hotel-management-backend-api/internal/usecase"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/middleware"
	"github.com/SawLinThant/hotel-management-backend-api/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router *chi.Mux
}

// Wiring builds services, handlers and routes on top of a repository set
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger, opts ...usecase.ServiceOption) *App {
	service := usecase.NewService(repo, config, logger, opts...)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.CORS))
	r.Use(middleware.NewRateLimiter(config.RateLimit).Limit(logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(config.JWT, repo.User, logger))

		wireRoom(r, handler.Room, logger)
		wireBooking(r, handler.Booking, logger)
		wireStayRecord(r, handler.StayRecord, logger)
	})

	return r
}

func staffOnly(logger *zap.Logger) func(http.Handler) http.Handler {
	return middleware.RequireRoles(logger, entity.RoleStaff, entity.RoleAdmin)
}
