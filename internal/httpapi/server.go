package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"busScheduleManagement/internal/auth"
	"busScheduleManagement/internal/logging"
	"busScheduleManagement/internal/scheduling"
	"busScheduleManagement/models"
	"busScheduleManagement/repository"
)

// API is the REST layer over the stores and the schedule engine.
type API struct {
	logger   *zap.Logger
	tokens   *auth.TokenManager
	validate *validator.Validate
	timeout  time.Duration

	users     repository.UserRepositoryI
	buses     repository.BusRepositoryI
	stops     repository.StopRepositoryI
	routes    repository.RouteRepositoryI
	schedules *scheduling.Engine
}

// Deps bundles everything the API needs.
type Deps struct {
	Logger    *zap.Logger
	Tokens    *auth.TokenManager
	Timeout   time.Duration
	Users     repository.UserRepositoryI
	Buses     repository.BusRepositoryI
	Stops     repository.StopRepositoryI
	Routes    repository.RouteRepositoryI
	Schedules *scheduling.Engine
}

func New(d Deps) *API {
	if d.Timeout <= 0 {
		d.Timeout = 10 * time.Second
	}
	return &API{
		logger:    d.Logger,
		tokens:    d.Tokens,
		validate:  newValidator(),
		timeout:   d.Timeout,
		users:     d.Users,
		buses:     d.Buses,
		stops:     d.Stops,
		routes:    d.Routes,
		schedules: d.Schedules,
	}
}

// Router builds the chi router with the full API surface under /api.
func (api *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(logging.RequestLogger(api.logger))
	r.Use(middleware.Timeout(api.timeout))

	r.Route("/api", func(r chi.Router) {
		r.Get("/auth/check", api.handleHealthCheck)
		r.Post("/auth/register", api.handleRegister)
		r.Post("/auth/login", api.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(api.authenticate)

			r.Get("/auth/me", api.handleMe)

			r.Route("/buses", func(r chi.Router) {
				r.Get("/", api.handleListBuses)
				r.Get("/{id}", api.handleGetBus)
				r.Get("/{id}/availability", api.handleBusAvailability)
				r.Post("/", api.requireAdmin(api.handleCreateBus))
				r.Put("/{id}", api.requireAdmin(api.handleUpdateBus))
				r.Delete("/{id}", api.requireAdmin(api.handleDeleteBus))
			})

			r.Route("/routes", func(r chi.Router) {
				r.Get("/", api.handleListRoutes)
				r.Post("/search", api.handleSearchRoutes)
				r.Get("/{id}", api.handleGetRoute)
				r.Post("/", api.handleCreateRoute)
				r.Put("/{id}", api.handleUpdateRoute)
				r.Delete("/{id}", api.handleDeleteRoute)
			})

			r.Route("/stops", func(r chi.Router) {
				r.Get("/", api.handleListStops)
				r.Get("/{id}", api.handleGetStop)
				r.Post("/", api.handleCreateStop)
				r.Put("/{id}", api.handleUpdateStop)
				r.Delete("/{id}", api.handleDeleteStop)
			})

			r.Route("/schedules", func(r chi.Router) {
				r.Get("/", api.handleListSchedules)
				r.Get("/date-range", api.handleSchedulesByDateRange)
				r.Get("/{id}", api.handleGetSchedule)
				r.Post("/", api.requireAdmin(api.handleCreateSchedule))
				r.Put("/{id}", api.requireAdmin(api.handleUpdateSchedule))
				r.Delete("/{id}", api.requireAdmin(api.handleDeleteSchedule))
			})

			r.Get("/admin/dashboard", api.requireAdmin(api.handleAdminDashboard))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", api.requireAdmin(api.handleListUsers))
				r.Get("/{id}", api.requireAdmin(api.handleGetUser))
				r.Put("/{id}", api.requireAdmin(api.handleUpdateUser))
				r.Delete("/{id}", api.requireAdmin(api.handleDeleteUser))
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.writeMessage(w, http.StatusNotFound, "route not found")
	})
	return r
}

func (api *API) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	api.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "server is running"})
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ValidationError([]string{"invalid id"})
	}
	return id, nil
}
