// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/fitcheck/internal/adapters/mq/queue"
	"github.com/okian/fitcheck/internal/adapters/repository"
	service "github.com/okian/fitcheck/internal/app"
	"github.com/okian/fitcheck/internal/domain/analytics"
	"github.com/okian/fitcheck/internal/domain/colour"
	"github.com/okian/fitcheck/internal/domain/model"
	"github.com/okian/fitcheck/internal/domain/planner"
	"github.com/okian/fitcheck/internal/domain/types"
	"github.com/okian/fitcheck/pkg/logger"
	"github.com/okian/fitcheck/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListItems(ctx context.Context, f model.ItemFilter) ([]model.ClothingItem, error)
	AddItem(ctx context.Context, item model.ClothingItem) (model.ClothingItem, error)
	UpdateItem(ctx context.Context, id string, patch model.ItemPatch) (model.ClothingItem, error)
	RemoveItem(ctx context.Context, id string) error
	MarkItemWorn(ctx context.Context, id string) (model.ClothingItem, error)

	Daily(ctx context.Context) (planner.DailyPlan, error)
	Weekly(ctx context.Context) (planner.WeeklyPlan, error)

	// SubmitWear queues a wear. It returns an error wrapping queue.ErrFull on backpressure.
	SubmitWear(ctx context.Context, ev model.WearEvent) (types.WearAck, error)
	// Wear applies a wear synchronously; duplicate reports a repeated event id.
	Wear(ctx context.Context, ev model.WearEvent) (entry model.HistoryEntry, duplicate bool, err error)
	Rate(ctx context.Context, entryID string, rating int) (model.HistoryEntry, error)
	History(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Analytics(ctx context.Context) (analytics.Summary, error)

	Ready() bool
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit sets the per-client requests per minute. Zero disables it.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute >= 0 {
			s.ratePerMinute = perMinute
		}
	}
}

// WithCORSOrigin sets Access-Control-Allow-Origin. Empty disables CORS headers.
func WithCORSOrigin(origin string) Option {
	return func(s *Server) { s.corsOrigin = origin }
}

// WithHistoryLimit caps GET /api/history?limit.
func WithHistoryLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithLogger sets the logger used by the recovery middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// Server wires HTTP routes for the wardrobe API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	clothingHandler  *ClothingHandler
	plannerHandler   *PlannerHandler
	wearHandler      *WearHandler
	historyHandler   *HistoryHandler
	analyticsHandler *AnalyticsHandler

	ratePerMinute int
	corsOrigin    string
	historyLimit  int
	limiter       *RateLimiter
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		ratePerMinute: 100,
		corsOrigin:    "*",
		historyLimit:  100,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	if s.ratePerMinute > 0 {
		s.limiter = NewRateLimiter(s.ratePerMinute)
	}

	s.healthHandler = NewHealthHandler(deps)
	s.statsHandler = NewStatsHandler(statsProvider)
	s.clothingHandler = NewClothingHandler(deps)
	s.plannerHandler = NewPlannerHandler(deps)
	s.wearHandler = NewWearHandler(deps)
	s.historyHandler = NewHistoryHandler(deps, s.historyLimit)
	s.analyticsHandler = NewAnalyticsHandler(deps)
	return s
}

// Register attaches all routes to r. The API middleware is scoped to a
// group so r may already carry other routes.
func (s *Server) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		s.routes(r)
	})
}

func (s *Server) routes(r chi.Router) {
	r.Use(Recovery(s.logger))
	r.Use(CORS(s.corsOrigin))

	r.Get("/metrics", MetricsHandler().ServeHTTP)
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))

		r.Group(func(r chi.Router) {
			if s.limiter != nil {
				r.Use(s.limiter.Middleware)
			}

			r.Route("/clothing", func(r chi.Router) {
				r.Get("/", MetricsMiddleware(s.clothingHandler.HandleList, "clothing_list"))
				r.Post("/", MetricsMiddleware(s.clothingHandler.HandleCreate, "clothing_create"))
				r.Put("/{id}", MetricsMiddleware(s.clothingHandler.HandleUpdate, "clothing_update"))
				r.Delete("/{id}", MetricsMiddleware(s.clothingHandler.HandleDelete, "clothing_delete"))
				r.Post("/{id}/wear", MetricsMiddleware(s.clothingHandler.HandleMarkWorn, "clothing_wear"))
			})

			r.Route("/planner", func(r chi.Router) {
				r.Post("/daily", MetricsMiddleware(s.plannerHandler.HandleDaily, "planner_daily"))
				r.Post("/week", MetricsMiddleware(s.plannerHandler.HandleWeekly, "planner_week"))
				r.Post("/wear", MetricsMiddleware(s.wearHandler.HandleSubmit, "planner_wear"))
			})

			r.Route("/history", func(r chi.Router) {
				r.Get("/", MetricsMiddleware(s.historyHandler.HandleList, "history_list"))
				r.Post("/", MetricsMiddleware(s.wearHandler.HandleRecord, "history_create"))
				r.Post("/{id}/rating", MetricsMiddleware(s.historyHandler.HandleRate, "history_rating"))
			})

			r.Get("/analytics", MetricsMiddleware(s.analyticsHandler.HandleAnalytics, "analytics"))
		})
	})
}

// Handler returns a router with every route registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.Register(r)
	return r
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, types.ErrorResponse{Code: code, Message: msg})
}

// writeServiceError maps domain sentinels to status codes. Unmapped errors
// are logged and answered with the bare status text.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var inv *planner.InventoryError
	switch {
	case errors.As(err, &inv):
		tops, bottoms := inv.Tops, inv.Bottoms
		writeJSON(w, http.StatusBadRequest, types.ErrorResponse{
			Code:    "insufficient_inventory",
			Message: "Need at least 1 top and 1 bottom",
			Tops:    &tops,
			Bottoms: &bottoms,
		})
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, model.ErrInvalidItem),
		errors.Is(err, model.ErrInvalidSlot),
		errors.Is(err, model.ErrInvalidRating),
		errors.Is(err, model.ErrInvalidWear),
		errors.Is(err, colour.ErrInvalidColorFormat),
		errors.Is(err, repository.ErrInvalidLimit):
		writeError(w, http.StatusBadRequest, "validation_error", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", WrapKind(op, ErrBackpressure, err))
	case errors.Is(err, queue.ErrClosed), errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		logger.Named("api").Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(WrapKind(op, ErrInternal, err)),
		)
		metrics.RecordErrorByComponent("http", "internal")
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}
