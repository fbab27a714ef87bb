package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/preston-bernstein/matchday-service/internal/http/handlers"
	"github.com/preston-bernstein/matchday-service/internal/http/middleware"
	"github.com/preston-bernstein/matchday-service/internal/metrics"
)

// RouterConfig collects what the router mounts. Admin and WebSocket are optional.
type RouterConfig struct {
	Handler     *handlers.Handler
	Admin       *handlers.AdminHandler
	WebSocket   nethttp.Handler
	Logger      *slog.Logger
	Metrics     *metrics.Recorder
	CORSOrigins []string
}

// NewRouter registers the HTTP routes and wraps them with CORS and request logging.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	h := cfg.Handler
	r := mux.NewRouter()
	r.NotFoundHandler = nethttp.HandlerFunc(handlers.NotFound)
	r.MethodNotAllowedHandler = nethttp.HandlerFunc(handlers.MethodNotAllowed)

	r.HandleFunc("/health", h.Health).Methods(nethttp.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(nethttp.MethodGet)
	r.HandleFunc("/fixtures/upcoming", h.UpcomingFixtures).Methods(nethttp.MethodGet)

	users := r.PathPrefix("/users/{id}").Subrouter()
	users.HandleFunc("", h.PutUser).Methods(nethttp.MethodPut)
	users.HandleFunc("", h.GetUser).Methods(nethttp.MethodGet)
	users.HandleFunc("/predictions", h.SubmitPrediction).Methods(nethttp.MethodPost)
	users.HandleFunc("/predictions", h.UpdatePrediction).Methods(nethttp.MethodPatch)
	users.HandleFunc("/predictions", h.DeletePrediction).Methods(nethttp.MethodDelete)
	users.HandleFunc("/reset", h.ResetUser).Methods(nethttp.MethodPost)
	users.HandleFunc("/settle", h.SettleUser).Methods(nethttp.MethodPost)

	if cfg.Admin != nil {
		admin := r.PathPrefix("/admin").Subrouter()
		admin.HandleFunc("/settlements/run", cfg.Admin.RunSettlements).Methods(nethttp.MethodPost)
		admin.HandleFunc("/cache/reset", cfg.Admin.ResetCache).Methods(nethttp.MethodPost)
	}
	if cfg.WebSocket != nil {
		r.Handle("/ws", cfg.WebSocket).Methods(nethttp.MethodGet)
	}

	var handler nethttp.Handler = r
	if len(cfg.CORSOrigins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: cfg.CORSOrigins,
			AllowedMethods: []string{
				nethttp.MethodGet,
				nethttp.MethodPost,
				nethttp.MethodPut,
				nethttp.MethodPatch,
				nethttp.MethodDelete,
			},
			AllowedHeaders: []string{"Authorization", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders: []string{middleware.HeaderRequestID},
		}).Handler(handler)
	}
	return middleware.LoggingMiddleware(cfg.Logger, cfg.Metrics, handler)
}
