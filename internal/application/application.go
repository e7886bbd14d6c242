package application

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/eugenenazirov/fautil/internal/api"
	"github.com/eugenenazirov/fautil/internal/config"
	"github.com/eugenenazirov/fautil/internal/settings"
	"github.com/eugenenazirov/fautil/internal/storage"
)

const (
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second

	rateLimitRPS   = 25
	rateLimitBurst = 50
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
}

// New publishes the resolved settings and builds the inspection server from them.
func New(cfg *config.Settings, resolved *settings.Resolved, logger *zap.Logger) (*App, error) {
	store, err := storage.NewInitialisedStorage(cfg, resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to publish settings: %w", err)
	}

	handler := api.NewHandler(store, config.Schema())
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.IsDebug()),
		api.WithRateLimit(rateLimitRPS, rateLimitBurst),
		api.WithCORS(api.CORS{
			Origins:          cfg.App.CorsOrigins,
			Methods:          cfg.App.CorsAllowMethods,
			Headers:          cfg.App.CorsAllowHeaders,
			AllowCredentials: cfg.App.CorsAllowCredentials,
		}),
	)

	return &App{
		storage: store,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg.App, apiRouter),
	}, nil
}

// NewServer creates an HTTP server listening on the configured host and port.
func NewServer(cfg config.AppConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}
