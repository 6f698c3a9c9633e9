package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"todoBoard/internal/config"
	"todoBoard/internal/handlers"
	"todoBoard/internal/logger"
	"todoBoard/internal/middleware"
	"todoBoard/internal/repository/todo/inmemory"
	"todoBoard/internal/repository/todo/mongo"
	"todoBoard/internal/repository/todo/postgres"
	"todoBoard/internal/service"
	"todoBoard/web"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const serviceName = "todo-board"

type App struct {
	config     *config.Config
	server     *http.Server
	router     *chi.Mux
	repository service.TodoRepository
	service    handlers.Service
	shutdowns  []func(context.Context) // run in reverse order on shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(context.Context), 0),
	}
}

// Init builds every component. On error the components built so far are
// released.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func(context.Context) {
		logger.Info("App: flushing logs")
		logger.Sync()
	})

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := a.initRepository(ctx); err != nil {
		a.runShutdowns(ctx)
		return nil, err
	}

	a.service = service.NewTodoService(a.repository)
	a.router = a.newRouter()

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, serviceName),
		ReadHeaderTimeout: a.config.Server.RequestTimeout,
	}

	logger.Info("App: initialized",
		zap.String("repository", a.config.Repository.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) error {
	switch a.config.Repository.Type {
	case config.RepositoryMongo:
		storage, err := mongo.New(ctx, a.config.Mongo)
		if err != nil {
			return fmt.Errorf("connecting to mongo: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func(ctx context.Context) {
			if err := storage.Close(ctx); err != nil {
				logger.Error("App: closing mongo", err)
			}
		})

	case config.RepositoryPostgres:
		if err := postgres.Migrate(a.config.Database.URL); err != nil {
			return fmt.Errorf("migrating postgres: %w", err)
		}
		storage, err := postgres.New(ctx, a.config.Database)
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		a.repository = storage
		a.shutdowns = append(a.shutdowns, func(context.Context) {
			storage.Close()
		})

	case config.RepositoryInMemory:
		a.repository = inmemory.NewTodoStorage()

	default:
		return fmt.Errorf("unknown repository type %q", a.config.Repository.Type)
	}
	return nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: a.config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIdHeader},
		ExposedHeaders: []string{middleware.RequestIdHeader},
		MaxAge:         300,
	}))
	r.Use(middleware.RateLimit(a.config.Server.RateLimit))
	r.Use(chimw.Timeout(a.config.Server.RequestTimeout))

	handlers.NewTodoHandler(a.service).Register(r)
	web.Register(r)

	return r
}

// Handler is the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the server fails, then shuts down
// gracefully.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("App: server started", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdown()
	})

	return g.Wait()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	logger.Info("App: shutting down")

	err := a.server.Shutdown(ctx)
	if err != nil {
		logger.Error("App: server shutdown", err)
	}

	a.runShutdowns(ctx)
	return err
}

func (a *App) runShutdowns(ctx context.Context) {
	for _, fn := range slices.Backward(a.shutdowns) {
		fn(ctx)
	}
	a.shutdowns = a.shutdowns[:0]
}
