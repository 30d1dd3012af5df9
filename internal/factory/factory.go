// Package factory wires the application graph: content provider, abuse
// store, room registry and controller, matchmaking queue, rate limiter,
// websocket hub and dispatcher.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/partypop/partypop/internal/content"
	"github.com/partypop/partypop/internal/dependencies/clock"
	"github.com/partypop/partypop/internal/dependencies/random"
	"github.com/partypop/partypop/internal/services/abuse"
	"github.com/partypop/partypop/internal/services/matchmaking"
	"github.com/partypop/partypop/internal/services/ratelimit"
	"github.com/partypop/partypop/internal/services/room"
	"github.com/partypop/partypop/internal/services/scoring"
	"github.com/partypop/partypop/internal/ws"
)

// Backend type constants
const (
	ContentBackendStatic   = "static"
	ContentBackendPostgres = "postgres"

	AbuseBackendMemory = "memory"
	AbuseBackendRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Content and persistence
	Content    content.Provider
	AbuseStore abuse.Store

	// Services
	RoomController *room.Controller
	AbuseService   *abuse.Service
	Limiter        *ratelimit.Limiter
	Queue          *matchmaking.Queue

	// Transport
	Hub        *ws.Hub
	Dispatcher *ws.Dispatcher

	closers []io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// ContentBackend selects the content source ("static" or "postgres")
	// If empty, defaults to "static"
	ContentBackend string
	// PostgresConfig holds database settings (required if ContentBackend is "postgres")
	PostgresConfig *content.PostgresConfig
	// AbuseBackend selects the abuse ledger store ("memory" or "redis")
	// If empty, defaults to "memory"
	AbuseBackend string
	// RedisConfig holds Redis connection settings (required if AbuseBackend is "redis")
	RedisConfig *abuse.RedisConfig
	// RoomConfig overrides the room controller tunables (optional)
	RoomConfig *room.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var closers []io.Closer

	var provider content.Provider
	switch backend := cfg.ContentBackend; backend {
	case "", ContentBackendStatic:
		provider = content.NewStaticProvider()
	case ContentBackendPostgres:
		if cfg.PostgresConfig == nil {
			return nil, errors.New("PostgresConfig required when ContentBackend is postgres")
		}
		pg, err := content.NewPostgresProvider(*cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		provider = pg
		closers = append(closers, pg)
	default:
		return nil, errors.New("invalid ContentBackend: must be 'static' or 'postgres'")
	}

	var store abuse.Store
	switch backend := cfg.AbuseBackend; backend {
	case "", AbuseBackendMemory:
		store = abuse.NewMemoryStore()
	case AbuseBackendRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when AbuseBackend is redis")
		}
		rs, err := abuse.NewRedisStore(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = rs
		closers = append(closers, rs)
	default:
		return nil, errors.New("invalid AbuseBackend: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	roomCfg := room.DefaultConfig()
	if cfg.RoomConfig != nil {
		roomCfg = *cfg.RoomConfig
	}

	app := newWithDependencies(provider, store, clk, rnd, roomCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	provider content.Provider,
	store abuse.Store,
	clk clock.Clock,
	rnd random.Random,
	roomCfg room.Config,
	logger *slog.Logger,
) *App {
	hub := ws.NewHub(logger)
	registry := room.NewRegistry(hub, clk, rnd, logger)
	engine := scoring.New(scoring.DefaultConfig())
	roomController := room.NewController(registry, provider, engine, clk, rnd, logger, roomCfg)
	abuseService := abuse.NewService(store, clk, logger)
	limiter := ratelimit.New(clk, ratelimit.DefaultConfig())
	queue := matchmaking.NewQueue(roomController, abuseService, hub, logger, matchmaking.DefaultConfig())
	dispatcher := ws.NewDispatcher(hub, roomController, queue, abuseService, limiter, logger)

	return &App{
		Clock:          clk,
		Random:         rnd,
		Content:        provider,
		AbuseStore:     store,
		RoomController: roomController,
		AbuseService:   abuseService,
		Limiter:        limiter,
		Queue:          queue,
		Hub:            hub,
		Dispatcher:     dispatcher,
	}
}

// Close releases external connections held by the app.
func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
