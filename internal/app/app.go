package app

import (
	"context"
	"fmt"
	"net/http"
	"soulsprint/internal/cache"
	"soulsprint/internal/config"
	"soulsprint/internal/gemini"
	"soulsprint/internal/logger"
	"soulsprint/internal/repository"
	"soulsprint/internal/risk"
	"soulsprint/internal/routing"
	"soulsprint/internal/service"
	"soulsprint/internal/session"
	"soulsprint/internal/signal"
	"soulsprint/internal/transport/rest"
	"soulsprint/internal/transport/ws"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App is the wired service: stores, engine, hub and HTTP handler
type App struct {
	Store       session.Store
	Completions repository.CompletionRepo
	Escalations cache.EscalationCache
	Engine      *service.EngineService
	Auth        *service.AuthService
	Hub         *ws.Hub
	Handler     http.Handler

	closers []func(context.Context) error
}

// Build connects the configured backends and assembles the engine.
// Engine configuration problems are returned before anything is dialled.
func Build(ctx context.Context, cfg *config.AppConfig, aiCfg *config.AIConfig, engineCfg *config.EngineConfig, log *logger.Logger) (*App, error) {
	if err := engineCfg.Validate(); err != nil {
		return nil, err
	}
	router := routing.NewRouter(engineCfg)
	if err := router.ValidateCatalog(); err != nil {
		return nil, err
	}

	a := &App{}
	if err := a.connectStores(ctx, cfg, log); err != nil {
		a.Close(context.Background())
		return nil, err
	}

	var (
		textGen   service.TextGenerator
		signalGen signal.Generator
	)
	client := gemini.NewClient(aiCfg)
	if client.Enabled() {
		textGen = client
		signalGen = client
		log.Info("gemini configured", "signal_model", aiCfg.Models.SignalExtract, "chat_model", aiCfg.Models.ChatReply)
	} else {
		log.Warn("GEMINI_API_KEY not set, using keyword signals and canned replies")
	}
	mode := aiCfg.EffectiveSignalMode()
	extractor := signal.New(mode, engineCfg, aiCfg, signalGen, log)
	log.Info("signal extractor ready", "mode", mode)

	a.Auth = service.NewAuthService(cfg)
	a.Hub = ws.NewHub(log)
	a.Engine = service.NewEngineService(
		session.NewHolder(a.Store),
		risk.NewClassifier(engineCfg),
		extractor,
		service.NewChatService(textGen, aiCfg, engineCfg.Signal.Window),
		router,
		a.Completions,
		a.Escalations,
		log,
		time.Duration(aiCfg.TimeoutMS)*time.Millisecond,
	)
	a.Engine.SetBroadcaster(a.Hub)

	a.Handler = rest.NewRouter(&rest.Container{
		AuthService:    a.Auth,
		EngineService:  a.Engine,
		WSHub:          a.Hub,
		Logger:         log,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})
	return a, nil
}

func (a *App) connectStores(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) error {
	var (
		db  *mongo.Database
		rdb *redis.Client
	)

	if cfg.NeedsMongo() {
		mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongodb: %w", err)
		}
		a.closers = append(a.closers, mongoClient.Disconnect)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongodb: %w", err)
		}
		log.Info("connected to mongodb", "database", cfg.MongoDB)
		db = mongoClient.Database(cfg.MongoDB)
	}

	if cfg.NeedsRedis() {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		log.Info("connected to redis", "addr", cfg.RedisAddr)
	}

	switch cfg.StoreBackend {
	case config.StoreMemory:
		a.Store = session.NewMemoryStore()
	case config.StoreRedis:
		a.Store = cache.NewSessionCache(rdb, cfg.SessionTTL)
	case config.StoreMongo:
		a.Store = repository.NewSessionRepo(db)
	case config.StoreTiered:
		a.Store = session.NewTieredStore(cache.NewSessionCache(rdb, cfg.SessionTTL), repository.NewSessionRepo(db))
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}

	if db != nil {
		a.Completions = repository.NewCompletionRepo(db)
	} else {
		a.Completions = repository.NewMemoryCompletionRepo()
	}
	if rdb != nil {
		a.Escalations = cache.NewEscalationCache(rdb)
	} else {
		a.Escalations = cache.NewMemoryEscalationCache()
	}
	log.Info("session store ready", "backend", cfg.StoreBackend)
	return nil
}

// Close releases backend connections in reverse order
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
