// Package bootstrap wires configuration into repositories, services and the HTTP router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"finance-backend/internal/advisor"
	"finance-backend/internal/documents"
	"finance-backend/internal/health"
	"finance-backend/internal/investments"
	"finance-backend/internal/llm"
	"finance-backend/internal/llm/openai"
	"finance-backend/internal/news"
	"finance-backend/internal/queue"
	"finance-backend/internal/risk"
	"finance-backend/internal/shared/auth"
	"finance-backend/internal/shared/config"
	"finance-backend/internal/shared/server"
	"finance-backend/internal/shared/storage/db"
	"finance-backend/internal/shared/storage/object"
	localstore "finance-backend/internal/shared/storage/object/local"
	s3store "finance-backend/internal/shared/storage/object/s3"
	"finance-backend/internal/shared/telemetry"
	"finance-backend/internal/sweeper"
	"finance-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.ObjectStore
	Tokens *auth.TokenManager
	LLM    llm.Client

	UsersRepo       users.Repo
	DocumentsRepo   documents.DocumentsRepo
	RiskRepo        risk.AnalysesRepo
	InvestmentsRepo investments.HoldingsRepo

	UsersService       *users.Service
	DocumentsService   *documents.Service
	Analyzer           *documents.Analyzer
	RiskService        *risk.Service
	InvestmentsService *investments.Service
	Advisor            *advisor.Gateway
	News               *news.Gateway
	Sweeper            *sweeper.Sweeper
}

// Build prepares dependencies and the router. Without DATABASE_URL in a dev-like environment
// every repository is in-memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	tokens, err := auth.NewTokenManager(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL(), nil)
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: tokens,
		LLM:    buildLLM(cfg),
	}
	if err := buildServices(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	healthHandler := health.NewHandler(nil)
	if app.DB != nil {
		healthHandler = health.NewHandler(app.DB)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Tokens:             tokens,
		HealthHandler:      healthHandler,
		UsersHandler:       users.NewHandler(app.UsersService),
		DocumentsHandler:   documents.NewHandler(app.DocumentsService),
		RiskHandler:        risk.NewHandler(app.RiskService),
		InvestmentsHandler: investments.NewHandler(app.InvestmentsService, cfg.MaxUploadSize),
		AdvisorHandler:     advisor.NewHandler(app.Advisor),
		NewsHandler:        news.NewHandler(app.News),
	})
	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() || cfg.Env == "test" {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db.memory", map[string]any{"reason": "connect failed", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.UploadDir), nil
	}
}

func buildLLM(cfg config.Config) llm.Client {
	client, err := openai.NewClient(openai.Config{
		APIKey:  cfg.AIAPIKey,
		Model:   cfg.AIModel,
		BaseURL: cfg.AIBaseURL,
		Timeout: cfg.ProviderTimeout,
	})
	if err != nil {
		telemetry.Warn("bootstrap.llm.unconfigured", map[string]any{"reason": err.Error()})
		return llm.Unconfigured{}
	}
	return client
}

func buildNewsProvider(cfg config.Config) news.Provider {
	client, err := news.NewTavilyClient(cfg.SearchAPIKey, "", cfg.ProviderTimeout)
	if err != nil {
		telemetry.Warn("bootstrap.news.fallback_only", map[string]any{"reason": err.Error()})
		return nil
	}
	return client
}

func buildConversationStore(ctx context.Context, app *App) (advisor.ConversationStore, error) {
	cfg := app.Config
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return advisor.NewMemoryStore(cfg.ChatHistoryTurns, cfg.ChatHistoryTTL, nil), nil
	}
	client, err := advisor.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis.memory", map[string]any{"error": err.Error()})
			return advisor.NewMemoryStore(cfg.ChatHistoryTurns, cfg.ChatHistoryTTL, nil), nil
		}
		return nil, err
	}
	app.Redis = client
	return advisor.NewRedisStore(client, cfg.ChatHistoryTurns, cfg.ChatHistoryTTL), nil
}

func buildDispatcher(ctx context.Context, cfg config.Config, analyzer *documents.Analyzer) (documents.Dispatcher, error) {
	if strings.TrimSpace(cfg.AnalysisQueueURL) == "" {
		return documents.GoroutineDispatcher{Processor: analyzer}, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.AnalysisQueueURL, cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return documents.QueueDispatcher{Queue: client}, nil
}

func buildServices(ctx context.Context, app *App) error {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.DocumentsRepo = &documents.PGRepo{DB: app.DB}
		app.RiskRepo = &risk.PGRepo{DB: app.DB}
		app.InvestmentsRepo = &investments.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.DocumentsRepo = documents.NewMemoryRepo()
		app.RiskRepo = risk.NewMemoryRepo()
		app.InvestmentsRepo = investments.NewMemoryRepo()
	}

	app.UsersService = users.NewService(app.UsersRepo, app.Tokens)
	app.RiskService = risk.NewService(app.RiskRepo)
	app.InvestmentsService = investments.NewService(app.InvestmentsRepo)

	app.Analyzer = documents.NewAnalyzer(app.DocumentsRepo, app.Store, app.LLM)
	dispatcher, err := buildDispatcher(ctx, app.Config, app.Analyzer)
	if err != nil {
		return err
	}
	app.DocumentsService = documents.NewService(app.Store, app.DocumentsRepo, dispatcher, app.Config.MaxUploadSize)

	conversations, err := buildConversationStore(ctx, app)
	if err != nil {
		return err
	}
	app.Advisor = advisor.NewGateway(app.LLM, conversations, app.RiskService)
	app.News = news.NewGateway(buildNewsProvider(app.Config), app.Config.NewsCacheTTL, nil)
	app.Sweeper = sweeper.New(app.Store, app.DocumentsRepo, app.Config.OrphanGrace)
	return nil
}
