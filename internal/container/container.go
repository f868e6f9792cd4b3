package container

import (
	"context"
	"fmt"

	"surveygen/adapters/cache"
	"surveygen/adapters/llm"
	"surveygen/adapters/llm/heuristic"
	"surveygen/adapters/postgres"
	"surveygen/ai"
	"surveygen/app"
	"surveygen/domain/template"
	"surveygen/internal"
	"surveygen/internal/api"
	"surveygen/internal/config"
	"surveygen/internal/migration"
	"surveygen/internal/usage"
	"surveygen/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil when the matching config section is disabled
	DB    *sqlx.DB
	Redis *redis.Client

	// Model access
	Provider ports.ModelProvider
	Resolver *ai.TierResolver
	Invoker  *ai.Invoker

	// Services
	Usage        *usage.Service
	Templates    *template.Library
	Orchestrator *app.Orchestrator
	Frontend     *app.FrontendGenerator
}

// New creates a new dependency injection container and wires every service.
// Stores that fail to connect are fatal; a failed tier probe only selects
// the stable tier.
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
	}

	if err := c.initProvider(); err != nil {
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}
	if err := c.initDatabase(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}
	if err := c.initPipeline(ctx); err != nil {
		c.Shutdown()
		return nil, err
	}

	c.Logger.Info("Container initialized: provider=%s tier=%s cache=%t ledger=%t",
		cfg.AI.Provider, c.Resolver.Tier(), c.Redis != nil, c.DB != nil)
	return c, nil
}

// initProvider selects the base model provider.
func (c *Container) initProvider() error {
	switch c.Config.AI.Provider {
	case config.ProviderHeuristic:
		c.Provider = heuristic.NewGenerator()
	default:
		client, err := llm.NewOpenAIClient(llm.Config{
			APIKey:  c.Config.AI.OpenAIKey,
			BaseURL: c.Config.AI.BaseURL,
			Timeout: c.Config.AI.Timeout,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to create model client: %w", err)
		}
		c.Provider = client
	}
	return nil
}

// initCache wraps the provider with the response cache.
func (c *Container) initCache(ctx context.Context) error {
	if !c.Config.Cache.Enabled() {
		return nil
	}
	client, err := cache.NewRedisClient(ctx, c.Config.Cache.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to cache: %w", err)
	}
	c.Redis = client
	c.Provider = cache.NewCachedProvider(c.Provider, cache.NewRedisStore(client), c.Config.Cache.TTL, c.Logger)
	return nil
}

// initDatabase connects the usage ledger and meters the provider. The meter
// sits outside the cache so cached responses are recorded too.
func (c *Container) initDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		return nil
	}
	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)
	c.DB = db

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate usage ledger: %w", err)
	}

	c.Usage = usage.NewService(postgres.NewLLMUsageRepository(db), c.Logger)
	c.Provider = usage.NewMeteredProvider(c.Provider, c.Usage)
	return nil
}

// initPipeline resolves the model tier and builds the generators.
func (c *Container) initPipeline(ctx context.Context) error {
	tiers := ai.DefaultTierConfig().WithOverrides(c.Config.Models.Advanced, c.Config.Models.Stable)

	advanced := false
	if c.Config.Models.Probe {
		if lister, ok := c.Provider.(ports.ModelLister); ok {
			advanced = ai.ProbeTiers(ctx, lister, tiers, c.Logger)
		}
	}
	c.Resolver = ai.NewTierResolver(tiers, advanced)

	lib, err := template.Default()
	if err != nil {
		return fmt.Errorf("failed to load survey templates: %w", err)
	}
	c.Templates = lib

	c.Invoker = ai.NewInvoker(c.Provider, c.Resolver, ai.NewPromptManager(c.Config.AI.PromptsDir), c.Logger)
	c.Orchestrator = app.NewOrchestrator(c.Invoker, lib, app.PipelineOptions{
		MaxParallel:     c.Config.Pipeline.MaxParallel,
		Timeout:         c.Config.Pipeline.Timeout,
		FallbackTimeout: c.Config.Pipeline.FallbackTimeout,
		UseTemplates:    c.Config.Pipeline.UseTemplates,
	}, c.Logger)
	c.Frontend = app.NewFrontendGenerator(c.Orchestrator, c.Invoker, c.Logger)
	return nil
}

// APIDeps returns the HTTP handler dependencies.
func (c *Container) APIDeps() api.Deps {
	deps := api.Deps{
		Surveys:   c.Orchestrator,
		Frontend:  c.Frontend,
		Templates: c.Templates,
		Tier:      c.Resolver.Tier(),
		Models:    c.Resolver.Models(),
		Logger:    c.Logger,
	}
	// Leave the interface nil, not a typed nil, when the ledger is off.
	if c.Usage != nil {
		deps.Usage = c.Usage
	}
	return deps
}

// Shutdown flushes pending usage records and closes store connections.
func (c *Container) Shutdown() {
	if c.Usage != nil {
		c.Usage.Flush()
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("Failed to close database: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close cache: %v", err)
		}
	}
}
