// Command entitlementd serves the entitlement API: plan and feature
// resolution, usage gating, feature job dispatch and billing webhooks.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"

	"github.com/epreen/zimapp-web-sub001/migrations"
	api "github.com/epreen/zimapp-web-sub001/modules/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/billing"
	"github.com/epreen/zimapp-web-sub001/pkg/config"
	"github.com/epreen/zimapp-web-sub001/pkg/dispatch"
	"github.com/epreen/zimapp-web-sub001/pkg/entitlement"
	"github.com/epreen/zimapp-web-sub001/pkg/environment"
	"github.com/epreen/zimapp-web-sub001/pkg/feature"
	"github.com/epreen/zimapp-web-sub001/pkg/feature/launchdarkly"
	"github.com/epreen/zimapp-web-sub001/pkg/gate"
	"github.com/epreen/zimapp-web-sub001/pkg/httpserver"
	"github.com/epreen/zimapp-web-sub001/pkg/logger"
	"github.com/epreen/zimapp-web-sub001/pkg/pg"
	"github.com/epreen/zimapp-web-sub001/pkg/plan"
	"github.com/epreen/zimapp-web-sub001/pkg/queue"
	"github.com/epreen/zimapp-web-sub001/pkg/redis"
	"github.com/epreen/zimapp-web-sub001/pkg/requestid"
	"github.com/epreen/zimapp-web-sub001/pkg/usage"
)

type appConfig struct {
	Env          string `env:"APP_ENV" envDefault:"development"`
	Service      string `env:"APP_SERVICE" envDefault:"entitlementd"`
	FlagSource   string `env:"FEATURE_FLAG_SOURCE" envDefault:"none"` // none, memory or launchdarkly
	AutoMigrate  bool   `env:"PG_AUTO_MIGRATE" envDefault:"true"`
	MetricsRoute string `env:"METRICS_ROUTE" envDefault:"/metrics"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("entitlementd stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadEnv(); err != nil {
		return err
	}

	var app appConfig
	if err := config.Load(&app); err != nil {
		return err
	}
	env, _ := environment.Parse(app.Env)
	log := logger.New(
		logger.WithEnvironment(env, app.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), entitlement.LoggerExtractor()),
	)
	logger.SetAsDefault(log)

	var (
		pgCfg     pg.Config
		redisCfg  redis.Config
		httpCfg   httpserver.Config
		tokenCfg  entitlement.TokenConfig
		cacheCfg  usage.CacheConfig
		paddleCfg billing.PaddleConfig
		stripeCfg billing.StripeConfig
	)
	for _, target := range []func() error{
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&tokenCfg) },
		func() error { return config.Load(&cacheCfg) },
		func() error { return config.Load(&paddleCfg) },
		func() error { return config.Load(&stripeCfg) },
	} {
		if err := target(); err != nil {
			return err
		}
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if app.AutoMigrate {
		if err := pg.Migrate(ctx, pool, migrations.FS, pgCfg, log); err != nil {
			return err
		}
	}

	probes := map[string]httpserver.Probe{"postgres": pg.Healthcheck(pool)}

	var redisClient *goredis.Client
	if cacheCfg.Backend == "redis" {
		redisClient, err = redis.Connect(ctx, redisCfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Warn("failed to close redis client", logger.Error(err))
			}
		}()
		probes["redis"] = redis.Healthcheck(redisClient)
	}

	registry, err := newUsageRegistry(cacheCfg, redisClient, pool, log)
	if err != nil {
		return err
	}

	resolverOpts := []entitlement.ResolverOption{entitlement.WithLogger(log)}
	switch app.FlagSource {
	case "launchdarkly":
		var ldCfg launchdarkly.Config
		if err := config.Load(&ldCfg); err != nil {
			return err
		}
		flags, err := launchdarkly.New(ldCfg)
		if err != nil {
			return err
		}
		defer func() { _ = flags.Close() }()
		resolverOpts = append(resolverOpts, entitlement.WithCapabilityQuerier(flags))
	case "memory":
		var flagCfg feature.MemoryConfig
		if err := config.Load(&flagCfg); err != nil {
			return err
		}
		flags, err := feature.NewMemoryProviderFromConfig(flagCfg)
		if err != nil {
			return err
		}
		log.Info("feature flags loaded from environment", slog.Int("flags", len(flagCfg.Flags)))
		resolverOpts = append(resolverOpts, entitlement.WithCapabilityQuerier(feature.NewQuerier(flags)))
	case "none", "":
	default:
		return fmt.Errorf("unknown FEATURE_FLAG_SOURCE %q", app.FlagSource)
	}

	catalog, err := plan.NewCatalog(ctx, plan.NewInMemSource(plan.DefaultPlans()))
	if err != nil {
		return err
	}
	resolver := entitlement.NewResolver(catalog, resolverOpts...)

	parser, err := entitlement.NewTokenParser(tokenCfg)
	if err != nil {
		return err
	}

	metricsRegistry := prometheus.NewRegistry()
	metricsRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	gateMetrics, err := gate.NewMetrics(metricsRegistry)
	if err != nil {
		return err
	}
	usageGate := gate.New(resolver,
		gate.WithCounter(registry),
		gate.WithMetrics(gateMetrics),
		gate.WithLogger(log),
	)

	enqueuer, err := queue.NewEnqueuer(queue.NewPostgresStorage(pool))
	if err != nil {
		return err
	}
	dispatcher, err := dispatch.NewDispatcher(resolver, enqueuer, dispatch.WithLogger(log))
	if err != nil {
		return err
	}

	billingHandler, err := newBillingHandler(paddleCfg, stripeCfg, pool, catalog, log)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Get("/healthz", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, probes))
	r.Handle(app.MetricsRoute, promhttp.HandlerFor(metricsRegistry, promhttp.HandlerOpts{}))
	r.Mount("/", api.Router(api.RouterOptions{
		Parser:     parser,
		Resolver:   resolver,
		Gate:       usageGate,
		Dispatcher: dispatcher,
		Billing:    billingHandler,
		Logger:     log,
	}))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	if err := srv.Run(ctx, environment.Middleware(env)(r)); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func newUsageRegistry(cfg usage.CacheConfig, client *goredis.Client, pool *pgxpool.Pool, log *slog.Logger) (*usage.Registry, error) {
	var rc goredis.UniversalClient
	if client != nil {
		rc = client
	}
	snapshots, err := usage.NewCache(cfg, rc)
	if err != nil {
		return nil, fmt.Errorf("usage cache %q: %w", cfg.Backend, err)
	}

	opts := []usage.Option{usage.WithLogger(log)}
	if snapshots != nil {
		opts = append(opts, usage.WithCache(snapshots, cfg.TTL))
	}
	registry := usage.NewRegistry(opts...)
	usage.NewPostgresCounters(pool).Register(registry)
	return registry, nil
}

func newBillingHandler(paddleCfg billing.PaddleConfig, stripeCfg billing.StripeConfig, pool *pgxpool.Pool, catalog *plan.Catalog, log *slog.Logger) (*billing.Handler, error) {
	opts := []billing.HandlerOption{billing.WithLogger(log), billing.WithCatalog(catalog)}
	if paddleCfg.WebhookSecret != "" {
		p, err := billing.NewPaddleProvider(paddleCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, billing.WithProvider(p))
	}
	if stripeCfg.WebhookSecret != "" {
		p, err := billing.NewStripeProvider(stripeCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, billing.WithProvider(p))
	}
	return billing.NewHandler(billing.NewPostgresRoleStore(pool), opts...), nil
}
