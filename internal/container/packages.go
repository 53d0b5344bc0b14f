package container

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/events"
	"github.com/naturl/naturl/internal/filter"
	"github.com/naturl/naturl/internal/handlers"
	"github.com/naturl/naturl/internal/ideas"
	"github.com/naturl/naturl/internal/middleware"
	"github.com/naturl/naturl/internal/ratelimit"
	"github.com/naturl/naturl/internal/safety"
	"github.com/naturl/naturl/internal/shortener"
	"github.com/naturl/naturl/internal/store"
)

// Named limiter services.
const (
	limiterGlobal = "limiter.global"
	limiterClient = "limiter.client"
	limiterIdeas  = "limiter.ideas"
)

const bloomFalsePositiveRate = 0.01

// SafetyPackage provides the URL safety checker. Without an API key the
// gate is an allow-all stub, which is logged loudly at startup.
func SafetyPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (safety.Checker, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)

		if opts.SafeBrowsingKey == "" {
			logger.Warn("no safe browsing key configured, URL safety checking is disabled")

			return safety.NewStaticChecker(true), nil
		}

		return safety.NewSafeBrowsingChecker(
			opts.SafeBrowsingKey,
			safety.WithTimeout(opts.safetyTimeout()),
		), nil
	})
}

// RateLimitPackage provides the shared counter store, the limiters, and
// the key hasher.
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Store, error) {
		client := do.MustInvoke[*redis.Client](i)

		return store.NewRedisCounterStore(client), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.KeyHasher, error) {
		opts := do.MustInvoke[*Options](i)

		return ratelimit.NewKeyHasher(opts.ClientSalt), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		counters := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewPolicyLimiter(counters), nil
	})

	do.ProvideNamed(injector, limiterGlobal, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		counters := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewFixedWindowLimiter(counters, "shorten.global", opts.GlobalPerMinute, time.Minute), nil
	})

	do.ProvideNamed(injector, limiterClient, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		counters := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewFixedWindowLimiter(counters, "shorten.client", opts.ShortenPerMinute, time.Minute), nil
	})

	do.ProvideNamed(injector, limiterIdeas, func(i *do.Injector) (ratelimit.Limiter, error) {
		opts := do.MustInvoke[*Options](i)
		counters := do.MustInvoke[ratelimit.Store](i)

		return ratelimit.NewFixedWindowLimiter(counters, "ideas.client", opts.IdeasPerDay, 24*time.Hour), nil
	})
}

// RepositoryPackage provides the mapping store (cache-decorated), the
// existence filter, and the domain services.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (shortener.Store, error) {
		opts := do.MustInvoke[*Options](i)
		pool := do.MustInvoke[*pgxpool.Pool](i)
		client := do.MustInvoke[*redis.Client](i)

		return store.NewResolveCache(store.NewPostgresStore(pool), client, opts.resolveCacheTTL()), nil
	})

	do.Provide(injector, func(i *do.Injector) (*filter.BloomFilter, error) {
		opts := do.MustInvoke[*Options](i)
		mappings := do.MustInvoke[shortener.Store](i)

		bloomFilter := filter.NewBloomFilter(opts.BloomCapacity, bloomFalsePositiveRate)
		if err := bloomFilter.Seed(context.Background(), mappings); err != nil {
			return nil, fmt.Errorf("seeding existence filter: %w", err)
		}

		return bloomFilter, nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		opts := do.MustInvoke[*Options](i)

		generate, err := shortener.NewGenerator(opts.CodeLength)
		if err != nil {
			return nil, err
		}

		return shortener.NewService(shortener.Config{
			Store:     do.MustInvoke[shortener.Store](i),
			Generate:  generate,
			Safety:    do.MustInvoke[safety.Checker](i),
			Global:    do.MustInvokeNamed[ratelimit.Limiter](i, limiterGlobal),
			PerClient: do.MustInvokeNamed[ratelimit.Limiter](i, limiterClient),
			Filter:    do.MustInvoke[*filter.BloomFilter](i),
			SelfHost:  opts.SelfHost(),
			Logger:    do.MustInvoke[*zap.Logger](i),
		}), nil
	})

	do.Provide(injector, func(i *do.Injector) (*shortener.Resolver, error) {
		return shortener.NewResolver(
			do.MustInvoke[shortener.Store](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(injector, func(i *do.Injector) (ideas.Store, error) {
		pool := do.MustInvoke[*pgxpool.Pool](i)

		return store.NewIdeasPostgresStore(pool), nil
	})

	do.Provide(injector, func(i *do.Injector) (*ideas.Service, error) {
		return ideas.NewService(
			do.MustInvoke[ideas.Store](i),
			do.MustInvokeNamed[ratelimit.Limiter](i, limiterIdeas),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
}

// PublisherGroupPackage provides the event publisher over Redis
// Streams and the typed publish functions.
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*events.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)

		publisher, err := redisstream.NewPublisher(
			redisstream.PublisherConfig{Client: client},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}

		return events.NewPublisherGroup(publisher), nil
	})

	do.Provide(injector, func(i *do.Injector) (events.Publish[events.LinkCreatedEvent], error) {
		group := do.MustInvoke[*events.PublisherGroup](i)

		return events.NewPublishFunc[events.LinkCreatedEvent](group.Publisher(), events.TopicLinkCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (events.Publish[events.LinkResolvedEvent], error) {
		group := do.MustInvoke[*events.PublisherGroup](i)

		return events.NewPublishFunc[events.LinkResolvedEvent](group.Publisher(), events.TopicLinkResolved), nil
	})
}

// ConsumerGroupPackage provides the audit consumer group used by
// cmd/consumer.
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*events.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		subscriber, err := redisstream.NewSubscriber(
			redisstream.SubscriberConfig{
				Client:        client,
				ConsumerGroup: "naturl-audit",
			},
			watermill.NewStdLogger(false, false),
		)
		if err != nil {
			return nil, err
		}

		audit := events.NewAuditLog(logger)

		group := events.NewConsumerGroup(subscriber, logger)
		group.Add(events.NewConsumer(subscriber, events.TopicLinkCreated, audit.HandleLinkCreated, logger))
		group.Add(events.NewConsumer(subscriber, events.TopicLinkResolved, audit.HandleLinkResolved, logger))

		return group, nil
	})
}

// HTTPPackage provides the router and the huma API with all operations
// and middleware registered.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(middleware.SecureHeaders)

		return router, nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		logger := do.MustInvoke[*zap.Logger](i)
		router := do.MustInvoke[*chi.Mux](i)

		api := humachi.New(router, huma.DefaultConfig("naturl", "1.0.0"))

		api.UseMiddleware(
			middleware.RequestMeta(api, do.MustInvoke[*ratelimit.KeyHasher](i)),
			middleware.RateLimiter(api, do.MustInvoke[*ratelimit.PolicyLimiter](i), logger),
		)

		linkHandler := handlers.NewLinkHandler(
			do.MustInvoke[*shortener.Service](i),
			do.MustInvoke[*shortener.Resolver](i),
			do.MustInvoke[shortener.Store](i),
			opts.BaseURL,
			do.MustInvoke[events.Publish[events.LinkCreatedEvent]](i),
			do.MustInvoke[events.Publish[events.LinkResolvedEvent]](i),
			logger,
		)

		ideaHandler := handlers.NewIdeaHandler(do.MustInvoke[*ideas.Service](i))

		healthHandler := handlers.NewHealthHandler(
			handlers.NewRedisPinger(do.MustInvoke[*redis.Client](i)),
			handlers.NewPostgresPinger(do.MustInvoke[*pgxpool.Pool](i)),
		)

		handlers.RegisterRoutes(api, linkHandler, ideaHandler, healthHandler, handlers.DefaultRouteLimits())

		return api, nil
	})
}
