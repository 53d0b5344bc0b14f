package middleware

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/handlers"
	"github.com/naturl/naturl/internal/ratelimit"
)

// RateLimiter returns a huma middleware enforcing the per-endpoint
// quotas attached to operation metadata. Operations without a config
// pass through untouched; the shortening service carries its own
// quotas internally so validation can run first.
func RateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.ConfigFor(ctx)
		if cfg == nil || len(cfg.Limits) == 0 {
			next(ctx)

			return
		}

		route := ""
		if op := ctx.Operation(); op != nil {
			route = op.Path
		}

		clientKey := handlers.RequestMetaFromContext(ctx.Context()).ClientKey

		allowed, exceeded, err := limiter.Allow(ctx.Context(), clientKey, route, *cfg)
		if err != nil {
			logger.Error("rate limit check failed", zap.String("route", route), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if !allowed {
			logger.Warn("rate limit exceeded",
				zap.String("route", route),
				zap.String("method", ctx.Method()),
				zap.Int64("count", exceeded.Count),
				zap.Int64("max", exceeded.Config.Max),
				zap.Duration("window", exceeded.Config.Window),
				zap.String("client_key", clientKey),
			)
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded, please try again later")

			return
		}

		next(ctx)
	}
}
