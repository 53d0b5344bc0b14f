package middleware

import (
	"net"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/naturl/naturl/internal/handlers"
	"github.com/naturl/naturl/internal/ratelimit"
)

// RequestMeta extracts client metadata and stores it on the request
// context. The client's network address is hashed with the configured
// salt here and discarded; downstream code only ever sees the hash.
func RequestMeta(_ huma.API, hasher *ratelimit.KeyHasher) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		meta := handlers.RequestMeta{
			ClientKey: hasher.Key(clientIP(ctx)),
			UserAgent: ctx.Header("User-Agent"),
			Referrer:  ctx.Header("Referer"),
		}

		newCtx := handlers.ContextWithRequestMeta(ctx.Context(), meta)
		ctx = huma.WithContext(ctx, newCtx)

		next(ctx)
	}
}

// clientIP extracts the client IP, honoring proxy headers.
func clientIP(ctx huma.Context) string {
	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		// First entry is the original client.
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := ctx.Header("X-Real-IP"); xri != "" {
		return xri
	}

	addr := ctx.RemoteAddr()

	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}
