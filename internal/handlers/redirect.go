package handlers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/events"
)

// redirectCacheControl allows downstream caches to hold successful
// resolutions for a day; mappings are immutable once created.
const redirectCacheControl = "public, max-age=86400, immutable"

// homePath is where missing and unknown codes land. The fallback is a
// deliberate UX choice: visitors never see an error page for a dead
// short link.
const homePath = "/"

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"a1B2c3" path:"code"`
}

// RedirectResponse redirects to the original URL or the home page.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location     string `doc:"Redirect target"    header:"Location"`
		CacheControl string `doc:"Caching directives" header:"Cache-Control"`
	}
}

// Home answers a bare hit on the short-link domain. There is no code to
// resolve, so it lands on the same fallback unknown codes use instead
// of an error page.
func (h *LinkHandler) Home(_ context.Context, _ *struct{}) (*RedirectResponse, error) {
	resp := &RedirectResponse{Status: http.StatusFound}
	resp.Headers.Location = homePath

	return resp, nil
}

// Redirect resolves a code to its original URL with a permanent
// redirect. Unknown codes and store failures both fall back to the home
// page with a temporary redirect so the response is never cached
// against a code that may be created later.
func (h *LinkHandler) Redirect(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	link, err := h.resolver.Resolve(ctx, req.Code)
	if err != nil {
		h.logger.Debug("redirect fallback", zap.String("code", req.Code), zap.Error(err))

		resp := &RedirectResponse{Status: http.StatusFound}
		resp.Headers.Location = homePath

		return resp, nil
	}

	event := &events.LinkResolvedEvent{
		Code:       req.Code,
		ResolvedAt: time.Now().UTC(),
		Referrer:   RequestMetaFromContext(ctx).Referrer,
	}

	if err := h.publishResolve(event); err != nil {
		h.logger.Error("failed to publish link resolved event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{Status: http.StatusPermanentRedirect}
	resp.Headers.Location = link.OriginalURL
	resp.Headers.CacheControl = redirectCacheControl

	return resp, nil
}
