package handlers

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/naturl/naturl/internal/ratelimit"
)

// RouteLimits configures the middleware-enforced quotas. The shorten
// endpoint is absent on purpose: its quotas run inside the service so
// validation happens first.
type RouteLimits struct {
	Redirect   []ratelimit.LimitConfig
	IdeaSubmit []ratelimit.LimitConfig
}

// DefaultRouteLimits matches the reference quotas: generous reads on
// the redirect path and five idea submissions per client per day.
func DefaultRouteLimits() RouteLimits {
	return RouteLimits{
		Redirect: []ratelimit.LimitConfig{
			{Window: time.Minute, Max: 1000},
		},
		IdeaSubmit: []ratelimit.LimitConfig{
			{Window: 24 * time.Hour, Max: 5},
		},
	}
}

// RegisterRoutes registers every operation with its rate limit
// metadata.
func RegisterRoutes(
	api huma.API,
	links *LinkHandler,
	ideaHandler *IdeaHandler,
	health *HealthHandler,
	limits RouteLimits,
) {
	huma.Register(api, huma.Operation{
		OperationID: "create-short-link",
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short link",
		Description: "Validates, safety-checks, and allocates a short code for a URL. Resubmitting the same URL returns the existing code.",
		Tags:        []string{"Links"},
	}, links.CreateShortLink)

	huma.Register(api, huma.Operation{
		OperationID: "home",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Home fallback",
		Description: "A bare hit on the short-link domain carries no code and redirects to the home page, same as an unknown code.",
		Tags:        []string{"Links"},
	}, links.Home)

	huma.Register(api, huma.Operation{
		OperationID: "resolve-short-link",
		Method:      http.MethodGet,
		Path:        "/{code}",
		Summary:     "Redirect to original URL",
		Description: "Permanently redirects to the original URL. Unknown codes redirect to the home page.",
		Tags:        []string{"Links"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: limits.Redirect},
		},
	}, links.Redirect)

	huma.Register(api, huma.Operation{
		OperationID: "get-stats",
		Method:      http.MethodGet,
		Path:        "/stats",
		Summary:     "Link count",
		Tags:        []string{"Links"},
	}, links.Stats)

	huma.Register(api, huma.Operation{
		OperationID: "list-ideas",
		Method:      http.MethodGet,
		Path:        "/ideas",
		Summary:     "List ideas",
		Tags:        []string{"Ideas"},
	}, ideaHandler.ListIdeas)

	huma.Register(api, huma.Operation{
		OperationID: "submit-idea",
		Method:      http.MethodPost,
		Path:        "/ideas",
		Summary:     "Submit an idea",
		Tags:        []string{"Ideas"},
		Metadata: map[string]any{
			ratelimit.MetadataKey: ratelimit.EndpointConfig{Limits: limits.IdeaSubmit},
		},
	}, ideaHandler.SubmitIdea)

	huma.Register(api, huma.Operation{
		OperationID: "vote-idea",
		Method:      http.MethodPost,
		Path:        "/ideas/vote",
		Summary:     "Vote on an idea",
		Tags:        []string{"Ideas"},
	}, ideaHandler.VoteIdea)

	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Ops"},
	}, health.Check)
}
