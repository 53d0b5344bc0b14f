package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/events"
	"github.com/naturl/naturl/internal/shortener"
)

// LinkHandler handles the shortening, redirect, and stats operations.
type LinkHandler struct {
	service        *shortener.Service
	resolver       *shortener.Resolver
	store          shortener.Store
	baseURL        string
	publishCreated events.Publish[events.LinkCreatedEvent]
	publishResolve events.Publish[events.LinkResolvedEvent]
	logger         *zap.Logger
}

// NewLinkHandler creates the link handler.
func NewLinkHandler(
	service *shortener.Service,
	resolver *shortener.Resolver,
	store shortener.Store,
	baseURL string,
	publishCreated events.Publish[events.LinkCreatedEvent],
	publishResolve events.Publish[events.LinkResolvedEvent],
	logger *zap.Logger,
) *LinkHandler {
	return &LinkHandler{
		service:        service,
		resolver:       resolver,
		store:          store,
		baseURL:        baseURL,
		publishCreated: publishCreated,
		publishResolve: publishResolve,
		logger:         logger,
	}
}

// ShortenRequest is the request body for creating a short link.
type ShortenRequest struct {
	Body struct {
		URL       string `doc:"The URL to shorten"                  example:"https://example.com/very/long/path" json:"url"`
		ShortCode string `doc:"Optional custom short code"          example:"my-link"                            json:"shortCode,omitempty" required:"false"`
	}
}

// ShortenResponse is the response for a successful shortening call.
type ShortenResponse struct {
	Body struct {
		Success   bool   `doc:"Always true on success"  json:"success"`
		ShortCode string `doc:"The allocated short code" example:"a1B2c3"                       json:"shortCode"`
		ShortURL  string `doc:"The full short URL"       example:"https://naturl.link/a1B2c3"   json:"shortUrl"`
		Message   string `doc:"Human-readable outcome"   json:"message"`
	}
}

const (
	msgCreated = "Short URL created successfully."
	msgReused  = "Your short link is ready - it was already created earlier."
)

// CreateShortLink validates, gates, and allocates; reuse of an existing
// mapping is a success that only changes the message.
func (h *LinkHandler) CreateShortLink(ctx context.Context, req *ShortenRequest) (*ShortenResponse, error) {
	meta := RequestMetaFromContext(ctx)

	result, err := h.service.Shorten(ctx, shortener.ShortenRequest{
		URL:        req.Body.URL,
		CustomCode: req.Body.ShortCode,
		ClientKey:  meta.ClientKey,
	})
	if err != nil {
		return nil, mapError(err)
	}

	if !result.Reused {
		event := &events.LinkCreatedEvent{
			Code:        string(result.Link.Code),
			OriginalURL: result.Link.OriginalURL,
			IsCustom:    result.Link.IsCustom,
			CreatedAt:   result.Link.CreatedAt,
			ClientKey:   meta.ClientKey,
		}

		if err := h.publishCreated(event); err != nil {
			h.logger.Error("failed to publish link created event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}

	message := msgCreated
	if result.Reused {
		message = msgReused
	}

	resp := &ShortenResponse{}
	resp.Body.Success = true
	resp.Body.ShortCode = string(result.Link.Code)
	resp.Body.ShortURL = fmt.Sprintf("%s/%s", h.baseURL, result.Link.Code)
	resp.Body.Message = message

	return resp, nil
}
