package handlers

import (
	"context"

	"go.uber.org/zap"
)

// StatsResponse reports how many links have been created.
type StatsResponse struct {
	Headers struct {
		CacheControl string `doc:"Caching directives" header:"Cache-Control"`
	}
	Body struct {
		Count int64 `doc:"Number of stored short links" json:"count"`
	}
}

// Stats returns the total number of stored mappings. The count is
// cacheable for a minute; it is display data, not an exact live value.
func (h *LinkHandler) Stats(ctx context.Context, _ *struct{}) (*StatsResponse, error) {
	count, err := h.store.CountLinks(ctx)
	if err != nil {
		h.logger.Error("failed to count links", zap.Error(err))

		return nil, mapError(err)
	}

	resp := &StatsResponse{}
	resp.Headers.CacheControl = "public, max-age=60, stale-while-revalidate=60"
	resp.Body.Count = count

	return resp, nil
}
