package handlers

import (
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/naturl/naturl/internal/ideas"
	"github.com/naturl/naturl/internal/shortener"
	"github.com/naturl/naturl/internal/validate"
)

// mapError translates domain errors into client-facing huma errors with
// stable messages. Internal failure detail (driver errors, stack
// traces) never reaches the client.
func mapError(err error) error {
	var validationErr *validate.Error
	if errors.As(err, &validationErr) {
		return huma.Error400BadRequest(validationErr.Error())
	}

	switch {
	case errors.Is(err, shortener.ErrRateLimited):
		return huma.NewError(http.StatusTooManyRequests, "rate limit exceeded, please try again later")
	case errors.Is(err, ideas.ErrRateLimited):
		return huma.NewError(http.StatusTooManyRequests, "you have reached your daily limit for submitting ideas")
	case errors.Is(err, shortener.ErrUnsafeURL):
		return huma.Error403Forbidden("url_unsafe: this URL is flagged as unsafe")
	case errors.Is(err, shortener.ErrSafetyUnavailable):
		return huma.Error403Forbidden("safety_unavailable: the URL could not be verified as safe")
	case errors.Is(err, shortener.ErrSelfReference):
		return huma.Error403Forbidden("self_reference: links to this service cannot be shortened")
	case errors.Is(err, shortener.ErrCodeTaken):
		return huma.Error409Conflict("short code is already taken")
	case errors.Is(err, ideas.ErrDuplicateVote):
		return huma.Error409Conflict("you have already cast this vote")
	case errors.Is(err, ideas.ErrIdeaNotFound):
		return huma.Error404NotFound("idea not found")
	case errors.Is(err, shortener.ErrAllocationExhausted):
		return huma.Error500InternalServerError("unable to generate a unique short code, please try again")
	default:
		return huma.Error500InternalServerError("an unexpected error occurred, please try again")
	}
}
