package shortener

import "errors"

var (
	// ErrNotFound is returned when no link exists for a code or URL.
	ErrNotFound = errors.New("link not found")

	// ErrCodeTaken is returned when a short code is already bound to a
	// different URL.
	ErrCodeTaken = errors.New("short code already in use")

	// ErrURLTaken signals that another writer inserted a non-custom
	// mapping for the same URL first. Callers re-read and return the
	// winner's code; this error never reaches clients.
	ErrURLTaken = errors.New("url already mapped by a concurrent writer")

	// ErrRateLimited is returned when a request exceeds its quota.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUnsafeURL is returned when the safety checker flags a URL.
	ErrUnsafeURL = errors.New("url flagged as unsafe")

	// ErrSafetyUnavailable is returned when the safety check itself
	// fails or times out. Shortening is gated on the check, so this is
	// a rejection, not an approval.
	ErrSafetyUnavailable = errors.New("safety check unavailable")

	// ErrSelfReference is returned for URLs pointing at this service.
	ErrSelfReference = errors.New("refusing to shorten a link to this service")

	// ErrAllocationExhausted is returned when the generate-and-check
	// loop hits its attempt cap without finding a free code.
	ErrAllocationExhausted = errors.New("could not allocate a unique short code")
)
