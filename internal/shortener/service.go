package shortener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/naturl/naturl/internal/validate"
)

// MaxAllocationAttempts caps the generate-and-check loop. Generated
// codes are short and not cryptographically random, so collisions are
// expected under load; hitting the cap means the code space is under
// real contention and is surfaced as a server error.
const MaxAllocationAttempts = 10

// Limiter gates a request by key. Implementations share their counters
// across serving instances.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// SafetyChecker reports whether a URL is safe to shorten.
type SafetyChecker interface {
	IsSafe(ctx context.Context, rawURL string) (bool, error)
}

// ExistenceFilter answers "might this code already exist". A false
// result is authoritative and skips the store probe; a true result
// still requires one.
type ExistenceFilter interface {
	Test(code string) bool
	Add(code string)
}

// ShortenRequest carries one validated-on-entry shortening attempt.
// ClientKey is the salted hash of the caller's network address, never
// the raw address.
type ShortenRequest struct {
	URL        string
	CustomCode string
	ClientKey  string
}

// Result is the outcome of a successful shortening call. Reused is true
// when an existing mapping was returned instead of inserting a row.
type Result struct {
	Link   *Link
	Reused bool
}

// Config wires a Service.
type Config struct {
	Store     Store
	Generate  Generator
	Safety    SafetyChecker
	Global    Limiter
	PerClient Limiter
	Filter    ExistenceFilter // optional
	SelfHost  string          // canonical host, rejected as a target
	Logger    *zap.Logger
}

// Service orchestrates shortening: validation, rate limits, the safety
// gate, and transactional code allocation, short-circuiting on the
// first failure.
type Service struct {
	store     Store
	generate  Generator
	safety    SafetyChecker
	global    Limiter
	perClient Limiter
	filter    ExistenceFilter
	selfHost  string
	logger    *zap.Logger
}

// NewService creates a shortening service.
func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		store:     cfg.Store,
		generate:  cfg.Generate,
		safety:    cfg.Safety,
		global:    cfg.Global,
		perClient: cfg.PerClient,
		filter:    cfg.Filter,
		selfHost:  strings.ToLower(cfg.SelfHost),
		logger:    logger,
	}
}

// Shorten validates the request, applies quotas and the safety gate,
// then allocates or reuses a code inside one transaction. Exactly one
// row is inserted on the non-reuse success path and zero otherwise.
func (s *Service) Shorten(ctx context.Context, req ShortenRequest) (*Result, error) {
	rawURL, err := validate.URL(req.URL)
	if err != nil {
		return nil, err
	}

	customCode, err := validate.CustomCode(req.CustomCode)
	if err != nil {
		return nil, err
	}

	if err := s.checkLimits(ctx, req.ClientKey); err != nil {
		return nil, err
	}

	if err := s.checkSafety(ctx, rawURL); err != nil {
		return nil, err
	}

	if s.selfHost != "" && validate.Host(rawURL) == s.selfHost {
		return nil, ErrSelfReference
	}

	if customCode != "" {
		return s.allocateCustom(ctx, Code(customCode), rawURL)
	}

	return s.allocateGenerated(ctx, rawURL)
}

func (s *Service) checkLimits(ctx context.Context, clientKey string) error {
	allowed, err := s.global.Allow(ctx, "global")
	if err != nil {
		return fmt.Errorf("global rate limit check: %w", err)
	}

	if !allowed {
		s.logger.Warn("global shorten quota exhausted")

		return ErrRateLimited
	}

	allowed, err = s.perClient.Allow(ctx, clientKey)
	if err != nil {
		return fmt.Errorf("client rate limit check: %w", err)
	}

	if !allowed {
		s.logger.Warn("client shorten quota exhausted", zap.String("client_key", clientKey))

		return ErrRateLimited
	}

	return nil
}

// checkSafety is fail-closed: an error from the checker rejects the
// request. The log line keeps "flagged" distinguishable from
// "checker unavailable" for operators.
func (s *Service) checkSafety(ctx context.Context, rawURL string) error {
	safe, err := s.safety.IsSafe(ctx, rawURL)
	if err != nil {
		s.logger.Warn("safety check unavailable", zap.Error(err))

		return fmt.Errorf("%w: %w", ErrSafetyUnavailable, err)
	}

	if !safe {
		s.logger.Warn("url flagged as unsafe")

		return ErrUnsafeURL
	}

	return nil
}

// allocateGenerated reuses an existing non-custom mapping for the URL
// or inserts a fresh one under a generated code. A late unique-index
// violation means a concurrent writer won a race we could not observe
// inside our snapshot; the transaction is retried (code collision) or
// the winner's row is returned (URL dedup).
func (s *Service) allocateGenerated(ctx context.Context, rawURL string) (*Result, error) {
	for attempt := 0; attempt < MaxAllocationAttempts; attempt++ {
		result, err := s.tryAllocateGenerated(ctx, rawURL)

		switch {
		case err == nil:
			return result, nil
		case errors.Is(err, ErrURLTaken):
			winner, ferr := s.store.FindByURL(ctx, rawURL)
			if ferr != nil {
				return nil, fmt.Errorf("re-reading dedup winner: %w", ferr)
			}

			return &Result{Link: winner, Reused: true}, nil
		case errors.Is(err, ErrCodeTaken):
			continue
		default:
			return nil, err
		}
	}

	s.logger.Error("short code allocation exhausted", zap.Int("attempts", MaxAllocationAttempts))

	return nil, ErrAllocationExhausted
}

func (s *Service) tryAllocateGenerated(ctx context.Context, rawURL string) (*Result, error) {
	var result *Result

	err := s.store.InTx(ctx, func(tx Store) error {
		existing, err := tx.FindByURL(ctx, rawURL)
		if err == nil {
			result = &Result{Link: existing, Reused: true}

			return nil
		}

		if !errors.Is(err, ErrNotFound) {
			return err
		}

		code, err := s.pickFreeCode(ctx, tx)
		if err != nil {
			return err
		}

		link := &Link{
			Code:        code,
			OriginalURL: rawURL,
			IsCustom:    false,
			CreatedAt:   time.Now().UTC(),
		}

		if err := tx.Insert(ctx, link); err != nil {
			return err
		}

		result = &Result{Link: link}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if !result.Reused && s.filter != nil {
		s.filter.Add(string(result.Link.Code))
	}

	return result, nil
}

func (s *Service) pickFreeCode(ctx context.Context, tx Store) (Code, error) {
	for attempt := 0; attempt < MaxAllocationAttempts; attempt++ {
		candidate := Code(s.generate())

		if s.filter != nil && !s.filter.Test(string(candidate)) {
			return candidate, nil
		}

		_, err := tx.FindByCode(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}

		if err != nil {
			return "", err
		}
	}

	s.logger.Error("short code allocation exhausted", zap.Int("attempts", MaxAllocationAttempts))

	return "", ErrAllocationExhausted
}

// allocateCustom inserts a requester-chosen code. An existing row bound
// to the same URL is an idempotent success; bound to a different URL it
// is a conflict the caller must see, since they cannot be silently
// redirected to another code.
func (s *Service) allocateCustom(ctx context.Context, code Code, rawURL string) (*Result, error) {
	var result *Result

	err := s.store.InTx(ctx, func(tx Store) error {
		existing, err := tx.FindByCode(ctx, code)
		if err == nil {
			if existing.OriginalURL == rawURL {
				result = &Result{Link: existing, Reused: true}

				return nil
			}

			return ErrCodeTaken
		}

		if !errors.Is(err, ErrNotFound) {
			return err
		}

		link := &Link{
			Code:        code,
			OriginalURL: rawURL,
			IsCustom:    true,
			CreatedAt:   time.Now().UTC(),
		}

		if err := tx.Insert(ctx, link); err != nil {
			return err
		}

		result = &Result{Link: link}

		return nil
	})

	if errors.Is(err, ErrCodeTaken) {
		// A concurrent writer may have inserted the identical mapping
		// after our existence check; that race is still idempotent.
		existing, ferr := s.store.FindByCode(ctx, code)
		if ferr == nil && existing.OriginalURL == rawURL {
			return &Result{Link: existing, Reused: true}, nil
		}

		return nil, ErrCodeTaken
	}

	if err != nil {
		return nil, err
	}

	if !result.Reused && s.filter != nil {
		s.filter.Add(string(result.Link.Code))
	}

	return result, nil
}
