// Package safety gates shortening on an external URL reputation check.
package safety

import "context"

// Checker reports whether a URL is safe to shorten. Callers treat an
// error as a rejection (fail-closed), never as an approval.
type Checker interface {
	IsSafe(ctx context.Context, rawURL string) (bool, error)
}

// StaticChecker returns a fixed verdict. Deployments without a
// reputation API key run with an allow-all instance; tests use both.
type StaticChecker struct {
	safe bool
}

// NewStaticChecker creates a checker that always answers verdict.
func NewStaticChecker(verdict bool) *StaticChecker {
	return &StaticChecker{safe: verdict}
}

func (c *StaticChecker) IsSafe(_ context.Context, _ string) (bool, error) {
	return c.safe, nil
}
