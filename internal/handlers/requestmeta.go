package handlers

import "context"

type requestMetaKey struct{}

// RequestMeta holds per-request metadata extracted by middleware.
// ClientKey is the salted hash of the caller's network address; the
// raw address is never carried past the middleware.
type RequestMeta struct {
	ClientKey string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to a context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from a context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}
