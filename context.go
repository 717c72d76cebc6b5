package motorauth

import (
	"context"

	"github.com/sr198/motorghar-auth/token"
)

type clientIPContextKey struct{}
type userAgentContextKey struct{}
type identityContextKey struct{}

// WithClientIP attaches the caller's IP address to ctx. Login records it on
// the session it creates.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// WithUserAgent attaches the HTTP User-Agent string to ctx. Login derives
// the session's device descriptor from it.
func WithUserAgent(ctx context.Context, userAgent string) context.Context {
	return context.WithValue(ctx, userAgentContextKey{}, userAgent)
}

// WithIdentity attaches a verified token payload to ctx. The HTTP guard
// calls this after Engine.VerifyAccessToken succeeds.
func WithIdentity(ctx context.Context, p token.Payload) context.Context {
	return context.WithValue(ctx, identityContextKey{}, p)
}

// IdentityFromContext returns the verified identity attached by the guard.
func IdentityFromContext(ctx context.Context) (token.Payload, bool) {
	p, ok := ctx.Value(identityContextKey{}).(token.Payload)
	return p, ok
}

func clientIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}

func userAgentFromContext(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentContextKey{}).(string)
	return ua
}
