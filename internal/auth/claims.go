package auth

import "context"

// Claims holds the decoded assertions of a verified token. Lifetime is one request.
type Claims map[string]any

const unknownUser = "Unknown user"

// Username returns the caller's display identity, preferring preferred_username.
func (c Claims) Username() string {
	for _, key := range []string{"preferred_username", "upn", "unique_name"} {
		if v, ok := c[key].(string); ok && v != "" {
			return v
		}
	}
	return unknownUser
}

// Subject returns the sub claim.
func (c Claims) Subject() string {
	v, _ := c["sub"].(string)
	return v
}

// TenantID returns the tid claim. It is passed through only; no isolation is enforced on it.
func (c Claims) TenantID() string {
	v, _ := c["tid"].(string)
	return v
}

type claimsKey struct{}

// WithClaims returns a copy of ctx carrying the authenticated user's claims.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext retrieves the authenticated user, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	if !ok || claims == nil {
		return nil, false
	}
	return claims, true
}
