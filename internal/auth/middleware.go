package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/project-service/pkg/util"
)

const bearerPrefix = "Bearer "

// TokenVerifier is the subset of Verifier the context builder depends on.
type TokenVerifier interface {
	Verify(ctx context.Context, token string, required bool) (Claims, error)
}

// ContextBuilder attaches the caller's claims to the request context before GraphQL execution.
type ContextBuilder struct {
	verifier     TokenVerifier
	requireToken bool
}

// NewContextBuilder constructs the middleware. With requireToken set, requests without a
// valid bearer token are rejected with 401; otherwise they continue with no user attached
// and each resolver enforces its own policy.
func NewContextBuilder(verifier TokenVerifier, requireToken bool) *ContextBuilder {
	return &ContextBuilder{verifier: verifier, requireToken: requireToken}
}

// Handle verifies the bearer token, if any, and stores the claims in the user context.
func (b *ContextBuilder) Handle(c *fiber.Ctx) error {
	token := BearerToken(c.Get(fiber.HeaderAuthorization))

	claims, err := b.verifier.Verify(c.UserContext(), token, b.requireToken)
	if err != nil {
		return apperrors.NewUnauthorized(err.Error())
	}
	if claims != nil {
		c.SetUserContext(WithClaims(c.UserContext(), claims))
	}
	return c.Next()
}

// BearerToken extracts the credential from an Authorization header value.
// The "Bearer " prefix is matched case-sensitively; anything else yields "".
func BearerToken(header string) string {
	token, found := strings.CutPrefix(header, bearerPrefix)
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}
