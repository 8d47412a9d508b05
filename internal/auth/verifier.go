package auth

import (
	"context"
	"errors"
	"slices"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const signingAlgorithm = "RS256"

var errInvalidIssuer = errors.New("invalid issuer")

// Verifier validates bearer tokens issued by the identity provider.
type Verifier struct {
	keys    KeyLookup
	issuers []string
	parser  *jwt.Parser
	logger  *zap.Logger
}

// NewVerifier builds a verifier accepting RS256 tokens for audience from any of issuers.
func NewVerifier(keys KeyLookup, audience string, issuers []string, logger *zap.Logger) *Verifier {
	return &Verifier{
		keys:    keys,
		issuers: issuers,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{signingAlgorithm}),
			jwt.WithAudience(audience),
		),
		logger: logger,
	}
}

// Verify checks token and returns its claims. An empty token means none was presented.
// When required is false every failure yields (nil, nil) so callers can treat the request
// as anonymous; when true failures are returned as *AuthError.
func (v *Verifier) Verify(ctx context.Context, token string, required bool) (Claims, error) {
	if token == "" {
		if required {
			return nil, ErrAuthenticationRequired
		}
		return nil, nil
	}

	claims, err := v.verify(ctx, token)
	if err != nil {
		if required {
			return nil, err
		}
		v.logger.Debug("ignoring invalid bearer token", zap.String("reason", err.Message))
		return nil, nil
	}
	return claims, nil
}

func (v *Verifier) verify(ctx context.Context, token string) (Claims, *AuthError) {
	unverified, _, err := v.parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil, invalidToken(err)
	}

	kid, _ := unverified.Header["kid"].(string)
	key, ok := v.keys.Lookup(ctx, kid)
	if !ok {
		return nil, ErrInvalidSigningKey
	}

	claims := jwt.MapClaims{}
	if _, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return key, nil
	}); err != nil {
		return nil, invalidToken(err)
	}

	issuer, err := claims.GetIssuer()
	if err != nil {
		return nil, invalidToken(err)
	}
	if !slices.Contains(v.issuers, issuer) {
		return nil, invalidToken(errInvalidIssuer)
	}
	return Claims(claims), nil
}
