package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testTenant   = "tenant-123"
	testAudience = "api://project-service"
)

var testIssuers = []string{
	"https://login.microsoftonline.com/" + testTenant + "/v2.0",
	"https://sts.windows.net/" + testTenant + "/",
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func keySet(keys map[string]*rsa.PrivateKey) jose.JSONWebKeySet {
	var set jose.JSONWebKeySet
	for kid, key := range keys {
		set.Keys = append(set.Keys, jose.JSONWebKey{
			Key:       &key.PublicKey,
			KeyID:     kid,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		})
	}
	return set
}

func validClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"aud":                testAudience,
		"iss":                testIssuers[0],
		"sub":                "subject-1",
		"tid":                testTenant,
		"preferred_username": "ada@example.com",
		"iat":                now.Unix(),
		"exp":                now.Add(time.Hour).Unix(),
	}
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

// countingSource lets tests swap the served set and observe fetches.
type countingSource struct {
	mu    sync.Mutex
	set   jose.JSONWebKeySet
	err   error
	calls int
}

func (s *countingSource) Fetch(context.Context) (jose.JSONWebKeySet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.set, s.err
}

func (s *countingSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *countingSource) Set(set jose.JSONWebKeySet, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set = set
	s.err = err
}
