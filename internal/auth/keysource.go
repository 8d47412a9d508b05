package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/gofiber/fiber/v2"
)

// KeySource produces the identity provider's current signing key set.
type KeySource interface {
	Fetch(ctx context.Context) (jose.JSONWebKeySet, error)
}

// HTTPKeySource downloads a JSON Web Key Set from a discovery URL.
type HTTPKeySource struct {
	url     string
	timeout time.Duration
}

// NewHTTPKeySource builds a source for the given URL.
func NewHTTPKeySource(url string, timeout time.Duration) *HTTPKeySource {
	return &HTTPKeySource{url: url, timeout: timeout}
}

// Fetch performs a single GET against the discovery URL.
func (s *HTTPKeySource) Fetch(ctx context.Context) (jose.JSONWebKeySet, error) {
	var set jose.JSONWebKeySet
	if err := ctx.Err(); err != nil {
		return set, err
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Get(s.url)
	if timeout > 0 {
		agent.Timeout(timeout)
	}
	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return set, fmt.Errorf("fetch key set %s: %w", s.url, errors.Join(errs...))
	}
	if status != fiber.StatusOK {
		return set, fmt.Errorf("fetch key set %s: unexpected status %d", s.url, status)
	}
	if err := json.Unmarshal(body, &set); err != nil {
		return set, fmt.Errorf("decode key set: %w", err)
	}
	return set, nil
}

// StaticKeySource serves a fixed key set.
type StaticKeySource struct {
	Set jose.JSONWebKeySet
}

// Fetch returns the configured set.
func (s StaticKeySource) Fetch(context.Context) (jose.JSONWebKeySet, error) {
	return s.Set, nil
}
