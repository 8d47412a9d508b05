package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// KeyLookup resolves a key identifier to verification key material.
type KeyLookup interface {
	Lookup(ctx context.Context, kid string) (any, bool)
}

// KeyStore holds the identity provider's public signing keys indexed by key id.
// Reads are safe for concurrent use; Refresh swaps the whole set.
type KeyStore struct {
	source  KeySource
	logger  *zap.Logger
	limiter *rate.Limiter

	mu   sync.RWMutex
	keys map[string]any
}

// NewKeyStore fetches the initial key set and fails if it cannot.
// A positive refreshMinInterval enables refreshing on unknown key ids, at most once per interval.
func NewKeyStore(ctx context.Context, source KeySource, refreshMinInterval time.Duration, logger *zap.Logger) (*KeyStore, error) {
	ks := &KeyStore{source: source, logger: logger}
	if err := ks.Refresh(ctx); err != nil {
		return nil, err
	}
	if refreshMinInterval > 0 {
		ks.limiter = rate.NewLimiter(rate.Every(refreshMinInterval), 1)
		// the initial fetch counts against the budget
		ks.limiter.Allow()
	}
	return ks, nil
}

// Lookup returns the key registered under kid.
func (ks *KeyStore) Lookup(ctx context.Context, kid string) (any, bool) {
	if kid == "" {
		return nil, false
	}
	if key, ok := ks.get(kid); ok {
		return key, true
	}
	if ks.limiter == nil || !ks.limiter.Allow() {
		return nil, false
	}

	ks.logger.Info("unknown signing key id; refreshing key set", zap.String("kid", kid))
	if err := ks.Refresh(ctx); err != nil {
		ks.logger.Warn("key set refresh failed; keeping previous keys", zap.Error(err))
		return nil, false
	}
	return ks.get(kid)
}

// Refresh replaces the held keys with a fresh copy from the source.
// On failure the previous keys stay in place.
func (ks *KeyStore) Refresh(ctx context.Context) error {
	set, err := ks.source.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("refresh signing keys: %w", err)
	}

	keys := make(map[string]any, len(set.Keys))
	for _, jwk := range set.Keys {
		if jwk.KeyID == "" || jwk.Use == "enc" {
			continue
		}
		keys[jwk.KeyID] = jwk.Key
	}

	ks.mu.Lock()
	ks.keys = keys
	ks.mu.Unlock()

	ks.logger.Info("signing keys loaded", zap.Int("count", len(keys)))
	return nil
}

// Len reports how many keys are held.
func (ks *KeyStore) Len() int {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keys)
}

func (ks *KeyStore) get(kid string) (any, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	key, ok := ks.keys[kid]
	return key, ok
}
