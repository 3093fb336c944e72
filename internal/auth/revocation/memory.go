package revocation

import (
	"context"
	"sync"
	"time"

	"github.com/northbndlabs/gatekeeper/pkg/cryptox"
)

// Memory is an in-process revocation list backed by a mutex-guarded map of
// token fingerprints to token expiries. Suitable for single-node
// deployments; entries survive until Prune drops them.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]time.Time)}
}

func (m *Memory) Add(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[cryptox.FingerprintToken(token)] = expiresAt
	return nil
}

func (m *Memory) Contains(_ context.Context, token string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.entries[cryptox.FingerprintToken(token)]
	return ok, nil
}

// Prune drops entries whose token expiry has passed. A revoked token past
// its expiry fails signature/expiry verification regardless, so pruning
// never changes observable behavior for live tokens. Returns the number of
// entries removed.
func (m *Memory) Prune(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	var dropped int
	for fp, exp := range m.entries {
		if !exp.IsZero() && now.After(exp) {
			delete(m.entries, fp)
			dropped++
		}
	}
	return dropped
}

// Len reports the current number of revoked entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
