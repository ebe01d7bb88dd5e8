package ci

import (
	"sync"

	log "github.com/mablhq/github-run-tests-action/pkg/logger"
)

var (
	providersMu sync.RWMutex
	providers   []Provider
	fallback    Provider
)

// Register registers a CI provider.
// Providers should call this in their init() function. Registering a name twice replaces it.
func Register(p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()

	for i, existing := range providers {
		if existing.Name() == p.Name() {
			providers[i] = p
			return
		}
	}
	providers = append(providers, p)
}

// RegisterFallback sets the provider returned by Detect when no other provider is active.
func RegisterFallback(p Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()

	fallback = p
}

// Detect returns the first registered provider that is active in the current environment,
// or the fallback provider.
func Detect() Provider {
	providersMu.RLock()
	defer providersMu.RUnlock()

	for _, p := range providers {
		if p.Detect() {
			log.Debug("CI provider detected", "provider", p.Name())
			return p
		}
		log.Debug("CI provider not detected", "provider", p.Name())
	}
	return fallback
}
