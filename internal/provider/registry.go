package provider

import (
	"context"
	"fmt"
	"sync"

	"kabyar/internal/domain"
	"kabyar/internal/domain/models"
)

// creator builds an adapter by name; satisfied by *Factory. Kept as a
// small interface so tests can install fakes.
type creator interface {
	Create(name string) (Provider, error)
}

// Registry routes requests to provider adapters. Adapters are built
// lazily via the factory and cached for reuse.
type Registry struct {
	factory         creator
	catalog         *Catalog
	defaultProvider string

	mu    sync.RWMutex
	cache map[string]Provider
}

// NewRegistry creates a provider registry.
func NewRegistry(factory creator, catalog *Catalog, defaultProvider string) *Registry {
	if defaultProvider == "" {
		defaultProvider = NameGrok
	}
	return &Registry{
		factory:         factory,
		catalog:         catalog,
		defaultProvider: defaultProvider,
		cache:           make(map[string]Provider),
	}
}

// Get returns the adapter for the given provider name, constructing and
// caching it on first use.
func (r *Registry) Get(name string) (Provider, error) {
	if name == "" {
		name = r.defaultProvider
	}
	if !KnownProvider(name) {
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrValidation, name)
	}

	// Fast path: cache hit under the read lock
	r.mu.RLock()
	if cached, ok := r.cache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	// Another goroutine may have built it while we waited for the lock
	if cached, ok := r.cache[name]; ok {
		return cached, nil
	}

	p, err := r.factory.Create(name)
	if err != nil {
		return nil, err
	}

	r.cache[name] = p
	return p, nil
}

// Catalog exposes the tier mapping, for the models endpoint.
func (r *Registry) Catalog() *Catalog {
	return r.catalog
}

// DefaultProvider returns the provider used when a request names none.
func (r *Registry) DefaultProvider() string {
	return r.defaultProvider
}

// Chat performs a buffered generation: resolves the provider and model
// tier, checks the message list, and forwards to the adapter. Adapter
// failures propagate unclassified.
func (r *Registry) Chat(ctx context.Context, providerName string, msgs []models.Message, modelOrTier string) (*ChatResponse, error) {
	p, req, err := r.prepare(providerName, msgs, modelOrTier)
	if err != nil {
		return nil, err
	}
	return p.Chat(ctx, req)
}

// Stream performs a streaming generation with the same resolution rules
// as Chat. Chunks arrive in vendor-delivery order.
func (r *Registry) Stream(ctx context.Context, providerName string, msgs []models.Message, modelOrTier string) (<-chan StreamChunk, error) {
	p, req, err := r.prepare(providerName, msgs, modelOrTier)
	if err != nil {
		return nil, err
	}
	return p.Stream(ctx, req)
}

func (r *Registry) prepare(providerName string, msgs []models.Message, modelOrTier string) (Provider, *ChatRequest, error) {
	if providerName == "" {
		providerName = r.defaultProvider
	}

	if !hasNonSystemMessage(msgs) {
		return nil, nil, fmt.Errorf("%w: messages must contain at least one non-system message", domain.ErrValidation)
	}

	p, err := r.Get(providerName)
	if err != nil {
		return nil, nil, err
	}

	req := &ChatRequest{
		Messages: msgs,
		Model:    r.catalog.Resolve(providerName, modelOrTier),
	}
	return p, req, nil
}

func hasNonSystemMessage(msgs []models.Message) bool {
	for _, m := range msgs {
		if m.Role != models.RoleSystem {
			return true
		}
	}
	return false
}
