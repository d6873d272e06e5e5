package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-vendors/identity"
)

// VendorHandler is the protocol-implementation collaborator. The actual API
// clients live outside this module; the registry only guarantees they are
// keyed by canonical identifiers.
type VendorHandler interface {
	Slug() string
}

// HandlerRegistry maps resolved identifiers to vendor protocol handlers.
// The identity resolver's output is the only key it accepts: registering a
// handler whose slug does not resolve to itself is a wiring bug.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string]VendorHandler
	resolver *identity.Resolver
}

func NewHandlerRegistry(resolver *identity.Resolver) *HandlerRegistry {
	if resolver == nil {
		resolver = identity.DefaultResolver()
	}
	return &HandlerRegistry{
		handlers: make(map[string]VendorHandler),
		resolver: resolver,
	}
}

func (r *HandlerRegistry) Register(handler VendorHandler) error {
	if handler == nil {
		return fmt.Errorf("core: vendor handler is nil")
	}
	slug := strings.TrimSpace(handler.Slug())
	if slug == "" {
		return fmt.Errorf("core: vendor handler slug is required")
	}
	resolution, err := r.resolver.Resolve(identity.VendorRef{VendorSlug: slug})
	if err != nil {
		return err
	}
	if canonical := identity.NormalizeName(slug); resolution.Identifier != slug || canonical != slug {
		return fmt.Errorf("core: handler slug %q does not resolve to itself (canonical %q)", slug, canonical)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[slug]; exists {
		return fmt.Errorf("core: vendor handler already registered: %s", slug)
	}
	r.handlers[slug] = handler
	return nil
}

// Lookup resolves the vendor-like record and returns the handler registered
// under the canonical identifier.
func (r *HandlerRegistry) Lookup(ref identity.VendorRef) (VendorHandler, error) {
	resolution, err := r.resolver.Resolve(ref)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	handler, ok := r.handlers[resolution.Identifier]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: no handler for %q", ErrVendorTypeNotFound, resolution.Identifier)
	}
	return handler, nil
}

func (r *HandlerRegistry) Slugs() []string {
	r.mu.RLock()
	slugs := make([]string, 0, len(r.handlers))
	for slug := range r.handlers {
		slugs = append(slugs, slug)
	}
	r.mu.RUnlock()
	sort.Strings(slugs)
	return slugs
}
