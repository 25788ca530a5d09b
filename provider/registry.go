package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps gateway type identifiers to account builders
type Registry struct {
	builders map[string]AccountBuilder
	mu       sync.RWMutex
}

// NewRegistry creates a new empty registry
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]AccountBuilder),
	}
}

// Register adds an account builder under its gateway type
func (r *Registry) Register(builder AccountBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[builder.GatewayType()] = builder
}

// Get retrieves the builder of a gateway type
func (r *Registry) Get(gatewayType string) (AccountBuilder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	builder, exists := r.builders[gatewayType]
	if !exists {
		return nil, &UnsupportedGatewayError{GatewayType: gatewayType}
	}

	return builder, nil
}

// Resolve validates cfg against the gateway schema and builds its account.
// It performs no network calls.
func (r *Registry) Resolve(gatewayType string, cfg BankConfig) (Account, error) {
	gatewayType = strings.TrimSpace(gatewayType)
	builder, err := r.Get(gatewayType)
	if err != nil {
		return nil, err
	}

	if err := ValidateConfigFields(gatewayType, cfg.Map(), builder.RequiredConfig()); err != nil {
		return nil, err
	}

	account, err := builder.Build(cfg)
	if err != nil {
		return nil, fmt.Errorf("build %s account: %w", gatewayType, err)
	}
	return account, nil
}

// GatewayTypes returns the registered gateway types in sorted order
func (r *Registry) GatewayTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// DefaultRegistry is the registry gateway packages register into
var DefaultRegistry = NewRegistry()

// Register registers a builder with the default registry
func Register(builder AccountBuilder) {
	DefaultRegistry.Register(builder)
}

// Resolve resolves an account using the default registry
func Resolve(gatewayType string, cfg BankConfig) (Account, error) {
	return DefaultRegistry.Resolve(gatewayType, cfg)
}

// GatewayTypes lists gateway types of the default registry
func GatewayTypes() []string {
	return DefaultRegistry.GatewayTypes()
}
