package capability

// Registry maps capability kinds to their providers. It replaces runtime
// probing of global names: providers are registered explicitly at startup
// and resolution is a plain lookup.
type Registry struct {
	providers map[Kind]Provider
}

func NewRegistry() *Registry {
	return &Registry{
		providers: make(map[Kind]Provider),
	}
}

// Register binds a provider to a kind, replacing any previous binding.
// A nil provider unregisters the kind.
func (r *Registry) Register(kind Kind, provider Provider) {
	if provider == nil {
		delete(r.providers, kind)
		return
	}
	r.providers[kind] = provider
}

// Resolve returns the provider for kind, or nil when none is registered.
// It never fails; absence of a capability is not exceptional.
func (r *Registry) Resolve(kind Kind) Provider {
	if r == nil {
		return nil
	}
	return r.providers[kind]
}

// Kinds lists the registered capability kinds.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.providers))
	for kind := range r.providers {
		kinds = append(kinds, kind)
	}
	return kinds
}
