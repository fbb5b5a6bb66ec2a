package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/compliance-monitor/pkg/services/config"
	"github.com/de-tools/compliance-monitor/pkg/services/policy"
)

const (
	ModeCLI    = "cli"
	ModeServer = "server"
)

// EngineFactory creates a policy engine from the OPA settings.
type EngineFactory func(settings config.OPASettings) (policy.Engine, error)

// Registry manages policy engine factories by mode.
type Registry interface {
	// Register adds a new engine factory
	Register(mode string, factory EngineFactory) error
	// Create instantiates the engine selected by settings.Mode
	Create(settings config.OPASettings) (policy.Engine, error)
	// ListModes returns the registered modes in sorted order
	ListModes() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[string]EngineFactory
}

func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]EngineFactory),
	}
}

// DefaultRegistry knows the local opa binary and the OPA REST API.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register(ModeCLI, func(s config.OPASettings) (policy.Engine, error) {
		if s.Binary == "" {
			return nil, fmt.Errorf("opa binary path cannot be empty")
		}
		return policy.NewCLIEngine(s.Binary, s.WorkDir), nil
	})
	_ = r.Register(ModeServer, func(s config.OPASettings) (policy.Engine, error) {
		if s.ServerURL == "" {
			return nil, fmt.Errorf("opa server url cannot be empty")
		}
		return policy.NewServerEngine(s.ServerURL), nil
	})
	return r
}

func (r *registry) Register(mode string, factory EngineFactory) error {
	if mode == "" {
		return fmt.Errorf("engine mode cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[mode]; exists {
		return fmt.Errorf("engine mode %q is already registered", mode)
	}

	r.factories[mode] = factory
	return nil
}

func (r *registry) Create(settings config.OPASettings) (policy.Engine, error) {
	r.mu.RLock()
	factory, exists := r.factories[settings.Mode]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("engine mode %q is not registered", settings.Mode)
	}

	return factory(settings)
}

func (r *registry) ListModes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]string, 0, len(r.factories))
	for mode := range r.factories {
		modes = append(modes, mode)
	}
	sort.Strings(modes)
	return modes
}
