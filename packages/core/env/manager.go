package env

import (
	"fmt"
	"sync"
)

// Manager holds the named environments and tracks which one is current.
// Exactly one environment is current at any time (the zero-value manager
// with no environments resolves nothing and leaves placeholders verbatim).
type Manager struct {
	mu       sync.RWMutex
	envs     []*Environment
	current  string
	warnFunc WarnFunc
}

func NewManager(envs ...*Environment) *Manager {
	m := &Manager{}
	for _, e := range envs {
		m.envs = append(m.envs, e.Clone())
	}
	if len(m.envs) > 0 {
		m.current = m.envs[0].Name
	}
	return m
}

// SetWarnFunc sets a callback invoked on unresolved placeholders.
func (m *Manager) SetWarnFunc(fn WarnFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnFunc = fn
}

// List returns the environment names in registration order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.envs))
	for i, e := range m.envs {
		names[i] = e.Name
	}
	return names
}

// Get returns a copy of the named environment.
func (m *Manager) Get(name string) (*Environment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e := m.find(name); e != nil {
		return e.Clone(), true
	}
	return nil, false
}

// Set adds or replaces an environment. Replacing the current environment
// does not mutate in-flight requests; they resolve at dispatch time.
func (m *Manager) Set(environment *Environment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, e := range m.envs {
		if e.Name == environment.Name {
			m.envs[i] = environment.Clone()
			return
		}
	}
	m.envs = append(m.envs, environment.Clone())
	if m.current == "" {
		m.current = environment.Name
	}
}

// SetCurrent switches the current environment. An active collection run is
// unaffected: it resolves against a snapshot taken at run start, so the
// switch takes effect on the next run.
func (m *Manager) SetCurrent(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.find(name) == nil {
		return fmt.Errorf("unknown environment %q", name)
	}
	m.current = name
	return nil
}

// Current returns the name of the current environment.
func (m *Manager) Current() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Snapshot returns a copy of the current environment, or nil when none is
// configured.
func (m *Manager) Snapshot() *Environment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.find(m.current).Clone()
}

// Resolve substitutes placeholders against the current environment.
func (m *Manager) Resolve(template string) string {
	m.mu.RLock()
	environment := m.find(m.current)
	warn := m.warnFunc
	m.mu.RUnlock()
	return ResolveWarn(template, environment, warn)
}

func (m *Manager) find(name string) *Environment {
	for _, e := range m.envs {
		if e.Name == name {
			return e
		}
	}
	return nil
}
