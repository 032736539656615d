package checkout

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry hands out one Session per till id, creating it on first use.
type Registry struct {
	deps        Deps
	defaultTill string

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry validates the shared dependencies.
func NewRegistry(deps Deps, defaultTill string) (*Registry, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if deps.Customers == nil {
		return nil, fmt.Errorf("customer lookup required")
	}
	if deps.Employees == nil {
		return nil, fmt.Errorf("employee lookup required")
	}
	if deps.Committer == nil {
		return nil, fmt.Errorf("committer required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(defaultTill) == "" {
		defaultTill = "main"
	}
	return &Registry{
		deps:        deps,
		defaultTill: defaultTill,
		sessions:    map[string]*Session{},
	}, nil
}

// Session returns the session for tillID; blank maps to the default till.
func (r *Registry) Session(tillID string) *Session {
	id := r.Normalize(tillID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := newSession(id, r.deps)
	r.sessions[id] = s
	return s
}

// Normalize trims the till id and applies the default.
func (r *Registry) Normalize(tillID string) string {
	id := strings.TrimSpace(tillID)
	if id == "" {
		return r.defaultTill
	}
	return id
}

// Tills lists the till ids with a session, sorted.
func (r *Registry) Tills() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
