package tool

import (
	"sort"
	"strings"
	"sync"
)

// Registry maps tool names to tools. Registration is append/overwrite: the
// last registration for a name wins. Resolution is case-insensitive since
// model-issued call instructions rarely preserve exact casing.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool // keyed by lower-cased name
	names map[string]string
}

// NewRegistry creates an empty Registry, optionally pre-populated.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{
		tools: map[string]Tool{},
		names: map[string]string{},
	}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool, replacing any previous tool with the same name.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToLower(t.Name())
	r.tools[key] = t
	r.names[key] = t.Name()
}

// Resolve returns the tool registered under name (case-insensitive).
func (r *Registry) Resolve(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[strings.ToLower(name)]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Descriptions returns a name -> description map for every registered tool.
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.tools))
	for _, t := range r.tools {
		out[t.Name()] = t.Description()
	}
	return out
}

// Len reports the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}
