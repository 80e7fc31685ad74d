package lang

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// UnknownLanguageError is returned by ForLanguage for unregistered ids.
type UnknownLanguageError struct {
	ID    string
	Known []string
}

func (e *UnknownLanguageError) Error() string {
	return fmt.Sprintf("unknown language %q (known: %s)", e.ID, strings.Join(e.Known, ", "))
}

// Registry maps language ids to profiles. Profiles are registered once at
// startup; lookups are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewRegistry() *Registry {
	return &Registry{profiles: map[string]Profile{}}
}

// Register adds p. It fails when the id is taken, the descriptor is
// incomplete, or p declares a capability it does not implement.
func (r *Registry) Register(p Profile) error {
	if p == nil {
		return errors.New("lang: nil profile")
	}
	id := strings.TrimSpace(p.ID())
	if id == "" {
		return errors.New("lang: profile id is required")
	}
	d := p.Descriptor()
	if d.FS == nil || d.Template == "" || d.Filename == nil {
		return fmt.Errorf("lang: profile %q: descriptor needs FS, Template and Filename", id)
	}
	for _, c := range p.Capabilities() {
		if !implements(p, c) {
			return fmt.Errorf("lang: profile %q declares %q but does not implement it", id, c)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.profiles[id]; dup {
		return fmt.Errorf("lang: profile %q already registered", id)
	}
	r.profiles[id] = p
	return nil
}

func implements(p Profile, c Capability) bool {
	switch c {
	case CapComment:
		_, ok := p.(Commenter)
		return ok
	case CapDocs:
		_, ok := p.(DocHelper)
		return ok
	case CapPartials:
		_, ok := p.(PartialProvider)
		return ok
	default:
		return false
	}
}

// ForLanguage returns the profile registered under id.
func (r *Registry) ForLanguage(id string) (Profile, error) {
	r.mu.RLock()
	p, ok := r.profiles[id]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownLanguageError{ID: id, Known: r.IDs()}
	}
	return p, nil
}

// IDs returns the registered ids, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.profiles))
	for id := range r.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
