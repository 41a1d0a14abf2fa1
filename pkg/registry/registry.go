// Package registry holds the languages discovered from a Compiler Explorer
// instance and resolves them by id or display name.
//
// A Registry is filled once during discovery and read many times
// afterwards. Lookups return the first match in insertion order, so the
// order of GET /languages decides which language wins on duplicate ids.
package registry

import (
	"iter"
	"slices"
	"sync"

	"github.com/matzehuels/godbolt/pkg/errors"
	"github.com/matzehuels/godbolt/pkg/models"
)

// Registry is an ordered, append-only collection of languages.
//
// The zero value is an empty registry ready for use. A Registry is safe
// for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	languages []*models.Language
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{}
}

// Add appends lang. Nil languages and languages without an id are rejected,
// so every language in the registry is addressable.
func (r *Registry) Add(lang *models.Language) error {
	if lang == nil {
		return errors.New(errors.ErrCodeInvalidLanguage, "registry: nil language")
	}
	if lang.ID == "" {
		return errors.New(errors.ErrCodeInvalidLanguage, "registry: language %q has no id", lang.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages = append(r.languages, lang)
	return nil
}

// Find returns the first language whose id equals key. When no id matches,
// the first language whose display name equals key is returned instead.
// Matching is exact.
func (r *Registry) Find(key string) (*models.Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.languages {
		if l.ID == key {
			return l, true
		}
	}
	for _, l := range r.languages {
		if l.Name == key {
			return l, true
		}
	}
	return nil, false
}

// FindLanguage returns the first registered language with the same id and
// name as lang.
func (r *Registry) FindLanguage(lang *models.Language) (*models.Language, bool) {
	if lang == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.languages {
		if l.Equal(lang) {
			return l, true
		}
	}
	return nil, false
}

// Contains reports whether key resolves through [Registry.Find].
func (r *Registry) Contains(key string) bool {
	_, ok := r.Find(key)
	return ok
}

// ContainsLanguage reports whether a language with the same id and name is
// registered.
func (r *Registry) ContainsLanguage(lang *models.Language) bool {
	_, ok := r.FindLanguage(lang)
	return ok
}

// All iterates the languages in insertion order.
//
// The sequence is live: each iteration observes the languages present at
// the time each element is reached, including ones added after the
// sequence was created. It can be ranged over any number of times.
func (r *Registry) All() iter.Seq[*models.Language] {
	return func(yield func(*models.Language) bool) {
		for i := 0; ; i++ {
			r.mu.RLock()
			if i >= len(r.languages) {
				r.mu.RUnlock()
				return
			}
			l := r.languages[i]
			r.mu.RUnlock()

			if !yield(l) {
				return
			}
		}
	}
}

// Languages returns a snapshot of the registered languages in insertion
// order. Appending to the registry later does not change the snapshot.
func (r *Registry) Languages() []*models.Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.languages)
}

// Len returns the number of registered languages.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.languages)
}
