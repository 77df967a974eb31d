// Package vars implements the variable namespace backing selector
// templates: flattened pattern templates (pattern.*), configuration
// (config.*), process environment passthrough (env.*), and transient
// per-resolution context (loc.auto.*, held in a Scope).
package vars

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// Pre-compiled placeholder pattern for template substitution.
var placeholderRegex = regexp.MustCompile(`#\{([^{}]+)\}`)

// EnvPrefix marks keys that bypass the store and read the process
// environment directly.
const EnvPrefix = "env."

// Store is the process-wide variable namespace. The pattern.* and
// config.* tiers are written once at load time and read-only afterwards;
// all reads are safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value for key. A key with the env. prefix reads the
// process environment instead of the store. A missing key yields the bare
// key name, or the empty string when emptyIfMissing is set, so templates
// degrade gracefully when context is absent.
func (s *Store) Get(key string, emptyIfMissing bool) string {
	if strings.HasPrefix(key, EnvPrefix) {
		return os.Getenv(strings.TrimPrefix(key, EnvPrefix))
	}

	s.mu.RLock()
	v, ok := s.values[key]
	s.mu.RUnlock()
	if ok {
		return v
	}
	if emptyIfMissing {
		return ""
	}
	return key
}

// Has reports whether key is present in the store.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

func (s *Store) Set(key, value string) {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
}

// DeletePrefix removes every key under prefix. Used by the pattern loader
// to enforce last-write-wins on duplicate screen codes without leaving
// stale template keys behind.
func (s *Store) DeletePrefix(prefix string) {
	s.mu.Lock()
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			delete(s.values, k)
		}
	}
	s.mu.Unlock()
}

// Substitute replaces every #{key} occurrence in template in a single
// left-to-right pass. Substituted values are never re-scanned: a value
// that itself contains #{...} stays literal, which keeps the operation
// idempotent and rules out recursive expansion. Missing keys substitute
// to the empty string.
func (s *Store) Substitute(template string) string {
	return substitute(template, func(key string) string {
		return s.Get(key, true)
	})
}

func substitute(template string, lookup func(string) string) string {
	if !strings.Contains(template, "#{") {
		return template
	}
	return placeholderRegex.ReplaceAllStringFunc(template, func(match string) string {
		key := match[2 : len(match)-1]
		return lookup(key)
	})
}

// Scope is a call-scoped overlay on a Store holding the transient
// loc.auto.* variables of one resolution attempt. Writes land in the
// scope only, so concurrent resolutions never observe each other's
// context; dropping or resetting the scope discards them.
type Scope struct {
	store *Store
	local map[string]string
}

func NewScope(store *Store) *Scope {
	return &Scope{store: store, local: make(map[string]string)}
}

// Get resolves key against the scope first, then the underlying store.
func (sc *Scope) Get(key string, emptyIfMissing bool) string {
	if v, ok := sc.local[key]; ok {
		return v
	}
	return sc.store.Get(key, emptyIfMissing)
}

func (sc *Scope) Set(key, value string) {
	sc.local[key] = value
}

// Reset clears every scope-local variable. Called on each terminal state
// of a resolution so no loc.auto.* value leaks into the next call.
func (sc *Scope) Reset() {
	sc.local = make(map[string]string)
}

// Substitute is Store.Substitute with the scope's local variables taking
// precedence. Same single-pass, non-recursive contract.
func (sc *Scope) Substitute(template string) string {
	return substitute(template, func(key string) string {
		return sc.Get(key, true)
	})
}
