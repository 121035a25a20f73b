package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]Dialect) // canonical names and aliases
	canonical  = make(map[string]struct{})
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// ErrUnknownDialect is returned by Lookup for names nobody registered.
var ErrUnknownDialect = errors.New("unknown dialect")

type aliased interface {
	Aliases() []string
}

// Register registers a dialect, and any aliases it reports, in the global
// registry. Called by dialect implementations in their init() functions.
func Register(d Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	name := strings.ToLower(d.Name())
	dialects[name] = d
	canonical[name] = struct{}{}
	if a, ok := d.(aliased); ok {
		for _, alias := range a.Aliases() {
			dialects[strings.ToLower(alias)] = d
		}
	}
}

// Get returns a dialect by canonical name or alias.
func Get(name string) (Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Lookup is Get with an error naming the registered dialects.
func Lookup(name string) (Dialect, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrDialectRequired
	}
	d, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownDialect, name, strings.Join(List(), ", "))
	}
	return d, nil
}

// MustGet returns a dialect by name and panics if it is not registered.
// Intended for package-level initialization and tests.
func MustGet(name string) Dialect {
	d, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return d
}

// IsReserved reports whether name is a reserved word in d. Dialects that
// do not track reserved words report false.
func IsReserved(d Dialect, name string) bool {
	r, ok := d.(interface{ IsReserved(string) bool })
	return ok && r.IsReserved(name)
}

// SupportsSemiAntiJoin reports whether d spells semi and anti joins
// natively. Dialects that do not say are assumed not to.
func SupportsSemiAntiJoin(d Dialect) bool {
	s, ok := d.(interface{ SupportsSemiAntiJoin() bool })
	return ok && s.SupportsSemiAntiJoin()
}

// SupportsFullJoin reports whether d has FULL JOIN. Dialects that do not
// say are assumed to.
func SupportsFullJoin(d Dialect) bool {
	s, ok := d.(interface{ SupportsFullJoin() bool })
	return !ok || s.SupportsFullJoin()
}

// List returns all registered canonical dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(canonical))
	for name := range canonical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Names returns every name a dialect can be looked up by, aliases
// included (sorted). Used for shell completion.
func Names() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
