package scanner

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"RoboticsDaily/internal/domain"
)

// DefaultLimit caps how many stubs a strategy returns per source.
const DefaultLimit = 20

// Request carries all parameters required to scan one source.
type Request struct {
	SiteName string
	URL      string
	BaseURL  string
	Limit    int
	Options  map[string]string
}

// MaxItems returns the effective stub limit.
func (r Request) MaxItems() int {
	if r.Limit <= 0 {
		return DefaultLimit
	}
	return r.Limit
}

// Option returns an option value or fallback when unset.
func (r Request) Option(key, fallback string) string {
	if v, ok := r.Options[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Scanner captures a single strategy implementation (RSS, NVIDIA blog, etc.).
type Scanner interface {
	Name() string
	Scan(ctx context.Context, req Request) ([]domain.Stub, error)
}

// Registry keeps a mapping from scanner names to their implementations.
type Registry struct {
	scanners map[string]Scanner
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{scanners: map[string]Scanner{}}
}

// Register adds or replaces a scanner implementation.
func (r *Registry) Register(scanner Scanner) {
	if r.scanners == nil {
		r.scanners = map[string]Scanner{}
	}
	r.scanners[scanner.Name()] = scanner
}

// Resolve returns a scanner by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Scanner, error) {
	if scanner, ok := r.scanners[name]; ok {
		return scanner, nil
	}
	return nil, fmt.Errorf("scanner %s is not registered (known: %s)", name, strings.Join(r.Names(), ", "))
}

// Names lists registered strategies in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scanners))
	for name := range r.scanners {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
