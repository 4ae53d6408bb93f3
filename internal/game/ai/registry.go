package ai

import (
	"fmt"
	"sort"
)

// Registry maps enemy AI domains to their planners. Templates name a domain
// through ai_domain; enemies whose domain is missing fall back to
// DefaultDomainID.
//
// Invariant: each domain ID is registered at most once.
type Registry struct {
	planners map[string]*Planner
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{planners: make(map[string]*Planner)}
}

// Register builds the planner of one enemy domain. caller may be nil when no
// Lua scripts are loaded; script preconditions then evaluate to false.
//
// Precondition: domain and picker must not be nil.
// Postcondition: returns error on domain ID collision.
func (r *Registry) Register(domain *Domain, caller ScriptCaller, picker Picker) error {
	if _, exists := r.planners[domain.ID]; exists {
		return fmt.Errorf("ai.Registry: domain %q already registered", domain.ID)
	}
	r.planners[domain.ID] = NewPlanner(domain, caller, picker)
	return nil
}

// RegisterAll registers domains in order and stops at the first collision.
func (r *Registry) RegisterAll(domains []*Domain, caller ScriptCaller, picker Picker) error {
	for _, d := range domains {
		if err := r.Register(d, caller, picker); err != nil {
			return err
		}
	}
	return nil
}

// PlannerFor returns the Planner for domainID, or false if not registered.
func (r *Registry) PlannerFor(domainID string) (*Planner, bool) {
	p, ok := r.planners[domainID]
	return p, ok
}

// Resolve returns the planner an enemy of domainID should use. An unknown
// domain resolves to DefaultDomainID and fellBack is true.
//
// Postcondition: ok is false only when neither domainID nor DefaultDomainID is registered.
func (r *Registry) Resolve(domainID string) (id string, p *Planner, fellBack, ok bool) {
	if p, ok := r.planners[domainID]; ok {
		return domainID, p, false, true
	}
	p, ok = r.planners[DefaultDomainID]
	return DefaultDomainID, p, true, ok
}

// Domains lists the registered domain IDs in sorted order.
func (r *Registry) Domains() []string {
	ids := make([]string, 0, len(r.planners))
	for id := range r.planners {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
