package status

import (
	"fmt"
	"sort"
)

// Active tracks one applied status on a fighter.
type Active struct {
	Def               *Def
	Stacks            int
	DurationRemaining int // -1 = permanent
}

// ActiveSet tracks all statuses currently applied to one fighter.
// It is not safe for concurrent use; the fight scheduler serialises access.
type ActiveSet struct {
	statuses map[string]*Active
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{statuses: make(map[string]*Active)}
}

// Apply adds or refreshes a status on this fighter.
// Re-applying increments stacks (capped at MaxStacks; unstackable stays at 1)
// and keeps the longer of the two durations.
// duration counts the owner's upcoming turn starts; use -1 for permanent.
//
// Precondition: def must not be nil.
// Postcondition: Has(def.ID) is true.
func (s *ActiveSet) Apply(def *Def, stacks, duration int) error {
	if def == nil {
		return fmt.Errorf("Apply: def must not be nil")
	}
	if def.DurationType == DurationPermanent {
		duration = -1
	}

	if existing, ok := s.statuses[def.ID]; ok {
		if def.MaxStacks > 0 {
			existing.Stacks = min(existing.Stacks+stacks, def.MaxStacks)
		}
		if duration < 0 || (existing.DurationRemaining >= 0 && duration > existing.DurationRemaining) {
			existing.DurationRemaining = duration
		}
		return nil
	}

	effective := 1
	if def.MaxStacks > 0 {
		effective = min(max(stacks, 1), def.MaxStacks)
	}
	s.statuses[def.ID] = &Active{
		Def:               def,
		Stacks:            effective,
		DurationRemaining: duration,
	}
	return nil
}

// Remove deletes the status with the given ID. Removing an absent status is a no-op.
func (s *ActiveSet) Remove(id string) {
	delete(s.statuses, id)
}

// Tick decrements every timed status and removes the ones that reach 0.
// Called once at the start of the owner's turn.
//
// Postcondition: For every id in the returned slice, Has(id) is false.
func (s *ActiveSet) Tick() []string {
	var expired []string
	for id, a := range s.statuses {
		if a.DurationRemaining < 0 {
			continue
		}
		a.DurationRemaining--
		if a.DurationRemaining <= 0 {
			expired = append(expired, id)
			delete(s.statuses, id)
		}
	}
	sort.Strings(expired)
	return expired
}

// Has reports whether the status with id is currently active.
func (s *ActiveSet) Has(id string) bool {
	_, ok := s.statuses[id]
	return ok
}

// Stacks returns the current stack count for status id, or 0 if not present.
func (s *ActiveSet) Stacks(id string) int {
	if a, ok := s.statuses[id]; ok {
		return a.Stacks
	}
	return 0
}

// All returns the active statuses sorted by ID.
// The pointed-to values are shared; callers must not modify them.
func (s *ActiveSet) All() []*Active {
	out := make([]*Active, 0, len(s.statuses))
	for _, a := range s.statuses {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Def.ID < out[j].Def.ID })
	return out
}
