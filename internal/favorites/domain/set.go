// Package domain holds the favorite ledger's value types.
package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Entry records that an owner saved a property.
type Entry struct {
	OwnerID    uuid.UUID
	PropertyID uuid.UUID
	CreatedAt  time.Time
}

// Set is one owner's saved property IDs. Lookups are O(1).
type Set map[uuid.UUID]struct{}

// NewSet builds a set from ids, dropping duplicates.
func NewSet(ids ...uuid.UUID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports membership. A nil set contains nothing.
func (s Set) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// IDs returns the members in a stable order.
func (s Set) IDs() []uuid.UUID {
	out := make([]uuid.UUID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
