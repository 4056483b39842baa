package cart

import (
	"sync/atomic"

	"storefront/internal/domain"
)

// cartState pairs a snapshot with the membership index computed from it.
// A cartState is never modified after it is published.
type cartState struct {
	snapshot domain.CartSnapshot
	members  map[string]int // productID -> index of first matching line item
}

// Store holds the committed cart snapshot for one session.
// Replace is called only by the reconciliation Service; reads never block.
type Store struct {
	state atomic.Pointer[cartState]
}

// NewStore returns a Store holding an empty snapshot.
func NewStore() *Store {
	s := &Store{}
	s.Replace(domain.CartSnapshot{})
	return s
}

// Replace swaps snapshot and membership index in a single step.
func (s *Store) Replace(snap domain.CartSnapshot) {
	snap = snap.Clone()
	members := make(map[string]int, len(snap.LineItems))
	for i, li := range snap.LineItems {
		if _, ok := members[li.ProductID]; !ok {
			members[li.ProductID] = i
		}
	}
	s.state.Store(&cartState{snapshot: snap, members: members})
}

// Snapshot returns a copy of the committed snapshot.
func (s *Store) Snapshot() domain.CartSnapshot {
	return s.state.Load().snapshot.Clone()
}

// IsMember reports whether productID has a line item in the committed snapshot.
func (s *Store) IsMember(productID string) bool {
	_, ok := s.state.Load().members[productID]
	return ok
}

// Membership is IsMember as the tagged button state.
func (s *Store) Membership(productID string) domain.Membership {
	return domain.MembershipOf(s.IsMember(productID))
}

// LineItemFor resolves productID to its first line item.
func (s *Store) LineItemFor(productID string) (domain.LineItem, bool) {
	st := s.state.Load()
	idx, ok := st.members[productID]
	if !ok {
		return domain.LineItem{}, false
	}
	return st.snapshot.LineItems[idx], true
}

// View is a snapshot together with the membership answers derived from it.
type View struct {
	Snapshot domain.CartSnapshot
	members  map[string]int
}

// IsMember answers against the snapshot this View was taken from.
func (v View) IsMember(productID string) bool {
	_, ok := v.members[productID]
	return ok
}

// Membership is IsMember as the tagged button state.
func (v View) Membership(productID string) domain.Membership {
	return domain.MembershipOf(v.IsMember(productID))
}

// View returns the snapshot and membership index from one committed state.
func (s *Store) View() View {
	st := s.state.Load()
	return View{Snapshot: st.snapshot.Clone(), members: st.members}
}
