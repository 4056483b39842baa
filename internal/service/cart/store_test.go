package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"storefront/internal/domain"
)

func snapshotOf(productIDs ...string) domain.CartSnapshot {
	snap := domain.CartSnapshot{ID: "cart", LineItems: []domain.LineItem{}}
	for i, pid := range productIDs {
		snap.LineItems = append(snap.LineItems, domain.LineItem{
			ID:        fmt.Sprintf("li-%d", i),
			ProductID: pid,
			Quantity:  1,
		})
	}
	return snap
}

func TestStoreStartsEmpty(t *testing.T) {
	s := NewStore()
	if !s.Snapshot().IsEmpty() {
		t.Fatalf("expected empty snapshot")
	}
	if s.IsMember("p1") {
		t.Fatalf("empty store reports membership")
	}
}

func TestStoreMembershipFollowsLatestReplace(t *testing.T) {
	s := NewStore()
	sequence := [][]string{
		{"p1"},
		{"p1", "p2"},
		{"p2"},
		{},
		{"p3", "p1"},
	}
	universe := []string{"p1", "p2", "p3", "p4"}
	for _, ids := range sequence {
		s.Replace(snapshotOf(ids...))
		for _, pid := range universe {
			want := false
			for _, id := range ids {
				if id == pid {
					want = true
				}
			}
			if got := s.IsMember(pid); got != want {
				t.Fatalf("after replace %v: IsMember(%s) = %v, want %v", ids, pid, got, want)
			}
		}
	}
}

func TestStoreSnapshotIsACopy(t *testing.T) {
	s := NewStore()
	s.Replace(snapshotOf("p1"))
	snap := s.Snapshot()
	snap.LineItems[0].ProductID = "mutated"

	if diff := cmp.Diff(snapshotOf("p1"), s.Snapshot()); diff != "" {
		t.Fatalf("stored snapshot changed (-want +got):\n%s", diff)
	}
}

func TestStoreReplaceCopiesInput(t *testing.T) {
	s := NewStore()
	in := snapshotOf("p1")
	s.Replace(in)
	in.LineItems[0].ProductID = "mutated"
	if !s.IsMember("p1") || s.Snapshot().LineItems[0].ProductID != "p1" {
		t.Fatalf("store aliases caller slice")
	}
}

func TestStoreLineItemForFirstMatch(t *testing.T) {
	s := NewStore()
	s.Replace(snapshotOf("p1", "p2"))
	li, ok := s.LineItemFor("p2")
	if !ok || li.ID != "li-1" {
		t.Fatalf("unexpected line item %+v ok=%v", li, ok)
	}
	if _, ok := s.LineItemFor("missing"); ok {
		t.Fatalf("expected no line item")
	}
}

func TestStoreViewIsConsistentUnderConcurrentReplace(t *testing.T) {
	s := NewStore()
	a := snapshotOf("p1")
	b := snapshotOf("p2")

	g, ctx := errgroup.WithContext(context.Background())
	stop := make(chan struct{})
	g.Go(func() error {
		defer close(stop)
		for i := 0; i < 5000; i++ {
			if i%2 == 0 {
				s.Replace(a)
			} else {
				s.Replace(b)
			}
		}
		return nil
	})
	for r := 0; r < 4; r++ {
		g.Go(func() error {
			for {
				select {
				case <-stop:
					return nil
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				v := s.View()
				if len(v.Snapshot.LineItems) != 1 {
					return fmt.Errorf("unexpected snapshot %+v", v.Snapshot)
				}
				pid := v.Snapshot.LineItems[0].ProductID
				other := "p1"
				if pid == "p1" {
					other = "p2"
				}
				if !v.IsMember(pid) || v.IsMember(other) {
					return fmt.Errorf("view index does not match snapshot %s", pid)
				}
			}
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("%v", err)
	}
}
