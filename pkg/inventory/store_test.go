package inventory

import (
	"errors"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(nil)
}

func TestNewStore(t *testing.T) {
	s := newTestStore(t)

	root, err := s.GetNode(s.RootID())
	if err != nil {
		t.Fatalf("GetNode(root) failed: %v", err)
	}
	if root.Kind != KindGraph {
		t.Errorf("Root kind = %v, want %v", root.Kind, KindGraph)
	}
	if root.Graph == nil || root.Graph.TemplateName != "" {
		t.Error("Root should be a container with no template name")
	}

	stats := s.Statistics()
	if stats.Nodes != 1 {
		t.Errorf("Nodes = %d, want 1", stats.Nodes)
	}
}

func TestCreateShelf(t *testing.T) {
	s := newTestStore(t)

	shelf, err := s.CreateShelf(s.RootID(), "sw1", "sw1.dc.example", 2, 4)
	if err != nil {
		t.Fatalf("CreateShelf failed: %v", err)
	}
	if shelf.Kind != KindShelf {
		t.Errorf("Kind = %v, want %v", shelf.Kind, KindShelf)
	}
	if shelf.Shelf.HostIndex != 1 {
		t.Errorf("HostIndex = %d, want 1", shelf.Shelf.HostIndex)
	}
	if shelf.Shelf.Hostname != "sw1.dc.example" {
		t.Errorf("Hostname = %q, want %q", shelf.Shelf.Hostname, "sw1.dc.example")
	}

	// 2 trays of 4 ports each created eagerly
	trays := s.ChildrenOf(shelf.ID)
	if len(trays) != 2 {
		t.Fatalf("Trays = %d, want 2", len(trays))
	}
	for _, tid := range trays {
		ports := s.ChildrenOf(tid)
		if len(ports) != 4 {
			t.Errorf("Ports in tray %d = %d, want 4", tid, len(ports))
		}
	}

	// 1 root + 1 shelf + 2 trays + 8 ports
	if got := s.Statistics().Nodes; got != 12 {
		t.Errorf("Nodes = %d, want 12", got)
	}
}

func TestCreateShelfHostIndexNeverReused(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateShelf(s.RootID(), "a", "", 0, 0)
	b, _ := s.CreateShelf(s.RootID(), "b", "", 0, 0)
	if a.Shelf.HostIndex != 1 || b.Shelf.HostIndex != 2 {
		t.Fatalf("HostIndex = %d,%d, want 1,2", a.Shelf.HostIndex, b.Shelf.HostIndex)
	}

	if err := s.DeleteNode(b.ID); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	c, _ := s.CreateShelf(s.RootID(), "c", "", 0, 0)
	if c.Shelf.HostIndex != 3 {
		t.Errorf("HostIndex after delete = %d, want 3", c.Shelf.HostIndex)
	}
}

func TestCreateShelfInvalidParent(t *testing.T) {
	s := newTestStore(t)

	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 1, 1)

	// A shelf cannot hold another shelf
	if _, err := s.CreateShelf(shelf.ID, "nested", "", 0, 0); err == nil {
		t.Error("Expected error creating shelf under shelf")
	}

	if _, err := s.CreateShelf(9999, "orphan", "", 0, 0); !IsNotFound(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestCreateShelfNegativeCounts(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.CreateShelf(s.RootID(), "bad", "", -1, 4); !IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestContainmentRules(t *testing.T) {
	s := newTestStore(t)

	hall, err := s.CreateHall(s.RootID(), "H1")
	if err != nil {
		t.Fatalf("CreateHall failed: %v", err)
	}
	aisle, err := s.CreateAisle(hall.ID, "H1", "A")
	if err != nil {
		t.Fatalf("CreateAisle failed: %v", err)
	}
	rack, err := s.CreateRack(aisle.ID, RackKey{Hall: "H1", Aisle: "A", Num: 1})
	if err != nil {
		t.Fatalf("CreateRack failed: %v", err)
	}
	if _, err := s.CreateShelf(rack.ID, "sw1", "", 1, 1); err != nil {
		t.Fatalf("CreateShelf under rack failed: %v", err)
	}

	// Halls only hold aisles
	if _, err := s.CreateShelf(hall.ID, "bad", "", 0, 0); err == nil {
		t.Error("Expected error creating shelf under hall")
	}
	// Racks only hold shelves
	if _, err := s.CreateHall(rack.ID, "bad"); err == nil {
		t.Error("Expected error creating hall under rack")
	}
}

func TestGetNodeReturnsCopy(t *testing.T) {
	s := newTestStore(t)

	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 0, 0)
	got, _ := s.GetNode(shelf.ID)
	got.Label = "mutated"
	got.Shelf.Hostname = "mutated"

	again, _ := s.GetNode(shelf.ID)
	if again.Label != "sw1" || again.Shelf.Hostname != "" {
		t.Error("Mutating a returned node leaked into the store")
	}
}

func TestAncestorsAndDescendants(t *testing.T) {
	s := newTestStore(t)

	pod, _ := s.CreateGraph(s.RootID(), "pod", "", "")
	shelf, _ := s.CreateShelf(pod.ID, "sw1", "", 1, 2)
	trays := s.ChildrenOf(shelf.ID)
	ports := s.ChildrenOf(trays[0])

	anc := s.Ancestors(ports[0])
	want := []NodeID{trays[0], shelf.ID, pod.ID, s.RootID()}
	if len(anc) != len(want) {
		t.Fatalf("Ancestors = %v, want %v", anc, want)
	}
	for i := range want {
		if anc[i] != want[i] {
			t.Errorf("Ancestors[%d] = %d, want %d", i, anc[i], want[i])
		}
	}

	if !s.IsAncestor(pod.ID, ports[0]) {
		t.Error("pod should be an ancestor of its port")
	}
	if s.IsAncestor(ports[0], pod.ID) {
		t.Error("port should not be an ancestor of pod")
	}

	// pod subtree: shelf + tray + 2 ports
	if got := len(s.Descendants(pod.ID)); got != 4 {
		t.Errorf("Descendants = %d, want 4", got)
	}
}

func TestReparent(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateGraph(s.RootID(), "a", "", "")
	b, _ := s.CreateGraph(s.RootID(), "b", "", "")
	shelf, _ := s.CreateShelf(a.ID, "sw1", "", 1, 1)

	if err := s.Reparent(shelf.ID, b.ID); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	got, _ := s.GetNode(shelf.ID)
	if got.ParentID != b.ID {
		t.Errorf("ParentID = %d, want %d", got.ParentID, b.ID)
	}
	if len(s.ChildrenOf(a.ID)) != 0 {
		t.Error("Old parent still lists the moved shelf")
	}

	// Subtree moves with the node
	trays := s.ChildrenOf(shelf.ID)
	if len(trays) != 1 {
		t.Error("Shelf lost its trays during reparent")
	}
}

func TestReparentCycle(t *testing.T) {
	s := newTestStore(t)

	outer, _ := s.CreateGraph(s.RootID(), "outer", "", "")
	inner, _ := s.CreateGraph(outer.ID, "inner", "", "")

	err := s.Reparent(outer.ID, inner.ID)
	if !errors.Is(err, ErrCycle) {
		t.Errorf("Expected cycle error, got %v", err)
	}
	if err := s.Reparent(outer.ID, outer.ID); !errors.Is(err, ErrCycle) {
		t.Errorf("Expected cycle error for self-parent, got %v", err)
	}
}

func TestReparentRoot(t *testing.T) {
	s := newTestStore(t)

	g, _ := s.CreateGraph(s.RootID(), "g", "", "")
	if err := s.Reparent(s.RootID(), g.ID); !IsValidation(err) {
		t.Errorf("Expected validation error reparenting root, got %v", err)
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateShelf(s.RootID(), "a", "", 1, 2)
	b, _ := s.CreateShelf(s.RootID(), "b", "", 1, 2)

	aPorts := s.ChildrenOf(s.ChildrenOf(a.ID)[0])
	bPorts := s.ChildrenOf(s.ChildrenOf(b.ID)[0])

	conn, err := s.CreateConnection(aPorts[0], bPorts[0], CableSpec{Type: "dac"}, "")
	if err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}

	if err := s.DeleteNode(a.ID); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	if s.HasNode(a.ID) || s.HasNode(aPorts[0]) {
		t.Error("Deleted subtree nodes still present")
	}
	if _, err := s.GetConnection(conn.ID); !IsNotFound(err) {
		t.Errorf("Connection should be gone with its port, got %v", err)
	}
	// The surviving shelf keeps its ports
	if !s.HasNode(bPorts[0]) {
		t.Error("Unrelated port was deleted")
	}
}

func TestDeleteRoot(t *testing.T) {
	s := newTestStore(t)

	if err := s.DeleteNode(s.RootID()); !IsValidation(err) {
		t.Errorf("Expected validation error deleting root, got %v", err)
	}
}

func TestDetachHookFires(t *testing.T) {
	s := newTestStore(t)

	var detached []NodeID
	s.SetDetachHook(func(id NodeID) { detached = append(detached, id) })

	a, _ := s.CreateGraph(s.RootID(), "a", "", "")
	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 0, 0)

	if err := s.Reparent(shelf.ID, a.ID); err != nil {
		t.Fatalf("Reparent failed: %v", err)
	}
	if len(detached) != 1 || detached[0] != shelf.ID {
		t.Fatalf("Detach after reparent = %v, want [%d]", detached, shelf.ID)
	}

	detached = nil
	if err := s.DeleteNode(shelf.ID); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}
	if len(detached) != 1 || detached[0] != shelf.ID {
		t.Errorf("Detach after delete = %v, want [%d]", detached, shelf.ID)
	}
}

func TestShelvesCreationOrder(t *testing.T) {
	s := newTestStore(t)

	a, _ := s.CreateShelf(s.RootID(), "a", "", 0, 0)
	b, _ := s.CreateShelf(s.RootID(), "b", "", 0, 0)
	c, _ := s.CreateShelf(s.RootID(), "c", "", 0, 0)

	s.DeleteNode(b.ID)

	got := s.Shelves()
	want := []NodeID{a.ID, c.ID}
	if len(got) != len(want) {
		t.Fatalf("Shelves = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Shelves[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestFindPort(t *testing.T) {
	s := newTestStore(t)

	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 2, 4)

	id, ok := s.FindPort(shelf.ID, 2, 3)
	if !ok {
		t.Fatal("FindPort(2, 3) not found")
	}
	n, _ := s.GetNode(id)
	if n.Kind != KindPort || n.Port.Number != 3 {
		t.Errorf("Resolved node = %v port %d, want port 3", n.Kind, n.Port.Number)
	}

	if _, ok := s.FindPort(shelf.ID, 3, 1); ok {
		t.Error("FindPort resolved a tray that does not exist")
	}
	if _, ok := s.FindPort(shelf.ID, 1, 5); ok {
		t.Error("FindPort resolved a port that does not exist")
	}
}

func TestSetShelfLocationMirrors(t *testing.T) {
	s := newTestStore(t)

	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 1, 2)
	loc := Location{Hall: "H1", Aisle: "A", RackNum: 3, ShelfU: 7}
	if err := s.SetShelfLocation(shelf.ID, loc); err != nil {
		t.Fatalf("SetShelfLocation failed: %v", err)
	}

	got, _ := s.GetNode(shelf.ID)
	if got.Shelf.Loc == nil || *got.Shelf.Loc != loc {
		t.Errorf("Shelf location = %v, want %v", got.Shelf.Loc, loc)
	}
	for _, d := range s.Descendants(shelf.ID) {
		n, _ := s.GetNode(d)
		switch n.Kind {
		case KindTray:
			if n.Tray.Loc == nil || *n.Tray.Loc != loc {
				t.Errorf("Tray %d location not mirrored", d)
			}
		case KindPort:
			if n.Port.Loc == nil || *n.Port.Loc != loc {
				t.Errorf("Port %d location not mirrored", d)
			}
		}
	}
}

func TestRestoreHostIndex(t *testing.T) {
	s := newTestStore(t)

	shelf, _ := s.CreateShelf(s.RootID(), "sw1", "", 0, 0)
	if err := s.RestoreHostIndex(shelf.ID, 40); err != nil {
		t.Fatalf("RestoreHostIndex failed: %v", err)
	}

	got, _ := s.GetNode(shelf.ID)
	if got.Shelf.HostIndex != 40 {
		t.Errorf("HostIndex = %d, want 40", got.Shelf.HostIndex)
	}

	// Counter advanced past the restored index
	next, _ := s.CreateShelf(s.RootID(), "sw2", "", 0, 0)
	if next.Shelf.HostIndex != 41 {
		t.Errorf("Next HostIndex = %d, want 41", next.Shelf.HostIndex)
	}
}

func TestCreateNodeLike(t *testing.T) {
	s := newTestStore(t)

	orig, _ := s.CreateShelf(s.RootID(), "sw1", "host1", 0, 0)
	copied, err := s.CreateNodeLike(s.RootID(), orig)
	if err != nil {
		t.Fatalf("CreateNodeLike failed: %v", err)
	}
	if copied.ID == orig.ID {
		t.Error("Copy should receive a fresh id")
	}
	if copied.Shelf.HostIndex == orig.Shelf.HostIndex {
		t.Error("Copy should receive a fresh host index")
	}
	if copied.Label != "sw1" || copied.Shelf.Hostname != "host1" {
		t.Error("Copy should preserve label and hostname")
	}
}
