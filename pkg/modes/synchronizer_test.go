package modes

import (
	"errors"
	"testing"

	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// placedShelf creates a shelf under parent and assigns it a location.
func placedShelf(t *testing.T, st *inventory.Store, parent inventory.NodeID, label string, loc inventory.Location) *inventory.Node {
	t.Helper()
	shelf, err := st.CreateShelf(parent, label, "", 1, 2)
	if err != nil {
		t.Fatalf("CreateShelf failed: %v", err)
	}
	if err := st.SetShelfLocation(shelf.ID, loc); err != nil {
		t.Fatalf("SetShelfLocation failed: %v", err)
	}
	return shelf
}

func TestSwitchModeNoOp(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	if sync.Mode() != Hierarchy {
		t.Fatalf("Initial mode = %v, want hierarchy", sync.Mode())
	}
	report, err := sync.SwitchMode(Hierarchy)
	if err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}
	if report.Moved != 0 {
		t.Errorf("No-op switch moved %d shelves", report.Moved)
	}
}

func TestSwitchToLocation(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	pod, _ := st.CreateGraph(st.RootID(), "pod", "", "")
	a := placedShelf(t, st, pod.ID, "a", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	b := placedShelf(t, st, pod.ID, "b", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 2})
	c := placedShelf(t, st, pod.ID, "c", inventory.Location{Hall: "H1", Aisle: "B", RackNum: 1, ShelfU: 1})

	report, err := sync.SwitchMode(Location)
	if err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}
	if report.Moved != 3 {
		t.Errorf("Moved = %d, want 3", report.Moved)
	}
	// Two distinct racks: (H1,A,1) holds a and b, (H1,B,1) holds c
	if report.RacksCreated != 2 {
		t.Errorf("RacksCreated = %d, want 2", report.RacksCreated)
	}

	// a and b share a rack parent
	an, _ := st.GetNode(a.ID)
	bn, _ := st.GetNode(b.ID)
	cn, _ := st.GetNode(c.ID)
	if an.ParentID != bn.ParentID {
		t.Error("Shelves in the same rack slot family should share a parent")
	}
	if an.ParentID == cn.ParentID {
		t.Error("Shelves in different aisles should not share a rack")
	}

	rack, _ := st.GetNode(an.ParentID)
	if rack.Kind != inventory.KindRack {
		t.Errorf("Shelf parent kind = %v, want rack", rack.Kind)
	}

	// One hall holding two aisles
	halls := st.NodesByKind(inventory.KindHall)
	if len(halls) != 1 {
		t.Fatalf("Halls = %d, want 1", len(halls))
	}
	if got := len(st.ChildrenOf(halls[0])); got != 2 {
		t.Errorf("Aisles = %d, want 2", got)
	}
}

func TestSwitchRoundTripRestoresHierarchy(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	pod1, _ := st.CreateGraph(st.RootID(), "pod1", "", "")
	pod2, _ := st.CreateGraph(st.RootID(), "pod2", "", "")
	a := placedShelf(t, st, pod1.ID, "a", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	b := placedShelf(t, st, pod2.ID, "b", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 2})
	aHostIndex := a.Shelf.HostIndex

	if _, err := sync.SwitchMode(Location); err != nil {
		t.Fatalf("SwitchMode(Location) failed: %v", err)
	}
	report, err := sync.SwitchMode(Hierarchy)
	if err != nil {
		t.Fatalf("SwitchMode(Hierarchy) failed: %v", err)
	}
	if report.Moved != 2 {
		t.Errorf("Moved = %d, want 2", report.Moved)
	}

	an, _ := st.GetNode(a.ID)
	bn, _ := st.GetNode(b.ID)
	if an.ParentID != pod1.ID {
		t.Errorf("Shelf a parent = %d, want pod1 %d", an.ParentID, pod1.ID)
	}
	if bn.ParentID != pod2.ID {
		t.Errorf("Shelf b parent = %d, want pod2 %d", bn.ParentID, pod2.ID)
	}

	// Identity survives the round trip
	if an.Shelf.HostIndex != aHostIndex {
		t.Errorf("HostIndex = %d, want %d", an.Shelf.HostIndex, aHostIndex)
	}
	if an.Shelf.Loc == nil || an.Shelf.Loc.Hall != "H1" {
		t.Error("Location data lost during round trip")
	}

	// Location containers are gone
	if got := len(st.NodesByKind(inventory.KindHall)); got != 0 {
		t.Errorf("Halls after switch back = %d, want 0", got)
	}
	if got := len(st.NodesByKind(inventory.KindRack)); got != 0 {
		t.Errorf("Racks after switch back = %d, want 0", got)
	}
}

func TestSwitchPreservesConnections(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	a := placedShelf(t, st, st.RootID(), "a", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	b := placedShelf(t, st, st.RootID(), "b", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 2, ShelfU: 1})

	aPort, _ := st.FindPort(a.ID, 1, 1)
	bPort, _ := st.FindPort(b.ID, 1, 1)
	conn, err := st.CreateConnection(aPort, bPort, inventory.CableSpec{Type: "dac"}, "")
	if err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}

	sync.SwitchMode(Location)
	sync.SwitchMode(Hierarchy)

	got, err := st.GetConnection(conn.ID)
	if err != nil {
		t.Fatalf("Connection lost across mode switches: %v", err)
	}
	if got.SourcePortID != aPort || got.TargetPortID != bPort {
		t.Error("Connection endpoints changed across mode switches")
	}
}

func TestSwitchUnplacedShelvesFailsBeforeMutation(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	placedShelf(t, st, st.RootID(), "placed", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	bare, _ := st.CreateShelf(st.RootID(), "bare", "", 1, 1)

	before := st.Statistics()
	_, err := sync.SwitchMode(Location)
	if !errors.Is(err, ErrShelvesUnplaced) {
		t.Fatalf("Expected ErrShelvesUnplaced, got %v", err)
	}

	// Nothing changed: mode, node count, parents
	if sync.Mode() != Hierarchy {
		t.Errorf("Mode = %v, want hierarchy", sync.Mode())
	}
	if got := st.Statistics(); got.Nodes != before.Nodes {
		t.Errorf("Nodes = %d, want %d (no partial mutation)", got.Nodes, before.Nodes)
	}
	n, _ := st.GetNode(bare.ID)
	if n.ParentID != st.RootID() {
		t.Error("Shelf was reparented despite the failed switch")
	}
}

func TestSwitchBackShelfCreatedInLocationMode(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	placedShelf(t, st, st.RootID(), "a", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	if _, err := sync.SwitchMode(Location); err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}

	// Create a shelf directly in a rack while location mode is live
	racks := st.NodesByKind(inventory.KindRack)
	fresh, err := st.CreateShelf(racks[0], "fresh", "", 1, 1)
	if err != nil {
		t.Fatalf("CreateShelf in rack failed: %v", err)
	}
	st.SetShelfLocation(fresh.ID, inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 2})

	if _, err := sync.SwitchMode(Hierarchy); err != nil {
		t.Fatalf("SwitchMode(Hierarchy) failed: %v", err)
	}

	// No recorded hierarchy home: lands at the root
	n, _ := st.GetNode(fresh.ID)
	if n.ParentID != st.RootID() {
		t.Errorf("Fresh shelf parent = %d, want root %d", n.ParentID, st.RootID())
	}
}

func TestRecordHome(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	pod, _ := st.CreateGraph(st.RootID(), "pod", "", "")
	placedShelf(t, st, st.RootID(), "a", inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 1})
	if _, err := sync.SwitchMode(Location); err != nil {
		t.Fatalf("SwitchMode failed: %v", err)
	}

	racks := st.NodesByKind(inventory.KindRack)
	fresh, _ := st.CreateShelf(racks[0], "fresh", "", 0, 0)
	st.SetShelfLocation(fresh.ID, inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: 2})
	sync.RecordHome(fresh.ID, pod.ID)

	sync.SwitchMode(Hierarchy)

	n, _ := st.GetNode(fresh.ID)
	if n.ParentID != pod.ID {
		t.Errorf("Shelf parent = %d, want recorded home %d", n.ParentID, pod.ID)
	}
}

func TestAdoptMode(t *testing.T) {
	st := inventory.NewStore(nil)
	sync := NewSynchronizer(st, nil)

	sync.AdoptMode(Location)
	if sync.Mode() != Location {
		t.Errorf("Mode = %v, want location", sync.Mode())
	}
}

func TestParseMode(t *testing.T) {
	if m, ok := ParseMode("location"); !ok || m != Location {
		t.Error("ParseMode(location) failed")
	}
	if m, ok := ParseMode("hierarchy"); !ok || m != Hierarchy {
		t.Error("ParseMode(hierarchy) failed")
	}
	if _, ok := ParseMode("bogus"); ok {
		t.Error("ParseMode(bogus) should fail")
	}
}
