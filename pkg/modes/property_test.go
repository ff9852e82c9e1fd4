package modes

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// TestModeSwitchInvariants uses property-based testing to verify that
// mode switching never damages shelf identity, whatever the layout.
func TestModeSwitchInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	// Property 1: a location/hierarchy round trip restores every
	// shelf's parent and host index exactly.
	properties.Property("round trip restores hierarchy parents", prop.ForAll(
		func(slots []uint8) bool {
			st := inventory.NewStore(nil)
			sync := NewSynchronizer(st, nil)

			pods := make([]inventory.NodeID, 3)
			for i := range pods {
				pod, err := st.CreateGraph(st.RootID(), fmt.Sprintf("pod%d", i), "", "")
				if err != nil {
					return false
				}
				pods[i] = pod.ID
			}

			type identity struct {
				parent    inventory.NodeID
				hostIndex uint64
			}
			want := make(map[inventory.NodeID]identity)
			for i, slot := range slots {
				parent := pods[int(slot)%len(pods)]
				shelf, err := st.CreateShelf(parent, fmt.Sprintf("sw%d", i), "", 1, 1)
				if err != nil {
					return false
				}
				// Distinct slots: spread shelves over racks 1..4
				loc := inventory.Location{
					Hall:    "H1",
					Aisle:   "A",
					RackNum: int(slot)%4 + 1,
					ShelfU:  i + 1,
				}
				if err := st.SetShelfLocation(shelf.ID, loc); err != nil {
					return false
				}
				want[shelf.ID] = identity{parent: parent, hostIndex: shelf.Shelf.HostIndex}
			}

			if _, err := sync.SwitchMode(Location); err != nil {
				return false
			}
			if _, err := sync.SwitchMode(Hierarchy); err != nil {
				return false
			}

			for id, w := range want {
				n, err := st.GetNode(id)
				if err != nil {
					return false
				}
				if n.ParentID != w.parent || n.Shelf.HostIndex != w.hostIndex {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	// Property 2: in location mode every shelf's parent is a rack and
	// the rack's coordinates match the shelf's own location.
	properties.Property("location mode parents match shelf coordinates", prop.ForAll(
		func(slots []uint8) bool {
			st := inventory.NewStore(nil)
			sync := NewSynchronizer(st, nil)

			for i, slot := range slots {
				shelf, err := st.CreateShelf(st.RootID(), fmt.Sprintf("sw%d", i), "", 0, 0)
				if err != nil {
					return false
				}
				loc := inventory.Location{
					Hall:    fmt.Sprintf("H%d", int(slot)%2+1),
					Aisle:   "A",
					RackNum: int(slot)%3 + 1,
					ShelfU:  i + 1,
				}
				if err := st.SetShelfLocation(shelf.ID, loc); err != nil {
					return false
				}
			}

			if _, err := sync.SwitchMode(Location); err != nil {
				return false
			}

			for _, id := range st.Shelves() {
				n, err := st.GetNode(id)
				if err != nil {
					return false
				}
				rack, err := st.GetNode(n.ParentID)
				if err != nil || rack.Kind != inventory.KindRack {
					return false
				}
				loc := n.Shelf.Loc
				if rack.Rack.Hall != loc.Hall || rack.Rack.Aisle != loc.Aisle || rack.Rack.Num != loc.RackNum {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.UInt8()),
	))

	// Property 3: switching modes never changes the shelf or
	// connection counts.
	properties.Property("switching preserves entity counts", prop.ForAll(
		func(n uint8) bool {
			st := inventory.NewStore(nil)
			sync := NewSynchronizer(st, nil)

			count := int(n%8) + 2
			var ports []inventory.NodeID
			for i := 0; i < count; i++ {
				shelf, err := st.CreateShelf(st.RootID(), fmt.Sprintf("sw%d", i), "", 1, 1)
				if err != nil {
					return false
				}
				loc := inventory.Location{Hall: "H1", Aisle: "A", RackNum: 1, ShelfU: i + 1}
				if err := st.SetShelfLocation(shelf.ID, loc); err != nil {
					return false
				}
				port, ok := st.FindPort(shelf.ID, 1, 1)
				if !ok {
					return false
				}
				ports = append(ports, port)
			}
			for i := 0; i+1 < len(ports); i += 2 {
				if _, err := st.CreateConnection(ports[i], ports[i+1], inventory.CableSpec{Type: "dac"}, ""); err != nil {
					return false
				}
			}

			before := st.Statistics()
			if _, err := sync.SwitchMode(Location); err != nil {
				return false
			}
			mid := st.Statistics()
			if mid.Shelves != before.Shelves || mid.Connections != before.Connections {
				return false
			}
			if _, err := sync.SwitchMode(Hierarchy); err != nil {
				return false
			}
			after := st.Statistics()
			return after.Shelves == before.Shelves &&
				after.Connections == before.Connections &&
				after.Nodes == before.Nodes
		},
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
