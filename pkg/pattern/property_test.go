package pattern

import (
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// TestFanoutInvariants uses property-based testing to verify that
// replicated edits keep the template definition and its live instances
// in lockstep, whatever the fleet size.
func TestFanoutInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30

	properties := gopter.NewProperties(parameters)

	buildFleet := func(n int) (*inventory.Store, []inventory.NodeID, error) {
		st := inventory.NewStore(nil)
		err := st.PutTemplate(&inventory.Template{
			Name: "pod",
			Children: []inventory.TemplateChild{
				{Name: "n1", Kind: inventory.ChildLeaf, Trays: 1, PortsPerTray: 4},
				{Name: "n2", Kind: inventory.ChildLeaf, Trays: 1, PortsPerTray: 4},
			},
		})
		if err != nil {
			return nil, nil, err
		}
		insts := make([]inventory.NodeID, n)
		for i := range insts {
			id, err := st.Instantiate("pod", st.RootID(), fmt.Sprintf("pod-%d", i))
			if err != nil {
				return nil, nil, err
			}
			insts[i] = id
		}
		return st, insts, nil
	}

	// Property 1: connecting via any instance applies to every live
	// instance and records exactly one new template connection.
	properties.Property("connect reaches every instance", prop.ForAll(
		func(n, anchor, port uint8) bool {
			count := int(n%6) + 1
			st, insts, err := buildFleet(count)
			if err != nil {
				return false
			}

			via := insts[int(anchor)%count]
			p := int(port)%4 + 1
			src, ok := st.ResolvePortPath(via, inventory.PortPath{Tokens: []string{"n1"}, Tray: 1, Port: p})
			if !ok {
				return false
			}
			dst, ok := st.ResolvePortPath(via, inventory.PortPath{Tokens: []string{"n2"}, Tray: 1, Port: p})
			if !ok {
				return false
			}

			report, err := NewEngine(st, nil).ConnectAcross(src, dst, inventory.CableSpec{Type: "dac"})
			if err != nil {
				return false
			}
			if len(report.Applied) != count || len(report.Skipped) != 0 {
				return false
			}

			tmpl, err := st.GetTemplate("pod")
			if err != nil || len(tmpl.Connections) != 1 {
				return false
			}
			return st.Statistics().Connections == count
		},
		gen.UInt8(), gen.UInt8(), gen.UInt8(),
	))

	// Property 2: disconnecting through any replica removes the cable
	// from every instance and from the template definition.
	properties.Property("disconnect is anchored anywhere", prop.ForAll(
		func(n, anchor uint8) bool {
			count := int(n%6) + 1
			st, insts, err := buildFleet(count)
			if err != nil {
				return false
			}

			src, _ := st.ResolvePortPath(insts[0], inventory.PortPath{Tokens: []string{"n1"}, Tray: 1, Port: 1})
			dst, _ := st.ResolvePortPath(insts[0], inventory.PortPath{Tokens: []string{"n2"}, Tray: 1, Port: 1})
			engine := NewEngine(st, nil)
			if _, err := engine.ConnectAcross(src, dst, inventory.CableSpec{Type: "dac"}); err != nil {
				return false
			}

			// Pick the replica living in an arbitrary instance.
			via := insts[int(anchor)%count]
			vsrc, _ := st.ResolvePortPath(via, inventory.PortPath{Tokens: []string{"n1"}, Tray: 1, Port: 1})
			conns := st.ConnectionsOf(vsrc)
			if len(conns) != 1 {
				return false
			}

			report, err := engine.DisconnectAcross(conns[0])
			if err != nil || report.Removed != count {
				return false
			}

			tmpl, err := st.GetTemplate("pod")
			if err != nil || len(tmpl.Connections) != 0 {
				return false
			}
			return st.Statistics().Connections == 0
		},
		gen.UInt8(), gen.UInt8(),
	))

	// Property 3: adding then removing a child slot leaves every
	// instance with its original shelf complement.
	properties.Property("child add/remove round trip", prop.ForAll(
		func(n uint8) bool {
			count := int(n%6) + 1
			st, insts, err := buildFleet(count)
			if err != nil {
				return false
			}

			engine := NewEngine(st, nil)
			child := inventory.TemplateChild{Name: "n3", Kind: inventory.ChildLeaf, Trays: 1, PortsPerTray: 2}
			report, err := engine.AddChildAcross("pod", child)
			if err != nil || len(report.Applied) != count {
				return false
			}
			for _, inst := range insts {
				if len(st.DescendantShelves(inst)) != 3 {
					return false
				}
			}

			if _, err := engine.RemoveChildAcross("pod", "n3"); err != nil {
				return false
			}
			for _, inst := range insts {
				if len(st.DescendantShelves(inst)) != 2 {
					return false
				}
			}
			tmpl, err := st.GetTemplate("pod")
			return err == nil && len(tmpl.Children) == 2
		},
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
