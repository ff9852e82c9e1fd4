package layout

import (
	"errors"
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/logging"
	"github.com/cablegraph/cablegraph/pkg/ui"
	"github.com/cablegraph/cablegraph/pkg/validation"
)

// ErrDeclined is returned when the operator declines a partial
// assignment after a capacity warning. Nothing mutates in that case.
var ErrDeclined = errors.New("partial assignment declined")

// Plan is the Cartesian layout space built from the four parsed
// enumerations.
type Plan struct {
	Halls      []string
	Aisles     []string
	Racks      []int
	ShelfUnits []int
}

// NewPlan parses the four layout input fields into a plan.
func NewPlan(halls, aisles, racks, shelfUnits string) (*Plan, error) {
	h, err := ParseEnumeration(halls)
	if err != nil {
		return nil, err
	}
	a, err := ParseEnumeration(aisles)
	if err != nil {
		return nil, err
	}
	r, err := ParseIntEnumeration(racks)
	if err != nil {
		return nil, err
	}
	u, err := ParseIntEnumeration(shelfUnits)
	if err != nil {
		return nil, err
	}
	p := &Plan{Halls: h, Aisles: a, Racks: r, ShelfUnits: u}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the plan spans a non-empty layout space.
func (p *Plan) Validate() error {
	return validation.NewConfigValidator("layout.Plan").
		MinInt("Halls", len(p.Halls), 1).
		MinInt("Aisles", len(p.Aisles), 1).
		MinInt("Racks", len(p.Racks), 1).
		MinInt("ShelfUnits", len(p.ShelfUnits), 1).
		Validate()
}

// Capacity returns the number of shelf slots the plan provides.
func (p *Plan) Capacity() int {
	return len(p.Halls) * len(p.Aisles) * len(p.Racks) * len(p.ShelfUnits)
}

// Result reports how an assignment went.
type Result struct {
	Assigned   int
	Unassigned int
	Capacity   int
}

// Assigner fills shelf coordinates from a plan.
type Assigner struct {
	store *inventory.Store
	view  ui.Boundary
	log   logging.Logger
}

// NewAssigner creates an assigner. The boundary is consulted before any
// partial assignment proceeds.
func NewAssigner(store *inventory.Store, view ui.Boundary, log logging.Logger) *Assigner {
	if view == nil {
		view = ui.Silent{}
	}
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Assigner{
		store: store,
		view:  view,
		log:   log.With(logging.Component("layout")),
	}
}

// Assign walks every shelf in creation order and assigns coordinates,
// shelf units varying fastest, then racks, aisles, halls. If the plan
// cannot hold every shelf, the operator must confirm before the first
// Capacity shelves are assigned and the rest left unplaced; a partial
// assignment is always reported, never silent.
func (a *Assigner) Assign(plan *Plan) (*Result, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	shelves := a.store.Shelves()
	capacity := plan.Capacity()

	if len(shelves) > capacity {
		prompt := fmt.Sprintf(
			"layout holds %d shelves but %d exist; assign the first %d and leave %d unplaced?",
			capacity, len(shelves), capacity, len(shelves)-capacity)
		if !a.view.Confirm(prompt) {
			return nil, fmt.Errorf("%w: capacity %d, shelves %d", ErrDeclined, capacity, len(shelves))
		}
	}

	// Compute the full assignment before touching the store.
	type slot struct {
		shelf inventory.NodeID
		loc   inventory.Location
	}
	assignments := make([]slot, 0, len(shelves))
	idx := 0
outer:
	for _, hall := range plan.Halls {
		for _, aisle := range plan.Aisles {
			for _, rack := range plan.Racks {
				for _, unit := range plan.ShelfUnits {
					if idx >= len(shelves) {
						break outer
					}
					assignments = append(assignments, slot{
						shelf: shelves[idx],
						loc: inventory.Location{
							Hall:    hall,
							Aisle:   aisle,
							RackNum: rack,
							ShelfU:  unit,
						},
					})
					idx++
				}
			}
		}
	}

	for _, s := range assignments {
		if err := a.store.SetShelfLocation(s.shelf, s.loc); err != nil {
			return nil, err
		}
	}

	result := &Result{
		Assigned:   len(assignments),
		Unassigned: len(shelves) - len(assignments),
		Capacity:   capacity,
	}
	if result.Unassigned > 0 {
		a.view.Notify(ui.Event{
			Severity: ui.SeverityWarn,
			Message:  fmt.Sprintf("%d shelves left unassigned", result.Unassigned),
		})
	}
	a.log.Info("layout assigned",
		logging.Int("assigned", result.Assigned),
		logging.Int("unassigned", result.Unassigned),
		logging.Int("capacity", capacity))
	return result, nil
}
