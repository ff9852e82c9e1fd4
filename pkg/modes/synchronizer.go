package modes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cablegraph/cablegraph/pkg/inventory"
	"github.com/cablegraph/cablegraph/pkg/logging"
)

// ErrShelvesUnplaced is returned when a switch to location mode finds
// shelves without physical coordinates. The caller routes those through
// the layout assigner and retries; the synchronizer never fabricates
// partial location data.
var ErrShelvesUnplaced = errors.New("shelves without physical location")

// SwitchReport summarizes what a mode switch did.
type SwitchReport struct {
	Moved             int
	RacksCreated      int
	ContainersRemoved int
}

// Synchronizer re-parents shelves between the hierarchy tree and the
// location tree. Shelf identity and non-parent fields are never touched;
// trays and ports follow their shelf automatically.
type Synchronizer struct {
	store *inventory.Store
	mode  Mode

	// home remembers each shelf's hierarchy parent while location mode
	// is live, so switching back restores the exact instance chain.
	home map[inventory.NodeID]inventory.NodeID

	log logging.Logger
}

// NewSynchronizer creates a synchronizer starting in hierarchy mode.
func NewSynchronizer(store *inventory.Store, log logging.Logger) *Synchronizer {
	if log == nil {
		log = logging.DefaultLogger()
	}
	return &Synchronizer{
		store: store,
		mode:  Hierarchy,
		home:  make(map[inventory.NodeID]inventory.NodeID),
		log:   log.With(logging.Component("modes")),
	}
}

// Mode returns the live mode.
func (s *Synchronizer) Mode() Mode {
	return s.mode
}

// AdoptMode declares which mode an imported document was saved in,
// without moving anything. Only meaningful right after an import.
func (s *Synchronizer) AdoptMode(m Mode) {
	s.mode = m
}

// SwitchMode re-parents every shelf for the target mode. Switching to
// the live mode is a no-op. The operation validates everything it needs
// before the first mutation, so a returned error means nothing changed.
func (s *Synchronizer) SwitchMode(target Mode) (*SwitchReport, error) {
	if target == s.mode {
		return &SwitchReport{}, nil
	}
	timer := logging.StartTimer(s.log, "mode switch", logging.Mode(target.String()))
	var (
		report *SwitchReport
		err    error
	)
	if target == Location {
		report, err = s.toLocation()
	} else {
		report, err = s.toHierarchy()
	}
	if err != nil {
		timer.EndError(err)
		return nil, err
	}
	s.mode = target
	timer.End()
	return report, nil
}

// shelfSortKey orders shelves ascending by physical position, then host
// index, then id. The id tie-break keeps the order stable for shelves
// sharing a slot (which validation prevents, but the sort must not care).
func (s *Synchronizer) sortShelves(ids []inventory.NodeID) []*inventory.Node {
	shelves := make([]*inventory.Node, 0, len(ids))
	for _, id := range ids {
		n, err := s.store.GetNode(id)
		if err != nil {
			continue
		}
		shelves = append(shelves, n)
	}
	sort.SliceStable(shelves, func(i, j int) bool {
		a, b := shelves[i].Shelf, shelves[j].Shelf
		al, bl := a.Loc, b.Loc
		if al != nil && bl != nil {
			if al.Hall != bl.Hall {
				return al.Hall < bl.Hall
			}
			if al.Aisle != bl.Aisle {
				return al.Aisle < bl.Aisle
			}
			if al.RackNum != bl.RackNum {
				return al.RackNum < bl.RackNum
			}
			if al.ShelfU != bl.ShelfU {
				return al.ShelfU < bl.ShelfU
			}
		}
		if a.HostIndex != b.HostIndex {
			return a.HostIndex < b.HostIndex
		}
		return shelves[i].ID < shelves[j].ID
	})
	return shelves
}

func (s *Synchronizer) toLocation() (*SwitchReport, error) {
	shelfIDs := s.store.Shelves()

	unplaced := 0
	for _, id := range shelfIDs {
		n, err := s.store.GetNode(id)
		if err != nil {
			return nil, err
		}
		if n.Shelf.Loc == nil {
			unplaced++
		}
	}
	if unplaced > 0 {
		return nil, fmt.Errorf("%w: %d of %d", ErrShelvesUnplaced, unplaced, len(shelfIDs))
	}

	shelves := s.sortShelves(shelfIDs)
	root := s.store.RootID()

	halls := make(map[string]inventory.NodeID)
	aisles := make(map[[2]string]inventory.NodeID)
	racks := make(map[inventory.RackKey]inventory.NodeID)
	report := &SwitchReport{}

	for _, shelf := range shelves {
		loc := *shelf.Shelf.Loc

		hallID, ok := halls[loc.Hall]
		if !ok {
			h, err := s.store.CreateHall(root, loc.Hall)
			if err != nil {
				return nil, err
			}
			hallID = h.ID
			halls[loc.Hall] = hallID
		}

		aisleKey := [2]string{loc.Hall, loc.Aisle}
		aisleID, ok := aisles[aisleKey]
		if !ok {
			a, err := s.store.CreateAisle(hallID, loc.Hall, loc.Aisle)
			if err != nil {
				return nil, err
			}
			aisleID = a.ID
			aisles[aisleKey] = aisleID
		}

		rackID, ok := racks[loc.RackKey()]
		if !ok {
			r, err := s.store.CreateRack(aisleID, loc.RackKey())
			if err != nil {
				return nil, err
			}
			rackID = r.ID
			racks[loc.RackKey()] = rackID
			report.RacksCreated++
		}

		s.home[shelf.ID] = shelf.ParentID
		if err := s.store.Reparent(shelf.ID, rackID); err != nil {
			return nil, err
		}
		report.Moved++
	}

	s.log.Info("switched to location mode",
		logging.Count(report.Moved),
		logging.Int("racks", report.RacksCreated))
	return report, nil
}

func (s *Synchronizer) toHierarchy() (*SwitchReport, error) {
	root := s.store.RootID()
	report := &SwitchReport{}

	for _, id := range s.store.Shelves() {
		target, ok := s.home[id]
		if !ok || !s.store.HasNode(target) {
			// Shelves created while location mode was live have no
			// recorded instance chain; they land at the root.
			target = root
		}
		if err := s.store.Reparent(id, target); err != nil {
			return nil, err
		}
		report.Moved++
	}
	s.home = make(map[inventory.NodeID]inventory.NodeID)

	// Location containers hold no independent data; discard them.
	for _, hallID := range s.store.NodesByKind(inventory.KindHall) {
		report.ContainersRemoved += 1 + len(s.store.Descendants(hallID))
		if err := s.store.DeleteNode(hallID); err != nil {
			return nil, err
		}
	}

	s.log.Info("switched to hierarchy mode",
		logging.Count(report.Moved),
		logging.Int("containers_removed", report.ContainersRemoved))
	return report, nil
}

// RecordHome registers a shelf's hierarchy parent while in location
// mode, so shelves pasted into the hierarchy view of a future switch
// land where their creator intended. No-op in hierarchy mode.
func (s *Synchronizer) RecordHome(shelf, hierarchyParent inventory.NodeID) {
	if s.mode == Location {
		s.home[shelf] = hierarchyParent
	}
}
