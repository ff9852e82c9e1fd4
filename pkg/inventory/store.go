package inventory

import (
	"github.com/cablegraph/cablegraph/pkg/logging"
)

// Store owns the node arena, the connection set, and the template
// catalog. Nodes are kept in a flat map keyed by id with an
// incrementally maintained parent -> children index, so reparenting a
// node during a mode switch is O(1).
//
// The store is single-owner: one operation runs to completion before
// the next begins. It is not safe for concurrent use.
type Store struct {
	nodes    map[NodeID]*Node
	children map[NodeID][]NodeID

	conns       map[ConnectionID]*Connection
	connsByPort map[NodeID][]ConnectionID

	templates     map[string]*Template
	templateOrder []string

	rootID NodeID

	// Monotonic counters. Never decremented, never reused.
	nextNodeID    NodeID
	nextConnID    ConnectionID
	nextHostIndex uint64

	// shelfOrder preserves shelf creation order for deterministic
	// physical-layout assignment.
	shelfOrder []NodeID

	// onDetach fires before a node's parent changes or the node is
	// deleted, so callers can drop in-flight selections that would
	// otherwise dangle.
	onDetach func(NodeID)

	log logging.Logger
}

// NewStore creates an empty store holding only the root container.
func NewStore(log logging.Logger) *Store {
	if log == nil {
		log = logging.DefaultLogger()
	}
	s := &Store{
		nodes:         make(map[NodeID]*Node),
		children:      make(map[NodeID][]NodeID),
		conns:         make(map[ConnectionID]*Connection),
		connsByPort:   make(map[NodeID][]ConnectionID),
		templates:     make(map[string]*Template),
		nextNodeID:    1,
		nextConnID:    1,
		nextHostIndex: 1,
		log:           log.With(logging.Component("inventory")),
	}
	root := &Node{
		ID:    s.allocNodeID(),
		Kind:  KindGraph,
		Label: "root",
		Graph: &GraphData{},
	}
	s.nodes[root.ID] = root
	s.children[root.ID] = nil
	s.rootID = root.ID
	return s
}

// RootID returns the id of the root container.
func (s *Store) RootID() NodeID {
	return s.rootID
}

// SetDetachHook installs the callback fired before a node is moved or
// deleted. Passing nil removes the hook.
func (s *Store) SetDetachHook(fn func(NodeID)) {
	s.onDetach = fn
}

func (s *Store) detach(id NodeID) {
	if s.onDetach != nil {
		s.onDetach(id)
	}
}

func (s *Store) allocNodeID() NodeID {
	id := s.nextNodeID
	s.nextNodeID++
	return id
}

func (s *Store) allocConnID() ConnectionID {
	id := s.nextConnID
	s.nextConnID++
	return id
}

// NextHostIndex advances and returns the global host-index counter.
// Exposed so creation paths outside the store (none today) stay
// deterministic and testable.
func (s *Store) NextHostIndex() uint64 {
	idx := s.nextHostIndex
	s.nextHostIndex++
	return idx
}

// Stats summarizes store contents.
type Stats struct {
	Nodes       int
	Shelves     int
	Connections int
	Templates   int
}

// Statistics returns current entity counts.
func (s *Store) Statistics() Stats {
	shelves := 0
	for _, n := range s.nodes {
		if n.Kind == KindShelf {
			shelves++
		}
	}
	return Stats{
		Nodes:       len(s.nodes),
		Shelves:     shelves,
		Connections: len(s.conns),
		Templates:   len(s.templates),
	}
}
