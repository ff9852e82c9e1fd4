package inventory

// NodeID identifies a node in the inventory. IDs are allocated from a
// monotonic counter and never reused.
type NodeID uint64

// ConnectionID identifies a cable connection.
type ConnectionID uint64

// NodeKind is the tag of the node variant.
type NodeKind uint8

const (
	KindGraph NodeKind = iota
	KindHall
	KindAisle
	KindRack
	KindShelf
	KindTray
	KindPort
)

// String returns the string representation of a node kind
func (k NodeKind) String() string {
	switch k {
	case KindGraph:
		return "graph"
	case KindHall:
		return "hall"
	case KindAisle:
		return "aisle"
	case KindRack:
		return "rack"
	case KindShelf:
		return "shelf"
	case KindTray:
		return "tray"
	case KindPort:
		return "port"
	default:
		return "unknown"
	}
}

// ParseKind converts a string to a NodeKind
func ParseKind(s string) (NodeKind, bool) {
	switch s {
	case "graph":
		return KindGraph, true
	case "hall":
		return KindHall, true
	case "aisle":
		return KindAisle, true
	case "rack":
		return KindRack, true
	case "shelf":
		return KindShelf, true
	case "tray":
		return KindTray, true
	case "port":
		return KindPort, true
	default:
		return 0, false
	}
}

// Location is a physical rack position. A nil *Location means the node
// has not been placed yet.
type Location struct {
	Hall    string
	Aisle   string
	RackNum int
	ShelfU  int
}

// RackKey returns the identifying triple of the rack holding this location.
func (l Location) RackKey() RackKey {
	return RackKey{Hall: l.Hall, Aisle: l.Aisle, Num: l.RackNum}
}

// RackKey identifies a rack by its coordinate triple.
type RackKey struct {
	Hall  string
	Aisle string
	Num   int
}

// ShelfData carries the shelf-specific fields. Identity fields
// (HostIndex, Hostname, Loc) are invariant across view modes.
type ShelfData struct {
	HostIndex uint64
	Hostname  string
	Loc       *Location
	// TemplateName/ChildName are set when the shelf is owned by a
	// template instance: the template it belongs to and its child
	// name inside that template.
	TemplateName string
	ChildName    string
}

// TrayData carries tray-specific fields. Loc mirrors the owning shelf.
type TrayData struct {
	Number int
	Loc    *Location
}

// PortData carries port-specific fields. Loc mirrors the owning shelf.
type PortData struct {
	Number int
	Loc    *Location
}

// GraphData carries container-specific fields. TemplateName is empty
// only for the root container; ChildName is set when the container is
// itself a child of another template.
type GraphData struct {
	TemplateName string
	ChildName    string
}

// RackData identifies a synthesized location-mode rack.
type RackData struct {
	Hall  string
	Aisle string
	Num   int
}

// AisleData identifies a synthesized location-mode aisle.
type AisleData struct {
	Hall string
	Name string
}

// HallData identifies a synthesized location-mode hall.
type HallData struct {
	Name string
}

// Node is a tagged variant over the seven node kinds. Exactly the data
// pointer matching Kind is non-nil.
type Node struct {
	ID       NodeID
	ParentID NodeID
	Kind     NodeKind
	Label    string

	Shelf *ShelfData
	Tray  *TrayData
	Port  *PortData
	Graph *GraphData
	Rack  *RackData
	Aisle *AisleData
	Hall  *HallData
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	c := *n
	if n.Shelf != nil {
		sd := *n.Shelf
		if n.Shelf.Loc != nil {
			loc := *n.Shelf.Loc
			sd.Loc = &loc
		}
		c.Shelf = &sd
	}
	if n.Tray != nil {
		td := *n.Tray
		if n.Tray.Loc != nil {
			loc := *n.Tray.Loc
			td.Loc = &loc
		}
		c.Tray = &td
	}
	if n.Port != nil {
		pd := *n.Port
		if n.Port.Loc != nil {
			loc := *n.Port.Loc
			pd.Loc = &loc
		}
		c.Port = &pd
	}
	if n.Graph != nil {
		gd := *n.Graph
		c.Graph = &gd
	}
	if n.Rack != nil {
		rd := *n.Rack
		c.Rack = &rd
	}
	if n.Aisle != nil {
		ad := *n.Aisle
		c.Aisle = &ad
	}
	if n.Hall != nil {
		hd := *n.Hall
		c.Hall = &hd
	}
	return &c
}

// CableSpec describes the cable of a connection.
type CableSpec struct {
	Type   string
	Length string
	Color  string
}

// Connection is a cable between two ports. A non-empty TemplateName
// marks it template-scoped: it exists in every live instance of that
// template and in the template's own connection list.
type Connection struct {
	ID           ConnectionID
	SourcePortID NodeID
	TargetPortID NodeID
	CableType    string
	CableLength  string
	TemplateName string
	Color        string
}

// Clone returns a copy of the connection
func (c *Connection) Clone() *Connection {
	cc := *c
	return &cc
}

// Touches reports whether the connection has the given port as an endpoint.
func (c *Connection) Touches(port NodeID) bool {
	return c.SourcePortID == port || c.TargetPortID == port
}
