package inventory

import (
	"sort"

	"github.com/cablegraph/cablegraph/pkg/logging"
)

// CreateConnection cables two ports together. templateName may be empty
// (instance-scoped) or the name of the template the connection belongs
// to (template-scoped).
func (s *Store) CreateConnection(srcPort, dstPort NodeID, cable CableSpec, templateName string) (*Connection, error) {
	const op = "CreateConnection"
	if srcPort == dstPort {
		return nil, ValidationError(op, "connection endpoints must differ")
	}
	for _, id := range []NodeID{srcPort, dstPort} {
		n, ok := s.nodes[id]
		if !ok {
			return nil, NodeNotFoundError(op, id)
		}
		if n.Kind != KindPort {
			return nil, NewError(op).Node(id).Cause(ErrNotAPort).Err()
		}
	}

	conn := &Connection{
		ID:           s.allocConnID(),
		SourcePortID: srcPort,
		TargetPortID: dstPort,
		CableType:    cable.Type,
		CableLength:  cable.Length,
		Color:        cable.Color,
		TemplateName: templateName,
	}
	s.conns[conn.ID] = conn
	s.connsByPort[srcPort] = append(s.connsByPort[srcPort], conn.ID)
	s.connsByPort[dstPort] = append(s.connsByPort[dstPort], conn.ID)

	s.log.Debug("connection created",
		logging.ConnectionID(uint64(conn.ID)),
		logging.Template(templateName))
	return conn.Clone(), nil
}

// GetConnection retrieves a connection by id. The returned value is a copy.
func (s *Store) GetConnection(id ConnectionID) (*Connection, error) {
	c, ok := s.conns[id]
	if !ok {
		return nil, ConnectionNotFoundError("GetConnection", id)
	}
	return c.Clone(), nil
}

// DeleteConnection removes a single connection.
func (s *Store) DeleteConnection(id ConnectionID) error {
	if _, ok := s.conns[id]; !ok {
		return ConnectionNotFoundError("DeleteConnection", id)
	}
	s.dropConnection(id)
	return nil
}

func (s *Store) dropConnection(id ConnectionID) {
	c, ok := s.conns[id]
	if !ok {
		return
	}
	for _, port := range []NodeID{c.SourcePortID, c.TargetPortID} {
		refs := s.connsByPort[port]
		for i, ref := range refs {
			if ref == id {
				s.connsByPort[port] = append(refs[:i], refs[i+1:]...)
				break
			}
		}
	}
	delete(s.conns, id)
}

// Connections returns copies of every connection, ordered by id.
func (s *Store) Connections() []*Connection {
	out := make([]*Connection, 0, len(s.conns))
	for _, c := range s.conns {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConnectionsOf returns the ids of connections touching the given port.
func (s *Store) ConnectionsOf(port NodeID) []ConnectionID {
	refs := s.connsByPort[port]
	out := make([]ConnectionID, len(refs))
	copy(out, refs)
	return out
}

// ConnectionsWithin returns copies of every connection whose both
// endpoints are in the given set, ordered by id.
func (s *Store) ConnectionsWithin(ports map[NodeID]bool) []*Connection {
	var out []*Connection
	for _, c := range s.conns {
		if ports[c.SourcePortID] && ports[c.TargetPortID] {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ConnectionsBetween returns the ids of connections linking the two
// ports, in either direction.
func (s *Store) ConnectionsBetween(a, b NodeID) []ConnectionID {
	var out []ConnectionID
	for _, id := range s.connsByPort[a] {
		c := s.conns[id]
		if c.Touches(b) {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
