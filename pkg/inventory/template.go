package inventory

import (
	"fmt"

	"github.com/cablegraph/cablegraph/pkg/logging"
)

// ChildKind distinguishes leaf children (shelves) from nested template
// references inside a template definition.
type ChildKind uint8

const (
	ChildLeaf ChildKind = iota
	ChildGraph
)

// String returns the string representation of a child kind
func (k ChildKind) String() string {
	if k == ChildGraph {
		return "graph"
	}
	return "leaf"
}

// TemplateChild is one named slot of a template.
type TemplateChild struct {
	Name        string
	Kind        ChildKind
	RefTemplate string // set for ChildGraph
	// Tray/port complement for leaf children.
	Trays        int
	PortsPerTray int
}

// PortPath addresses a node relative to a template root: child-name
// tokens down to a leaf, optionally followed by a tray/port address.
// Tray and Port are 1-based; zero means the path stops at the child.
type PortPath struct {
	Tokens []string
	Tray   int
	Port   int
}

// HasPortAddress reports whether the path ends in a tray/port address.
func (p PortPath) HasPortAddress() bool {
	return p.Tray > 0 && p.Port > 0
}

// Equal reports whether two paths address the same position.
func (p PortPath) Equal(o PortPath) bool {
	if len(p.Tokens) != len(o.Tokens) || p.Tray != o.Tray || p.Port != o.Port {
		return false
	}
	for i := range p.Tokens {
		if p.Tokens[i] != o.Tokens[i] {
			return false
		}
	}
	return true
}

// String renders the path in slash form, e.g. "n1/2/1".
func (p PortPath) String() string {
	out := ""
	for i, tok := range p.Tokens {
		if i > 0 {
			out += "/"
		}
		out += tok
	}
	if p.HasPortAddress() {
		out += fmt.Sprintf("/%d/%d", p.Tray, p.Port)
	}
	return out
}

// TemplateConnection is an internal connection of a template, expressed
// as two relative port paths rather than concrete ids.
type TemplateConnection struct {
	Source PortPath
	Target PortPath
	Cable  CableSpec
}

// Template is a reusable topology definition.
type Template struct {
	Name        string
	Children    []TemplateChild
	Connections []TemplateConnection
}

// Child looks up a child slot by name.
func (t *Template) Child(name string) (TemplateChild, bool) {
	for _, c := range t.Children {
		if c.Name == name {
			return c, true
		}
	}
	return TemplateChild{}, false
}

// Clone returns a deep copy of the template
func (t *Template) Clone() *Template {
	c := &Template{Name: t.Name}
	c.Children = append(c.Children, t.Children...)
	for _, tc := range t.Connections {
		cc := tc
		cc.Source.Tokens = append([]string(nil), tc.Source.Tokens...)
		cc.Target.Tokens = append([]string(nil), tc.Target.Tokens...)
		c.Connections = append(c.Connections, cc)
	}
	return c
}

// PutTemplate registers a template in the catalog. Referenced templates
// must already be registered and all internal connection paths must be
// resolvable against the definition.
func (s *Store) PutTemplate(t *Template) error {
	const op = "PutTemplate"
	if t == nil || t.Name == "" {
		return ValidationError(op, "template name is required")
	}
	if _, exists := s.templates[t.Name]; exists {
		return NewError(op).Template(t.Name).Cause(ErrTemplateExists).Err()
	}
	seen := make(map[string]bool)
	for _, c := range t.Children {
		if c.Name == "" {
			return NewError(op).Template(t.Name).Context("child with empty name").Cause(ErrValidation).Err()
		}
		if seen[c.Name] {
			return NewError(op).Template(t.Name).Context("duplicate child "+c.Name).Cause(ErrValidation).Err()
		}
		seen[c.Name] = true
		if c.Kind == ChildGraph {
			if _, ok := s.templates[c.RefTemplate]; !ok {
				return NewError(op).Template(t.Name).
					Context("child " + c.Name + " references unknown template " + c.RefTemplate).
					Cause(ErrTemplateNotFound).Err()
			}
		}
	}
	for _, tc := range t.Connections {
		for _, p := range []PortPath{tc.Source, tc.Target} {
			if err := s.checkTemplatePath(t, p); err != nil {
				return NewError(op).Template(t.Name).Context(p.String()).Cause(err).Err()
			}
		}
	}

	s.templates[t.Name] = t.Clone()
	s.templateOrder = append(s.templateOrder, t.Name)
	s.log.Debug("template registered", logging.Template(t.Name), logging.Count(len(t.Children)))
	return nil
}

// checkTemplatePath verifies a relative path resolves inside the
// template definition and ends on a valid tray/port address.
func (s *Store) checkTemplatePath(t *Template, p PortPath) error {
	if len(p.Tokens) == 0 {
		return fmt.Errorf("%w: empty path", ErrValidation)
	}
	cur := t
	for i, tok := range p.Tokens {
		child, ok := cur.Child(tok)
		if !ok {
			return fmt.Errorf("%w: unknown child %q", ErrValidation, tok)
		}
		last := i == len(p.Tokens)-1
		if !last {
			if child.Kind != ChildGraph {
				return fmt.Errorf("%w: child %q is not a nested template", ErrValidation, tok)
			}
			cur = s.templates[child.RefTemplate]
			continue
		}
		if !p.HasPortAddress() {
			return nil
		}
		if child.Kind != ChildLeaf {
			return fmt.Errorf("%w: port address on non-leaf child %q", ErrValidation, tok)
		}
		if p.Tray > child.Trays || p.Port > child.PortsPerTray {
			return fmt.Errorf("%w: address %d/%d outside %dx%d complement",
				ErrValidation, p.Tray, p.Port, child.Trays, child.PortsPerTray)
		}
	}
	return nil
}

// GetTemplate retrieves a template by name. The returned value is a copy.
func (s *Store) GetTemplate(name string) (*Template, error) {
	t, ok := s.templates[name]
	if !ok {
		return nil, TemplateNotFoundError("GetTemplate", name)
	}
	return t.Clone(), nil
}

// HasTemplate reports whether the template exists.
func (s *Store) HasTemplate(name string) bool {
	_, ok := s.templates[name]
	return ok
}

// Templates returns copies of every template in registration order.
func (s *Store) Templates() []*Template {
	out := make([]*Template, 0, len(s.templateOrder))
	for _, name := range s.templateOrder {
		if t, ok := s.templates[name]; ok {
			out = append(out, t.Clone())
		}
	}
	return out
}

// AppendTemplateConnection adds a connection to a template's stored
// list. Used by edit replication so that future instantiations already
// reflect the edit.
func (s *Store) AppendTemplateConnection(name string, tc TemplateConnection) error {
	const op = "AppendTemplateConnection"
	t, ok := s.templates[name]
	if !ok {
		return TemplateNotFoundError(op, name)
	}
	for _, p := range []PortPath{tc.Source, tc.Target} {
		if err := s.checkTemplatePath(t, p); err != nil {
			return NewError(op).Template(name).Context(p.String()).Cause(err).Err()
		}
	}
	t.Connections = append(t.Connections, tc)
	return nil
}

// RemoveTemplateConnection removes the stored connection matching the
// two paths (in either direction). Returns false when no entry matched.
func (s *Store) RemoveTemplateConnection(name string, src, dst PortPath) (bool, error) {
	t, ok := s.templates[name]
	if !ok {
		return false, TemplateNotFoundError("RemoveTemplateConnection", name)
	}
	for i, tc := range t.Connections {
		forward := tc.Source.Equal(src) && tc.Target.Equal(dst)
		reverse := tc.Source.Equal(dst) && tc.Target.Equal(src)
		if forward || reverse {
			t.Connections = append(t.Connections[:i], t.Connections[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// AppendTemplateChild adds a child slot to a template definition.
func (s *Store) AppendTemplateChild(name string, child TemplateChild) error {
	const op = "AppendTemplateChild"
	t, ok := s.templates[name]
	if !ok {
		return TemplateNotFoundError(op, name)
	}
	if _, exists := t.Child(child.Name); exists {
		return NewError(op).Template(name).Context("duplicate child " + child.Name).Cause(ErrValidation).Err()
	}
	if child.Kind == ChildLeaf && (child.Trays < 0 || child.PortsPerTray < 0) {
		return NewError(op).Template(name).Context("negative tray or port count for child " + child.Name).Cause(ErrValidation).Err()
	}
	if child.Kind == ChildGraph {
		if _, ok := s.templates[child.RefTemplate]; !ok {
			return NewError(op).Template(name).Context("unknown template " + child.RefTemplate).Cause(ErrTemplateNotFound).Err()
		}
	}
	t.Children = append(t.Children, child)
	return nil
}

// RemoveTemplateChild removes a child slot and every stored connection
// whose path starts at that child.
func (s *Store) RemoveTemplateChild(name, childName string) (bool, error) {
	t, ok := s.templates[name]
	if !ok {
		return false, TemplateNotFoundError("RemoveTemplateChild", name)
	}
	idx := -1
	for i, c := range t.Children {
		if c.Name == childName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, nil
	}
	t.Children = append(t.Children[:idx], t.Children[idx+1:]...)
	kept := t.Connections[:0]
	for _, tc := range t.Connections {
		if len(tc.Source.Tokens) > 0 && tc.Source.Tokens[0] == childName {
			continue
		}
		if len(tc.Target.Tokens) > 0 && tc.Target.Tokens[0] == childName {
			continue
		}
		kept = append(kept, tc)
	}
	t.Connections = kept
	return true, nil
}

// ChildNodeByName finds the direct child of a container whose template
// child name matches.
func (s *Store) ChildNodeByName(containerID NodeID, name string) (NodeID, bool) {
	for _, kid := range s.children[containerID] {
		n := s.nodes[kid]
		switch n.Kind {
		case KindShelf:
			if n.Shelf.ChildName == name {
				return kid, true
			}
		case KindGraph:
			if n.Graph.ChildName == name {
				return kid, true
			}
		}
	}
	return 0, false
}

// ResolvePortPath follows a relative path from a container down to a
// concrete node. Returns false when any hop is missing, which means the
// instance has locally diverged from its template shape.
func (s *Store) ResolvePortPath(containerID NodeID, p PortPath) (NodeID, bool) {
	cur := containerID
	for _, tok := range p.Tokens {
		next, ok := s.ChildNodeByName(cur, tok)
		if !ok {
			return 0, false
		}
		cur = next
	}
	if !p.HasPortAddress() {
		return cur, true
	}
	return s.FindPort(cur, p.Tray, p.Port)
}

// Instantiate materializes a template as a new live instance under the
// given container, including nested instances and the internal
// connections of every template involved.
func (s *Store) Instantiate(templateName string, parentID NodeID, label string) (NodeID, error) {
	const op = "Instantiate"
	t, ok := s.templates[templateName]
	if !ok {
		return 0, TemplateNotFoundError(op, templateName)
	}
	if _, err := s.checkParent(op, parentID, KindGraph); err != nil {
		return 0, err
	}
	if label == "" {
		label = templateName
	}
	id, err := s.instantiate(t, parentID, label, "")
	if err != nil {
		return 0, err
	}
	s.log.Info("template instantiated",
		logging.Template(templateName),
		logging.NodeID(uint64(id)))
	return id, nil
}

// InstantiateAsChild materializes a template instance occupying a named
// child slot of a live instance. Used by child-addition replication.
func (s *Store) InstantiateAsChild(templateName string, parentID NodeID, label, childName string) (NodeID, error) {
	t, ok := s.templates[templateName]
	if !ok {
		return 0, TemplateNotFoundError("InstantiateAsChild", templateName)
	}
	if _, err := s.checkParent("InstantiateAsChild", parentID, KindGraph); err != nil {
		return 0, err
	}
	return s.instantiate(t, parentID, label, childName)
}

// CreateShelfInInstance creates a leaf child slot inside a live
// instance, marked as owned by the instance's template.
func (s *Store) CreateShelfInInstance(instanceID NodeID, label string, child TemplateChild, templateName string) (*Node, error) {
	return s.createShelf(instanceID, label, "", child.Trays, child.PortsPerTray, templateName, child.Name)
}

func (s *Store) instantiate(t *Template, parentID NodeID, label, childName string) (NodeID, error) {
	g := &Node{
		ID:       s.allocNodeID(),
		ParentID: parentID,
		Kind:     KindGraph,
		Label:    label,
		Graph:    &GraphData{TemplateName: t.Name, ChildName: childName},
	}
	s.nodes[g.ID] = g
	s.addChild(parentID, g.ID)

	for _, c := range t.Children {
		switch c.Kind {
		case ChildLeaf:
			if _, err := s.createShelf(g.ID, label+"/"+c.Name, "", c.Trays, c.PortsPerTray, t.Name, c.Name); err != nil {
				return 0, err
			}
		case ChildGraph:
			ref, ok := s.templates[c.RefTemplate]
			if !ok {
				return 0, TemplateNotFoundError("Instantiate", c.RefTemplate)
			}
			if _, err := s.instantiate(ref, g.ID, label+"/"+c.Name, c.Name); err != nil {
				return 0, err
			}
		}
	}

	for _, tc := range t.Connections {
		src, ok := s.ResolvePortPath(g.ID, tc.Source)
		if !ok {
			return 0, NewError("Instantiate").Template(t.Name).Context(tc.Source.String()).Cause(ErrValidation).Err()
		}
		dst, ok := s.ResolvePortPath(g.ID, tc.Target)
		if !ok {
			return 0, NewError("Instantiate").Template(t.Name).Context(tc.Target.String()).Cause(ErrValidation).Err()
		}
		if _, err := s.CreateConnection(src, dst, tc.Cable, t.Name); err != nil {
			return 0, err
		}
	}
	return g.ID, nil
}
