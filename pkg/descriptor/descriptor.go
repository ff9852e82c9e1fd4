// Package descriptor serializes the inventory and template catalog to
// a YAML document and rebuilds an equivalent in-memory state from one.
// It exists so the core is exercisable end to end without a front-end;
// the grammar is deliberately minimal.
package descriptor

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/cablegraph/cablegraph/pkg/inventory"
)

// PathSpec is the serialized form of a relative port path.
type PathSpec struct {
	Path []string `yaml:"path"`
	Tray int      `yaml:"tray,omitempty"`
	Port int      `yaml:"port,omitempty"`
}

// TemplateChildSpec is one child slot of a template.
type TemplateChildSpec struct {
	Name         string `yaml:"name"`
	Kind         string `yaml:"kind"` // leaf | graph
	RefTemplate  string `yaml:"refTemplate,omitempty"`
	Trays        int    `yaml:"trays,omitempty"`
	PortsPerTray int    `yaml:"portsPerTray,omitempty"`
}

// TemplateConnSpec is a template-internal connection.
type TemplateConnSpec struct {
	Source      PathSpec `yaml:"source"`
	Target      PathSpec `yaml:"target"`
	CableType   string   `yaml:"cableType,omitempty"`
	CableLength string   `yaml:"cableLength,omitempty"`
	Color       string   `yaml:"color,omitempty"`
}

// TemplateSpec is a reusable topology definition.
type TemplateSpec struct {
	Name        string              `yaml:"name"`
	Children    []TemplateChildSpec `yaml:"children"`
	Connections []TemplateConnSpec  `yaml:"connections,omitempty"`
}

// NodeSpec is one inventory node. Parent references the id of an
// earlier node in the list; zero means the root container.
type NodeSpec struct {
	ID     uint64 `yaml:"id"`
	Parent uint64 `yaml:"parent"`
	Kind   string `yaml:"kind"`
	Label  string `yaml:"label,omitempty"`

	// shelf fields
	Hostname  string `yaml:"hostname,omitempty"`
	HostIndex uint64 `yaml:"hostIndex,omitempty"`

	// shelf/tray/port physical location
	Hall    *string `yaml:"hall,omitempty"`
	Aisle   *string `yaml:"aisle,omitempty"`
	RackNum *int    `yaml:"rackNum,omitempty"`
	ShelfU  *int    `yaml:"shelfU,omitempty"`

	// tray/port numbering
	Number int `yaml:"number,omitempty"`

	// template ownership
	Template  string `yaml:"template,omitempty"`
	ChildName string `yaml:"childName,omitempty"`

	// rack identity
	RackHall  string `yaml:"rackHall,omitempty"`
	RackAisle string `yaml:"rackAisle,omitempty"`
	RackNo    int    `yaml:"rackNo,omitempty"`
}

// ConnSpec is a concrete connection between two port node ids.
type ConnSpec struct {
	Source      uint64 `yaml:"source"`
	Target      uint64 `yaml:"target"`
	CableType   string `yaml:"cableType,omitempty"`
	CableLength string `yaml:"cableLength,omitempty"`
	Color       string `yaml:"color,omitempty"`
	Template    string `yaml:"template,omitempty"`
}

// Document is the on-the-wire shape of a full topology.
type Document struct {
	Mode        string         `yaml:"mode"`
	Templates   []TemplateSpec `yaml:"templates,omitempty"`
	Nodes       []NodeSpec     `yaml:"nodes,omitempty"`
	Connections []ConnSpec     `yaml:"connections,omitempty"`
}

// Load parses a YAML descriptor.
func Load(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}
	return &doc, nil
}

// Save writes a YAML descriptor.
func Save(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write descriptor: %w", err)
	}
	return enc.Close()
}

func pathToSpec(p inventory.PortPath) PathSpec {
	return PathSpec{Path: append([]string(nil), p.Tokens...), Tray: p.Tray, Port: p.Port}
}

func specToPath(s PathSpec) inventory.PortPath {
	return inventory.PortPath{Tokens: append([]string(nil), s.Path...), Tray: s.Tray, Port: s.Port}
}
