package xlmap

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldKey is the composite identity of a source field. It is case-sensitive
// and immutable once an entry is created.
type FieldKey struct {
	Name      string
	FieldType string
}

// FieldEntry is one row of the source catalog.
type FieldEntry struct {
	ID        string `yaml:"id,omitempty"`
	Name      string `yaml:"name"`
	FieldType string `yaml:"fieldType"`

	Essence       string `yaml:"essence,omitempty"`
	DGHNote       string `yaml:"dghNote,omitempty"`
	AlwaysReturns string `yaml:"alwaysReturns,omitempty"`
	Notes         string `yaml:"notes,omitempty"`

	// Mapped is true iff a mapping exists whose target has a non-empty name
	// or hierarchy path.
	Mapped            bool   `yaml:"mapped,omitempty"`
	MappedTargetLabel string `yaml:"mappedTargetLabel,omitempty"`
	Status            Color  `yaml:"status,omitempty"`
}

// Key returns the composite identity of the entry.
func (e *FieldEntry) Key() FieldKey {
	return FieldKey{Name: e.Name, FieldType: e.FieldType}
}

// Validate checks that the entry carries a usable identity and a status
// within the closed color set.
func (e FieldEntry) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Name, validation.Required),
		validation.Field(&e.FieldType, validation.Required),
		validation.Field(&e.Status, validation.In(ColorGreen, ColorRed, ColorYellow)),
	)
}

// TargetNode is a node in the destination schema hierarchy that a source
// field maps to.
type TargetNode struct {
	ID    string   `yaml:"id,omitempty"`
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type,omitempty"`
	Rules []string `yaml:"rules,omitempty"`
	Path  string   `yaml:"path,omitempty"`
}

// Label renders the target's hierarchy label: the arrow form of its dot path
// when one exists, otherwise its plain name.
func (n *TargetNode) Label() string {
	if n.Path != "" {
		return PathLabel(n.Path)
	}
	return n.Name
}

// MappingRecord associates one source field with one target schema node.
// Field is a snapshot of the source field at mapping time, not a live
// registry reference.
type MappingRecord struct {
	Target         TargetNode `yaml:"target"`
	Field          FieldEntry `yaml:"field"`
	MappingDetails string     `yaml:"mappingDetails,omitempty"`
	Outputs        string     `yaml:"outputs,omitempty"`
	CreatedAt      time.Time  `yaml:"createdAt,omitempty"`
}

// Key returns the composite identity of the mapped source field.
func (m *MappingRecord) Key() FieldKey {
	return FieldKey{Name: m.Field.Name, FieldType: m.Field.FieldType}
}

// HasTarget reports whether the record points at a real target: a target
// with a non-empty name or hierarchy path.
func (m *MappingRecord) HasTarget() bool {
	return m.Target.Name != "" || m.Target.Path != ""
}
