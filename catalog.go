package xlmap

import (
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Catalog is the YAML persistence form of a field registry plus its mapping
// history, used by the CLI to round-trip state without the owning
// application.
type Catalog struct {
	SchemaToken string          `yaml:"schemaToken,omitempty"`
	Fields      []FieldEntry    `yaml:"fields"`
	Mappings    []MappingRecord `yaml:"mappings,omitempty"`
}

// LoadCatalog reads and validates a catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates catalog YAML.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks every field entry.
func (c *Catalog) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Fields, validation.Each()),
	)
}

// Save writes the catalog as YAML.
func (c *Catalog) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %q: %w", path, err)
	}
	return nil
}

// Registry builds a fresh registry populated with the catalog's fields.
func (c *Catalog) Registry() *Registry {
	reg := NewRegistry()
	for _, e := range c.Fields {
		reg.Upsert(e)
	}
	return reg
}
