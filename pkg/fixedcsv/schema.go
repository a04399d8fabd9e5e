package fixedcsv

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Field is one fixed-width column.
type Field struct {
	Name  string `yaml:"name"`
	Width int    `yaml:"width"`
}

// Schema describes a record layout. On disk each field is padded with
// spaces to its width; fields are joined by commas and the record ends
// with a newline, so every record occupies exactly RecordSize bytes.
type Schema struct {
	Fields []Field `yaml:"fields"`
}

// ParseSchema decodes a YAML schema and validates it.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("fixedcsv: parse schema: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Schema) validate() error {
	if len(s.Fields) == 0 {
		return errors.New("fixedcsv: schema has no fields")
	}
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name == "" {
			return errors.New("fixedcsv: field with empty name")
		}
		if f.Width <= 0 {
			return fmt.Errorf("fixedcsv: field %s has width %d", f.Name, f.Width)
		}
		if seen[f.Name] {
			return fmt.Errorf("fixedcsv: duplicate field %s", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

// RecordSize returns the on-disk size of one record: the field widths plus
// one separator byte per field.
func (s *Schema) RecordSize() int {
	n := 0
	for _, f := range s.Fields {
		n += f.Width
	}
	return n + len(s.Fields)
}

// Columns returns the field names in order.
func (s *Schema) Columns() []string {
	cols := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		cols[i] = f.Name
	}
	return cols
}
