// Package load defines the declaration surface of the mapper: plain records
// describing mapped entities and data-access objects, however they were
// authored. The compiler consumes these records; it never reflects over user
// code.
package load

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema is one complete set of declarations handed to the compiler.
type Schema struct {
	Entities []*Entity `yaml:"entities"`
	DAOs     []*DAO    `yaml:"daos"`
}

// Entity describes a mapped record type.
type Entity struct {
	// Name is the logical type name, e.g. "Votes".
	Name string `yaml:"name"`
	// Keyspace and Table are optional explicit overrides. When unset, the
	// table name is derived from Name via the active naming convention and
	// the keyspace is left to resolution precedence.
	Keyspace string `yaml:"keyspace,omitempty"`
	Table    string `yaml:"table,omitempty"`
	// Strategy holds explicit property-strategy fragments. Multiple
	// fragments are merged; conflicting fragments are a declaration error.
	Strategy []*Strategy `yaml:"strategy,omitempty"`
	// Properties in declaration order.
	Properties []*Property `yaml:"properties"`
	// Constructors lists the property-name parameter lists of the visible
	// constructors. Immutable entities must declare one accepting all
	// non-transient properties.
	Constructors [][]string `yaml:"constructors,omitempty"`
	// Setters lists the properties for which a setter is visible.
	Setters []string `yaml:"setters,omitempty"`
}

// KeyRole values recognized on a property declaration.
const (
	KeyNone       = ""
	KeyPartition  = "partition"
	KeyClustering = "clustering"
)

// Property describes one mapped property of an entity.
type Property struct {
	Name string `yaml:"name"`
	// Type is the semantic value type: int, bigint, counter, text, uuid,
	// boolean, double, timestamp.
	Type string `yaml:"type"`
	// Column overrides the naming-convention column name.
	Column string `yaml:"column,omitempty"`
	// Key is the primary-key role: "", "partition" or "clustering".
	Key string `yaml:"key,omitempty"`
	// Position is an optional explicit ordinal within the key segment.
	// Omitted positions follow declaration order.
	Position *int `yaml:"position,omitempty"`
	// Transient properties are not mapped to columns.
	Transient bool `yaml:"transient,omitempty"`
}

// Strategy is one explicit property-strategy fragment. Nil/empty fields are
// unspecified and fall back to the global default, never to a detector's.
type Strategy struct {
	Mutable  *bool  `yaml:"mutable,omitempty"`
	Accessor string `yaml:"accessor,omitempty"` // "getset" or "short"
}

// DAO describes one data-access object to generate.
type DAO struct {
	Name string `yaml:"name"`
	// Keyspace and Table are per-DAO overrides applied to every method
	// that does not carry its own.
	Keyspace string    `yaml:"keyspace,omitempty"`
	Table    string    `yaml:"table,omitempty"`
	Methods  []*Method `yaml:"methods"`
}

// Method describes one declared data-access method.
type Method struct {
	Name string `yaml:"name"`
	// Kind is the method-kind tag, e.g. "increment".
	Kind string `yaml:"kind"`
	// Params are the declared positional parameters, excluding the
	// optional trailing statement customizer.
	Params []*Param `yaml:"params"`
	// Returns is the declared return shape: "void", "future" or "stream".
	// An empty value means "void".
	Returns string `yaml:"returns,omitempty"`
	// Customizer marks a trailing statement-customizer parameter.
	Customizer bool `yaml:"customizer,omitempty"`
	// Keyspace and Table are per-method overrides.
	Keyspace string `yaml:"keyspace,omitempty"`
	Table    string `yaml:"table,omitempty"`
	// Attributes are static statement attributes passed through to the
	// execution engine unchanged.
	Attributes *Attributes `yaml:"attributes,omitempty"`
}

// Param is one declared method parameter.
type Param struct {
	Name string `yaml:"name"`
	// Type is either an entity name or a semantic value type.
	Type string `yaml:"type"`
}

// Attributes are opaque static statement attributes.
type Attributes struct {
	PageSize  int    `yaml:"page_size,omitempty"`
	TimeoutMS int    `yaml:"timeout_ms,omitempty"`
	Profile   string `yaml:"profile,omitempty"`
}

// Parse decodes a schema from YAML and checks its basic shape. Semantic
// validation (key ordinals, strategies, method contracts) belongs to the
// compiler; Parse only rejects declarations no compiler pass could attribute.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("load: decode schema: %w", err)
	}
	if err := s.check(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromFile reads and parses a schema file.
func FromFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: read schema: %w", err)
	}
	return Parse(data)
}

// Entity returns the declared entity with the given name.
func (s *Schema) Entity(name string) (*Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}

func (s *Schema) check() error {
	seen := make(map[string]struct{}, len(s.Entities))
	for _, e := range s.Entities {
		if e.Name == "" {
			return fmt.Errorf("load: entity with empty name")
		}
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("load: duplicate entity %q", e.Name)
		}
		seen[e.Name] = struct{}{}
		for _, p := range e.Properties {
			if p.Name == "" {
				return fmt.Errorf("load: entity %q: property with empty name", e.Name)
			}
			switch p.Key {
			case KeyNone, KeyPartition, KeyClustering:
			default:
				return fmt.Errorf("load: entity %q: property %q: unknown key role %q", e.Name, p.Name, p.Key)
			}
		}
	}
	daos := make(map[string]struct{}, len(s.DAOs))
	for _, d := range s.DAOs {
		if d.Name == "" {
			return fmt.Errorf("load: dao with empty name")
		}
		if _, ok := daos[d.Name]; ok {
			return fmt.Errorf("load: duplicate dao %q", d.Name)
		}
		daos[d.Name] = struct{}{}
		methods := make(map[string]struct{}, len(d.Methods))
		for _, m := range d.Methods {
			if m.Name == "" {
				return fmt.Errorf("load: dao %q: method with empty name", d.Name)
			}
			if _, ok := methods[m.Name]; ok {
				return fmt.Errorf("load: dao %q: duplicate method %q", d.Name, m.Name)
			}
			methods[m.Name] = struct{}{}
		}
	}
	return nil
}
