package gen

import (
	"fmt"

	"github.com/vellumdb/cqlmapper/compiler/load"
)

// The following types and their exported methods are used by the emitter to
// generate the assets.
type (
	// EntityDefinition is the immutable model of one mapped entity. It is
	// built once per distinct entity per generation session and owned by
	// the session registry afterwards.
	EntityDefinition struct {
		// Name is the logical type name.
		Name string
		// Keyspace is the explicit keyspace override, empty if unset.
		Keyspace string
		// Table is the resolved table name: the explicit override, or
		// the naming convention applied to Name.
		Table string
		// Mutable indicates whether generated code may write the
		// entity's fields directly.
		Mutable bool
		// Accessor is the resolved accessor style.
		Accessor AccessorStyle
		// Properties holds all mapped properties in declaration order.
		Properties []*PropertyDefinition
		// PartitionKey and ClusteringKey are the ordered key subsets.
		PartitionKey  []*PropertyDefinition
		ClusteringKey []*PropertyDefinition
		// RegularColumns is everything not in a key subset, declaration
		// order preserved for deterministic emission.
		RegularColumns []*PropertyDefinition
	}

	// PropertyDefinition is the model of one mapped property.
	PropertyDefinition struct {
		// Name is the logical property name.
		Name string
		// Column is the external column name.
		Column string
		// Type is the semantic value type tag.
		Type string
		// Key is the primary-key role of the property.
		Key KeyRole
		// Ordinal is the position within the key segment; -1 for
		// regular columns.
		Ordinal int
	}
)

// KeyRole is the primary-key role of a property.
type KeyRole int

const (
	// KeyNone marks a regular column.
	KeyNone KeyRole = iota
	// KeyPartition marks a partition-key column.
	KeyPartition
	// KeyClustering marks a clustering-key column.
	KeyClustering
)

// String returns the role name.
func (r KeyRole) String() string {
	switch r {
	case KeyPartition:
		return "partition"
	case KeyClustering:
		return "clustering"
	default:
		return "none"
	}
}

// AccessorStyle is the resolved accessor convention of an entity.
type AccessorStyle int

const (
	// AccessorGetSet is the conventional Get/Set style.
	AccessorGetSet AccessorStyle = iota
	// AccessorShort names the accessor after the property itself.
	AccessorShort
)

// String returns the style name.
func (s AccessorStyle) String() string {
	switch s {
	case AccessorShort:
		return "short"
	default:
		return "getset"
	}
}

func parseAccessor(s string) (AccessorStyle, error) {
	switch s {
	case "", "getset":
		return AccessorGetSet, nil
	case "short":
		return AccessorShort, nil
	default:
		return AccessorGetSet, fmt.Errorf("unknown accessor style %q", s)
	}
}

// NewEntity builds the entity model from its declaration. The returned
// definition is never mutated afterwards.
func NewEntity(c *Config, decl *load.Entity) (*EntityDefinition, error) {
	mutable, accessor, err := resolveStrategy(c, decl)
	if err != nil {
		return nil, err
	}
	naming := c.naming()
	table := decl.Table
	if table == "" {
		table = naming(decl.Name)
	}
	ed := &EntityDefinition{
		Name:     decl.Name,
		Keyspace: decl.Keyspace,
		Table:    table,
		Mutable:  mutable,
		Accessor: accessor,
	}
	columns := make(map[string]string, len(decl.Properties))
	for _, p := range decl.Properties {
		if p.Transient {
			continue
		}
		column := p.Column
		if column == "" {
			column = naming(p.Name)
		}
		if prev, ok := columns[column]; ok {
			return nil, NewDeclarationError(decl.Name, "",
				"properties %s and %s map to the same column %q", prev, p.Name, column)
		}
		columns[column] = p.Name
		pd := &PropertyDefinition{
			Name:    p.Name,
			Column:  column,
			Type:    p.Type,
			Ordinal: -1,
		}
		switch p.Key {
		case load.KeyPartition:
			pd.Key = KeyPartition
			ed.PartitionKey = append(ed.PartitionKey, pd)
		case load.KeyClustering:
			pd.Key = KeyClustering
			ed.ClusteringKey = append(ed.ClusteringKey, pd)
		default:
			ed.RegularColumns = append(ed.RegularColumns, pd)
		}
		ed.Properties = append(ed.Properties, pd)
	}
	if len(ed.PartitionKey) == 0 {
		return nil, NewDeclarationError(decl.Name, "", "entity has no partition key")
	}
	if err := orderKeySegment(decl, load.KeyPartition, ed.PartitionKey); err != nil {
		return nil, err
	}
	if err := orderKeySegment(decl, load.KeyClustering, ed.ClusteringKey); err != nil {
		return nil, err
	}
	if !ed.Mutable && !hasAllPropertiesConstructor(decl) {
		return nil, NewDeclarationError(decl.Name, "",
			"immutable entity must declare a constructor accepting all %d non-transient properties", len(ed.Properties))
	}
	return ed, nil
}

// resolveStrategy applies the defaulting precedence chain: explicit strategy
// fragments, then the first matching idiom detector, then the global default
// (mutable, get/set). Once any explicit fragment is present, unspecified
// fields take the global default, never the detector's.
func resolveStrategy(c *Config, decl *load.Entity) (mutable bool, accessor AccessorStyle, err error) {
	mutable, accessor = true, AccessorGetSet
	if len(decl.Strategy) > 0 {
		var (
			explicitMutable  *bool
			explicitAccessor *AccessorStyle
		)
		for _, fragment := range decl.Strategy {
			if fragment == nil {
				continue
			}
			if fragment.Mutable != nil {
				if explicitMutable != nil && *explicitMutable != *fragment.Mutable {
					return false, 0, NewAmbiguityError(decl.Name, "mutable",
						"fragments disagree: %v and %v", *explicitMutable, *fragment.Mutable)
				}
				explicitMutable = fragment.Mutable
			}
			if fragment.Accessor != "" {
				style, perr := parseAccessor(fragment.Accessor)
				if perr != nil {
					return false, 0, NewDeclarationError(decl.Name, "", "%v", perr)
				}
				if explicitAccessor != nil && *explicitAccessor != style {
					return false, 0, NewAmbiguityError(decl.Name, "accessor",
						"fragments disagree: %s and %s", *explicitAccessor, style)
				}
				explicitAccessor = &style
			}
		}
		if explicitMutable != nil {
			mutable = *explicitMutable
		}
		if explicitAccessor != nil {
			accessor = *explicitAccessor
		}
		return mutable, accessor, nil
	}
	for _, d := range c.detectors() {
		if defaults, ok := d.Detect(decl); ok {
			return defaults.Mutable, defaults.Accessor, nil
		}
	}
	return mutable, accessor, nil
}

// orderKeySegment validates and applies key ordinals for one segment.
// Either every property of the segment declares an explicit position
// (forming a contiguous 0-based sequence), or none does and declaration
// order is kept.
func orderKeySegment(decl *load.Entity, role string, segment []*PropertyDefinition) error {
	if len(segment) == 0 {
		return nil
	}
	declared := make(map[string]*load.Property, len(decl.Properties))
	explicit := 0
	for _, p := range decl.Properties {
		declared[p.Name] = p
		if p.Key == role && p.Position != nil {
			explicit++
		}
	}
	switch {
	case explicit == 0:
		for i, pd := range segment {
			pd.Ordinal = i
		}
		return nil
	case explicit != len(segment):
		return NewDeclarationError(decl.Name, "",
			"%s key mixes explicit and implicit positions", role)
	}
	seen := make(map[int]string, len(segment))
	for _, pd := range segment {
		pos := *declared[pd.Name].Position
		if pos < 0 || pos >= len(segment) {
			return NewDeclarationError(decl.Name, "",
				"%s key position %d of %s is outside 0..%d", role, pos, pd.Name, len(segment)-1)
		}
		if other, ok := seen[pos]; ok {
			return NewDeclarationError(decl.Name, "",
				"%s key position %d declared by both %s and %s", role, pos, other, pd.Name)
		}
		seen[pos] = pd.Name
		pd.Ordinal = pos
	}
	ordered := make([]*PropertyDefinition, len(segment))
	for _, pd := range segment {
		ordered[pd.Ordinal] = pd
	}
	copy(segment, ordered)
	return nil
}

func hasAllPropertiesConstructor(decl *load.Entity) bool {
	mapped := make(map[string]struct{})
	for _, p := range decl.Properties {
		if !p.Transient {
			mapped[p.Name] = struct{}{}
		}
	}
	for _, params := range decl.Constructors {
		if len(params) != len(mapped) {
			continue
		}
		all := true
		seen := make(map[string]struct{}, len(params))
		for _, name := range params {
			if _, ok := mapped[name]; !ok {
				all = false
				break
			}
			if _, dup := seen[name]; dup {
				all = false
				break
			}
			seen[name] = struct{}{}
		}
		if all {
			return true
		}
	}
	return false
}

// PrimaryKey returns the key columns in partition-then-clustering order.
func (e *EntityDefinition) PrimaryKey() []*PropertyDefinition {
	pk := make([]*PropertyDefinition, 0, len(e.PartitionKey)+len(e.ClusteringKey))
	pk = append(pk, e.PartitionKey...)
	return append(pk, e.ClusteringKey...)
}

// Property returns the property with the given logical name.
func (e *EntityDefinition) Property(name string) (*PropertyDefinition, bool) {
	for _, p := range e.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// StructName returns the generated Go type name of the entity.
func (e *EntityDefinition) StructName() string { return pascal(e.Name) }

// HelperType returns the generated entity-helper type name.
func (e *EntityDefinition) HelperType() string { return camel(e.Name) + "Helper" }

// HelperField returns the DAO field name holding the entity helper.
func (e *EntityDefinition) HelperField() string { return camel(e.Name) + "Helper" }

// HelperConstructor returns the generated helper constructor name.
func (e *EntityDefinition) HelperConstructor() string { return "new" + pascal(e.Name) + "Helper" }

// ConstructorName returns the generated all-properties constructor name.
func (e *EntityDefinition) ConstructorName() string { return "New" + pascal(e.Name) }

// Receiver returns the receiver identifier used by generated entity methods.
func (e *EntityDefinition) Receiver() string {
	name := camel(e.Name)
	return name[:1]
}

// FieldName returns the generated struct field name: exported for mutable
// entities, unexported otherwise.
func (p *PropertyDefinition) FieldName(mutable bool) string {
	if mutable {
		return pascal(p.Name)
	}
	return camel(p.Name)
}

// Getter returns the accessor method name for the given style.
func (p *PropertyDefinition) Getter(style AccessorStyle) string {
	if style == AccessorShort {
		return pascal(p.Name)
	}
	return "Get" + pascal(p.Name)
}

// Marker returns the bind-marker name of the property's column. Markers are
// always named after the column.
func (p *PropertyDefinition) Marker() string { return p.Column }
