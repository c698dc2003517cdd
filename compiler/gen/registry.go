package gen

import (
	"fmt"

	"github.com/vellumdb/cqlmapper/compiler/load"
	"github.com/vellumdb/cqlmapper/dialect/cql"
)

// StatementSlot is one prepared-statement cache entry of a generated DAO.
// Slots are registered at most once per statement identity and read-only
// afterwards; the generated constructor prepares every slot before the DAO
// is exposed to callers.
type StatementSlot struct {
	// Field is the generated DAO field name holding the prepared handle.
	Field string
	// Entity is the entity the statement binds.
	Entity *EntityDefinition
	// Plan is the abstract statement description.
	Plan *cql.Plan
}

// Registry is the generation-session-scoped shared state for one generated
// DAO: the entity definitions built during the session, the entity-helper
// fields, and the prepared-statement slots. It is passed explicitly to each
// analyzer call, never held as ambient state, and is not safe for concurrent
// use; independent DAOs use independent registries.
type Registry struct {
	cfg      *Config
	schema   *load.Schema
	entities map[string]*EntityDefinition

	helpers     map[string]string
	helperOrder []*EntityDefinition

	statements map[string]*StatementSlot
	slotOrder  []*StatementSlot
	fieldSeq   map[string]int
}

// NewRegistry returns an empty session registry over the given declarations.
func NewRegistry(cfg *Config, schema *load.Schema) *Registry {
	return &Registry{
		cfg:        cfg,
		schema:     schema,
		entities:   make(map[string]*EntityDefinition),
		helpers:    make(map[string]string),
		statements: make(map[string]*StatementSlot),
		fieldSeq:   make(map[string]int),
	}
}

// Entity returns the definition for the named entity, building it on first
// use. The definition is owned by the registry for the session's duration.
func (r *Registry) Entity(name string) (*EntityDefinition, error) {
	if ed, ok := r.entities[name]; ok {
		return ed, nil
	}
	decl, ok := r.schema.Entity(name)
	if !ok {
		return nil, NewDeclarationError("", "", "unknown entity type %q", name)
	}
	ed, err := NewEntity(r.cfg, decl)
	if err != nil {
		return nil, err
	}
	r.entities[name] = ed
	return ed, nil
}

// EntityHelper registers (once) and returns the DAO field name of the
// entity's helper.
func (r *Registry) EntityHelper(ed *EntityDefinition) string {
	if field, ok := r.helpers[ed.Name]; ok {
		return field
	}
	field := ed.HelperField()
	r.helpers[ed.Name] = field
	r.helperOrder = append(r.helperOrder, ed)
	return field
}

// PreparedStatement registers a prepared-statement slot for the plan's
// statement identity, or returns the existing slot when an identical
// (kind, entity, table) combination was already requested. At most one
// logical statement exists per distinct combination per DAO.
func (r *Registry) PreparedStatement(ed *EntityDefinition, plan *cql.Plan) (slot *StatementSlot, reused bool) {
	key := ed.Name + "/" + plan.Identity()
	if slot, ok := r.statements[key]; ok {
		return slot, true
	}
	// Field names must be unique per distinct statement identity: the same
	// entity and kind can target different tables through resolution
	// overrides, and each such statement needs its own struct field.
	base := camel(ed.Name) + pascal(plan.Kind)
	r.fieldSeq[base]++
	field := base + "Stmt"
	if n := r.fieldSeq[base]; n > 1 {
		field = fmt.Sprintf("%s%dStmt", base, n)
	}
	slot = &StatementSlot{
		Field:  field,
		Entity: ed,
		Plan:   plan,
	}
	r.statements[key] = slot
	r.slotOrder = append(r.slotOrder, slot)
	return slot, false
}

// Helpers returns the registered entities in registration order.
func (r *Registry) Helpers() []*EntityDefinition {
	helpers := make([]*EntityDefinition, len(r.helperOrder))
	copy(helpers, r.helperOrder)
	return helpers
}

// Statements returns the registered slots in registration order.
func (r *Registry) Statements() []*StatementSlot {
	slots := make([]*StatementSlot, len(r.slotOrder))
	copy(slots, r.slotOrder)
	return slots
}
