package gen

import (
	"github.com/vellumdb/cqlmapper/compiler/load"
	"github.com/vellumdb/cqlmapper/dialect/cql"
)

// KindIncrement is the counter-increment method kind tag.
const KindIncrement = "increment"

func init() {
	RegisterKind(incrementKind{})
}

// incrementKind updates a counter table from an entity instance: the
// entity's regular columns carry signed deltas to apply (never absolute
// values; negative deltas are valid), and its key columns identify the
// target row.
type incrementKind struct{}

func (incrementKind) Name() string { return KindIncrement }

func (incrementKind) SupportedReturns() []ReturnShape {
	return []ReturnShape{ReturnVoid, ReturnFuture, ReturnStream}
}

func (incrementKind) AllowsCustomizer() bool { return true }

func (k incrementKind) Analyze(a *Analyzer, dao *load.DAO, m *load.Method) (*MethodSpec, error) {
	if len(m.Params) != 1 {
		return nil, NewDeclarationError("", m.Name,
			"%s methods must take the entity holding the deltas as their only parameter", k.Name())
	}
	param := m.Params[0]
	ed, err := a.registry.Entity(param.Type)
	if err != nil {
		if IsDeclarationError(err) || IsAmbiguityError(err) {
			return nil, err
		}
		return nil, NewDeclarationError("", m.Name,
			"first parameter must be an entity type: %v", err)
	}
	shape, err := a.returnShape(k, m)
	if err != nil {
		return nil, err
	}
	if len(ed.RegularColumns) == 0 {
		return nil, NewDeclarationError(ed.Name, m.Name,
			"entity %s has no non-key columns, there is nothing to increment", ed.Name)
	}
	keyspace, table := resolveTable(dao, m, ed)
	helperField := a.registry.EntityHelper(ed)
	slot, _ := a.registry.PreparedStatement(ed, IncrementPlan(ed, keyspace, table))
	return &MethodSpec{
		Name:        m.Name,
		Kind:        k,
		Entity:      ed,
		EntityParam: param.Name,
		Returns:     shape,
		Customizer:  m.Customizer,
		Keyspace:    keyspace,
		Table:       table,
		Slot:        slot,
		HelperField: helperField,
		Attributes:  m.Attributes,
	}, nil
}

// IncrementPlan builds the abstract statement for a counter increment: one
// additive SET term per regular column in declaration order, then one
// equality WHERE term per primary-key column in partition-then-clustering
// order. Identical definitions always yield identical plans.
func IncrementPlan(ed *EntityDefinition, keyspace, table string) *cql.Plan {
	plan := &cql.Plan{
		Kind:     KindIncrement,
		Keyspace: keyspace,
		Table:    table,
		Terms:    make([]cql.Term, 0, len(ed.Properties)),
	}
	for _, p := range ed.RegularColumns {
		plan.Terms = append(plan.Terms, cql.Term{Op: cql.OpSet, Column: p.Column})
	}
	for _, p := range ed.PrimaryKey() {
		plan.Terms = append(plan.Terms, cql.Term{Op: cql.OpWhere, Column: p.Column})
	}
	return plan
}
