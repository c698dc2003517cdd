package cql

import "strings"

// Op tags the role a bound term plays in a statement.
type Op string

const (
	// OpSet is an additive SET term: `c = c + :c`.
	OpSet Op = "SET"
	// OpAssign is a direct SET term: `c = :c`.
	OpAssign Op = "ASSIGN"
	// OpWhere is an equality WHERE term: `c = :c`.
	OpWhere Op = "WHERE"
)

// Term is one bound column of a statement plan. The bind-marker name is
// always the column name.
type Term struct {
	Op     Op
	Column string
}

// Marker returns the term's bind-marker name.
func (t Term) Marker() string { return t.Column }

// Plan is the abstract description of one parameterized statement: the
// method kind it serves, the resolved table coordinates, and the ordered
// bound terms. A plan renders to the same text byte-for-byte for identical
// inputs, so repeated generation and caching agree.
type Plan struct {
	// Kind is the method-kind tag the plan was built for.
	Kind string
	// Keyspace is the resolved keyspace, empty when the statement depends
	// on the session's ambient default.
	Keyspace string
	// Table is the resolved table name.
	Table string
	// Terms are the bound terms in emission order.
	Terms []Term
}

// Query renders the plan to statement text.
func (p *Plan) Query() string {
	u := Update(p.Table).Schema(p.Keyspace)
	for _, t := range p.Terms {
		switch t.Op {
		case OpSet:
			u.Append(t.Column)
		case OpAssign:
			u.Assign(t.Column)
		case OpWhere:
			u.WhereEq(t.Column)
		}
	}
	return u.Query()
}

// Markers returns the bind-marker names in term order.
func (p *Plan) Markers() []string {
	markers := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		markers[i] = t.Marker()
	}
	return markers
}

// Identity returns the statement-identity key of the plan. Two plans with
// the same identity within one generation session share one prepared
// statement slot.
func (p *Plan) Identity() string {
	return strings.Join([]string{p.Kind, p.Keyspace, p.Table}, "/")
}
