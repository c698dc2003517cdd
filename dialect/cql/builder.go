package cql

import "strings"

// Marker returns the named bind marker for a column. Marker names are always
// identical to column names; external correlation tooling relies on this.
func Marker(column string) string {
	return ":" + column
}

// UpdateBuilder builds the text of a parameterized UPDATE statement.
type UpdateBuilder struct {
	keyspace string
	table    string
	sets     []string
	wheres   []string
}

// Update returns a builder for an UPDATE statement on the given table.
func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Schema qualifies the table with a keyspace. An empty keyspace leaves the
// statement unqualified, deferring to the session's ambient default.
func (u *UpdateBuilder) Schema(keyspace string) *UpdateBuilder {
	u.keyspace = keyspace
	return u
}

// Append adds an additive SET assignment of the form `c = c + :c`. The
// additive form is used instead of `c += :c` because older execution-engine
// versions reject the shorthand.
func (u *UpdateBuilder) Append(column string) *UpdateBuilder {
	u.sets = append(u.sets, column+" = "+column+" + "+Marker(column))
	return u
}

// Assign adds a direct SET assignment of the form `c = :c`.
func (u *UpdateBuilder) Assign(column string) *UpdateBuilder {
	u.sets = append(u.sets, column+" = "+Marker(column))
	return u
}

// WhereEq adds an equality relation of the form `c = :c` to the WHERE clause.
func (u *UpdateBuilder) WhereEq(column string) *UpdateBuilder {
	u.wheres = append(u.wheres, column+" = "+Marker(column))
	return u
}

// Query renders the statement text. Rendering is deterministic: terms appear
// in the order they were added.
func (u *UpdateBuilder) Query() string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	if u.keyspace != "" {
		b.WriteString(u.keyspace)
		b.WriteByte('.')
	}
	b.WriteString(u.table)
	b.WriteString(" SET ")
	b.WriteString(strings.Join(u.sets, ", "))
	b.WriteString(" WHERE ")
	b.WriteString(strings.Join(u.wheres, " AND "))
	return b.String()
}
