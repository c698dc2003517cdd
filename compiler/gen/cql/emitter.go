package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/vellumdb/cqlmapper/compiler/gen"
)

// runtimePkg is the import path of the runtime package generated code
// depends on.
const runtimePkg = "github.com/vellumdb/cqlmapper"

// Emitter implements gen.Emitter for the CQL runtime.
type Emitter struct {
	pkg string
}

// New returns an emitter generating files in the named package.
func New(pkg string) *Emitter {
	return &Emitter{pkg: pkg}
}

// Verify Emitter implements gen.Emitter at compile time.
var _ gen.Emitter = (*Emitter)(nil)

// newFile creates a jennifer file with the standard header comment.
func (e *Emitter) newFile() *jen.File {
	f := jen.NewFile(e.pkg)
	f.HeaderComment("Code generated by cqlmapper. DO NOT EDIT.")
	return f
}

// goType returns the Go type for a semantic value type.
func goType(semantic string) jen.Code {
	switch semantic {
	case "int":
		return jen.Int32()
	case "bigint", "counter":
		return jen.Int64()
	case "smallint":
		return jen.Int16()
	case "tinyint":
		return jen.Int8()
	case "text", "varchar", "ascii":
		return jen.String()
	case "boolean":
		return jen.Bool()
	case "float":
		return jen.Float32()
	case "double":
		return jen.Float64()
	case "timestamp":
		return jen.Qual("time", "Time")
	case "uuid", "timeuuid":
		return jen.Qual("github.com/google/uuid", "UUID")
	case "blob":
		return jen.Index().Byte()
	default:
		return jen.Any()
	}
}

// readValue returns the expression reading a property off the entity value:
// a field access for mutable entities, an accessor call otherwise.
func readValue(ed *gen.EntityDefinition, p *gen.PropertyDefinition, recv string) *jen.Statement {
	if ed.Mutable {
		return jen.Id(recv).Dot(p.FieldName(true))
	}
	return jen.Id(recv).Dot(p.Getter(ed.Accessor)).Call()
}
