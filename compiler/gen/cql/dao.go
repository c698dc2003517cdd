package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/vellumdb/cqlmapper/compiler/gen"
)

// EmitDAO generates the DAO implementation file: the struct holding the
// session, entity helpers and prepared-statement slots, the constructor that
// populates them, and one method body per validated method.
func (e *Emitter) EmitDAO(d *gen.DAOSpec) *jen.File {
	f := e.newFile()
	genDAOStruct(f, d)
	genDAOConstructor(f, d)
	for _, ms := range d.Methods {
		switch ms.Kind.Name() {
		case gen.KindIncrement:
			genIncrementMethod(f, d, ms)
		}
	}
	return f
}

func genDAOStruct(f *jen.File, d *gen.DAOSpec) {
	f.Commentf("%s is the generated implementation of %s.", d.ImplName(), d.Name)
	f.Type().Id(d.ImplName()).StructFunc(func(group *jen.Group) {
		group.Id("session").Qual(runtimePkg, "Session")
		for _, ed := range d.Registry.Helpers() {
			group.Id(ed.HelperField()).Op("*").Id(ed.HelperType())
		}
		for _, slot := range d.Registry.Statements() {
			group.Id(slot.Field).Qual(runtimePkg, "PreparedStatement")
		}
	})
}

// genDAOConstructor generates the constructor. All shared state (helpers and
// prepared statements) is populated here, before the value escapes to any
// caller, so steady-state reads need no synchronization.
func genDAOConstructor(f *jen.File, d *gen.DAOSpec) {
	unqualified := ""
	for _, slot := range d.Registry.Statements() {
		if slot.Plan.Keyspace == "" {
			unqualified = slot.Plan.Table
			break
		}
	}

	f.Commentf("%s prepares every statement %s executes and returns a ready instance.", d.ConstructorName(), d.Name)
	f.Func().Id(d.ConstructorName()).Params(
		jen.Id("ctx").Qual("context", "Context"),
		jen.Id("session").Qual(runtimePkg, "Session"),
	).Params(jen.Op("*").Id(d.ImplName()), jen.Error()).BlockFunc(func(group *jen.Group) {
		if unqualified != "" {
			group.If(jen.Id("session").Dot("Keyspace").Call().Op("==").Lit("")).Block(
				jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
					jen.Lit(d.Name+": statement for table "+unqualified+" is unqualified and the session has no default keyspace"),
				)),
			)
		}
		group.Id("d").Op(":=").Op("&").Id(d.ImplName()).Values(
			jen.Id("session").Op(":").Id("session"),
		)
		for _, ed := range d.Registry.Helpers() {
			group.Id("d").Dot(ed.HelperField()).Op("=").Id(ed.HelperConstructor()).Call()
		}
		for i, slot := range d.Registry.Statements() {
			assign := jen.List(jen.Id("stmt"), jen.Id("err"))
			if i == 0 {
				assign = assign.Op(":=")
			} else {
				assign = assign.Op("=")
			}
			group.Add(assign.Id("session").Dot("Prepare").Call(jen.Id("ctx"), jen.Lit(slot.Plan.Query())))
			group.If(jen.Id("err").Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Qual("fmt", "Errorf").Call(
					jen.Lit("prepare "+slot.Field+": %w"), jen.Id("err"),
				)),
			)
			group.Id("d").Dot(slot.Field).Op("=").Id("stmt")
		}
		group.Return(jen.Id("d"), jen.Nil())
	})
}
