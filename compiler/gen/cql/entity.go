package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/vellumdb/cqlmapper/compiler/gen"
)

// EmitEntity generates the entity struct and its helper. Key columns keep
// their value types; regular columns are pointers so an absent delta is
// representable and can be left unset at bind time.
func (e *Emitter) EmitEntity(ed *gen.EntityDefinition) *jen.File {
	f := e.newFile()
	genEntityStruct(f, ed)
	if !ed.Mutable {
		genEntityConstructor(f, ed)
		genEntityAccessors(f, ed)
	}
	genEntityHelper(f, ed)
	return f
}

func genEntityStruct(f *jen.File, ed *gen.EntityDefinition) {
	f.Commentf("%s is the mapped entity for table %s.", ed.StructName(), ed.Table)
	f.Type().Id(ed.StructName()).StructFunc(func(group *jen.Group) {
		for _, p := range ed.Properties {
			field := group.Id(p.FieldName(ed.Mutable))
			if p.Key == gen.KeyNone {
				field.Op("*").Add(goType(p.Type))
			} else {
				field.Add(goType(p.Type))
			}
		}
	})
}

// genEntityConstructor generates the all-properties constructor immutable
// entities are instantiated through.
func genEntityConstructor(f *jen.File, ed *gen.EntityDefinition) {
	f.Commentf("%s returns a %s populated with all its properties.", ed.ConstructorName(), ed.StructName())
	f.Func().Id(ed.ConstructorName()).ParamsFunc(func(group *jen.Group) {
		for _, p := range ed.Properties {
			param := group.Id(p.FieldName(false))
			if p.Key == gen.KeyNone {
				param.Op("*").Add(goType(p.Type))
			} else {
				param.Add(goType(p.Type))
			}
		}
	}).Op("*").Id(ed.StructName()).Block(
		jen.Return(jen.Op("&").Id(ed.StructName()).ValuesFunc(func(group *jen.Group) {
			for _, p := range ed.Properties {
				group.Id(p.FieldName(false)).Op(":").Id(p.FieldName(false))
			}
		})),
	)
}

func genEntityAccessors(f *jen.File, ed *gen.EntityDefinition) {
	recv := ed.Receiver()
	for _, p := range ed.Properties {
		f.Commentf("%s returns the %s property.", p.Getter(ed.Accessor), p.Name)
		accessor := f.Func().Params(jen.Id(recv).Op("*").Id(ed.StructName())).Id(p.Getter(ed.Accessor)).Params()
		if p.Key == gen.KeyNone {
			accessor.Op("*").Add(goType(p.Type))
		} else {
			accessor.Add(goType(p.Type))
		}
		accessor.Block(
			jen.Return(jen.Id(recv).Dot(p.FieldName(false))),
		)
	}
}

// genEntityHelper generates the helper that binds entity values onto a
// statement builder under a null-handling policy.
func genEntityHelper(f *jen.File, ed *gen.EntityDefinition) {
	helper := ed.HelperType()
	f.Commentf("%s binds %s values onto statements.", helper, ed.StructName())
	f.Type().Id(helper).Struct(
		jen.Id("keyspace").String(),
		jen.Id("table").String(),
	)

	f.Func().Id(ed.HelperConstructor()).Params().Op("*").Id(helper).Block(
		jen.Return(jen.Op("&").Id(helper).Values(
			jen.Id("keyspace").Op(":").Lit(ed.Keyspace),
			jen.Id("table").Op(":").Lit(ed.Table),
		)),
	)

	f.Commentf("Keyspace returns the entity's explicit keyspace, or an empty string.")
	f.Func().Params(jen.Id("h").Op("*").Id(helper)).Id("Keyspace").Params().String().Block(
		jen.Return(jen.Id("h").Dot("keyspace")),
	)

	f.Commentf("Table returns the entity's resolved table name.")
	f.Func().Params(jen.Id("h").Op("*").Id(helper)).Id("Table").Params().String().Block(
		jen.Return(jen.Id("h").Dot("table")),
	)

	f.Commentf("Set binds all properties of e: key columns unconditionally, regular")
	f.Commentf("columns according to the null-handling strategy when absent.")
	f.Func().Params(jen.Id("h").Op("*").Id(helper)).Id("Set").Params(
		jen.Id("e").Op("*").Id(ed.StructName()),
		jen.Id("b").Op("*").Qual(runtimePkg, "BoundStatementBuilder"),
		jen.Id("strategy").Qual(runtimePkg, "NullSavingStrategy"),
	).BlockFunc(func(group *jen.Group) {
		for _, p := range ed.PrimaryKey() {
			group.Id("b").Dot("Set").Call(jen.Lit(p.Marker()), readValue(ed, p, "e"))
		}
		for _, p := range ed.RegularColumns {
			group.If(
				jen.Id("v").Op(":=").Add(readValue(ed, p, "e")),
				jen.Id("v").Op("!=").Nil(),
			).Block(
				jen.Id("b").Dot("Set").Call(jen.Lit(p.Marker()), jen.Op("*").Id("v")),
			).Else().If(
				jen.Id("strategy").Op("==").Qual(runtimePkg, "SetToNull"),
			).Block(
				jen.Id("b").Dot("SetNull").Call(jen.Lit(p.Marker())),
			)
		}
	})
}
