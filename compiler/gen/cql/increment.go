package cql

import (
	"github.com/dave/jennifer/jen"

	"github.com/vellumdb/cqlmapper/compiler/gen"
)

// genIncrementMethod generates one increment method body, adapted to the
// declared return shape.
func genIncrementMethod(f *jen.File, d *gen.DAOSpec, ms *gen.MethodSpec) {
	switch ms.Returns {
	case gen.ReturnVoid:
		f.Commentf("%s applies the delta values of %s to the matching row and blocks", ms.GoName(), ms.EntityParam)
		f.Commentf("until the execution engine reports completion.")
		f.Func().Params(recv(d)).Id(ms.GoName()).Params(incrementParams(ms, true)...).Error().BlockFunc(func(group *jen.Group) {
			bindIncrement(group, d, ms)
			group.Return(jen.Id(d.Receiver()).Dot("session").Dot("Execute").Call(
				jen.Id("ctx"), jen.Id("b").Dot("Build").Call(),
			))
		})
	case gen.ReturnFuture:
		f.Commentf("%s applies the delta values of %s to the matching row without", ms.GoName(), ms.EntityParam)
		f.Commentf("blocking. The future completes exceptionally on failure.")
		f.Func().Params(recv(d)).Id(ms.GoName()).Params(incrementParams(ms, true)...).Op("*").Qual(runtimePkg, "Future").BlockFunc(func(group *jen.Group) {
			bindIncrement(group, d, ms)
			group.Return(jen.Id(d.Receiver()).Dot("session").Dot("ExecuteAsync").Call(
				jen.Id("ctx"), jen.Id("b").Dot("Build").Call(),
			))
		})
	case gen.ReturnStream:
		f.Commentf("%s returns a cold stream over the increment. No work happens until a", ms.GoName())
		f.Commentf("subscriber arrives, and every subscription re-applies the delta values")
		f.Commentf("of %s independently.", ms.EntityParam)
		f.Func().Params(recv(d)).Id(ms.GoName()).Params(incrementParams(ms, false)...).Op("*").Qual(runtimePkg, "Stream").Block(
			jen.Return(jen.Qual(runtimePkg, "Defer").Call(
				jen.Func().Params(jen.Id("ctx").Qual("context", "Context")).Error().BlockFunc(func(group *jen.Group) {
					bindIncrement(group, d, ms)
					group.Return(jen.Id(d.Receiver()).Dot("session").Dot("Execute").Call(
						jen.Id("ctx"), jen.Id("b").Dot("Build").Call(),
					))
				}),
			)),
		)
	}
}

func recv(d *gen.DAOSpec) jen.Code {
	return jen.Id(d.Receiver()).Op("*").Id(d.ImplName())
}

func incrementParams(ms *gen.MethodSpec, withContext bool) []jen.Code {
	var params []jen.Code
	if withContext {
		params = append(params, jen.Id("ctx").Qual("context", "Context"))
	}
	params = append(params, jen.Id(ms.EntityParam).Op("*").Id(ms.Entity.StructName()))
	if ms.Customizer {
		params = append(params, jen.Id("fn").Qual(runtimePkg, "Customizer"))
	}
	return params
}

// bindIncrement emits the shared bind sequence: builder from the prepared
// slot, static attributes, optional customizer, then the entity values under
// the strategy implied by the engine's protocol capability.
func bindIncrement(group *jen.Group, d *gen.DAOSpec, ms *gen.MethodSpec) {
	group.Id("b").Op(":=").Id(d.Receiver()).Dot(ms.Slot.Field).Dot("Builder").Call()
	if a := ms.Attributes; a != nil {
		group.Id("b").Dot("WithAttributes").Call(jen.Qual(runtimePkg, "Attributes").ValuesFunc(func(values *jen.Group) {
			if a.PageSize != 0 {
				values.Id("PageSize").Op(":").Lit(a.PageSize)
			}
			if a.TimeoutMS != 0 {
				values.Id("Timeout").Op(":").Lit(a.TimeoutMS).Op("*").Qual("time", "Millisecond")
			}
			if a.Profile != "" {
				values.Id("Profile").Op(":").Lit(a.Profile)
			}
		}))
	}
	if ms.Customizer {
		group.Id("b").Op("=").Id("b").Dot("Apply").Call(jen.Id("fn"))
	}
	group.Id("strategy").Op(":=").Qual(runtimePkg, "SetToNull")
	group.If(jen.Id(d.Receiver()).Dot("session").Dot("SupportsUnset").Call()).Block(
		jen.Id("strategy").Op("=").Qual(runtimePkg, "DoNotSet"),
	)
	group.Id(d.Receiver()).Dot(ms.HelperField).Dot("Set").Call(
		jen.Id(ms.EntityParam), jen.Id("b"), jen.Id("strategy"),
	)
}
