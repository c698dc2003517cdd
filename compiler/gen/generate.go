package gen

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"

	"github.com/vellumdb/cqlmapper/compiler/load"
)

// Config carries the per-run generation options.
type Config struct {
	// Package is the name of the generated package.
	Package string
	// Target is the output directory.
	Target string
	// Naming is the active naming convention. Defaults to SnakeCase.
	Naming Convention
	// Detectors is the idiom detector chain consulted during strategy
	// defaulting. Defaults to DefaultDetectors.
	Detectors []IdiomDetector
}

func (c *Config) naming() Convention {
	if c.Naming != nil {
		return c.Naming
	}
	return SnakeCase
}

func (c *Config) detectors() []IdiomDetector {
	if c.Detectors != nil {
		return c.Detectors
	}
	return DefaultDetectors()
}

// DAOSpec is one data-access object ready for emission: its validated
// methods and the session registry holding the shared code they requested.
type DAOSpec struct {
	// Name is the declared DAO name.
	Name string
	// Registry is the session registry populated during analysis.
	Registry *Registry
	// Methods are the validated methods in declaration order. Methods
	// that failed validation are absent.
	Methods []*MethodSpec
}

// ImplName returns the generated implementation struct name.
func (d *DAOSpec) ImplName() string { return camel(d.Name) + "Impl" }

// ConstructorName returns the generated constructor name.
func (d *DAOSpec) ConstructorName() string { return "New" + pascal(d.Name) }

// Receiver returns the receiver identifier used by generated DAO methods.
func (d *DAOSpec) Receiver() string { return "d" }

// FileName returns the generated file name for the DAO.
func (d *DAOSpec) FileName() string { return snake(d.Name) + ".go" }

// Emitter turns validated specs into generated files. The gen package is
// emitter-agnostic; the cql emitter package implements this interface and is
// wired in externally to avoid an import cycle.
type Emitter interface {
	// EmitEntity generates the entity struct and its helper.
	EmitEntity(ed *EntityDefinition) *jen.File
	// EmitDAO generates the DAO implementation: struct, constructor and
	// one method body per validated spec.
	EmitDAO(d *DAOSpec) *jen.File
}

// Generator drives one generation run. Generation across independent DAOs
// is parallel; the diagnostic sink is the only shared mutable state.
type Generator struct {
	cfg     *Config
	schema  *load.Schema
	emitter Emitter
	diags   *Diagnostics
	workers int
}

// NewGenerator returns a generator for the given declarations. An emitter
// must be set via WithEmitter before calling Generate.
func NewGenerator(cfg *Config, schema *load.Schema) *Generator {
	return &Generator{
		cfg:     cfg,
		schema:  schema,
		diags:   &Diagnostics{},
		workers: runtime.GOMAXPROCS(0),
	}
}

// WithEmitter sets the emitter used for code generation.
func (g *Generator) WithEmitter(e Emitter) *Generator {
	g.emitter = e
	return g
}

// WithWorkers sets the number of parallel workers.
func (g *Generator) WithWorkers(n int) *Generator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// Diagnostics returns the run's diagnostic sink.
func (g *Generator) Diagnostics() *Diagnostics {
	return g.diags
}

// AnalyzeDAO validates the methods of one declared DAO within a fresh
// session registry and returns the resulting spec. Invalid methods are
// recorded in the sink and skipped; siblings are unaffected.
func (g *Generator) AnalyzeDAO(dao *load.DAO) *DAOSpec {
	registry := NewRegistry(g.cfg, g.schema)
	analyzer := NewAnalyzer(g.cfg, registry, g.diags)
	spec := &DAOSpec{Name: dao.Name, Registry: registry}
	for _, m := range dao.Methods {
		if ms := analyzer.Method(dao, m); ms != nil {
			spec.Methods = append(spec.Methods, ms)
		}
	}
	return spec
}

// Generate runs the full pipeline: entity files, then one file per DAO, in
// parallel. Files for valid declarations are written even when sibling
// declarations fail, but the run as a whole reports failure if any
// diagnostic was recorded, so a partial artifact is never mistaken for a
// complete one.
func (g *Generator) Generate(ctx context.Context) error {
	if g.emitter == nil {
		return fmt.Errorf("%w: no emitter set, call WithEmitter before Generate", ErrGenerationFailed)
	}
	if g.cfg.Target == "" {
		return fmt.Errorf("%w: missing target directory", ErrGenerationFailed)
	}
	if err := os.MkdirAll(g.cfg.Target, 0o755); err != nil {
		return err
	}

	errg, _ := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)

	// Entity structs and helpers. Definitions are built in a dedicated
	// session registry so repeated references stay cheap.
	registry := NewRegistry(g.cfg, g.schema)
	for _, decl := range g.schema.Entities {
		ed, err := registry.Entity(decl.Name)
		if err != nil {
			g.diags.Error(decl.Name, "%s", err)
			continue
		}
		errg.Go(func() error {
			return g.writeFile(g.emitter.EmitEntity(ed), snake(ed.Name)+".go")
		})
	}

	// One file per DAO. Each DAO analyzes in its own session registry.
	for _, dao := range g.schema.DAOs {
		dao := dao
		errg.Go(func() error {
			spec := g.AnalyzeDAO(dao)
			return g.writeFile(g.emitter.EmitDAO(spec), spec.FileName())
		})
	}

	if err := errg.Wait(); err != nil {
		return err
	}
	return g.diags.Err()
}
