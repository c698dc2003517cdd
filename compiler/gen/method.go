package gen

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vellumdb/cqlmapper/compiler/load"
)

// ReturnShape is the declared return shape of a data-access method.
type ReturnShape int

const (
	// ReturnVoid blocks the caller and surfaces failure synchronously.
	ReturnVoid ReturnShape = iota
	// ReturnFuture returns an asynchronous no-result handle immediately.
	ReturnFuture
	// ReturnStream returns a cold reactive handle; work happens per
	// subscription.
	ReturnStream
)

// String returns the shape name as declared.
func (s ReturnShape) String() string {
	switch s {
	case ReturnFuture:
		return "future"
	case ReturnStream:
		return "stream"
	default:
		return "void"
	}
}

func parseReturnShape(s string) (ReturnShape, error) {
	switch s {
	case "", "void":
		return ReturnVoid, nil
	case "future":
		return ReturnFuture, nil
	case "stream":
		return ReturnStream, nil
	default:
		return ReturnVoid, fmt.Errorf("unknown return shape %q", s)
	}
}

// MethodSpec is one validated data-access method, ready for emission. A
// method that fails validation never produces a spec.
type MethodSpec struct {
	// Name is the declared method name.
	Name string
	// Kind is the method kind the spec was validated against.
	Kind Kind
	// Entity is the entity bound by the method.
	Entity *EntityDefinition
	// EntityParam is the name of the entity parameter.
	EntityParam string
	// Returns is the declared return shape.
	Returns ReturnShape
	// Customizer marks a trailing statement-customizer parameter.
	Customizer bool
	// Keyspace and Table are the resolved statement coordinates.
	Keyspace string
	Table    string
	// Slot is the prepared-statement slot the method executes through.
	Slot *StatementSlot
	// HelperField is the DAO field holding the entity helper.
	HelperField string
	// Attributes are opaque static statement attributes, nil if none.
	Attributes *load.Attributes
}

// GoName returns the generated Go method name.
func (m *MethodSpec) GoName() string { return pascal(m.Name) }

// Kind is the per-method-kind contract: the return shapes a kind supports,
// its positional-parameter pattern, and whether a trailing statement
// customizer is permitted. Kinds register themselves; new kinds plug in
// without modifying the analyzer.
type Kind interface {
	// Name is the kind tag used in declarations.
	Name() string
	// SupportedReturns lists the return shapes the kind can adapt to.
	SupportedReturns() []ReturnShape
	// AllowsCustomizer reports whether a trailing customizer parameter
	// is permitted.
	AllowsCustomizer() bool
	// Analyze validates the declared method against the kind's contract
	// and, on success, builds its spec, registering whatever shared code
	// the method needs with the session registry.
	Analyze(a *Analyzer, dao *load.DAO, m *load.Method) (*MethodSpec, error)
}

var (
	kindsMu sync.RWMutex
	kinds   = make(map[string]Kind)
)

// RegisterKind registers a method kind. It panics on duplicate names, which
// indicates conflicting registrations at init time.
func RegisterKind(k Kind) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	if _, ok := kinds[k.Name()]; ok {
		panic(fmt.Sprintf("gen: kind %q registered twice", k.Name()))
	}
	kinds[k.Name()] = k
}

// LookupKind returns the registered kind with the given name.
func LookupKind(name string) (Kind, bool) {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	k, ok := kinds[name]
	return k, ok
}

// Kinds returns the registered kind names, sorted.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analyzer validates declared methods for one generation session. Failures
// are recorded in the diagnostic sink and the failing method is skipped;
// sibling methods are unaffected.
type Analyzer struct {
	cfg      *Config
	registry *Registry
	diags    *Diagnostics
}

// NewAnalyzer returns an analyzer over the given session registry and sink.
func NewAnalyzer(cfg *Config, registry *Registry, diags *Diagnostics) *Analyzer {
	return &Analyzer{cfg: cfg, registry: registry, diags: diags}
}

// Registry returns the session registry the analyzer writes to.
func (a *Analyzer) Registry() *Registry { return a.registry }

// Method validates one declared method. It returns nil after recording a
// diagnostic when the declaration is invalid.
func (a *Analyzer) Method(dao *load.DAO, m *load.Method) *MethodSpec {
	site := dao.Name + "." + m.Name
	kind, ok := LookupKind(m.Kind)
	if !ok {
		a.diags.Error(site, "unknown method kind %q (registered: %v)", m.Kind, Kinds())
		return nil
	}
	if m.Customizer && !kind.AllowsCustomizer() {
		a.diags.Error(site, "%s methods do not accept a statement customizer", kind.Name())
		return nil
	}
	spec, err := kind.Analyze(a, dao, m)
	if err != nil {
		a.diags.Error(site, "%s", err)
		return nil
	}
	return spec
}

// returnShape parses and validates the declared return shape against the
// kind's supported set.
func (a *Analyzer) returnShape(kind Kind, m *load.Method) (ReturnShape, error) {
	shape, err := parseReturnShape(m.Returns)
	if err != nil {
		return 0, NewDeclarationError("", m.Name, "%v", err)
	}
	for _, s := range kind.SupportedReturns() {
		if s == shape {
			return shape, nil
		}
	}
	return 0, NewDeclarationError("", m.Name,
		"invalid return shape %s: %s methods must return one of %v",
		shape, kind.Name(), kind.SupportedReturns())
}

// resolveTable resolves statement coordinates with the precedence: explicit
// per-method override, per-DAO override, then the default derived from the
// entity identity via the naming convention.
func resolveTable(dao *load.DAO, m *load.Method, ed *EntityDefinition) (keyspace, table string) {
	switch {
	case m.Keyspace != "":
		keyspace = m.Keyspace
	case dao.Keyspace != "":
		keyspace = dao.Keyspace
	default:
		keyspace = ed.Keyspace
	}
	switch {
	case m.Table != "":
		table = m.Table
	case dao.Table != "":
		table = dao.Table
	default:
		table = ed.Table
	}
	return keyspace, table
}
