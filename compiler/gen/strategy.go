package gen

import "github.com/vellumdb/cqlmapper/compiler/load"

// StrategyDefaults is the (mutability, accessor style) pair a detector
// contributes when it recognizes an entity shape.
type StrategyDefaults struct {
	Mutable  bool
	Accessor AccessorStyle
}

// IdiomDetector inspects a declared entity shape and contributes strategy
// defaults when it recognizes a convention. Detectors are consulted in
// order; the first match wins. Explicit per-entity strategy always takes
// precedence over any detector.
type IdiomDetector interface {
	// Name identifies the detector in diagnostics and logs.
	Name() string
	// Detect reports whether the entity matches the detector's
	// convention and, if so, the defaults it implies.
	Detect(decl *load.Entity) (StrategyDefaults, bool)
}

// DefaultDetectors returns the built-in detector chain. Additional detectors
// are supplied through Config without modifying the builder.
func DefaultDetectors() []IdiomDetector {
	return []IdiomDetector{recordShapeDetector{}}
}

// recordShapeDetector recognizes the immutable record shape: no visible
// setters and a constructor accepting every non-transient property. Such
// entities default to immutable with short accessors.
type recordShapeDetector struct{}

func (recordShapeDetector) Name() string { return "record-shape" }

func (recordShapeDetector) Detect(decl *load.Entity) (StrategyDefaults, bool) {
	if len(decl.Setters) > 0 || !hasAllPropertiesConstructor(decl) {
		return StrategyDefaults{}, false
	}
	return StrategyDefaults{Mutable: false, Accessor: AccessorShort}, true
}
