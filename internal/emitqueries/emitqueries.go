// Package emitqueries defines the narrow query surface that the desugarer
// (C4) and per-class generator (C5) need from the emitter driver (C8),
// grounded on DESIGN.md's resolution of the C7<->C5 cyclic reference: give
// each side only the minimal callback set it needs, not a full back-pointer
// to the engine.
package emitqueries

import (
	"github.com/SebsLittleHelpers/scala-js/internal/ctoropt"
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
	"github.com/SebsLittleHelpers/scala-js/internal/semantics"
	"github.com/SebsLittleHelpers/scala-js/internal/tagengine"
)

// Queries is implemented by *emitter.Engine and consumed read-only by
// desugar.go and classgen.go.
type Queries interface {
	Mode() outputmode.Mode
	ModuleInit() semantics.ModuleInitBehavior
	IsInterface(className string) bool
	LinkedClassByName(className string) (*irtree.LinkedClass, bool)
	Tag(className string) (int32, bool)
	SubtypeIntervals(className string) []tagengine.Interval
	NeedsSubtypeArray(className string) bool
	UsesJSConstructorOpt(targetClass string, caller ctoropt.Caller) bool

	// IsCtorOptEligible answers whether className itself is ctor-opt
	// eligible without recording a cross-class dependency -- classgen
	// uses this to decide how to render a class's own constructor, which
	// is intrinsic to the class rather than a caller's assumption about
	// it.
	IsCtorOptEligible(className string) bool
}
