// Package outputmode enumerates the emitter's four target dialects and the
// feature predicates the rest of the emitter switches on, grounded on
// internal/config's Format enum from the teacher (a small closed set of
// output shapes with boolean feature-predicate methods).
package outputmode

// Mode is one of the emitter's four target dialects.
type Mode uint8

const (
	// ES5Global emits into the global scope with a leading 'use strict'.
	ES5Global Mode = iota

	// ES5Isolated wraps the whole output in an IIFE for ES5 engines.
	ES5Isolated

	// ES6 uses ES6 constructs (classes, let/const) but is not strong mode.
	ES6

	// ES6Strong splices generated pieces into a pre-rendered core-lib text
	// at fixed marker lines and enables 'use strong' semantics.
	ES6Strong
)

func (m Mode) String() string {
	switch m {
	case ES5Global:
		return "es5-global"
	case ES5Isolated:
		return "es5-isolated"
	case ES6:
		return "es6"
	case ES6Strong:
		return "es6-strong"
	default:
		return "<invalid output mode>"
	}
}

// Parse maps a config/CLI string to a Mode. An empty string is not valid
// here; callers that want the binary-compatibility default (ES5Global) for
// an absent value should check for "" before calling Parse.
func Parse(s string) (Mode, bool) {
	switch s {
	case "es5-global":
		return ES5Global, true
	case "es5-isolated":
		return ES5Isolated, true
	case "es6":
		return ES6, true
	case "es6-strong":
		return ES6Strong, true
	default:
		return 0, false
	}
}

// UseES6Classes reports whether classgen should emit jstree.Class nodes
// instead of the ES5 prototype-assignment shape.
func (m Mode) UseES6Classes() bool {
	return m == ES6 || m == ES6Strong
}

// IsStrong reports whether this is the strong-mode dialect, which changes
// call-routing (desugar.go), type-data emission, and assembly (C8).
func (m Mode) IsStrong() bool {
	return m == ES6Strong
}

// IsIIFEWrapped reports whether the prelude/postlude wrap the output in a
// function expression (SPEC_FULL.md §6's prelude/postlude table).
func (m Mode) IsIIFEWrapped() bool {
	return m == ES5Isolated || m == ES6 || m == ES6Strong
}

