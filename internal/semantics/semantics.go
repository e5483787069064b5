// Package semantics holds small enums that describe emitted-code behavior
// rather than syntax shape (outputmode.Mode covers syntax shape). Kept
// separate from outputmode and config so that classgen can depend on it
// without pulling in the TOML-loading machinery.
package semantics

// ModuleInitBehavior selects how a module accessor detects re-entrant
// initialization (SPEC_FULL.md §7).
type ModuleInitBehavior uint8

const (
	// Unchecked never detects re-entrancy; a re-entrant call simply
	// re-runs the module initializer.
	Unchecked ModuleInitBehavior = iota

	// Compliant detects re-entrancy and returns null from the re-entrant
	// call instead of throwing.
	Compliant

	// Fatal detects re-entrancy and throws sjsr_UndefinedBehaviorError
	// from the re-entrant call.
	Fatal
)

func (b ModuleInitBehavior) String() string {
	switch b {
	case Unchecked:
		return "unchecked"
	case Compliant:
		return "compliant"
	case Fatal:
		return "fatal"
	default:
		return "<invalid module-init behavior>"
	}
}

// Parse maps a config/CLI string to a ModuleInitBehavior.
func Parse(s string) (ModuleInitBehavior, bool) {
	switch s {
	case "unchecked":
		return Unchecked, true
	case "compliant":
		return Compliant, true
	case "fatal":
		return Fatal, true
	default:
		return 0, false
	}
}
