// Package ctoropt implements the constructor-optimization dependency
// tracker (SPEC_FULL.md §4.5): it records which methods consulted whether a
// class is eligible for a fused, inlined-init constructor, and invalidates
// those methods' cached trees when the answer flips between runs.
//
// Open question carried forward from spec.md §9, not resolved here: the
// desugarer's isInterface(className) query is not tracked by this package
// at all, only usesJSConstructorOpt is. If a class's Kind flips between
// Interface and Class across runs without any method body changing, call
// sites that desugared under the old isInterface answer will not be
// invalidated. A complete fix would extend the tracker table to also
// record class-kind dependencies; this repository documents the gap
// instead of silently changing the observable behavior.
package ctoropt

import (
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
)

// Caller identifies one (class, method) pair that queried a target class's
// ctor-opt status.
type Caller struct {
	ClassName  string
	MethodName string
	IsStatic   bool
}

// Sentinel method names used by C5 for pieces that are not ordinary member
// methods but still depend on ctor-opt status, routed to the exportedMembers
// OneTimeCache slot rather than a MethodCache entry (SPEC_FULL.md §4.5).
const (
	SentinelConstructorExportDef = "ConstructorExportDef"
	SentinelExportedMember       = "ExportedMember"
)

// Predicate decides whether a class is a candidate for the constructor
// optimization. Supplied by the caller (normally derived from IR shape:
// exactly one constructor method, no side-effecting field initializers
// ahead of the super call, etc.) since that policy lives outside this
// package's concern.
type Predicate func(c *irtree.LinkedClass) bool

// Tracker is the run-scoped dependency table plus last/current ctor-opt
// snapshots described in SPEC_FULL.md §3.
type Tracker struct {
	predicate Predicate
	last      map[string]bool
	current   map[string]bool
	table     map[string]map[Caller]bool
}

// New constructs a Tracker that uses predicate to decide ctor-opt eligibility.
func New(predicate Predicate) *Tracker {
	return &Tracker{
		predicate: predicate,
		last:      make(map[string]bool),
		current:   make(map[string]bool),
		table:     make(map[string]map[Caller]bool),
	}
}

// Invalidate is the bridging callback C8 supplies: given a caller whose
// ctor-opt assumption flipped, invalidate its cached tree.
type Invalidate func(caller Caller)

// BeginRun computes the new ctor-opt set from unit, diffs it against the
// set recorded at the previous EndRun, and invokes invalidate for every
// caller that depended on a class whose membership changed -- implementing
// SPEC_FULL.md §4.5 step by step.
func (t *Tracker) BeginRun(unit *irtree.LinkingUnit, invalidate Invalidate) {
	t.current = make(map[string]bool)
	for _, c := range unit.Classes {
		if t.predicate(c) {
			t.current[c.EncodedName] = true
		}
	}

	changed := symmetricDifference(t.last, t.current)

	for _, className := range changed {
		callers := t.table[className]
		for caller := range callers {
			invalidate(caller)
		}
		delete(t.table, className)
	}
}

// EndRun promotes the current ctor-opt snapshot to "last", per SPEC_FULL.md
// §4.5.
func (t *Tracker) EndRun() {
	t.last = t.current
}

// UsesJSConstructorOpt records that caller queried targetClass's ctor-opt
// status this run, then answers whether targetClass is currently ctor-opt
// eligible.
func (t *Tracker) UsesJSConstructorOpt(targetClass string, caller Caller) bool {
	if t.table[targetClass] == nil {
		t.table[targetClass] = make(map[Caller]bool)
	}
	t.table[targetClass][caller] = true
	return t.current[targetClass]
}

// CurrentSet exposes a read-only snapshot of this run's ctor-opt set, used
// by classgen to decide whether to exclude a constructor method from
// ordinary member-method emission.
func (t *Tracker) CurrentSet() map[string]bool {
	return t.current
}

func symmetricDifference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	for k := range b {
		if !a[k] {
			out = append(out, k)
		}
	}
	return out
}
