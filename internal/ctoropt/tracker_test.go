package ctoropt

import (
	"testing"

	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
)

// TestCtorOptInvalidation reproduces scenario S4: X starts ctor-opt
// eligible, Y.m queries it, then X stops being eligible with identical IR
// versions; Y.m must be invalidated exactly once at the next BeginRun.
func TestCtorOptInvalidation(t *testing.T) {
	xEligible := true
	predicate := func(c *irtree.LinkedClass) bool {
		return c.EncodedName == "X" && xEligible
	}
	tr := New(predicate)

	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{
		{EncodedName: "X"}, {EncodedName: "Y"},
	}}

	tr.BeginRun(unit, func(Caller) { t.Fatalf("no prior state; nothing should invalidate on the first run") })
	caller := Caller{ClassName: "Y", MethodName: "m", IsStatic: false}
	if !tr.UsesJSConstructorOpt("X", caller) {
		t.Fatalf("expected X to be ctor-opt eligible on run 1")
	}
	tr.EndRun()

	xEligible = false
	var invalidated []Caller
	tr.BeginRun(unit, func(c Caller) { invalidated = append(invalidated, c) })

	if len(invalidated) != 1 || invalidated[0] != caller {
		t.Fatalf("expected exactly Y.m to be invalidated when X's ctor-opt status flipped, got %v", invalidated)
	}

	if tr.UsesJSConstructorOpt("X", caller) {
		t.Fatalf("expected X to no longer be ctor-opt eligible on run 2")
	}
	tr.EndRun()
}

func TestNoInvalidationWhenStatusUnchanged(t *testing.T) {
	predicate := func(c *irtree.LinkedClass) bool { return c.EncodedName == "X" }
	tr := New(predicate)
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{{EncodedName: "X"}, {EncodedName: "Y"}}}

	tr.BeginRun(unit, func(Caller) {})
	tr.UsesJSConstructorOpt("X", Caller{ClassName: "Y", MethodName: "m"})
	tr.EndRun()

	invalidatedCount := 0
	tr.BeginRun(unit, func(Caller) { invalidatedCount++ })
	if invalidatedCount != 0 {
		t.Fatalf("expected no invalidation when ctor-opt membership is unchanged, got %d", invalidatedCount)
	}
}

func TestEntryDroppedAfterInvalidation(t *testing.T) {
	eligible := true
	tr := New(func(c *irtree.LinkedClass) bool { return c.EncodedName == "X" && eligible })
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{{EncodedName: "X"}, {EncodedName: "Y"}}}

	tr.BeginRun(unit, func(Caller) {})
	tr.UsesJSConstructorOpt("X", Caller{ClassName: "Y", MethodName: "m"})
	tr.EndRun()

	eligible = false
	tr.BeginRun(unit, func(Caller) {})
	tr.EndRun()

	// Flip back; since the entry was dropped after the first flip and never
	// re-recorded, a second flip must not invalidate anything.
	eligible = true
	count := 0
	tr.BeginRun(unit, func(Caller) { count++ })
	if count != 0 {
		t.Fatalf("expected the dropped entry to stay dropped, got %d invalidations", count)
	}
}
