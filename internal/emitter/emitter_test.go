package emitter

import (
	"strings"
	"testing"

	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
	"github.com/SebsLittleHelpers/scala-js/internal/logger"
	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
	"github.com/SebsLittleHelpers/scala-js/internal/semantics"
)

type fakeBuilder struct {
	trees []jstree.Stmt
	lines []string
	seq   []interface{} // trees and lines in the order they were appended
}

func (b *fakeBuilder) AppendTree(s jstree.Stmt) {
	b.trees = append(b.trees, s)
	b.seq = append(b.seq, s)
}

func (b *fakeBuilder) AppendLine(l string) {
	b.lines = append(b.lines, l)
	b.seq = append(b.seq, l)
}

func objectClass() *irtree.LinkedClass {
	return &irtree.LinkedClass{EncodedName: "O", Kind: irtree.Class, Ancestors: []string{"O"}, Version: "v1"}
}

func fooClass() *irtree.LinkedClass {
	return &irtree.LinkedClass{
		EncodedName:      "Foo",
		Kind:             irtree.Class,
		SuperClass:       "O",
		Ancestors:        []string{"Foo", "O"},
		HasInstances:     true,
		HasInstanceTests: true,
		Version:          "v1",
		MemberMethods: []irtree.MethodDef{
			{Name: "greet", Body: irtree.Return{Value: irtree.Lit{Value: "hi"}}},
		},
	}
}

// TestEmitEmptyUnitProducesNoTrees covers scenario S1: an empty linking unit
// emits nothing but still runs BeginRun/EndRun cleanly.
func TestEmitEmptyUnitProducesNoTrees(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")
	unit := &irtree.LinkingUnit{}
	tb := &fakeBuilder{}
	log := logger.NewDeferLog()

	if err := e.Emit(unit, tb, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tb.trees) != 0 {
		t.Fatalf("expected no trees for an empty unit, got %#v", tb.trees)
	}
}

// TestEmitSingleClassOrdersBeforeSuper covers scenario S2 and the sorting
// guarantee in sortedClasses: a class must not be emitted before its super.
func TestEmitSingleClassOrdersBeforeSuper(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")
	o := objectClass()
	o.HasInstances = true
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{fooClass(), o}}
	tb := &fakeBuilder{}
	log := logger.NewDeferLog()

	if err := e.Emit(unit, tb, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	firstFooIdx, firstOIdx := -1, -1
	for i, s := range tb.trees {
		if b, ok := s.(jstree.Block); ok {
			for _, inner := range b.Stmts {
				if a, ok := inner.(jstree.Assign); ok {
					if id, ok := a.Target.(jstree.Ident); ok {
						if firstOIdx == -1 && id.Name == "c_O" {
							firstOIdx = i
						}
						if firstFooIdx == -1 && id.Name == "c_Foo" {
							firstFooIdx = i
						}
					}
				}
			}
		}
	}
	if firstOIdx == -1 || firstFooIdx == -1 {
		t.Fatalf("expected constructor assignments for both O and Foo, got %#v", tb.trees)
	}
	if firstOIdx > firstFooIdx {
		t.Fatalf("expected O's pieces (fewer ancestors) before Foo's, got O at %d Foo at %d", firstOIdx, firstFooIdx)
	}
}

// TestEmitRejectsMissingSuperClass covers the InvalidInput precondition
// from validate: every class but the root must declare a super.
func TestEmitRejectsMissingSuperClass(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")
	orphan := fooClass()
	orphan.SuperClass = ""
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{orphan}}
	tb := &fakeBuilder{}
	log := logger.NewDeferLog()

	err := e.Emit(unit, tb, log)
	if err == nil {
		t.Fatal("expected an InvalidInput error for a class with no super")
	}
	if !log.HasErrors() {
		t.Fatal("expected the error to also be logged")
	}
}

// TestEmitRejectsJSClassWithoutExportedConstructor covers the other named
// InvalidInput precondition.
func TestEmitRejectsJSClassWithoutExportedConstructor(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")
	jsClass := &irtree.LinkedClass{EncodedName: "Widget", Kind: irtree.JSClass, SuperClass: "O", Ancestors: []string{"Widget", "O"}}
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{jsClass, objectClass()}}
	tb := &fakeBuilder{}
	log := logger.NewDeferLog()

	err := e.Emit(unit, tb, log)
	if err == nil {
		t.Fatal("expected an InvalidInput error for a JS class with no exported constructor")
	}
}

// TestEmitAllStrongModeSplicesInPhaseOrder covers scenario S6: a strong-mode
// core-lib splice must place a class's type-data declaration before its
// class declaration, and end with the strong-mode footer.
func TestEmitAllStrongModeSplicesInPhaseOrder(t *testing.T) {
	corelib := strings.Join([]string{
		markerDeclareTypeData,
		markerDeclareModules,
		markerIsAndAs,
		markerClasses,
		markerCreateTypeData,
		markerExports,
		markerEnd,
	}, "\n")

	e := New(outputmode.ES6Strong, semantics.Unchecked, corelib)
	foo := fooClass()
	foo.HasRuntimeTypeInfo = true
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{foo, objectClass()}}
	fb := &fakeBuilder{}
	log := logger.NewDeferLog()

	if err := e.EmitAll(unit, fb, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	declIdx, classIdx := -1, -1
	for i, item := range fb.seq {
		switch v := item.(type) {
		case string:
			if strings.Contains(v, "var d_Foo") && declIdx == -1 {
				declIdx = i
			}
		case jstree.ClassDecl:
			if v.Class.Name == "c_Foo" && classIdx == -1 {
				classIdx = i
			}
		}
	}
	if declIdx == -1 {
		t.Fatalf("expected a declared type-data var for Foo among lines %#v", fb.lines)
	}
	if classIdx == -1 {
		t.Fatalf("expected a ClassDecl for c_Foo among trees %#v", fb.trees)
	}
	if declIdx > classIdx {
		t.Fatalf("expected Foo's type-data declaration before its class declaration, got decl at %d class at %d", declIdx, classIdx)
	}
	if fb.lines[len(fb.lines)-1] != strongModeFooter {
		t.Fatalf("expected the strong-mode footer as the final appended line, got %q", fb.lines[len(fb.lines)-1])
	}
}

// TestEmitStrongModeWithoutCorelibFails documents the FileBuilder/
// TreeBuilder structural-typing tradeoff: strong mode without configured
// core-lib text fails via a DialectMismatch error rather than a type
// assertion, since the two interfaces share an identical method set.
func TestEmitStrongModeWithoutCorelibFails(t *testing.T) {
	e := New(outputmode.ES6Strong, semantics.Unchecked, "")
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{objectClass()}}
	tb := &fakeBuilder{}
	log := logger.NewDeferLog()

	err := e.Emit(unit, tb, log)
	if err == nil || !strings.Contains(err.Error(), "DialectMismatch") {
		t.Fatalf("expected a DialectMismatch error, got %v", err)
	}
}

// TestEmitAllNonStrongModeAppendsCorelibText covers the prelude table's
// requirement that ES5-Global/ES5-Isolated/ES6 append the pre-rendered
// core-lib text as part of their prelude, not just the wrapper lines.
func TestEmitAllNonStrongModeAppendsCorelibText(t *testing.T) {
	corelib := "var ScalaJS = { d: {}, c: {}, h: {}, n: {}, m: {}, s: {}, f: {}, e: {} };"

	for _, mode := range []outputmode.Mode{outputmode.ES5Global, outputmode.ES5Isolated, outputmode.ES6} {
		e := New(mode, semantics.Unchecked, corelib)
		unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{objectClass()}}
		fb := &fakeBuilder{}
		log := logger.NewDeferLog()

		if err := e.EmitAll(unit, fb, log); err != nil {
			t.Fatalf("mode %v: unexpected error: %v", mode, err)
		}

		found := false
		for _, l := range fb.lines {
			if l == corelib {
				found = true
			}
		}
		if !found {
			t.Fatalf("mode %v: expected the core-lib text among prelude lines, got %#v", mode, fb.lines)
		}
	}
}

// TestEmitAllStrongModeEmitsHeaderFromPrelude ensures the strong-mode
// function-expression header comes from EmitPrelude itself rather than
// depending on the caller's core-lib text already containing it.
func TestEmitAllStrongModeEmitsHeaderFromPrelude(t *testing.T) {
	corelib := strings.Join([]string{
		markerDeclareTypeData,
		markerDeclareModules,
		markerIsAndAs,
		markerClasses,
		markerCreateTypeData,
		markerExports,
		markerEnd,
	}, "\n")

	e := New(outputmode.ES6Strong, semantics.Unchecked, corelib)
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{objectClass()}}
	fb := &fakeBuilder{}
	log := logger.NewDeferLog()

	if err := e.EmitAll(unit, fb, log); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	joined := strings.Join(fb.lines, "\n")
	for _, headerLine := range strings.Split(strongModeHeader, "\n") {
		if !strings.Contains(joined, headerLine) {
			t.Fatalf("expected the strong-mode header line %q among prelude lines, got %#v", headerLine, fb.lines)
		}
	}
}

// TestCacheReusedAcrossStructurallyIdenticalRuns covers testable property #4
// (cache soundness): running the same unit twice should reuse method trees
// on the second run when versions have not changed.
func TestCacheReusedAcrossStructurallyIdenticalRuns(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")
	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{fooClass(), objectClass()}}
	log := logger.NewDeferLog()

	if err := e.Emit(unit, &fakeBuilder{}, log); err != nil {
		t.Fatalf("first run: unexpected error: %v", err)
	}
	firstStats := e.Stats()

	if err := e.Emit(unit, &fakeBuilder{}, log); err != nil {
		t.Fatalf("second run: unexpected error: %v", err)
	}
	secondStats := e.Stats()

	if secondStats.MethodsReused <= firstStats.MethodsReused {
		t.Fatalf("expected the second run to reuse at least one more method tree, first=%+v second=%+v", firstStats, secondStats)
	}
}

// TestInvalidationFiresWhenCtorOptEligibilityFlips covers testable property
// #5 and scenario S4: class Bar's method callInit desugars a constructor
// call targeting Foo, recording the (Bar, callInit) dependency against
// Foo in the ctor-opt tracker. When Foo flips into ctor-opt eligibility on
// the next run, that dependency must be invalidated and rebuilt even
// though Bar's own IR version never changed.
func TestInvalidationFiresWhenCtorOptEligibilityFlips(t *testing.T) {
	e := New(outputmode.ES5Isolated, semantics.Unchecked, "")

	foo := fooClass()
	foo.MemberMethods = append(foo.MemberMethods, irtree.MethodDef{
		Name: "init___",
		Body: irtree.FieldSet{Target: irtree.This{}, Field: "x", Value: irtree.Lit{Value: float64(1)}},
	})
	foo.HasInstances = false // not yet ctor-opt eligible: candidateForJSConstructorOpt requires HasInstances

	bar := &irtree.LinkedClass{
		EncodedName: "Bar",
		Kind:        irtree.Class,
		SuperClass:  "O",
		Ancestors:   []string{"Bar", "O"},
		Version:     "v1",
		MemberMethods: []irtree.MethodDef{
			{Name: "callInit", Body: irtree.ApplyStatic{
				Target:            irtree.This{},
				ClassName:         "Foo",
				MethodName:        "init___",
				IsConstructorCall: true,
			}},
		},
	}

	unit := &irtree.LinkingUnit{Classes: []*irtree.LinkedClass{foo, bar, objectClass()}}
	log := logger.NewDeferLog()

	if err := e.Emit(unit, &fakeBuilder{}, log); err != nil {
		t.Fatalf("first run: unexpected error: %v", err)
	}

	foo.HasInstances = true // flips ctor-opt eligibility on for this run
	if err := e.Emit(unit, &fakeBuilder{}, log); err != nil {
		t.Fatalf("second run: unexpected error: %v", err)
	}
	afterFlip := e.Stats()

	if afterFlip.MethodsInvalidated == 0 {
		t.Fatalf("expected Bar.callInit to be rebuilt after Foo's ctor-opt flip, got %+v", afterFlip)
	}
}
