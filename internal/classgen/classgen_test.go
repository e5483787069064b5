package classgen

import (
	"strings"
	"testing"

	"github.com/SebsLittleHelpers/scala-js/internal/ctoropt"
	"github.com/SebsLittleHelpers/scala-js/internal/desugar"
	"github.com/SebsLittleHelpers/scala-js/internal/emitcache"
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
	"github.com/SebsLittleHelpers/scala-js/internal/logger"
	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
	"github.com/SebsLittleHelpers/scala-js/internal/semantics"
	"github.com/SebsLittleHelpers/scala-js/internal/tagengine"
)

type fakeQ struct {
	tags       map[string]int32
	intervals  map[string][]tagengine.Interval
	interfaces map[string]bool
	ctorOpt    map[string]bool
	classes    map[string]*irtree.LinkedClass
}

func (f *fakeQ) Mode() outputmode.Mode                    { return outputmode.ES5Isolated }
func (f *fakeQ) ModuleInit() semantics.ModuleInitBehavior { return semantics.Fatal }
func (f *fakeQ) IsInterface(name string) bool             { return f.interfaces[name] }
func (f *fakeQ) LinkedClassByName(name string) (*irtree.LinkedClass, bool) {
	c, ok := f.classes[name]
	return c, ok
}
func (f *fakeQ) Tag(name string) (int32, bool) {
	t, ok := f.tags[name]
	return t, ok
}
func (f *fakeQ) SubtypeIntervals(name string) []tagengine.Interval { return f.intervals[name] }
func (f *fakeQ) NeedsSubtypeArray(name string) bool                { return false }
func (f *fakeQ) IsCtorOptEligible(name string) bool                { return f.ctorOpt[name] }
func (f *fakeQ) UsesJSConstructorOpt(target string, caller ctoropt.Caller) bool {
	return f.ctorOpt[target]
}

func newOpts(q *fakeQ, mode outputmode.Mode) Options {
	return Options{
		Q:          q,
		Mode:       mode,
		ModuleInit: q.ModuleInit(),
		CC:         emitcache.New().ClassCacheFor("Foo"),
		Stats:      &emitcache.Stats{},
		Log:        logger.NewDeferLog(),
	}
}

func fooClass() *irtree.LinkedClass {
	return &irtree.LinkedClass{
		EncodedName:        "Foo",
		Kind:                irtree.Class,
		SuperClass:          "O",
		Ancestors:           []string{"Foo", "O"},
		Fields:              []irtree.Field{{Name: "x"}},
		HasInstances:        true,
		HasInstanceTests:    true,
		HasRuntimeTypeInfo:  true,
		Version:             "v1",
		MemberMethods: []irtree.MethodDef{
			{Name: "greet", Body: irtree.Return{Value: irtree.Lit{Value: "hi"}}},
		},
	}
}

// TestGenerateEmitsExpectedPieceKindsForSimpleClass covers scenario S2: a
// single concrete class in ES5-Isolated mode produces a constructor piece,
// a member-method assignment, instance-test functions, array-instance-test
// functions, and type data, in that order.
func TestGenerateEmitsExpectedPieceKindsForSimpleClass(t *testing.T) {
	q := &fakeQ{
		tags:      map[string]int32{"Foo": 11, "O": 1},
		intervals: map[string][]tagengine.Interval{"Foo": {{Lo: 11, Hi: 11}}},
	}
	opts := newOpts(q, outputmode.ES5Isolated)
	stmts := Generate(opts, fooClass())

	if len(stmts) == 0 {
		t.Fatal("expected a non-empty piece list")
	}

	ctorBlock, ok := stmts[0].(jstree.Block)
	if !ok || len(ctorBlock.Stmts) != 5 {
		t.Fatalf("expected the constructor piece first with 5 statements, got %#v", stmts[0])
	}
	if _, ok := ctorBlock.Stmts[0].(jstree.DocComment); !ok {
		t.Fatalf("expected the @constructor doc comment first, got %#v", ctorBlock.Stmts[0])
	}

	foundMember := false
	for _, s := range stmts {
		if a, ok := s.(jstree.Assign); ok {
			if m, ok := a.Target.(jstree.Member); ok && m.Prop == "greet" {
				foundMember = true
			}
		}
	}
	if !foundMember {
		t.Fatalf("expected a classVar.prototype.greet assignment among %#v", stmts)
	}
}

// TestCtorOptExcludesConstructorMethodFromMemberEmission covers the edge
// case in SPEC_FULL.md §4.3: when a class is ctor-opt eligible, its init
// method is fused into the constructor and must not also appear as an
// ordinary member method.
func TestCtorOptExcludesConstructorMethodFromMemberEmission(t *testing.T) {
	class := fooClass()
	class.MemberMethods = append(class.MemberMethods, irtree.MethodDef{
		Name: "init___",
		Body: irtree.FieldSet{Target: irtree.This{}, Field: "x", Value: irtree.Lit{Value: float64(1)}},
	})

	q := &fakeQ{
		tags:      map[string]int32{"Foo": 11, "O": 1},
		intervals: map[string][]tagengine.Interval{"Foo": {{Lo: 11, Hi: 11}}},
		ctorOpt:   map[string]bool{"Foo": true},
	}
	opts := newOpts(q, outputmode.ES5Isolated)
	stmts := Generate(opts, class)

	for _, s := range stmts {
		if a, ok := s.(jstree.Assign); ok {
			if m, ok := a.Target.(jstree.Member); ok && m.Prop == "init___" {
				t.Fatalf("constructor method must not be emitted as a member method when ctor-opt eligible")
			}
		}
	}

	ctorBlock := stmts[0].(jstree.Block)
	fn := ctorBlock.Stmts[1].(jstree.Assign).Value.(jstree.Function)
	foundFusedAssign := false
	for _, s := range fn.Body {
		if a, ok := s.(jstree.Assign); ok {
			if n, ok := a.Value.(jstree.Number); ok && n.Value == 1 {
				foundFusedAssign = true
			}
		}
	}
	if !foundFusedAssign {
		t.Fatalf("expected the init method's body to be fused into the constructor function")
	}
}

// TestES6ModeProducesMethodPiecesInsteadOfAssignments verifies that in an
// ES6 dialect, member and static methods are wrapped as jstree.MethodPiece
// rather than emitted as flat prototype/identifier assignments.
func TestES6ModeProducesMethodPiecesInsteadOfAssignments(t *testing.T) {
	class := fooClass()
	class.StaticMethods = []irtree.MethodDef{{Name: "helper", Body: irtree.Return{Value: irtree.Lit{Value: float64(0)}}}}

	q := &fakeQ{
		tags:      map[string]int32{"Foo": 11, "O": 1},
		intervals: map[string][]tagengine.Interval{"Foo": {{Lo: 11, Hi: 11}}},
	}
	opts := newOpts(q, outputmode.ES6)
	stmts := Generate(opts, class)

	sawStaticPiece, sawMemberPiece := false, false
	for _, s := range stmts {
		mp, ok := s.(jstree.MethodPiece)
		if !ok {
			continue
		}
		if mp.Def.Name == "helper" && mp.Def.Static {
			sawStaticPiece = true
		}
		if mp.Def.Name == "greet" && !mp.Def.Static {
			sawMemberPiece = true
		}
	}
	if !sawStaticPiece || !sawMemberPiece {
		t.Fatalf("expected both a static and a member MethodPiece, got %#v", stmts)
	}
}

// TestModuleAccessorFatalModeThrowsOnReentrance covers scenario S5: a
// module class under Fatal ModuleInit behavior emits a re-entrance guard
// that throws, as the else branch of the normal initialization check.
func TestModuleAccessorFatalModeThrowsOnReentrance(t *testing.T) {
	class := &irtree.LinkedClass{
		EncodedName:  "MyModule",
		Kind:         irtree.ModuleClass,
		HasInstances: true,
		Version:      "v1",
	}
	q := &fakeQ{}
	opts := newOpts(q, outputmode.ES5Isolated)
	opts.ModuleInit = semantics.Fatal

	stmts := Generate(opts, class)

	var accessor jstree.FunctionDecl
	found := false
	for _, s := range stmts {
		if fd, ok := s.(jstree.FunctionDecl); ok && fd.Fn.Name == "m_MyModule" {
			accessor = fd
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a module accessor function m_MyModule among %#v", stmts)
	}
	guard, ok := accessor.Fn.Body[0].(jstree.If)
	if !ok {
		t.Fatalf("expected the first statement to be the undefined-check guard, got %#v", accessor.Fn.Body[0])
	}
	reentrant, ok := guard.Else.(jstree.If)
	if !ok {
		t.Fatalf("expected an else-if re-entrance guard, got %#v", guard.Else)
	}
	thrown, ok := reentrant.Then.(jstree.ExprStmt)
	if !ok {
		t.Fatalf("expected the re-entrance guard's Then branch to throw, got %#v", reentrant.Then)
	}
	call, ok := thrown.Value.(jstree.Call)
	if !ok || call.Callee.(jstree.Ident).Name != "sjsr_UndefinedBehaviorError" {
		t.Fatalf("expected a sjsr_UndefinedBehaviorError call, got %#v", thrown.Value)
	}
}

// TestInstanceTestsAlwaysAccompaniedByArrayInstanceTests checks the "always
// per class" row: even when needInstanceTests is false, isArrayOf_/asArrayOf_
// are still generated.
func TestInstanceTestsAlwaysAccompaniedByArrayInstanceTests(t *testing.T) {
	class := fooClass()
	class.HasInstanceTests = false

	q := &fakeQ{tags: map[string]int32{"Foo": 11, "O": 1}}
	opts := newOpts(q, outputmode.ES5Isolated)
	stmts := Generate(opts, class)

	sawIs, sawArrayIs := false, false
	for _, s := range stmts {
		if fd, ok := s.(jstree.FunctionDecl); ok {
			if fd.Fn.Name == "is_Foo" {
				sawIs = true
			}
			if fd.Fn.Name == "isArrayOf_Foo" {
				sawArrayIs = true
			}
		}
	}
	if sawIs {
		t.Fatalf("did not expect is_Foo when HasInstanceTests is false")
	}
	if !sawArrayIs {
		t.Fatalf("expected isArrayOf_Foo unconditionally")
	}
}

// TestExportedMemberWithUnrecognizedKindPanicsInvalidInput checks that a
// class exporting a member with a kind other than ExportedMethod/
// ExportedProperty raises an IllegalExportedMember InvalidInputError
// instead of silently dropping the member.
func TestExportedMemberWithUnrecognizedKindPanicsInvalidInput(t *testing.T) {
	class := fooClass()
	class.ExportedMembers = []irtree.ExportedMember{
		{Kind: irtree.ExportedMemberKind(99), Name: "bogus"},
	}

	q := &fakeQ{tags: map[string]int32{"Foo": 11, "O": 1}}
	opts := newOpts(q, outputmode.ES5Isolated)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for an unrecognized exported member kind")
		}
		ie, ok := r.(desugar.InvalidInputError)
		if !ok {
			t.Fatalf("expected a desugar.InvalidInputError, got %#v", r)
		}
		if !strings.Contains(ie.Error(), "IllegalExportedMember") {
			t.Fatalf("expected the IllegalExportedMember condition in the message, got %q", ie.Error())
		}
	}()
	Generate(opts, class)
}
