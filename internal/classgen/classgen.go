// Package classgen is the per-class generator (SPEC_FULL.md §4.3, C5): for
// one irtree.LinkedClass it produces the ordered sequence of jstree pieces
// (constructor, methods, instance tests, type data, exports, ...) that make
// up that class's contribution to the emitted program, consulting the
// incremental cache (C6) so that an unchanged class or method is not
// redesugared on every run.
package classgen

import (
	"fmt"

	"github.com/SebsLittleHelpers/scala-js/internal/ctoropt"
	"github.com/SebsLittleHelpers/scala-js/internal/desugar"
	"github.com/SebsLittleHelpers/scala-js/internal/emitcache"
	"github.com/SebsLittleHelpers/scala-js/internal/emitqueries"
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
	"github.com/SebsLittleHelpers/scala-js/internal/logger"
	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
	"github.com/SebsLittleHelpers/scala-js/internal/semantics"
	"github.com/SebsLittleHelpers/scala-js/internal/tagengine"
)

// Options bundles the read-only inputs a generation call needs beyond the
// class itself.
type Options struct {
	Q          emitqueries.Queries
	Mode       outputmode.Mode
	ModuleInit semantics.ModuleInitBehavior
	CC         *emitcache.ClassCache
	Stats      *emitcache.Stats
	Log        logger.Log
}

type generator struct {
	opts  Options
	class *irtree.LinkedClass
	dc    *emitcache.DesugaredClassCache
}

// Pieces holds one class's generated output broken out by kind instead of
// flattened into a single ordered list. The emitter driver (C8) needs this
// shape for strong-mode assembly, which splices each kind into a different
// marker phase of the core-lib text (SPEC_FULL.md §4.6); non-strong callers
// use Flatten to get the single ordered list §4.3's table describes.
type Pieces struct {
	StaticMethods      []jstree.Stmt
	Constructor        []jstree.Stmt
	DefaultMethods     []jstree.Stmt
	MemberMethods      []jstree.Stmt
	ExportedMembers    []jstree.Stmt
	InstanceTests      []jstree.Stmt
	ArrayInstanceTests []jstree.Stmt
	TypeData           []jstree.Stmt
	SetTypeData        []jstree.Stmt
	ModuleAccessor     []jstree.Stmt
	ClassExports       []jstree.Stmt
}

// Flatten concatenates every non-empty field in SPEC_FULL.md §4.3's table
// order, the shape a non-strong single-phase emission needs.
func (p Pieces) Flatten() []jstree.Stmt {
	var out []jstree.Stmt
	out = append(out, p.StaticMethods...)
	out = append(out, p.Constructor...)
	out = append(out, p.DefaultMethods...)
	out = append(out, p.MemberMethods...)
	out = append(out, p.ExportedMembers...)
	out = append(out, p.InstanceTests...)
	out = append(out, p.ArrayInstanceTests...)
	out = append(out, p.TypeData...)
	out = append(out, p.SetTypeData...)
	out = append(out, p.ModuleAccessor...)
	out = append(out, p.ClassExports...)
	return out
}

// GeneratePieces runs every predicate in SPEC_FULL.md §4.3's table for class
// and returns the resulting pieces without flattening them.
func GeneratePieces(opts Options, class *irtree.LinkedClass) Pieces {
	g := &generator{opts: opts, class: class}
	g.dc = opts.CC.DesugaredClassCacheFor(class.Version, opts.Stats)

	var p Pieces
	ctorOptSelf := opts.Q.IsCtorOptEligible(class.EncodedName)

	p.StaticMethods = g.staticMethods()
	if class.HasInstances && class.Kind.IsAnyScalaJSDefinedClass() {
		p.Constructor = g.constructor(ctorOptSelf)
	}
	if class.Kind == irtree.Interface {
		p.DefaultMethods = g.defaultMethods()
	}
	p.MemberMethods = g.memberMethods(ctorOptSelf)
	p.ExportedMembers = g.exportedMembers()
	if g.needInstanceTests() {
		p.InstanceTests = g.instanceTests()
	}
	p.ArrayInstanceTests = g.arrayInstanceTests()
	if class.HasRuntimeTypeInfo {
		p.TypeData = g.typeData()
		if class.Kind.IsClass() && class.HasInstances {
			p.SetTypeData = g.setTypeData()
		}
	}
	if class.Kind.HasModuleAccessor() {
		p.ModuleAccessor = []jstree.Stmt{g.moduleAccessor()}
	}
	p.ClassExports = g.classExports()
	return p
}

// Generate produces class's ordered piece list per SPEC_FULL.md §4.3's
// table, skipping any piece whose predicate does not hold.
func Generate(opts Options, class *irtree.LinkedClass) []jstree.Stmt {
	return GeneratePieces(opts, class).Flatten()
}

func (g *generator) caller(methodName string, isStatic bool) ctoropt.Caller {
	return ctoropt.Caller{ClassName: g.class.EncodedName, MethodName: methodName, IsStatic: isStatic}
}

func (g *generator) classVar() jstree.Expr {
	return jstree.Ident{Name: "c_" + g.class.EncodedName}
}

// staticMethods emits every entry in class.StaticMethods, one piece each,
// cached individually because unrelated static methods should not
// invalidate each other.
func (g *generator) staticMethods() []jstree.Stmt {
	var out []jstree.Stmt
	for i := range g.class.StaticMethods {
		m := &g.class.StaticMethods[i]
		mc := g.opts.CC.Method(m.Name, true)
		tree := mc.GetOrElseUpdate(g.class.Version, g.opts.Stats, func() jstree.Stmt {
			fn := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, g.caller(m.Name, true), "", m.Params, m.Body)
			if g.opts.Mode.UseES6Classes() {
				return jstree.MethodPiece{Def: jstree.MethodDef{Name: m.Name, Static: true, Params: fn.Params, Body: fn.Body}}
			}
			return jstree.Assign{Target: jstree.Ident{Name: desugar.StaticMethodName(g.class.EncodedName, m.Name)}, Value: fn}
		})
		out = append(out, tree)
	}
	return out
}

// findConstructorMethod locates the member method matching the IR's
// constructor-name predicate, or nil if none is present.
func findConstructorMethod(c *irtree.LinkedClass) *irtree.MethodDef {
	for i := range c.MemberMethods {
		if c.MemberMethods[i].IsConstructor() {
			return &c.MemberMethods[i]
		}
	}
	return nil
}

// constructor emits the piece described by SPEC_FULL.md §4.3's "constructor"
// row: an ES5 function + prototype-chain assignment + inheritable-ctor
// helper, or an ES6/strong "constructor(){}" MethodDef. When the class is
// ctor-opt eligible, its own init method's body is fused directly into the
// constructor instead of being emitted separately by memberMethods.
func (g *generator) constructor(ctorOptSelf bool) []jstree.Stmt {
	tree := g.dc.Constructor.GetOrElseUpdate(func() jstree.Stmt {
		body := g.constructorBody(ctorOptSelf)

		if g.opts.Mode.UseES6Classes() {
			return jstree.MethodPiece{Def: jstree.MethodDef{Name: "constructor", Body: body}}
		}

		super := "O"
		if g.class.SuperClass != "" {
			super = g.class.SuperClass
		}
		return jstree.Block{Stmts: []jstree.Stmt{
			jstree.DocComment{Lines: []string{"@constructor"}},
			jstree.Assign{Target: g.classVar(), Value: jstree.Function{Body: body}},
			jstree.Assign{
				Target: jstree.Dot(g.classVar(), "prototype"),
				Value:  jstree.New{Callee: jstree.Ident{Name: "h_" + super}},
			},
			jstree.Assign{
				Target: jstree.Dot(g.classVar(), "prototype", "constructor"),
				Value:  g.classVar(),
			},
			jstree.Assign{Target: jstree.Ident{Name: "h_" + g.class.EncodedName}, Value: jstree.Function{}},
		}}
	})
	return []jstree.Stmt{tree}
}

// constructorBody assembles field-default initialization followed, when the
// class is ctor-opt eligible, by the desugared body of its own init method.
func (g *generator) constructorBody(ctorOptSelf bool) []jstree.Stmt {
	var stmts []jstree.Stmt
	for _, f := range g.class.Fields {
		stmts = append(stmts, jstree.Assign{
			Target: jstree.Dot(jstree.This{}, f.Name),
			Value:  jstree.Undefined{},
		})
	}
	if ctorOptSelf {
		if ctor := findConstructorMethod(g.class); ctor != nil {
			fn := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, g.caller(ctor.Name, false), "", ctor.Params, ctor.Body)
			stmts = append(stmts, fn.Body...)
		}
	}
	stmts = append(stmts, jstree.Return{Value: jstree.This{}})
	return stmts
}

// defaultMethods emits, for each abstract-free method of an Interface, a
// free function taking the receiver as an explicit first parameter. Every
// dialect uses this form; strong mode names the function $f_m instead of
// f_m, and it is not attached to any class as a static method.
func (g *generator) defaultMethods() []jstree.Stmt {
	var out []jstree.Stmt
	for i := range g.class.MemberMethods {
		m := &g.class.MemberMethods[i]
		if m.IsAbstract {
			continue
		}
		mc := g.opts.CC.Method(m.Name, false)
		tree := mc.GetOrElseUpdate(g.class.Version, g.opts.Stats, func() jstree.Stmt {
			fn := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, g.caller(m.Name, false), "$thiz", m.Params, m.Body)
			name := "f_" + m.Name
			if g.opts.Mode.IsStrong() {
				name = "$f_" + m.Name
			}
			return jstree.Assign{Target: jstree.Ident{Name: name}, Value: fn}
		})
		out = append(out, tree)
	}
	return out
}

// memberMethods emits classVar.prototype.m assignments (ES5) or MethodDef
// pieces (ES6/strong) for every non-abstract member method, excluding the
// constructor method when it was already fused into the constructor piece.
func (g *generator) memberMethods(ctorOptSelf bool) []jstree.Stmt {
	var out []jstree.Stmt
	for i := range g.class.MemberMethods {
		m := &g.class.MemberMethods[i]
		if m.IsAbstract {
			continue
		}
		if ctorOptSelf && m.IsConstructor() {
			continue
		}
		mc := g.opts.CC.Method(m.Name, false)
		tree := mc.GetOrElseUpdate(g.class.Version, g.opts.Stats, func() jstree.Stmt {
			fn := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, g.caller(m.Name, false), "", m.Params, m.Body)
			if g.opts.Mode.UseES6Classes() {
				return jstree.MethodPiece{Def: jstree.MethodDef{Name: m.Name, Params: fn.Params, Body: fn.Body}}
			}
			return jstree.Assign{
				Target: jstree.Dot(g.classVar(), "prototype", m.Name),
				Value:  fn,
			}
		})
		out = append(out, tree)
	}
	return out
}

// exportedMembers emits the class's `@JSExport`-shaped surface: each is
// rendered as an Object.defineProperty call on the prototype (property) or
// a plain assignment (method). Every dialect uses these forms; ES6 and
// strong mode get no getter/setter MethodDef entries.
func (g *generator) exportedMembers() []jstree.Stmt {
	if len(g.class.ExportedMembers) == 0 {
		return nil
	}
	tree := g.dc.ExportedMembers.GetOrElseUpdate(func() jstree.Stmt {
		var stmts []jstree.Stmt
		for _, m := range g.class.ExportedMembers {
			caller := ctoropt.Caller{ClassName: g.class.EncodedName, MethodName: ctoropt.SentinelExportedMember, IsStatic: m.IsStatic}
			switch m.Kind {
			case irtree.ExportedMethod:
				fn := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, caller, "", m.Params, m.Body)
				target := jstree.Dot(g.classVar(), "prototype", m.Name)
				if m.IsStatic {
					target = jstree.Dot(g.classVar(), m.Name)
				}
				stmts = append(stmts, jstree.Assign{Target: target, Value: fn})
			case irtree.ExportedProperty:
				getter := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, caller, "", nil, m.Body)
				props := []jstree.Property{{Key: "get", Value: getter}}
				if m.SetterBody != nil {
					setter := desugar.DesugarToFunction(g.opts.Q, g.opts.Mode, g.class.EncodedName, caller, "", m.Params, m.SetterBody)
					props = append(props, jstree.Property{Key: "set", Value: setter})
				}
				stmts = append(stmts, jstree.ExprStmt{Value: jstree.Call{
					Callee: jstree.Dot(jstree.Ident{Name: "Object"}, "defineProperty"),
					Args: []jstree.Expr{
						jstree.Dot(g.classVar(), "prototype"),
						jstree.String{Value: m.Name},
						jstree.Object{Properties: props},
					},
				}})
			default:
				panic(desugar.InvalidInputError{Message: fmt.Sprintf(
					"IllegalExportedMember: class %s exports member %q with unrecognized kind %d",
					g.class.EncodedName, m.Name, m.Kind)})
			}
		}
		return jstree.Block{Stmts: stmts}
	})
	return []jstree.Stmt{tree}
}

// needInstanceTests decides whether is_C/as_C are generated; the answer is
// the class's HasInstanceTests flag alone.
func (g *generator) needInstanceTests() bool {
	return g.class.HasInstanceTests
}

func (g *generator) tagTest(obj jstree.Expr) jstree.Expr {
	intervals := g.opts.Q.SubtypeIntervals(g.class.EncodedName)
	tagExpr := jstree.Dot(obj, "$classData", "tag")

	if len(intervals) == 0 {
		return jstree.Bool{Value: false}
	}
	if g.opts.Q.NeedsSubtypeArray(g.class.EncodedName) {
		return jstree.Index(jstree.Dot(obj, "$classData", "ancestors"), jstree.String{Value: g.class.EncodedName})
	}

	var parts []jstree.Expr
	for _, iv := range intervals {
		if iv.Lo == iv.Hi {
			parts = append(parts, jstree.StrictEquals(tagExpr, jstree.Number{Value: float64(iv.Lo)}))
			continue
		}
		parts = append(parts, jstree.And(
			jstree.Binary{Op: ">=", Left: tagExpr, Right: jstree.Number{Value: float64(iv.Lo)}},
			jstree.Binary{Op: "<=", Left: tagExpr, Right: jstree.Number{Value: float64(iv.Hi)}},
		))
	}
	return jstree.Or(parts...)
}

// instanceTests emits is_C/as_C. Object's test is `obj !== null`; String
// additionally accepts `typeof obj === "string"`; the ancestors-of-hijacked
// set (SPEC_FULL.md §9) additionally accepts `typeof obj === "number"` only,
// so boolean and string primitives fail their tests.
func (g *generator) instanceTests() []jstree.Stmt {
	tree := g.dc.InstanceTests.GetOrElseUpdate(func() jstree.Stmt {
		obj := jstree.Ident{Name: "obj"}
		test := jstree.And(obj, g.tagTest(obj))

		switch g.class.EncodedName {
		case "O":
			test = jstree.Not(jstree.StrictEquals(obj, jstree.Null{}))
		case "T":
			test = jstree.Or(test, jstree.StrictEquals(jstree.Unary{Op: "typeof", Value: obj}, jstree.String{Value: "string"}))
		}
		if tagengine.AncestorsOfHijackedClasses[g.class.EncodedName] {
			test = jstree.Or(test, jstree.StrictEquals(jstree.Unary{Op: "typeof", Value: obj}, jstree.String{Value: "number"}))
		}

		isFn := jstree.Function{
			Name:   "is_" + g.class.EncodedName,
			Params: []jstree.Param{{Name: "obj"}},
			Body:   []jstree.Stmt{jstree.Return{Value: jstree.Not(jstree.Not(test))}},
		}
		asFn := jstree.Function{
			Name:   "as_" + g.class.EncodedName,
			Params: []jstree.Param{{Name: "obj"}},
			Body: []jstree.Stmt{
				jstree.If{
					Cond: jstree.Or(
						jstree.Call1(jstree.Ident{Name: "is_" + g.class.EncodedName}, obj),
						jstree.StrictEquals(obj, jstree.Null{}),
					),
					Then: jstree.Return{Value: obj},
				},
				jstree.ExprStmt{Value: jstree.Call{
					Callee: jstree.Ident{Name: "throwClassCastException"},
					Args:   []jstree.Expr{obj, jstree.String{Value: g.class.EncodedName}},
				}},
			},
		}
		return jstree.Block{Stmts: []jstree.Stmt{
			jstree.FunctionDecl{Fn: isFn},
			jstree.FunctionDecl{Fn: asFn},
		}}
	})
	return []jstree.Stmt{tree}
}

// arrayInstanceTests emits isArrayOf_C/asArrayOf_C unconditionally, per the
// table's "always per class" row. Object gets the widened $classData/
// arrayDepth check; every other class tests `$classData.arrayDepth > 0` and
// interval membership on the low 23 bits of arrayBaseTag. The tag's sign
// bit and depth bits (23..30) are not examined.
func (g *generator) arrayInstanceTests() []jstree.Stmt {
	obj := jstree.Ident{Name: "obj"}

	var test jstree.Expr
	if g.class.EncodedName == "O" {
		test = jstree.And(
			jstree.And(obj, jstree.Dot(obj, "$classData")),
			jstree.Binary{Op: ">", Left: jstree.Dot(obj, "$classData", "arrayDepth"), Right: jstree.Number{Value: 0}},
		)
	} else {
		tag := jstree.Dot(obj, "$classData", "arrayBaseTag")
		low23 := jstree.Binary{Op: "&", Left: tag, Right: jstree.Number{Value: 0x7fffff}}
		var parts []jstree.Expr
		for _, iv := range g.opts.Q.SubtypeIntervals(g.class.EncodedName) {
			if iv.Lo == iv.Hi {
				parts = append(parts, jstree.StrictEquals(low23, jstree.Number{Value: float64(iv.Lo)}))
				continue
			}
			parts = append(parts, jstree.And(
				jstree.Binary{Op: ">=", Left: low23, Right: jstree.Number{Value: float64(iv.Lo)}},
				jstree.Binary{Op: "<=", Left: low23, Right: jstree.Number{Value: float64(iv.Hi)}},
			))
		}
		test = jstree.And(obj, jstree.And(
			jstree.Binary{Op: ">", Left: jstree.Dot(obj, "$classData", "arrayDepth"), Right: jstree.Number{Value: 0}},
			jstree.Or(parts...),
		))
	}

	isFn := jstree.Function{
		Name:   "isArrayOf_" + g.class.EncodedName,
		Params: []jstree.Param{{Name: "obj"}},
		Body:   []jstree.Stmt{jstree.Return{Value: jstree.Not(jstree.Not(test))}},
	}
	asFn := jstree.Function{
		Name:   "asArrayOf_" + g.class.EncodedName,
		Params: []jstree.Param{{Name: "obj"}},
		Body: []jstree.Stmt{
			jstree.If{
				Cond: jstree.Or(
					jstree.Call1(jstree.Ident{Name: "isArrayOf_" + g.class.EncodedName}, obj),
					jstree.StrictEquals(obj, jstree.Null{}),
				),
				Then: jstree.Return{Value: obj},
			},
			jstree.ExprStmt{Value: jstree.Call{
				Callee: jstree.Ident{Name: "throwClassCastException"},
				Args:   []jstree.Expr{obj, jstree.String{Value: "[L" + g.class.EncodedName}},
			}},
		},
	}
	return []jstree.Stmt{jstree.FunctionDecl{Fn: isFn}, jstree.FunctionDecl{Fn: asFn}}
}

// typeData emits d_C = new TypeData().initClass(...). Strong mode keeps all
// arguments; other dialects right-trim the undefined tail so the emitted
// call reads naturally under a non-strong reader.
func (g *generator) typeData() []jstree.Stmt {
	tree := g.dc.TypeData.GetOrElseUpdate(func() jstree.Stmt {
		tag, _ := g.opts.Q.Tag(g.class.EncodedName)

		var parentRef jstree.Expr = jstree.Undefined{}
		if g.class.SuperClass != "" {
			parentRef = jstree.Ident{Name: "d_" + g.class.SuperClass}
		}
		var jsNameArg jstree.Expr = jstree.Undefined{}
		if g.class.Kind == irtree.RawJSType {
			jsNameArg = jstree.String{Value: g.class.JSName}
		}

		args := []jstree.Expr{
			jstree.String{Value: g.class.EncodedName},
			jstree.Bool{Value: g.class.Kind == irtree.Interface},
			jstree.String{Value: g.displayName()},
			g.ancestorsArray(),
			jstree.Number{Value: float64(tag)},
			jsNameArg,
			parentRef,
			jstree.Ident{Name: "is_" + g.class.EncodedName},
			jstree.Ident{Name: "isArrayOf_" + g.class.EncodedName},
		}
		if !g.opts.Mode.IsStrong() {
			args = trimUndefinedTail(args)
		}

		return jstree.Assign{
			Target: jstree.Ident{Name: "d_" + g.class.EncodedName},
			Value: jstree.Call{
				Callee: jstree.Dot(jstree.New{Callee: jstree.Ident{Name: "TypeData"}}, "initClass"),
				Args:   args,
			},
		}
	})
	return []jstree.Stmt{tree}
}

func (g *generator) displayName() string {
	if g.class.DisplayName != "" {
		return g.class.DisplayName
	}
	return g.class.EncodedName
}

func (g *generator) ancestorsArray() jstree.Expr {
	items := make([]jstree.Expr, 0, len(g.class.Ancestors))
	for _, a := range g.class.Ancestors {
		tag, ok := g.opts.Q.Tag(a)
		if !ok {
			continue
		}
		items = append(items, jstree.Number{Value: float64(tag)})
	}
	return jstree.Array{Items: items}
}

func trimUndefinedTail(args []jstree.Expr) []jstree.Expr {
	end := len(args)
	for end > 0 {
		if _, ok := args[end-1].(jstree.Undefined); !ok {
			break
		}
		end--
	}
	return args[:end]
}

// setTypeData emits the `ClassData[tag] = d_C` indexed assignment used by
// strong mode's table; non-strong dialects reference d_C directly, so it
// returns nil outside strong mode.
func (g *generator) setTypeData() []jstree.Stmt {
	if !g.opts.Mode.IsStrong() {
		return nil
	}
	tree := g.dc.SetTypeData.GetOrElseUpdate(func() jstree.Stmt {
		tag, _ := g.opts.Q.Tag(g.class.EncodedName)
		return jstree.Assign{
			Target: jstree.Index(jstree.Ident{Name: "ClassData"}, jstree.Number{Value: float64(tag)}),
			Value:  jstree.Ident{Name: "d_" + g.class.EncodedName},
		}
	})
	return []jstree.Stmt{tree}
}

// moduleAccessor emits m_C, the cached-singleton accessor function, exactly
// per SPEC_FULL.md §7's three observable state machines. The sentinel value
// distinguishing "not yet started" from "in progress" from "done" is the
// instance variable itself: undefined, then null during construction, then
// the constructed instance.
func (g *generator) moduleAccessor() jstree.Stmt {
	return g.dc.ModuleAccessor.GetOrElseUpdate(func() jstree.Stmt {
		instanceVar := jstree.Ident{Name: "n_" + g.class.EncodedName}
		assign := jstree.Assign{Target: instanceVar, Value: jstree.New{Callee: g.classVar()}}

		var body []jstree.Stmt
		switch g.opts.ModuleInit {
		case semantics.Unchecked:
			body = []jstree.Stmt{
				jstree.If{Cond: jstree.Not(instanceVar), Then: assign},
				jstree.Return{Value: instanceVar},
			}
		case semantics.Compliant:
			body = []jstree.Stmt{
				jstree.If{
					Cond: jstree.StrictEquals(instanceVar, jstree.Undefined{}),
					Then: jstree.Block{Stmts: []jstree.Stmt{
						jstree.Assign{Target: instanceVar, Value: jstree.Null{}},
						assign,
					}},
				},
				jstree.Return{Value: instanceVar},
			}
		case semantics.Fatal:
			body = []jstree.Stmt{
				jstree.If{
					Cond: jstree.StrictEquals(instanceVar, jstree.Undefined{}),
					Then: jstree.Block{Stmts: []jstree.Stmt{
						jstree.Assign{Target: instanceVar, Value: jstree.Null{}},
						assign,
					}},
					Else: jstree.If{
						Cond: jstree.StrictEquals(instanceVar, jstree.Null{}),
						Then: jstree.ExprStmt{Value: jstree.Call{
							Callee: jstree.Ident{Name: "sjsr_UndefinedBehaviorError"},
							Args: []jstree.Expr{jstree.String{Value: "Initializer of " + g.displayName() +
								" called before completion of its super constructor"}},
						}},
					},
				},
				jstree.Return{Value: instanceVar},
			}
		}

		return jstree.FunctionDecl{Fn: jstree.Function{Name: "m_" + g.class.EncodedName, Body: body}}
	})
}

// classExports assembles the dotted-namespace export for each ClassExport
// directive attached to the class. ES5 builds the namespace path under
// ScalaJS.e; strong mode instead calls the $export/$exportCtor helpers.
func (g *generator) classExports() []jstree.Stmt {
	if len(g.class.ClassExports) == 0 {
		return nil
	}
	tree := g.dc.ClassExports.GetOrElseUpdate(func() jstree.Stmt {
		var stmts []jstree.Stmt
		for _, exp := range g.class.ClassExports {
			var value jstree.Expr = g.classVar()
			if exp.Kind == irtree.ExportModule {
				value = jstree.Ident{Name: "m_" + g.class.EncodedName}
			}

			if g.opts.Mode.IsStrong() {
				helper := "$export"
				if exp.Kind == irtree.ExportTopLevelClass {
					helper = "$exportCtor"
				}
				stmts = append(stmts, jstree.ExprStmt{Value: jstree.Call{
					Callee: jstree.Ident{Name: helper},
					Args:   append([]jstree.Expr{value}, pathArgs(exp.Path)...),
				}})
				continue
			}

			var target jstree.Expr = jstree.Dot(jstree.Ident{Name: "ScalaJS"}, "e")
			for _, seg := range exp.Path {
				target = jstree.Member{Target: target, Prop: seg}
			}
			stmts = append(stmts, jstree.Assign{Target: target, Value: value})
		}
		return jstree.Block{Stmts: stmts}
	})
	return []jstree.Stmt{tree}
}

func pathArgs(path []string) []jstree.Expr {
	out := make([]jstree.Expr, len(path))
	for i, p := range path {
		out[i] = jstree.String{Value: p}
	}
	return out
}
