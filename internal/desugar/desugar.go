// Package desugar transforms IR method bodies/expressions into JS trees for
// the active output dialect (SPEC_FULL.md §4.2). Every exported function
// here is a pure function of its inputs: an IR node, the active
// emitqueries.Queries, the output mode, and the identity of the caller
// (used only to attribute ctor-opt dependencies in C7). None of them touch
// the cache directly -- classgen.go is the only caller, and it is
// responsible for deciding when to invoke these versus reusing a cached
// tree.
package desugar

import (
	"fmt"

	"github.com/SebsLittleHelpers/scala-js/internal/ctoropt"
	"github.com/SebsLittleHelpers/scala-js/internal/emitqueries"
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
	"github.com/SebsLittleHelpers/scala-js/internal/outputmode"
)

// InvalidInputError is panicked for IR shapes that violate an emitter
// precondition; the driver (C8) recovers it at the top of a run and
// converts it into a logged Error plus a returned error, per SPEC_FULL.md
// §7's propagation policy.
type InvalidInputError struct{ Message string }

func (e InvalidInputError) Error() string { return e.Message }

func fail(format string, args ...interface{}) {
	panic(InvalidInputError{Message: fmt.Sprintf(format, args...)})
}

// Context carries the fixed inputs of one desugaring call: which class owns
// the code being desugared, which method is asking (for C7 attribution),
// and -- when set -- the identifier that stands in for the receiver instead
// of a bare "this" (used for interface default methods, SPEC_FULL.md §4.2's
// "explicit this-identifier" contract).
type Context struct {
	Q         emitqueries.Queries
	Mode      outputmode.Mode
	ClassName string
	Caller    ctoropt.Caller
	ThisIdent string
}

// DesugarToFunction builds a JS function from an IR method's parameters and
// body. When thisIdent is non-empty, it is prepended as the function's
// first parameter and every "this" reference within body resolves to it --
// exactly the shape SPEC_FULL.md §4.2 requires for interface default
// methods, which must be callable as plain functions taking the receiver
// explicitly.
func DesugarToFunction(q emitqueries.Queries, mode outputmode.Mode, className string, caller ctoropt.Caller, thisIdent string, params []irtree.Param, body irtree.Node) jstree.Function {
	ctx := Context{Q: q, Mode: mode, ClassName: className, Caller: caller, ThisIdent: thisIdent}

	var jsParams []jstree.Param
	if thisIdent != "" {
		jsParams = append(jsParams, jstree.Param{Name: thisIdent})
	}
	for _, p := range params {
		jsParams = append(jsParams, jstree.Param{Name: p.Name})
	}

	return jstree.Function{Params: jsParams, Body: ctx.stmtsOf(body)}
}

// DesugarTree desugars a single IR node to either a JS statement (isStat)
// or a JS expression, mirroring the spec's desugarTree(className, expr,
// isStat) contract. The returned value is a jstree.Stmt when isStat is
// true and a jstree.Expr otherwise; callers must type-assert accordingly
// (Go has no sum-return-type, so this stays close to the original two-mode
// contract instead of splitting into two publicly documented entry points).
func DesugarTree(q emitqueries.Queries, mode outputmode.Mode, className string, caller ctoropt.Caller, n irtree.Node, isStat bool) interface{} {
	ctx := Context{Q: q, Mode: mode, ClassName: className, Caller: caller}
	if isStat {
		return ctx.stmt(n)
	}
	return ctx.expr(n)
}

// stmtsOf flattens n into a statement list suitable for a function body: a
// top-level Block becomes its statements verbatim; anything else becomes a
// single-statement body.
func (ctx Context) stmtsOf(n irtree.Node) []jstree.Stmt {
	if b, ok := n.(irtree.Block); ok {
		out := make([]jstree.Stmt, 0, len(b.Stmts))
		for _, s := range b.Stmts {
			out = append(out, ctx.stmt(s))
		}
		return out
	}
	return []jstree.Stmt{ctx.stmt(n)}
}

func (ctx Context) stmt(n irtree.Node) jstree.Stmt {
	switch v := n.(type) {
	case irtree.Block:
		return jstree.Block{Stmts: ctx.stmtsOf(v)}
	case irtree.If:
		s := jstree.If{Cond: ctx.expr(v.Cond), Then: ctx.stmt(v.Then)}
		if v.Else != nil {
			s.Else = ctx.stmt(v.Else)
		}
		return s
	case irtree.Return:
		r := jstree.Return{}
		if v.Value != nil {
			r.Value = ctx.expr(v.Value)
		}
		return r
	case irtree.VarDef:
		return jstree.VarDecl{Kind: jstree.VarLet, Name: v.Name, Value: ctx.expr(v.Value)}
	case irtree.FieldSet:
		return jstree.Assign{Target: jstree.Member{Target: ctx.expr(v.Target), Prop: v.Field}, Value: ctx.expr(v.Value)}
	default:
		return jstree.ExprStmt{Value: ctx.expr(n)}
	}
}

func (ctx Context) expr(n irtree.Node) jstree.Expr {
	switch v := n.(type) {
	case irtree.Lit:
		return litExpr(v.Value)
	case irtree.This:
		if ctx.ThisIdent != "" {
			return jstree.Ident{Name: ctx.ThisIdent}
		}
		return jstree.This{}
	case irtree.VarRef:
		return jstree.Ident{Name: v.Name}
	case irtree.FieldGet:
		return jstree.Member{Target: ctx.expr(v.Target), Prop: v.Field}
	case irtree.FieldSet:
		return jstree.AssignExpr(jstree.Member{Target: ctx.expr(v.Target), Prop: v.Field}, ctx.expr(v.Value))
	case irtree.BinOp:
		return jstree.Binary{Op: v.Op, Left: ctx.expr(v.Left), Right: ctx.expr(v.Right)}
	case irtree.UnOp:
		return jstree.Unary{Op: v.Op, Value: ctx.expr(v.Value)}
	case irtree.Apply:
		return ctx.virtualCall(v)
	case irtree.ApplyStatic:
		return ctx.staticallyBoundCall(v)
	case irtree.ApplyStatically:
		return jstree.Call{Callee: ctx.classStaticCallee(v.ClassName, v.MethodName), Args: ctx.exprs(v.Args)}
	case irtree.New:
		return jstree.New{Callee: jstree.Ident{Name: "c_" + v.ClassName}, Args: ctx.exprs(v.Args)}
	case irtree.LoadModule:
		return jstree.Call{Callee: jstree.Ident{Name: "m_" + v.ClassName}}
	case irtree.IsInstanceOf:
		return jstree.Call{Callee: jstree.Ident{Name: "is_" + v.ClassName}, Args: []jstree.Expr{ctx.expr(v.Value)}}
	case irtree.AsInstanceOf:
		return jstree.Call{Callee: jstree.Ident{Name: "as_" + v.ClassName}, Args: []jstree.Expr{ctx.expr(v.Value)}}
	default:
		fail("desugar: %T cannot appear in expression position", n)
		return nil // unreachable; fail always panics
	}
}

func (ctx Context) exprs(ns []irtree.Node) []jstree.Expr {
	if len(ns) == 0 {
		return nil
	}
	out := make([]jstree.Expr, len(ns))
	for i, n := range ns {
		out[i] = ctx.expr(n)
	}
	return out
}

func litExpr(v interface{}) jstree.Expr {
	switch x := v.(type) {
	case nil:
		return jstree.Null{}
	case bool:
		return jstree.Bool{Value: x}
	case float64:
		return jstree.Number{Value: x}
	case string:
		return jstree.String{Value: x}
	default:
		fail("desugar: unsupported literal value %#v", v)
		return nil
	}
}

// StaticMethodName is the shared naming rule for the "static methods"
// table row of SPEC_FULL.md §4.3: in the ES5 dialects every static
// (module-level) method is addressed as s_ClassName__methodName; ES6 and
// strong mode address it on the class instead (see classStaticCallee).
func StaticMethodName(className, methodName string) string {
	return "s_" + className + "__" + methodName
}

// interfaceDefaultMethodName implements SPEC_FULL.md §4.2's routing rule
// for a statically-bound call to an Interface's default method.
func interfaceDefaultMethodName(mode outputmode.Mode, methodName string) string {
	if mode.IsStrong() {
		return "$f_" + methodName
	}
	return "f_" + methodName
}

// classStaticCallee builds the callee expression for a statically-bound
// call to a Class's own static or member-static method. ES5 dialects
// address it as a flat mangled identifier; ES6/strong dialects address it
// as a static member of the class's own declaration, since the emitter
// assembles those methods into a real jstree.Class node for those dialects
// rather than emitting flat prototype/identifier assignments.
func (ctx Context) classStaticCallee(className, methodName string) jstree.Expr {
	if ctx.Mode.UseES6Classes() {
		return jstree.Dot(jstree.Ident{Name: "c_" + className}, methodName)
	}
	return jstree.Ident{Name: StaticMethodName(className, methodName)}
}

// virtualCall desugars an Apply node: ordinary prototype-dispatch call,
// "target.methodName(args)". The target's static type plays no role here
// because JS's own method lookup performs the dispatch.
func (ctx Context) virtualCall(v irtree.Apply) jstree.Expr {
	return jstree.Call{
		Callee: jstree.Member{Target: ctx.expr(v.Target), Prop: v.MethodName},
		Args:   ctx.exprs(v.Args),
	}
}

// staticallyBoundCall desugars an ApplyStatic node: a call that bypasses
// virtual dispatch, used both for ordinary statically-bound calls (super
// calls, private methods) and for init-chaining constructor calls.
//
// SPEC_FULL.md §4.2's two special cases both live here:
//   - routing an ordinary statically-bound call through the Interface/Class
//     naming rule, driven by q.IsInterface;
//   - replacing what would otherwise be an explicit constructor call with
//     the ctor-optimized form when q.UsesJSConstructorOpt says so, which
//     also records the (caller, method, isStatic) dependency against the
//     target class in C7.
func (ctx Context) staticallyBoundCall(v irtree.ApplyStatic) jstree.Expr {
	if v.IsConstructorCall {
		if ctx.Q.UsesJSConstructorOpt(v.ClassName, ctx.Caller) {
			return jstree.Call{
				Callee: jstree.Dot(jstree.Ident{Name: "c_" + v.ClassName}, "call"),
				Args:   append([]jstree.Expr{ctx.expr(v.Target)}, ctx.exprs(v.Args)...),
			}
		}
		return jstree.Call{
			Callee: jstree.Ident{Name: StaticMethodName(v.ClassName, v.MethodName)},
			Args:   append([]jstree.Expr{ctx.expr(v.Target)}, ctx.exprs(v.Args)...),
		}
	}

	var callee jstree.Expr
	if ctx.Q.IsInterface(v.ClassName) {
		callee = jstree.Ident{Name: interfaceDefaultMethodName(ctx.Mode, v.MethodName)}
	} else {
		callee = ctx.classStaticCallee(v.ClassName, v.MethodName)
	}
	return jstree.Call{
		Callee: callee,
		Args:   append([]jstree.Expr{ctx.expr(v.Target)}, ctx.exprs(v.Args)...),
	}
}
