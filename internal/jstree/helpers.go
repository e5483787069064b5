package jstree

// Dot builds a dotted member-access expression, e.g. Dot(Ident{"ScalaJS"}, "c", "Foo")
// for "ScalaJS.c.Foo".
func Dot(target Expr, props ...string) Expr {
	e := target
	for _, p := range props {
		e = Member{Target: e, Prop: p}
	}
	return e
}

// Index builds a bracketed member-access expression, e.g. "ClassData[tag]".
func Index(target Expr, index Expr) Expr {
	return Member{Target: target, Index: index, Computed: true}
}

// AssignExpr builds an assignment usable in expression position (e.g. as a
// call argument), grounded on js_ast_helpers.go's Assign.
func AssignExpr(target, value Expr) Expr {
	return Binary{Op: "=", Left: target, Right: value}
}

// AssignStmt builds "target = value;" in statement position, grounded on
// js_ast_helpers.go's AssignStmt.
func AssignStmt(target, value Expr) Stmt {
	return Assign{Target: target, Value: value}
}

// Not wraps expr in a "!" prefix operator, folding a literal boolean's
// negation at build time instead of emitting "!true"/"!false" the way
// js_ast_helpers.go's MaybeSimplifyNot does for constant conditions. Unlike
// that helper this never cancels a pre-existing "!" against the new one:
// two logical negations of a non-boolean value ("!!x") are not the same
// expression as the value itself, so only a literal is ever folded.
func Not(expr Expr) Expr {
	if b, ok := expr.(Bool); ok {
		return Bool{Value: !b.Value}
	}
	return Unary{Op: "!", Value: expr}
}

// Or builds a left-associative chain of "||" from parts, or Bool{false} for
// an empty chain (the identity of ||-over-booleans).
func Or(parts ...Expr) Expr {
	if len(parts) == 0 {
		return Bool{Value: false}
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out = Binary{Op: "||", Left: out, Right: p}
	}
	return out
}

// StrictEquals builds "a === b".
func StrictEquals(a, b Expr) Expr {
	return Binary{Op: "===", Left: a, Right: b}
}

// And builds "a && b".
func And(a, b Expr) Expr {
	return Binary{Op: "&&", Left: a, Right: b}
}

// Call1 is a convenience for a call with a single argument.
func Call1(callee Expr, arg Expr) Expr {
	return Call{Callee: callee, Args: []Expr{arg}}
}
