// Package textbuilder implements the emitter's default TreeBuilder/
// FileBuilder: a small recursive-descent printer that serializes jstree
// nodes to text, one statement kind at a time, grounded on
// internal/js_printer/js_printer.go's per-node-kind dispatch shape (see
// DESIGN.md). It is intentionally not source-map aware; a caller that needs
// source maps supplies its own TreeBuilder implementation instead.
package textbuilder

import (
	"strconv"
	"strings"

	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
)

// Builder accumulates printed JavaScript text. The zero value is ready to
// use.
type Builder struct {
	sb     strings.Builder
	indent int
}

// New constructs an empty Builder.
func New() *Builder { return &Builder{} }

// AppendLine appends text verbatim, followed by a newline, with no indent
// added -- used for literal core-lib passthrough text and custom
// header/footer lines, which are never re-indented.
func (b *Builder) AppendLine(text string) {
	b.sb.WriteString(text)
	b.sb.WriteByte('\n')
}

// AppendTree prints one top-level statement.
func (b *Builder) AppendTree(s jstree.Stmt) {
	b.printStmt(s)
}

// String returns the accumulated text.
func (b *Builder) String() string { return b.sb.String() }

func (b *Builder) writeIndent() {
	b.sb.WriteString(strings.Repeat("  ", b.indent))
}

func (b *Builder) printStmt(s jstree.Stmt) {
	switch s := s.(type) {
	case jstree.Block:
		b.writeIndent()
		b.sb.WriteString("{\n")
		b.indent++
		for _, inner := range s.Stmts {
			b.printStmt(inner)
		}
		b.indent--
		b.writeIndent()
		b.sb.WriteString("}\n")

	case jstree.If:
		b.writeIndent()
		b.sb.WriteString("if (")
		b.printExpr(s.Cond)
		b.sb.WriteString(") ")
		b.printInlineOrBlock(s.Then)
		if s.Else != nil {
			b.writeIndent()
			b.sb.WriteString("else ")
			b.printInlineOrBlock(s.Else)
		}

	case jstree.Return:
		b.writeIndent()
		b.sb.WriteString("return")
		if s.Value != nil {
			b.sb.WriteByte(' ')
			b.printExpr(s.Value)
		}
		b.sb.WriteString(";\n")

	case jstree.ExprStmt:
		b.writeIndent()
		b.printExpr(s.Value)
		b.sb.WriteString(";\n")

	case jstree.Assign:
		b.writeIndent()
		b.printExpr(s.Target)
		b.sb.WriteString(" = ")
		b.printExpr(s.Value)
		b.sb.WriteString(";\n")

	case jstree.VarDecl:
		b.writeIndent()
		b.sb.WriteString(varKeyword(s.Kind))
		b.sb.WriteByte(' ')
		b.sb.WriteString(s.Name)
		if s.Value != nil {
			b.sb.WriteString(" = ")
			b.printExpr(s.Value)
		}
		b.sb.WriteString(";\n")

	case jstree.ClassDecl:
		b.writeIndent()
		b.printClass(s.Class)
		b.sb.WriteByte('\n')

	case jstree.FunctionDecl:
		b.writeIndent()
		b.printFunction(s.Fn)
		b.sb.WriteByte('\n')

	case jstree.DocComment:
		for _, line := range s.Lines {
			b.writeIndent()
			b.sb.WriteString("// ")
			b.sb.WriteString(line)
			b.sb.WriteByte('\n')
		}

	case jstree.Skip:
		// nothing to print

	case jstree.MethodPiece:
		// MethodPiece is an internal classgen/emitter handoff shape between C5
		// and C8's strong-mode assembly; by the time a tree reaches a
		// TreeBuilder it must already have been unwrapped into a Class node.
		panic("textbuilder: unexpected bare MethodPiece; the emitter must assemble it into a Class before printing")

	default:
		panic("textbuilder: unhandled statement kind")
	}
}

func (b *Builder) printInlineOrBlock(s jstree.Stmt) {
	if blk, ok := s.(jstree.Block); ok {
		b.sb.WriteString("{\n")
		b.indent++
		for _, inner := range blk.Stmts {
			b.printStmt(inner)
		}
		b.indent--
		b.writeIndent()
		b.sb.WriteString("}\n")
		return
	}
	b.sb.WriteByte('\n')
	b.indent++
	b.printStmt(s)
	b.indent--
}

func varKeyword(k jstree.VarKind) string {
	switch k {
	case jstree.VarLet:
		return "let"
	case jstree.VarConst:
		return "const"
	default:
		return "var"
	}
}

func (b *Builder) printClass(c jstree.Class) {
	b.sb.WriteString("class")
	if c.Name != "" {
		b.sb.WriteByte(' ')
		b.sb.WriteString(c.Name)
	}
	if c.SuperClass != nil {
		b.sb.WriteString(" extends ")
		b.printExpr(c.SuperClass)
	}
	b.sb.WriteString(" {\n")
	b.indent++
	for _, m := range c.Methods {
		b.writeIndent()
		if m.Static {
			b.sb.WriteString("static ")
		}
		switch m.Kind {
		case jstree.MethodGetter:
			b.sb.WriteString("get ")
		case jstree.MethodSetter:
			b.sb.WriteString("set ")
		}
		b.sb.WriteString(m.Name)
		b.printParams(m.Params)
		b.sb.WriteString(" {\n")
		b.indent++
		for _, inner := range m.Body {
			b.printStmt(inner)
		}
		b.indent--
		b.writeIndent()
		b.sb.WriteString("}\n")
	}
	b.indent--
	b.writeIndent()
	b.sb.WriteString("}")
}

func (b *Builder) printFunction(fn jstree.Function) {
	b.sb.WriteString("function")
	if fn.Name != "" {
		b.sb.WriteByte(' ')
		b.sb.WriteString(fn.Name)
	}
	b.printParams(fn.Params)
	b.sb.WriteString(" {\n")
	b.indent++
	for _, inner := range fn.Body {
		b.printStmt(inner)
	}
	b.indent--
	b.writeIndent()
	b.sb.WriteString("}")
}

func (b *Builder) printParams(params []jstree.Param) {
	b.sb.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(p.Name)
	}
	b.sb.WriteByte(')')
}

// precedence mirrors js_printer.go's operator-precedence table, trimmed to
// the operators jstree can express, so a printed Binary/Unary only gets
// parenthesized when the grouping would otherwise change.
var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"===": 6, "!==": 6, "==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

const unaryPrecedence = 14
const callPrecedence = 16
const atomPrecedence = 20

func (b *Builder) printExpr(e jstree.Expr) {
	b.printExprAt(e, 0)
}

func (b *Builder) printExprAt(e jstree.Expr, minPrec int) {
	prec := exprPrecedence(e)
	needParens := prec < minPrec
	if needParens {
		b.sb.WriteByte('(')
	}
	b.printExprInner(e, prec)
	if needParens {
		b.sb.WriteByte(')')
	}
}

func exprPrecedence(e jstree.Expr) int {
	switch e := e.(type) {
	case jstree.Binary:
		if p, ok := binaryPrecedence[e.Op]; ok {
			return p
		}
		return 1
	case jstree.Unary:
		return unaryPrecedence
	case jstree.Call, jstree.New, jstree.Member:
		return callPrecedence
	default:
		return atomPrecedence
	}
}

func (b *Builder) printExprInner(e jstree.Expr, prec int) {
	switch e := e.(type) {
	case jstree.Null:
		b.sb.WriteString("null")
	case jstree.Undefined:
		b.sb.WriteString("void 0")
	case jstree.This:
		b.sb.WriteString("this")
	case jstree.Bool:
		if e.Value {
			b.sb.WriteString("true")
		} else {
			b.sb.WriteString("false")
		}
	case jstree.Number:
		b.sb.WriteString(strconv.FormatFloat(e.Value, 'g', -1, 64))
	case jstree.String:
		b.printQuoted(e.Value)
	case jstree.Ident:
		b.sb.WriteString(e.Name)

	case jstree.Binary:
		childPrec := prec
		b.printExprAt(e.Left, childPrec)
		b.sb.WriteByte(' ')
		b.sb.WriteString(e.Op)
		b.sb.WriteByte(' ')
		b.printExprAt(e.Right, childPrec+1)

	case jstree.Unary:
		b.sb.WriteString(e.Op)
		if len(e.Op) > 1 {
			b.sb.WriteByte(' ')
		}
		b.printExprAt(e.Value, unaryPrecedence)

	case jstree.Member:
		b.printExprAt(e.Target, callPrecedence)
		if e.Computed {
			b.sb.WriteByte('[')
			b.printExpr(e.Index)
			b.sb.WriteByte(']')
		} else {
			b.sb.WriteByte('.')
			b.sb.WriteString(e.Prop)
		}

	case jstree.Call:
		b.printExprAt(e.Callee, callPrecedence)
		b.printArgs(e.Args)

	case jstree.New:
		b.sb.WriteString("new ")
		b.printExprAt(e.Callee, callPrecedence)
		b.printArgs(e.Args)

	case jstree.Function:
		b.printFunction(jstree.Function{Name: e.Name, Params: e.Params, Body: e.Body})

	case jstree.Arrow:
		b.printParams(e.Params)
		b.sb.WriteString(" => {\n")
		b.indent++
		for _, inner := range e.Body {
			b.printStmt(inner)
		}
		b.indent--
		b.writeIndent()
		b.sb.WriteString("}")

	case jstree.Class:
		b.printClass(e)

	case jstree.Object:
		b.sb.WriteString("{")
		for i, p := range e.Properties {
			if i > 0 {
				b.sb.WriteString(", ")
			}
			if p.Computed {
				b.sb.WriteByte('[')
				b.printExpr(p.Value)
				b.sb.WriteByte(']')
			} else {
				b.sb.WriteString(p.Key)
				b.sb.WriteString(": ")
				b.printExpr(p.Value)
			}
		}
		b.sb.WriteString("}")

	case jstree.Array:
		b.sb.WriteByte('[')
		for i, it := range e.Items {
			if i > 0 {
				b.sb.WriteString(", ")
			}
			b.printExpr(it)
		}
		b.sb.WriteByte(']')

	default:
		panic("textbuilder: unhandled expression kind")
	}
}

func (b *Builder) printArgs(args []jstree.Expr) {
	b.sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.printExpr(a)
	}
	b.sb.WriteByte(')')
}

func (b *Builder) printQuoted(s string) {
	b.sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.sb.WriteString("\\\"")
		case '\\':
			b.sb.WriteString("\\\\")
		case '\n':
			b.sb.WriteString("\\n")
		default:
			b.sb.WriteRune(r)
		}
	}
	b.sb.WriteByte('"')
}
