package emitter

import (
	"strings"

	"github.com/SebsLittleHelpers/scala-js/internal/classgen"
	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
	"github.com/SebsLittleHelpers/scala-js/internal/jstree"
	"github.com/SebsLittleHelpers/scala-js/internal/logger"
)

// Strong-mode marker lines, matched by literal equality against each line
// of the core-lib text, per SPEC_FULL.md §4.6.
const (
	markerDeclareTypeData = "///INSERT DECLARE TYPE DATA HERE///"
	markerDeclareModules  = "///INSERT DECLARE MODULES HERE///"
	markerIsAndAs         = "///INSERT IS AND AS FUNCTIONS HERE///"
	markerClasses         = "///INSERT CLASSES HERE///"
	markerCreateTypeData  = "///INSERT CREATE TYPE DATA HERE///"
	markerExports         = "///INSERT EXPORTS HERE///"
	markerEnd             = "///THE END///"
)

const strongModeHeader = `(function(__this, __ScalaJSEnv, __global, $jsSelect, $jsAssign, $jsDelete, $propertiesOf, $weakFun) {
'use strict';
'use strong';`

const strongModeFooter = `})(this, (typeof __ScalaJSEnv !== 'undefined') ? __ScalaJSEnv : void 0, (typeof global !== 'undefined') ? global : void 0, function(x,p){'use strict'; return x[p];}, function(x,p,v){'use strict'; x[p]=v;}, function(x,p){'use strict'; delete x[p];}, function(x){'use strict'; const r=[]; for (const p in x) r['push'](p); return r;}, function(f){'use strict'; return function(...args){ return f['apply'](void 0, args); }});`

// spliceStrongMode walks e.corelib line by line, forwarding ordinary lines
// verbatim and, at each marker, emitting the sorted class list's pieces
// appropriate to that phase (SPEC_FULL.md §4.6/§5's strong-mode ordering
// guarantee: type-data declarations, module declarations, is/as functions,
// classes, initClass calls, exports).
func (e *Engine) spliceStrongMode(unit *irtree.LinkingUnit, tb TreeBuilder, log logger.Log) {
	classes := sortedClasses(unit)
	pieces := make(map[string]classgen.Pieces, len(classes))
	for _, c := range classes {
		opts := classgen.Options{
			Q:          e,
			Mode:       e.mode,
			ModuleInit: e.moduleInit,
			CC:         e.cache.ClassCacheFor(irtree.AncestorsKey(c.Ancestors)),
			Stats:      &e.stats,
			Log:        log,
		}
		pieces[c.EncodedName] = classgen.GeneratePieces(opts, c)
	}

	for _, line := range strings.Split(e.corelib, "\n") {
		switch line {
		case markerDeclareTypeData:
			for _, c := range classes {
				if c.HasRuntimeTypeInfo {
					tb.AppendLine("var d_" + c.EncodedName + ";")
				}
			}
		case markerDeclareModules:
			for _, c := range classes {
				if c.Kind.HasModuleAccessor() {
					tb.AppendLine("var n_" + c.EncodedName + ";")
				}
			}
		case markerIsAndAs:
			for _, c := range classes {
				appendAll(tb, pieces[c.EncodedName].InstanceTests)
				appendAll(tb, pieces[c.EncodedName].ArrayInstanceTests)
			}
		case markerClasses:
			for _, c := range classes {
				if cls, ok := assembleClass(c, pieces[c.EncodedName]); ok {
					tb.AppendTree(jstree.ClassDecl{Class: cls})
				}
			}
		case markerCreateTypeData:
			for _, c := range classes {
				appendAll(tb, pieces[c.EncodedName].TypeData)
				appendAll(tb, pieces[c.EncodedName].SetTypeData)
				appendAll(tb, pieces[c.EncodedName].ModuleAccessor)
			}
		case markerExports:
			for _, c := range classes {
				appendAll(tb, pieces[c.EncodedName].ExportedMembers)
				appendAll(tb, pieces[c.EncodedName].ClassExports)
			}
		case markerEnd:
			// nothing further to splice; the corelib text's own trailer follows.
		default:
			tb.AppendLine(line)
		}
	}
}

func appendAll(tb TreeBuilder, stmts []jstree.Stmt) {
	for _, s := range stmts {
		tb.AppendTree(s)
	}
}

// assembleClass gathers a class's MethodPiece-wrapped static/constructor/
// member pieces into one jstree.Class node, the shape strong mode's
// "classes" phase requires. Default (interface) methods are never wrapped
// as MethodPiece (they are always free functions, see classgen.go), so an
// Interface with no constructor and no wrapped methods yields ok == false
// and nothing is emitted at this phase for it.
func assembleClass(c *irtree.LinkedClass, p classgen.Pieces) (jstree.Class, bool) {
	var methods []jstree.MethodDef
	for _, group := range [][]jstree.Stmt{p.StaticMethods, p.Constructor, p.MemberMethods} {
		for _, s := range group {
			if mp, ok := s.(jstree.MethodPiece); ok {
				methods = append(methods, mp.Def)
			}
		}
	}
	if len(methods) == 0 {
		return jstree.Class{}, false
	}

	var super jstree.Expr
	if c.SuperClass != "" {
		super = jstree.Ident{Name: "c_" + c.SuperClass}
	}
	return jstree.Class{Name: "c_" + c.EncodedName, SuperClass: super, Methods: methods}, true
}
