// Package emitter is the driver (SPEC_FULL.md §4.6/§4.10 refer to it as C8):
// it owns the incremental cache and ctor-opt tracker for its lifetime,
// implements emitqueries.Queries so desugar.go and classgen.go can query it
// without a direct back-reference, and exposes the public Driver API named
// in SPEC_FULL.md §6 (EmitAll/Emit/EmitPrelude/EmitPostlude/
// EmitCustomHeader/EmitCustomFooter).
package emitter

import (
	"sort"

	"github.com/SebsLittleHelpers/scala-js/internal/classgen"
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

// TreeBuilder is the sink `emit` appends generated trees and literal lines
// to (SPEC_FULL.md §6: "treeBuilder accepts JS trees and line strings").
type TreeBuilder interface {
	AppendTree(jstree.Stmt)
	AppendLine(string)
}

// FileBuilder is the sink emitAll/emitPrelude/emitPostlude/
// emitCustomHeader/emitCustomFooter use for whole-file assembly. It shares
// TreeBuilder's method set by design (see DESIGN.md's note on why strong
// mode's "file builder required" check is expressed as a corelib-text
// presence check rather than a type assertion: Go's structural typing means
// any TreeBuilder already satisfies an identically-shaped FileBuilder).
type FileBuilder interface {
	AppendTree(jstree.Stmt)
	AppendLine(string)
}

// Engine is the single-owner mutable-global-caches-as-a-value described in
// SPEC_FULL.md §9's design notes: two emitter instances never share state,
// and BeginRun/EndRun bracket exactly one emission.
type Engine struct {
	mode       outputmode.Mode
	moduleInit semantics.ModuleInitBehavior
	corelib    string

	cache   *emitcache.Cache
	tracker *ctoropt.Tracker

	byName    map[string]*irtree.LinkedClass
	tagResult *tagengine.Result
	stats     emitcache.Stats
}

// New constructs an Engine for one output dialect. corelibText is required
// (non-empty) when mode is strong, where it is spliced piecewise between
// generated classes; for the other three dialects it is optional and, when
// given, is appended verbatim as part of the prelude.
func New(mode outputmode.Mode, moduleInit semantics.ModuleInitBehavior, corelibText string) *Engine {
	e := &Engine{
		mode:       mode,
		moduleInit: moduleInit,
		corelib:    corelibText,
		cache:      emitcache.New(),
	}
	e.tracker = ctoropt.New(candidateForJSConstructorOpt)
	return e
}

// candidateForJSConstructorOpt is the policy this repository uses to decide
// ctor-opt eligibility: an emitted class with instances and exactly one
// constructor method, so fusing that method's body into the constructor
// function cannot silently drop or duplicate initialization logic.
func candidateForJSConstructorOpt(c *irtree.LinkedClass) bool {
	if !c.Kind.IsAnyScalaJSDefinedClass() || !c.HasInstances {
		return false
	}
	n := 0
	for i := range c.MemberMethods {
		if c.MemberMethods[i].IsConstructor() {
			n++
		}
	}
	return n == 1
}

// ---- emitqueries.Queries ----

func (e *Engine) Mode() outputmode.Mode                    { return e.mode }
func (e *Engine) ModuleInit() semantics.ModuleInitBehavior { return e.moduleInit }

func (e *Engine) IsInterface(className string) bool {
	c, ok := e.byName[className]
	return ok && c.Kind == irtree.Interface
}

func (e *Engine) LinkedClassByName(className string) (*irtree.LinkedClass, bool) {
	c, ok := e.byName[className]
	return c, ok
}

func (e *Engine) Tag(className string) (int32, bool) {
	if e.tagResult == nil {
		return 0, false
	}
	return e.tagResult.Tag(className)
}

func (e *Engine) SubtypeIntervals(className string) []tagengine.Interval {
	if e.tagResult == nil {
		return nil
	}
	return e.tagResult.SubtypeIntervals[className]
}

func (e *Engine) NeedsSubtypeArray(className string) bool {
	return tagengine.NeedsSubtypeArray(e.SubtypeIntervals(className))
}

func (e *Engine) UsesJSConstructorOpt(targetClass string, caller ctoropt.Caller) bool {
	return e.tracker.UsesJSConstructorOpt(targetClass, caller)
}

func (e *Engine) IsCtorOptEligible(className string) bool {
	return e.tracker.CurrentSet()[className]
}

// ---- run lifecycle ----

// BeginRun validates unit, recomputes subtype tags, and runs C7's
// beginRun step, invalidating any cached method whose ctor-opt assumption
// flipped since the last run. Re-entering BeginRun before a matching EndRun
// is undefined, per SPEC_FULL.md §5.
func (e *Engine) BeginRun(unit *irtree.LinkingUnit, log logger.Log) error {
	if err := validate(unit); err != nil {
		log.AddMsg(logger.Msg{Kind: logger.Error, Text: err.Error()})
		return err
	}

	e.stats = emitcache.Stats{}
	e.byName = unit.ByName()
	e.tagResult = tagengine.Compute(unit)
	e.cache.StartRun()
	e.tracker.BeginRun(unit, e.invalidateCaller)
	return nil
}

// EndRun promotes the ctor-opt tracker's snapshot and sweeps unused cache
// entries. Not called on the failure path of Emit/EmitAll, per SPEC_FULL.md
// §7's propagation policy: caches are left as-is so a subsequent run's
// version comparisons naturally recover.
func (e *Engine) EndRun() {
	e.tracker.EndRun()
	e.cache.CleanAfterRun()
}

// Stats reports this engine's accumulated run statistics.
func (e *Engine) Stats() emitcache.Stats { return e.stats }

func (e *Engine) invalidateCaller(caller ctoropt.Caller) {
	class, ok := e.byName[caller.ClassName]
	if !ok {
		return
	}
	cc := e.cache.ClassCacheFor(irtree.AncestorsKey(class.Ancestors))
	switch caller.MethodName {
	case ctoropt.SentinelConstructorExportDef, ctoropt.SentinelExportedMember:
		cc.InvalidateExportedMembers()
	default:
		cc.Method(caller.MethodName, caller.IsStatic).Invalidate()
	}
}

// sortedClasses orders unit's classes by (ancestor-count, encodedName)
// ascending, per SPEC_FULL.md §4.3's edge case and §5's ordering guarantee.
func sortedClasses(unit *irtree.LinkingUnit) []*irtree.LinkedClass {
	out := append([]*irtree.LinkedClass(nil), unit.Classes...)
	sort.SliceStable(out, func(i, j int) bool {
		li, lj := len(out[i].Ancestors), len(out[j].Ancestors)
		if li != lj {
			return li < lj
		}
		return out[i].EncodedName < out[j].EncodedName
	})
	return out
}

// Emit is the core entry point: BeginRun, generate every class's pieces in
// order, append them to treeBuilder, EndRun. A panicking desugar.
// InvalidInputError (or an internal DialectMismatch/IllegalExportedMember
// condition) is recovered here, logged as an Error, and returned as a Go
// error; the run is left without a matching EndRun in that case.
func (e *Engine) Emit(unit *irtree.LinkingUnit, tb TreeBuilder, log logger.Log) (err error) {
	if err := e.BeginRun(unit, log); err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			if ie, ok := r.(desugar.InvalidInputError); ok {
				log.AddMsg(logger.Msg{Kind: logger.Error, Text: ie.Error()})
				err = ie
				return
			}
			panic(r)
		}
		e.EndRun()
	}()

	if e.mode.IsStrong() {
		if e.corelib == "" {
			panic(desugar.InvalidInputError{Message: "DialectMismatch: strong-mode emission requires a file builder with core-lib text, none configured"})
		}
		e.spliceStrongMode(unit, tb, log)
		return nil
	}

	for _, class := range sortedClasses(unit) {
		opts := classgen.Options{Q: e, Mode: e.mode, ModuleInit: e.moduleInit, CC: e.cache.ClassCacheFor(irtree.AncestorsKey(class.Ancestors)), Stats: &e.stats, Log: log}
		pieces := classgen.GeneratePieces(opts, class)
		assembled := false
		for _, stmt := range pieces.Flatten() {
			if _, ok := stmt.(jstree.MethodPiece); ok {
				if !assembled {
					if cls, ok := assembleClass(class, pieces); ok {
						tb.AppendTree(jstree.ClassDecl{Class: cls})
					}
					assembled = true
				}
				continue
			}
			tb.AppendTree(stmt)
		}
	}
	return nil
}

// EmitCustomHeader/EmitCustomFooter append text verbatim, one AppendLine
// call per line, per SPEC_FULL.md §6's "line-split literal append".
func EmitCustomHeader(text string, fb FileBuilder) { appendLines(text, fb) }
func EmitCustomFooter(text string, fb FileBuilder) { appendLines(text, fb) }

func appendLines(text string, fb FileBuilder) {
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			fb.AppendLine(text[start:i])
			start = i + 1
		}
	}
	if start < len(text) {
		fb.AppendLine(text[start:])
	}
}

// EmitPrelude appends the mode-dependent prelude text from SPEC_FULL.md
// §6's table. Every mode appends the wrapper lines named in that table;
// ES5-Global, ES5-Isolated, and ES6 additionally append the pre-rendered
// core-lib text verbatim, since those dialects never splice it in
// piecewise the way strong mode does. Strong mode instead emits the
// literal function-expression header; its core-lib body is spliced in by
// spliceStrongMode during Emit, not here.
func (e *Engine) EmitPrelude(fb FileBuilder, log logger.Log) {
	switch {
	case e.mode.IsStrong():
		appendLines(strongModeHeader, fb)
	case e.mode == outputmode.ES5Global:
		fb.AppendLine("'use strict';")
		appendLines(e.corelib, fb)
	case e.mode.IsIIFEWrapped():
		fb.AppendLine("(function(){")
		fb.AppendLine("'use strict';")
		appendLines(e.corelib, fb)
	}
}

// EmitPostlude appends the mode-dependent postlude text from SPEC_FULL.md
// §6's table.
func (e *Engine) EmitPostlude(fb FileBuilder, log logger.Log) {
	switch {
	case e.mode.IsStrong():
		fb.AppendLine(strongModeFooter)
	case e.mode.IsIIFEWrapped():
		fb.AppendLine("}).call(this);")
	}
}

// EmitAll is the convenience wrapper: prelude + emit + postlude.
func (e *Engine) EmitAll(unit *irtree.LinkingUnit, fb FileBuilder, log logger.Log) error {
	e.EmitPrelude(fb, log)
	if err := e.Emit(unit, fb, log); err != nil {
		return err
	}
	e.EmitPostlude(fb, log)
	return nil
}

// validate checks the two InvalidInput preconditions SPEC_FULL.md §7 names
// explicitly: a JSClass must carry an exported "constructor" member, and
// every class other than the root must declare a super.
func validate(unit *irtree.LinkingUnit) error {
	for _, c := range unit.Classes {
		if c.Kind == irtree.JSClass || c.Kind == irtree.JSModuleClass {
			found := false
			for _, m := range c.ExportedMembers {
				if m.Kind == irtree.ExportedMethod && m.Name == "constructor" {
					found = true
					break
				}
			}
			if !found {
				return desugar.InvalidInputError{Message: "InvalidInput: JS class " + c.EncodedName + " has no exported constructor member"}
			}
		}
		if c.EncodedName != "O" && c.SuperClass == "" {
			return desugar.InvalidInputError{Message: "InvalidInput: class " + c.EncodedName + " has no super class"}
		}
	}
	return nil
}
