package main

import (
	"encoding/json"
	"fmt"

	"github.com/SebsLittleHelpers/scala-js/internal/irtree"
)

// The fixture format is a small JSON rendering of a irtree.LinkingUnit,
// intended for demonstration and testing only -- production callers build
// LinkedClass values programmatically from their own linker rather than
// round-tripping through JSON. No other example in this codebase's
// dependency pack offers an alternative JSON library, so this one file uses
// encoding/json directly (see DESIGN.md).

type unitFixture struct {
	Classes []classFixture `json:"classes"`
}

type classFixture struct {
	EncodedName        string             `json:"encodedName"`
	OriginalName       string             `json:"originalName"`
	Kind               string             `json:"kind"`
	SuperClass         string             `json:"superClass"`
	Ancestors          []string           `json:"ancestors"`
	Fields             []fieldFixture     `json:"fields"`
	StaticMethods      []methodFixture    `json:"staticMethods"`
	MemberMethods      []methodFixture    `json:"memberMethods"`
	ExportedMembers    []exportedFixture  `json:"exportedMembers"`
	ClassExports       []classExpFixture  `json:"classExports"`
	HasInstances       bool               `json:"hasInstances"`
	HasInstanceTests   bool               `json:"hasInstanceTests"`
	HasRuntimeTypeInfo bool               `json:"hasRuntimeTypeInfo"`
	Version            string             `json:"version"`
	JSName             string             `json:"jsName"`
	DisplayName        string             `json:"displayName"`
}

type fieldFixture struct {
	Name         string `json:"name"`
	IsMutable    bool   `json:"isMutable"`
	OriginalName string `json:"originalName"`
}

type paramFixture struct {
	Name string `json:"name"`
	Rest bool   `json:"rest"`
}

type methodFixture struct {
	Name       string         `json:"name"`
	Params     []paramFixture `json:"params"`
	Body       json.RawMessage `json:"body"`
	IsStatic   bool           `json:"isStatic"`
	IsAbstract bool           `json:"isAbstract"`
}

type exportedFixture struct {
	Kind       string          `json:"kind"` // "method" | "property"
	Name       string          `json:"name"`
	Params     []paramFixture  `json:"params"`
	Body       json.RawMessage `json:"body"`
	SetterBody json.RawMessage `json:"setterBody"`
	IsStatic   bool            `json:"isStatic"`
}

type classExpFixture struct {
	Kind string   `json:"kind"` // "topLevel" | "module"
	Path []string `json:"path"`
}

var classKinds = map[string]irtree.Kind{
	"class":         irtree.Class,
	"moduleClass":   irtree.ModuleClass,
	"jsClass":       irtree.JSClass,
	"jsModuleClass": irtree.JSModuleClass,
	"interface":     irtree.Interface,
	"rawJSType":     irtree.RawJSType,
	"hijackedClass": irtree.HijackedClass,
}

// loadFixture decodes a JSON linking-unit fixture into an *irtree.LinkingUnit.
func loadFixture(data []byte) (*irtree.LinkingUnit, error) {
	var uf unitFixture
	if err := json.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("decoding fixture: %w", err)
	}

	unit := &irtree.LinkingUnit{}
	for _, cf := range uf.Classes {
		kind, ok := classKinds[cf.Kind]
		if !ok {
			return nil, fmt.Errorf("class %s: unknown kind %q", cf.EncodedName, cf.Kind)
		}

		class := &irtree.LinkedClass{
			EncodedName:        cf.EncodedName,
			OriginalName:       cf.OriginalName,
			Kind:                kind,
			SuperClass:          cf.SuperClass,
			Ancestors:           cf.Ancestors,
			HasInstances:        cf.HasInstances,
			HasInstanceTests:    cf.HasInstanceTests,
			HasRuntimeTypeInfo:  cf.HasRuntimeTypeInfo,
			Version:             cf.Version,
			JSName:              cf.JSName,
			DisplayName:         cf.DisplayName,
		}

		for _, ff := range cf.Fields {
			class.Fields = append(class.Fields, irtree.Field{Name: ff.Name, IsMutable: ff.IsMutable, OriginalName: ff.OriginalName})
		}
		for _, mf := range cf.StaticMethods {
			m, err := decodeMethod(mf, true)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", cf.EncodedName, err)
			}
			class.StaticMethods = append(class.StaticMethods, m)
		}
		for _, mf := range cf.MemberMethods {
			m, err := decodeMethod(mf, false)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", cf.EncodedName, err)
			}
			class.MemberMethods = append(class.MemberMethods, m)
		}
		for _, ef := range cf.ExportedMembers {
			em, err := decodeExportedMember(ef)
			if err != nil {
				return nil, fmt.Errorf("class %s: %w", cf.EncodedName, err)
			}
			class.ExportedMembers = append(class.ExportedMembers, em)
		}
		for _, cef := range cf.ClassExports {
			var k irtree.ClassExportKind
			switch cef.Kind {
			case "topLevel":
				k = irtree.ExportTopLevelClass
			case "module":
				k = irtree.ExportModule
			default:
				return nil, fmt.Errorf("class %s: unknown class-export kind %q", cf.EncodedName, cef.Kind)
			}
			class.ClassExports = append(class.ClassExports, irtree.ClassExport{Kind: k, Path: cef.Path})
		}

		unit.Classes = append(unit.Classes, class)
	}
	return unit, nil
}

func decodeMethod(mf methodFixture, isStatic bool) (irtree.MethodDef, error) {
	var params []irtree.Param
	for _, p := range mf.Params {
		params = append(params, irtree.Param{Name: p.Name, Rest: p.Rest})
	}
	body, err := decodeNode(mf.Body)
	if err != nil {
		return irtree.MethodDef{}, fmt.Errorf("method %s: %w", mf.Name, err)
	}
	return irtree.MethodDef{
		Name:       mf.Name,
		Params:     params,
		Body:       body,
		IsStatic:   isStatic || mf.IsStatic,
		IsAbstract: mf.IsAbstract,
	}, nil
}

func decodeExportedMember(ef exportedFixture) (irtree.ExportedMember, error) {
	var kind irtree.ExportedMemberKind
	switch ef.Kind {
	case "method":
		kind = irtree.ExportedMethod
	case "property":
		kind = irtree.ExportedProperty
	default:
		return irtree.ExportedMember{}, fmt.Errorf("exported member %s: unknown kind %q", ef.Name, ef.Kind)
	}
	var params []irtree.Param
	for _, p := range ef.Params {
		params = append(params, irtree.Param{Name: p.Name, Rest: p.Rest})
	}
	body, err := decodeNode(ef.Body)
	if err != nil {
		return irtree.ExportedMember{}, fmt.Errorf("exported member %s: %w", ef.Name, err)
	}
	setter, err := decodeNode(ef.SetterBody)
	if err != nil {
		return irtree.ExportedMember{}, fmt.Errorf("exported member %s setter: %w", ef.Name, err)
	}
	return irtree.ExportedMember{
		Kind:       kind,
		Name:       ef.Name,
		Params:     params,
		Body:       body,
		SetterBody: setter,
		IsStatic:   ef.IsStatic,
	}, nil
}

// nodeFixture is the tagged-union JSON shape for an IR node; only the fields
// relevant to Kind are populated.
type nodeFixture struct {
	Kind              string          `json:"kind"`
	Value             json.RawMessage `json:"value"`
	Name              string          `json:"name"`
	Target            json.RawMessage `json:"target"`
	Field             string          `json:"field"`
	ClassName         string          `json:"className"`
	MethodName        string          `json:"methodName"`
	Args              []json.RawMessage `json:"args"`
	IsConstructorCall bool            `json:"isConstructorCall"`
	Op                string          `json:"op"`
	Left              json.RawMessage `json:"left"`
	Right             json.RawMessage `json:"right"`
	Cond              json.RawMessage `json:"cond"`
	Then              json.RawMessage `json:"then"`
	Else              json.RawMessage `json:"else"`
	Stmts             []json.RawMessage `json:"stmts"`
}

// decodeNode decodes one tagged IR node. An empty/absent raw message decodes
// to nil, matching Node fields where "no value" is meaningful (Return.Value,
// If.Else, ExportedMember.SetterBody).
func decodeNode(raw json.RawMessage) (irtree.Node, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var nf nodeFixture
	if err := json.Unmarshal(raw, &nf); err != nil {
		return nil, err
	}

	switch nf.Kind {
	case "block":
		var stmts []irtree.Node
		for _, s := range nf.Stmts {
			n, err := decodeNode(s)
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, n)
		}
		return irtree.Block{Stmts: stmts}, nil

	case "lit":
		var v interface{}
		if len(nf.Value) > 0 {
			if err := json.Unmarshal(nf.Value, &v); err != nil {
				return nil, err
			}
		}
		return irtree.Lit{Value: v}, nil

	case "this":
		return irtree.This{}, nil

	case "varRef":
		return irtree.VarRef{Name: nf.Name}, nil

	case "fieldGet":
		target, err := decodeNode(nf.Target)
		if err != nil {
			return nil, err
		}
		return irtree.FieldGet{Target: target, Field: nf.Field}, nil

	case "fieldSet":
		target, err := decodeNode(nf.Target)
		if err != nil {
			return nil, err
		}
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.FieldSet{Target: target, Field: nf.Field, Value: value}, nil

	case "varDef":
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.VarDef{Name: nf.Name, Value: value}, nil

	case "apply":
		target, err := decodeNode(nf.Target)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodes(nf.Args)
		if err != nil {
			return nil, err
		}
		return irtree.Apply{Target: target, ClassName: nf.ClassName, MethodName: nf.MethodName, Args: args}, nil

	case "applyStatic":
		target, err := decodeNode(nf.Target)
		if err != nil {
			return nil, err
		}
		args, err := decodeNodes(nf.Args)
		if err != nil {
			return nil, err
		}
		return irtree.ApplyStatic{Target: target, ClassName: nf.ClassName, MethodName: nf.MethodName, Args: args, IsConstructorCall: nf.IsConstructorCall}, nil

	case "applyStatically":
		args, err := decodeNodes(nf.Args)
		if err != nil {
			return nil, err
		}
		return irtree.ApplyStatically{ClassName: nf.ClassName, MethodName: nf.MethodName, Args: args}, nil

	case "new":
		args, err := decodeNodes(nf.Args)
		if err != nil {
			return nil, err
		}
		return irtree.New{ClassName: nf.ClassName, Args: args}, nil

	case "loadModule":
		return irtree.LoadModule{ClassName: nf.ClassName}, nil

	case "isInstanceOf":
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.IsInstanceOf{Value: value, ClassName: nf.ClassName}, nil

	case "asInstanceOf":
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.AsInstanceOf{Value: value, ClassName: nf.ClassName}, nil

	case "binOp":
		left, err := decodeNode(nf.Left)
		if err != nil {
			return nil, err
		}
		right, err := decodeNode(nf.Right)
		if err != nil {
			return nil, err
		}
		return irtree.BinOp{Op: nf.Op, Left: left, Right: right}, nil

	case "unOp":
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.UnOp{Op: nf.Op, Value: value}, nil

	case "if":
		cond, err := decodeNode(nf.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNode(nf.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeNode(nf.Else)
		if err != nil {
			return nil, err
		}
		return irtree.If{Cond: cond, Then: then, Else: els}, nil

	case "return":
		value, err := decodeNode(nf.Value)
		if err != nil {
			return nil, err
		}
		return irtree.Return{Value: value}, nil

	default:
		return nil, fmt.Errorf("unknown IR node kind %q", nf.Kind)
	}
}

func decodeNodes(raws []json.RawMessage) ([]irtree.Node, error) {
	var out []irtree.Node
	for _, r := range raws {
		n, err := decodeNode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
