// Package value defines the tagged Value variants the evaluator
// produces and consumes, and the pure utilities for mapping between a
// Value's Kind and its declared type name.
package value

import (
	"fmt"
	"strconv"

	"github.com/quackscript/quack/internal/ast"
	"github.com/quackscript/quack/internal/token"
)

// Kind tags a Value's runtime variant.
type Kind int

const (
	KindNumber Kind = iota
	KindText
	KindBool
	KindNothing
	KindVector2
	KindVector3
	KindFunc
	KindInternalFunc
)

// Value is satisfied by every concrete variant below. Values are plain
// immutable records; binary operations always produce fresh values.
type Value interface {
	Kind() Kind
	Position() token.Position
}

type Number struct {
	Value float64
	Pos   token.Position
}

func (v Number) Kind() Kind             { return KindNumber }
func (v Number) Position() token.Position { return v.Pos }

type Text struct {
	Value string
	Pos   token.Position
}

func (v Text) Kind() Kind             { return KindText }
func (v Text) Position() token.Position { return v.Pos }

type Bool struct {
	Value bool
	Pos   token.Position
}

func (v Bool) Kind() Kind             { return KindBool }
func (v Bool) Position() token.Position { return v.Pos }

type Nothing struct {
	Pos token.Position
}

func (v Nothing) Kind() Kind             { return KindNothing }
func (v Nothing) Position() token.Position { return v.Pos }

type Vector2 struct {
	X, Y float64
	Pos  token.Position
}

func (v Vector2) Kind() Kind             { return KindVector2 }
func (v Vector2) Position() token.Position { return v.Pos }

type Vector3 struct {
	X, Y, Z float64
	Pos     token.Position
}

func (v Vector3) Kind() Kind             { return KindVector3 }
func (v Vector3) Position() token.Position { return v.Pos }

// Func is a user-defined, first-class function captured by name.
type Func struct {
	Parameters []ast.Param
	Body       *ast.Block
	Pos        token.Position
}

func (v *Func) Kind() Kind             { return KindFunc }
func (v *Func) Position() token.Position { return v.Pos }

// InternalFunc is a reference to a host/standard-library routine,
// resolved by Identifier at call time through a registry.
type InternalFunc struct {
	Identifier string
	Parameters []ast.Param
	Pos        token.Position
}

func (v *InternalFunc) Kind() Kind             { return KindInternalFunc }
func (v *InternalFunc) Position() token.Position { return v.Pos }

// KindToTypeName maps each Value tag to its canonical declared type
// name, as used in Declaration nodes and in error messages.
func KindToTypeName(k Kind) string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindNothing:
		return "nothing"
	case KindVector2:
		return "vector2"
	case KindVector3:
		return "vector3"
	case KindFunc:
		return "func"
	case KindInternalFunc:
		return "internalFunc"
	default:
		panic(fmt.Sprintf("value: unhandled kind %d", k))
	}
}

// ToText stringifies v the way a top-level expression result or an
// explicit text-conversion builtin would.
func ToText(v Value) Text {
	pos := v.Position()
	switch vv := v.(type) {
	case Number:
		return Text{Value: formatNumber(vv.Value), Pos: pos}
	case Text:
		return vv
	case Bool:
		return Text{Value: strconv.FormatBool(vv.Value), Pos: pos}
	case Nothing:
		return Text{Value: "nothing", Pos: pos}
	case Vector2:
		return Text{Value: fmt.Sprintf("(%s, %s)", formatNumber(vv.X), formatNumber(vv.Y)), Pos: pos}
	case Vector3:
		return Text{Value: fmt.Sprintf("(%s, %s, %s)", formatNumber(vv.X), formatNumber(vv.Y), formatNumber(vv.Z)), Pos: pos}
	case *Func:
		return Text{Value: "<func>", Pos: pos}
	case *InternalFunc:
		return Text{Value: fmt.Sprintf("<internalFunc %s>", vv.Identifier), Pos: pos}
	default:
		panic(fmt.Sprintf("value: unhandled variant %T", v))
	}
}

// formatNumber renders a float64 the way source numeric literals are
// written, round-tripping finite, representable values through
// strconv without a trailing ".0" for integral numbers.
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'g', -1, 64)
}
