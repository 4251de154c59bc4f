// Package stdlib supplies the standard-library routines the language
// itself leaves unspecified: InternalFuncDeclaration bodies registered
// by identifier, each dispatched with the call's argument scope and
// the active host. Each routine is a free-standing function bound
// through Interpreter.Bind rather than methods on a single type.
package stdlib

import (
	"strconv"
	"strings"

	"github.com/quackscript/quack/internal/ast"
	"github.com/quackscript/quack/internal/attrs"
	"github.com/quackscript/quack/internal/host"
	"github.com/quackscript/quack/internal/interpreter"
	"github.com/quackscript/quack/internal/memory"
	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/value"
)

// Register binds every standard-library routine into in, making them
// callable by name as ordinary FuncCall identifiers.
func Register(in *interpreter.Interpreter) {
	in.Bind("print", []ast.Param{{Identifier: "text"}}, builtinPrint)
	in.Bind("numberToText", []ast.Param{{Identifier: "n", DeclaredType: "number"}}, builtinNumberToText)
	in.Bind("textToNumber", []ast.Param{{Identifier: "t", DeclaredType: "text"}}, builtinTextToNumber)
	in.Bind("boolToText", []ast.Param{{Identifier: "b", DeclaredType: "bool"}}, builtinBoolToText)
	in.Bind("vector2", []ast.Param{
		{Identifier: "x", DeclaredType: "number"},
		{Identifier: "y", DeclaredType: "number"},
	}, builtinVector2)
	in.Bind("vector3", []ast.Param{
		{Identifier: "x", DeclaredType: "number"},
		{Identifier: "y", DeclaredType: "number"},
		{Identifier: "z", DeclaredType: "number"},
	}, builtinVector3)
}

// RegisterAttrs populates registry with the primitive accessor
// "methods" exercised via receiver.method(:args:) syntax.
func RegisterAttrs(registry *attrs.Registry) {
	registry.Register("text", "length", attrTextLength)
	registry.Register("text", "upper", attrTextUpper)
	registry.Register("text", "lower", attrTextLower)
}

func builtinPrint(scope *memory.Memory, h host.Host) (value.Value, error) {
	cell, err := scope.Get("text")
	if err != nil {
		return nil, err
	}
	h.Stdout(value.ToText(cell.Value))
	return value.Nothing{}, nil
}

func builtinNumberToText(scope *memory.Memory, _ host.Host) (value.Value, error) {
	cell, err := scope.Get("n")
	if err != nil {
		return nil, err
	}
	return value.ToText(cell.Value), nil
}

func builtinTextToNumber(scope *memory.Memory, _ host.Host) (value.Value, error) {
	cell, err := scope.Get("t")
	if err != nil {
		return nil, err
	}
	text := cell.Value.(value.Text)
	n, convErr := strconv.ParseFloat(text.Value, 64)
	if convErr != nil {
		return nil, qerrors.ErrTypeMismatch
	}
	return value.Number{Value: n, Pos: text.Pos}, nil
}

func builtinBoolToText(scope *memory.Memory, _ host.Host) (value.Value, error) {
	cell, err := scope.Get("b")
	if err != nil {
		return nil, err
	}
	return value.ToText(cell.Value), nil
}

func builtinVector2(scope *memory.Memory, _ host.Host) (value.Value, error) {
	x, err := scope.Get("x")
	if err != nil {
		return nil, err
	}
	y, err := scope.Get("y")
	if err != nil {
		return nil, err
	}
	return value.Vector2{X: x.Value.(value.Number).Value, Y: y.Value.(value.Number).Value, Pos: x.Value.Position()}, nil
}

func builtinVector3(scope *memory.Memory, _ host.Host) (value.Value, error) {
	x, err := scope.Get("x")
	if err != nil {
		return nil, err
	}
	y, err := scope.Get("y")
	if err != nil {
		return nil, err
	}
	z, err := scope.Get("z")
	if err != nil {
		return nil, err
	}
	return value.Vector3{
		X:   x.Value.(value.Number).Value,
		Y:   y.Value.(value.Number).Value,
		Z:   z.Value.(value.Number).Value,
		Pos: x.Value.Position(),
	}, nil
}

func attrTextLength(receiver value.Value, _ []value.Value) (value.Value, error) {
	t := receiver.(value.Text)
	return value.Number{Value: float64(len([]rune(t.Value))), Pos: t.Pos}, nil
}

func attrTextUpper(receiver value.Value, _ []value.Value) (value.Value, error) {
	t := receiver.(value.Text)
	return value.Text{Value: strings.ToUpper(t.Value), Pos: t.Pos}, nil
}

func attrTextLower(receiver value.Value, _ []value.Value) (value.Value, error) {
	t := receiver.(value.Text)
	return value.Text{Value: strings.ToLower(t.Value), Pos: t.Pos}, nil
}
