package value_test

import (
	"testing"

	"github.com/quackscript/quack/internal/value"
	"github.com/stretchr/testify/assert"
)

func TestKindToTypeName(t *testing.T) {
	testcases := []struct {
		kind value.Kind
		want string
	}{
		{value.KindNumber, "number"},
		{value.KindText, "text"},
		{value.KindBool, "bool"},
		{value.KindNothing, "nothing"},
		{value.KindVector2, "vector2"},
		{value.KindVector3, "vector3"},
		{value.KindFunc, "func"},
		{value.KindInternalFunc, "internalFunc"},
	}

	for _, tc := range testcases {
		assert.Equal(t, tc.want, value.KindToTypeName(tc.kind))
	}
}

func TestKindToTypeNamePanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { value.KindToTypeName(value.Kind(99)) })
}

func TestToText(t *testing.T) {
	testcases := []struct {
		name string
		v    value.Value
		want string
	}{
		{"number integral", value.Number{Value: 5}, "5"},
		{"number fractional", value.Number{Value: 4.5}, "4.5"},
		{"text", value.Text{Value: "ada"}, "ada"},
		{"bool true", value.Bool{Value: true}, "true"},
		{"nothing", value.Nothing{}, "nothing"},
		{"vector2", value.Vector2{X: 1, Y: 2}, "(1, 2)"},
		{"vector3", value.Vector3{X: 1, Y: 2, Z: 3}, "(1, 2, 3)"},
		{"func", &value.Func{}, "<func>"},
		{"internalFunc", &value.InternalFunc{Identifier: "print"}, "<internalFunc print>"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, value.ToText(tc.v).Value)
		})
	}
}
