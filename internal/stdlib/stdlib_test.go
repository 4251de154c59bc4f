package stdlib_test

import (
	"testing"

	"github.com/quackscript/quack/internal/attrs"
	"github.com/quackscript/quack/internal/host"
	"github.com/quackscript/quack/internal/interpreter"
	"github.com/quackscript/quack/internal/lexer"
	"github.com/quackscript/quack/internal/parser"
	"github.com/quackscript/quack/internal/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, source string) (stdout, stderr string) {
	t.Helper()

	tokens, err := lexer.Tokenize(source)
	require.NoError(t, err)
	module, err := parser.Parse(tokens)
	require.NoError(t, err)

	h := host.NewBuffer()
	registry := attrs.New()
	stdlib.RegisterAttrs(registry)
	in := interpreter.New(h, registry)
	stdlib.Register(in)

	require.NoError(t, in.Execute(module))
	return h.Out.String(), h.Err.String()
}

func TestPrint(t *testing.T) {
	stdout, stderr := eval(t, "print(:'hello':)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "hello\n", stdout)
}

func TestNumberToText(t *testing.T) {
	stdout, stderr := eval(t, "numberToText(:5:)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "5\n", stdout)
}

func TestTextToNumber(t *testing.T) {
	stdout, stderr := eval(t, "textToNumber(:'5':) + 1🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "6\n", stdout)
}

func TestTextToNumberInvalid(t *testing.T) {
	_, stderr := eval(t, "textToNumber(:'not a number':)🦆")
	assert.Contains(t, stderr, "type mismatch")
}

func TestBoolToText(t *testing.T) {
	stdout, _ := eval(t, "boolToText(:true:)🦆")
	assert.Equal(t, "true\n", stdout)
}

func TestVector2Constructor(t *testing.T) {
	stdout, stderr := eval(t, "vector2(:1, 2:)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "(1, 2)\n", stdout)
}

func TestVector3Constructor(t *testing.T) {
	stdout, stderr := eval(t, "vector3(:1, 2, 3:)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "(1, 2, 3)\n", stdout)
}

func TestTextAttributeLength(t *testing.T) {
	stdout, stderr := eval(t, "'quack'.length(::)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "5\n", stdout)
}

func TestTextAttributeUpperLower(t *testing.T) {
	stdout, stderr := eval(t, "'Ada'.upper(::)🦆 'Ada'.lower(::)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "ADA\nada\n", stdout)
}
