package interpreter_test

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

// run lexes, parses and executes source against a fresh Interpreter
// wired with the standard library, returning captured stdout/stderr.
func run(t *testing.T, source string) (stdout, stderr string) {
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

func TestExecuteTopLevelExpressionScenario(t *testing.T) {
	stdout, stderr := run(t, "QUACK x <- 2 + 3🦆 x🦆")
	assert.Equal(t, "5\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecuteFunctionCallScenario(t *testing.T) {
	stdout, stderr := run(t, "QUACK greet <- (:name:) :> {: return 'hi ' + name🦆 :}🦆 greet(:'ada':)🦆")
	assert.Equal(t, "hi ada\n", stdout)
	assert.Empty(t, stderr)
}

func TestExecuteArityMismatchScenario(t *testing.T) {
	stdout, stderr := run(t, "QUACK f <- (:a, b:) :> {: return a + b🦆 :}🦆 f(:1:)🦆")
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "arity mismatch")
}

func TestExecuteNonBooleanConditionScenario(t *testing.T) {
	_, stderr := run(t, "if 1 then x <- 1🦆 end")
	assert.Contains(t, stderr, "condition must be a boolean")
}

func TestExecuteCrossTypeEquality(t *testing.T) {
	stdout, _ := run(t, "'a' == 3🦆 'a' != 3🦆")
	assert.Equal(t, "false\ntrue\n", stdout)
}

func TestExecuteImportNotAtTop(t *testing.T) {
	_, stderr := run(t, "QUACK x <- 1🦆 import 'lib.quack'🦆")
	assert.Contains(t, stderr, "import statements must appear before any other statement")
}

func TestExecuteDeclarationTypeMismatch(t *testing.T) {
	_, stderr := run(t, "QUACK x: text <- 5🦆")
	assert.Contains(t, stderr, "type mismatch")
}

func TestExecuteAssignToConstant(t *testing.T) {
	_, stderr := run(t, "FLOCK x <- 1🦆 x <- 2🦆")
	assert.Contains(t, stderr, "cannot assign to a constant")
}

func TestExecuteNullToNonOptional(t *testing.T) {
	_, stderr := run(t, "QUACK x <- nothing🦆")
	assert.Contains(t, stderr, "cannot store nothing in a non-optional declaration")
}

func TestExecuteOptionalAllowsNothing(t *testing.T) {
	stdout, stderr := run(t, "QUACK x: number? <- nothing🦆")
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestExecuteReturnOutsideFunction(t *testing.T) {
	_, stderr := run(t, "return 1🦆")
	assert.Contains(t, stderr, "return used outside of a function")
}

func TestExecuteNotCallable(t *testing.T) {
	_, stderr := run(t, "QUACK x <- 1🦆 x(::)🦆")
	assert.Contains(t, stderr, "value is not callable")
}

func TestExecuteUndefinedIdentifier(t *testing.T) {
	_, stderr := run(t, "x🦆")
	assert.Contains(t, stderr, "undefined identifier")
}

func TestExecuteRecursion(t *testing.T) {
	stdout, stderr := run(t, `
QUACK fact <- (:n:) :> {:
	if n == 0 then
		return 1🦆
	else
		return n * fact(:n - 1:)🦆
	end
:}🦆
fact(:5:)🦆
`)
	assert.Empty(t, stderr)
	assert.Equal(t, "120\n", stdout)
}

func TestExecuteAccessorDispatch(t *testing.T) {
	stdout, stderr := run(t, "'quack'.length(::)🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "5\n", stdout)
}

func TestExecuteUnknownAttribute(t *testing.T) {
	_, stderr := run(t, "'quack'.missing(::)🦆")
	assert.Contains(t, stderr, "unknown attribute")
}

func TestExecuteImportSharesGlobalScope(t *testing.T) {
	h := host.NewBuffer()
	h.Files["lib.quack"] = "QUACK shared <- 9🦆"

	registry := attrs.New()
	stdlib.RegisterAttrs(registry)
	in := interpreter.New(h, registry)
	stdlib.Register(in)

	tokens, err := lexer.Tokenize("import 'lib.quack'🦆 shared🦆")
	require.NoError(t, err)
	module, err := parser.Parse(tokens)
	require.NoError(t, err)

	require.NoError(t, in.Execute(module))
	assert.Equal(t, "9\n", h.Out.String())
}

func TestExecuteImportCycle(t *testing.T) {
	h := host.NewBuffer()
	h.Files["a.quack"] = "import 'b.quack'🦆"
	h.Files["b.quack"] = "import 'a.quack'🦆"

	registry := attrs.New()
	in := interpreter.New(h, registry)

	tokens, err := lexer.Tokenize("import 'a.quack'🦆")
	require.NoError(t, err)
	module, err := parser.Parse(tokens)
	require.NoError(t, err)

	require.NoError(t, in.Execute(module))
	assert.Contains(t, h.Err.String(), "import cycle detected")
}

func TestExecuteBinaryOnCallableIsInvalidOperand(t *testing.T) {
	_, stderr := run(t, "QUACK f <- (::) :> {: return 1🦆 :}🦆 f == 1🦆")
	assert.Contains(t, stderr, "invalid binary operand")
}

func TestExecuteVectorArithmeticUndefined(t *testing.T) {
	_, stderr := run(t, "vector2(:1, 2:) + vector2(:3, 4:)🦆")
	assert.Contains(t, stderr, "invalid binary expression")
}

func TestExecuteModuloFollowsMathMod(t *testing.T) {
	stdout, stderr := run(t, "5 % 3🦆")
	assert.Empty(t, stderr)
	assert.Equal(t, "2\n", stdout)
}
