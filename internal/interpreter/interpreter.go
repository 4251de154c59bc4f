// Package interpreter implements the evaluator: the AST walker that
// gives QuackScript programs their operational semantics and the
// import driver that re-enters lexing and parsing for imported sources.
//
// The Interpreter is a struct holding its collaborators (memory, host,
// attribute registry) with one method per AST node family, built
// around this language's value model, typed declarations and
// return-signal control flow.
package interpreter

import (
	"errors"
	"fmt"
	"math"

	"github.com/quackscript/quack/internal/ast"
	"github.com/quackscript/quack/internal/attrs"
	"github.com/quackscript/quack/internal/host"
	"github.com/quackscript/quack/internal/lexer"
	"github.com/quackscript/quack/internal/memory"
	"github.com/quackscript/quack/internal/parser"
	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/signal"
	"github.com/quackscript/quack/internal/state"
	"github.com/quackscript/quack/internal/token"
	"github.com/quackscript/quack/internal/value"
	"golang.org/x/exp/slices"
)

// InternalFunc is a host/standard-library routine bound into global
// memory as an InternalFuncDeclaration cell. It receives the call's
// freshly-pushed scope (arguments already bound) and the active host.
type InternalFunc func(callScope *memory.Memory, h host.Host) (value.Value, error)

// Interpreter is the Evaluator: it owns Memory, State, a Host and the
// static primitive attribute Registry, and knows how to resolve
// InternalFuncDeclaration identifiers to Go implementations.
type Interpreter struct {
	memory    *memory.Memory
	state     *state.State
	host      host.Host
	attrs     *attrs.Registry
	internals map[string]InternalFunc
	bound     []*memory.Cell // Bind's cells, re-declared by Execute
	importing []string       // path stack, for ImportCycle detection
}

// New constructs an Interpreter. h and registry must not be nil;
// callers needing defaults should pass host.NewBuffer() and
// attrs.New().
func New(h host.Host, registry *attrs.Registry) *Interpreter {
	return &Interpreter{
		memory:    memory.New(),
		state:     state.New(),
		host:      h,
		attrs:     registry,
		internals: map[string]InternalFunc{},
	}
}

// Bind registers an internal function implementation under identifier
// and declares it in the global scope as an InternalFuncDeclaration
// cell.
func (in *Interpreter) Bind(identifier string, params []ast.Param, fn InternalFunc) {
	in.internals[identifier] = fn
	cell := &memory.Cell{
		Identifier: identifier,
		Decl:       memory.Constant,
		Type:       "internalFunc",
		Value:      &value.InternalFunc{Identifier: identifier, Parameters: params},
	}
	if err := in.memory.Set(identifier, cell); err != nil {
		panic(fmt.Sprintf("interpreter: Bind(%q): %v", identifier, err))
	}
	in.bound = append(in.bound, cell)
}

// Execute runs module from a fresh global scope holding only the
// internal functions declared through Bind: runtime errors are
// caught and routed to the host's stderr; any other error (a
// programmer/internal invariant violation) is re-raised unchanged.
func (in *Interpreter) Execute(module *ast.Module) error {
	in.memory.ClearMemory()
	for _, cell := range in.bound {
		// Identifiers are unique (Bind panics otherwise), so Set cannot fail.
		_ = in.memory.Set(cell.Identifier, cell)
	}
	err := in.ExecuteModule(module)
	if err == nil {
		return nil
	}

	var rerr *qerrors.RuntimeError
	if errors.As(err, &rerr) {
		in.host.Stderr(value.Text{Value: rerr.Error()})
		return nil
	}
	return err
}

// ExecuteModule drains the leading run of import statements, then
// executes the rest. It never mutates module; leading imports are
// drained via a cursor, not by removing elements.
func (in *Interpreter) ExecuteModule(module *ast.Module) error {
	cursor := 0
	for cursor < len(module.Statements) {
		stmt := module.Statements[cursor]
		imp, ok := stmt.Body.(*ast.ImportStatement)
		if !ok {
			break
		}
		if err := in.executeImport(imp, stmt.Pos); err != nil {
			return err
		}
		cursor++
	}

	for ; cursor < len(module.Statements); cursor++ {
		stmt := module.Statements[cursor]
		if _, ok := stmt.Body.(*ast.ImportStatement); ok {
			return qerrors.New(stmt.Pos, qerrors.ErrImportNotAtTop)
		}
		v, err := in.ExecuteStatement(stmt)
		if err != nil {
			return err
		}
		if v != nil && v.Kind() != value.KindNothing {
			in.host.Stdout(value.ToText(v))
		}
	}
	return nil
}

// executeImport implements the import driver, including a path-set
// guard that detects import cycles.
func (in *Interpreter) executeImport(imp *ast.ImportStatement, pos token.Position) error {
	if slices.Contains(in.importing, imp.Path) {
		return qerrors.New(pos, fmt.Errorf("%w: %q", qerrors.ErrImportCycle, imp.Path))
	}

	src, err := in.host.LoadFile(imp.Path)
	if err != nil {
		return qerrors.New(pos, err)
	}

	toks, err := lexer.Tokenize(src)
	if err != nil {
		return err
	}
	mod, err := parser.Parse(toks)
	if err != nil {
		return err
	}

	in.importing = append(in.importing, imp.Path)
	err = in.ExecuteModule(mod)
	in.importing = in.importing[:len(in.importing)-1]
	return err
}

// ExecuteStatement dispatches a single statement to its handler. It
// returns the resulting Value of an ExpressionStatement, and nil for
// every other kind; a ReturnStatement yields a nil Value and a
// *signal.Return error carrying the returned value.
func (in *Interpreter) ExecuteStatement(stmt ast.Statement) (value.Value, error) {
	switch body := stmt.Body.(type) {
	case *ast.Declaration:
		return nil, in.executeDeclaration(body, stmt.Pos)
	case *ast.Assignment:
		return nil, in.executeAssignment(body, stmt.Pos)
	case *ast.ExpressionStatement:
		return in.EvaluateExpression(body.Expression)
	case *ast.ReturnStatement:
		v, err := in.evaluateReturnExpression(body, stmt.Pos)
		if err != nil {
			return nil, err
		}
		return nil, signal.NewReturn(v)
	case *ast.IfStatement:
		return nil, in.executeIf(body, stmt.Pos)
	case *ast.ImportStatement:
		return nil, qerrors.New(stmt.Pos, qerrors.ErrImportNotAtTop)
	default:
		panic(fmt.Sprintf("interpreter: unhandled statement body %T", body))
	}
}

func (in *Interpreter) evaluateReturnExpression(ret *ast.ReturnStatement, pos token.Position) (value.Value, error) {
	if !in.state.InFunction() {
		return nil, qerrors.New(pos, qerrors.ErrReturnOutsideFunction)
	}
	if ret.Expression.Body == nil {
		return value.Nothing{Pos: pos}, nil
	}
	return in.EvaluateExpression(ret.Expression)
}

// executeDeclaration evaluates and type-checks a QUACK/FLOCK declaration.
func (in *Interpreter) executeDeclaration(decl *ast.Declaration, pos token.Position) error {
	v, err := in.EvaluateExpression(decl.Expression)
	if err != nil {
		return err
	}

	internalType := decl.DeclaredType
	if internalType == "" {
		internalType = value.KindToTypeName(v.Kind())
	}

	if v.Kind() == value.KindNothing {
		if !decl.IsOptional {
			return qerrors.New(pos, fmt.Errorf("%w: %q", qerrors.ErrNullToNonOptional, decl.Identifier))
		}
	} else if got := value.KindToTypeName(v.Kind()); got != internalType {
		return qerrors.New(pos, fmt.Errorf("%w: %q expects %s, got %s", qerrors.ErrTypeMismatch, decl.Identifier, internalType, got))
	}

	declKind := memory.Variable
	if decl.Constant {
		declKind = memory.Constant
	}

	cellType := internalType
	optional := memory.Optional{}
	if decl.IsOptional {
		cellType = "optional"
		optional = memory.Optional{IsOptional: true, InternalType: internalType}
	}

	cell := &memory.Cell{
		Identifier: decl.Identifier,
		Decl:       declKind,
		Type:       cellType,
		Value:      v,
		Optional:   optional,
	}
	if err := in.memory.Set(decl.Identifier, cell); err != nil {
		return qerrors.New(pos, err)
	}
	return nil
}

// executeAssignment evaluates the right-hand side and updates the cell.
func (in *Interpreter) executeAssignment(assign *ast.Assignment, pos token.Position) error {
	v, err := in.EvaluateExpression(assign.Expression)
	if err != nil {
		return err
	}
	if err := in.memory.Update(assign.Identifier, v); err != nil {
		return qerrors.New(pos, err)
	}
	return nil
}

// executeIf requires a strictly boolean condition, then runs the
// matching branch block.
func (in *Interpreter) executeIf(stmt *ast.IfStatement, pos token.Position) error {
	cond, err := in.EvaluateExpression(stmt.Condition)
	if err != nil {
		return err
	}

	b, ok := cond.(value.Bool)
	if !ok {
		return qerrors.New(pos, qerrors.ErrNonBooleanCondition)
	}

	if b.Value {
		_, err := in.executeBlock(stmt.TrueBlock)
		return err
	}
	if stmt.FalseBlock != nil {
		_, err := in.executeBlock(stmt.FalseBlock)
		return err
	}
	return nil
}

// executeBlock runs a block's statements in order; a
// ReturnStatement escapes via the *signal.Return error rather than
// returning normally, so callers must check signal.AsReturn before
// treating a non-nil error as a runtime fault.
func (in *Interpreter) executeBlock(block *ast.Block) (value.Value, error) {
	for _, stmt := range block.Statements {
		_, err := in.ExecuteStatement(stmt)
		if err != nil {
			if ret, ok := signal.AsReturn(err); ok {
				return ret.Value, err
			}
			return nil, err
		}
	}
	return value.Nothing{}, nil
}

// EvaluateExpression dispatches a single expression to its handler.
func (in *Interpreter) EvaluateExpression(expr ast.Expression) (value.Value, error) {
	switch body := expr.Body.(type) {
	case *ast.NumberLiteral:
		return value.Number{Value: body.Value, Pos: expr.Pos}, nil
	case *ast.TextLiteral:
		return value.Text{Value: body.Value, Pos: expr.Pos}, nil
	case *ast.BooleanLiteral:
		return value.Bool{Value: body.Value, Pos: expr.Pos}, nil
	case *ast.NothingLiteral:
		return value.Nothing{Pos: expr.Pos}, nil
	case *ast.FuncLiteral:
		return &value.Func{Parameters: body.Parameters, Body: body.Body, Pos: expr.Pos}, nil
	case *ast.Identifier:
		cell, err := in.memory.Get(body.Name)
		if err != nil {
			return nil, qerrors.New(expr.Pos, err)
		}
		return cell.Value, nil
	case *ast.FuncCall:
		return in.evaluateFuncCall(body, expr.Pos)
	case *ast.BinaryExpression:
		return in.evaluateBinary(body, expr.Pos)
	case *ast.AccessorExpression:
		return in.evaluateAccessor(body, expr.Pos)
	default:
		panic(fmt.Sprintf("interpreter: unhandled expression body %T", body))
	}
}

// evaluateFuncCall resolves the callee and dispatches to a user or
// internal function call.
func (in *Interpreter) evaluateFuncCall(call *ast.FuncCall, pos token.Position) (value.Value, error) {
	cell, err := in.memory.Get(call.Identifier)
	if err != nil {
		return nil, qerrors.New(pos, err)
	}

	switch callee := cell.Value.(type) {
	case value.Nothing:
		return nil, qerrors.New(pos, fmt.Errorf("%w: %q", qerrors.ErrCallOnNothing, call.Identifier))
	case *value.Func:
		return in.callUserFunc(callee, call.Args, pos)
	case *value.InternalFunc:
		return in.callInternalFunc(callee, call.Args, pos)
	default:
		return nil, qerrors.New(pos, fmt.Errorf("%w: %q", qerrors.ErrNotCallable, call.Identifier))
	}
}

func (in *Interpreter) callUserFunc(fn *value.Func, args []ast.Expression, pos token.Position) (value.Value, error) {
	if err := in.bindCallFrame(fn.Parameters, args, pos); err != nil {
		return nil, err
	}

	_, err := in.executeBlock(fn.Body)
	in.memory.ClearScope()
	in.state.Pop()

	if err == nil {
		return value.Nothing{Pos: pos}, nil
	}
	if ret, ok := signal.AsReturn(err); ok {
		return ret.Value, nil
	}
	return nil, err
}

func (in *Interpreter) callInternalFunc(fn *value.InternalFunc, args []ast.Expression, pos token.Position) (value.Value, error) {
	impl, ok := in.internals[fn.Identifier]
	if !ok {
		panic(fmt.Sprintf("interpreter: no implementation bound for internal func %q", fn.Identifier))
	}

	if err := in.bindCallFrame(fn.Parameters, args, pos); err != nil {
		return nil, err
	}
	defer in.memory.ClearScope()
	defer in.state.Pop()

	v, err := impl(in.memory, in.host)
	if err != nil {
		return nil, qerrors.New(pos, err)
	}
	return v, nil
}

// bindCallFrame pushes a State Function frame and a new scope, checks
// arity, and binds each evaluated argument as an Argument cell. On any
// error it pops what it pushed before returning, so the caller only
// needs to release the frame itself on the success path.
func (in *Interpreter) bindCallFrame(params []ast.Param, args []ast.Expression, pos token.Position) error {
	if len(params) != len(args) {
		return qerrors.New(pos, fmt.Errorf("%w: expected %d, got %d", qerrors.ErrArityMismatch, len(params), len(args)))
	}

	in.state.Push(state.Function)
	in.memory.CreateScope()

	for i, param := range params {
		v, err := in.EvaluateExpression(args[i])
		if err != nil {
			in.memory.ClearScope()
			in.state.Pop()
			return err
		}

		if param.DeclaredType != "" {
			if got := value.KindToTypeName(v.Kind()); got != param.DeclaredType {
				in.memory.ClearScope()
				in.state.Pop()
				return qerrors.New(pos, fmt.Errorf("%w: %q expects %s, got %s", qerrors.ErrArgumentTypeMismatch, param.Identifier, param.DeclaredType, got))
			}
		}

		cell := &memory.Cell{
			Identifier: param.Identifier,
			Decl:       memory.Argument,
			Type:       value.KindToTypeName(v.Kind()),
			Value:      v,
		}
		if err := in.memory.Set(param.Identifier, cell); err != nil {
			in.memory.ClearScope()
			in.state.Pop()
			return qerrors.New(pos, err)
		}
	}
	return nil
}

// evaluateAccessor evaluates a receiver.method(:args:) expression.
func (in *Interpreter) evaluateAccessor(acc *ast.AccessorExpression, pos token.Position) (value.Value, error) {
	receiver, err := in.EvaluateExpression(acc.Receiver)
	if err != nil {
		return nil, err
	}

	call, ok := acc.Selector.Body.(*ast.FuncCall)
	if !ok {
		return nil, qerrors.New(pos, qerrors.ErrUnknownAttribute)
	}

	argValues := make([]value.Value, len(call.Args))
	for i, a := range call.Args {
		v, err := in.EvaluateExpression(a)
		if err != nil {
			return nil, err
		}
		argValues[i] = v
	}

	typeName := value.KindToTypeName(receiver.Kind())
	fn, err := in.attrs.Resolve(typeName, call.Identifier)
	if err != nil {
		return nil, qerrors.New(pos, err)
	}
	v, err := fn(receiver, argValues)
	if err != nil {
		return nil, qerrors.New(pos, err)
	}
	return v, nil
}

// evaluateBinary evaluates both operands, rejects cross-kind operands
// except for == and !=, and dispatches same-kind pairs by operator.
func (in *Interpreter) evaluateBinary(bin *ast.BinaryExpression, pos token.Position) (value.Value, error) {
	right, err := in.resolveOperand(bin.Right)
	if err != nil {
		return nil, err
	}
	left, err := in.resolveOperand(bin.Left)
	if err != nil {
		return nil, err
	}

	if left.Kind() != right.Kind() {
		switch bin.Operator {
		case token.EQUAL_EQUAL:
			return value.Bool{Value: false, Pos: pos}, nil
		case token.BANG_EQUAL:
			return value.Bool{Value: true, Pos: pos}, nil
		default:
			return nil, qerrors.New(pos, qerrors.ErrInvalidBinaryExpression)
		}
	}

	switch l := left.(type) {
	case value.Bool:
		r := right.(value.Bool)
		return evalBoolBinary(bin.Operator, l, r, pos)
	case value.Number:
		r := right.(value.Number)
		return evalNumberBinary(bin.Operator, l, r, pos)
	case value.Text:
		r := right.(value.Text)
		return evalTextBinary(bin.Operator, l, r, pos)
	default:
		return nil, qerrors.New(pos, qerrors.ErrInvalidBinaryExpression)
	}
}

// resolveOperand evaluates an operand expression to a Value, rejecting
// callables with InvalidBinaryOperand.
func (in *Interpreter) resolveOperand(expr ast.Expression) (value.Value, error) {
	v, err := in.EvaluateExpression(expr)
	if err != nil {
		return nil, err
	}
	if isCallable(v) {
		return nil, qerrors.New(expr.Pos, qerrors.ErrInvalidBinaryOperand)
	}
	return v, nil
}

func isCallable(v value.Value) bool {
	return slices.Contains([]value.Kind{value.KindFunc, value.KindInternalFunc}, v.Kind())
}

func evalBoolBinary(op token.Type, l, r value.Bool, pos token.Position) (value.Value, error) {
	switch op {
	case token.EQUAL_EQUAL:
		return value.Bool{Value: l.Value == r.Value, Pos: pos}, nil
	case token.BANG_EQUAL:
		return value.Bool{Value: l.Value != r.Value, Pos: pos}, nil
	case token.AND:
		return value.Bool{Value: l.Value && r.Value, Pos: pos}, nil
	case token.OR:
		return value.Bool{Value: l.Value || r.Value, Pos: pos}, nil
	default:
		return nil, qerrors.New(pos, qerrors.ErrInvalidBinaryExpression)
	}
}

func evalNumberBinary(op token.Type, l, r value.Number, pos token.Position) (value.Value, error) {
	switch op {
	case token.EQUAL_EQUAL:
		return value.Bool{Value: l.Value == r.Value, Pos: pos}, nil
	case token.BANG_EQUAL:
		return value.Bool{Value: l.Value != r.Value, Pos: pos}, nil
	case token.LESS:
		return value.Bool{Value: l.Value < r.Value, Pos: pos}, nil
	case token.LESS_EQUAL:
		return value.Bool{Value: l.Value <= r.Value, Pos: pos}, nil
	case token.GREATER:
		return value.Bool{Value: l.Value > r.Value, Pos: pos}, nil
	case token.GREATER_EQUAL:
		return value.Bool{Value: l.Value >= r.Value, Pos: pos}, nil
	case token.PLUS:
		return value.Number{Value: l.Value + r.Value, Pos: pos}, nil
	case token.MINUS:
		return value.Number{Value: l.Value - r.Value, Pos: pos}, nil
	case token.STAR:
		return value.Number{Value: l.Value * r.Value, Pos: pos}, nil
	case token.SLASH:
		return value.Number{Value: l.Value / r.Value, Pos: pos}, nil
	case token.PERCENT:
		return value.Number{Value: math.Mod(l.Value, r.Value), Pos: pos}, nil
	default:
		return nil, qerrors.New(pos, qerrors.ErrInvalidBinaryExpression)
	}
}

func evalTextBinary(op token.Type, l, r value.Text, pos token.Position) (value.Value, error) {
	switch op {
	case token.EQUAL_EQUAL:
		return value.Bool{Value: l.Value == r.Value, Pos: pos}, nil
	case token.BANG_EQUAL:
		return value.Bool{Value: l.Value != r.Value, Pos: pos}, nil
	case token.PLUS:
		return value.Text{Value: l.Value + r.Value, Pos: pos}, nil
	default:
		return nil, qerrors.New(pos, qerrors.ErrInvalidBinaryExpression)
	}
}

