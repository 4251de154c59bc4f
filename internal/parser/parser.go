// Package parser implements Parse, turning a token stream into an
// *ast.Module: a recursive-descent parser over a flat token cursor,
// with match/check/advance helpers and per-production methods mirroring
// the grammar's precedence climb.
package parser

import (
	"errors"
	"fmt"

	"github.com/quackscript/quack/internal/ast"
	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/token"
)

type parser struct {
	tokens  []token.Token
	current int
	err     error
}

// Parse converts a token stream into a Module. It is total over a
// well-formed stream ending in token.EOF; a malformed stream raises a
// *qerrors.SyntaxError, and a stream that does not end in token.EOF is
// rejected with a plain error.
func Parse(tokens []token.Token) (*ast.Module, error) {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		return nil, errors.New("parser: tokens must end with an EOF token")
	}
	p := &parser{tokens: tokens}

	var statements []ast.Statement
	for !p.isDone() {
		stmt := p.statement()
		if p.err != nil {
			return nil, p.err
		}
		statements = append(statements, stmt)
	}

	return &ast.Module{Statements: statements}, nil
}

func (p *parser) statement() ast.Statement {
	pos := p.peek().Pos

	switch {
	case p.check(token.QUACK), p.check(token.FLOCK):
		return ast.Statement{Body: p.declaration(), Pos: pos}
	case p.check(token.RETURN):
		return ast.Statement{Body: p.returnStatement(), Pos: pos}
	case p.check(token.IF):
		return ast.Statement{Body: p.ifStatement(), Pos: pos}
	case p.check(token.IMPORT):
		return ast.Statement{Body: p.importStatement(), Pos: pos}
	case p.check(token.IDENTIFIER) && p.checkAt(1, token.ASSIGN):
		return ast.Statement{Body: p.assignment(), Pos: pos}
	default:
		return ast.Statement{Body: p.expressionStatement(), Pos: pos}
	}
}

func (p *parser) declaration() ast.StatementBody {
	constant := p.advance().Type == token.FLOCK

	name, ok := p.expect(token.IDENTIFIER, "expected an identifier after QUACK/FLOCK")
	if !ok {
		return nil
	}

	declaredType := ""
	isOptional := false
	if p.match(token.COLON) {
		typeTok, ok := p.expect(token.IDENTIFIER, "expected a type name after ':'")
		if !ok {
			return nil
		}
		declaredType = typeTok.Lexeme
		isOptional = p.match(token.QUESTION)
	}

	if _, ok := p.expect(token.ASSIGN, "expected '<-' after the declared identifier"); !ok {
		return nil
	}

	expr := p.expression()
	if p.err != nil {
		return nil
	}

	if _, ok := p.expect(token.DUCK, "expected '🦆' after the declaration"); !ok {
		return nil
	}

	return &ast.Declaration{
		Constant:     constant,
		Identifier:   name.Lexeme,
		DeclaredType: declaredType,
		IsOptional:   isOptional,
		Expression:   expr,
	}
}

func (p *parser) assignment() ast.StatementBody {
	name := p.advance() // IDENTIFIER
	p.advance()          // ASSIGN

	expr := p.expression()
	if p.err != nil {
		return nil
	}

	if _, ok := p.expect(token.DUCK, "expected '🦆' after the assignment"); !ok {
		return nil
	}

	return &ast.Assignment{Identifier: name.Lexeme, Expression: expr}
}

func (p *parser) returnStatement() ast.StatementBody {
	p.advance() // RETURN

	var expr ast.Expression
	if !p.check(token.DUCK) {
		expr = p.expression()
		if p.err != nil {
			return nil
		}
	}

	if _, ok := p.expect(token.DUCK, "expected '🦆' after the return statement"); !ok {
		return nil
	}

	return &ast.ReturnStatement{Expression: expr}
}

func (p *parser) ifStatement() ast.StatementBody {
	p.advance() // IF

	condition := p.expression()
	if p.err != nil {
		return nil
	}

	if _, ok := p.expect(token.THEN, "expected 'then' after the if condition"); !ok {
		return nil
	}

	trueBlock := p.blockUntil(token.ELSE, token.END)
	if p.err != nil {
		return nil
	}

	var falseBlock *ast.Block
	if p.match(token.ELSE) {
		falseBlock = p.blockUntil(token.END)
		if p.err != nil {
			return nil
		}
	}

	if _, ok := p.expect(token.END, "expected 'end' to close the if statement"); !ok {
		return nil
	}

	return &ast.IfStatement{Condition: condition, TrueBlock: trueBlock, FalseBlock: falseBlock}
}

func (p *parser) importStatement() ast.StatementBody {
	p.advance() // IMPORT

	pathTok, ok := p.expect(token.TEXT, "expected a text literal path after 'import'")
	if !ok {
		return nil
	}

	if _, ok := p.expect(token.DUCK, "expected '🦆' after the import statement"); !ok {
		return nil
	}

	return &ast.ImportStatement{Path: pathTok.Literal.(string)}
}

func (p *parser) expressionStatement() ast.StatementBody {
	expr := p.expression()
	if p.err != nil {
		return nil
	}

	if _, ok := p.expect(token.DUCK, "expected '🦆' after the expression"); !ok {
		return nil
	}

	return &ast.ExpressionStatement{Expression: expr}
}

// blockUntil parses statements until the next token is one of stop
// (not consumed) or the stream is exhausted.
func (p *parser) blockUntil(stop ...token.Type) *ast.Block {
	var statements []ast.Statement
	for !p.isAtEnd() && !p.checkAny(stop...) {
		stmt := p.statement()
		if p.err != nil {
			return nil
		}
		statements = append(statements, stmt)
	}
	return &ast.Block{Statements: statements}
}

// -- expressions, lowest to highest precedence --

func (p *parser) expression() ast.Expression {
	return p.logicOr()
}

func (p *parser) logicOr() ast.Expression {
	expr := p.logicAnd()
	for p.check(token.OR) && p.err == nil {
		op := p.advance()
		right := p.logicAnd()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) logicAnd() ast.Expression {
	expr := p.equality()
	for p.check(token.AND) && p.err == nil {
		op := p.advance()
		right := p.equality()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) equality() ast.Expression {
	expr := p.comparison()
	for p.checkAny(token.EQUAL_EQUAL, token.BANG_EQUAL) && p.err == nil {
		op := p.advance()
		right := p.comparison()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) comparison() ast.Expression {
	expr := p.term()
	for p.checkAny(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQUAL) && p.err == nil {
		op := p.advance()
		right := p.term()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) term() ast.Expression {
	expr := p.factor()
	for p.checkAny(token.PLUS, token.MINUS) && p.err == nil {
		op := p.advance()
		right := p.factor()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) factor() ast.Expression {
	expr := p.accessor()
	for p.checkAny(token.STAR, token.SLASH, token.PERCENT) && p.err == nil {
		op := p.advance()
		right := p.accessor()
		expr = ast.Expression{Body: &ast.BinaryExpression{Operator: op.Type, Left: expr, Right: right}, Pos: op.Pos}
	}
	return expr
}

func (p *parser) accessor() ast.Expression {
	expr := p.primary()
	for p.check(token.DOT) && p.err == nil {
		dot := p.advance()
		selector := p.selector()
		if p.err != nil {
			return expr
		}
		expr = ast.Expression{Body: &ast.AccessorExpression{Receiver: expr, Selector: selector}, Pos: dot.Pos}
	}
	return expr
}

// selector parses the right-hand side of a '.': either a method-style
// call or a bare identifier (field access, always an UnknownAttribute
// at evaluation time per spec).
func (p *parser) selector() ast.Expression {
	name, ok := p.expect(token.IDENTIFIER, "expected an attribute name after '.'")
	if !ok {
		return ast.Expression{}
	}
	if p.check(token.PARAMS_OPEN) {
		args := p.argumentList()
		return ast.Expression{Body: &ast.FuncCall{Identifier: name.Lexeme, Args: args}, Pos: name.Pos}
	}
	return ast.Expression{Body: &ast.Identifier{Name: name.Lexeme}, Pos: name.Pos}
}

func (p *parser) primary() ast.Expression {
	tok := p.peek()

	switch tok.Type {
	case token.NUMBER:
		p.advance()
		return ast.Expression{Body: &ast.NumberLiteral{Value: tok.Literal.(float64)}, Pos: tok.Pos}
	case token.TEXT:
		p.advance()
		return ast.Expression{Body: &ast.TextLiteral{Value: tok.Literal.(string)}, Pos: tok.Pos}
	case token.TRUE:
		p.advance()
		return ast.Expression{Body: &ast.BooleanLiteral{Value: true}, Pos: tok.Pos}
	case token.FALSE:
		p.advance()
		return ast.Expression{Body: &ast.BooleanLiteral{Value: false}, Pos: tok.Pos}
	case token.NOTHING:
		p.advance()
		return ast.Expression{Body: &ast.NothingLiteral{}, Pos: tok.Pos}
	case token.PARAMS_OPEN:
		return p.funcLiteral()
	case token.IDENTIFIER:
		p.advance()
		if p.check(token.PARAMS_OPEN) {
			args := p.argumentList()
			return ast.Expression{Body: &ast.FuncCall{Identifier: tok.Lexeme, Args: args}, Pos: tok.Pos}
		}
		return ast.Expression{Body: &ast.Identifier{Name: tok.Lexeme}, Pos: tok.Pos}
	default:
		p.reportError(tok.Pos, fmt.Errorf("expected an expression, found %s", tok.Type))
		return ast.Expression{}
	}
}

func (p *parser) funcLiteral() ast.Expression {
	pos := p.peek().Pos
	params := p.paramList()
	if p.err != nil {
		return ast.Expression{}
	}

	if _, ok := p.expect(token.ARROW, "expected ':>' after the parameter list"); !ok {
		return ast.Expression{}
	}
	if _, ok := p.expect(token.BLOCK_OPEN, "expected '{:' to open the function body"); !ok {
		return ast.Expression{}
	}

	body := p.blockUntil(token.BLOCK_CLOSE)
	if p.err != nil {
		return ast.Expression{}
	}
	if _, ok := p.expect(token.BLOCK_CLOSE, "expected ':}' to close the function body"); !ok {
		return ast.Expression{}
	}

	return ast.Expression{Body: &ast.FuncLiteral{Parameters: params, Body: body}, Pos: pos}
}

// paramList parses "(: a, b: number :)". A parameter with no declared
// type accepts an argument of any kind at call time. A '?' after a
// parameter type is not accepted.
func (p *parser) paramList() []ast.Param {
	if _, ok := p.expect(token.PARAMS_OPEN, "expected '(:' to open the parameter list"); !ok {
		return nil
	}

	var params []ast.Param
	if !p.check(token.PARAMS_CLOSE) {
		for {
			param, ok := p.param()
			if !ok {
				return nil
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if _, ok := p.expect(token.PARAMS_CLOSE, "expected ':)' to close the parameter list"); !ok {
		return nil
	}
	return params
}

func (p *parser) param() (ast.Param, bool) {
	name, ok := p.expect(token.IDENTIFIER, "expected a parameter name")
	if !ok {
		return ast.Param{}, false
	}

	declaredType := ""
	if p.match(token.COLON) {
		typeTok, ok := p.expect(token.IDENTIFIER, "expected a type name after ':'")
		if !ok {
			return ast.Param{}, false
		}
		declaredType = typeTok.Lexeme
	}

	return ast.Param{Identifier: name.Lexeme, DeclaredType: declaredType}, true
}

// argumentList parses "(: expr, expr :)".
func (p *parser) argumentList() []ast.Expression {
	if _, ok := p.expect(token.PARAMS_OPEN, "expected '(:' to open the argument list"); !ok {
		return nil
	}

	var args []ast.Expression
	if !p.check(token.PARAMS_CLOSE) {
		for {
			args = append(args, p.expression())
			if p.err != nil {
				return nil
			}
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	if _, ok := p.expect(token.PARAMS_CLOSE, "expected ':)' to close the argument list"); !ok {
		return nil
	}
	return args
}

// -- token cursor helpers --

func (p *parser) check(t token.Type) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *parser) checkAt(offset int, t token.Type) bool {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return false
	}
	return p.tokens[idx].Type == t
}

func (p *parser) checkAny(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *parser) expect(t token.Type, msg string) (token.Token, bool) {
	if p.check(t) {
		return p.advance(), true
	}
	p.reportError(p.peek().Pos, errors.New(msg))
	return token.Token{}, false
}

func (p *parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *parser) advance() token.Token {
	t := p.tokens[p.current]
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *parser) isAtEnd() bool { return p.peek().Type == token.EOF }
func (p *parser) isDone() bool  { return p.isAtEnd() || p.err != nil }

func (p *parser) reportError(pos token.Position, cause error) {
	if p.err != nil {
		return
	}
	p.err = qerrors.NewSyntaxError(pos, cause)
}
