package ast

import (
	"fmt"
	"strings"
)

// Sprint renders module as a parenthesized debug dump, written as a
// type switch over this package's sum types rather than a Visitor,
// matching the rest of the tree's exhaustive-match style.
func Sprint(module *Module) string {
	var sb strings.Builder
	for i, stmt := range module.Statements {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(sprintStatement(stmt))
	}
	return sb.String()
}

func sprintStatement(stmt Statement) string {
	switch body := stmt.Body.(type) {
	case *Declaration:
		kw := "QUACK"
		if body.Constant {
			kw = "FLOCK"
		}
		return parenthesize(kw, body.Identifier, sprintExpression(body.Expression))
	case *Assignment:
		return parenthesize("<-", body.Identifier, sprintExpression(body.Expression))
	case *ExpressionStatement:
		return sprintExpression(body.Expression)
	case *ReturnStatement:
		if body.Expression.Body == nil {
			return "(return)"
		}
		return parenthesize("return", sprintExpression(body.Expression))
	case *IfStatement:
		return parenthesize("if", sprintExpression(body.Condition), sprintBlock(body.TrueBlock), sprintBlock(body.FalseBlock))
	case *ImportStatement:
		return parenthesize("import", fmt.Sprintf("%q", body.Path))
	default:
		return fmt.Sprintf("<unknown statement %T>", body)
	}
}

func sprintBlock(block *Block) string {
	if block == nil {
		return "()"
	}
	parts := make([]string, len(block.Statements))
	for i, s := range block.Statements {
		parts[i] = sprintStatement(s)
	}
	return parenthesize("block", parts...)
}

func sprintExpression(expr Expression) string {
	switch body := expr.Body.(type) {
	case *NumberLiteral:
		return fmt.Sprintf("%v", body.Value)
	case *TextLiteral:
		return fmt.Sprintf("%q", body.Value)
	case *BooleanLiteral:
		return fmt.Sprintf("%v", body.Value)
	case *NothingLiteral:
		return "nothing"
	case *FuncLiteral:
		names := make([]string, len(body.Parameters))
		for i, p := range body.Parameters {
			names[i] = p.Identifier
		}
		return parenthesize("func", strings.Join(names, ","), sprintBlock(body.Body))
	case *Identifier:
		return body.Name
	case *FuncCall:
		args := make([]string, len(body.Args))
		for i, a := range body.Args {
			args[i] = sprintExpression(a)
		}
		return parenthesize("call:"+body.Identifier, args...)
	case *BinaryExpression:
		return parenthesize(body.Operator.String(), sprintExpression(body.Left), sprintExpression(body.Right))
	case *AccessorExpression:
		return parenthesize(".", sprintExpression(body.Receiver), sprintExpression(body.Selector))
	default:
		return fmt.Sprintf("<unknown expression %T>", body)
	}
}

func parenthesize(name string, parts ...string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(name)
	for _, p := range parts {
		sb.WriteByte(' ')
		sb.WriteString(p)
	}
	sb.WriteByte(')')
	return sb.String()
}
