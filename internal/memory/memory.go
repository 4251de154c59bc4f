// Package memory implements the evaluator's environment: a stack of
// lexical scopes storing typed, named cells, with declaration-kind
// and optional-wrapper metadata per the cell model QuackScript needs.
package memory

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/value"
	"golang.org/x/exp/maps"
)

// DeclarationKind is the binding discipline of a Cell.
type DeclarationKind int

const (
	Variable DeclarationKind = iota
	Constant
	Argument
)

// Optional describes a cell's optional wrapper, if any.
type Optional struct {
	IsOptional   bool
	InternalType string
}

// Cell is a named, typed storage slot in a scope.
type Cell struct {
	Identifier string
	Decl       DeclarationKind
	Type       string
	Value      value.Value
	Optional   Optional
}

// DeclaredType is the type name used for assignment/declaration
// checking: the optional's internal type when the cell is optional,
// otherwise Type itself.
func (c *Cell) DeclaredType() string {
	if c.Optional.IsOptional {
		return c.Optional.InternalType
	}
	return c.Type
}

type scope struct {
	enclosing *scope
	cells     map[string]*Cell
}

// Memory is a stack of scopes, innermost first, used for lexical
// variable resolution.
type Memory struct {
	current *scope
}

// New returns a Memory with a single empty global scope.
func New() *Memory {
	m := &Memory{}
	m.ClearMemory()
	return m
}

// ClearMemory resets the stack to a single empty global scope.
func (m *Memory) ClearMemory() {
	m.current = &scope{cells: map[string]*Cell{}}
}

// CreateScope pushes a new, empty scope.
func (m *Memory) CreateScope() {
	m.current = &scope{enclosing: m.current, cells: map[string]*Cell{}}
}

// ClearScope pops the innermost scope. It panics if called on the
// global scope, which is a programmer error: every CreateScope must be
// matched by exactly one ClearScope.
func (m *Memory) ClearScope() {
	if m.current.enclosing == nil {
		panic("memory: cannot pop the global scope")
	}
	m.current = m.current.enclosing
}

// Depth reports how many scopes are currently on the stack (1 for just
// the global scope).
func (m *Memory) Depth() int {
	depth := 0
	for s := m.current; s != nil; s = s.enclosing {
		depth++
	}
	return depth
}

// Set inserts cell into the current (innermost) scope.
func (m *Memory) Set(id string, cell *Cell) error {
	if _, ok := m.current.cells[id]; ok {
		return fmt.Errorf("%w: %q", qerrors.ErrRedeclaration, id)
	}
	m.current.cells[id] = cell
	return nil
}

// Get searches scopes innermost-outward for id.
func (m *Memory) Get(id string) (*Cell, error) {
	for s := m.current; s != nil; s = s.enclosing {
		if cell, ok := s.cells[id]; ok {
			return cell, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", qerrors.ErrUndefinedIdentifier, id)
}

// Update locates id in any scope and replaces its value. The cell's
// declared type is never changed by Update; a mismatch between the new
// value's kind and the declared type raises ErrTypeMismatch.
func (m *Memory) Update(id string, v value.Value) error {
	for s := m.current; s != nil; s = s.enclosing {
		cell, ok := s.cells[id]
		if !ok {
			continue
		}
		if cell.Decl == Constant {
			return fmt.Errorf("%w: %q", qerrors.ErrAssignToConstant, id)
		}
		if err := checkAssignable(cell, v); err != nil {
			return err
		}
		cell.Value = v
		return nil
	}
	return fmt.Errorf("%w: %q", qerrors.ErrUndefinedIdentifier, id)
}

func checkAssignable(cell *Cell, v value.Value) error {
	if v.Kind() == value.KindNothing {
		if !cell.Optional.IsOptional {
			return fmt.Errorf("%w: %q", qerrors.ErrNullToNonOptional, cell.Identifier)
		}
		return nil
	}
	want := cell.DeclaredType()
	if got := value.KindToTypeName(v.Kind()); got != want {
		return fmt.Errorf("%w: %q expects %s, got %s", qerrors.ErrTypeMismatch, cell.Identifier, want, got)
	}
	return nil
}

// String renders the scope chain for debugging, innermost first.
func (m *Memory) String() string {
	var sb strings.Builder
	for s := m.current; s != nil; s = s.enclosing {
		names := maps.Keys(s.cells)
		sort.Strings(names)
		sb.WriteString("{")
		sb.WriteString(strings.Join(names, ","))
		sb.WriteString("}")
		if s.enclosing != nil {
			sb.WriteString(" -> ")
		}
	}
	return sb.String()
}

var _ fmt.Stringer = (*Memory)(nil)
