package memory_test

import (
	"testing"

	"github.com/quackscript/quack/internal/memory"
	"github.com/quackscript/quack/internal/qerrors"
	"github.com/quackscript/quack/internal/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	m := memory.New()

	cell := &memory.Cell{Identifier: "x", Decl: memory.Variable, Type: "number", Value: value.Number{Value: 5}}
	require.NoError(t, m.Set("x", cell))

	got, err := m.Get("x")
	require.NoError(t, err)
	assert.Equal(t, cell, got)
}

func TestSetRejectsRedeclaration(t *testing.T) {
	m := memory.New()
	cell := &memory.Cell{Identifier: "x", Type: "number", Value: value.Number{Value: 1}}
	require.NoError(t, m.Set("x", cell))

	err := m.Set("x", cell)
	assert.ErrorIs(t, err, qerrors.ErrRedeclaration)
}

func TestGetMissingIdentifier(t *testing.T) {
	m := memory.New()
	_, err := m.Get("missing")
	assert.ErrorIs(t, err, qerrors.ErrUndefinedIdentifier)
}

func TestGetResolvesInnermostScopeFirst(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Set("x", &memory.Cell{Identifier: "x", Type: "number", Value: value.Number{Value: 1}}))

	m.CreateScope()
	require.NoError(t, m.Set("x", &memory.Cell{Identifier: "x", Type: "number", Value: value.Number{Value: 2}}))

	got, err := m.Get("x")
	require.NoError(t, err)
	assert.Equal(t, float64(2), got.Value.(value.Number).Value)

	m.ClearScope()
	got, err = m.Get("x")
	require.NoError(t, err)
	assert.Equal(t, float64(1), got.Value.(value.Number).Value)
}

func TestClearScopePanicsOnGlobalScope(t *testing.T) {
	m := memory.New()
	assert.Panics(t, m.ClearScope)
}

func TestUpdateRejectsConstant(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Set("x", &memory.Cell{Identifier: "x", Decl: memory.Constant, Type: "number", Value: value.Number{Value: 1}}))

	err := m.Update("x", value.Number{Value: 2})
	assert.ErrorIs(t, err, qerrors.ErrAssignToConstant)
}

func TestUpdateRejectsTypeMismatch(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Set("x", &memory.Cell{Identifier: "x", Type: "number", Value: value.Number{Value: 1}}))

	err := m.Update("x", value.Text{Value: "oops"})
	assert.ErrorIs(t, err, qerrors.ErrTypeMismatch)
}

func TestUpdateRejectsNothingOnNonOptional(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Set("x", &memory.Cell{Identifier: "x", Type: "number", Value: value.Number{Value: 1}}))

	err := m.Update("x", value.Nothing{})
	assert.ErrorIs(t, err, qerrors.ErrNullToNonOptional)
}

func TestUpdateAllowsNothingOnOptional(t *testing.T) {
	m := memory.New()
	require.NoError(t, m.Set("x", &memory.Cell{
		Identifier: "x",
		Type:       "optional",
		Value:      value.Number{Value: 1},
		Optional:   memory.Optional{IsOptional: true, InternalType: "number"},
	}))

	require.NoError(t, m.Update("x", value.Nothing{}))
	got, err := m.Get("x")
	require.NoError(t, err)
	assert.Equal(t, value.KindNothing, got.Value.Kind())
}

func TestDepth(t *testing.T) {
	m := memory.New()
	assert.Equal(t, 1, m.Depth())
	m.CreateScope()
	assert.Equal(t, 2, m.Depth())
	m.ClearScope()
	assert.Equal(t, 1, m.Depth())
}
