package state_test

import (
	"testing"

	"github.com/quackscript/quack/internal/state"
	"github.com/stretchr/testify/assert"
)

func TestPushPopPeek(t *testing.T) {
	s := state.New()
	assert.Equal(t, 0, s.Depth())

	_, ok := s.Peek()
	assert.False(t, ok)

	s.Push(state.Function)
	assert.Equal(t, 1, s.Depth())

	ctx, ok := s.Peek()
	assert.True(t, ok)
	assert.Equal(t, state.Function, ctx)

	s.Pop()
	assert.Equal(t, 0, s.Depth())
}

func TestPopPanicsOnEmptyStack(t *testing.T) {
	s := state.New()
	assert.Panics(t, s.Pop)
}

func TestInFunction(t *testing.T) {
	s := state.New()
	assert.False(t, s.InFunction())

	s.Push(state.Function)
	assert.True(t, s.InFunction())

	s.Pop()
	assert.False(t, s.InFunction())
}
