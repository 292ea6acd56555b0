package asset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReentrancyGuard(t *testing.T) {
	g := NewReentrancyGuard()
	require.False(t, g.IsEntered())

	require.Nil(t, g.Enter())
	require.True(t, g.IsEntered())

	require.ErrorIs(t, g.Enter(), ErrReentrantCall)

	g.Exit()
	require.False(t, g.IsEntered())
	require.Nil(t, g.Enter())
	g.Exit()
}
