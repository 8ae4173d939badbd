package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidDate(t *testing.T) {
	require.True(t, IsValidDate("2026-03-05"))
	require.False(t, IsValidDate("05/03/2026"))
	require.False(t, IsValidDate("2026-3-5"))
	require.False(t, IsValidDate("2026-03-05T00:00:00Z"))
	require.False(t, IsValidDate(""))
}
