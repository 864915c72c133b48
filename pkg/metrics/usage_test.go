package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInputUsageIsZero(t *testing.T) {
	require.True(t, InputUsage{}.IsZero())
	require.False(t, InputUsage{TransitStops: 1}.IsZero())
	require.False(t, InputUsage{Unlocated: 1}.IsZero())
}
