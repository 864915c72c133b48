package geoscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGradeFor(t *testing.T) {
	require.Equal(t, "excellent", GradeFor(95).Tier)
	require.Equal(t, "excellent", GradeFor(72).Tier)
	require.Equal(t, "good", GradeFor(71).Tier)
	require.Equal(t, "good", GradeFor(60).Tier)
	require.Equal(t, "risky", GradeFor(59).Tier)
	require.Equal(t, "Risky for Credit", GradeFor(0).Label)
}
