package snowflake_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"apod/server/internal/snowflake"
)

func TestGenerator_Unique(t *testing.T) {
	g, err := snowflake.NewGenerator(3)
	require.NoError(t, err)

	seen := make(map[int64]struct{})
	for i := 0; i < 1000; i++ {
		id := g.NextID()
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestNewGenerator_RejectsOutOfRangeNode(t *testing.T) {
	_, err := snowflake.NewGenerator(5000)
	require.Error(t, err)
}
