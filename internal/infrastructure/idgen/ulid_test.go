package idgen

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator_GeneratesSortedUniqueIDs(t *testing.T) {
	gen := NewULIDGenerator()

	prev := ""
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen.Generate()

		_, err := ulid.ParseStrict(id)
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		assert.Greater(t, id, prev)

		seen[id] = true
		prev = id
	}
}
