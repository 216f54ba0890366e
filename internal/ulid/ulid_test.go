package ulid

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	id := Generate(PrefixCycle)

	assert.False(t, id.IsZero(), "generated id should not be zero")
	assert.Equal(t, PrefixCycle, id.Prefix())
	assert.True(t, strings.HasPrefix(id.String(), PrefixCycle+PrefixSeparator))
	assert.WithinDuration(t, time.Now(), id.Time(), time.Second)
}

func TestGenerateWithoutPrefix(t *testing.T) {
	id := Generate("")

	assert.Len(t, id.String(), 26)
	assert.NotContains(t, id.String(), PrefixSeparator)
}

func TestParse(t *testing.T) {
	t.Run("prefixed", func(t *testing.T) {
		id := Generate(PrefixRequest)

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
		assert.Equal(t, PrefixRequest, parsed.Prefix())
	})

	t.Run("bare", func(t *testing.T) {
		id := Generate("")

		parsed, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
		assert.Empty(t, parsed.Prefix())
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := Parse("cyc-not-a-ulid")
		assert.Error(t, err)
	})
}

func TestMonotonicOrdering(t *testing.T) {
	now := time.Now()
	prev := New(now, PrefixCycle)

	for i := 0; i < 100; i++ {
		next := New(now, PrefixCycle)
		assert.Less(t, prev.ULID.String(), next.ULID.String(), "ids in the same millisecond must sort in creation order")
		prev = next
	}
}

func TestDomainHelpers(t *testing.T) {
	cycle := CycleID()
	request := RequestID()

	assert.True(t, strings.HasPrefix(cycle, "cyc-"))
	assert.True(t, strings.HasPrefix(request, "req-"))
	assert.NotEqual(t, CycleID(), cycle)
}
