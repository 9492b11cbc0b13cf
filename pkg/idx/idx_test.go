package idx_test

import (
	"testing"
	"time"

	"github.com/avalonfair/gatehouse/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewProducesValidIDs(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestNewIsMonotonicWithinSameMillisecond(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	a := idx.NewAt(at)
	b := idx.NewAt(at)

	require.Less(t, a.String(), b.String())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"", "   ", "not-a-ulid", "01ARZ3NDEKTSV4RRFFQ69G5FA"} {
		_, err := idx.Parse(input)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", input)
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 3, 15, 8, 30, 0, 0, time.UTC)
	id := idx.NewAt(at)

	require.Equal(t, at.Truncate(time.Millisecond), id.Time())
	require.True(t, idx.Zero.Time().IsZero())
}
