package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"lunaday/internal/gesture"
)

func TestHeightClampsAtBounds(t *testing.T) {
	h, err := NewHeight([]int{8, 14, 20}, 1)
	require.NoError(t, err)
	require.Equal(t, 14, h.Rows())

	require.True(t, h.Apply(gesture.ExpandPanel))
	require.False(t, h.Apply(gesture.ExpandPanel))
	require.Equal(t, 2, h.Level())
	require.Equal(t, 20, h.Rows())

	require.True(t, h.Apply(gesture.CollapsePanel))
	require.True(t, h.Apply(gesture.CollapsePanel))
	require.False(t, h.Apply(gesture.CollapsePanel))
	require.Equal(t, 0, h.Level())
	require.Equal(t, 8, h.Rows())
}

func TestHeightStaysInRangeForAnySequence(t *testing.T) {
	h, err := NewHeight([]int{1, 2, 3}, 0)
	require.NoError(t, err)
	rng := rand.New(rand.NewSource(7))
	intents := []gesture.Intent{gesture.ExpandPanel, gesture.CollapsePanel, gesture.NavigateNext, gesture.Tap}
	for i := 0; i < 500; i++ {
		h.Apply(intents[rng.Intn(len(intents))])
		require.GreaterOrEqual(t, h.Level(), 0)
		require.LessOrEqual(t, h.Level(), Levels-1)
	}
}

func TestHeightIgnoresOtherIntents(t *testing.T) {
	h, _ := NewHeight([]int{1, 2, 3}, 1)
	for _, in := range []gesture.Intent{gesture.None, gesture.Tap, gesture.NavigateNext, gesture.NavigatePrev} {
		require.False(t, h.Apply(in))
	}
	require.Equal(t, 1, h.Level())
}

func TestNewHeightValidates(t *testing.T) {
	for _, rows := range [][]int{{1, 2}, {1, 2, 3, 4}, {3, 2, 1}, {0, 1, 2}, {2, 2, 3}} {
		_, err := NewHeight(rows, 0)
		require.Error(t, err, "%v", rows)
	}
	h, err := NewHeight([]int{1, 2, 3}, 9)
	require.NoError(t, err)
	require.Equal(t, 2, h.Level())
}
