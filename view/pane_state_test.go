package view

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func newPane(rows, height int) *PaneState {
	ps := &PaneState{}
	ps.Reset(rows)
	ps.Resize(height)

	return ps
}

func requireInvariant(t *testing.T, ps *PaneState) {
	t.Helper()

	if ps.Rows() == 0 {
		require.Equal(t, 0, ps.Cursor())
		require.Equal(t, 0, ps.Scroll())
		return
	}

	require.GreaterOrEqual(t, ps.Cursor(), 0)
	require.Less(t, ps.Cursor(), ps.Rows())
	require.LessOrEqual(t, ps.Scroll(), ps.Cursor())
	require.Less(t, ps.Cursor(), ps.Scroll()+ps.Viewport())
}

func TestPaneState_MinimalScroll(t *testing.T) {
	ps := newPane(10, 2)

	for range 5 {
		require.True(t, ps.MoveCursor(1))
	}

	require.Equal(t, 5, ps.Cursor())
	require.Equal(t, 4, ps.Scroll())

	// moving back inside the viewport does not scroll
	require.True(t, ps.MoveCursor(-1))
	require.Equal(t, 4, ps.Cursor())
	require.Equal(t, 4, ps.Scroll())

	require.True(t, ps.MoveCursor(-1))
	require.Equal(t, 3, ps.Cursor())
	require.Equal(t, 3, ps.Scroll())
}

func TestPaneState_Clamps(t *testing.T) {
	ps := newPane(3, 5)

	require.False(t, ps.MoveCursor(-1))
	require.True(t, ps.MoveCursor(100))
	require.Equal(t, 2, ps.Cursor())
	require.False(t, ps.MoveCursor(1))
	requireInvariant(t, ps)
}

func TestPaneState_EmptyIsNoop(t *testing.T) {
	ps := newPane(0, 4)

	ops := []func() bool{
		func() bool { return ps.MoveCursor(1) },
		func() bool { return ps.MoveCursor(-1) },
		func() bool { return ps.Page(1) },
		func() bool { return ps.Page(-1) },
		ps.JumpTop,
		ps.JumpBottom,
	}

	for _, op := range ops {
		require.False(t, op())
		requireInvariant(t, ps)
	}
}

func TestPaneState_JumpTopIdempotent(t *testing.T) {
	ps := newPane(20, 4)
	ps.JumpBottom()

	require.True(t, ps.JumpTop())
	once := *ps

	require.False(t, ps.JumpTop())
	require.Equal(t, once, *ps)
}

func TestPaneState_JumpBottom(t *testing.T) {
	ps := newPane(20, 4)

	require.True(t, ps.JumpBottom())
	require.Equal(t, 19, ps.Cursor())
	require.Equal(t, 16, ps.Scroll())
}

func TestPaneState_PageTraversalVisitsEveryRowOnce(t *testing.T) {
	tests := []struct {
		rows   int
		height int
	}{
		{rows: 10, height: 3},
		{rows: 9, height: 3},
		{rows: 1, height: 5},
		{rows: 7, height: 1},
		{rows: 100, height: 17},
		{rows: 5, height: 0},
	}

	for _, tt := range tests {
		ps := newPane(tt.rows, tt.height)
		seen := make(map[int]int)

		for {
			start, end := ps.VisibleRange()
			for r := start; r < end; r++ {
				seen[r]++
			}

			if !ps.Page(1) {
				break
			}

			requireInvariant(t, ps)
		}

		total := 0
		for r, n := range seen {
			require.Equal(t, 1, n, "row %d rendered %d times (rows=%d height=%d)", r, n, tt.rows, tt.height)
			total += n
		}

		require.Equal(t, tt.rows, total)
	}
}

func TestPaneState_PageStopsAtLastPage(t *testing.T) {
	ps := newPane(9, 3)

	var frames [][2]int
	for {
		start, end := ps.VisibleRange()
		frames = append(frames, [2]int{start, end})

		if !ps.Page(1) {
			break
		}
	}

	require.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 9}}, frames)

	before := *ps
	require.False(t, ps.Page(1))
	require.Equal(t, before, *ps)
}

func TestPaneState_PageDownAfterGrowNeverScrollsUp(t *testing.T) {
	ps := newPane(10, 1)
	ps.JumpBottom()
	require.Equal(t, 9, ps.Scroll())

	ps.Resize(5)
	require.Equal(t, 9, ps.Scroll())

	require.False(t, ps.Page(1))
	require.Equal(t, 9, ps.Scroll())

	require.True(t, ps.Page(-1))
	require.Equal(t, 4, ps.Scroll())
	requireInvariant(t, ps)
}

func TestPaneState_PageUpReturnsToTop(t *testing.T) {
	ps := newPane(10, 3)

	for ps.Page(1) {
	}

	for ps.Page(-1) {
	}

	require.Equal(t, 0, ps.Scroll())
	require.Equal(t, 0, ps.Cursor())
}

func TestPaneState_Resize(t *testing.T) {
	ps := newPane(50, 10)
	ps.JumpBottom()

	ps.Resize(3)
	requireInvariant(t, ps)
	require.Equal(t, 49, ps.Cursor())

	ps.Resize(0)
	requireInvariant(t, ps)
	require.Equal(t, 1, ps.Viewport())
}

func TestPaneState_RandomNavigationKeepsInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		ps := newPane(rng.Intn(40), rng.Intn(8))

		for step := 0; step < 200; step++ {
			switch rng.Intn(7) {
			case 0:
				ps.MoveCursor(rng.Intn(11) - 5)
			case 1:
				ps.Page(rng.Intn(3) - 1)
			case 2:
				ps.JumpTop()
			case 3:
				ps.JumpBottom()
			case 4:
				ps.Resize(rng.Intn(10))
			default:
				ps.MoveCursor(1)
			}

			requireInvariant(t, ps)
		}
	}
}
