package comparison

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRectangles_Empty(t *testing.T) {
	assert.Empty(t, MergeRectangles(nil))
	assert.Equal(t, []Rectangle{{1, 1, 2, 2}}, MergeRectangles([]Rectangle{{1, 1, 2, 2}}))
}

func TestMergeRectangles_Overlapping(t *testing.T) {
	rects := []Rectangle{
		{0, 0, 4, 4},
		{3, 3, 6, 6},
		{20, 20, 21, 21},
	}

	got := MergeRectangles(rects)

	assert.Equal(t, []Rectangle{{0, 0, 6, 6}, {20, 20, 21, 21}}, got)
	assert.Equal(t, Rectangle{0, 0, 4, 4}, rects[0], "input must not be modified")
}

func TestMergeRectangles_Chain(t *testing.T) {
	// Each rectangle only overlaps its neighbour.
	rects := []Rectangle{
		{0, 0, 2, 2},
		{2, 2, 4, 4},
		{4, 4, 6, 6},
		{6, 6, 8, 8},
	}

	assert.Equal(t, []Rectangle{{0, 0, 8, 8}}, MergeRectangles(rects))
}

func TestMergeRectangles_MergedBoundsCreateNewOverlap(t *testing.T) {
	// The first two overlap; their bounding box reaches the third, which
	// neither of them touches on its own.
	rects := []Rectangle{
		{0, 0, 5, 1},
		{4, 0, 5, 5},
		{0, 4, 1, 5},
	}

	assert.Equal(t, []Rectangle{{0, 0, 5, 5}}, MergeRectangles(rects))
}

func TestMergeRectangles_TouchingButNotOverlapping(t *testing.T) {
	rects := []Rectangle{
		{1, 1, 1, 1},
		{2, 2, 2, 2},
	}

	assert.Equal(t, rects, MergeRectangles(rects))
}

func TestMergeRectangles_OrderFollowsFirstMember(t *testing.T) {
	rects := []Rectangle{
		{10, 0, 11, 1},
		{0, 0, 1, 1},
		{11, 1, 12, 2},
	}

	assert.Equal(t, []Rectangle{{10, 0, 12, 2}, {0, 0, 1, 1}}, MergeRectangles(rects))
}

func randomRectangles(r *rand.Rand, n, extent, maxSide int) []Rectangle {
	rects := make([]Rectangle, n)
	for i := range rects {
		x, y := r.Intn(extent), r.Intn(extent)
		rects[i] = Rectangle{x, y, x + r.Intn(maxSide), y + r.Intn(maxSide)}
	}
	return rects
}

// pairwiseMerge is the plain rescan-after-every-merge formulation.
func pairwiseMerge(rects []Rectangle) []Rectangle {
	out := append([]Rectangle(nil), rects...)
	for {
		found := false
		for i := 0; i < len(out) && !found; i++ {
			for j := i + 1; j < len(out); j++ {
				if out[i].Overlaps(out[j]) {
					out[i] = out[i].Merge(out[j])
					out = append(out[:j], out[j+1:]...)
					found = true
					break
				}
			}
		}
		if !found {
			return out
		}
	}
}

func TestMergeRectangles_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		input := randomRectangles(r, 1+r.Intn(30), 60, 12)
		merged := MergeRectangles(input)

		for i := range merged {
			for j := i + 1; j < len(merged); j++ {
				require.False(t, merged[i].Overlaps(merged[j]),
					"round %d: %v overlaps %v", round, merged[i], merged[j])
			}
		}

		for _, in := range input {
			for y := in.MinY; y <= in.MaxY; y++ {
				for x := in.MinX; x <= in.MaxX; x++ {
					require.True(t, ExcludedAreas(merged).Contains(x, y),
						"round %d: (%d,%d) lost after merge", round, x, y)
				}
			}
		}

		assert.ElementsMatch(t, pairwiseMerge(input), merged, "round %d", round)
		assert.Equal(t, merged, MergeRectangles(merged), "round %d: merge must be idempotent", round)
	}
}
