package comparison

// disjointSet is a union-find over rectangle indices.
type disjointSet struct {
	parent []int
	rank   []int
}

func newDisjointSet(n int) *disjointSet {
	d := &disjointSet{parent: make([]int, n), rank: make([]int, n)}
	for i := range d.parent {
		d.parent[i] = i
	}
	return d
}

func (d *disjointSet) find(i int) int {
	for d.parent[i] != i {
		d.parent[i] = d.parent[d.parent[i]]
		i = d.parent[i]
	}
	return i
}

// union joins the sets of a and b and reports whether they were separate.
func (d *disjointSet) union(a, b int) bool {
	ra, rb := d.find(a), d.find(b)
	if ra == rb {
		return false
	}
	switch {
	case d.rank[ra] < d.rank[rb]:
		d.parent[ra] = rb
	case d.rank[ra] > d.rank[rb]:
		d.parent[rb] = ra
	default:
		d.parent[rb] = ra
		d.rank[ra]++
	}
	return true
}

// MergeRectangles collapses rects so that no two rectangles in the result
// overlap. Every group of transitively overlapping rectangles is replaced by
// its bounding rectangle, placed at the position of the group's first member.
//
// The bounding rectangle of a group can overlap a rectangle the group's
// members did not, so grouping is repeated until a pass joins nothing. Every
// repeated pass strictly shrinks the list, which bounds the number of passes
// by len(rects).
//
// The input slice is not modified. A list that is already free of overlaps
// is returned as an equal copy.
func MergeRectangles(rects []Rectangle) []Rectangle {
	merged := make([]Rectangle, len(rects))
	copy(merged, rects)

	for len(merged) > 1 {
		next, joined := mergePass(merged)
		if !joined {
			break
		}
		merged = next
	}
	return merged
}

// mergePass unions every overlapping pair once and reduces each set to its
// bounding rectangle.
func mergePass(rects []Rectangle) ([]Rectangle, bool) {
	sets := newDisjointSet(len(rects))
	joined := false
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Overlaps(rects[j]) && sets.union(i, j) {
				joined = true
			}
		}
	}
	if !joined {
		return rects, false
	}

	// Slot of each root in the output, in order of first appearance.
	slot := make(map[int]int, len(rects))
	out := make([]Rectangle, 0, len(rects))
	for i, r := range rects {
		root := sets.find(i)
		s, ok := slot[root]
		if !ok {
			s = len(out)
			slot[root] = s
			out = append(out, EmptyRectangle())
		}
		out[s] = out[s].Merge(r)
	}
	return out, true
}
