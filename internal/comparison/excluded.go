package comparison

// ExcludedAreas is the ordered set of rectangles in which pixel differences
// are ignored. A point is excluded when any member contains it.
type ExcludedAreas []Rectangle

// Contains reports whether (x, y) falls inside at least one excluded area.
func (e ExcludedAreas) Contains(x, y int) bool {
	for _, r := range e {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}
