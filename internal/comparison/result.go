package comparison

import (
	"fmt"
	"image"
)

// State classifies the outcome of a comparison.
type State int

const (
	// Match means no difference rectangles remained.
	Match State = iota
	// Mismatch means at least one difference rectangle was found.
	Mismatch
	// SizeMismatch means the images have different dimensions.
	SizeMismatch
)

var stateNames = map[State]string{
	Match:        "match",
	Mismatch:     "mismatch",
	SizeMismatch: "size-mismatch",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// MarshalText encodes the state by name, so JSON output reads "mismatch"
// rather than 1.
func (s State) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("unknown comparison state %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name produced by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for state, name := range stateNames {
		if name == string(text) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown comparison state %q", text)
}

// Result is the outcome of comparing an expected image with an actual one.
//
// A Result is built once by Compare and not touched afterwards; the comparator
// keeps no reference to it.
type Result struct {
	// Expected and Actual are the compared images as passed in.
	Expected image.Image
	Actual   image.Image

	// Annotated is Actual with the difference rectangles drawn on it. For
	// Match and SizeMismatch results, and when no renderer is configured, it
	// is Actual itself.
	Annotated image.Image

	State State

	// DifferencePercent is the summed channel distance as a percentage of the
	// maximum possible (0-100). It is 100 for SizeMismatch.
	DifferencePercent float64

	// Rectangles are the merged, non-overlapping difference regions. Empty
	// unless State is Mismatch.
	Rectangles []Rectangle
}
