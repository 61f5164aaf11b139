package domain

import "cmp"

// Location is an integer grid coordinate used as the identity of every
// node in a Region. Two locations with the same x and y are the same place.
type Location struct {
	X int
	Y int
}

// Compare orders locations by X then Y, giving every node set and edge
// list a single deterministic ordering regardless of map iteration order.
func (l Location) Compare(other Location) int {
	if c := cmp.Compare(l.X, other.X); c != 0 {
		return c
	}
	return cmp.Compare(l.Y, other.Y)
}

func (l Location) Less(other Location) bool {
	return l.Compare(other) < 0
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// EuclideanDistance is the default DistanceCalculator: straight-line
// distance between two locations, truncated to an integer tick count.
func EuclideanDistance(a, b Location) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	d := dx*dx + dy*dy
	return isqrt(d)
}

// ManhattanDistance sums the axis-aligned offsets between two locations.
// Offered alongside EuclideanDistance as a second stock DistanceCalculator
// for grid-like regions where diagonal travel is not possible.
func ManhattanDistance(a, b Location) int {
	return absInt(a.X-b.X) + absInt(a.Y-b.Y)
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
