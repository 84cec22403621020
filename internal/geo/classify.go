package geo

import "math"

// DefaultClosureTolerance is the per-axis distance, in degrees, under which
// the first and last coordinates count as the same point.
const DefaultClosureTolerance = 1e-4

// Classify labels an ordered record list as a point, a line or a closed polygon.
// Only the first and last coordinates are compared; the ring itself is not validated.
func Classify(records []Record, tolerance float64) SetType {
	n := len(records)
	if n <= 1 {
		return Point
	}

	if n >= 3 && SamePoint(records[0].Coordinate, records[n-1].Coordinate, tolerance) {
		return ClosedPolygon
	}

	return Line
}

// SamePoint reports whether a and b differ by at most tolerance on both axes.
func SamePoint(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lon-b.Lon) <= tolerance
}
