package job

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// maxRangePoints bounds how many points a single range may expand to.
	maxRangePoints = 100000
	// sweepDigits is the precision sweep values are rounded to, so that
	// 0.1+0.2 is written and read back as 0.3.
	sweepDigits = 12
)

// Range is an inclusive sweep of evaluation points.
type Range struct {
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Incr float64 `json:"incr" yaml:"incr"`
}

// Single returns a range holding exactly one point.
func Single(value float64) Range {
	return Range{Min: value, Max: value}
}

// Resolve expands min, max and incr into an ordered list of points.
//
// A zero increment yields [min] whatever max is. Otherwise points run from
// min in steps of incr while they stay below max+incr/2, so the last point
// survives floating point truncation. Inverted ranges yield nil.
func Resolve(min, max, incr float64) []float64 {
	if incr == 0 {
		return []float64{min}
	}
	n := pointCount(min, max, incr)
	if n <= 0 {
		return nil
	}
	points := make([]float64, n)
	for i := range points {
		points[i] = roundSweep(min + float64(i)*incr)
	}
	return points
}

func pointCount(min, max, incr float64) int {
	if incr == 0 {
		return 1
	}
	count := math.Ceil((max + incr/2 - min) / incr)
	if math.IsNaN(count) || math.IsInf(count, 0) || count <= 0 {
		return 0
	}
	if count > maxRangePoints {
		return maxRangePoints + 1
	}
	return int(count)
}

// Points resolves the range.
func (r Range) Points() []float64 {
	return Resolve(r.Min, r.Max, r.Incr)
}

// Count reports how many points the range resolves to without allocating.
func (r Range) Count() int {
	return pointCount(r.Min, r.Max, r.Incr)
}

// Normalize returns the range reconstructed from its own points. Two ranges
// describing the same sweep normalize to the same value.
func (r Range) Normalize() Range {
	return RangeFromPoints(r.Points())
}

// Validate reports ranges that resolve to no points or to an unbounded
// number of them.
func (r Range) Validate() error {
	switch n := r.Count(); {
	case n == 0:
		return fmt.Errorf("range %s resolves to no points", r)
	case n > maxRangePoints:
		return fmt.Errorf("range %s resolves to more than %d points", r, maxRangePoints)
	}
	return nil
}

func (r Range) String() string {
	return fmt.Sprintf("[%g:%g:%g]", r.Min, r.Max, r.Incr)
}

// RangeFromPoints rebuilds a range from an explicit point list: min is the
// first point, max the last, and incr the mean spacing. A single point
// gives a zero increment.
func RangeFromPoints(points []float64) Range {
	if len(points) == 0 {
		return Range{}
	}
	first, last := points[0], points[len(points)-1]
	div := len(points) - 1
	if div == 0 {
		div = 1
	}
	return Range{Min: first, Max: last, Incr: roundSweep((last - first) / float64(div))}
}

// roundSweep drops the representation noise accumulated by stepping.
func roundSweep(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'g', sweepDigits, 64), 64)
	if err != nil {
		return v
	}
	return r
}
