package scoring

// Range is a closed target interval for min–max scaling.
type Range struct {
	Min float64
	Max float64
}

var (
	// UnitRange is the target of per-feature normalization.
	UnitRange = Range{Min: 0, Max: 1}

	// ScoreRange is the target of the final score rescale.
	ScoreRange = Range{Min: 0, Max: 1000}
)

// MinMax linearly rescales values so the smallest maps to target.Min and the
// largest to target.Max. When all values are equal every output is target.Min.
// Returns a new slice; values is not modified.
func MinMax(values []float64, target Range) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := hi - lo
	if span == 0 {
		for i := range out {
			out[i] = target.Min
		}
		return out
	}

	scale := (target.Max - target.Min) / span
	for i, v := range values {
		s := target.Min + (v-lo)*scale
		// rounding can push the extremes a hair outside the target
		if s < target.Min {
			s = target.Min
		} else if s > target.Max {
			s = target.Max
		}
		out[i] = s
	}
	return out
}
