package kpi

import (
	"math"
	"slices"
)

// Sum adds up the values of a slice.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the arithmetic mean, false for an empty slice.
func Mean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	return Sum(values) / float64(len(values)), true
}

// Std returns the sample standard deviation (n-1), false below 2 values.
func Std(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	mean, _ := Mean(values)
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1)), true
}

// Median finds the median value in a slice of floats.
func Median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2], true
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0, true
}

// MinMax returns the smallest and largest values, false for an empty slice.
func MinMax(values []float64) (float64, float64, bool) {
	if len(values) == 0 {
		return 0, 0, false
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
	return lo, hi, true
}

// Percentile computes the p-th percentile (0..100) with linear interpolation.
func Percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	if p <= 0 {
		return temp[0], true
	}
	if p >= 100 {
		return temp[len(temp)-1], true
	}
	rank := p / 100 * float64(len(temp)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return temp[lo], true
	}
	frac := rank - float64(lo)
	return temp[lo] + (temp[hi]-temp[lo])*frac, true
}

// Pearson computes the Pearson correlation coefficient of two row-aligned
// samples. Requires at least 2 pairs and non-zero variance on both sides.
func Pearson(xs, ys []float64) (float64, bool) {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return 0, false
	}
	meanX, _ := Mean(xs)
	meanY, _ := Mean(ys)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
