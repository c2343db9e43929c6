package util

import (
	"sort"
)

// Statistical primitives shared by the profile builder and the echo score
// calculator.

// Median returns the middle value of the series, averaging the two middle
// values for even lengths. Empty input returns 0.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// GiniIndex computes the Gini coefficient of the series:
//
//	G = Σᵢ (2(i+1) − n − 1)·vᵢ / (n²·mean)
//
// over ascending-sorted values. It is only meaningful for non-negative
// series with positive mass; a non-positive mean returns 0. A series of
// identical values returns 0, maximal inequality approaches 1.
func GiniIndex(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var sum, weighted float64
	for i, v := range sorted {
		sum += v
		weighted += float64(2*(i+1)-n-1) * v
	}

	mean := sum / float64(n)
	if mean <= 0 {
		return 0
	}

	return weighted / (float64(n*n) * mean)
}

// LinearSlope returns the least-squares regression slope of the series
// against its index order. Fewer than two points yield 0.
func LinearSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}

	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (fn*sumXY - sumX*sumY) / denom
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	if v < 0 {
		return float64(int64(v*100-0.5)) / 100
	}
	return float64(int64(v*100+0.5)) / 100
}
