package services

import "math"

// poissonPMF computes P(X = k) for X ~ Poisson(lambda). A rate of zero or
// below degenerates to all mass at zero.
func poissonPMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	if lambda <= 0 {
		if k == 0 {
			return 1
		}
		return 0
	}
	// Log-space evaluation keeps large k and lambda from overflowing k!
	lg, _ := math.Lgamma(float64(k) + 1)
	return math.Exp(float64(k)*math.Log(lambda) - lambda - lg)
}

// poissonCDF computes P(X <= k), clamped to [0,1] to absorb floating-point
// drift in the partial sum.
func poissonCDF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += poissonPMF(i, lambda)
	}
	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// overUnder splits a line into its over/under probabilities:
// P(over) = P(X >= floor(line)+1), P(under) = P(X <= floor(line)).
// Complementary by construction.
func overUnder(lambda, line float64) (over, under float64) {
	k := int(math.Floor(line))
	under = poissonCDF(k, lambda)
	return 1 - under, under
}
