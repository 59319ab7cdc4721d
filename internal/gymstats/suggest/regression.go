package suggest

import (
	"errors"
	"math"
)

var errNotEnoughPoints = errors.New("at least 2 points are required for a regression")

type regression struct {
	slope     float64
	intercept float64
	rSquared  float64
}

// linearRegression fits ys against their index with ordinary least squares.
// A series without variance has no trend to explain and gets an R² of 0.
func linearRegression(ys []float64) (regression, error) {
	if len(ys) < 2 {
		return regression{}, errNotEnoughPoints
	}

	n := float64(len(ys))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range ys {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < epsilon {
		return regression{}, errors.New("all x values are identical")
	}

	slope := (n*sumXY - sumX*sumY) / denominator
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssTot, ssRes float64
	for i, y := range ys {
		predicted := intercept + slope*float64(i)
		ssTot += (y - meanY) * (y - meanY)
		ssRes += (y - predicted) * (y - predicted)
	}

	r := regression{slope: slope, intercept: intercept}
	if ssTot > epsilon {
		r.rSquared = clamp01(1 - ssRes/ssTot)
	}
	return r, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation; 0 for fewer than 2 values.
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sq float64
	for _, v := range values {
		sq += (v - m) * (v - m)
	}
	return math.Sqrt(sq / float64(len(values)))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
