package suggest

import (
	"math"
)

// classify detects the dominant pattern of a chronological series of data points.
// The first matching rule wins: deload, progressive overload, rep cycling, stable.
func (a *Analyzer) classify(points []ExerciseDataPoint, ex Exercise) (PatternAnalysis, error) {
	sign := loadSign(ex.Type)

	tops := make([]float64, len(points))
	reps := make([]float64, len(points))
	for i, p := range points {
		tops[i] = p.TopWeight
		reps[i] = p.AvgReps
	}

	reg, err := linearRegression(tops)
	if err != nil {
		return PatternAnalysis{}, err
	}

	cycling := len(points) >= a.opts.RepCyclingMinSessions &&
		stdDev(reps) > a.opts.RepCyclingMinStdDev &&
		a.isFlat(tops)
	period := 0
	if cycling {
		period = cyclePeriod(reps)
	}

	// a light day that recurs with the rep cycle is not a deload
	if drop, ok := a.deloadDrop(points); ok && !a.dropRecurs(points, period) {
		return PatternAnalysis{
			Pattern:    Deload{VolumeDropRatio: cleanFloat(drop)},
			Confidence: a.opts.DeloadConfidence,
			DataPoints: points,
		}, nil
	}

	minRSquared := a.opts.IsolationMinRSquared
	if ex.IsCompound {
		minRSquared = a.opts.CompoundMinRSquared
	}
	if sign*reg.slope > epsilon && reg.rSquared >= minRSquared {
		return PatternAnalysis{
			Pattern: ProgressiveOverload{
				Slope:    cleanFloat(reg.slope),
				RSquared: cleanFloat(reg.rSquared),
			},
			Confidence: clamp01(reg.rSquared),
			DataPoints: points,
		}, nil
	}

	if cycling {
		return PatternAnalysis{
			Pattern: RepCycling{
				RepStdDev: cleanFloat(stdDev(reps)),
				Period:    period,
			},
			Confidence: a.opts.RepCyclingConfidence,
			DataPoints: points,
		}, nil
	}

	return PatternAnalysis{
		Pattern:    Stable{},
		Confidence: a.opts.StableConfidence,
		DataPoints: points,
	}, nil
}

// deloadDrop reports how much the last session volume fell under the trailing
// average, when that fall is not explained by a long gap between sessions.
func (a *Analyzer) deloadDrop(points []ExerciseDataPoint) (float64, bool) {
	n := len(points)
	if n < 2 {
		return 0, false
	}

	last := points[n-1]
	previous := points[n-2]
	if last.Date.Sub(previous.Date) > a.opts.DeloadExplainedGap {
		return 0, false
	}

	trailing := make([]float64, 0, n-1)
	for _, p := range points[:n-1] {
		trailing = append(trailing, p.TotalVolume)
	}
	avg := mean(trailing)
	if avg <= 0 {
		return 0, false
	}

	if last.TotalVolume >= (1-a.opts.DeloadVolumeDrop)*avg {
		return 0, false
	}
	return 1 - last.TotalVolume/avg, true
}

// dropRecurs reports whether the session one cycle before the last one was
// just as light, compared to the sessions preceding it.
func (a *Analyzer) dropRecurs(points []ExerciseDataPoint, period int) bool {
	n := len(points)
	if period <= 0 || n-1-period < 1 {
		return false
	}
	_, ok := a.deloadDrop(points[:n-period])
	return ok
}

func (a *Analyzer) isFlat(tops []float64) bool {
	m := mean(tops)
	if m <= 0 {
		return true
	}
	lowest, highest := tops[0], tops[0]
	for _, t := range tops {
		lowest = math.Min(lowest, t)
		highest = math.Max(highest, t)
	}
	return (highest-lowest)/m <= a.opts.FlatWeightTolerance+epsilon
}

// cyclePeriod finds the lag (in sessions) at which the rep scheme repeats best.
func cyclePeriod(reps []float64) int {
	best, bestScore := 2, math.Inf(1)
	for lag := 2; lag <= len(reps)/2; lag++ {
		var diff float64
		for i := lag; i < len(reps); i++ {
			diff += math.Abs(reps[i] - reps[i-lag])
		}
		score := diff / float64(len(reps)-lag)
		if score < bestScore-epsilon {
			best, bestScore = lag, score
		}
	}
	return best
}

// loadSign is +1 when more load means a harder set and -1 for assistance weights.
func loadSign(t ExerciseType) float64 {
	if t == ExerciseTypeAssistedBodyweight {
		return -1
	}
	return 1
}
