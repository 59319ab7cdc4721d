package suggest

import (
	"math"
)

// adapt adjusts the sets still ahead in the active workout, based on how the
// completed ones went compared to their targets. Adjustments compound in the
// order the sets were completed, and the result stays within the movement caps
// relative to its base: the pre-adaptation suggestion, or the weight actually
// lifted when the latest completed set went off plan.
func (a *Analyzer) adapt(ex Exercise, planned []SuggestedSet, done []SessionSet) ([]SuggestedSet, []Adjustment) {
	out := make([]SuggestedSet, len(planned))
	copy(out, planned)

	factor := 1.0
	lifted := 0.0
	var adjustments []Adjustment
	for i, set := range done {
		if set.Weight > 0 {
			lifted = offPlanWeight(set, planned, i)
		}

		target := set.TargetReps
		if target <= 0 && i < len(planned) {
			target = planned[i].Reps
		}
		if target <= 0 {
			continue
		}

		switch diff := set.Reps - target; {
		case diff >= a.opts.EasyMargin:
			factor *= 1 + a.opts.EasyBump
			adjustments = append(adjustments, Adjustment{
				AfterSet: i + 1,
				Reason:   AdjustmentEasy,
				Factor:   cleanFloat(1 + a.opts.EasyBump),
			})
		case -diff >= a.opts.MissMargin:
			factor *= 1 - a.opts.MissReduction
			adjustments = append(adjustments, Adjustment{
				AfterSet: i + 1,
				Reason:   AdjustmentMiss,
				Factor:   cleanFloat(1 - a.opts.MissReduction),
			})
		}
	}

	if len(adjustments) == 0 || len(done) >= len(out) {
		return out, adjustments
	}

	frac := factor - 1
	capFrac := a.opts.MaxDecrease
	if frac > 0 {
		capFrac = a.increaseCap(ex)
	}
	frac = math.Max(-capFrac, math.Min(capFrac, frac))

	inc := IncrementFor(a.opts.Unit, ex.Equipment)
	sign := loadSign(ex.Type)
	for i := len(done); i < len(out); i++ {
		if lifted > 0 {
			out[i].Weight = inc.Round(lifted, sign < 0)
		}
		if w, ok := a.shift(inc, sign, out[i].Weight, frac, capFrac); ok {
			out[i].Weight = w
		}
	}
	return out, adjustments
}

// offPlanWeight returns the weight of a completed set when it differs from the
// one the set was given, or zero when the lifter stuck to the plan.
func offPlanWeight(set SessionSet, planned []SuggestedSet, i int) float64 {
	target := set.TargetWeight
	if target <= 0 && i < len(planned) {
		target = planned[i].Weight
	}
	if target <= 0 || math.Abs(set.Weight-target) < epsilon {
		return 0
	}
	return set.Weight
}
