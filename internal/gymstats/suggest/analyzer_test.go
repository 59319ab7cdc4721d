package suggest_test

import (
	"math"
	"slices"
	"testing"
	"time"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	squat = suggest.Exercise{
		Name:       "squat",
		Equipment:  suggest.EquipmentBarbell,
		Type:       suggest.ExerciseTypeWeightReps,
		IsCompound: true,
	}
	firstDay = time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)
)

func intPtr(i int) *int {
	return &i
}

func floatPtr(f float64) *float64 {
	return &f
}

func workSets(n, reps int, weight float64) []suggest.Set {
	sets := make([]suggest.Set, n)
	for i := range sets {
		sets[i] = suggest.Set{
			Reps:      intPtr(reps),
			Weight:    floatPtr(weight),
			Completed: true,
		}
	}
	return sets
}

// history lays the given sessions out every 3 days, starting at firstDay
func history(sessions ...[]suggest.Set) []suggest.Session {
	out := make([]suggest.Session, len(sessions))
	for i, s := range sessions {
		out[i] = suggest.Session{
			Date: firstDay.AddDate(0, 0, 3*i),
			Sets: s,
		}
	}
	return out
}

func dayAfter(h []suggest.Session) time.Time {
	return h[len(h)-1].Date.AddDate(0, 0, 1)
}

func overloadHistory() []suggest.Session {
	return history(
		workSets(3, 5, 185),
		workSets(3, 5, 190),
		workSets(3, 5, 195),
		workSets(3, 5, 200),
	)
}

func TestAnalyzer_Suggest_ProgressiveOverload(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	require.NotNil(t, res)
	assert.Equal(t, "squat", res.Exercise)
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	assert.InDelta(t, 1.0, res.Confidence, 1e-9)
	assert.Equal(t, 12, res.BasedOnSets)
	assert.Empty(t, res.FallbackReason)
	assert.False(t, res.Adapted)
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 5, Weight: 205},
		{Reps: 5, Weight: 205},
		{Reps: 5, Weight: 205},
	}, res.Sets)

	require.NotNil(t, res.Analysis)
	overload, ok := res.Analysis.Pattern.(suggest.ProgressiveOverload)
	require.True(t, ok)
	assert.InDelta(t, 5.0, overload.Slope, 1e-9)
	assert.InDelta(t, 1.0, overload.RSquared, 1e-9)
	assert.Len(t, res.Analysis.DataPoints, 4)
}

func TestAnalyzer_Suggest_ProgressiveOverload_Capped(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(3, 5, 100),
		workSets(3, 5, 120),
		workSets(3, 5, 140),
		workSets(3, 5, 160),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	require.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	for _, s := range res.Sets {
		// +12.5% trend, capped at +5% for compound movements, rounded down
		assert.Equal(t, 165.0, s.Weight)
		assert.LessOrEqual(t, s.Weight, 160*1.05)
	}
}

func TestAnalyzer_Suggest_ProgressiveOverload_AddsRepWhenIncrementTooCoarse(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(3, 5, 100),
		workSets(3, 5, 101),
		workSets(3, 5, 102),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	require.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	for _, s := range res.Sets {
		// 102 is not on the 5 lb grid, so the kept weight rounds down too
		assert.Equal(t, 100.0, s.Weight)
		assert.Equal(t, 6, s.Reps)
	}
}

func TestAnalyzer_Suggest_FewerThanMinSessions(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	last := []suggest.Set{
		{Reps: intPtr(8), Weight: floatPtr(137.5), Completed: true},
		{Reps: intPtr(8), Weight: floatPtr(137.5), Completed: true},
		{Reps: intPtr(6), Weight: floatPtr(137.5), Completed: true},
	}
	h := history(workSets(3, 8, 135), last)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, suggest.FallbackInsufficientData, res.FallbackReason)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, 3, res.BasedOnSets)
	// verbatim, not rounded
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 8, Weight: 137.5},
		{Reps: 8, Weight: 137.5},
		{Reps: 6, Weight: 137.5},
	}, res.Sets)
}

func TestAnalyzer_Suggest_NoHistory(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())

	res := a.Suggest(suggest.Request{Exercise: squat})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, suggest.FallbackNoHistory, res.FallbackReason)
	assert.Equal(t, 0.0, res.Confidence)
	assert.NotNil(t, res.Sets)
	assert.Empty(t, res.Sets)
	assert.Zero(t, res.BasedOnSets)
}

func TestAnalyzer_Suggest_Deload(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(5, 5, 200),
		workSets(5, 5, 200),
		workSets(5, 5, 200),
		workSets(3, 5, 180),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternDeload, res.Pattern)
	assert.InDelta(t, 0.7, res.Confidence, 1e-9)
	require.Len(t, res.Sets, 3)
	for _, s := range res.Sets {
		assert.Less(t, s.Weight, 180.0)
		assert.GreaterOrEqual(t, s.Weight, 180*0.9)
		assert.Equal(t, 165.0, s.Weight)
		assert.Equal(t, 5, s.Reps)
	}

	deload, ok := res.Analysis.Pattern.(suggest.Deload)
	require.True(t, ok)
	// 2700 against a trailing average of 5000
	assert.InDelta(t, 0.46, deload.VolumeDropRatio, 1e-9)
}

func TestAnalyzer_Suggest_DeloadExplainedByGap(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(5, 5, 200),
		workSets(5, 5, 200),
		workSets(5, 5, 200),
	)
	h = append(h, suggest.Session{
		Date: h[2].Date.AddDate(0, 0, 14),
		Sets: workSets(3, 5, 200),
	})

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternStable, res.Pattern)
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 5, Weight: 200},
		{Reps: 5, Weight: 200},
		{Reps: 5, Weight: 200},
	}, res.Sets)
}

func TestAnalyzer_Suggest_RepCycling(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(3, 5, 150),
		workSets(3, 12, 150),
		workSets(3, 5, 150),
		workSets(3, 12, 150),
		workSets(3, 5, 150),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternRepCycling, res.Pattern)
	assert.InDelta(t, 0.6, res.Confidence, 1e-9)
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 12, Weight: 150},
		{Reps: 12, Weight: 150},
		{Reps: 12, Weight: 150},
	}, res.Sets)

	cycling, ok := res.Analysis.Pattern.(suggest.RepCycling)
	require.True(t, ok)
	assert.Equal(t, 2, cycling.Period)
	assert.Greater(t, cycling.RepStdDev, 3.0)
}

func TestAnalyzer_Suggest_StaleHistory(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()
	now := h[len(h)-1].Date.AddDate(0, 0, 30)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: now})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, suggest.FallbackStaleHistory, res.FallbackReason)
	assert.Equal(t, 0.0, res.Confidence)
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 5, Weight: 200},
		{Reps: 5, Weight: 200},
		{Reps: 5, Weight: 200},
	}, res.Sets)
}

func TestAnalyzer_Suggest_ZeroNowUsesLastSession(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()

	res := a.Suggest(suggest.Request{Exercise: squat, History: h})
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
}

func TestAnalyzer_Suggest_LookbackWindow(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()
	// only the last two sessions are within 8 weeks
	now := h[1].Date.AddDate(0, 0, 7*8+1)
	h[2].Date = now.AddDate(0, 0, -10)
	h[3].Date = now.AddDate(0, 0, -5)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: now})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, suggest.FallbackInsufficientData, res.FallbackReason)
	assert.Len(t, res.Analysis.DataPoints, 2)
}

func TestAnalyzer_Suggest_UnorderedHistory(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()
	reversed := slices.Clone(h)
	slices.Reverse(reversed)

	expected := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	res := a.Suggest(suggest.Request{Exercise: squat, History: reversed, Now: dayAfter(h)})
	assert.Equal(t, expected, res)
}

func TestAnalyzer_Suggest_Idempotent(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()
	req := suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)}

	first := a.Suggest(req)
	second := a.Suggest(req)
	assert.Equal(t, first, second)
	// history is left untouched
	assert.Equal(t, overloadHistory(), h)
}

func TestAnalyzer_Suggest_MalformedSessionsExcluded(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	malformed := workSets(3, 5, 999)
	malformed[1].Reps = nil
	h := history(
		workSets(3, 5, 190),
		malformed,
		workSets(3, 5, 195),
		workSets(3, 5, 200),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	assert.Equal(t, 9, res.BasedOnSets)
	assert.Len(t, res.Analysis.DataPoints, 3)
}

func TestAnalyzer_Suggest_MalformedDropsBelowMinimum(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	badWeight := workSets(3, 5, 195)
	badWeight[0].Weight = floatPtr(math.NaN())
	h := history(
		workSets(3, 5, 190),
		badWeight,
		workSets(3, 5, 200),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, suggest.FallbackInsufficientData, res.FallbackReason)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestAnalyzer_Suggest_IgnoresUncompletedSets(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()
	h[3].Sets = append(h[3].Sets, suggest.Set{Completed: false})

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	assert.Len(t, res.Sets, 3)
}

func TestAnalyzer_Suggest_NotApplicable(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	run := suggest.Exercise{
		Name:      "treadmill",
		Equipment: suggest.EquipmentMachine,
		Type:      suggest.ExerciseTypeCardio,
	}

	res := a.Suggest(suggest.Request{Exercise: run, History: overloadHistory()})
	assert.Equal(t, suggest.PatternNotApplicable, res.Pattern)
	assert.Equal(t, 0.0, res.Confidence)
	assert.NotNil(t, res.Sets)
	assert.Empty(t, res.Sets)

	na, ok := res.Analysis.Pattern.(suggest.NotApplicable)
	require.True(t, ok)
	assert.Equal(t, suggest.ExerciseTypeCardio, na.ExerciseType)
}

func TestAnalyzer_Suggest_AssistedLowersAssistance(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	pullUp := suggest.Exercise{
		Name:      "assisted pull-up",
		Equipment: suggest.EquipmentMachine,
		Type:      suggest.ExerciseTypeAssistedBodyweight,
	}
	assisted := func(assistance float64) []suggest.Set {
		sets := make([]suggest.Set, 3)
		for i := range sets {
			sets[i] = suggest.Set{
				Reps:             intPtr(8),
				AssistanceWeight: floatPtr(assistance),
				Completed:        true,
			}
		}
		return sets
	}
	h := history(assisted(100), assisted(90), assisted(80), assisted(70))

	res := a.Suggest(suggest.Request{Exercise: pullUp, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	for _, s := range res.Sets {
		// 10% less assistance is 63, rounded up to the machine increment
		assert.Equal(t, 65.0, s.Weight)
		assert.Equal(t, 8, s.Reps)
	}
}

func TestAnalyzer_Suggest_Kilograms(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.Options{Unit: suggest.UnitKilograms})
	h := history(
		workSets(3, 5, 100),
		workSets(3, 5, 102.5),
		workSets(3, 5, 105),
		workSets(3, 5, 107.5),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	for _, s := range res.Sets {
		assert.Equal(t, 110.0, s.Weight)
	}
}

func TestAnalyzer_Suggest_BodyweightRoundsToNearestUnit(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	dips := suggest.Exercise{
		Name:      "weighted dips",
		Equipment: suggest.EquipmentBodyweight,
		Type:      suggest.ExerciseTypeWeightReps,
	}
	h := history(
		workSets(3, 8, 10),
		workSets(3, 8, 10.7),
		workSets(3, 8, 11.4),
		workSets(3, 8, 12.1),
	)

	res := a.Suggest(suggest.Request{Exercise: dips, History: h, Now: dayAfter(h)})
	require.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
	for _, s := range res.Sets {
		// 12.8 rounds up to the nearest unit
		assert.Equal(t, math.Round(s.Weight), s.Weight)
		assert.Equal(t, 13.0, s.Weight)
	}
}

func TestAnalyzer_Suggest_BarbellRoundingLaw(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	faker := gofakeit.New(42)

	for i := 0; i < 100; i++ {
		start := float64(faker.IntRange(20, 60) * 5)
		step := float64(faker.IntRange(1, 4) * 5)
		h := history(
			workSets(3, 5, start),
			workSets(3, 5, start+step),
			workSets(3, 5, start+2*step),
			workSets(3, 5, start+3*step),
		)
		lastTop := start + 3*step
		computed := lastTop * (1 + math.Min(step/lastTop, 0.05))

		res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
		require.Equal(t, suggest.PatternProgressiveOverload, res.Pattern)
		for _, s := range res.Sets {
			assert.Zero(t, math.Mod(s.Weight, 5), "weight %v", s.Weight)
			assert.LessOrEqual(t, s.Weight, computed+1e-9)
			assert.LessOrEqual(t, s.Weight, lastTop*1.05+1e-9)
			assert.GreaterOrEqual(t, s.Weight, lastTop)
		}
	}
}

func TestAnalyzer_Suggest_BarbellRoundingLaw_CarriedWeights(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())

	tests := []struct {
		name       string
		history    []suggest.Session
		pattern    suggest.PatternKind
		wantWeight float64
		wantReps   int
	}{
		{
			name: "stable",
			history: history(
				workSets(3, 10, 102),
				workSets(3, 10, 102),
				workSets(3, 10, 102),
			),
			pattern:    suggest.PatternStable,
			wantWeight: 100,
			wantReps:   10,
		},
		{
			name: "rep_cycling",
			history: history(
				workSets(3, 5, 152),
				workSets(3, 12, 152),
				workSets(3, 5, 152),
				workSets(3, 12, 152),
				workSets(3, 5, 152),
			),
			pattern:    suggest.PatternRepCycling,
			wantWeight: 150,
			wantReps:   12,
		},
		{
			name: "double_progression",
			history: history(
				workSets(3, 5, 131),
				workSets(3, 5, 132),
				workSets(3, 5, 133),
			),
			pattern:    suggest.PatternProgressiveOverload,
			wantWeight: 130,
			wantReps:   6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := tt.history
			lastWeight := *h[len(h)-1].Sets[0].Weight

			res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
			require.Equal(t, tt.pattern, res.Pattern)
			require.Len(t, res.Sets, 3)
			for _, s := range res.Sets {
				assert.Zero(t, math.Mod(s.Weight, 5), "weight %v", s.Weight)
				assert.LessOrEqual(t, s.Weight, lastWeight)
				assert.Equal(t, tt.wantWeight, s.Weight)
				assert.Equal(t, tt.wantReps, s.Reps)
			}
		})
	}
}

func TestAnalyzer_Suggest_Deload_LightBarbellCutsReps(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(5, 5, 45),
		workSets(5, 5, 45),
		workSets(5, 5, 45),
		workSets(3, 5, 45),
	)

	res := a.Suggest(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	require.Equal(t, suggest.PatternDeload, res.Pattern)
	require.Len(t, res.Sets, 3)
	for _, s := range res.Sets {
		// 40 lb is below the 10% floor of 40.5, so the load drops through reps
		assert.Equal(t, 45.0, s.Weight)
		assert.Equal(t, 4, s.Reps)
	}
}

func stableHistory() []suggest.Session {
	return history(
		workSets(3, 10, 200),
		workSets(3, 10, 200),
		workSets(3, 10, 200),
	)
}

func TestAnalyzer_Suggest_IntraSession_Easy(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := stableHistory()

	res := a.Suggest(suggest.Request{
		Exercise: squat,
		History:  h,
		Now:      dayAfter(h),
		CurrentSession: []suggest.SessionSet{
			{TargetReps: 10, TargetWeight: 200, Reps: 12, Weight: 200},
		},
	})
	assert.Equal(t, suggest.PatternStable, res.Pattern)
	assert.True(t, res.Adapted)
	assert.Equal(t, []suggest.Adjustment{
		{AfterSet: 1, Reason: suggest.AdjustmentEasy, Factor: 1.025},
	}, res.Adjustments)
	assert.Equal(t, []suggest.SuggestedSet{
		{Reps: 10, Weight: 200},
		{Reps: 10, Weight: 205},
		{Reps: 10, Weight: 205},
	}, res.Sets)
}

func TestAnalyzer_Suggest_IntraSession_Miss(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := stableHistory()

	res := a.Suggest(suggest.Request{
		Exercise: squat,
		History:  h,
		Now:      dayAfter(h),
		CurrentSession: []suggest.SessionSet{
			// zero target reps means the suggested ones
			{Reps: 7, Weight: 200},
		},
	})
	assert.True(t, res.Adapted)
	require.Len(t, res.Adjustments, 1)
	assert.Equal(t, suggest.AdjustmentMiss, res.Adjustments[0].Reason)
	assert.Equal(t, 200.0, res.Sets[0].Weight)
	assert.Equal(t, 190.0, res.Sets[1].Weight)
	assert.Equal(t, 190.0, res.Sets[2].Weight)
}

func TestAnalyzer_Suggest_IntraSession_FollowsLiftedWeight(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := stableHistory()

	tests := []struct {
		name   string
		done   suggest.SessionSet
		reason string
		want   float64
	}{
		{
			// 220 * 1.025 = 225.5, rounded down
			name:   "heavier_and_easy",
			done:   suggest.SessionSet{TargetReps: 10, TargetWeight: 200, Reps: 13, Weight: 220},
			reason: suggest.AdjustmentEasy,
			want:   225,
		},
		{
			// 210 * 0.95 = 199.5, rounded down
			name:   "heavier_and_missed",
			done:   suggest.SessionSet{TargetReps: 10, Reps: 7, Weight: 210},
			reason: suggest.AdjustmentMiss,
			want:   195,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Suggest(suggest.Request{
				Exercise:       squat,
				History:        h,
				Now:            dayAfter(h),
				CurrentSession: []suggest.SessionSet{tt.done},
			})
			assert.True(t, res.Adapted)
			require.Len(t, res.Adjustments, 1)
			assert.Equal(t, tt.reason, res.Adjustments[0].Reason)
			require.Len(t, res.Sets, 3)
			assert.Equal(t, 200.0, res.Sets[0].Weight)
			assert.Equal(t, tt.want, res.Sets[1].Weight)
			assert.Equal(t, tt.want, res.Sets[2].Weight)
		})
	}
}

func TestAnalyzer_Suggest_IntraSession_CompoundsWithinCap(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(
		workSets(4, 10, 200),
		workSets(4, 10, 200),
		workSets(4, 10, 200),
	)

	res := a.Suggest(suggest.Request{
		Exercise: squat,
		History:  h,
		Now:      dayAfter(h),
		CurrentSession: []suggest.SessionSet{
			{TargetReps: 10, Reps: 14},
			{TargetReps: 10, Reps: 13},
			{TargetReps: 10, Reps: 15},
		},
	})
	assert.True(t, res.Adapted)
	assert.Len(t, res.Adjustments, 3)
	// 1.025^3 is capped at the 5% compound limit
	assert.Equal(t, 210.0, res.Sets[3].Weight)
}

func TestAnalyzer_Suggest_IntraSession_WithinMargin(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := stableHistory()

	res := a.Suggest(suggest.Request{
		Exercise: squat,
		History:  h,
		Now:      dayAfter(h),
		CurrentSession: []suggest.SessionSet{
			{TargetReps: 10, Reps: 11},
		},
	})
	assert.False(t, res.Adapted)
	assert.Empty(t, res.Adjustments)
	for _, s := range res.Sets {
		assert.Equal(t, 200.0, s.Weight)
	}
}

func TestAnalyzer_Suggest_IntraSession_OnFallback(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := history(workSets(3, 10, 200))

	res := a.Suggest(suggest.Request{
		Exercise: squat,
		History:  h,
		Now:      dayAfter(h),
		CurrentSession: []suggest.SessionSet{
			{TargetReps: 10, Reps: 12},
		},
	})
	assert.Equal(t, suggest.PatternFallback, res.Pattern)
	assert.Equal(t, 0.0, res.Confidence)
	assert.True(t, res.Adapted)
	assert.Equal(t, 205.0, res.Sets[1].Weight)
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.DefaultOptions())
	h := overloadHistory()

	pa := a.Analyze(suggest.Request{Exercise: squat, History: h, Now: dayAfter(h)})
	assert.Equal(t, suggest.PatternProgressiveOverload, pa.Kind())
	require.Len(t, pa.DataPoints, 4)

	last := pa.DataPoints[3]
	assert.Equal(t, 200.0, last.TopWeight)
	assert.Equal(t, 5, last.TopReps)
	assert.Equal(t, 3, last.TotalSets)
	assert.Equal(t, 3000.0, last.TotalVolume)
	assert.Equal(t, 200.0, last.AvgWeight)
	assert.Equal(t, 5.0, last.AvgReps)
}

func TestNewAnalyzer_Defaults(t *testing.T) {
	a := suggest.NewAnalyzer(suggest.Options{MinSessions: 1, DeloadReduction: 0.5})
	opts := a.Options()
	assert.Equal(t, suggest.UnitPounds, opts.Unit)
	assert.Equal(t, 2, opts.MinSessions)
	assert.Equal(t, opts.MaxDecrease, opts.DeloadReduction)
	assert.Equal(t, 20, opts.MaxSessions)
	assert.Equal(t, 21*24*time.Hour, opts.StalenessThreshold)
}
