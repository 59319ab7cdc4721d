package suggest

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
)

// Analyzer infers the recent training pattern of an exercise from its history and
// proposes the next sets. It holds no mutable state and is safe for concurrent use.
type Analyzer struct {
	opts Options
}

func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{
		opts: opts.withDefaults(),
	}
}

func (a *Analyzer) Options() Options {
	return a.opts
}

// analysis is the outcome of the history stage, before any targets are computed.
type analysis struct {
	sessions []session // all valid sessions, chronological
	window   []session // the ones the pattern was derived from
	result   PatternAnalysis
}

// Analyze classifies the history of the requested exercise without proposing sets.
func (a *Analyzer) Analyze(req Request) (pa PatternAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("analyze [%s]: recovered: %v", req.Exercise.Name, r)
			pa = PatternAnalysis{Pattern: Fallback{Reason: FallbackComputationError}}
		}
	}()
	return a.analyze(req).result
}

func (a *Analyzer) analyze(req Request) analysis {
	ex := req.Exercise
	if !ex.Type.HasResistanceSignal() {
		return analysis{
			result: PatternAnalysis{Pattern: NotApplicable{ExerciseType: ex.Type}},
		}
	}

	sessions := normalizeHistory(ex.Name, ex.Type, req.History)
	if len(sessions) == 0 {
		return analysis{
			result: PatternAnalysis{Pattern: Fallback{Reason: FallbackNoHistory}},
		}
	}

	last := sessions[len(sessions)-1]
	now := req.Now
	if now.IsZero() {
		now = last.date
	}

	// a long break invalidates any trend, whatever the history says
	if now.Sub(last.date) > a.opts.StalenessThreshold {
		return analysis{
			sessions: sessions,
			window:   sessions[len(sessions)-1:],
			result:   PatternAnalysis{Pattern: Fallback{Reason: FallbackStaleHistory}},
		}
	}

	inWindow := window(sessions, now, a.opts.LookbackWindow, a.opts.MaxSessions)
	points := aggregate(inWindow, loadSign(ex.Type))
	if len(inWindow) < a.opts.MinSessions {
		return analysis{
			sessions: sessions,
			window:   inWindow,
			result: PatternAnalysis{
				Pattern:    Fallback{Reason: FallbackInsufficientData},
				DataPoints: points,
			},
		}
	}

	pa, err := a.classify(points, ex)
	if err != nil {
		log.Warnf("suggest [%s]: classify: %s", ex.Name, err)
		return analysis{
			sessions: sessions,
			window:   inWindow,
			result: PatternAnalysis{
				Pattern:    Fallback{Reason: FallbackComputationError},
				DataPoints: points,
			},
		}
	}

	return analysis{
		sessions: sessions,
		window:   inWindow,
		result:   pa,
	}
}

// Suggest proposes the next sets for the requested exercise. It always returns a
// well-formed result; anything unexpected degrades to repeating the last known sets.
func (a *Analyzer) Suggest(req Request) (res *SmartSuggestionResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("suggest [%s]: recovered: %v", req.Exercise.Name, r)
			res = a.safeFallback(req)
		}
	}()

	an := a.analyze(req)
	res = &SmartSuggestionResult{
		Exercise: req.Exercise.Name,
		Sets:     []SuggestedSet{},
		Pattern:  an.result.Kind(),
		Analysis: &an.result,
	}

	switch p := an.result.Pattern.(type) {
	case NotApplicable:
		return res
	case Fallback:
		res.FallbackReason = p.Reason
		if len(an.sessions) > 0 {
			last := an.sessions[len(an.sessions)-1]
			res.Sets = last.suggestedSets()
			res.BasedOnSets = len(last.sets)
		}
	default:
		res.Sets = a.targets(req.Exercise, an)
		res.BasedOnSets = totalSets(an.window)
		res.Confidence = clamp01(an.result.Confidence)
	}

	if len(req.CurrentSession) > 0 && len(res.Sets) > 0 {
		res.Sets, res.Adjustments = a.adapt(req.Exercise, res.Sets, req.CurrentSession)
		res.Adapted = len(res.Adjustments) > 0
	}

	return res
}

// safeFallback repeats the latest completed session without going through the analysis.
func (a *Analyzer) safeFallback(req Request) *SmartSuggestionResult {
	res := &SmartSuggestionResult{
		Exercise:       req.Exercise.Name,
		Sets:           []SuggestedSet{},
		Pattern:        PatternFallback,
		FallbackReason: FallbackComputationError,
		Analysis: &PatternAnalysis{
			Pattern: Fallback{Reason: FallbackComputationError},
		},
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("suggest [%s]: safe fallback: %v", req.Exercise.Name, fmt.Sprint(r))
			}
		}()
		sessions := normalizeHistory(req.Exercise.Name, req.Exercise.Type, req.History)
		if len(sessions) > 0 {
			last := sessions[len(sessions)-1]
			res.Sets = last.suggestedSets()
			res.BasedOnSets = len(last.sets)
		}
	}()

	return res
}

// targets computes the next session sets from the most recent session in the window.
// The set count always matches that session.
func (a *Analyzer) targets(ex Exercise, an analysis) []SuggestedSet {
	last := an.window[len(an.window)-1]
	sets := last.suggestedSets()
	inc := IncrementFor(a.opts.Unit, ex.Equipment)
	sign := loadSign(ex.Type)
	increaseCap := a.increaseCap(ex)

	switch p := an.result.Pattern.(type) {
	case ProgressiveOverload:
		points := an.result.DataPoints
		frac := 0.0
		if lastTop := points[len(points)-1].TopWeight; lastTop > 0 {
			frac = math.Min(sign*p.Slope/lastTop, increaseCap)
		}
		for i := range sets {
			w, ok := a.shift(inc, sign, sets[i].Weight, frac, increaseCap)
			if ok {
				sets[i].Weight = w
				continue
			}
			// the increment is too coarse for the trend: add a rep instead
			sets[i].Reps++
		}

	case Deload:
		for i := range sets {
			w, ok := a.shift(inc, sign, sets[i].Weight, -a.opts.DeloadReduction, a.opts.MaxDecrease)
			if ok {
				sets[i].Weight = w
				continue
			}
			cut := int(math.Max(1, math.Round(float64(sets[i].Reps)*a.opts.DeloadRepCut)))
			sets[i].Reps -= cut
		}

	case RepCycling:
		ref := an.window[len(an.window)-p.Period]
		for i := range sets {
			j := min(i, len(ref.sets)-1)
			sets[i].Reps = ref.sets[j].reps
		}

	case Stable:
		// repeat
	}

	// weights carried over from history may sit off the equipment increment
	for i := range sets {
		sets[i].Reps = a.clampReps(sets[i].Reps)
		sets[i].Weight = inc.Round(math.Max(0, sets[i].Weight), sign < 0)
	}
	return sets
}

// shift moves base by frac (positive means harder) and quantizes it. The result
// must stay strictly on the requested side of base and within capFrac of it;
// ok is false when no quantized weight fits.
func (a *Analyzer) shift(inc WeightIncrement, sign, base, frac, capFrac float64) (float64, bool) {
	if base <= 0 || frac == 0 || capFrac <= 0 {
		return base, false
	}

	dir := 1.0
	if frac < 0 {
		dir = -1.0
	}
	target := base * (1 + sign*frac)
	bound := base * (1 + sign*dir*capFrac)
	lo, hi := math.Min(base, bound), math.Max(base, bound)

	for _, c := range inc.candidates(target, sign < 0) {
		if c < 0 || c < lo-epsilon || c > hi+epsilon {
			continue
		}
		if math.Abs(c-base) < epsilon {
			continue
		}
		return c, true
	}
	return base, false
}

func (a *Analyzer) increaseCap(ex Exercise) float64 {
	if ex.IsCompound {
		return a.opts.CompoundMaxIncrease
	}
	return a.opts.IsolationMaxIncrease
}

func (a *Analyzer) clampReps(reps int) int {
	return max(a.opts.MinReps, min(a.opts.MaxReps, reps))
}
