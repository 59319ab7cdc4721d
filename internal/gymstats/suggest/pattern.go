package suggest

import "encoding/json"

// PatternKind can be one of:
//   - progressive_overload
//   - rep_cycling
//   - deload
//   - stable
//   - fallback
//   - not_applicable
type PatternKind string

const (
	PatternProgressiveOverload PatternKind = "progressive_overload"
	PatternRepCycling          PatternKind = "rep_cycling"
	PatternDeload              PatternKind = "deload"
	PatternStable              PatternKind = "stable"
	PatternFallback            PatternKind = "fallback"
	PatternNotApplicable       PatternKind = "not_applicable"
)

func (pk PatternKind) String() string {
	return string(pk)
}

type FallbackReason string

const (
	FallbackNoHistory        FallbackReason = "no_history"
	FallbackInsufficientData FallbackReason = "insufficient_data"
	FallbackStaleHistory     FallbackReason = "stale_history"
	FallbackComputationError FallbackReason = "computation_error"
)

// Pattern is the detected training pattern. Each variant carries only the
// fields relevant to it.
type Pattern interface {
	Kind() PatternKind
	isPattern()
}

type ProgressiveOverload struct {
	Slope    float64 `json:"slope"`
	RSquared float64 `json:"rSquared"`
}

type Deload struct {
	VolumeDropRatio float64 `json:"volumeDropRatio"`
}

type RepCycling struct {
	RepStdDev float64 `json:"repStdDev"`
	Period    int     `json:"period"`
}

type Stable struct{}

type Fallback struct {
	Reason FallbackReason `json:"reason"`
}

type NotApplicable struct {
	ExerciseType ExerciseType `json:"exerciseType"`
}

func (ProgressiveOverload) Kind() PatternKind { return PatternProgressiveOverload }
func (Deload) Kind() PatternKind              { return PatternDeload }
func (RepCycling) Kind() PatternKind          { return PatternRepCycling }
func (Stable) Kind() PatternKind              { return PatternStable }
func (Fallback) Kind() PatternKind            { return PatternFallback }
func (NotApplicable) Kind() PatternKind       { return PatternNotApplicable }

func (ProgressiveOverload) isPattern() {}
func (Deload) isPattern()              {}
func (RepCycling) isPattern()          {}
func (Stable) isPattern()              {}
func (Fallback) isPattern()            {}
func (NotApplicable) isPattern()       {}

type PatternAnalysis struct {
	Pattern    Pattern
	Confidence float64
	DataPoints []ExerciseDataPoint
}

func (pa PatternAnalysis) Kind() PatternKind {
	if pa.Pattern == nil {
		return PatternFallback
	}
	return pa.Pattern.Kind()
}

func (pa PatternAnalysis) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Pattern    PatternKind         `json:"pattern"`
		Details    Pattern             `json:"details,omitempty"`
		Confidence float64             `json:"confidence"`
		DataPoints []ExerciseDataPoint `json:"dataPoints"`
	}{
		Pattern:    pa.Kind(),
		Details:    pa.Pattern,
		Confidence: pa.Confidence,
		DataPoints: pa.DataPoints,
	})
}
