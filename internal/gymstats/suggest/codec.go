package suggest

import (
	"encoding/json"
	"fmt"
	"time"
)

func (dp *ExerciseDataPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date        int64   `json:"date"`
		AvgWeight   float64 `json:"avgWeight"`
		AvgReps     float64 `json:"avgReps"`
		TopWeight   float64 `json:"topWeight"`
		TopReps     int     `json:"topReps"`
		TotalSets   int     `json:"totalSets"`
		TotalVolume float64 `json:"totalVolume"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*dp = ExerciseDataPoint{
		Date:        time.UnixMilli(raw.Date).UTC(),
		AvgWeight:   raw.AvgWeight,
		AvgReps:     raw.AvgReps,
		TopWeight:   raw.TopWeight,
		TopReps:     raw.TopReps,
		TotalSets:   raw.TotalSets,
		TotalVolume: raw.TotalVolume,
	}
	return nil
}

// UnmarshalJSON restores the pattern variant from its kind tag.
func (pa *PatternAnalysis) UnmarshalJSON(data []byte) error {
	var raw struct {
		Pattern    PatternKind         `json:"pattern"`
		Details    json.RawMessage     `json:"details"`
		Confidence float64             `json:"confidence"`
		DataPoints []ExerciseDataPoint `json:"dataPoints"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var p Pattern
	switch raw.Pattern {
	case PatternProgressiveOverload:
		p = &ProgressiveOverload{}
	case PatternDeload:
		p = &Deload{}
	case PatternRepCycling:
		p = &RepCycling{}
	case PatternStable:
		p = &Stable{}
	case PatternFallback:
		p = &Fallback{}
	case PatternNotApplicable:
		p = &NotApplicable{}
	default:
		return fmt.Errorf("unknown pattern: %q", raw.Pattern)
	}
	if len(raw.Details) > 0 && string(raw.Details) != "null" {
		if err := json.Unmarshal(raw.Details, p); err != nil {
			return fmt.Errorf("pattern %s details: %w", raw.Pattern, err)
		}
	}

	*pa = PatternAnalysis{
		Pattern:    deref(p),
		Confidence: raw.Confidence,
		DataPoints: raw.DataPoints,
	}
	return nil
}

// deref turns the decoding pointer back into the value variant the analyzer produces.
func deref(p Pattern) Pattern {
	switch v := p.(type) {
	case *ProgressiveOverload:
		return *v
	case *Deload:
		return *v
	case *RepCycling:
		return *v
	case *Stable:
		return *v
	case *Fallback:
		return *v
	case *NotApplicable:
		return *v
	}
	return p
}
