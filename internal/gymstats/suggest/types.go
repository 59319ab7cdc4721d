package suggest

import (
	"encoding/json"
	"time"
)

type EquipmentType string

const (
	EquipmentBarbell      EquipmentType = "barbell"
	EquipmentEZBar        EquipmentType = "ez_bar"
	EquipmentTrapBar      EquipmentType = "trap_bar"
	EquipmentSmithMachine EquipmentType = "smith_machine"
	EquipmentDumbbell     EquipmentType = "dumbbell"
	EquipmentKettlebell   EquipmentType = "kettlebell"
	EquipmentMachine      EquipmentType = "machine"
	EquipmentCable        EquipmentType = "cable"
	EquipmentBodyweight   EquipmentType = "bodyweight"
	EquipmentBand         EquipmentType = "band"
	EquipmentOther        EquipmentType = "other"
)

func (et EquipmentType) IsValid() bool {
	switch et {
	case EquipmentBarbell, EquipmentEZBar, EquipmentTrapBar, EquipmentSmithMachine,
		EquipmentDumbbell, EquipmentKettlebell, EquipmentMachine, EquipmentCable,
		EquipmentBodyweight, EquipmentBand, EquipmentOther:
		return true
	default:
		return false
	}
}

// ExerciseType tells which field of a set carries the training signal.
type ExerciseType string

const (
	ExerciseTypeWeightReps         ExerciseType = "weight_reps"
	ExerciseTypeAssistedBodyweight ExerciseType = "assisted_bodyweight"
	ExerciseTypeRepsOnly           ExerciseType = "reps_only"
	ExerciseTypeDuration           ExerciseType = "duration"
	ExerciseTypeDistance           ExerciseType = "distance"
	ExerciseTypeCardio             ExerciseType = "cardio"
)

func (et ExerciseType) IsValid() bool {
	switch et {
	case ExerciseTypeWeightReps, ExerciseTypeAssistedBodyweight, ExerciseTypeRepsOnly,
		ExerciseTypeDuration, ExerciseTypeDistance, ExerciseTypeCardio:
		return true
	default:
		return false
	}
}

// HasResistanceSignal reports whether weight suggestions make sense for the type.
func (et ExerciseType) HasResistanceSignal() bool {
	return et == ExerciseTypeWeightReps || et == ExerciseTypeAssistedBodyweight
}

type Exercise struct {
	Name       string        `json:"name"`
	Equipment  EquipmentType `json:"equipment"`
	Type       ExerciseType  `json:"type"`
	IsCompound bool          `json:"isCompound"`
}

// Set is a single logged set as stored by the history collaborator.
// Pointer fields are nil when the value was never recorded.
type Set struct {
	Reps             *int           `json:"reps,omitempty"`
	Weight           *float64       `json:"weight,omitempty"`
	AssistanceWeight *float64       `json:"assistanceWeight,omitempty"`
	Duration         *time.Duration `json:"duration,omitempty"`
	Distance         *float64       `json:"distance,omitempty"`
	Completed        bool           `json:"completed"`
}

type Session struct {
	Date time.Time `json:"date"`
	Sets []Set     `json:"sets"`
}

// SessionSet is a set completed in the active workout, next to the target it was given.
type SessionSet struct {
	TargetReps   int     `json:"targetReps"`
	TargetWeight float64 `json:"targetWeight"`
	Reps         int     `json:"reps"`
	Weight       float64 `json:"weight"`
}

type Request struct {
	Exercise       Exercise     `json:"exercise"`
	History        []Session    `json:"history"`
	CurrentSession []SessionSet `json:"currentSession"`
	Now            time.Time    `json:"now"`
}

// ExerciseDataPoint aggregates one session of one exercise.
type ExerciseDataPoint struct {
	Date        time.Time
	AvgWeight   float64
	AvgReps     float64
	TopWeight   float64
	TopReps     int
	TotalSets   int
	TotalVolume float64
}

func (dp ExerciseDataPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date        int64   `json:"date"`
		AvgWeight   float64 `json:"avgWeight"`
		AvgReps     float64 `json:"avgReps"`
		TopWeight   float64 `json:"topWeight"`
		TopReps     int     `json:"topReps"`
		TotalSets   int     `json:"totalSets"`
		TotalVolume float64 `json:"totalVolume"`
	}{
		Date:        dp.Date.UnixMilli(),
		AvgWeight:   dp.AvgWeight,
		AvgReps:     dp.AvgReps,
		TopWeight:   dp.TopWeight,
		TopReps:     dp.TopReps,
		TotalSets:   dp.TotalSets,
		TotalVolume: dp.TotalVolume,
	})
}

type SuggestedSet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// Adjustment records one intra-session change applied after a completed set.
type Adjustment struct {
	AfterSet int     `json:"afterSet"`
	Reason   string  `json:"reason"`
	Factor   float64 `json:"factor"`
}

const (
	AdjustmentEasy = "easy"
	AdjustmentMiss = "significant_miss"
)

type SmartSuggestionResult struct {
	Exercise       string           `json:"exercise"`
	Sets           []SuggestedSet   `json:"sets"`
	BasedOnSets    int              `json:"basedOnSets"`
	Pattern        PatternKind      `json:"pattern"`
	Confidence     float64          `json:"confidence"`
	FallbackReason FallbackReason   `json:"fallbackReason,omitempty"`
	Adapted        bool             `json:"adapted"`
	Adjustments    []Adjustment     `json:"adjustments,omitempty"`
	Analysis       *PatternAnalysis `json:"analysis,omitempty"`
}
