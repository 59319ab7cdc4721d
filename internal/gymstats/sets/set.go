package sets

import "time"

// WorkoutSet is one logged set. Pointer fields are nil when not recorded,
// which differs from a recorded zero.
type WorkoutSet struct {
	ID               int               `json:"id"`
	WorkoutID        string            `json:"workoutId"`
	ExerciseName     string            `json:"exerciseName"`
	Reps             *int              `json:"reps,omitempty"`
	Weight           *float64          `json:"weight,omitempty"`
	AssistanceWeight *float64          `json:"assistanceWeight,omitempty"`
	DurationSeconds  *int              `json:"durationSeconds,omitempty"`
	Distance         *float64          `json:"distance,omitempty"`
	Completed        bool              `json:"completed"`
	TargetReps       *int              `json:"targetReps,omitempty"`
	TargetWeight     *float64          `json:"targetWeight,omitempty"`
	Metadata         map[string]string `json:"metadata"`
	CreatedAt        time.Time         `json:"createdAt"`
}

type ListParams struct {
	ExerciseName  string
	WorkoutID     string
	From          *time.Time
	To            *time.Time
	OnlyCompleted bool
}
