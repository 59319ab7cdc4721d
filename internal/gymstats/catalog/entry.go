package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"
)

var ErrInvalidEntry = errors.New("invalid catalog entry")

// Entry is the static description of an exercise. The analyzer needs it to pick
// weight increments, movement caps and whether weights apply at all.
type Entry struct {
	Name         string                `json:"name"`
	MuscleGroup  string                `json:"muscleGroup"`
	Equipment    suggest.EquipmentType `json:"equipment"`
	ExerciseType suggest.ExerciseType  `json:"exerciseType"`
	IsCompound   bool                  `json:"isCompound"`
	CreatedAt    time.Time             `json:"createdAt"`
}

func (e Entry) Exercise() suggest.Exercise {
	return suggest.Exercise{
		Name:       e.Name,
		Equipment:  e.Equipment,
		Type:       e.ExerciseType,
		IsCompound: e.IsCompound,
	}
}

// Normalize fills the defaults and validates the entry.
func (e *Entry) Normalize() error {
	e.Name = strings.TrimSpace(e.Name)
	e.MuscleGroup = strings.ToLower(strings.TrimSpace(e.MuscleGroup))
	if e.Name == "" || e.MuscleGroup == "" {
		return fmt.Errorf("%w: name and muscle group required", ErrInvalidEntry)
	}
	if e.ExerciseType == "" {
		e.ExerciseType = suggest.ExerciseTypeWeightReps
	}
	if e.Equipment == "" {
		e.Equipment = suggest.EquipmentOther
	}
	if !e.Equipment.IsValid() {
		return fmt.Errorf("%w: unknown equipment %q", ErrInvalidEntry, e.Equipment)
	}
	if !e.ExerciseType.IsValid() {
		return fmt.Errorf("%w: unknown exercise type %q", ErrInvalidEntry, e.ExerciseType)
	}
	return nil
}
