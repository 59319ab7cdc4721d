package sets

import (
	"cmp"
	"slices"
	"time"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"
)

func chronological(a, b WorkoutSet) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// ToSessions groups logged sets into one session per workout, dated by the first
// set of the workout. Sets of excludeWorkoutID are left out, so the workout in
// progress is never treated as history.
func ToSessions(sets []WorkoutSet, excludeWorkoutID string) []suggest.Session {
	sorted := slices.Clone(sets)
	slices.SortStableFunc(sorted, chronological)

	var sessions []suggest.Session
	index := map[string]int{}
	for _, s := range sorted {
		if s.WorkoutID == "" || (excludeWorkoutID != "" && s.WorkoutID == excludeWorkoutID) {
			continue
		}
		i, ok := index[s.WorkoutID]
		if !ok {
			i = len(sessions)
			index[s.WorkoutID] = i
			sessions = append(sessions, suggest.Session{Date: s.CreatedAt})
		}
		sessions[i].Sets = append(sessions[i].Sets, toSuggestSet(s))
	}
	return sessions
}

func toSuggestSet(s WorkoutSet) suggest.Set {
	out := suggest.Set{
		Reps:             s.Reps,
		Weight:           s.Weight,
		AssistanceWeight: s.AssistanceWeight,
		Distance:         s.Distance,
		Completed:        s.Completed,
	}
	if s.DurationSeconds != nil {
		d := time.Duration(*s.DurationSeconds) * time.Second
		out.Duration = &d
	}
	return out
}

// ToSessionSets returns the completed sets of the active workout in the order they were done.
func ToSessionSets(sets []WorkoutSet) []suggest.SessionSet {
	sorted := slices.Clone(sets)
	slices.SortStableFunc(sorted, chronological)

	out := make([]suggest.SessionSet, 0, len(sorted))
	for _, s := range sorted {
		if !s.Completed || s.Reps == nil {
			continue
		}
		ss := suggest.SessionSet{Reps: *s.Reps}
		if s.TargetReps != nil {
			ss.TargetReps = *s.TargetReps
		}
		if s.TargetWeight != nil {
			ss.TargetWeight = *s.TargetWeight
		}
		switch {
		case s.Weight != nil:
			ss.Weight = *s.Weight
		case s.AssistanceWeight != nil:
			ss.Weight = *s.AssistanceWeight
		}
		out = append(out, ss)
	}
	return out
}
