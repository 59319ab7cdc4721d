package suggest

import (
	"errors"
	"math"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
)

var (
	errMissingReps = errors.New("missing reps")
	errBadLoad     = errors.New("missing or invalid load")
)

// loggedSet is a completed, validated set reduced to the signal the analyzer uses.
type loggedSet struct {
	reps int
	load float64
}

type session struct {
	date time.Time
	sets []loggedSet
}

// normalizeHistory keeps completed sets only, drops sessions holding a malformed
// completed set and returns the rest in chronological order. The input is not modified.
func normalizeHistory(exerciseName string, exType ExerciseType, history []Session) []session {
	sessions := make([]session, 0, len(history))
	for i, s := range history {
		sets, err := completedSets(exType, s.Sets)
		if err != nil {
			log.Debugf("suggest [%s]: excluding session %d (%s): %s", exerciseName, i, s.Date.Format(time.DateOnly), err)
			continue
		}
		if len(sets) == 0 {
			continue
		}
		sessions = append(sessions, session{date: s.Date, sets: sets})
	}

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].date.Before(sessions[j].date)
	})
	return sessions
}

func completedSets(exType ExerciseType, sets []Set) ([]loggedSet, error) {
	var out []loggedSet
	for _, s := range sets {
		if !s.Completed {
			continue
		}
		if s.Reps == nil || *s.Reps <= 0 {
			return nil, errMissingReps
		}
		load := s.Weight
		if exType == ExerciseTypeAssistedBodyweight {
			load = s.AssistanceWeight
		}
		if load == nil || math.IsNaN(*load) || math.IsInf(*load, 0) || *load < 0 {
			return nil, errBadLoad
		}
		out = append(out, loggedSet{reps: *s.Reps, load: *load})
	}
	return out, nil
}

// aggregate collapses every session into an ExerciseDataPoint. sign is -1 for
// assisted movements, where the lowest assistance is the top set and volume is
// counted in reps.
func aggregate(sessions []session, sign float64) []ExerciseDataPoint {
	points := make([]ExerciseDataPoint, 0, len(sessions))
	for _, s := range sessions {
		dp := ExerciseDataPoint{
			Date:      s.date,
			TotalSets: len(s.sets),
		}

		var sumLoad, sumReps float64
		top := s.sets[0]
		for _, set := range s.sets {
			sumLoad += set.load
			sumReps += float64(set.reps)
			if sign > 0 {
				dp.TotalVolume += set.load * float64(set.reps)
			} else {
				dp.TotalVolume += float64(set.reps)
			}

			if sign*set.load > sign*top.load || (set.load == top.load && set.reps > top.reps) {
				top = set
			}
		}

		dp.AvgWeight = cleanFloat(sumLoad / float64(len(s.sets)))
		dp.AvgReps = cleanFloat(sumReps / float64(len(s.sets)))
		dp.TopWeight = top.load
		dp.TopReps = top.reps
		points = append(points, dp)
	}
	return points
}

// window returns the sessions inside the lookback window, at most maxSessions of the most recent ones.
func window(sessions []session, now time.Time, lookback time.Duration, maxSessions int) []session {
	from := now.Add(-lookback)
	start := len(sessions)
	for start > 0 && !sessions[start-1].date.Before(from) {
		start--
	}
	if len(sessions)-start > maxSessions {
		start = len(sessions) - maxSessions
	}
	return sessions[start:]
}

func (s session) suggestedSets() []SuggestedSet {
	out := make([]SuggestedSet, len(s.sets))
	for i, set := range s.sets {
		out[i] = SuggestedSet{Reps: set.reps, Weight: set.load}
	}
	return out
}

func totalSets(sessions []session) int {
	var n int
	for _, s := range sessions {
		n += len(s.sets)
	}
	return n
}
