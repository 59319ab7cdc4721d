package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsignal/internal/gymstats/catalog"
	"github.com/2beens/gymsignal/internal/gymstats/sets"
	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/telemetry/metrics"
	"github.com/2beens/gymsignal/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=suggestions_test

const (
	megabyte           = 1024 * 1024
	defaultCacheSizeMB = 16
	defaultCacheTTL    = 10 * time.Minute
	cacheResultHit     = "hit"
	cacheResultMiss    = "miss"
)

var (
	ErrUnknownExercise = errors.New("unknown exercise")
	ErrInvalidRequest  = errors.New("invalid suggestion request")
)

type catalogStore interface {
	Get(ctx context.Context, name string) (*catalog.Entry, error)
}

type setsStore interface {
	ListAll(ctx context.Context, params sets.ListParams) ([]sets.WorkoutSet, error)
	LatestSession(ctx context.Context, exerciseName string, before time.Time) ([]sets.WorkoutSet, error)
}

type Params struct {
	ExerciseName string
	// WorkoutID is the workout in progress, if any. Its sets are never history.
	WorkoutID string
}

type TrendResult struct {
	Exercise string                  `json:"exercise"`
	Analysis suggest.PatternAnalysis `json:"analysis"`
}

type CacheParams struct {
	SizeMB int
	TTL    time.Duration
}

// Service ties the catalog and the set log to the analyzer.
type Service struct {
	catalog        catalogStore
	sets           setsStore
	analyzer       *suggest.Analyzer
	metricsManager *metrics.Manager

	cache    *freecache.Cache
	cacheTTL time.Duration

	now func() time.Time
}

func NewService(
	catalog catalogStore,
	sets setsStore,
	analyzer *suggest.Analyzer,
	metricsManager *metrics.Manager,
	cacheParams CacheParams,
) *Service {
	sizeMB := cacheParams.SizeMB
	if sizeMB <= 0 {
		sizeMB = defaultCacheSizeMB
	}
	ttl := cacheParams.TTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &Service{
		catalog:        catalog,
		sets:           sets,
		analyzer:       analyzer,
		metricsManager: metricsManager,
		cache:          freecache.NewCache(sizeMB * megabyte),
		cacheTTL:       ttl,
		now:            time.Now,
	}
}

// WithClock replaces the wall clock, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) exercise(ctx context.Context, name string) (*catalog.Entry, error) {
	entry, err := s.catalog.Get(ctx, name)
	if errors.Is(err, catalog.ErrEntryNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownExercise, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog entry: %w", err)
	}
	return entry, nil
}

// history loads the logged sets of the exercise inside the lookback window, newest
// first. When the window holds no workout other than the active one, the latest
// session before it is appended, so a long break still repeats the last known sets.
func (s *Service) history(ctx context.Context, name, workoutID string, now time.Time) ([]sets.WorkoutSet, error) {
	from := now.Add(-s.analyzer.Options().LookbackWindow)
	logged, err := s.sets.ListAll(ctx, sets.ListParams{
		ExerciseName: name,
		From:         &from,
	})
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}

	for _, set := range logged {
		if set.WorkoutID != workoutID {
			return logged, nil
		}
	}

	older, err := s.sets.LatestSession(ctx, name, from)
	if err != nil {
		return nil, fmt.Errorf("latest session: %w", err)
	}
	return append(logged, older...), nil
}

// Suggest proposes the next sets of the exercise, adapting them to what was
// already done in the given workout.
func (s *Service) Suggest(ctx context.Context, params Params) (_ *suggest.SmartSuggestionResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.suggestions.suggest")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", params.ExerciseName))
	span.SetAttributes(attribute.String("workout_id", params.WorkoutID))

	name := strings.TrimSpace(params.ExerciseName)
	if name == "" {
		return nil, fmt.Errorf("%w: exercise name empty", ErrInvalidRequest)
	}

	entry, err := s.exercise(ctx, name)
	if err != nil {
		return nil, err
	}

	now := s.now()
	logged, err := s.history(ctx, name, params.WorkoutID, now)
	if err != nil {
		return nil, err
	}

	var current []sets.WorkoutSet
	for _, set := range logged {
		if params.WorkoutID != "" && set.WorkoutID == params.WorkoutID {
			current = append(current, set)
		}
	}

	// sets are edited in place, so their IDs alone do not tell a stale entry
	loggedJson, err := json.Marshal(logged)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	key := strings.Join([]string{
		"ex", name,
		"w", params.WorkoutID,
		"h", strconv.FormatUint(xxhash.Sum64(loggedJson), 16),
		"d", now.UTC().Format(time.DateOnly),
	}, ":")

	res, err := s.cached(key, func() *suggest.SmartSuggestionResult {
		return s.analyzer.Suggest(suggest.Request{
			Exercise:       entry.Exercise(),
			History:        sets.ToSessions(logged, params.WorkoutID),
			CurrentSession: sets.ToSessionSets(current),
			Now:            now,
		})
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("pattern", res.Pattern.String()))
	span.SetAttributes(attribute.Float64("confidence", res.Confidence))
	span.SetAttributes(attribute.Bool("adapted", res.Adapted))
	return res, nil
}

// SuggestFromRequest runs the analyzer on a history the client sends itself.
func (s *Service) SuggestFromRequest(ctx context.Context, req suggest.Request) (_ *suggest.SmartSuggestionResult, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "service.suggestions.suggest-stateless")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", req.Exercise.Name))
	span.SetAttributes(attribute.Int("history", len(req.History)))

	if strings.TrimSpace(req.Exercise.Name) == "" {
		return nil, fmt.Errorf("%w: exercise name empty", ErrInvalidRequest)
	}
	if req.Exercise.Type == "" {
		req.Exercise.Type = suggest.ExerciseTypeWeightReps
	}
	if !req.Exercise.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown exercise type %q", ErrInvalidRequest, req.Exercise.Type)
	}
	if req.Exercise.Equipment != "" && !req.Exercise.Equipment.IsValid() {
		return nil, fmt.Errorf("%w: unknown equipment %q", ErrInvalidRequest, req.Exercise.Equipment)
	}

	reqJson, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	now := s.now()
	if req.Now.IsZero() {
		req.Now = now
	}
	key := strings.Join([]string{
		"req", strconv.FormatUint(xxhash.Sum64(reqJson), 16),
		"d", now.UTC().Format(time.DateOnly),
	}, ":")

	res, err := s.cached(key, func() *suggest.SmartSuggestionResult {
		return s.analyzer.Suggest(req)
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("pattern", res.Pattern.String()))
	span.SetAttributes(attribute.Float64("confidence", res.Confidence))
	return res, nil
}

// Trend returns the analysis of the exercise history, without proposing sets.
func (s *Service) Trend(ctx context.Context, name string) (_ *TrendResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.suggestions.trend")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise", name))

	entry, err := s.exercise(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}

	now := s.now()
	logged, err := s.history(ctx, entry.Name, "", now)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	analysis := s.analyzer.Analyze(suggest.Request{
		Exercise: entry.Exercise(),
		History:  sets.ToSessions(logged, ""),
		Now:      now,
	})
	s.observeAnalysis(start)

	span.SetAttributes(attribute.String("pattern", analysis.Kind().String()))
	return &TrendResult{
		Exercise: entry.Name,
		Analysis: analysis,
	}, nil
}

// cached serves key from the results cache or computes it. Results adapted to an
// active workout are not stored.
func (s *Service) cached(key string, compute func() *suggest.SmartSuggestionResult) (*suggest.SmartSuggestionResult, error) {
	if resJson, err := s.cache.Get([]byte(key)); err == nil {
		var res suggest.SmartSuggestionResult
		if err := json.Unmarshal(resJson, &res); err != nil {
			log.Warnf("suggestion cache [%s]: unmarshal: %s", key, err)
		} else {
			s.countCache(cacheResultHit)
			s.countSuggestion(res.Pattern)
			return &res, nil
		}
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("suggestion cache [%s]: %s", key, err)
	}
	s.countCache(cacheResultMiss)

	start := time.Now()
	res := compute()
	s.observeAnalysis(start)
	s.countSuggestion(res.Pattern)

	if res.Adapted {
		return res, nil
	}

	resJson, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal suggestion: %w", err)
	}
	if err := s.cache.Set([]byte(key), resJson, int(s.cacheTTL.Seconds())); err != nil {
		log.Warnf("suggestion cache [%s]: set: %s", key, err)
	}
	return res, nil
}

func (s *Service) countCache(result string) {
	if s.metricsManager != nil {
		s.metricsManager.CounterSuggestionCache.WithLabelValues(result).Inc()
	}
}

func (s *Service) countSuggestion(pattern suggest.PatternKind) {
	if s.metricsManager != nil {
		s.metricsManager.CounterSuggestions.WithLabelValues(pattern.String()).Inc()
	}
}

func (s *Service) observeAnalysis(start time.Time) {
	if s.metricsManager != nil {
		s.metricsManager.HistAnalysisDuration.Observe(time.Since(start).Seconds())
	}
}
