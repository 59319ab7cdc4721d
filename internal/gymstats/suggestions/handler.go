package suggestions

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/gymsignal/internal/gymstats/suggest"
	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=suggestions_test

const maxRequestBodyBytes = 1 << 20

type suggestionService interface {
	Suggest(ctx context.Context, params Params) (*suggest.SmartSuggestionResult, error)
	SuggestFromRequest(ctx context.Context, req suggest.Request) (*suggest.SmartSuggestionResult, error)
	Trend(ctx context.Context, name string) (*TrendResult, error)
}

type Handler struct {
	service suggestionService
}

func NewHandler(service suggestionService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the suggestion routes. Pass a rate limited subrouter,
// the analysis is the expensive part of the service.
func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/suggestion/{exercise}", handler.HandleSuggest).Methods("GET", "OPTIONS").Name("suggestion")
	r.HandleFunc("/gymstats/suggestion", handler.HandleSuggestStateless).Methods("POST", "OPTIONS").Name("suggestion-stateless")
	r.HandleFunc("/gymstats/trend/{exercise}", handler.HandleTrend).Methods("GET", "OPTIONS").Name("trend")
}

func (handler *Handler) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.suggestions.suggest")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	res, err := handler.service.Suggest(ctx, Params{
		ExerciseName: exercise,
		WorkoutID:    r.URL.Query().Get("workout_id"),
	})
	if err != nil {
		handler.writeErr(w, exercise, err)
		return
	}
	writeJSON(w, res)
}

func (handler *Handler) HandleSuggestStateless(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.suggestions.suggest-stateless")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err != nil {
		log.Errorf("read suggestion request: %s", err)
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return
	}

	var req suggest.Request
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid suggestion request", http.StatusBadRequest)
		return
	}

	res, err := handler.service.SuggestFromRequest(ctx, req)
	if err != nil {
		handler.writeErr(w, req.Exercise.Name, err)
		return
	}
	writeJSON(w, res)
}

func (handler *Handler) HandleTrend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.suggestions.trend")
	defer span.End()

	exercise := mux.Vars(r)["exercise"]
	trend, err := handler.service.Trend(ctx, exercise)
	if err != nil {
		handler.writeErr(w, exercise, err)
		return
	}
	writeJSON(w, trend)
}

func (handler *Handler) writeErr(w http.ResponseWriter, exercise string, err error) {
	switch {
	case errors.Is(err, ErrUnknownExercise):
		http.Error(w, "unknown exercise", http.StatusNotFound)
	case errors.Is(err, ErrInvalidRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Errorf("suggestion [%s]: %s", exercise, err)
		http.Error(w, "failed to get suggestion", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	respJson, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal suggestion response: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
