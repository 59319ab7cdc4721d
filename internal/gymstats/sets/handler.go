package sets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymsignal/internal/telemetry/metrics"
	"github.com/2beens/gymsignal/internal/telemetry/tracing"
	"github.com/2beens/gymsignal/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=sets_test

type setsRepo interface {
	Add(ctx context.Context, set WorkoutSet) (*WorkoutSet, error)
	Get(ctx context.Context, id int) (*WorkoutSet, error)
	Update(ctx context.Context, set *WorkoutSet) error
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context, params ListParams) ([]WorkoutSet, error)
	Count(ctx context.Context, params ListParams) (int, error)
}

type AddSetResponse struct {
	WorkoutSet
	CountInWorkout int `json:"countInWorkout"`
}

type DeleteSetResponse struct {
	DeletedID int `json:"deletedId"`
}

type UpdateSetResponse struct {
	UpdatedID int `json:"updatedId"`
}

type NewWorkoutResponse struct {
	WorkoutID string    `json:"workoutId"`
	StartedAt time.Time `json:"startedAt"`
}

type Handler struct {
	repo           setsRepo
	metricsManager *metrics.Manager
}

func NewHandler(repo setsRepo, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/workouts", handler.HandleNewWorkout).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/gymstats/sets", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-set")
	r.HandleFunc("/gymstats/sets", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-set")
	r.HandleFunc("/gymstats/sets/{id:[0-9]+}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-set")
	r.HandleFunc("/gymstats/sets/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-set")
	r.HandleFunc("/gymstats/sets/exercise/{name}", handler.HandleExerciseHistory).Methods("GET", "OPTIONS").Name("exercise-sets")
}

// validate checks what the db constraints do not.
func validate(set WorkoutSet) error {
	if strings.TrimSpace(set.ExerciseName) == "" {
		return errors.New("exercise name empty")
	}
	if set.WorkoutID == "" {
		return errors.New("workout id empty")
	}
	if _, err := uuid.Parse(set.WorkoutID); err != nil {
		return errors.New("workout id is not a uuid")
	}
	for _, v := range []*float64{set.Weight, set.AssistanceWeight, set.Distance, set.TargetWeight} {
		if v != nil && *v < 0 {
			return errors.New("negative value")
		}
	}
	if set.Reps != nil && *set.Reps < 0 {
		return errors.New("negative reps")
	}
	return nil
}

func (handler *Handler) HandleNewWorkout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.new-workout")
	defer span.End()

	resp := NewWorkoutResponse{
		WorkoutID: uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	span.SetAttributes(attribute.String("workout_id", resp.WorkoutID))

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusCreated)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.new")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set WorkoutSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Tracef("new set, unmarshal json params: %s", err)
		http.Error(w, "add set failed", http.StatusBadRequest)
		return
	}

	if err := validate(set); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	if set.CreatedAt.IsZero() {
		set.CreatedAt = time.Now()
	}

	addedSet, err := handler.repo.Add(ctx, set)
	switch {
	case errors.Is(err, ErrUnknownExercise):
		http.Error(w, "error, unknown exercise: "+set.ExerciseName, http.StatusBadRequest)
		return
	case errors.Is(err, ErrInvalidSet):
		http.Error(w, "error, invalid set values", http.StatusBadRequest)
		return
	case err != nil:
		log.Errorf("failed to add new set [%s] [%s]: %s", set.WorkoutID, set.ExerciseName, err)
		http.Error(w, "error, failed to add new set", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterSetsLogged.Inc()

	countInWorkout, err := handler.repo.Count(ctx, ListParams{
		ExerciseName: addedSet.ExerciseName,
		WorkoutID:    addedSet.WorkoutID,
	})
	if err != nil {
		// just log the error, no need to return error to the client
		log.Errorf("failed to count sets in workout [%s]: %s", addedSet.WorkoutID, err)
		countInWorkout = 0
	}

	addedSetJson, err := json.Marshal(AddSetResponse{
		WorkoutSet:     *addedSet,
		CountInWorkout: countInWorkout,
	})
	if err != nil {
		log.Errorf("failed to marshal new set: %s", err)
		http.Error(w, "error, failed to add new set", http.StatusInternalServerError)
		return
	}

	log.Debugf("new set added: %s", addedSetJson)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedSetJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	set, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrSetNotFound) {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get set %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	setJson, err := json.Marshal(set)
	if err != nil {
		log.Errorf("failed to marshal set: %s", err)
		http.Error(w, "failed to marshal set", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setJson, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.update")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var set WorkoutSet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		log.Tracef("update set, unmarshal json params: %s", err)
		http.Error(w, "update set failed", http.StatusBadRequest)
		return
	}
	if set.ID <= 0 {
		http.Error(w, "error, set id missing", http.StatusBadRequest)
		return
	}
	if err := validate(set); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	current, err := handler.repo.Get(ctx, set.ID)
	if errors.Is(err, ErrSetNotFound) {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get set %d: %s", set.ID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if set.CreatedAt.IsZero() {
		set.CreatedAt = current.CreatedAt
	}

	err = handler.repo.Update(ctx, &set)
	switch {
	case errors.Is(err, ErrUnknownExercise), errors.Is(err, ErrInvalidSet):
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrSetNotFound):
		http.Error(w, "set not found", http.StatusNotFound)
		return
	case err != nil:
		log.Errorf("failed to update set [%d]: %s", set.ID, err)
		http.Error(w, "error, failed to update set", http.StatusInternalServerError)
		return
	}

	updateRespJson, err := json.Marshal(UpdateSetResponse{UpdatedID: set.ID})
	if err != nil {
		log.Errorf("failed to marshal update response: %s", err)
		http.Error(w, "failed to marshal update response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(updateRespJson))
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	err = handler.repo.Delete(ctx, id)
	if errors.Is(err, ErrSetNotFound) {
		http.Error(w, "set not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete set %d: %s", id, err)
		http.Error(w, "set not deleted", http.StatusInternalServerError)
		return
	}

	deleteRespJson, err := json.Marshal(DeleteSetResponse{DeletedID: id})
	if err != nil {
		log.Errorf("failed to marshal delete response: %s", err)
		http.Error(w, "failed to marshal delete response", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(deleteRespJson))
}

// HandleExerciseHistory lists the sets of one exercise, optionally bounded by
// the from / to dates (YYYY-MM-DD, both inclusive).
func (handler *Handler) HandleExerciseHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.sets.exercise-history")
	defer span.End()

	name := mux.Vars(r)["name"]
	if name == "" {
		http.Error(w, "error, exercise name empty", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("exercise", name))

	params := ListParams{ExerciseName: name}
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		from, err := pkg.ParseDate(fromStr, false)
		if err != nil {
			http.Error(w, "invalid <from> date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.From = &from
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		to, err := pkg.ParseDate(toStr, true)
		if err != nil {
			http.Error(w, "invalid <to> date, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		params.To = &to
	}

	sets, err := handler.repo.ListAll(ctx, params)
	if err != nil {
		log.Errorf("list sets for [%s]: %s", name, err)
		http.Error(w, "failed to get sets", http.StatusInternalServerError)
		return
	}

	setsJson, err := json.Marshal(sets)
	if err != nil {
		log.Errorf("marshal sets error: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, setsJson, http.StatusOK)
}
