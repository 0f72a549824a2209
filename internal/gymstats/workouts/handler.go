package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymstats/internal/gymstats/analytics"
	"github.com/2beens/gymstats/internal/telemetry/metrics"
	"github.com/2beens/gymstats/internal/telemetry/tracing"
	"github.com/2beens/gymstats/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=workouts_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, workout analytics.WorkoutLog) (*analytics.WorkoutLog, error)
	Get(ctx context.Context, id int) (*analytics.WorkoutLog, error)
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, params ListParams) (_ []analytics.WorkoutLog, total int, err error)
}

// statsInvalidator drops cached analytics results after the stored logs change.
type statsInvalidator interface {
	Invalidate(ctx context.Context) error
}

const MaxPageSize = 500

type AddWorkoutResponse struct {
	analytics.WorkoutLog
	// false when the date could not be normalized; such a log is stored but never counted
	DateRecognized bool `json:"dateRecognized"`
}

type DeleteWorkoutResponse struct {
	DeletedID int `json:"deletedId"`
}

type ListResponse struct {
	Workouts []analytics.WorkoutLog `json:"workouts"`
	Total    int                    `json:"total"`
}

type Handler struct {
	repo           workoutsRepo
	invalidator    statsInvalidator
	metricsManager *metrics.Manager
}

func NewHandler(repo workoutsRepo, invalidator statsInvalidator, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		repo:           repo,
		invalidator:    invalidator,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/gymstats/workouts", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/gymstats/workouts/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/gymstats/workouts/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/gymstats/workouts/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.new")
	defer span.End()

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var workout analytics.WorkoutLog
	if err := json.NewDecoder(r.Body).Decode(&workout); err != nil {
		log.Tracef("new workout, unmarshal json params: %s", err)
		http.Error(w, "add workout failed", http.StatusBadRequest)
		return
	}

	workout.Date = strings.TrimSpace(workout.Date)
	if workout.Date == "" {
		http.Error(w, "error, workout date empty", http.StatusBadRequest)
		return
	}
	for i, ex := range workout.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			http.Error(w, "error, exercise "+strconv.Itoa(i)+" has no name", http.StatusBadRequest)
			return
		}
	}

	workout.ID = 0
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now()
	}

	_, dateErr := analytics.ParseDate(workout.Date)
	if dateErr != nil {
		log.Warnf("new workout with unrecognized date [%s], storing as is", workout.Date)
	}

	added, err := handler.repo.Add(ctx, workout)
	if err != nil {
		log.Errorf("failed to add new workout [%s]: %s", workout.Date, err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}
	handler.metricsManager.CounterWorkoutsAdded.Inc()
	handler.invalidateStats(ctx)

	addedJson, err := json.Marshal(AddWorkoutResponse{
		WorkoutLog:     *added,
		DateRecognized: dateErr == nil,
	})
	if err != nil {
		log.Errorf("failed to marshal new workout: %s", err)
		http.Error(w, "error, failed to add new workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %d [%s]", added.ID, added.Date)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.get")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to get workout %d: %s", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.delete")
	defer span.End()

	id, ok := workoutID(w, r)
	if !ok {
		return
	}

	if err := handler.repo.Delete(ctx, id); errors.Is(err, ErrWorkoutNotFound) {
		log.Debugf("workout %d not found", id)
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	} else if err != nil {
		log.Errorf("failed to delete workout %d: %s", id, err)
		http.Error(w, "workout not deleted", http.StatusInternalServerError)
		return
	}
	handler.invalidateStats(ctx)

	pkg.WriteJSON(w, DeleteWorkoutResponse{DeletedID: id}, http.StatusOK)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.gymstats.workouts.list")
	defer span.End()

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil {
		log.Tracef("handle get workouts page, from <page> param: %s", err)
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		log.Tracef("handle get workouts page, from <size> param: %s", err)
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}

	if page < 1 {
		http.Error(w, "invalid page (has to be non-zero value)", http.StatusBadRequest)
		return
	}
	if size < 1 || size > MaxPageSize {
		http.Error(w, "invalid size (has to be between 1 and "+strconv.Itoa(MaxPageSize)+")", http.StatusBadRequest)
		return
	}

	completedOnly := false
	if completedOnlyStr := r.URL.Query().Get("completed_only"); completedOnlyStr != "" {
		completedOnly, err = strconv.ParseBool(completedOnlyStr)
		if err != nil {
			http.Error(w, "failed to parse completed_only param", http.StatusBadRequest)
			return
		}
	}

	workouts, total, err := handler.repo.List(ctx, ListParams{
		ListAllParams: ListAllParams{CompletedOnly: completedOnly},
		Page:          page,
		Size:          size,
	})
	if err != nil {
		log.Errorf("get workouts error: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	listJson, err := json.Marshal(ListResponse{
		Workouts: workouts,
		Total:    total,
	})
	if err != nil {
		log.Errorf("marshal workouts error: %s", err)
		http.Error(w, "marshal workouts error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, listJson)
}

// invalidateStats failure is only logged; the next write or the cache TTL clears stale results.
func (handler *Handler) invalidateStats(ctx context.Context) {
	if handler.invalidator == nil {
		return
	}
	if err := handler.invalidator.Invalidate(ctx); err != nil {
		log.Errorf("invalidate cached stats: %s", err)
	}
}

func workoutID(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
