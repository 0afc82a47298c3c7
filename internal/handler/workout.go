package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/liftlab/liftlab/internal/ctxkeys"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/service"
)

type WorkoutHandler struct {
	workoutService *service.WorkoutService
}

func NewWorkoutHandler(workoutService *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

func (h *WorkoutHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Notes       string          `json:"notes"`
		DurationMin int             `json:"durationMin"`
		Exercises   json.RawMessage `json:"exercises"`
		PerformedAt time.Time       `json:"performedAt"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	workout, err := h.workoutService.Create(userID, req.Name, req.Notes, req.DurationMin, string(req.Exercises), req.PerformedAt)
	if err != nil {
		if errors.Is(err, service.ErrWorkoutNameRequired) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, workout)
}

func (h *WorkoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	workouts, err := h.workoutService.Workouts(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load workouts")
		return
	}
	if workouts == nil {
		workouts = []*model.Workout{}
	}

	respondJSON(w, http.StatusOK, map[string][]*model.Workout{"workouts": workouts})
}

func (h *WorkoutHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.workoutService.Delete(userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrWorkoutNotFound) {
			respondError(w, http.StatusNotFound, "workout not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete workout")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *WorkoutHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	stats, err := h.workoutService.Stats(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
