package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/liftlab/liftlab/internal/ctxkeys"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/service"
)

type RecordHandler struct {
	recordService *service.RecordService
}

func NewRecordHandler(recordService *service.RecordService) *RecordHandler {
	return &RecordHandler{recordService: recordService}
}

type recordRequest struct {
	Exercise   string    `json:"exercise"`
	Value      float64   `json:"value"`
	Unit       string    `json:"unit"`
	Target     float64   `json:"target"`
	AchievedAt time.Time `json:"achievedAt"`
}

func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	record, err := h.recordService.Create(userID, req.Exercise, req.Value, req.Unit, req.Target, req.AchievedAt)
	if err != nil {
		respondRecordError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, record)
}

func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	records, err := h.recordService.Records(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load records")
		return
	}
	if records == nil {
		records = []*model.PersonalRecord{}
	}

	respondJSON(w, http.StatusOK, map[string][]*model.PersonalRecord{"records": records})
}

func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	record, err := h.recordService.ByID(userID, r.PathValue("id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	record, err := h.recordService.Update(userID, r.PathValue("id"), req.Value, req.Target, req.AchievedAt)
	if err != nil {
		respondRecordError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, record)
}

func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.recordService.Delete(userID, r.PathValue("id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Progress returns the record plus its goal projection: completion
// fraction, ETA estimate and the synthetic trajectory.
func (h *RecordHandler) Progress(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	report, err := h.recordService.Progress(userID, r.PathValue("id"))
	if err != nil {
		respondRecordError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, report)
}

func respondRecordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrRecordNotFound):
		respondError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, service.ErrExerciseRequired), errors.Is(err, service.ErrInvalidValue):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "record operation failed")
	}
}
