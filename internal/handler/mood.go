package handler

import (
	"errors"
	"net/http"

	"github.com/liftlab/liftlab/internal/ctxkeys"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/service"
)

// MoodHandler serves the daily mood tracker. Anonymous requests are
// allowed; their entries live only in the local cache.
type MoodHandler struct {
	moodService *service.MoodService
}

func NewMoodHandler(moodService *service.MoodService) *MoodHandler {
	return &MoodHandler{moodService: moodService}
}

func (h *MoodHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	entries := h.moodService.History(r.Context(), userID)
	respondJSON(w, http.StatusOK, map[string][]model.MoodEntry{"entries": entries})
}

func (h *MoodHandler) Log(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mood string `json:"mood"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	entry, err := h.moodService.Log(r.Context(), userID, req.Mood)
	if err != nil {
		if errors.Is(err, service.ErrUnknownMood) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to log mood")
		return
	}

	respondJSON(w, http.StatusOK, entry)
}

// Moods lists the selectable mood palette
func (h *MoodHandler) Moods(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string][]model.Mood{"moods": model.MoodPalette})
}
