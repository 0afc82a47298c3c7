package handler

import (
	"errors"
	"net/http"

	"github.com/liftlab/liftlab/internal/ctxkeys"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/service"
)

type ProfileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	profile, err := h.profileService.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respondError(w, http.StatusNotFound, "profile not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// Update handles both onboarding and later profile edits
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name            string `json:"name"`
		ExperienceLevel string `json:"experienceLevel"`
		Unit            string `json:"unit"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	profile, err := h.profileService.Update(userID, req.Name, req.ExperienceLevel, req.Unit)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExperienceLevel) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
