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

const maxPhotoUploadBytes = 12 << 20 // multipart form ceiling, above the 10MB file limit

type PhotoHandler struct {
	photoService *service.PhotoService
}

func NewPhotoHandler(photoService *service.PhotoService) *PhotoHandler {
	return &PhotoHandler{photoService: photoService}
}

func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(maxPhotoUploadBytes)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	_, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file is required")
		return
	}

	var takenAt time.Time
	if v := r.FormValue("takenAt"); v != "" {
		takenAt, err = time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "takenAt must be RFC 3339")
			return
		}
	}

	userID := ctxkeys.UserID(r.Context())

	photo, err := h.photoService.Upload(userID, header, takenAt)
	if err != nil {
		if errors.Is(err, service.ErrStorageNotConfigured) {
			respondError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, photo)
}

func (h *PhotoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	photos, err := h.photoService.Photos(userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load photos")
		return
	}
	if photos == nil {
		photos = []*model.Photo{}
	}

	respondJSON(w, http.StatusOK, map[string][]*model.Photo{"photos": photos})
}

func (h *PhotoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	err := h.photoService.Delete(userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPhotoNotFound) {
			respondError(w, http.StatusNotFound, "photo not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to delete photo")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
