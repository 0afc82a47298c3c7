package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/storage"
	"github.com/liftlab/liftlab/internal/validation"
)

var ErrStorageNotConfigured = errors.New("photo storage not configured")

type PhotoService struct {
	photoRepository repository.PhotoRepository
	storage         storage.Storage // nil when S3 is not configured
}

func NewPhotoService(photoRepository repository.PhotoRepository, storage storage.Storage) *PhotoService {
	return &PhotoService{
		photoRepository: photoRepository,
		storage:         storage,
	}
}

// Upload validates and stores a progress photo. takenAt defaults to now
// when zero.
func (s *PhotoService) Upload(userID string, header *multipart.FileHeader, takenAt time.Time) (*model.Photo, error) {
	if s.storage == nil {
		return nil, ErrStorageNotConfigured
	}

	err := validation.ValidateFile(header, validation.ImageConstraints)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	if takenAt.IsZero() {
		takenAt = time.Now()
	}

	id := uuid.New().String()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := id + ext
	storagePath := fmt.Sprintf("photos/%s/%s", userID, filename)

	err = s.storage.Save(storagePath, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	photo := &model.Photo{
		ID:           id,
		UserID:       userID,
		Filename:     filename,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		StoragePath:  storagePath,
		TakenAt:      takenAt,
		CreatedAt:    time.Now(),
	}

	err = s.photoRepository.Create(photo)
	if err != nil {
		// Orphaned object cleanup on metadata failure
		delErr := s.storage.Delete(storagePath)
		if delErr != nil {
			slog.Warn("failed to clean up orphaned photo object", "error", delErr, "path", storagePath)
		}
		return nil, fmt.Errorf("failed to store photo metadata: %w", err)
	}

	photo.URL = s.storage.URL(storagePath)
	return photo, nil
}

// Photos lists the user's progress photos, newest first, with access URLs.
func (s *PhotoService) Photos(userID string) ([]*model.Photo, error) {
	photos, err := s.photoRepository.Photos(userID)
	if err != nil {
		return nil, err
	}

	if s.storage != nil {
		for _, photo := range photos {
			photo.URL = s.storage.URL(photo.StoragePath)
		}
	}

	return photos, nil
}

func (s *PhotoService) Delete(userID, photoID string) error {
	photo, err := s.photoRepository.ByID(userID, photoID)
	if err != nil {
		return err
	}

	err = s.photoRepository.Delete(userID, photoID)
	if err != nil {
		return err
	}

	if s.storage != nil {
		err = s.storage.Delete(photo.StoragePath)
		if err != nil {
			slog.Warn("failed to delete photo object", "error", err, "path", photo.StoragePath)
		}
	}

	return nil
}
