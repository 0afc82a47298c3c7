package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoRepository interface {
	Create(photo *model.Photo) error
	ByID(userID, photoID string) (*model.Photo, error)
	Photos(userID string) ([]*model.Photo, error)
	Delete(userID, photoID string) error
}

type photoRepository struct {
	db *sqlx.DB
}

func NewPhotoRepository(db *sqlx.DB) PhotoRepository {
	return &photoRepository{db: db}
}

func (r *photoRepository) Create(photo *model.Photo) error {
	query := `INSERT INTO photos (id, user_id, filename, original_name, mime_type, size, storage_path, taken_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(query,
		photo.ID,
		photo.UserID,
		photo.Filename,
		photo.OriginalName,
		photo.MimeType,
		photo.Size,
		photo.StoragePath,
		photo.TakenAt,
		photo.CreatedAt,
	)

	return err
}

func (r *photoRepository) ByID(userID, photoID string) (*model.Photo, error) {
	photo := &model.Photo{}
	query := `SELECT * FROM photos WHERE id = $1 AND user_id = $2`

	err := r.db.Get(photo, query, photoID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrPhotoNotFound
	}

	return photo, err
}

func (r *photoRepository) Photos(userID string) ([]*model.Photo, error) {
	var photos []*model.Photo
	query := `SELECT * FROM photos WHERE user_id = $1 ORDER BY taken_at DESC`

	err := r.db.Select(&photos, query, userID)
	if err != nil {
		return nil, err
	}

	return photos, nil
}

func (r *photoRepository) Delete(userID, photoID string) error {
	query := `DELETE FROM photos WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, photoID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrPhotoNotFound
	}

	return nil
}
