package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

var ErrRecordNotFound = errors.New("personal record not found")

type RecordRepository interface {
	Create(record *model.PersonalRecord) error
	ByID(userID, recordID string) (*model.PersonalRecord, error)
	Records(userID string) ([]*model.PersonalRecord, error)
	History(userID, exercise string) ([]*model.PersonalRecord, error)
	Update(record *model.PersonalRecord) error
	Delete(userID, recordID string) error
}

type recordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Create(record *model.PersonalRecord) error {
	query := `INSERT INTO personal_records (id, user_id, exercise, value, unit, target, achieved_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		record.ID,
		record.UserID,
		record.Exercise,
		record.Value,
		record.Unit,
		record.Target,
		record.AchievedAt,
		record.CreatedAt,
	)

	return err
}

func (r *recordRepository) ByID(userID, recordID string) (*model.PersonalRecord, error) {
	record := &model.PersonalRecord{}
	query := `SELECT * FROM personal_records WHERE id = $1 AND user_id = $2`

	err := r.db.Get(record, query, recordID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}

	return record, err
}

// Records returns the newest record per exercise, newest first.
func (r *recordRepository) Records(userID string) ([]*model.PersonalRecord, error) {
	var records []*model.PersonalRecord
	query := `SELECT * FROM personal_records p
	          WHERE user_id = $1
	          AND achieved_at = (
	              SELECT MAX(achieved_at) FROM personal_records
	              WHERE user_id = p.user_id AND exercise = p.exercise
	          )
	          ORDER BY achieved_at DESC`

	err := r.db.Select(&records, query, userID)
	if err != nil {
		return nil, err
	}

	return records, nil
}

// History returns all records for one exercise, oldest first. This is
// the time-ordered sample sequence the projector consumes.
func (r *recordRepository) History(userID, exercise string) ([]*model.PersonalRecord, error) {
	var records []*model.PersonalRecord
	query := `SELECT * FROM personal_records WHERE user_id = $1 AND exercise = $2 ORDER BY achieved_at ASC`

	err := r.db.Select(&records, query, userID, exercise)
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *recordRepository) Update(record *model.PersonalRecord) error {
	query := `UPDATE personal_records
	          SET exercise = $1, value = $2, unit = $3, target = $4, achieved_at = $5
	          WHERE id = $6 AND user_id = $7`

	result, err := r.db.Exec(query,
		record.Exercise,
		record.Value,
		record.Unit,
		record.Target,
		record.AchievedAt,
		record.ID,
		record.UserID,
	)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (r *recordRepository) Delete(userID, recordID string) error {
	query := `DELETE FROM personal_records WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, recordID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrRecordNotFound
	}

	return nil
}
