package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

var ErrWorkoutNotFound = errors.New("workout not found")

type WorkoutRepository interface {
	Create(workout *model.Workout) error
	ByID(userID, workoutID string) (*model.Workout, error)
	Workouts(userID string) ([]*model.Workout, error)
	Delete(userID, workoutID string) error
}

type workoutRepository struct {
	db *sqlx.DB
}

func NewWorkoutRepository(db *sqlx.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

func (r *workoutRepository) Create(workout *model.Workout) error {
	query := `INSERT INTO workouts (id, user_id, name, notes, duration_min, exercises, performed_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		workout.ID,
		workout.UserID,
		workout.Name,
		workout.Notes,
		workout.DurationMin,
		workout.Exercises,
		workout.PerformedAt,
		workout.CreatedAt,
	)

	return err
}

func (r *workoutRepository) ByID(userID, workoutID string) (*model.Workout, error) {
	workout := &model.Workout{}
	query := `SELECT * FROM workouts WHERE id = $1 AND user_id = $2`

	err := r.db.Get(workout, query, workoutID, userID)
	if err == sql.ErrNoRows {
		return nil, ErrWorkoutNotFound
	}

	return workout, err
}

func (r *workoutRepository) Workouts(userID string) ([]*model.Workout, error) {
	var workouts []*model.Workout
	query := `SELECT * FROM workouts WHERE user_id = $1 ORDER BY performed_at DESC`

	err := r.db.Select(&workouts, query, userID)
	if err != nil {
		return nil, err
	}

	return workouts, nil
}

func (r *workoutRepository) Delete(userID, workoutID string) error {
	query := `DELETE FROM workouts WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(query, workoutID, userID)

	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}
