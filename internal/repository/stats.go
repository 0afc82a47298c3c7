package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

var ErrStatsNotFound = errors.New("aggregated stats not found")

type StatsRepository interface {
	ByUser(userID string) (*model.AggregatedStats, error)
	Upsert(stats *model.AggregatedStats) error
}

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) ByUser(userID string) (*model.AggregatedStats, error) {
	stats := &model.AggregatedStats{}
	query := `SELECT * FROM aggregated_stats WHERE user_id = $1`

	err := r.db.Get(stats, query, userID)
	if err == sql.ErrNoRows {
		return nil, ErrStatsNotFound
	}

	return stats, err
}

func (r *statsRepository) Upsert(stats *model.AggregatedStats) error {
	// ON CONFLICT syntax is shared by SQLite and PostgreSQL
	query := `INSERT INTO aggregated_stats (user_id, total_workouts, total_minutes, streak_days, last_workout_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id) DO UPDATE SET
	              total_workouts = excluded.total_workouts,
	              total_minutes = excluded.total_minutes,
	              streak_days = excluded.streak_days,
	              last_workout_at = excluded.last_workout_at,
	              updated_at = excluded.updated_at`

	_, err := r.db.Exec(query,
		stats.UserID,
		stats.TotalWorkouts,
		stats.TotalMinutes,
		stats.StreakDays,
		stats.LastWorkoutAt,
		stats.UpdatedAt,
	)

	return err
}
