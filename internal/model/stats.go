package model

import "time"

// AggregatedStats is a per-user rollup recomputed whenever a workout is
// created or deleted.
type AggregatedStats struct {
	UserID        string     `db:"user_id" json:"userId"`
	TotalWorkouts int        `db:"total_workouts" json:"totalWorkouts"`
	TotalMinutes  int        `db:"total_minutes" json:"totalMinutes"`
	StreakDays    int        `db:"streak_days" json:"streakDays"`
	LastWorkoutAt *time.Time `db:"last_workout_at" json:"lastWorkoutAt,omitempty"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}
