package model

import "time"

// Workout is one logged training session. Exercises holds the set/rep
// payload as a JSON document; the server does not interpret it beyond
// storing and returning it.
type Workout struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Name        string    `db:"name" json:"name"`
	Notes       string    `db:"notes" json:"notes"`
	DurationMin int       `db:"duration_min" json:"durationMin"`
	Exercises   string    `db:"exercises" json:"exercises"`
	PerformedAt time.Time `db:"performed_at" json:"performedAt"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
