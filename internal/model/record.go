package model

import "time"

// DefaultTargetFactor is applied to the current value when a record is
// created without an explicit target.
const DefaultTargetFactor = 1.2

// PersonalRecord is a tracked lift or metric. Repeated records for the
// same exercise form the history the progress projector reads.
type PersonalRecord struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"userId"`
	Exercise   string    `db:"exercise" json:"exercise"`
	Value      float64   `db:"value" json:"value"`
	Unit       string    `db:"unit" json:"unit"`
	Target     float64   `db:"target" json:"target"`
	AchievedAt time.Time `db:"achieved_at" json:"achievedAt"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

// Progress returns completion toward the target, clamped to [0, 1].
func (r *PersonalRecord) Progress() float64 {
	if r.Target <= 0 {
		return 0
	}
	p := r.Value / r.Target
	if p > 1 {
		return 1
	}
	return p
}
