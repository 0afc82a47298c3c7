package model

import "time"

// Experience tiers captured during onboarding. The tier feeds the
// progress projector's improvement-rate heuristics.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
)

const (
	UnitKilograms = "kg"
	UnitPounds    = "lb"
)

type Profile struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"userId"`
	Name            string    `db:"name" json:"name"`
	ExperienceLevel string    `db:"experience_level" json:"experienceLevel"`
	Unit            string    `db:"unit" json:"unit"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidExperienceLevel reports whether level is one of the known tiers.
func ValidExperienceLevel(level string) bool {
	switch level {
	case ExperienceBeginner, ExperienceIntermediate, ExperienceAdvanced:
		return true
	}
	return false
}
