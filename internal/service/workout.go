package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
)

var ErrWorkoutNameRequired = errors.New("workout name is required")

type WorkoutService struct {
	repo      repository.WorkoutRepository
	statsRepo repository.StatsRepository
}

func NewWorkoutService(repo repository.WorkoutRepository, statsRepo repository.StatsRepository) *WorkoutService {
	return &WorkoutService{repo: repo, statsRepo: statsRepo}
}

// Create logs a workout and recomputes the user's aggregated stats.
// exercises is an opaque JSON array from the client; it is validated as
// JSON but not interpreted.
func (s *WorkoutService) Create(userID, name, notes string, durationMin int, exercises string, performedAt time.Time) (*model.Workout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrWorkoutNameRequired
	}
	if exercises == "" {
		exercises = "[]"
	}
	if !json.Valid([]byte(exercises)) {
		return nil, errors.New("exercises must be valid JSON")
	}
	if performedAt.IsZero() {
		performedAt = time.Now()
	}

	workout := &model.Workout{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Notes:       notes,
		DurationMin: durationMin,
		Exercises:   exercises,
		PerformedAt: performedAt,
		CreatedAt:   time.Now(),
	}

	err := s.repo.Create(workout)
	if err != nil {
		return nil, fmt.Errorf("failed to create workout: %w", err)
	}

	err = s.recomputeStats(userID)
	if err != nil {
		return nil, err
	}

	return workout, nil
}

func (s *WorkoutService) Workouts(userID string) ([]*model.Workout, error) {
	return s.repo.Workouts(userID)
}

func (s *WorkoutService) Delete(userID, workoutID string) error {
	err := s.repo.Delete(userID, workoutID)
	if err != nil {
		return err
	}

	return s.recomputeStats(userID)
}

// Stats returns the user's rollup, or a zero-value one before the first
// workout is logged.
func (s *WorkoutService) Stats(userID string) (*model.AggregatedStats, error) {
	stats, err := s.statsRepo.ByUser(userID)
	if errors.Is(err, repository.ErrStatsNotFound) {
		return &model.AggregatedStats{UserID: userID, UpdatedAt: time.Now()}, nil
	}
	return stats, err
}

// recomputeStats rebuilds the rollup from the workout list. The table is
// a cache of derivable data, so a full recompute on every change keeps
// it simple and always correct.
func (s *WorkoutService) recomputeStats(userID string) error {
	workouts, err := s.repo.Workouts(userID)
	if err != nil {
		return fmt.Errorf("failed to load workouts for stats: %w", err)
	}

	stats := &model.AggregatedStats{
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	for _, w := range workouts {
		stats.TotalWorkouts++
		stats.TotalMinutes += w.DurationMin
		if stats.LastWorkoutAt == nil || w.PerformedAt.After(*stats.LastWorkoutAt) {
			t := w.PerformedAt
			stats.LastWorkoutAt = &t
		}
	}

	stats.StreakDays = streakDays(workouts)

	return s.statsRepo.Upsert(stats)
}

// streakDays counts consecutive calendar days with at least one workout,
// ending at the most recent workout day.
func streakDays(workouts []*model.Workout) int {
	if len(workouts) == 0 {
		return 0
	}

	days := make(map[string]bool, len(workouts))
	var latest time.Time
	for _, w := range workouts {
		days[w.PerformedAt.Format(model.DayLayout)] = true
		if w.PerformedAt.After(latest) {
			latest = w.PerformedAt
		}
	}

	streak := 0
	for d := latest; days[d.Format(model.DayLayout)]; d = d.AddDate(0, 0, -1) {
		streak++
	}

	return streak
}
