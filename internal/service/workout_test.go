package service

import (
	"testing"
	"time"

	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/stretchr/testify/require"
)

// fakeWorkoutRepo is an in-memory WorkoutRepository.
type fakeWorkoutRepo struct {
	rows []*model.Workout
}

func (f *fakeWorkoutRepo) Create(workout *model.Workout) error {
	w := *workout
	f.rows = append(f.rows, &w)
	return nil
}

func (f *fakeWorkoutRepo) ByID(userID, workoutID string) (*model.Workout, error) {
	for _, w := range f.rows {
		if w.ID == workoutID && w.UserID == userID {
			out := *w
			return &out, nil
		}
	}
	return nil, repository.ErrWorkoutNotFound
}

func (f *fakeWorkoutRepo) Workouts(userID string) ([]*model.Workout, error) {
	var out []*model.Workout
	for _, w := range f.rows {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Delete(userID, workoutID string) error {
	for i, w := range f.rows {
		if w.ID == workoutID && w.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrWorkoutNotFound
}

// fakeStatsRepo is an in-memory StatsRepository.
type fakeStatsRepo struct {
	stats map[string]*model.AggregatedStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: make(map[string]*model.AggregatedStats)}
}

func (f *fakeStatsRepo) ByUser(userID string) (*model.AggregatedStats, error) {
	s, ok := f.stats[userID]
	if !ok {
		return nil, repository.ErrStatsNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeStatsRepo) Upsert(stats *model.AggregatedStats) error {
	s := *stats
	f.stats[stats.UserID] = &s
	return nil
}

func workoutDay(offset int) time.Time {
	return time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestWorkoutCreateValidation(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	_, err := svc.Create("u1", "  ", "", 30, "", time.Time{})
	require.ErrorIs(t, err, ErrWorkoutNameRequired)

	_, err = svc.Create("u1", "Push day", "", 30, "{broken", time.Time{})
	require.Error(t, err)
}

func TestWorkoutCreateDefaults(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	workout, err := svc.Create("u1", "Push day", "felt strong", 45, "", time.Time{})
	require.NoError(t, err)
	require.Equal(t, "[]", workout.Exercises)
	require.False(t, workout.PerformedAt.IsZero())
}

func TestWorkoutStatsBeforeFirstWorkout(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalWorkouts)
	require.Equal(t, 0, stats.StreakDays)
	require.Nil(t, stats.LastWorkoutAt)
}

func TestWorkoutCreateUpdatesStats(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	_, err := svc.Create("u1", "Push day", "", 45, `[{"name":"bench"}]`, workoutDay(0))
	require.NoError(t, err)
	_, err = svc.Create("u1", "Pull day", "", 30, "[]", workoutDay(1))
	require.NoError(t, err)

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalWorkouts)
	require.Equal(t, 75, stats.TotalMinutes)
	require.NotNil(t, stats.LastWorkoutAt)
	require.Equal(t, workoutDay(1).Unix(), stats.LastWorkoutAt.Unix())
}

func TestWorkoutStreakConsecutiveDays(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	for i := 0; i < 3; i++ {
		_, err := svc.Create("u1", "Session", "", 30, "[]", workoutDay(i))
		require.NoError(t, err)
	}

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 3, stats.StreakDays)
}

func TestWorkoutStreakBrokenByGap(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	// Day 0, day 1, then a gap, then day 3 and day 4.
	for _, offset := range []int{0, 1, 3, 4} {
		_, err := svc.Create("u1", "Session", "", 30, "[]", workoutDay(offset))
		require.NoError(t, err)
	}

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.StreakDays)
}

func TestWorkoutSameDayCountsOnce(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	_, err := svc.Create("u1", "Morning", "", 30, "[]", workoutDay(0))
	require.NoError(t, err)
	_, err = svc.Create("u1", "Evening", "", 30, "[]", workoutDay(0).Add(6*time.Hour))
	require.NoError(t, err)

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalWorkouts)
	require.Equal(t, 1, stats.StreakDays)
}

func TestWorkoutDeleteRecomputesStats(t *testing.T) {
	repo := &fakeWorkoutRepo{}
	svc := NewWorkoutService(repo, newFakeStatsRepo())

	first, err := svc.Create("u1", "Push day", "", 45, "[]", workoutDay(0))
	require.NoError(t, err)
	_, err = svc.Create("u1", "Pull day", "", 30, "[]", workoutDay(1))
	require.NoError(t, err)

	require.NoError(t, svc.Delete("u1", first.ID))

	stats, err := svc.Stats("u1")
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalWorkouts)
	require.Equal(t, 30, stats.TotalMinutes)
	require.Equal(t, 1, stats.StreakDays)
}

func TestWorkoutDeleteUnknown(t *testing.T) {
	svc := NewWorkoutService(&fakeWorkoutRepo{}, newFakeStatsRepo())

	err := svc.Delete("u1", "missing")
	require.ErrorIs(t, err, repository.ErrWorkoutNotFound)
}
