package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/db"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", dbSeq.Add(1))
	conn, err := sqlx.Connect("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))
	return conn
}

func createTestUser(t *testing.T, conn *sqlx.DB) *model.User {
	t.Helper()

	user := &model.User{
		ID:        uuid.New().String(),
		Email:     uuid.New().String() + "@example.com",
		CreatedAt: time.Now(),
	}
	require.NoError(t, NewUserRepository(conn).Create(user))
	return user
}

func TestUserDuplicateEmail(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	user := &model.User{ID: uuid.New().String(), Email: "a@example.com", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(user))

	dup := &model.User{ID: uuid.New().String(), Email: "a@example.com", CreatedAt: time.Now()}
	require.ErrorIs(t, repo.Create(dup), ErrDuplicateEmail)
}

func TestUserByEmailNotFound(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)

	_, err := repo.ByEmail("nobody@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdateRoundTrip(t *testing.T) {
	conn := newTestDB(t)
	repo := NewUserRepository(conn)
	user := createTestUser(t, conn)

	hash := "bcrypt-hash"
	now := time.Now().UTC().Truncate(time.Second)
	user.PasswordHash = &hash
	user.EmailVerifiedAt = &now
	require.NoError(t, repo.Update(user))

	got, err := repo.ByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PasswordHash)
	require.Equal(t, hash, *got.PasswordHash)
	require.NotNil(t, got.EmailVerifiedAt)
}

func TestUserDeleteCascades(t *testing.T) {
	conn := newTestDB(t)
	userRepo := NewUserRepository(conn)
	profileRepo := NewProfileRepository(conn)
	user := createTestUser(t, conn)

	profile := &model.Profile{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		ExperienceLevel: model.ExperienceIntermediate,
		Unit:            model.UnitKilograms,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	require.NoError(t, profileRepo.Create(profile))

	require.NoError(t, userRepo.Delete(user.ID))

	_, err := profileRepo.ByUserID(user.ID)
	require.ErrorIs(t, err, ErrProfileNotFound)
}

func TestTokenConsumeOnce(t *testing.T) {
	conn := newTestDB(t)
	repo := NewTokenRepository(conn)
	user := createTestUser(t, conn)

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypeMagicLink,
		Token:     "tok-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Create(token))

	got, err := repo.ConsumeToken("tok-1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.UserID)

	// Second consume fails: the token is single use.
	_, err = repo.ConsumeToken("tok-1")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenExpired(t *testing.T) {
	conn := newTestDB(t)
	repo := NewTokenRepository(conn)
	user := createTestUser(t, conn)

	token := &model.Token{
		UserID:    user.ID,
		Type:      model.TokenTypePasswordReset,
		Token:     "tok-old",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, repo.Create(token))

	_, err := repo.ConsumeToken("tok-old")
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestTokenDeleteByUserAndType(t *testing.T) {
	conn := newTestDB(t)
	repo := NewTokenRepository(conn)
	user := createTestUser(t, conn)

	for i, typ := range []string{model.TokenTypeMagicLink, model.TokenTypePasswordReset} {
		require.NoError(t, repo.Create(&model.Token{
			UserID:    user.ID,
			Type:      typ,
			Token:     fmt.Sprintf("tok-%d", i),
			ExpiresAt: time.Now().Add(time.Hour),
		}))
	}

	require.NoError(t, repo.DeleteByUserAndType(user.ID, model.TokenTypeMagicLink))

	_, err := repo.ConsumeToken("tok-0")
	require.ErrorIs(t, err, ErrTokenNotFound)

	// The other type is untouched.
	_, err = repo.ConsumeToken("tok-1")
	require.NoError(t, err)
}

func TestMoodByUserAndDay(t *testing.T) {
	conn := newTestDB(t)
	repo := NewMoodRepository(conn)
	ctx := context.Background()

	entry := model.MoodEntry{
		ID:       uuid.New().String(),
		UserID:   "u1",
		Day:      "2025-06-01",
		Label:    "Good",
		Icon:     "smile",
		Color:    "#8BC34A",
		LoggedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.InsertBatch(ctx, []model.MoodEntry{entry}))

	got, err := repo.ByUserAndDay(ctx, "u1", "2025-06-01")
	require.NoError(t, err)
	require.Equal(t, entry.ID, got.ID)

	_, err = repo.ByUserAndDay(ctx, "u1", "2025-06-02")
	require.ErrorIs(t, err, ErrMoodEntryNotFound)
}

func TestMoodUpdateByID(t *testing.T) {
	conn := newTestDB(t)
	repo := NewMoodRepository(conn)
	ctx := context.Background()

	entry := model.MoodEntry{
		ID:       uuid.New().String(),
		UserID:   "u1",
		Day:      "2025-06-01",
		Label:    "Good",
		Icon:     "smile",
		Color:    "#8BC34A",
		LoggedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.InsertBatch(ctx, []model.MoodEntry{entry}))

	entry.Label = "Bad"
	entry.Icon = "cloud"
	entry.Color = "#FF9800"
	require.NoError(t, repo.UpdateByID(ctx, &entry))

	got, err := repo.ByUserAndDay(ctx, "u1", "2025-06-01")
	require.NoError(t, err)
	require.Equal(t, "Bad", got.Label)

	missing := model.MoodEntry{ID: uuid.New().String(), UserID: "u1", Day: "2025-06-03"}
	require.ErrorIs(t, repo.UpdateByID(ctx, &missing), ErrMoodEntryNotFound)
}

func TestMessageOrderAndClear(t *testing.T) {
	conn := newTestDB(t)
	repo := NewMessageRepository(conn)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	messages := []model.Message{
		{ID: "m2", UserID: "u1", Sender: model.SenderUser, Body: "second", SentAt: base.Add(time.Minute)},
		{ID: "m1", UserID: "u1", Sender: model.SenderTrainer, Body: "first", SentAt: base},
	}
	require.NoError(t, repo.InsertBatch(ctx, messages))

	got, err := repo.ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "m1", got[0].ID)
	require.Equal(t, "m2", got[1].ID)

	require.NoError(t, repo.DeleteByUser(ctx, "u1"))

	got, err = repo.ByUser(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestRecordsNewestPerExercise(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRecordRepository(conn)
	user := createTestUser(t, conn)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, v := range []float64{80, 90, 100} {
		require.NoError(t, repo.Create(&model.PersonalRecord{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			Exercise:   "Squat",
			Value:      v,
			Unit:       "kg",
			Target:     120,
			AchievedAt: base.AddDate(0, i, 0),
			CreatedAt:  time.Now(),
		}))
	}
	require.NoError(t, repo.Create(&model.PersonalRecord{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Exercise:   "Bench",
		Value:      60,
		Unit:       "kg",
		Target:     80,
		AchievedAt: base,
		CreatedAt:  time.Now(),
	}))

	records, err := repo.Records(user.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first: the latest squat, then the bench.
	require.Equal(t, "Squat", records[0].Exercise)
	require.Equal(t, 100.0, records[0].Value)
	require.Equal(t, "Bench", records[1].Exercise)
}

func TestRecordHistoryOldestFirst(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRecordRepository(conn)
	user := createTestUser(t, conn)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, v := range []float64{100, 80, 90} {
		require.NoError(t, repo.Create(&model.PersonalRecord{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			Exercise:   "Deadlift",
			Value:      v,
			Unit:       "kg",
			Target:     140,
			AchievedAt: base.AddDate(0, (3-i)%3, 0),
			CreatedAt:  time.Now(),
		}))
	}

	history, err := repo.History(user.ID, "Deadlift")
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i := 1; i < len(history); i++ {
		require.True(t, history[i].AchievedAt.After(history[i-1].AchievedAt))
	}
}

func TestStatsUpsert(t *testing.T) {
	conn := newTestDB(t)
	repo := NewStatsRepository(conn)
	user := createTestUser(t, conn)

	_, err := repo.ByUser(user.ID)
	require.ErrorIs(t, err, ErrStatsNotFound)

	now := time.Now().UTC()
	require.NoError(t, repo.Upsert(&model.AggregatedStats{
		UserID:        user.ID,
		TotalWorkouts: 1,
		TotalMinutes:  45,
		StreakDays:    1,
		LastWorkoutAt: &now,
		UpdatedAt:     now,
	}))

	require.NoError(t, repo.Upsert(&model.AggregatedStats{
		UserID:        user.ID,
		TotalWorkouts: 2,
		TotalMinutes:  75,
		StreakDays:    2,
		LastWorkoutAt: &now,
		UpdatedAt:     now,
	}))

	stats, err := repo.ByUser(user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalWorkouts)
	require.Equal(t, 75, stats.TotalMinutes)
}

func TestWorkoutDeleteScopedToUser(t *testing.T) {
	conn := newTestDB(t)
	repo := NewWorkoutRepository(conn)
	user := createTestUser(t, conn)

	workout := &model.Workout{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		Name:        "Push day",
		Exercises:   "[]",
		PerformedAt: time.Now(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(workout))

	require.ErrorIs(t, repo.Delete("someone-else", workout.ID), ErrWorkoutNotFound)
	require.NoError(t, repo.Delete(user.ID, workout.ID))
}
