package service

import (
	"testing"
	"time"

	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/projection"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/stretchr/testify/require"
)

// fakeRecordRepo is an in-memory RecordRepository.
type fakeRecordRepo struct {
	rows []*model.PersonalRecord
}

func (f *fakeRecordRepo) Create(record *model.PersonalRecord) error {
	r := *record
	f.rows = append(f.rows, &r)
	return nil
}

func (f *fakeRecordRepo) ByID(userID, recordID string) (*model.PersonalRecord, error) {
	for _, r := range f.rows {
		if r.ID == recordID && r.UserID == userID {
			out := *r
			return &out, nil
		}
	}
	return nil, repository.ErrRecordNotFound
}

func (f *fakeRecordRepo) Records(userID string) ([]*model.PersonalRecord, error) {
	var out []*model.PersonalRecord
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) History(userID, exercise string) ([]*model.PersonalRecord, error) {
	var out []*model.PersonalRecord
	for _, r := range f.rows {
		if r.UserID == userID && r.Exercise == exercise {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) Update(record *model.PersonalRecord) error {
	for i, r := range f.rows {
		if r.ID == record.ID && r.UserID == record.UserID {
			out := *record
			f.rows[i] = &out
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

func (f *fakeRecordRepo) Delete(userID, recordID string) error {
	for i, r := range f.rows {
		if r.ID == recordID && r.UserID == userID {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrRecordNotFound
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	profile *model.Profile
}

func (f *fakeProfileRepo) Create(profile *model.Profile) error {
	f.profile = profile
	return nil
}

func (f *fakeProfileRepo) ByUserID(userID string) (*model.Profile, error) {
	if f.profile == nil || f.profile.UserID != userID {
		return nil, repository.ErrProfileNotFound
	}
	out := *f.profile
	return &out, nil
}

func (f *fakeProfileRepo) Update(profile *model.Profile) error {
	f.profile = profile
	return nil
}

func newRecordService(repo *fakeRecordRepo, profile *model.Profile) *RecordService {
	return NewRecordService(repo, &fakeProfileRepo{profile: profile})
}

func TestRecordCreateValidation(t *testing.T) {
	svc := newRecordService(&fakeRecordRepo{}, nil)

	_, err := svc.Create("u1", "  ", 100, "kg", 0, time.Time{})
	require.ErrorIs(t, err, ErrExerciseRequired)

	_, err = svc.Create("u1", "Squat", 0, "kg", 0, time.Time{})
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestRecordCreateDefaults(t *testing.T) {
	svc := newRecordService(&fakeRecordRepo{}, nil)

	record, err := svc.Create("u1", "Squat", 100, "", 0, time.Time{})
	require.NoError(t, err)

	// Missing target stretches the current value; missing unit is kg.
	require.InDelta(t, 120, record.Target, 0.001)
	require.Equal(t, model.UnitKilograms, record.Unit)
	require.False(t, record.AchievedAt.IsZero())
}

func TestRecordCreateKeepsExplicitTarget(t *testing.T) {
	svc := newRecordService(&fakeRecordRepo{}, nil)

	record, err := svc.Create("u1", "Squat", 100, "lb", 140, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 140.0, record.Target)
	require.Equal(t, "lb", record.Unit)
}

func TestRecordProgressClamped(t *testing.T) {
	record := &model.PersonalRecord{Value: 150, Target: 100}
	require.Equal(t, 1.0, record.Progress())

	record = &model.PersonalRecord{Value: 50, Target: 100}
	require.Equal(t, 0.5, record.Progress())

	record = &model.PersonalRecord{Value: 50, Target: 0}
	require.Equal(t, 0.0, record.Progress())
}

func TestRecordUpdatePartial(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newRecordService(repo, nil)

	created, err := svc.Create("u1", "Bench", 80, "kg", 100, time.Time{})
	require.NoError(t, err)

	// Zero values leave fields untouched.
	updated, err := svc.Update("u1", created.ID, 85, 0, time.Time{})
	require.NoError(t, err)
	require.Equal(t, 85.0, updated.Value)
	require.Equal(t, 100.0, updated.Target)
	require.Equal(t, created.AchievedAt.Unix(), updated.AchievedAt.Unix())
}

func TestRecordDeleteChecksOwnership(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newRecordService(repo, nil)

	created, err := svc.Create("u1", "Bench", 80, "kg", 100, time.Time{})
	require.NoError(t, err)

	err = svc.Delete("someone-else", created.ID)
	require.ErrorIs(t, err, repository.ErrRecordNotFound)

	require.NoError(t, svc.Delete("u1", created.ID))
}

func TestRecordProgressReport(t *testing.T) {
	repo := &fakeRecordRepo{}
	profile := &model.Profile{UserID: "u1", ExperienceLevel: model.ExperienceIntermediate}
	svc := newRecordService(repo, profile)

	created, err := svc.Create("u1", "Squat", 100, "kg", 110, time.Now())
	require.NoError(t, err)

	report, err := svc.Progress("u1", created.ID)
	require.NoError(t, err)
	require.InDelta(t, 100.0/110.0, report.Progress, 0.001)

	// Single sample: the tier fallback applies. 10/(100*0.05) = 2 months.
	require.Equal(t, "~2 months", report.ETA)

	require.NotEmpty(t, report.Trajectory)
	first := report.Trajectory[0]
	last := report.Trajectory[len(report.Trajectory)-1]
	require.Equal(t, 100.0, first.Value)
	require.Equal(t, 110.0, last.Value)
}

func TestRecordProgressUsesTier(t *testing.T) {
	repo := &fakeRecordRepo{}
	profile := &model.Profile{UserID: "u1", ExperienceLevel: model.ExperienceBeginner}
	svc := newRecordService(repo, profile)

	created, err := svc.Create("u1", "Squat", 100, "kg", 110, time.Now())
	require.NoError(t, err)

	report, err := svc.Progress("u1", created.ID)
	require.NoError(t, err)

	// Beginner rate: 10/(100*0.10) = 1 month.
	require.Equal(t, "~1 month", report.ETA)
}

func TestRecordProgressDefaultsTierWithoutProfile(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newRecordService(repo, nil)

	created, err := svc.Create("u1", "Squat", 100, "kg", 110, time.Now())
	require.NoError(t, err)

	report, err := svc.Progress("u1", created.ID)
	require.NoError(t, err)
	require.Equal(t, "~2 months", report.ETA)
}

func TestRecordProgressGoalReached(t *testing.T) {
	repo := &fakeRecordRepo{}
	svc := newRecordService(repo, nil)

	created, err := svc.Create("u1", "Squat", 120, "kg", 110, time.Now())
	require.NoError(t, err)

	report, err := svc.Progress("u1", created.ID)
	require.NoError(t, err)
	require.Equal(t, projection.GoalReached, report.ETA)
	require.Empty(t, report.Trajectory)
	require.Equal(t, 1.0, report.Progress)
}
