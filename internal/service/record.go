package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/projection"
	"github.com/liftlab/liftlab/internal/repository"
)

var (
	ErrExerciseRequired = errors.New("exercise name is required")
	ErrInvalidValue     = errors.New("value must be greater than zero")
)

type RecordService struct {
	repo        repository.RecordRepository
	profileRepo repository.ProfileRepository
}

func NewRecordService(repo repository.RecordRepository, profileRepo repository.ProfileRepository) *RecordService {
	return &RecordService{repo: repo, profileRepo: profileRepo}
}

// Create stores a new personal record. A missing target defaults to
// current value times the stretch factor. Repeated records for the same
// exercise build the history the projector reads.
func (s *RecordService) Create(userID, exercise string, value float64, unit string, target float64, achievedAt time.Time) (*model.PersonalRecord, error) {
	exercise = strings.TrimSpace(exercise)
	if exercise == "" {
		return nil, ErrExerciseRequired
	}
	if value <= 0 {
		return nil, ErrInvalidValue
	}
	if target <= 0 {
		target = value * model.DefaultTargetFactor
	}
	if unit == "" {
		unit = model.UnitKilograms
	}
	if achievedAt.IsZero() {
		achievedAt = time.Now()
	}

	record := &model.PersonalRecord{
		ID:         uuid.New().String(),
		UserID:     userID,
		Exercise:   exercise,
		Value:      value,
		Unit:       unit,
		Target:     target,
		AchievedAt: achievedAt,
		CreatedAt:  time.Now(),
	}

	err := s.repo.Create(record)
	if err != nil {
		return nil, fmt.Errorf("failed to create record: %w", err)
	}

	return record, nil
}

func (s *RecordService) ByID(userID, recordID string) (*model.PersonalRecord, error) {
	return s.repo.ByID(userID, recordID)
}

func (s *RecordService) Records(userID string) ([]*model.PersonalRecord, error) {
	return s.repo.Records(userID)
}

func (s *RecordService) Update(userID, recordID string, value float64, target float64, achievedAt time.Time) (*model.PersonalRecord, error) {
	record, err := s.repo.ByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	if value > 0 {
		record.Value = value
	}
	if target > 0 {
		record.Target = target
	}
	if !achievedAt.IsZero() {
		record.AchievedAt = achievedAt
	}

	err = s.repo.Update(record)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (s *RecordService) Delete(userID, recordID string) error {
	// Verify ownership
	_, err := s.repo.ByID(userID, recordID)
	if err != nil {
		return err
	}

	return s.repo.Delete(userID, recordID)
}

// ProgressReport is what the record detail screen charts: completion
// fraction, the estimated time to goal and a projected trajectory.
type ProgressReport struct {
	Record     *model.PersonalRecord `json:"record"`
	Progress   float64               `json:"progress"`
	ETA        string                `json:"eta"`
	Trajectory []projection.Point    `json:"trajectory,omitempty"`
}

// Progress projects the record toward its target using the lifter's
// experience tier and the same-exercise history.
func (s *RecordService) Progress(userID, recordID string) (*ProgressReport, error) {
	record, err := s.repo.ByID(userID, recordID)
	if err != nil {
		return nil, err
	}

	tier := projection.TierIntermediate
	profile, err := s.profileRepo.ByUserID(userID)
	if err == nil && model.ValidExperienceLevel(profile.ExperienceLevel) {
		tier = projection.Tier(profile.ExperienceLevel)
	}

	history, err := s.repo.History(userID, record.Exercise)
	if err != nil {
		return nil, fmt.Errorf("failed to load record history: %w", err)
	}

	samples := make([]projection.Sample, 0, len(history))
	for _, h := range history {
		samples = append(samples, projection.Sample{Value: h.Value, Date: h.AchievedAt})
	}

	eta := projection.EstimateETA(record.Value, record.Target, tier, samples)

	return &ProgressReport{
		Record:     record,
		Progress:   record.Progress(),
		ETA:        eta,
		Trajectory: projection.Trajectory(record.Value, record.Target, eta, time.Now()),
	}, nil
}
