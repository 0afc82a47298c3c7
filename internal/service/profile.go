package service

import (
	"errors"
	"fmt"

	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/validation"
)

var ErrInvalidExperienceLevel = errors.New("invalid experience level")

type ProfileService struct {
	profileRepository repository.ProfileRepository
}

func NewProfileService(profileRepository repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepository: profileRepository}
}

func (s *ProfileService) ByUserID(userID string) (*model.Profile, error) {
	return s.profileRepository.ByUserID(userID)
}

// Update applies the onboarding answers. An empty unit keeps the current
// one; name and experience level are validated.
func (s *ProfileService) Update(userID, name, experienceLevel, unit string) (*model.Profile, error) {
	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	err = validation.ValidateName(name)
	if err != nil {
		return nil, err
	}

	if !model.ValidExperienceLevel(experienceLevel) {
		return nil, ErrInvalidExperienceLevel
	}

	profile.Name = name
	profile.ExperienceLevel = experienceLevel
	if unit != "" {
		if unit != model.UnitKilograms && unit != model.UnitPounds {
			return nil, fmt.Errorf("invalid unit: %s", unit)
		}
		profile.Unit = unit
	}

	err = s.profileRepository.Update(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return profile, nil
}

// Onboarded reports whether onboarding has been completed. A profile
// with a name set counts as onboarded.
func (s *ProfileService) Onboarded(userID string) (bool, error) {
	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.Name != "", nil
}
