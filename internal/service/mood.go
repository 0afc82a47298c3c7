package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/liftlab/liftlab/internal/kvstore"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/repository"
	"github.com/liftlab/liftlab/internal/syncstore"
)

var ErrUnknownMood = errors.New("unknown mood label")

type MoodService struct {
	store    *syncstore.Store[model.MoodEntry]
	moodRepo repository.MoodRepository
}

// NewMoodService wires the mood sync store. Moods have no seed record:
// an empty history is a valid state.
func NewMoodService(moodRepo repository.MoodRepository, cache *kvstore.Store) *MoodService {
	store := syncstore.New[model.MoodEntry](moodRepo, cache, "moods", nil)
	return &MoodService{store: store, moodRepo: moodRepo}
}

// History resolves all mood entries, reconciling cache and remote.
func (s *MoodService) History(ctx context.Context, userID string) []model.MoodEntry {
	return s.store.Load(ctx, userID)
}

// Log records today's mood. It is an upsert keyed by (user, calendar
// day): re-logging the same day replaces the entry instead of
// accumulating duplicates, locally and remotely. Remote failures are
// absorbed; the entry always lands locally.
func (s *MoodService) Log(ctx context.Context, userID, label string) (model.MoodEntry, error) {
	return s.logAt(ctx, userID, label, time.Now().UTC())
}

func (s *MoodService) logAt(ctx context.Context, userID, label string, now time.Time) (model.MoodEntry, error) {
	mood, ok := model.MoodByLabel(label)
	if !ok {
		return model.MoodEntry{}, ErrUnknownMood
	}

	day := now.Format(model.DayLayout)

	entry := model.MoodEntry{
		ID:       uuid.NewString(),
		UserID:   userID,
		Day:      day,
		Label:    mood.Label,
		Icon:     mood.Icon,
		Color:    mood.Color,
		LoggedAt: now,
	}

	// Remote side first: update-by-id when a row for today already
	// exists, insert otherwise.
	if userID != "" {
		existing, err := s.moodRepo.ByUserAndDay(ctx, userID, day)
		switch {
		case err == nil:
			entry.ID = existing.ID
			err = s.moodRepo.UpdateByID(ctx, &entry)
			if err != nil {
				slog.Warn("mood remote update failed", "user_id", userID, "day", day, "error", err)
			}
		case errors.Is(err, repository.ErrMoodEntryNotFound):
			err = s.moodRepo.InsertBatch(ctx, []model.MoodEntry{entry})
			if err != nil {
				slog.Warn("mood remote insert failed", "user_id", userID, "day", day, "error", err)
			}
		default:
			slog.Warn("mood remote lookup failed", "user_id", userID, "day", day, "error", err)
		}
	}

	// Local side: replace any same-day entry in the collection.
	current := s.store.Load(ctx, userID)
	merged := make([]model.MoodEntry, 0, len(current)+1)
	for _, e := range current {
		if e.Day != day {
			merged = append(merged, e)
		}
	}
	merged = append(merged, entry)
	s.store.Put(ctx, userID, merged)

	return entry, nil
}
