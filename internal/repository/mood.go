package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

var ErrMoodEntryNotFound = errors.New("mood entry not found")

// MoodRepository is the remote row store for daily mood entries. Beyond
// the synced-collection surface it supports lookup by calendar day and
// update-by-id, which the same-day upsert path needs.
type MoodRepository interface {
	ByUser(ctx context.Context, userID string) ([]model.MoodEntry, error)
	ByUserAndDay(ctx context.Context, userID, day string) (*model.MoodEntry, error)
	InsertBatch(ctx context.Context, entries []model.MoodEntry) error
	UpdateByID(ctx context.Context, entry *model.MoodEntry) error
	DeleteByUser(ctx context.Context, userID string) error
}

type moodRepository struct {
	db *sqlx.DB
}

func NewMoodRepository(db *sqlx.DB) MoodRepository {
	return &moodRepository{db: db}
}

func (r *moodRepository) ByUser(ctx context.Context, userID string) ([]model.MoodEntry, error) {
	var entries []model.MoodEntry
	query := `SELECT * FROM mood_entries WHERE user_id = $1 ORDER BY logged_at ASC`

	err := r.db.SelectContext(ctx, &entries, query, userID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *moodRepository) ByUserAndDay(ctx context.Context, userID, day string) (*model.MoodEntry, error) {
	entry := &model.MoodEntry{}
	query := `SELECT * FROM mood_entries WHERE user_id = $1 AND day = $2`

	err := r.db.GetContext(ctx, entry, query, userID, day)
	if err == sql.ErrNoRows {
		return nil, ErrMoodEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func (r *moodRepository) InsertBatch(ctx context.Context, entries []model.MoodEntry) error {
	if len(entries) == 0 {
		return nil
	}

	query := `INSERT INTO mood_entries (id, user_id, day, label, icon, color, logged_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, e := range entries {
		_, err := r.db.ExecContext(ctx, query, e.ID, e.UserID, e.Day, e.Label, e.Icon, e.Color, e.LoggedAt)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *moodRepository) UpdateByID(ctx context.Context, entry *model.MoodEntry) error {
	query := `UPDATE mood_entries SET label = $1, icon = $2, color = $3, logged_at = $4 WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, entry.Label, entry.Icon, entry.Color, entry.LoggedAt, entry.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrMoodEntryNotFound
	}

	return nil
}

func (r *moodRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM mood_entries WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
