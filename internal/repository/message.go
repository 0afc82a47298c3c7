package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/liftlab/liftlab/internal/model"
)

// MessageRepository is the remote row store for trainer-chat messages.
// It sits behind the sync layer, which tolerates every error here by
// falling back to the local cache, so methods take a context and return
// plain errors without wrapping.
type MessageRepository interface {
	ByUser(ctx context.Context, userID string) ([]model.Message, error)
	InsertBatch(ctx context.Context, messages []model.Message) error
	DeleteByUser(ctx context.Context, userID string) error
}

type messageRepository struct {
	db *sqlx.DB
}

func NewMessageRepository(db *sqlx.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) ByUser(ctx context.Context, userID string) ([]model.Message, error) {
	var messages []model.Message
	query := `SELECT * FROM messages WHERE user_id = $1 ORDER BY sent_at ASC`

	err := r.db.SelectContext(ctx, &messages, query, userID)
	if err != nil {
		return nil, err
	}

	return messages, nil
}

func (r *messageRepository) InsertBatch(ctx context.Context, messages []model.Message) error {
	if len(messages) == 0 {
		return nil
	}

	query := `INSERT INTO messages (id, user_id, sender, body, sent_at) VALUES ($1, $2, $3, $4, $5)`

	for _, m := range messages {
		_, err := r.db.ExecContext(ctx, query, m.ID, m.UserID, m.Sender, m.Body, m.SentAt)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *messageRepository) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM messages WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
