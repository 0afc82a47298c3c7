package model

import "time"

const (
	SenderUser    = "user"
	SenderTrainer = "assistant"
)

// Message is a single trainer-chat turn. Messages are immutable after
// creation; the only deletion path is the bulk clear-history operation.
type Message struct {
	ID     string    `db:"id" json:"id"`
	UserID string    `db:"user_id" json:"userId"`
	Sender string    `db:"sender" json:"sender"`
	Body   string    `db:"body" json:"body"`
	SentAt time.Time `db:"sent_at" json:"sentAt"`
}

func (m Message) RecordID() string { return m.ID }

func (m Message) RecordTime() time.Time { return m.SentAt }
