package model

import (
	"time"
)

// Photo is a progress photo stored in object storage; the row holds
// metadata only, the bytes live at StoragePath in the bucket.
type Photo struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	Filename     string    `db:"filename" json:"-"`
	OriginalName string    `db:"original_name" json:"originalName"`
	MimeType     string    `db:"mime_type" json:"mimeType"`
	Size         int64     `db:"size" json:"size"`
	StoragePath  string    `db:"storage_path" json:"-"`
	TakenAt      time.Time `db:"taken_at" json:"takenAt"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`

	// Computed field (not in database)
	URL string `db:"-" json:"url,omitempty"`
}
