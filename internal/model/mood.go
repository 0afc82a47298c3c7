package model

import "time"

// DayLayout is the calendar-day format used for mood identity. Mood
// entries are keyed by (user, day), not by instant.
const DayLayout = "2006-01-02"

// Mood is one option from the fixed mood palette. Label/icon/color are
// denormalized onto entries so history renders without palette lookups.
type Mood struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// MoodPalette is the fixed set of loggable moods, best to worst.
var MoodPalette = []Mood{
	{Label: "Great", Icon: "sun", Color: "#4CAF50"},
	{Label: "Good", Icon: "smile", Color: "#8BC34A"},
	{Label: "Okay", Icon: "meh", Color: "#FFC107"},
	{Label: "Bad", Icon: "cloud", Color: "#FF9800"},
	{Label: "Awful", Icon: "cloud-rain", Color: "#F44336"},
}

// MoodByLabel looks up a palette entry, case-sensitive on the label.
func MoodByLabel(label string) (Mood, bool) {
	for _, m := range MoodPalette {
		if m.Label == label {
			return m, true
		}
	}
	return Mood{}, false
}

// MoodEntry is one mood sample. At most one entry per user per calendar
// day is current; re-logging the same day updates in place.
type MoodEntry struct {
	ID       string    `db:"id" json:"id"`
	UserID   string    `db:"user_id" json:"userId"`
	Day      string    `db:"day" json:"day"`
	Label    string    `db:"label" json:"label"`
	Icon     string    `db:"icon" json:"icon"`
	Color    string    `db:"color" json:"color"`
	LoggedAt time.Time `db:"logged_at" json:"loggedAt"`
}

func (e MoodEntry) RecordID() string { return e.ID }

func (e MoodEntry) RecordTime() time.Time { return e.LoggedAt }
