package models

import "time"

// Event is a family calendar entry. EventDate and EventTime are kept as
// literal "YYYY-MM-DD" / "HH:MM" strings; date arithmetic on them would
// shift across timezones, and birthday synchronization depends on the stored
// month/day substrings being taken verbatim.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FamilyID    uint      `json:"family_id" gorm:"not null;index:idx_events_family"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description *string   `json:"description"`
	EventDate   string    `json:"event_date" gorm:"size:10;not null;index:idx_events_date"`
	EventTime   *string   `json:"event_time" gorm:"size:5"`
	Location    *string   `json:"location" gorm:"size:255"`
	CreatedBy   *uint     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Event) TableName() string {
	return "family_events"
}
