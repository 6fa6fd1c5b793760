package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventQuiz    = "QUIZ"
	EventWebinar = "WEBINAR"
	EventDebate  = "DEBATE"
)

type Event struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	HostID      uuid.UUID `gorm:"column:host_id;type:uuid;not null" json:"host_id"`
	Kind        string    `gorm:"column:kind;type:varchar(20);not null" json:"kind"`
	Title       string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	StartsAt    time.Time `gorm:"column:starts_at;type:timestamp with time zone;not null" json:"starts_at"`
	DurationMin int       `gorm:"column:duration_min;type:int;not null;default:60" json:"duration_min"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}

func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// EventRegistration records a user joining a scheduled event. The ordered
// unique index makes re-registration a constraint violation, same discipline
// as connection requests.
type EventRegistration struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   uuid.UUID `gorm:"column:event_id;type:uuid;not null;uniqueIndex:idx_event_registrations_pair,priority:1" json:"event_id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_event_registrations_pair,priority:2" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (EventRegistration) TableName() string {
	return "event_registrations"
}

// IsValidEventKind reports whether k is one of the scheduled event kinds.
func IsValidEventKind(k string) bool {
	switch k {
	case EventQuiz, EventWebinar, EventDebate:
		return true
	}
	return false
}
