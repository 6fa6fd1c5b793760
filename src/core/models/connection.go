package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ConnectionPending  = "PENDING"
	ConnectionAccepted = "ACCEPTED"
	ConnectionRejected = "REJECTED"
)

// Connection is a directed request from requester to receiver that becomes a
// bidirectional friendship once ACCEPTED. The unique index covers the ordered
// pair, so a request in the reverse direction is a distinct row.
type Connection struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RequesterID uuid.UUID `gorm:"column:requester_id;type:uuid;not null;uniqueIndex:idx_connections_pair,priority:1" json:"requester_id"`
	ReceiverID  uuid.UUID `gorm:"column:receiver_id;type:uuid;not null;uniqueIndex:idx_connections_pair,priority:2" json:"receiver_id"`
	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'PENDING'" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Connection) TableName() string {
	return "connections"
}

func (c *Connection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsValidConnectionStatus reports whether s is one of the three statuses.
func IsValidConnectionStatus(s string) bool {
	switch s {
	case ConnectionPending, ConnectionAccepted, ConnectionRejected:
		return true
	}
	return false
}
