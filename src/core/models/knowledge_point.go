package models

import (
	"time"

	"github.com/google/uuid"
)

// MaxPointsPerAwarderPerPost caps the sum of points a single awarder can put
// on a single post.
const MaxPointsPerAwarderPerPost = 100

// KnowledgePointAward is one append-only point grant. Running totals are
// derived by summing rows, never stored; corrections are not supported, so
// there is no update or delete path.
type KnowledgePointAward struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;index:idx_kp_post_awarder,priority:1" json:"post_id"`
	AwarderID uuid.UUID `gorm:"column:awarder_id;type:uuid;not null;index:idx_kp_post_awarder,priority:2" json:"awarder_id"`
	Points    int       `gorm:"column:points;type:int;not null" json:"points"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (KnowledgePointAward) TableName() string {
	return "knowledge_point_awards"
}
