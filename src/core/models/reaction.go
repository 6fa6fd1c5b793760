package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction types a user can put on a post or a comment.
const (
	ReactionLike       = "LIKE"
	ReactionLove       = "LOVE"
	ReactionInsightful = "INSIGHTFUL"
	ReactionSupport    = "SUPPORT"
)

// Reaction is a user's single reaction to one target: either a post or a
// comment, never both. The unset target column holds uuid.Nil rather than
// NULL so the composite unique index stays effective — NULLs never collide,
// uuid.Nil does. At most one row can exist per (user_id, post_id, comment_id).
type Reaction struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_reactions_user_target,priority:1" json:"user_id"`
	PostID    uuid.UUID `gorm:"column:post_id;type:uuid;not null;uniqueIndex:idx_reactions_user_target,priority:2" json:"post_id"`
	CommentID uuid.UUID `gorm:"column:comment_id;type:uuid;not null;uniqueIndex:idx_reactions_user_target,priority:3" json:"comment_id"`
	Type      string    `gorm:"column:type;type:varchar(20);not null" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp with time zone;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsValidReactionType reports whether t is one of the four reaction types.
func IsValidReactionType(t string) bool {
	switch t {
	case ReactionLike, ReactionLove, ReactionInsightful, ReactionSupport:
		return true
	}
	return false
}
