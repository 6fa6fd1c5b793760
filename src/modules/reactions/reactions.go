package reactions

import (
	"errors"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpsertInput is one reaction request: exactly one of PostID/CommentID is set,
// the other stays uuid.Nil.
type UpsertInput struct {
	PostID    uuid.UUID
	CommentID uuid.UUID
	Type      string
}

// UpsertReaction enforces the at-most-one-reaction-per-user-per-target
// invariant. The returned bool is true when the row was inserted or its type
// changed, false when the call matched the existing row exactly.
//
// The unique index on (user_id, post_id, comment_id) backstops concurrent
// inserts for the same pair: losing the race surfaces gorm.ErrDuplicatedKey,
// and the loser re-reads the winner's row and applies its type to it instead.
func UpsertReaction(db *gorm.DB, userID uuid.UUID, in UpsertInput) (*models.Reaction, bool, error) {
	if (in.PostID == uuid.Nil) == (in.CommentID == uuid.Nil) {
		return nil, false, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeInvalidTarget,
			"Exactly one of post_id or comment_id must be set")
	}
	if !models.IsValidReactionType(in.Type) {
		return nil, false, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeInvalidReactionType,
			"Reaction type must be one of LIKE, LOVE, INSIGHTFUL, SUPPORT")
	}

	if err := checkUserExists(db, userID); err != nil {
		return nil, false, err
	}
	if err := checkTargetExists(db, in); err != nil {
		return nil, false, err
	}

	var reaction models.Reaction
	mutated := false

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND post_id = ? AND comment_id = ?", userID, in.PostID, in.CommentID).
			First(&reaction).Error
		if err == nil {
			if reaction.Type == in.Type {
				return nil // idempotent match, nothing to do
			}
			mutated = true
			return tx.Model(&reaction).Update("type", in.Type).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		reaction = models.Reaction{
			UserID:    userID,
			PostID:    in.PostID,
			CommentID: in.CommentID,
			Type:      in.Type,
		}
		if err := tx.Create(&reaction).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the insert race. Fetch into a fresh struct: the failed
				// Create left a primary key on `reaction`, and First would
				// fold that stale id into the WHERE clause.
				var winner models.Reaction
				if err := tx.Where("user_id = ? AND post_id = ? AND comment_id = ?", userID, in.PostID, in.CommentID).
					First(&winner).Error; err != nil {
					return err
				}
				reaction = winner
				if reaction.Type == in.Type {
					return nil
				}
				mutated = true
				return tx.Model(&reaction).Update("type", in.Type).Error
			}
			return err
		}
		mutated = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &reaction, mutated, nil
}

// DeleteReaction hard-deletes a reaction by id.
func DeleteReaction(db *gorm.DB, id uuid.UUID) error {
	result := db.Where("id = ?", id).Delete(&models.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helpers.NewAPIError(fiber.StatusNotFound, helpers.CodeReactionNotFound, "Reaction not found")
	}
	return nil
}

// CountForTarget returns per-type reaction counts for one target, derived by
// aggregation at read time.
func CountForTarget(db *gorm.DB, postID, commentID uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		Type  string
		Count int64
	}
	err := db.Model(&models.Reaction{}).
		Select("type, COUNT(*) AS count").
		Where("post_id = ? AND comment_id = ?", postID, commentID).
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

func checkUserExists(db *gorm.DB, userID uuid.UUID) error {
	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helpers.NewAPIError(fiber.StatusNotFound, helpers.CodeUserNotFound, "User not found")
	}
	return nil
}

func checkTargetExists(db *gorm.DB, in UpsertInput) error {
	if in.PostID != uuid.Nil {
		var n int64
		if err := db.Model(&models.Post{}).Where("id = ?", in.PostID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return helpers.NewAPIError(fiber.StatusNotFound, helpers.CodePostNotFound, "Post not found")
		}
		return nil
	}
	var n int64
	if err := db.Model(&models.Comment{}).Where("id = ?", in.CommentID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return helpers.NewAPIError(fiber.StatusNotFound, helpers.CodeCommentNotFound, "Comment not found")
	}
	return nil
}

// React handles POST /reactions. 200 when the call matched the existing
// reaction exactly, 201 when a row was created or its type changed.
func React(c *fiber.Ctx) error {
	db := database.DB

	userID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	var body struct {
		PostID    string `json:"post_id"`
		CommentID string `json:"comment_id"`
		Type      string `json:"type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	in := UpsertInput{Type: body.Type}
	if body.PostID != "" {
		id, err := uuid.Parse(body.PostID)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidTarget, "Invalid post_id format", err)
		}
		in.PostID = id
	}
	if body.CommentID != "" {
		id, err := uuid.Parse(body.CommentID)
		if err != nil {
			return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidTarget, "Invalid comment_id format", err)
		}
		in.CommentID = id
	}

	reaction, mutated, err := UpsertReaction(db, userID, in)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	if mutated {
		return helpers.HandleSuccess(c, fiber.StatusCreated, "Reaction recorded", reaction)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Reaction unchanged", reaction)
}

// Remove handles DELETE /reactions?id=.
func Remove(c *fiber.Ctx) error {
	db := database.DB

	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid reaction id", err)
	}

	if err := DeleteReaction(db, id); err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Reaction deleted", nil)
}

// CountForPost handles GET /posts/:post_id/reactions/count.
func CountForPost(c *fiber.Ctx) error {
	db := database.DB

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post_id format", err)
	}

	counts, err := CountForTarget(db, postID, uuid.Nil)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Reaction counts retrieved", counts)
}
