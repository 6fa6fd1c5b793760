package knowledgepoints

import (
	"errors"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AwardResult carries the two derived totals callers display after an award.
type AwardResult struct {
	TotalPointsAwarded int `json:"total_points_awarded"`
	PostTotalPoints    int `json:"post_total_points"`
}

// AwardPoints appends one knowledge-point grant. The whole award runs in a
// transaction that first locks the post row (SELECT ... FOR UPDATE on
// Postgres), so two concurrent awards for the same post serialize: the second
// transaction blocks on the lock and, once it proceeds, its cap check sees
// the first award's committed row. A bare conditional insert is not enough on
// Postgres at READ COMMITTED — each statement's inner SUM reads a snapshot
// that excludes the other session's uncommitted row, and two inserts of
// distinct rows never conflict. Totals are derived by SUM on read, never
// cached.
func AwardPoints(db *gorm.DB, postID, awarderID uuid.UUID, points int) (*AwardResult, error) {
	if points <= 0 {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeInvalidPoints,
			"Points must be a positive value")
	}

	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", awarderID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeUserNotFound, "User not found")
	}

	var result AwardResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := lockForUpdate(tx).Select("id, user_id").Where("id = ?", postID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodePostNotFound, "Post not found")
			}
			return err
		}
		if post.UserID == awarderID {
			return helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeSelfAward,
				"Cannot award points to your own post")
		}

		res := tx.Exec(`INSERT INTO knowledge_point_awards (post_id, awarder_id, points, created_at)
			SELECT ?, ?, ?, CURRENT_TIMESTAMP
			WHERE (SELECT COALESCE(SUM(points), 0) FROM knowledge_point_awards WHERE post_id = ? AND awarder_id = ?) + ? <= ?`,
			postID, awarderID, points, postID, awarderID, points, models.MaxPointsPerAwarderPerPost)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeAlreadyMaxed,
				"Award would exceed the 100 point cap for this post")
		}

		awarderTotal, err := sumPoints(tx, postID, awarderID)
		if err != nil {
			return err
		}
		postTotal, err := sumPoints(tx, postID, uuid.Nil)
		if err != nil {
			return err
		}
		result = AwardResult{TotalPointsAwarded: awarderTotal, PostTotalPoints: postTotal}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// lockForUpdate adds FOR UPDATE where the backend has row locks. The SQLite
// test driver has none and needs none: its single writer already serializes
// the award transactions.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// PostPoints is the read model for a post's knowledge points.
type PostPoints struct {
	PostTotalPoints int            `json:"post_total_points"`
	ByAwarder       map[string]int `json:"by_awarder"`
}

// GetPostPoints returns the post grand total and the per-awarder breakdown.
func GetPostPoints(db *gorm.DB, postID uuid.UUID) (*PostPoints, error) {
	var n int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helpers.NewAPIError(fiber.StatusNotFound, helpers.CodePostNotFound, "Post not found")
	}

	var rows []struct {
		AwarderID uuid.UUID
		Total     int
	}
	err := db.Model(&models.KnowledgePointAward{}).
		Select("awarder_id, SUM(points) AS total").
		Where("post_id = ?", postID).
		Group("awarder_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	points := &PostPoints{ByAwarder: make(map[string]int, len(rows))}
	for _, row := range rows {
		points.ByAwarder[row.AwarderID.String()] = row.Total
		points.PostTotalPoints += row.Total
	}
	return points, nil
}

// sumPoints sums the awards on a post, for one awarder when awarderID is set
// or across all awarders when it is uuid.Nil.
func sumPoints(db *gorm.DB, postID, awarderID uuid.UUID) (int, error) {
	query := db.Model(&models.KnowledgePointAward{}).Where("post_id = ?", postID)
	if awarderID != uuid.Nil {
		query = query.Where("awarder_id = ?", awarderID)
	}
	var total int
	if err := query.Select("COALESCE(SUM(points), 0)").Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// Award handles POST /knowledge-points.
func Award(c *fiber.Ctx) error {
	db := database.DB

	awarderID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	var body struct {
		PostID string `json:"post_id"`
		Points int    `json:"points"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	postID, err := uuid.Parse(body.PostID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post_id format", err)
	}

	result, err := AwardPoints(db, postID, awarderID, body.Points)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Knowledge points awarded", result)
}

// ForPost handles GET /knowledge-points/:post_id.
func ForPost(c *fiber.Ctx) error {
	db := database.DB

	postID, err := uuid.Parse(c.Params("post_id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post_id format", err)
	}

	points, err := GetPostPoints(db, postID)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Knowledge points retrieved", points)
}
