package feed

import (
	"strconv"
	"time"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/gofiber/fiber/v2"
)

type FeedPost struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Content       string    `json:"content"`
	Tags          string    `json:"tags"`
	ReactionCount int64     `json:"reaction_count"`
	CommentCount  int64     `json:"comment_count"`
	TotalPoints   int64     `json:"total_points"`
	CreatedAt     time.Time `json:"created_at"`
}

// FetchFeed handles GET /feed?limit=&offset=. Counts are derived with
// correlated subqueries; the posts table carries no counters.
func FetchFeed(c *fiber.Ctx) error {
	db := database.DB

	limit, offset := parsePagination(c)

	var posts []FeedPost
	err := db.Table("posts").
		Select(`posts.id, posts.user_id, posts.content, posts.tags, posts.created_at,
			(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id) AS reaction_count,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count,
			(SELECT COALESCE(SUM(points), 0) FROM knowledge_point_awards WHERE knowledge_point_awards.post_id = posts.id) AS total_points`).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Scan(&posts).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch feed", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Feed retrieved successfully", posts)
}

func parsePagination(c *fiber.Ctx) (int, int) {
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.Query("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
