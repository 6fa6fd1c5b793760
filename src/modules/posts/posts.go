package posts

import (
	"errors"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createPostRequest struct {
	Content string `json:"content" validate:"required,min=1"`
	Tags    string `json:"tags" validate:"omitempty,max=255"`
}

// CreatePost handles POST /posts.
func CreatePost(c *fiber.Ctx) error {
	db := database.DB

	userID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	body := new(createPostRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Validation failed", err)
	}

	post := models.Post{
		UserID:  userID,
		Content: body.Content,
		Tags:    body.Tags,
	}
	if err := db.Create(&post).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to create post", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Post created successfully", post)
}

// GetPost handles GET /posts/:id. Reaction counts, comment count and
// knowledge-point total are computed by aggregation, not read from the row.
func GetPost(c *fiber.Ctx) error {
	db := database.DB

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post id", err)
	}

	var post models.Post
	if err := db.Where("id = ?", postID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, helpers.CodePostNotFound, "Post not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch post", err)
	}

	var reactionCount, commentCount int64
	if err := db.Model(&models.Reaction{}).Where("post_id = ?", postID).Count(&reactionCount).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to count reactions", err)
	}
	if err := db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&commentCount).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to count comments", err)
	}

	var totalPoints int
	err = db.Model(&models.KnowledgePointAward{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&totalPoints).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to sum knowledge points", err)
	}

	detail := struct {
		models.Post
		ReactionCount int64 `json:"reaction_count"`
		CommentCount  int64 `json:"comment_count"`
		TotalPoints   int   `json:"total_points"`
	}{Post: post, ReactionCount: reactionCount, CommentCount: commentCount, TotalPoints: totalPoints}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Post retrieved successfully", detail)
}

type createCommentRequest struct {
	PostID  string `json:"post_id" validate:"required,uuid4"`
	Content string `json:"content" validate:"required,min=1"`
}

// CreateComment handles POST /posts/comment.
func CreateComment(c *fiber.Ctx) error {
	db := database.DB

	userID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	body := new(createCommentRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Validation failed", err)
	}

	postID, err := uuid.Parse(body.PostID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post_id format", err)
	}

	var n int64
	if err := db.Model(&models.Post{}).Where("id = ?", postID).Count(&n).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch post", err)
	}
	if n == 0 {
		return helpers.HandleError(c, fiber.StatusNotFound, helpers.CodePostNotFound, "Post not found", nil)
	}

	comment := models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: body.Content,
	}
	if err := db.Create(&comment).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to create comment", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Comment created successfully", comment)
}

// ListComments handles GET /posts/:id/comments.
func ListComments(c *fiber.Ctx) error {
	db := database.DB

	postID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid post id", err)
	}

	var comments []models.Comment
	if err := db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch comments", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Comments retrieved successfully", comments)
}
