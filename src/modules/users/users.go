package users

import (
	"errors"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetProfile handles GET /users/profile. Engagement stats are derived by
// aggregation at read time.
func GetProfile(c *fiber.Ctx) error {
	db := database.DB

	userID, apiErr := helpers.AuthenticatedUserID(c)
	if apiErr != nil {
		return helpers.HandleServiceError(c, apiErr)
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, helpers.CodeUserNotFound, "User profile not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch user", err)
	}

	var connectionCount int64
	err := db.Model(&models.Connection{}).
		Where("(requester_id = ? OR receiver_id = ?) AND status = ?", userID, userID, models.ConnectionAccepted).
		Count(&connectionCount).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to count connections", err)
	}

	var pointsReceived int
	err = db.Model(&models.KnowledgePointAward{}).
		Joins("JOIN posts ON posts.id = knowledge_point_awards.post_id").
		Where("posts.user_id = ?", userID).
		Select("COALESCE(SUM(knowledge_point_awards.points), 0)").
		Scan(&pointsReceived).Error
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to sum knowledge points", err)
	}

	profile := struct {
		models.User
		ConnectionCount int64 `json:"connection_count"`
		PointsReceived  int   `json:"points_received"`
	}{User: user, ConnectionCount: connectionCount, PointsReceived: pointsReceived}

	return helpers.HandleSuccess(c, fiber.StatusOK, "User profile retrieved successfully", profile)
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1"`
	LastName  string `json:"last_name" validate:"omitempty,min=1"`
	Bio       string `json:"bio" validate:"omitempty,max=500"`
}

// UpdateProfile handles PUT /users/profile.
func UpdateProfile(c *fiber.Ctx) error {
	db := database.DB

	userID, apiErr := helpers.AuthenticatedUserID(c)
	if apiErr != nil {
		return helpers.HandleServiceError(c, apiErr)
	}

	body := new(updateProfileRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Validation failed", err)
	}

	updates := map[string]interface{}{}
	if body.FirstName != "" {
		updates["first_name"] = body.FirstName
	}
	if body.LastName != "" {
		updates["last_name"] = body.LastName
	}
	if body.Bio != "" {
		updates["bio"] = body.Bio
	}
	if len(updates) == 0 {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "No fields to update", nil)
	}

	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to update profile", result.Error)
	}
	if result.RowsAffected == 0 {
		return helpers.HandleError(c, fiber.StatusNotFound, helpers.CodeUserNotFound, "User profile not found", nil)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Profile updated successfully", nil)
}
