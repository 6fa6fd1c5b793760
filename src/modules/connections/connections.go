package connections

import (
	"errors"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RequestConnection creates a PENDING connection from requester to receiver.
// The self check runs before any lookup, so a self request is rejected even
// for users that do not exist. Duplicate detection is directional: the unique
// index covers the ordered (requester_id, receiver_id) pair, and a prior
// request in the reverse direction does not count as a duplicate.
func RequestConnection(db *gorm.DB, requesterID, receiverID uuid.UUID) (*models.Connection, error) {
	if requesterID == receiverID {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeSelfConnection,
			"Cannot create a connection with yourself")
	}

	var n int64
	if err := db.Model(&models.User{}).Where("id IN ?", []uuid.UUID{requesterID, receiverID}).Count(&n).Error; err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeUserNotFound, "User not found")
	}

	connection := models.Connection{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.ConnectionPending,
	}
	if err := db.Create(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeDuplicateConnection,
				"Connection request already exists")
		}
		return nil, err
	}
	return &connection, nil
}

// UpdateStatus sets the connection status to any of the three valid values.
// No transition graph is enforced; ACCEPTED back to PENDING is permitted.
func UpdateStatus(db *gorm.DB, id uuid.UUID, status string) (*models.Connection, error) {
	if !models.IsValidConnectionStatus(status) {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeInvalidStatus,
			"Status must be one of PENDING, ACCEPTED, REJECTED")
	}

	var connection models.Connection
	if err := db.Where("id = ?", id).First(&connection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helpers.NewAPIError(fiber.StatusNotFound, helpers.CodeConnectionNotFound, "Connection not found")
		}
		return nil, err
	}
	if err := db.Model(&connection).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &connection, nil
}

// DeleteConnection hard-deletes a connection by id.
func DeleteConnection(db *gorm.DB, id uuid.UUID) error {
	result := db.Where("id = ?", id).Delete(&models.Connection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return helpers.NewAPIError(fiber.StatusNotFound, helpers.CodeConnectionNotFound, "Connection not found")
	}
	return nil
}

// ListForUser returns connections where the user is either side, optionally
// filtered by status.
func ListForUser(db *gorm.DB, userID uuid.UUID, status string) ([]models.Connection, error) {
	query := db.Where("requester_id = ? OR receiver_id = ?", userID, userID)
	if status != "" {
		if !models.IsValidConnectionStatus(status) {
			return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeInvalidStatus,
				"Status must be one of PENDING, ACCEPTED, REJECTED")
		}
		query = query.Where("status = ?", status)
	}

	var connections []models.Connection
	if err := query.Order("created_at DESC").Find(&connections).Error; err != nil {
		return nil, err
	}
	return connections, nil
}

// Request handles POST /connections.
func Request(c *fiber.Ctx) error {
	db := database.DB

	requesterID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	var body struct {
		ReceiverID string `json:"receiver_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	receiverID, err := uuid.Parse(body.ReceiverID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid receiver_id format", err)
	}

	connection, err := RequestConnection(db, requesterID, receiverID)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Connection request created", connection)
}

// Patch handles PATCH /connections/:id.
func Patch(c *fiber.Ctx) error {
	db := database.DB

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid connection id", err)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	connection, err := UpdateStatus(db, id, body.Status)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Connection status updated", connection)
}

// Remove handles DELETE /connections?id=.
func Remove(c *fiber.Ctx) error {
	db := database.DB

	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid connection id", err)
	}

	if err := DeleteConnection(db, id); err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Connection deleted", nil)
}

// List handles GET /connections?status=.
func List(c *fiber.Ctx) error {
	db := database.DB

	userID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	connections, err := ListForUser(db, userID, c.Query("status"))
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusOK, "Connections retrieved", connections)
}
