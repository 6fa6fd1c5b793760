package events

import (
	"errors"
	"time"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type createEventRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=QUIZ WEBINAR DEBATE"`
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description" validate:"omitempty"`
	StartsAt    string `json:"starts_at" validate:"required"`
	DurationMin int    `json:"duration_min" validate:"omitempty,gt=0"`
}

// CreateEvent handles POST /events.
func CreateEvent(c *fiber.Ctx) error {
	db := database.DB

	hostID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	body := new(createEventRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Validation failed", err)
	}

	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "starts_at must be RFC3339", err)
	}

	event := models.Event{
		HostID:      hostID,
		Kind:        body.Kind,
		Title:       body.Title,
		Description: body.Description,
		StartsAt:    startsAt,
		DurationMin: body.DurationMin,
	}
	if event.DurationMin == 0 {
		event.DurationMin = 60
	}
	if err := db.Create(&event).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to create event", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Event created successfully", event)
}

// GetEventByID handles GET /events/:id.
func GetEventByID(c *fiber.Ctx) error {
	db := database.DB

	eventID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid event id", err)
	}

	var event models.Event
	if err := db.Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusNotFound, helpers.CodeEventNotFound, "Event not found", err)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch event", err)
	}

	var registrations int64
	if err := db.Model(&models.EventRegistration{}).Where("event_id = ?", eventID).Count(&registrations).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to count registrations", err)
	}

	detail := struct {
		models.Event
		RegistrationCount int64 `json:"registration_count"`
	}{Event: event, RegistrationCount: registrations}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Event retrieved successfully", detail)
}

// GetUpcomingEvents handles GET /events/upcoming.
func GetUpcomingEvents(c *fiber.Ctx) error {
	db := database.DB

	query := db.Where("starts_at > ?", time.Now())
	if kind := c.Query("kind"); kind != "" {
		if !models.IsValidEventKind(kind) {
			return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidEventKind,
				"Kind must be one of QUIZ, WEBINAR, DEBATE", nil)
		}
		query = query.Where("kind = ?", kind)
	}

	var events []models.Event
	if err := query.Order("starts_at ASC").Limit(50).Find(&events).Error; err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch events", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Upcoming events retrieved", events)
}

// RegisterForEvent enrolls a user into an event. The ordered unique index on
// (event_id, user_id) makes re-registration atomic to detect, same as the
// connection duplicate check.
func RegisterForEvent(db *gorm.DB, eventID, userID uuid.UUID) (*models.EventRegistration, error) {
	var n int64
	if err := db.Model(&models.Event{}).Where("id = ?", eventID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeEventNotFound, "Event not found")
	}
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeUserNotFound, "User not found")
	}

	registration := models.EventRegistration{EventID: eventID, UserID: userID}
	if err := db.Create(&registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, helpers.NewAPIError(fiber.StatusBadRequest, helpers.CodeDuplicateRegistration,
				"Already registered for this event")
		}
		return nil, err
	}
	return &registration, nil
}

// Register handles POST /events/register.
func Register(c *fiber.Ctx) error {
	db := database.DB

	userID, err := helpers.AuthenticatedUserID(c)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}

	var body struct {
		EventID string `json:"event_id"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	eventID, err := uuid.Parse(body.EventID)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid event_id format", err)
	}

	registration, err := RegisterForEvent(db, eventID, userID)
	if err != nil {
		return helpers.HandleServiceError(c, err)
	}
	return helpers.HandleSuccess(c, fiber.StatusCreated, "Registered for event", registration)
}
