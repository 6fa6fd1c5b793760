package helpers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Initialize a validator instance using go-playground's validator package
var Validator = validator.New()

// Validate checks the struct fields against the specified validation tags.
func Validate(val interface{}) error {
	return Validator.Struct(val)
}

// Machine-readable error codes. Calling UIs branch on these, so the strings
// are part of the external contract and must not change.
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeInvalidTarget         = "INVALID_TARGET"
	CodeInvalidReactionType   = "INVALID_REACTION_TYPE"
	CodeInvalidStatus         = "INVALID_STATUS"
	CodeInvalidPoints         = "INVALID_POINTS"
	CodeInvalidEventKind      = "INVALID_EVENT_KIND"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodePostNotFound          = "POST_NOT_FOUND"
	CodeCommentNotFound       = "COMMENT_NOT_FOUND"
	CodeReactionNotFound      = "REACTION_NOT_FOUND"
	CodeConnectionNotFound    = "CONNECTION_NOT_FOUND"
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeDuplicateConnection   = "DUPLICATE_CONNECTION"
	CodeSelfConnection        = "SELF_CONNECTION_NOT_ALLOWED"
	CodeSelfAward             = "SELF_AWARD_NOT_ALLOWED"
	CodeAlreadyMaxed          = "ALREADY_MAXED"
	CodeDuplicateRegistration = "DUPLICATE_REGISTRATION"
	CodeStorageError          = "STORAGE_ERROR"
)

// APIError is a client-visible failure with a stable code. Service functions
// return it for every validation, referential and invariant violation; the
// HTTP layer maps it onto the response envelope unchanged.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewAPIError(status int, code string, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// AuthenticatedUserID returns the identity the JWT middleware resolved into
// c.Locals("user_id"). Handlers pass it explicitly into every service call;
// nothing below the HTTP layer looks identity up ambiently.
func AuthenticatedUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok || raw == "" {
		return uuid.Nil, NewAPIError(fiber.StatusUnauthorized, CodeInvalidInput, "Invalid or missing user_id")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, NewAPIError(fiber.StatusBadRequest, CodeInvalidInput, "Invalid user ID format")
	}
	return id, nil
}

// HandleSuccess sends a structured JSON response for successful requests.
func HandleSuccess(context *fiber.Ctx, statusCode int, message string, data interface{}) error {
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "success",
		"message": message,
		"code":    nil,
		"error":   nil,
		"data":    data,
	})
}

// HandleError sends a structured JSON response for errors with an explicit
// status and code.
func HandleError(context *fiber.Ctx, statusCode int, code string, message string, err error) error {
	var errText interface{}
	if err != nil {
		errText = err.Error()
	}
	return context.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"code":    code,
		"error":   errText,
		"data":    nil,
	})
}

// HandleServiceError maps a service error onto the response envelope. An
// *APIError keeps its status and code; anything else is an opaque storage
// failure.
func HandleServiceError(context *fiber.Ctx, err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return HandleError(context, apiErr.Status, apiErr.Code, apiErr.Message, apiErr.Err)
	}
	return HandleError(context, fiber.StatusInternalServerError, CodeStorageError, "Storage operation failed", err)
}
