package middleware

import (
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/config"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Protected middleware for validating JWT tokens. The token subject is the
// user's primary key; handlers read it from c.Locals("user_id") and pass it
// explicitly into every service call — identity is never looked up ambiently
// below the HTTP layer.
func Protected() fiber.Handler {
	jwtSecret := config.Config("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set in the environment variables")
	}

	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{Key: []byte(jwtSecret)},
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			user := c.Locals("user").(*jwt.Token)
			claims := user.Claims.(jwt.MapClaims)
			if userID, ok := claims["sub"].(string); ok {
				c.Locals("user_id", userID)
				return c.Next()
			}
			return helpers.HandleError(c, fiber.StatusUnauthorized, helpers.CodeInvalidInput, "User ID missing in token", nil)
		},
	})
}

// jwtError handles JWT-related errors
func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Missing or malformed JWT", err)
	}
	return helpers.HandleError(c, fiber.StatusUnauthorized, helpers.CodeInvalidInput, "Invalid or expired JWT", err)
}
