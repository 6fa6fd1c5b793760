package authentication

import (
	"errors"
	"time"

	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/config"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/database"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/helpers"
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// issueJwtToken generates a JWT token for authenticated users.
func issueJwtToken(userID string, name string, email string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)
	claims := token.Claims.(jwt.MapClaims)

	claims["sub"] = userID
	claims["name"] = name
	claims["email"] = email
	claims["iat"] = time.Now().Unix()
	claims["exp"] = time.Now().Add(30 * 24 * time.Hour).Unix()

	secretKey := config.Config("JWT_SECRET")
	return token.SignedString([]byte(secretKey))
}

type signUpRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Username  string `json:"username" validate:"required,min=3,max=32"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Role      string `json:"role" validate:"omitempty,oneof=STUDENT TEACHER SCHOOL"`
}

// SignUp handles user registration.
func SignUp(c *fiber.Ctx) error {
	db := database.DB

	body := new(signUpRequest)
	if err := c.BodyParser(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}
	if err := helpers.Validate(body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Validation failed", err)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to hash password", err)
	}

	role := body.Role
	if role == "" {
		role = models.RoleStudent
	}

	user := models.User{
		ID:        uuid.New(),
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Username:  body.Username,
		Email:     body.Email,
		Password:  string(hashedPwd),
		Role:      role,
	}
	if result := db.Create(&user); result.Error != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to create user account", result.Error)
	}

	token, err := issueJwtToken(user.ID.String(), user.FirstName, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusCreated, "Account created successfully", fiber.Map{"token": token})
}

// SignIn handles user authentication.
func SignIn(c *fiber.Ctx) error {
	db := database.DB

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return helpers.HandleError(c, fiber.StatusBadRequest, helpers.CodeInvalidInput, "Invalid input data", err)
	}

	user := new(models.User)
	if result := db.Where("email = ?", body.Email).First(user); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return helpers.HandleError(c, fiber.StatusUnauthorized, helpers.CodeInvalidInput, "Invalid email or password", nil)
		}
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to fetch user", result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		return helpers.HandleError(c, fiber.StatusUnauthorized, helpers.CodeInvalidInput, "Invalid email or password", nil)
	}

	token, err := issueJwtToken(user.ID.String(), user.FirstName, user.Email)
	if err != nil {
		return helpers.HandleError(c, fiber.StatusInternalServerError, helpers.CodeStorageError, "Failed to generate token", err)
	}

	return helpers.HandleSuccess(c, fiber.StatusOK, "Signed in successfully", fiber.Map{"token": token})
}
