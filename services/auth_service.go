package services

import (
	"errors"
	"log"
	"os"

	"nfc-event-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService issues the bearer tokens the rest of the API requires.
type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

var ErrBadCredentials = errors.New("invalid credentials")

// Login verifies staff credentials and returns the user's token,
// creating it on first login.
func (s *AuthService) Login(username, password string) (*models.AuthToken, error) {
	var user models.StaffUser
	if err := s.DB.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}

	var token models.AuthToken
	err := s.DB.Where("staff_user_id = ?", user.ID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		token = models.AuthToken{Token: uuid.NewString(), StaffUserID: user.ID}
		if err := s.DB.Create(&token).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	token.StaffUser = user
	return &token, nil
}

// EnsureSeedUsers creates the operator accounts from env on boot: the
// admin plus a counter account for the distribution points. Accounts
// whose password env is unset are skipped, and existing users are never
// overwritten.
func (s *AuthService) EnsureSeedUsers() error {
	seeds := []struct {
		userEnv, passEnv, fallback string
		admin                      bool
	}{
		{"ADMIN_USERNAME", "ADMIN_PASSWORD", "admin", true},
		{"COUNTER_USERNAME", "COUNTER_PASSWORD", "counter1", false},
	}

	for _, seed := range seeds {
		username := os.Getenv(seed.userEnv)
		if username == "" {
			username = seed.fallback
		}
		password := os.Getenv(seed.passEnv)
		if password == "" {
			log.Printf("⚠️  %s not set, skipping seed for %s", seed.passEnv, username)
			continue
		}

		var count int64
		if err := s.DB.Model(&models.StaffUser{}).Where("username = ?", username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user := models.StaffUser{Username: username, PasswordHash: string(hash), IsAdmin: seed.admin}
		if err := s.DB.Create(&user).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded staff user: %s", username)
	}
	return nil
}

// LoginEndpoint handles POST /login.
func (s *AuthService) LoginEndpoint(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "username and password are required",
		})
	}

	token, err := s.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid credentials.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status":  "error",
			"message": "login failed",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"token":    token.Token,
		"username": token.StaffUser.Username,
	})
}
