package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/demiirawo/cc-academy/database"
	"github.com/demiirawo/cc-academy/models"
	"github.com/demiirawo/cc-academy/web/middleware"
)

// Login authenticates an email/password pair and issues a session token
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if req.Email == "" || req.Password == "" {
		return badRequest(c, "Email and password are required")
	}

	db := database.GetDB()

	var user models.User
	err := db.Where("email = ? AND is_active = true", req.Email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		return dbError(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	ttl := time.Duration(cfg.Auth.TokenHours) * time.Hour
	token, err := middleware.GenerateToken(cfg.Auth.JWTSecret, &user, ttl)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to generate token"})
	}

	now := time.Now().UTC()
	db.Model(&user).Update("last_login_at", now)

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Expires:  now.Add(ttl),
		HTTPOnly: true,
		Secure:   cfg.Auth.CookieSecure,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated user
func Me(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	var user models.User
	if err := database.GetDB().Preload("Organisation").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User no longer exists"})
		}
		return dbError(c, err)
	}

	return c.JSON(user)
}

// ChangePassword verifies the current password before replacing it
func ChangePassword(c *fiber.Ctx) error {
	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	if len(req.NewPassword) < 8 {
		return badRequest(c, "New password must be at least 8 characters")
	}

	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid session"})
	}

	db := database.GetDB()

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return dbError(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return badRequest(c, "Current password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to hash password"})
	}

	if err := db.Model(&user).Update("password_hash", string(hash)).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(fiber.Map{"message": "Password changed successfully"})
}
