// Package auth provides actor resolution and admin gating middleware.
package auth

import (
	"encoding/base64"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/db/models"
	"github.com/guildgate/guildgate/internal/web/handler"
)

const basicPrefix = "Basic "

// New creates middleware that resolves the acting user from HTTP basic
// auth against the users table. The resolved user is stored in
// fiber.Locals under handler.LocalsActor for downstream handlers.
func New(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, basicPrefix) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		raw, err := base64.StdEncoding.DecodeString(header[len(basicPrefix):])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		username, password, found := strings.Cut(string(raw), ":")
		if !found {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		var user models.User
		if err := db.Where("username = ?", username).First(&user).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		if !user.Active || !user.VerifyPassword(password) {
			log.Warn().Str("username", username).Msg("failed login attempt")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized"})
		}

		c.Locals(handler.LocalsActor, &user)

		return c.Next()
	}
}

// RequireAdmin creates middleware that only lets platform admins through.
// Platform-wide bans are not group-scoped, so their authorization lives
// here at the edge rather than in the engine's role matrix.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := Actor(c)
		if user == nil || !user.Admin {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "platform admin required"})
		}

		return c.Next()
	}
}

// Actor returns the authenticated user stored by New, or nil.
func Actor(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(handler.LocalsActor).(*models.User)
	if !ok {
		return nil
	}

	return user
}
