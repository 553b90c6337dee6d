package daemon

import (
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/config"
	"github.com/guildgate/guildgate/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial data if user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)
	if count == 0 {
		// Create default platform admin
		// change the password after first login

		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
				Admin:    true,
			},
		)
	}
}
