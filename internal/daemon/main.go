// Package daemon assembles the application: database, access engine and
// web service.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/guildgate/guildgate/internal/access"
	"github.com/guildgate/guildgate/internal/config"
	"github.com/guildgate/guildgate/internal/db/dsn"
	"github.com/guildgate/guildgate/internal/db/models"
	"github.com/guildgate/guildgate/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	cfg        *config.Config
}

// Start starts the Daemon's web service and blocks until shutdown.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case "postgres":
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case "sqlite":
		dialector = sqlite.Open(dsn.Create(cfg))
	default: // mysql
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	// TranslateError maps driver duplicate-key errors to gorm.ErrDuplicatedKey,
	// which the join and invite paths rely on to detect concurrent joins.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		panic("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Membership{},
		&models.JoinRequest{},
		&models.UserBan{},
		&models.GroupInvite{},
		&models.ModerationLog{},
	); err != nil {
		panic("failed to migrate database")
	}

	seed(cfg, db)

	engine := access.NewService(db)

	return &Daemon{
		webService: web.New(cfg, db, engine),
		cfg:        cfg,
	}
}
