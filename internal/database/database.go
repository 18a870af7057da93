package database

import (
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/asyncscrum/scrum-platform/internal/config"
	"github.com/asyncscrum/scrum-platform/internal/models"
)

var DB *gorm.DB

func Initialize(cfg *config.Config) error {
	var dialector gorm.Dialector

	switch cfg.DatabaseType {
	case "postgres":
		dialector = postgres.Open(cfg.DatabaseURL)
	default:
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	if cfg.DatabaseType != "postgres" {
		// sqlite allows a single writer; pinning the pool avoids lock errors
		// and keeps in-memory databases on one connection.
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	DB = db
	zap.L().Info("database connected", zap.String("type", cfg.DatabaseType))

	if err := autoMigrate(); err != nil {
		return err
	}

	if err := seedCeremonies(); err != nil {
		zap.L().Warn("seed data error", zap.Error(err))
	}

	return nil
}

func autoMigrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.ProjectTeam{},
		&models.Ceremony{},
		&models.Prompt{},
		&models.Response{},
		&models.Feedback{},
	)
}

func seedCeremonies() error {
	var count int64
	DB.Model(&models.Ceremony{}).Count(&count)
	if count == 0 {
		ceremonies := []models.Ceremony{
			{Name: "Daily Standup", Description: "Quick daily sync on progress and blockers", Duration: 15, Frequency: "daily", Color: "blue"},
			{Name: "Sprint Planning", Description: "Plan the work for the upcoming sprint", Duration: 60, Frequency: "bi-weekly", Color: "green"},
			{Name: "Sprint Review", Description: "Demo completed work to stakeholders", Duration: 45, Frequency: "bi-weekly", Color: "purple"},
			{Name: "Retrospective", Description: "Reflect on the sprint and identify improvements", Duration: 45, Frequency: "bi-weekly", Color: "orange"},
		}
		for _, ceremony := range ceremonies {
			if err := DB.Create(&ceremony).Error; err != nil {
				return err
			}
		}
		zap.L().Info("seeded default ceremonies")
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}
