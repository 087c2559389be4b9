package migrations

import (
	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Questionnaire{},
		&models.Action{},
		&models.Category{},
		&models.CategoryProposal{},
		&models.Service{},
		&models.Project{},
		&models.Offer{},
		&models.Order{},
		&models.Chat{},
		&models.Message{},
	)
}
