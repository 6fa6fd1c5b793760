package database

import (
	"github.com/EdProwise/orbitconnect-social-learning-platform-sub000/src/core/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every registered model. The
// unique indexes declared on Reaction, Connection and EventRegistration are
// part of the engagement contract and must exist before the API serves
// traffic.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
		&models.Connection{},
		&models.KnowledgePointAward{},
		&models.Event{},
		&models.EventRegistration{},
	)
}
