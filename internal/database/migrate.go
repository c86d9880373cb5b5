package database

import (
	"github.com/healthpredict/healthpredict-backend/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.Prediction{},
	)
}
