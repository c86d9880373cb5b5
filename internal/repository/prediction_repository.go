package repository

import (
	"github.com/healthpredict/healthpredict-backend/internal/domain"

	"gorm.io/gorm"
)

type PredictionRepository interface {
	Create(prediction *domain.Prediction) error
	LatestByAccountCategory(accountID uint, category string, limit int) ([]domain.Prediction, error)
}

type GormPredictionRepository struct{ db *gorm.DB }

func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &GormPredictionRepository{db: db}
}

func (r *GormPredictionRepository) Create(prediction *domain.Prediction) error {
	return r.db.Create(prediction).Error
}

func (r *GormPredictionRepository) LatestByAccountCategory(accountID uint, category string, limit int) ([]domain.Prediction, error) {
	var rows []domain.Prediction
	err := r.db.
		Where("account_id = ? AND category = ?", accountID, category).
		Order("predicted_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
