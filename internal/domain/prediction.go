package domain

import "time"

const (
	PredictionCategoryHeart  = "heart"
	PredictionCategoryCancer = "cancer"
)

// Prediction is one stored risk assessment. Features holds the submitted
// feature vector as JSON so heart and cancer rows share a table.
type Prediction struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	AccountID      uint      `gorm:"index:idx_predictions_account_category;not null" json:"account_id"`
	Category       string    `gorm:"size:16;not null;index:idx_predictions_account_category" json:"category"`
	Features       string    `gorm:"type:text;not null" json:"features"`
	Outcome        int       `gorm:"not null" json:"outcome"`
	RiskPercentage float64   `gorm:"not null" json:"risk_percentage"`
	RiskCategory   string    `gorm:"size:16;not null" json:"risk_category"`
	PredictedAt    time.Time `gorm:"not null;index" json:"predicted_at"`
}
