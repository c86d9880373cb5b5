package service

import (
	"context"

	"github.com/healthpredict/healthpredict-backend/internal/domain"
)

type AuthServiceInterface interface {
	SignUp(ctx context.Context, username, email, password string) error
	Login(ctx context.Context, email, password string) error
	VerifyPasscode(ctx context.Context, email, code string) (*VerifyResult, error)
	VerifySession(token string) (string, error)
	AccountBySubject(subject string) (*domain.Account, error)
}

type PredictionServiceInterface interface {
	PredictHeart(ctx context.Context, accountID uint, features HeartFeatures) (*PredictionResult, error)
	PredictCancer(ctx context.Context, accountID uint, features map[string]float64) (*PredictionResult, error)
	History(ctx context.Context, accountID uint) (*HistorySummary, error)
}
