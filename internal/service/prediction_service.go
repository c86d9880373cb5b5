package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/repository"
)

const (
	heartPredictPath  = "/heart/predict"
	cancerPredictPath = "/cancer/predict"
	historyLimit      = 10
)

// HeartFeatures is the feature vector the heart model expects. Field order
// and names mirror the model server's contract.
type HeartFeatures struct {
	Age                     float64 `json:"age"`
	Sex                     int     `json:"sex"`
	Anaemia                 int     `json:"anaemia"`
	CreatininePhosphokinase int     `json:"creatinine_phosphokinase"`
	Diabetes                int     `json:"diabetes"`
	EjectionFraction        int     `json:"ejection_fraction"`
	HighBloodPressure       int     `json:"high_blood_pressure"`
	Platelets               float64 `json:"platelets"`
	SerumCreatinine         float64 `json:"serum_creatinine"`
	SerumSodium             int     `json:"serum_sodium"`
	Smoking                 int     `json:"smoking"`
	Time                    int     `json:"time"`
}

// cancerFeatureNames lists the 30 features of the breast-cancer model. The
// space in the "concave points" names is part of the upstream contract.
var cancerFeatureNames = []string{
	"radius_mean", "texture_mean", "perimeter_mean", "area_mean",
	"smoothness_mean", "compactness_mean", "concavity_mean",
	"concave points_mean", "symmetry_mean", "fractal_dimension_mean",
	"radius_se", "texture_se", "perimeter_se", "area_se",
	"smoothness_se", "compactness_se", "concavity_se",
	"concave points_se", "symmetry_se", "fractal_dimension_se",
	"radius_worst", "texture_worst", "perimeter_worst", "area_worst",
	"smoothness_worst", "compactness_worst", "concavity_worst",
	"concave points_worst", "symmetry_worst", "fractal_dimension_worst",
}

type PredictionResult struct {
	RiskPercentage  float64  `json:"risk_percentage"`
	RiskCategory    string   `json:"risk_category"`
	Outcome         int      `json:"outcome"`
	CancerType      string   `json:"cancer_type,omitempty"`
	Recommendations []string `json:"recommendations"`
}

type HistorySummary struct {
	Heart  []domain.Prediction `json:"heart_predictions"`
	Cancer []domain.Prediction `json:"cancer_predictions"`
}

// PredictionService forwards feature vectors to the external model server and
// records each assessment for the history view.
type PredictionService struct {
	client      *http.Client
	baseURL     string
	predictions repository.PredictionRepository
	cache       *PredictionCache
	clock       Clock
}

func NewPredictionService(cfg *config.Config, predictions repository.PredictionRepository, cache *PredictionCache, clock Clock) *PredictionService {
	return &PredictionService{
		client:      &http.Client{Timeout: 30 * time.Second},
		baseURL:     cfg.PredictorBaseURL,
		predictions: predictions,
		cache:       cache,
		clock:       clock,
	}
}

func (s *PredictionService) PredictHeart(ctx context.Context, accountID uint, features HeartFeatures) (*PredictionResult, error) {
	outcome, riskPct, err := s.predict(ctx, heartPredictPath, features)
	if err != nil {
		return nil, err
	}
	category := riskCategory(riskPct)
	if err := s.store(accountID, domain.PredictionCategoryHeart, features, outcome, riskPct, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, accountID)
	return &PredictionResult{
		RiskPercentage:  riskPct,
		RiskCategory:    category,
		Outcome:         outcome,
		Recommendations: heartRecommendations(category),
	}, nil
}

func (s *PredictionService) PredictCancer(ctx context.Context, accountID uint, features map[string]float64) (*PredictionResult, error) {
	for _, name := range cancerFeatureNames {
		if _, ok := features[name]; !ok {
			return nil, validationErr("missing feature %q", name)
		}
	}
	outcome, riskPct, err := s.predict(ctx, cancerPredictPath, features)
	if err != nil {
		return nil, err
	}
	category := riskCategory(riskPct)
	if err := s.store(accountID, domain.PredictionCategoryCancer, features, outcome, riskPct, category); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, accountID)
	return &PredictionResult{
		RiskPercentage:  riskPct,
		RiskCategory:    category,
		Outcome:         outcome,
		CancerType:      "breast",
		Recommendations: cancerRecommendations(category),
	}, nil
}

func (s *PredictionService) History(ctx context.Context, accountID uint) (*HistorySummary, error) {
	if cached, ok := s.cache.Get(ctx, accountID); ok {
		return cached, nil
	}
	heart, err := s.predictions.LatestByAccountCategory(accountID, domain.PredictionCategoryHeart, historyLimit)
	if err != nil {
		return nil, persistenceErr("load heart prediction history", err)
	}
	cancer, err := s.predictions.LatestByAccountCategory(accountID, domain.PredictionCategoryCancer, historyLimit)
	if err != nil {
		return nil, persistenceErr("load cancer prediction history", err)
	}
	summary := &HistorySummary{Heart: heart, Cancer: cancer}
	s.cache.Set(ctx, accountID, summary)
	return summary, nil
}

type predictorResponse struct {
	Prediction  int       `json:"prediction"`
	Probability []float64 `json:"probability"`
}

type predictorError struct {
	Detail []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	} `json:"detail"`
}

func (s *PredictionService) predict(ctx context.Context, path string, payload any) (outcome int, riskPct float64, err error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, 0, wrapFlowErr(KindInternal, "encode prediction request", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, 0, wrapFlowErr(KindInternal, "build prediction request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, 0, wrapFlowErr(KindInternal, "prediction service unavailable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var detail predictorError
		if derr := json.NewDecoder(resp.Body).Decode(&detail); derr == nil && len(detail.Detail) > 0 {
			d := detail.Detail[0]
			field := ""
			if len(d.Loc) > 1 {
				field = fmt.Sprintf("%v ", d.Loc[1])
			}
			return 0, 0, validationErr("%s%s", field, d.Msg)
		}
		return 0, 0, flowErr(KindInternal, fmt.Sprintf("prediction service returned status %d", resp.StatusCode))
	}

	var result predictorResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, wrapFlowErr(KindInternal, "decode prediction response", err)
	}
	if len(result.Probability) == 0 {
		return 0, 0, flowErr(KindInternal, "prediction response missing probability")
	}
	// Probability to percentage with one decimal, matching the dashboard.
	riskPct = math.Round(result.Probability[0]*1000) / 10
	return result.Prediction, riskPct, nil
}

func (s *PredictionService) store(accountID uint, category string, features any, outcome int, riskPct float64, riskCat string) error {
	encoded, err := json.Marshal(features)
	if err != nil {
		return wrapFlowErr(KindInternal, "encode features", err)
	}
	row := &domain.Prediction{
		ID:             uuid.NewString(),
		AccountID:      accountID,
		Category:       category,
		Features:       string(encoded),
		Outcome:        outcome,
		RiskPercentage: riskPct,
		RiskCategory:   riskCat,
		PredictedAt:    s.clock.Now(),
	}
	if err := s.predictions.Create(row); err != nil {
		return persistenceErr("store prediction", err)
	}
	return nil
}

func riskCategory(pct float64) string {
	switch {
	case pct < 20:
		return "Low"
	case pct < 50:
		return "Moderate"
	case pct < 75:
		return "High"
	default:
		return "Very High"
	}
}

var baseRecommendations = []string{
	"Maintain a healthy diet rich in fruits, vegetables, and whole grains",
	"Exercise regularly, aiming for at least 150 minutes of moderate activity per week",
	"Avoid smoking and limit alcohol consumption",
}

func heartRecommendations(category string) []string {
	recs := append([]string{}, baseRecommendations...)
	recs = append(recs, "Manage stress through relaxation techniques or mindfulness")
	switch category {
	case "Low":
		return append(recs, "Continue with regular health check-ups")
	case "Moderate":
		return append(recs,
			"Schedule a follow-up with your healthcare provider",
			"Consider monitoring your blood pressure and cholesterol more frequently",
		)
	default:
		return append(recs,
			"Consult with a cardiologist as soon as possible",
			"Discuss medication options with your healthcare provider",
			"Consider more frequent cardiac monitoring",
		)
	}
}

func cancerRecommendations(category string) []string {
	recs := append([]string{}, baseRecommendations...)
	recs = append(recs,
		"Protect your skin from excessive sun exposure",
		"Perform monthly breast self-exams",
		"Schedule regular mammograms as recommended by your healthcare provider",
	)
	switch category {
	case "Low":
		return append(recs, "Continue with regular health check-ups")
	case "Moderate":
		return append(recs,
			"Schedule a follow-up with your healthcare provider",
			"Consider more frequent cancer screenings",
		)
	default:
		return append(recs,
			"Consult with an oncologist as soon as possible",
			"Discuss additional screening options with your healthcare provider",
		)
	}
}
