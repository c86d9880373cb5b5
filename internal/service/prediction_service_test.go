package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/domain"
	repogomock "github.com/healthpredict/healthpredict-backend/internal/repository/gomock"
)

func newPredictionFixture(t *testing.T, modelHandler http.HandlerFunc) (*PredictionService, *repogomock.MockPredictionRepository) {
	t.Helper()
	srv := httptest.NewServer(modelHandler)
	t.Cleanup(srv.Close)

	ctrl := gomock.NewController(t)
	predictions := repogomock.NewMockPredictionRepository(ctrl)
	cfg := &config.Config{PredictorBaseURL: srv.URL}
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := NewPredictionService(cfg, predictions, NewPredictionCache(nil, time.Minute), clock)
	return svc, predictions
}

func validCancerFeatures() map[string]float64 {
	features := make(map[string]float64, len(cancerFeatureNames))
	for i, name := range cancerFeatureNames {
		features[name] = float64(i) + 0.5
	}
	return features
}

func TestPredictHeart(t *testing.T) {
	svc, predictions := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/heart/predict" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if _, ok := body["ejection_fraction"]; !ok {
			t.Fatal("expected feature keys in request body")
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"prediction": 1, "probability": []float64{0.8215}})
	})

	var stored *domain.Prediction
	predictions.EXPECT().Create(gomock.Any()).DoAndReturn(func(p *domain.Prediction) error {
		stored = p
		return nil
	})

	result, err := svc.PredictHeart(context.Background(), 5, HeartFeatures{Age: 61, EjectionFraction: 38})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if result.RiskPercentage != 82.2 {
		t.Fatalf("expected 82.2, got %v", result.RiskPercentage)
	}
	if result.RiskCategory != "Very High" {
		t.Fatalf("expected Very High, got %q", result.RiskCategory)
	}
	if result.Outcome != 1 {
		t.Fatalf("expected outcome 1, got %d", result.Outcome)
	}
	if len(result.Recommendations) == 0 {
		t.Fatal("expected recommendations")
	}
	if stored == nil || stored.AccountID != 5 || stored.Category != domain.PredictionCategoryHeart {
		t.Fatalf("unexpected stored prediction %+v", stored)
	}
	if stored.ID == "" {
		t.Fatal("expected generated prediction id")
	}
}

func TestPredictCancerMissingFeature(t *testing.T) {
	svc, _ := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("model server must not be called for invalid input")
	})

	features := validCancerFeatures()
	delete(features, "concave points_mean")

	_, err := svc.PredictCancer(context.Background(), 5, features)
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "concave points_mean") {
		t.Fatalf("expected missing feature named, got %v", err)
	}
}

func TestPredictCancer(t *testing.T) {
	svc, predictions := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cancer/predict" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"prediction": 0, "probability": []float64{0.124}})
	})
	predictions.EXPECT().Create(gomock.Any()).Return(nil)

	result, err := svc.PredictCancer(context.Background(), 5, validCancerFeatures())
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if result.RiskPercentage != 12.4 {
		t.Fatalf("expected 12.4, got %v", result.RiskPercentage)
	}
	if result.RiskCategory != "Low" {
		t.Fatalf("expected Low, got %q", result.RiskCategory)
	}
	if result.CancerType != "breast" {
		t.Fatalf("expected breast cancer type, got %q", result.CancerType)
	}
}

func TestPredictValidationDetailFromModelServer(t *testing.T) {
	svc, _ := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": []map[string]any{
				{"loc": []any{"body", "age"}, "msg": "value is not a valid float"},
			},
		})
	})

	_, err := svc.PredictHeart(context.Background(), 5, HeartFeatures{})
	if KindOf(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "age") {
		t.Fatalf("expected field name in message, got %v", err)
	}
}

func TestPredictModelServerFailure(t *testing.T) {
	svc, _ := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := svc.PredictHeart(context.Background(), 5, HeartFeatures{})
	if KindOf(err) != KindInternal {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestRiskCategoryThresholds(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "Low"},
		{19.9, "Low"},
		{20, "Moderate"},
		{49.9, "Moderate"},
		{50, "High"},
		{74.9, "High"},
		{75, "Very High"},
		{100, "Very High"},
	}
	for _, tc := range cases {
		if got := riskCategory(tc.pct); got != tc.want {
			t.Fatalf("riskCategory(%v)=%q want %q", tc.pct, got, tc.want)
		}
	}
}

func TestHistoryReadsBothCategories(t *testing.T) {
	svc, predictions := newPredictionFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	heart := []domain.Prediction{{ID: "h1", Category: domain.PredictionCategoryHeart}}
	cancer := []domain.Prediction{{ID: "c1", Category: domain.PredictionCategoryCancer}}
	predictions.EXPECT().LatestByAccountCategory(uint(5), domain.PredictionCategoryHeart, historyLimit).Return(heart, nil)
	predictions.EXPECT().LatestByAccountCategory(uint(5), domain.PredictionCategoryCancer, historyLimit).Return(cancer, nil)

	summary, err := svc.History(context.Background(), 5)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(summary.Heart) != 1 || summary.Heart[0].ID != "h1" {
		t.Fatalf("unexpected heart history %+v", summary.Heart)
	}
	if len(summary.Cancer) != 1 || summary.Cancer[0].ID != "c1" {
		t.Fatalf("unexpected cancer history %+v", summary.Cancer)
	}
}
