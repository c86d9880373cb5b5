package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/domain"
)

func TestPredictionRepositoryLatestOrdering(t *testing.T) {
	db := newTestDB(t)
	accounts := NewAccountRepository(db)
	predictions := NewPredictionRepository(db)
	a := seedAccount(t, accounts, "history@x.com")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		p := &domain.Prediction{
			ID:             fmt.Sprintf("00000000-0000-0000-0000-%012d", i),
			AccountID:      a.ID,
			Category:       domain.PredictionCategoryHeart,
			Features:       `{"age":61}`,
			Outcome:        i % 2,
			RiskPercentage: float64(i),
			RiskCategory:   "Low",
			PredictedAt:    base.Add(time.Duration(i) * time.Minute),
		}
		if err := predictions.Create(p); err != nil {
			t.Fatalf("create prediction %d: %v", i, err)
		}
	}
	// A row for another category must not leak into the heart listing.
	if err := predictions.Create(&domain.Prediction{
		ID: "ffffffff-0000-0000-0000-000000000000", AccountID: a.ID,
		Category: domain.PredictionCategoryCancer, Features: `{}`,
		RiskCategory: "Low", PredictedAt: base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("create cancer row: %v", err)
	}

	rows, err := predictions.LatestByAccountCategory(a.ID, domain.PredictionCategoryHeart, 10)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i].PredictedAt.After(rows[i-1].PredictedAt) {
			t.Fatalf("rows not in descending order at %d", i)
		}
	}
	if rows[0].RiskPercentage != 11 {
		t.Fatalf("expected newest row first, got %+v", rows[0])
	}
}
