package handler

import (
	"encoding/json"
	"net/http"

	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/http/middleware"
	"github.com/healthpredict/healthpredict-backend/internal/http/response"
	"github.com/healthpredict/healthpredict-backend/internal/observability"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

type PredictionHandler struct {
	predictionSvc service.PredictionServiceInterface
}

func NewPredictionHandler(predictionSvc service.PredictionServiceInterface) *PredictionHandler {
	return &PredictionHandler{predictionSvc: predictionSvc}
}

func (h *PredictionHandler) PredictHeart(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var features service.HeartFeatures
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryHeart, "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	result, err := h.predictionSvc.PredictHeart(r.Context(), acct.ID, features)
	if err != nil {
		observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryHeart, "failure")
		writeFlowError(w, r, err)
		return
	}
	observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryHeart, "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"success": true, "result": result})
}

func (h *PredictionHandler) PredictCancer(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	var features map[string]float64
	if err := json.NewDecoder(r.Body).Decode(&features); err != nil {
		observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryCancer, "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	result, err := h.predictionSvc.PredictCancer(r.Context(), acct.ID, features)
	if err != nil {
		observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryCancer, "failure")
		writeFlowError(w, r, err)
		return
	}
	observability.RecordPredictionRequest(r.Context(), domain.PredictionCategoryCancer, "success")
	response.JSON(w, r, http.StatusOK, map[string]any{"success": true, "result": result})
}

func (h *PredictionHandler) History(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	summary, err := h.predictionSvc.History(r.Context(), acct.ID)
	if err != nil {
		writeFlowError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"success": true, "history": summary})
}
