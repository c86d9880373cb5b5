package handler

import (
	"net/http"

	"github.com/healthpredict/healthpredict-backend/internal/http/middleware"
	"github.com/healthpredict/healthpredict-backend/internal/http/response"
)

type ProfileHandler struct{}

func NewProfileHandler() *ProfileHandler { return &ProfileHandler{} }

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"user": map[string]any{
			"id":         acct.ID,
			"username":   acct.Username,
			"email":      acct.Email,
			"created_at": acct.CreatedAt,
		},
	})
}
