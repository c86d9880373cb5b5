package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/http/response"
	"github.com/healthpredict/healthpredict-backend/internal/observability"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthServiceInterface
}

func NewAuthHandler(authSvc service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SignUp creates the account and sends the first verification code. The
// client must follow up with VerifyPasscode before it holds a session.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "signup", status, time.Since(start))
	}()

	var req signUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "failure"
		observability.RecordSignup(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	if err := h.authSvc.SignUp(r.Context(), req.Username, req.Email, req.Password); err != nil {
		status = "failure"
		observability.Audit(r, "auth.signup.failed", "email", req.Email, "reason", string(service.KindOf(err)))
		observability.RecordSignup(r.Context(), "failure")
		writeFlowError(w, r, err)
		return
	}
	observability.Audit(r, "auth.signup.success", "email", req.Email)
	observability.RecordSignup(r.Context(), "success")
	response.JSON(w, r, http.StatusCreated, map[string]any{
		"success": true,
		"message": "verification code sent",
	})
}

// Login validates the password and sends a fresh verification code,
// replacing any code still pending for the account.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "login", status, time.Since(start))
	}()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "failure"
		observability.RecordLogin(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	if err := h.authSvc.Login(r.Context(), req.Email, req.Password); err != nil {
		status = "failure"
		observability.Audit(r, "auth.login.failed", "email", req.Email, "reason", string(service.KindOf(err)))
		observability.RecordLogin(r.Context(), "failure")
		writeFlowError(w, r, err)
		return
	}
	observability.Audit(r, "auth.login.pending_verification", "email", req.Email)
	observability.RecordLogin(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"message": "verification code sent",
	})
}

// VerifyPasscode completes the second step and returns the session token.
func (h *AuthHandler) VerifyPasscode(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "success"
	defer func() {
		observability.RecordAuthRequestDuration(r.Context(), "verify_passcode", status, time.Since(start))
	}()

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		status = "failure"
		observability.RecordPasscodeVerification(r.Context(), "failure")
		response.Error(w, r, http.StatusBadRequest, "VALIDATION", "invalid request body", nil)
		return
	}
	result, err := h.authSvc.VerifyPasscode(r.Context(), req.Email, req.Code)
	if err != nil {
		status = "failure"
		observability.Audit(r, "auth.verify.failed", "email", req.Email, "reason", string(service.KindOf(err)))
		observability.RecordPasscodeVerification(r.Context(), "failure")
		writeFlowError(w, r, err)
		return
	}
	observability.Audit(r, "auth.verify.success", "email", req.Email, "account_id", result.AccountID)
	observability.RecordPasscodeVerification(r.Context(), "success")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"success":    true,
		"token":      result.Token,
		"account_id": result.AccountID,
	})
}

// Session reports whether the presented bearer token is still valid. It is
// a pure token check and does not touch the store.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	auth := r.Header.Get("Authorization")
	raw := ""
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		raw = strings.TrimSpace(auth[7:])
	}
	if raw == "" {
		observability.RecordSessionValidation(r.Context(), "missing")
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing session token", nil)
		return
	}
	subject, err := h.authSvc.VerifySession(raw)
	if err != nil {
		observability.RecordSessionValidation(r.Context(), "invalid")
		writeFlowError(w, r, err)
		return
	}
	observability.RecordSessionValidation(r.Context(), "valid")
	response.JSON(w, r, http.StatusOK, map[string]any{
		"success": true,
		"email":   subject,
	})
}

// writeFlowError maps the service error taxonomy onto HTTP statuses.
// Persistence and internal failures are reported generically; detail stays
// in the server logs.
func writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	kind := service.KindOf(err)
	switch kind {
	case service.KindValidation:
		response.Error(w, r, http.StatusBadRequest, string(kind), err.Error(), nil)
	case service.KindInvalidCredential:
		response.Error(w, r, http.StatusUnauthorized, string(kind), err.Error(), nil)
	case service.KindConflict:
		response.Error(w, r, http.StatusConflict, string(kind), err.Error(), nil)
	case service.KindDelivery:
		response.Error(w, r, http.StatusBadGateway, string(kind), err.Error(), nil)
	case service.KindNoPendingChallenge, service.KindExpired:
		response.Error(w, r, http.StatusBadRequest, string(kind), err.Error(), nil)
	case service.KindMismatch:
		response.Error(w, r, http.StatusUnauthorized, string(kind), err.Error(), nil)
	case service.KindInvalidOrExpired:
		response.Error(w, r, http.StatusUnauthorized, string(kind), err.Error(), nil)
	default:
		observability.NewLogger().ErrorContext(r.Context(), "unclassified flow error", "error", err.Error())
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "something went wrong", nil)
	}
}
