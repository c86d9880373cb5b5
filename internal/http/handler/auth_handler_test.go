package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/http/handler"
	"github.com/healthpredict/healthpredict-backend/internal/http/router"
	"github.com/healthpredict/healthpredict-backend/internal/repository"
	"github.com/healthpredict/healthpredict-backend/internal/security"
	"github.com/healthpredict/healthpredict-backend/internal/service"
)

// memAccounts is an in-memory AccountRepository with the same uniqueness and
// version semantics as the gorm implementation.
type memAccounts struct {
	mu   sync.Mutex
	seq  uint
	rows map[uint]*domain.Account
}

func newMemAccounts() *memAccounts {
	return &memAccounts{rows: make(map[uint]*domain.Account)}
}

func (m *memAccounts) FindByID(id uint) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccounts) FindByEmail(email string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrAccountNotFound
}

func (m *memAccounts) Create(account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.rows {
		if a.Email == account.Email {
			return repository.ErrEmailTaken
		}
	}
	m.seq++
	account.ID = m.seq
	cp := *account
	m.rows[account.ID] = &cp
	return nil
}

func (m *memAccounts) SetPasscode(accountID uint, code string, expiresAt time.Time, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[accountID]
	if !ok || a.PasscodeVersion != expectedVersion {
		return repository.ErrStalePasscode
	}
	a.Passcode = &code
	a.PasscodeExpiresAt = &expiresAt
	a.PasscodeVersion = expectedVersion + 1
	return nil
}

func (m *memAccounts) ClearPasscode(accountID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.rows[accountID]
	if !ok {
		return repository.ErrAccountNotFound
	}
	a.Passcode = nil
	a.PasscodeExpiresAt = nil
	a.PasscodeVersion++
	return nil
}

// captureNotifier records the last code sent per address.
type captureNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{codes: make(map[string]string)}
}

func (n *captureNotifier) Send(_ context.Context, address, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.codes[address] = code
	return nil
}

func (n *captureNotifier) codeFor(address string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[address]
}

type stubPredictionService struct{}

func (s *stubPredictionService) PredictHeart(context.Context, uint, service.HeartFeatures) (*service.PredictionResult, error) {
	return &service.PredictionResult{RiskPercentage: 42, RiskCategory: "Moderate", Recommendations: []string{"Exercise regularly"}}, nil
}

func (s *stubPredictionService) PredictCancer(context.Context, uint, map[string]float64) (*service.PredictionResult, error) {
	return &service.PredictionResult{RiskPercentage: 12.4, RiskCategory: "Low", CancerType: "breast"}, nil
}

func (s *stubPredictionService) History(context.Context, uint) (*service.HistorySummary, error) {
	return &service.HistorySummary{}, nil
}

type apiFixture struct {
	server   *httptest.Server
	notifier *captureNotifier
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	cfg := &config.Config{
		JWTIssuer:       "healthpredict-backend",
		JWTSecret:       "abcdefghijklmnopqrstuvwxyz123456",
		SessionTokenTTL: 24 * time.Hour,
		PasscodeTTL:     10 * time.Minute,
	}
	accounts := newMemAccounts()
	notifier := newCaptureNotifier()
	jwtMgr := security.NewJWTManager(cfg.JWTIssuer, cfg.JWTSecret, cfg.SessionTokenTTL)
	passcodes := service.NewPasscodeService(accounts, service.NewSyncDispatcher(notifier), service.NewSystemClock(), cfg.PasscodeTTL)
	authSvc := service.NewAuthService(cfg, accounts, passcodes, jwtMgr)

	h := router.NewRouter(router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authSvc),
		ProfileHandler:    handler.NewProfileHandler(),
		PredictionHandler: handler.NewPredictionHandler(&stubPredictionService{}),
		AuthService:       authSvc,
		CORSOrigins:       []string{"http://localhost:3000"},
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return &apiFixture{server: srv, notifier: notifier}
}

func (fx *apiFixture) post(t *testing.T, path string, body any, token string) (*http.Response, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, fx.server.URL+path, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return fx.do(t, req)
}

func (fx *apiFixture) get(t *testing.T, path, token string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, fx.server.URL+path, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return fx.do(t, req)
}

func (fx *apiFixture) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := fx.server.Client().Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestSignUpVerifyAndAccessProtectedRoute(t *testing.T) {
	fx := newAPIFixture(t)

	resp, body := fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d (%v)", resp.StatusCode, body)
	}

	code := fx.notifier.codeFor("tester@example.com")
	if len(code) != 6 {
		t.Fatalf("expected six digit code delivered, got %q", code)
	}

	resp, body = fx.post(t, "/api/v1/auth/verify", map[string]string{
		"email": "tester@example.com",
		"code":  code,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("expected token in verify response, got %v", body)
	}

	resp, body = fx.get(t, "/api/v1/me", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: expected 200, got %d (%v)", resp.StatusCode, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["email"] != "tester@example.com" {
		t.Fatalf("unexpected profile %v", body)
	}

	resp, _ = fx.get(t, "/api/v1/me", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestPasscodeIsSingleUse(t *testing.T) {
	fx := newAPIFixture(t)
	fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")
	code := fx.notifier.codeFor("tester@example.com")

	resp, _ := fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": code}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("first verify: expected 200, got %d", resp.StatusCode)
	}

	resp, body := fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": code}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("second verify: expected 400, got %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "NO_PENDING_CODE" {
		t.Fatalf("expected NO_PENDING_CODE, got %v", body)
	}
	if body["success"] != false {
		t.Fatalf("expected success=false envelope, got %v", body)
	}
}

func TestLoginFailures(t *testing.T) {
	fx := newAPIFixture(t)
	fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")

	resp, bodyWrong := fx.post(t, "/api/v1/auth/login", map[string]string{"email": "tester@example.com", "password": "wrong"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: expected 401, got %d", resp.StatusCode)
	}

	resp, bodyGhost := fx.post(t, "/api/v1/auth/login", map[string]string{"email": "ghost@example.com", "password": "wrong"}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown email: expected 401, got %d", resp.StatusCode)
	}
	// The two failures must be indistinguishable on the wire.
	if bodyWrong["error"] != bodyGhost["error"] || bodyWrong["code"] != bodyGhost["code"] {
		t.Fatalf("credential failures leak account existence: %v vs %v", bodyWrong, bodyGhost)
	}
}

func TestLoginReplacesPendingCode(t *testing.T) {
	fx := newAPIFixture(t)
	fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")
	first := fx.notifier.codeFor("tester@example.com")

	// A second login issues a fresh code; retry until it differs since two
	// random draws can collide.
	var second string
	for i := 0; i < 20; i++ {
		resp, _ := fx.post(t, "/api/v1/auth/login", map[string]string{"email": "tester@example.com", "password": "Sup3rSecret!"}, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("login: expected 200, got %d", resp.StatusCode)
		}
		second = fx.notifier.codeFor("tester@example.com")
		if second != first {
			break
		}
	}
	if second == first {
		t.Fatal("expected login to issue a different code")
	}

	resp, body := fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": first}, "")
	if resp.StatusCode != http.StatusUnauthorized || body["code"] != "CODE_MISMATCH" {
		t.Fatalf("expected replaced code to mismatch, got %d (%v)", resp.StatusCode, body)
	}

	resp, _ = fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": second}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected fresh code to verify, got %d", resp.StatusCode)
	}
}

func TestSignUpConflict(t *testing.T) {
	fx := newAPIFixture(t)
	payload := map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}
	fx.post(t, "/api/v1/auth/signup", payload, "")

	resp, body := fx.post(t, "/api/v1/auth/signup", payload, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d (%v)", resp.StatusCode, body)
	}
	if body["code"] != "EMAIL_TAKEN" {
		t.Fatalf("expected EMAIL_TAKEN, got %v", body)
	}
}

func TestSessionEndpoint(t *testing.T) {
	fx := newAPIFixture(t)
	fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")
	code := fx.notifier.codeFor("tester@example.com")
	_, body := fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": code}, "")
	token, _ := body["token"].(string)

	resp, body := fx.get(t, "/api/v1/auth/session", token)
	if resp.StatusCode != http.StatusOK || body["email"] != "tester@example.com" {
		t.Fatalf("expected valid session, got %d (%v)", resp.StatusCode, body)
	}

	resp, _ = fx.get(t, "/api/v1/auth/session", token+"x")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for tampered token, got %d", resp.StatusCode)
	}

	resp, _ = fx.get(t, "/api/v1/auth/session", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestPredictionRoutesRequireSession(t *testing.T) {
	fx := newAPIFixture(t)
	fx.post(t, "/api/v1/auth/signup", map[string]string{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "Sup3rSecret!",
	}, "")
	code := fx.notifier.codeFor("tester@example.com")
	_, body := fx.post(t, "/api/v1/auth/verify", map[string]string{"email": "tester@example.com", "code": code}, "")
	token, _ := body["token"].(string)

	resp, _ := fx.post(t, "/api/v1/predictions/heart", service.HeartFeatures{Age: 61}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, body = fx.post(t, "/api/v1/predictions/heart", service.HeartFeatures{Age: 61}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%v)", resp.StatusCode, body)
	}
	result, _ := body["result"].(map[string]any)
	if fmt.Sprintf("%v", result["risk_category"]) != "Moderate" {
		t.Fatalf("unexpected result %v", body)
	}

	resp, _ = fx.get(t, "/api/v1/predictions/history", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 history, got %d", resp.StatusCode)
	}
}
