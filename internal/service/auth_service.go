package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/healthpredict/healthpredict-backend/internal/config"
	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/repository"
	"github.com/healthpredict/healthpredict-backend/internal/security"
)

// AuthService orchestrates the two-step flows. SignUp and Login both end in a
// pending passcode; only VerifyPasscode mints a session token.
type AuthService struct {
	cfg       *config.Config
	accounts  repository.AccountRepository
	passcodes *PasscodeService
	jwtMgr    *security.JWTManager
}

// VerifyResult is returned by a successful passcode verification.
type VerifyResult struct {
	Token     string `json:"token"`
	AccountID uint   `json:"account_id"`
}

func NewAuthService(cfg *config.Config, accounts repository.AccountRepository, passcodes *PasscodeService, jwtMgr *security.JWTManager) *AuthService {
	return &AuthService{cfg: cfg, accounts: accounts, passcodes: passcodes, jwtMgr: jwtMgr}
}

// SignUp creates the account and issues its first passcode. The store's
// unique index decides conflicts; there is no read-before-insert. A failure
// in passcode issuance surfaces as-is, leaving the created account able to
// log in and request a fresh code.
func (s *AuthService) SignUp(ctx context.Context, username, email, password string) error {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return err
	}
	if username == "" {
		return validationErr("username is required")
	}
	if len(password) < 8 {
		return validationErr("password must be at least 8 characters")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return wrapFlowErr(KindInternal, "hash password", err)
	}
	acct := &domain.Account{Username: username, Email: email, PasswordHash: hash}
	if err := s.accounts.Create(acct); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return ErrEmailTaken
		}
		return persistenceErr("create account", err)
	}
	return s.passcodes.Issue(ctx, acct.ID)
}

// Login validates the credential and issues a passcode. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	acct, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return ErrInvalidCredential
		}
		return persistenceErr("load account for login", err)
	}
	ok, err := security.VerifyPassword(acct.PasswordHash, password)
	if err != nil {
		return wrapFlowErr(KindInternal, "verify password", err)
	}
	if !ok {
		return ErrInvalidCredential
	}
	return s.passcodes.Issue(ctx, acct.ID)
}

// VerifyPasscode completes the second step and mints the session token bound
// to the account email.
func (s *AuthService) VerifyPasscode(ctx context.Context, email, code string) (*VerifyResult, error) {
	email = normalizeEmail(email)
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validationErr("verification code is required")
	}
	acct, err := s.passcodes.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}
	token, err := s.jwtMgr.MintSessionToken(acct.Email)
	if err != nil {
		return nil, wrapFlowErr(KindInternal, "mint session token", err)
	}
	return &VerifyResult{Token: token, AccountID: acct.ID}, nil
}

// VerifySession is the gate every protected action calls. It is stateless;
// validity is a pure function of signature and expiry.
func (s *AuthService) VerifySession(token string) (string, error) {
	subject, err := s.jwtMgr.ParseSessionToken(token)
	if err != nil {
		return "", ErrSessionInvalid
	}
	return subject, nil
}

// AccountBySubject resolves a verified session subject back to its account.
func (s *AuthService) AccountBySubject(subject string) (*domain.Account, error) {
	acct, err := s.accounts.FindByEmail(subject)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, persistenceErr("load account for session subject", err)
	}
	return acct, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateEmail(email string) error {
	if email == "" {
		return validationErr("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationErr("invalid email")
	}
	return nil
}
