package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/domain"
	"github.com/healthpredict/healthpredict-backend/internal/repository"
)

const (
	passcodeMin = 100000
	passcodeMax = 999999
)

// PasscodeService owns the one-time code lifecycle: issuance (generate,
// persist, hand off for delivery) and verification (match, expiry, single
// use). At most one code is live per account; issuing overwrites the
// previous pair unconditionally.
type PasscodeService struct {
	accounts   repository.AccountRepository
	dispatcher DeliveryDispatcher
	clock      Clock
	ttl        time.Duration
}

func NewPasscodeService(accounts repository.AccountRepository, dispatcher DeliveryDispatcher, clock Clock, ttl time.Duration) *PasscodeService {
	return &PasscodeService{accounts: accounts, dispatcher: dispatcher, clock: clock, ttl: ttl}
}

// Issue generates a fresh code for the account and persists it with expiry
// now+ttl, invalidating any previously issued code. The code is handed to the
// dispatcher only after it is durably stored.
func (s *PasscodeService) Issue(ctx context.Context, accountID uint) error {
	acct, err := s.accounts.FindByID(accountID)
	if err != nil {
		return persistenceErr("load account for passcode issuance", err)
	}

	code, err := generatePasscode()
	if err != nil {
		return wrapFlowErr(KindInternal, "generate passcode", err)
	}
	expiresAt := s.clock.Now().Add(s.ttl)

	err = s.accounts.SetPasscode(acct.ID, code, expiresAt, acct.PasscodeVersion)
	if errors.Is(err, repository.ErrStalePasscode) {
		// A concurrent issuance bumped the version first. Retry once against
		// the fresh token; if that write is also beaten, the other flow's
		// code stands and this one reports the conflict.
		fresh, ferr := s.accounts.FindByID(accountID)
		if ferr != nil {
			return persistenceErr("reload account after passcode conflict", ferr)
		}
		err = s.accounts.SetPasscode(fresh.ID, code, expiresAt, fresh.PasscodeVersion)
	}
	if err != nil {
		return persistenceErr("store passcode", err)
	}

	return s.dispatcher.Dispatch(ctx, PasscodeDelivery{Email: acct.Email, Code: code, ExpiresAt: expiresAt})
}

// Verify checks a submitted code against the stored pair. On match the pair
// is cleared so the code can never succeed twice. An expired code is left in
// place; it simply can never verify.
func (s *PasscodeService) Verify(ctx context.Context, email, code string) (*domain.Account, error) {
	acct, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrNoPendingPasscode
		}
		return nil, persistenceErr("load account for passcode verification", err)
	}
	if !acct.HasPendingPasscode() {
		return nil, ErrNoPendingPasscode
	}
	if s.clock.Now().After(*acct.PasscodeExpiresAt) {
		return nil, ErrPasscodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(*acct.Passcode), []byte(code)) != 1 {
		return nil, ErrPasscodeMismatch
	}
	if err := s.accounts.ClearPasscode(acct.ID); err != nil {
		return nil, persistenceErr("clear consumed passcode", err)
	}
	return acct, nil
}

// generatePasscode draws uniformly from [100000, 999999], so the code is
// always exactly six digits with no leading zero to strip.
func generatePasscode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(passcodeMax-passcodeMin+1))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", passcodeMin+n.Int64()), nil
}
