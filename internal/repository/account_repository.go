package repository

import (
	"errors"
	"time"

	"github.com/healthpredict/healthpredict-backend/internal/domain"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	// ErrStalePasscode is returned when a passcode write loses the version
	// race against a concurrent issuance.
	ErrStalePasscode = errors.New("passcode overwritten concurrently")
)

type AccountRepository interface {
	FindByID(id uint) (*domain.Account, error)
	FindByEmail(email string) (*domain.Account, error)
	Create(account *domain.Account) error
	SetPasscode(accountID uint, code string, expiresAt time.Time, expectedVersion int64) error
	ClearPasscode(accountID uint) error
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &GormAccountRepository{db: db} }

func (r *GormAccountRepository) FindByID(id uint) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *GormAccountRepository) FindByEmail(email string) (*domain.Account, error) {
	var a domain.Account
	if err := r.db.Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create inserts the account and lets the unique index on email reject
// duplicates. There is deliberately no existence pre-check; two concurrent
// signups race on the constraint, not on a read.
func (r *GormAccountRepository) Create(account *domain.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// SetPasscode overwrites the passcode pair only if the caller still holds the
// current version token. RowsAffected==0 means a concurrent issuance landed
// first.
func (r *GormAccountRepository) SetPasscode(accountID uint, code string, expiresAt time.Time, expectedVersion int64) error {
	res := r.db.Model(&domain.Account{}).
		Where("id = ? AND passcode_version = ?", accountID, expectedVersion).
		Updates(map[string]any{
			"passcode":            code,
			"passcode_expires_at": expiresAt,
			"passcode_version":    expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStalePasscode
	}
	return nil
}

func (r *GormAccountRepository) ClearPasscode(accountID uint) error {
	return r.db.Model(&domain.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]any{
			"passcode":            nil,
			"passcode_expires_at": nil,
			"passcode_version":    gorm.Expr("passcode_version + 1"),
		}).Error
}
