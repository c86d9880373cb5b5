package domain

import "time"

// Account is the credential-store row for a dashboard user. Passcode and
// PasscodeExpiresAt are set and cleared together; PasscodeVersion is the
// optimistic token compared on every passcode write so concurrent logins
// cannot silently overwrite each other.
type Account struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"size:255;not null" json:"username"`
	Email             string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash      string     `gorm:"size:1024;not null" json:"-"`
	Passcode          *string    `gorm:"size:6" json:"-"`
	PasscodeExpiresAt *time.Time `json:"-"`
	PasscodeVersion   int64      `gorm:"not null;default:0" json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// HasPendingPasscode reports whether a passcode pair is currently stored.
// Expiry is not considered; an expired pair stays in place until the next
// issuance overwrites it.
func (a *Account) HasPendingPasscode() bool {
	return a.Passcode != nil && a.PasscodeExpiresAt != nil
}
