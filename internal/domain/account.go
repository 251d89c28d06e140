package domain

import "strings"

// Account is a registered identity. Credential holds either a bcrypt hash or
// a legacy value (sha256 hex digest or plaintext) pending migration.
type Account struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Credential string `json:"password,omitempty"`
}

// Session is the currently active account with the credential stripped.
type Session struct {
	AccountID string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
}

// NormalizeEmail lowercases an email for use as the case-insensitive
// identity key and partition suffix.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SessionFor derives the credential-stripped session view of an account.
func SessionFor(account Account) Session {
	return Session{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
	}
}
