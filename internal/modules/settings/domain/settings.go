package domain

import "time"

// Settings holds what a user keeps between searches
type Settings struct {
	UserID        int64     `json:"user_id"`
	Username      string    `json:"username"`
	APIKey        string    `json:"api_key,omitempty"`
	AgreedToTerms bool      `json:"agreed_to_terms"`
	AgreedAt      time.Time `json:"agreed_at,omitzero"`
	AddedAt       time.Time `json:"added_at"`
}

// HasAPIKey reports whether a credential is saved.
func (s *Settings) HasAPIKey() bool {
	return s.APIKey != ""
}

// MaskedAPIKey returns the saved credential with all but its last four characters hidden.
func (s *Settings) MaskedAPIKey() string {
	if len(s.APIKey) <= 4 {
		return "****"
	}
	return "****" + s.APIKey[len(s.APIKey)-4:]
}
