package model

import "time"

// AccountToken stores the connected Lightroom account's OAuth credentials.
// A single record exists at most: the storefront serves one store owner's
// catalog, shared by all visitors.
type AccountToken struct {
	AccessToken  string     `json:"access_token,omitempty"`
	RefreshToken string     `json:"refresh_token,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
