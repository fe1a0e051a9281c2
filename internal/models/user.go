package models

import "time"

// User represents a member account. Accounts are soft-deleted: IsActive is
// flipped to false instead of removing the row, so posts keep a resolvable
// author reference until a purge task runs.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname"`
	PasswordDigest  string    `json:"-"` // Never expose this to the client
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	IsActive        bool      `json:"isActive"`
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	ModifiedAt      time.Time `json:"modifiedAt"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Email           *string `json:"email"`
	Password        *string `json:"password"`
	Nickname        *string `json:"nickname"`
	ProfileImageURL *string `json:"profileImageUrl"`
	IsActive        *bool   `json:"isActive"`
	IsAdmin         *bool   `json:"isAdmin"`
}
