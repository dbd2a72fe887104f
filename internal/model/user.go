// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Local accounts authenticate with username + bcrypt-hashed password.
// Accounts created through GitHub OAuth carry GitHub's numeric user ID in
// GitHubID so repeat logins map back to the same internal account; for local
// accounts GitHubID stays 0 and the corresponding DB column is NULL.
//
// PasswordHash is never serialized — the `json:"-"` tag keeps it out of
// every API response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"displayName"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profileImage"`
	GitHubID     int64     `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicProfile strips the fields other users should not see.
// Email stays visible only to the account owner (auth status endpoint).
type PublicProfile struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"displayName"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profileImage"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Public returns the shareable view of the user.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		DisplayName:  u.DisplayName,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}
