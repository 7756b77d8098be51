// Package user defines the entities and interfaces for the external user
// directory. The directory abstracts the relational database holding account
// records; the content core only ever resolves display fields from it.
package user

import "time"

// DirectoryEntry is one account record in the user directory.
type DirectoryEntry struct {
	ProfileID    string    `json:"profileId"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	Image        string    `json:"image"`
	Bio          string    `json:"bio"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	CreatedAt    time.Time `json:"createdAt"`
}

// Profile is the view of a DirectoryEntry handed to the frontend after a
// successful unlock. Derived, never persisted directly.
type Profile struct {
	ProfileID string `json:"profileId"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	Bio       string `json:"bio"`
}

// DirectoryRepository defines lookups against the user directory. A missing
// profile resolves to (nil, nil); callers must null-guard.
type DirectoryRepository interface {
	FindByProfileID(profileID string) (*DirectoryEntry, error)
	FindByProfileIDs(profileIDs []string) (map[string]*DirectoryEntry, error)
	FindByUsername(username string) (*DirectoryEntry, error)
	ValidateCredentials(username, password string) (*DirectoryEntry, error)
}
