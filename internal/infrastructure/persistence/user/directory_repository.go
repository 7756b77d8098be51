// Package user provides the concrete SQL-based implementation of the user
// directory repository.
package user

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/persistence/database"
)

// SQLDirectoryRepository is the SQL-based implementation of the
// DirectoryRepository. Missing profiles resolve to (nil, nil).
type SQLDirectoryRepository struct {
	db     *database.Database
	logger *logging.ChanneledLogger
}

// NewSQLDirectoryRepository creates a new instance of the repository.
func NewSQLDirectoryRepository(db *database.Database, logger *logging.ChanneledLogger) *SQLDirectoryRepository {
	return &SQLDirectoryRepository{
		db:     db,
		logger: logger,
	}
}

const directoryColumns = `profile_id, username, name, image, bio, password_hash, created_at`

// FindByProfileID retrieves a directory entry by its external profile id.
func (r *SQLDirectoryRepository) FindByProfileID(profileID string) (*user.DirectoryEntry, error) {
	const query = `
		SELECT ` + directoryColumns + `
		FROM directory_profiles
		WHERE profile_id = ?`

	start := time.Now()
	row := r.db.Conn.QueryRow(query, profileID)
	entry, err := r.scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load directory profile", "error", err.Error(), "profileId", profileID)
		return nil, err
	}

	r.logger.Database().Debug("Directory profile loaded", "profileId", profileID, "duration", time.Since(start))
	return entry, nil
}

// FindByProfileIDs batch-resolves directory entries, keyed by profile id.
// Unknown ids are simply absent from the result map.
func (r *SQLDirectoryRepository) FindByProfileIDs(profileIDs []string) (map[string]*user.DirectoryEntry, error) {
	entries := make(map[string]*user.DirectoryEntry, len(profileIDs))
	if len(profileIDs) == 0 {
		return entries, nil
	}

	placeholders := strings.Repeat("?,", len(profileIDs))
	placeholders = placeholders[:len(placeholders)-1]
	query := `
		SELECT ` + directoryColumns + `
		FROM directory_profiles
		WHERE profile_id IN (` + placeholders + `)`

	args := make([]any, len(profileIDs))
	for i, id := range profileIDs {
		args[i] = id
	}

	start := time.Now()
	rows, err := r.db.Conn.Query(query, args...)
	if err != nil {
		r.logger.Database().Error("Failed to batch-load directory profiles", "error", err.Error(), "count", len(profileIDs))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		entry, err := r.scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries[entry.ProfileID] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Database().Debug("Directory profiles batch-loaded",
		"requested", len(profileIDs), "found", len(entries), "duration", time.Since(start))
	return entries, nil
}

// FindByUsername retrieves a directory entry by username.
func (r *SQLDirectoryRepository) FindByUsername(username string) (*user.DirectoryEntry, error) {
	const query = `
		SELECT ` + directoryColumns + `
		FROM directory_profiles
		WHERE username = ?`

	row := r.db.Conn.QueryRow(query, username)
	entry, err := r.scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Database().Error("Failed to load directory profile by username", "error", err.Error(), "username", username)
		return nil, err
	}
	return entry, nil
}

// ValidateCredentials verifies a username/password pair against the stored
// bcrypt hash, returning the entry on success.
func (r *SQLDirectoryRepository) ValidateCredentials(username, password string) (*user.DirectoryEntry, error) {
	entry, err := r.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("unknown profile")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(entry.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}
	return entry, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLDirectoryRepository) scanEntry(row rowScanner) (*user.DirectoryEntry, error) {
	var entry user.DirectoryEntry
	var name, image, bio, passwordHash sql.NullString
	var createdAt sql.NullTime

	err := row.Scan(&entry.ProfileID, &entry.Username, &name, &image, &bio, &passwordHash, &createdAt)
	if err != nil {
		return nil, err
	}

	entry.Name = name.String
	entry.Image = image.String
	entry.Bio = bio.String
	entry.PasswordHash = passwordHash.String
	if createdAt.Valid {
		entry.CreatedAt = createdAt.Time
	}
	return &entry, nil
}
