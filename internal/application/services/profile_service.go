package services

import (
	"fmt"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/observability/logging"
	"github.com/PressPlayMedia/pressplay-go/internal/infrastructure/security"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// ProfileService handles profile unlock against the user directory and the
// issuing of profile tokens.
type ProfileService struct {
	directory user.DirectoryRepository
	logger    *logging.ChanneledLogger
}

// NewProfileService creates a profile service.
func NewProfileService(directory user.DirectoryRepository, logger *logging.ChanneledLogger) *ProfileService {
	return &ProfileService{
		directory: directory,
		logger:    logger,
	}
}

// Unlock validates credentials and returns the profile view plus a signed
// token. Failed unlocks are logged on the auth channel without the password.
func (s *ProfileService) Unlock(username, password string) (*user.Profile, string, error) {
	entry, err := s.directory.ValidateCredentials(username, password)
	if err != nil {
		s.logger.Auth().Warn("Profile unlock rejected", "username", username)
		return nil, "", fmt.Errorf("profile unlock failed: %w", err)
	}

	profile := &user.Profile{
		ProfileID: entry.ProfileID,
		Username:  entry.Username,
		Name:      entry.Name,
		Image:     entry.Image,
		Bio:       entry.Bio,
	}

	token, err := security.GenerateProfileToken(profile, config.JWTSecret, config.AESKey)
	if err != nil {
		s.logger.LogError(logging.ChannelAuth, "profile_token", err, map[string]any{"profileId": profile.ProfileID})
		return nil, "", err
	}

	s.logger.Auth().Info("Profile unlocked", "profileId", profile.ProfileID)
	return profile, token, nil
}

// FromToken validates a profile token and returns the embedded profile view.
func (s *ProfileService) FromToken(token string) (*user.Profile, error) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, err
	}
	profile := security.GetProfileFromClaims(claims)
	if profile == nil {
		return nil, fmt.Errorf("token carries no profile")
	}
	return profile, nil
}
