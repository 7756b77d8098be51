// Package security provides JWT token utilities
package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
	"github.com/PressPlayMedia/pressplay-go/pkg/config"
)

// ValidateJWT validates a JWT token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// GetProfileFromClaims extracts a profile from JWT claims
func GetProfileFromClaims(claims jwt.MapClaims) *user.Profile {
	profileData, ok := claims["profile"].(map[string]any)
	if !ok {
		return nil
	}
	profile := &user.Profile{}
	if v, ok := claims["profileId"].(string); ok {
		profile.ProfileID = v
	}
	if v, ok := profileData["username"].(string); ok {
		profile.Username = v
	}
	if v, ok := profileData["name"].(string); ok {
		profile.Name = v
	}
	if v, ok := profileData["image"].(string); ok {
		profile.Image = v
	}
	if v, ok := profileData["bio"].(string); ok {
		profile.Bio = v
	}
	return profile
}

// GenerateProfileToken creates a JWT token for an unlocked profile. The token
// carries an AES-encrypted session ULID so a stolen secret alone cannot mint
// a replayable unlock code.
func GenerateProfileToken(profile *user.Profile, jwtSecret, aesKey string) (string, error) {
	sessionULID := GenerateULID()
	encryptedULID, err := Encrypt(sessionULID, aesKey)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"profileId": profile.ProfileID,
		"profile": map[string]string{
			"username": profile.Username,
			"name":     profile.Name,
			"image":    profile.Image,
			"bio":      profile.Bio,
		},
		"encryptedCode": encryptedULID,
		"iat":           time.Now().UTC().Unix(),
		"exp":           time.Now().UTC().Add(config.ProfileTokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}
