package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PressPlayMedia/pressplay-go/internal/domain/user"
)

const testAESKey = "0123456789abcdef0123456789abcdef" // 32 hex chars, 16-byte key
const testJWTSecret = "test-jwt-secret"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	ciphertext, err := Encrypt("01HZXK3V9Q", testAESKey)
	require.NoError(t, err)
	assert.NotEqual(t, "01HZXK3V9Q", ciphertext)

	plaintext, err := Decrypt(ciphertext, testAESKey)
	require.NoError(t, err)
	assert.Equal(t, "01HZXK3V9Q", plaintext)
}

func TestEncryptRejectsBadKey(t *testing.T) {
	_, err := Encrypt("data", "")
	assert.Error(t, err)

	_, err = Encrypt("data", "short")
	assert.Error(t, err)
}

func TestDecryptRejectsTamperedPayload(t *testing.T) {
	_, err := Decrypt("not-base64!!", testAESKey)
	assert.Error(t, err)

	_, err = Decrypt("YWJj", testAESKey) // too short to hold a nonce
	assert.Error(t, err)
}

func TestProfileTokenRoundTrip(t *testing.T) {
	profile := &user.Profile{
		ProfileID: "profile-9",
		Username:  "sam",
		Name:      "Sam Reviewer",
		Image:     "https://cdn/avatar.jpg",
		Bio:       "writes reviews",
	}

	token, err := GenerateProfileToken(profile, testJWTSecret, testAESKey)
	require.NoError(t, err)

	claims, err := ValidateJWT(token, testJWTSecret)
	require.NoError(t, err)

	decoded := GetProfileFromClaims(claims)
	require.NotNil(t, decoded)
	assert.Equal(t, profile.ProfileID, decoded.ProfileID)
	assert.Equal(t, profile.Username, decoded.Username)
	assert.Equal(t, profile.Name, decoded.Name)
	assert.Equal(t, profile.Bio, decoded.Bio)

	// The session code decrypts back to a well-formed identifier.
	encryptedCode, ok := claims["encryptedCode"].(string)
	require.True(t, ok)
	code, err := Decrypt(encryptedCode, testAESKey)
	require.NoError(t, err)
	assert.Len(t, code, 26)
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateProfileToken(&user.Profile{ProfileID: "p"}, testJWTSecret, testAESKey)
	require.NoError(t, err)

	_, err = ValidateJWT(token, "different-secret")
	assert.Error(t, err)
}

func TestGenerateULIDIsSortableAndUnique(t *testing.T) {
	first := GenerateULID()
	second := GenerateULID()

	assert.Len(t, first, 26)
	assert.NotEqual(t, first, second)
	assert.LessOrEqual(t, first, second, "ulids are monotonic within a process")
}
