package services

import (
	"testing"

	"rentsplit-backend/config"
	"rentsplit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		AppName:   "RentSplit",
	}
}

func TestSignInCreatesUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	user, token, err := svc.SignIn(&GoogleProfile{
		Subject: "google-123",
		Email:   "Alice@Example.com",
		Name:    "Alice",
		Picture: "https://img.example/alice.png",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email) // normalized
	assert.Equal(t, models.UserActive, user.Status)
	assert.Equal(t, "google-123", user.GoogleID)
}

func TestSignInPromotesInvitedUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	invited := models.User{
		Username: "carol",
		Email:    "carol@example.com",
		Status:   models.UserInvited,
	}
	require.NoError(t, db.Create(&invited).Error)

	user, _, err := svc.SignIn(&GoogleProfile{
		Subject: "google-456",
		Email:   "carol@example.com",
		Name:    "Carol",
	})
	require.NoError(t, err)

	// Same account, promoted in place: every split referencing the invited
	// user id stays attached.
	assert.Equal(t, invited.ID, user.ID)
	assert.Equal(t, models.UserActive, user.Status)
	assert.Equal(t, "google-456", user.GoogleID)
	assert.Equal(t, "Carol", user.Username)
}

func TestSignInExistingActiveUserKeepsIdentity(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	first, _, err := svc.SignIn(&GoogleProfile{Subject: "g-1", Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)

	second, _, err := svc.SignIn(&GoogleProfile{Subject: "g-1", Email: "bob@example.com", Name: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
