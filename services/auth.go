package services

import (
	"context"
	"errors"
	"fmt"

	"rentsplit-backend/config"
	"rentsplit-backend/models"
	"rentsplit-backend/utils"

	"google.golang.org/api/idtoken"
	"gorm.io/gorm"
)

// GoogleProfile is the identity asserted by a verified Google ID token.
type GoogleProfile struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// AuthService exchanges Google sign-ins for session tokens. Accounts are
// created on first sign-in; invited placeholder accounts are promoted to
// active when a sign-in matches their email.
type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{db: db, cfg: cfg}
}

// VerifyGoogleToken validates a raw ID token against our client ID.
func (s *AuthService) VerifyGoogleToken(ctx context.Context, rawToken string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, rawToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google token rejected: %v: %w", err, ErrUnauthorized)
	}

	profile := &GoogleProfile{Subject: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		profile.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		profile.Name = name
	}
	if picture, ok := payload.Claims["picture"].(string); ok {
		profile.Picture = picture
	}

	if profile.Email == "" {
		return nil, fmt.Errorf("google token carries no email: %w", ErrUnauthorized)
	}
	return profile, nil
}

// SignIn resolves the profile to a User row and issues a session token.
func (s *AuthService) SignIn(profile *GoogleProfile) (*models.User, string, error) {
	email := normalizeEmail(profile.Email)

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if user.Status == models.UserInvited || user.GoogleID == "" {
			user.Status = models.UserActive
			user.GoogleID = profile.Subject
			if profile.Name != "" {
				user.Username = profile.Name
			}
			if profile.Picture != "" {
				user.ProfileImage = profile.Picture
			}
			if err := s.db.Save(&user).Error; err != nil {
				return nil, "", err
			}
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			Username:     profile.Name,
			Email:        email,
			GoogleID:     profile.Subject,
			ProfileImage: profile.Picture,
			Status:       models.UserActive,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}
