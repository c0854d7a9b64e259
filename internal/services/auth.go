package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/princeprakhar/restaurant-directory/internal/models"
	"github.com/princeprakhar/restaurant-directory/internal/types"
	"github.com/princeprakhar/restaurant-directory/internal/utils"
	"github.com/princeprakhar/restaurant-directory/pkg/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    string
	emailService *EmailService
}

type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Timezone        string `json:"timezone"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Timezone  *string `json:"timezone"`
}

func NewAuthService(db *gorm.DB, jwtSecret string, emailService *EmailService) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    jwtSecret,
		emailService: emailService,
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*types.AuthResponse, error) {
	username := utils.SanitizeString(req.Username)
	email := strings.ToLower(utils.SanitizeString(req.Email))

	errs := ValidationErrors{}
	if !utils.IsValidUsername(username) {
		errs.add("username", "Enter a valid username. Letters, digits and @/./+/-/_ only.")
	}
	if !utils.IsValidEmail(email) {
		errs.add("email", "Enter a valid email address.")
	}
	if !utils.IsValidPassword(req.Password) {
		errs.add("password", "Password must be at least 8 characters.")
	}
	if req.Password != req.PasswordConfirm {
		errs.add("password_confirm", "The two password fields didn't match.")
	}
	if req.Timezone != "" {
		if _, err := models.LoadTimezone(req.Timezone); err != nil {
			errs.add("timezone", "Select a valid timezone.")
		}
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)

	var existing []models.User
	if err := db.Where("username = ? OR email = ?", username, email).Find(&existing).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to check existing users: %v", ErrDatabaseQuery, err)
	}
	for _, user := range existing {
		if user.Username == username {
			errs.add("username", "A user with that username already exists.")
		}
		if user.Email == email {
			errs.add("email", "A user with that email already exists.")
		}
	}
	if err := errs.orNil(); err != nil {
		return nil, err
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  req.Password, // Will be hashed in BeforeCreate hook
		FirstName: utils.SanitizeString(req.FirstName),
		LastName:  utils.SanitizeString(req.LastName),
		Timezone:  req.Timezone,
		IsActive:  true,
	}

	var pair *utils.TokenPair
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("%w: failed to create user: %v", ErrDatabaseQuery, err)
		}
		var err error
		pair, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.emailService.Enabled() {
		go func(user models.User) {
			if err := s.emailService.SendWelcomeEmail(user); err != nil {
				logger.WithFields(logrus.Fields{
					"user_id": user.ID,
					"error":   err,
				}).Warn("failed to send welcome email")
			}
		}(user)
	}

	return authResponse(pair, user), nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*types.AuthResponse, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("username = ? AND is_active = ?", utils.SanitizeString(req.Username), true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: failed to fetch user: %v", ErrDatabaseQuery, err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	var pair *utils.TokenPair
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", user.ID).
			Update("is_revoked", true).Error; err != nil {
			return fmt.Errorf("%w: failed to revoke tokens: %v", ErrDatabaseQuery, err)
		}
		var err error
		pair, err = s.issueTokens(tx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return authResponse(pair, user), nil
}

// RefreshToken exchanges a live refresh token for a new pair, revoking the
// old one in the same transaction.
func (s *AuthService) RefreshToken(ctx context.Context, req RefreshRequest) (*types.AuthResponse, error) {
	claims, err := utils.ValidateToken(req.RefreshToken, s.jwtSecret)
	if err != nil || claims.Type != string(utils.RefreshToken) {
		return nil, ErrInvalidToken
	}

	db := s.db.WithContext(ctx)

	var stored models.RefreshToken
	if err := db.Where("token = ? AND is_revoked = ? AND expires_at > ?", req.RefreshToken, false, time.Now()).
		First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: failed to fetch refresh token: %v", ErrDatabaseQuery, err)
	}

	user, err := s.GetUserByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}

	var pair *utils.TokenPair
	err = db.Transaction(func(tx *gorm.DB) error {
		revoked := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND is_revoked = ?", stored.ID, false).
			Update("is_revoked", true)
		if revoked.Error != nil {
			return fmt.Errorf("%w: failed to revoke old token: %v", ErrDatabaseQuery, revoked.Error)
		}
		if revoked.RowsAffected == 0 {
			return ErrInvalidToken
		}
		var err error
		pair, err = s.issueTokens(tx, *user)
		return err
	})
	if err != nil {
		return nil, err
	}

	return authResponse(pair, *user), nil
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", refreshToken).
		Update("is_revoked", true).Error
}

func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("is_revoked", true).Error
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ? AND is_active = ?", userID, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: failed to fetch user: %v", ErrDatabaseQuery, err)
	}
	return &user, nil
}

// ResolveViewer builds the viewer for an authenticated user, carrying the
// user's stored timezone.
func (s *AuthService) ResolveViewer(ctx context.Context, userID uint) (types.Viewer, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return types.Anonymous, err
	}
	loc, err := models.LoadTimezone(user.Timezone)
	if err != nil {
		loc = time.UTC
	}
	return types.NewViewer(user.ID, loc), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Timezone != nil {
		if _, err := models.LoadTimezone(*req.Timezone); err != nil {
			return nil, ValidationErrors{"timezone": "Select a valid timezone."}
		}
		user.Timezone = *req.Timezone
	}
	if req.FirstName != nil {
		user.FirstName = utils.SanitizeString(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = utils.SanitizeString(*req.LastName)
	}

	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to update profile: %v", ErrDatabaseQuery, err)
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, req ChangePasswordRequest) error {
	if !utils.IsValidPassword(req.NewPassword) {
		return ValidationErrors{"new_password": "Password must be at least 8 characters."}
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return ValidationErrors{"current_password": "Your current password was entered incorrectly."}
	}

	if err := user.UpdatePassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %v", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password", user.Password).Error; err != nil {
			return fmt.Errorf("%w: failed to save new password: %v", ErrDatabaseQuery, err)
		}
		return tx.Model(&models.RefreshToken{}).
			Where("user_id = ?", user.ID).
			Update("is_revoked", true).Error
	})
}

// issueTokens signs a new pair for user and stores its refresh token.
func (s *AuthService) issueTokens(tx *gorm.DB, user models.User) (*utils.TokenPair, error) {
	pair, err := utils.GenerateTokenPair(user.ID, user.Username, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %v", err)
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     pair.RefreshToken,
		ExpiresAt: time.Unix(pair.RefreshTokenExpiresAt, 0),
	}
	if err := tx.Create(&refreshToken).Error; err != nil {
		return nil, fmt.Errorf("%w: failed to store refresh token: %v", ErrDatabaseQuery, err)
	}
	return pair, nil
}

func authResponse(pair *utils.TokenPair, user models.User) *types.AuthResponse {
	return &types.AuthResponse{
		Token: types.TokenPair{
			AccessToken:           pair.AccessToken,
			RefreshToken:          pair.RefreshToken,
			AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		},
		User: user,
	}
}
