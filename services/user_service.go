package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fengwang001/plant-version-app/auth"
	"github.com/fengwang001/plant-version-app/database"
	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"gorm.io/gorm"
)

// UserService implements account creation for every authentication method and
// the profile operations behind /users/me.
type UserService struct {
	userRepo repository.UserRepository
	sqlDB    *sql.DB // raw handle for the squirrel-built stats queries
}

func NewUserService(userRepo repository.UserRepository, sqlDB *sql.DB) *UserService {
	return &UserService{userRepo: userRepo, sqlDB: sqlDB}
}

// RegisterWithEmail creates a password-backed account. The email must be unused.
func (s *UserService) RegisterWithEmail(email, password string, fullName *string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}

	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &models.User{
		Email:    &email,
		FullName: fullName,
		IsActive: true,
		UserType: models.UserTypeRegular,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// AuthenticateEmail verifies credentials and records the login.
func (s *UserService) AuthenticateEmail(email, password string) (*models.User, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}
	s.recordLogin(user.ID)
	return user, nil
}

// AuthenticateApple signs a user in via an Apple identity token, creating the
// account on first sight of the Apple subject id.
func (s *UserService) AuthenticateApple(identityToken string, email, fullName *string) (*models.User, error) {
	claims, err := auth.DecodeUnverified(identityToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Apple token", ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: invalid Apple token", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByAppleID(sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			AppleID:  &sub,
			Email:    email,
			FullName: fullName,
			IsActive: true,
			UserType: models.UserTypeRegular,
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, fmt.Errorf("failed to create Apple user: %w", createErr)
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	s.recordLogin(user.ID)
	return user, nil
}

// AuthenticateGoogle signs a user in via a Google ID token, creating the
// account on first sight of the Google subject id.
func (s *UserService) AuthenticateGoogle(idToken string) (*models.User, error) {
	claims, err := auth.DecodeUnverified(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid Google token", ErrUnauthorized)
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("%w: invalid Google token", ErrUnauthorized)
	}

	user, err := s.userRepo.GetByGoogleID(sub)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			GoogleID: &sub,
			IsActive: true,
			UserType: models.UserTypeRegular,
		}
		if email, ok := claims["email"].(string); ok && email != "" {
			user.Email = &email
		}
		if name, ok := claims["name"].(string); ok && name != "" {
			user.FullName = &name
		}
		if picture, ok := claims["picture"].(string); ok && picture != "" {
			user.AvatarURL = &picture
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, fmt.Errorf("failed to create Google user: %w", createErr)
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	s.recordLogin(user.ID)
	return user, nil
}

// AuthenticateGuest returns the guest account for a device, creating it on
// first use. Guest accounts carry no credential.
func (s *UserService) AuthenticateGuest(deviceID, deviceType string) (*models.User, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: device_id is required", ErrValidation)
	}

	user, err := s.userRepo.GetByDeviceID(deviceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = &models.User{
			DeviceID:   &deviceID,
			DeviceType: &deviceType,
			IsActive:   true,
			UserType:   models.UserTypeRegular,
		}
		if createErr := s.userRepo.Create(user); createErr != nil {
			return nil, fmt.Errorf("failed to create guest user: %w", createErr)
		}
	} else if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	s.recordLogin(user.ID)
	return user, nil
}

// GetActive resolves a user id to an active, non-deleted account.
func (s *UserService) GetActive(id string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user not found", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}
	return user, nil
}

// ProfileUpdate carries the partial fields of a profile update; nil fields
// are left untouched.
type ProfileUpdate struct {
	Username  *string `json:"username"`
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
	Language  *string `json:"language"`
	Timezone  *string `json:"timezone"`
	Bio       *string `json:"bio"`
}

func (s *UserService) UpdateProfile(id string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetActive(id)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		user.Username = update.Username
	}
	if update.FullName != nil {
		user.FullName = update.FullName
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	if update.Language != nil {
		user.Language = *update.Language
	}
	if update.Timezone != nil {
		user.Timezone = *update.Timezone
	}
	if update.Bio != nil {
		user.Bio = update.Bio
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UserStats summarizes a user's activity counters.
type UserStats struct {
	IdentificationCount       int   `json:"identification_count"`
	VideoGenerationCount      int   `json:"video_generation_count"`
	IdentificationsLast30Days int64 `json:"identifications_last_30_days"`
	IsGuest                   bool  `json:"is_guest"`
	IsPremium                 bool  `json:"is_premium"`
}

func (s *UserService) Stats(id string) (*UserStats, error) {
	user, err := s.GetActive(id)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		IdentificationCount:  user.IdentificationCount,
		VideoGenerationCount: user.VideoGenerationCount,
		IsGuest:              user.IsGuest(),
		IsPremium:            user.IsPremium(),
	}

	since := time.Now().AddDate(0, 0, -30)
	recent, err := database.CountIdentificationsSince(s.sqlDB, id, since)
	if err != nil {
		// stats stay usable without the windowed count
		log.Printf("user: failed to count recent identifications for %s: %v", id, err)
	} else {
		stats.IdentificationsLast30Days = recent
	}
	return stats, nil
}

// Deactivate disables the account; data stays in place.
func (s *UserService) Deactivate(id string) error {
	if _, err := s.GetActive(id); err != nil {
		return err
	}
	return s.userRepo.Deactivate(id)
}

// Delete soft-deletes the account. Owned media and identifications are kept
// under the soft-deleted owner.
func (s *UserService) Delete(id string) error {
	if _, err := s.GetActive(id); err != nil {
		return err
	}
	return s.userRepo.SoftDelete(id)
}

func (s *UserService) recordLogin(id string) {
	if err := s.userRepo.UpdateLastLogin(id); err != nil {
		log.Printf("user: failed to record login for %s: %v", id, err)
	}
}
