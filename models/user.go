package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// user types
const (
	UserTypeRegular = "regular"
	UserTypePremium = "premium"
	UserTypeAdmin   = "admin"
)

// User represents an account in the system. Accounts are created on first
// successful authentication of any method; guest accounts carry only a device id.
type User struct {
	ID string `json:"id" gorm:"primaryKey;size:36"`

	Email     *string `json:"email,omitempty" gorm:"uniqueIndex;size:255"`
	Username  *string `json:"username,omitempty" gorm:"uniqueIndex;size:100"`
	FullName  *string `json:"full_name,omitempty" gorm:"size:255"`
	AvatarURL *string `json:"avatar_url,omitempty" gorm:"size:500"`

	PasswordHash *string `json:"-" gorm:"size:255"` // only email-registered accounts carry a password
	IsActive     bool    `json:"is_active" gorm:"not null;default:true"`
	IsVerified   bool    `json:"is_verified" gorm:"not null;default:false"`

	AppleID  *string `json:"-" gorm:"uniqueIndex;size:255"`
	GoogleID *string `json:"-" gorm:"uniqueIndex;size:255"`

	DeviceID    *string `json:"device_id,omitempty" gorm:"index;size:255"`
	DeviceType  *string `json:"device_type,omitempty" gorm:"size:50"` // ios, android, web, desktop
	DeviceToken *string `json:"-" gorm:"size:500"`

	Language string `json:"language" gorm:"not null;default:zh;size:10"`
	Timezone string `json:"timezone" gorm:"not null;default:Asia/Shanghai;size:50"`

	// counters, incremented by downstream operations, never decremented
	IdentificationCount  int `json:"identification_count" gorm:"not null;default:0"`
	VideoGenerationCount int `json:"video_generation_count" gorm:"not null;default:0"`

	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`

	UserType string  `json:"user_type" gorm:"not null;default:regular;size:20"`
	Bio      *string `json:"bio,omitempty" gorm:"type:text"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hash := string(hashedPassword)
	u.PasswordHash = &hash
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == nil {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(password))
	return err == nil
}

// IsGuest reports whether the account has no credential attached.
func (u *User) IsGuest() bool {
	return u.Email == nil && u.AppleID == nil && u.GoogleID == nil
}

func (u *User) IsPremium() bool {
	return u.UserType == UserTypePremium
}

// DisplayName picks the best available human-readable name.
func (u *User) DisplayName() string {
	if u.FullName != nil && *u.FullName != "" {
		return *u.FullName
	}
	if u.Username != nil && *u.Username != "" {
		return *u.Username
	}
	if u.Email != nil && *u.Email != "" {
		return strings.SplitN(*u.Email, "@", 2)[0]
	}
	if len(u.ID) >= 8 {
		return "user_" + u.ID[:8]
	}
	return "user_" + u.ID
}
