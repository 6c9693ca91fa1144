package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// subscription statuses
const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusCanceled = "canceled"
)

// Subscription tracks a user's paid plan. The subscription endpoints are
// placeholder surfaces; the schema backs the credit accounting stubs.
type Subscription struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index;not null;size:36"`

	ProductID string `json:"product_id" gorm:"not null;size:255"`
	Platform  string `json:"platform" gorm:"not null;size:20"` // ios, android, stripe
	Status    string `json:"status" gorm:"not null;default:active;size:20"`

	StartsAt  time.Time  `json:"starts_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	OriginalTransactionID *string `json:"original_transaction_id,omitempty" gorm:"size:255"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// CreditTransaction records one credit grant or spend.
type CreditTransaction struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	UserID string `json:"user_id" gorm:"index;not null;size:36"`

	Amount      int     `json:"amount" gorm:"not null"` // positive grant, negative spend
	Reason      string  `json:"reason" gorm:"not null;size:100"`
	ReferenceID *string `json:"reference_id,omitempty" gorm:"size:255"`

	CreatedAt time.Time `json:"created_at"`
}

func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

func (t *CreditTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
