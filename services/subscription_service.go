package services

import (
	"errors"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/fengwang001/plant-version-app/repository"
	"gorm.io/gorm"
)

// SubscriptionService reads plan status and credit balances. Receipt
// verification against the store platforms is not implemented; grants arrive
// through AddCredits.
type SubscriptionService struct {
	subRepo repository.SubscriptionRepository
}

func NewSubscriptionService(subRepo repository.SubscriptionRepository) *SubscriptionService {
	return &SubscriptionService{subRepo: subRepo}
}

// SubscriptionStatus is the caller-facing plan summary.
type SubscriptionStatus struct {
	IsPremium    bool                 `json:"is_premium"`
	Subscription *models.Subscription `json:"subscription,omitempty"`
	Credits      int                  `json:"credits"`
}

func (s *SubscriptionService) Status(userID string) (*SubscriptionStatus, error) {
	status := &SubscriptionStatus{}

	sub, err := s.subRepo.GetActiveByUser(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if sub != nil {
		status.IsPremium = true
		status.Subscription = sub
	}

	credits, err := s.subRepo.CreditBalance(userID)
	if err != nil {
		return nil, err
	}
	status.Credits = credits
	return status, nil
}

// AddCredits records a credit grant or spend for a user.
func (s *SubscriptionService) AddCredits(userID string, amount int, reason string, referenceID *string) error {
	return s.subRepo.AddCreditTransaction(&models.CreditTransaction{
		UserID:      userID,
		Amount:      amount,
		Reason:      reason,
		ReferenceID: referenceID,
	})
}
