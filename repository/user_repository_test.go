package repository

import (
	"testing"

	"github.com/fengwang001/plant-version-app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGetByDeviceIDIgnoresUpgradedAccounts(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))

	// a registered user who happens to carry the same device id
	registered := &models.User{
		Email:    strPtr("someone@example.com"),
		DeviceID: strPtr("device-1"),
		IsActive: true,
	}
	require.NoError(t, repo.Create(registered))

	_, err := repo.GetByDeviceID("device-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	guest := &models.User{DeviceID: strPtr("device-1"), IsActive: true}
	require.NoError(t, repo.Create(guest))

	found, err := repo.GetByDeviceID("device-1")
	require.NoError(t, err)
	assert.Equal(t, guest.ID, found.ID)
}

func TestSoftDeleteHidesUser(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))

	user := &models.User{Email: strPtr("delete-me@example.com"), IsActive: true}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.SoftDelete(user.ID))

	_, err := repo.GetByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestIncrementIdentificationCount(t *testing.T) {
	repo := NewGormUserRepository(newTestDB(t))

	user := &models.User{IsActive: true}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.IncrementIdentificationCount(user.ID))
	require.NoError(t, repo.IncrementIdentificationCount(user.ID))

	got, err := repo.GetByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.IdentificationCount)
}
