package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/laundrylink/internal/models"
)

func TestGetOrCreateByEmail(t *testing.T) {
	db := testDB(t)
	store := NewIdentityStore(db)

	created, err := store.GetOrCreate(emailIdentity(t, "a@b.com"), "")
	require.NoError(t, err)
	require.NotNil(t, created.Email)
	assert.Equal(t, "a@b.com", *created.Email)
	assert.Nil(t, created.CountryCode)
	assert.Nil(t, created.PhoneNumber)
	assert.Equal(t, models.UserTypeCustomer, created.UserType)
	assert.True(t, created.IsActive)
	assert.False(t, created.IsVerified)

	found, err := store.GetOrCreate(emailIdentity(t, "a@b.com"), "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateByPhone(t *testing.T) {
	db := testDB(t)
	store := NewIdentityStore(db)

	created, err := store.GetOrCreate(phoneIdentity(t, "+91", "9876543210"), models.UserTypeVendor)
	require.NoError(t, err)
	assert.Nil(t, created.Email)
	require.NotNil(t, created.CountryCode)
	require.NotNil(t, created.PhoneNumber)
	assert.Equal(t, "+919876543210", created.FullPhone())
	assert.Equal(t, models.UserTypeVendor, created.UserType)

	found, err := store.GetOrCreate(phoneIdentity(t, "+91", "9876543210"), "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	// Role was fixed at creation; later requests never change it.
	assert.Equal(t, models.UserTypeVendor, found.UserType)
}

func TestGetOrCreateSeparateChannelsSeparateAccounts(t *testing.T) {
	db := testDB(t)
	store := NewIdentityStore(db)

	byEmail, err := store.GetOrCreate(emailIdentity(t, "a@b.com"), "")
	require.NoError(t, err)
	byPhone, err := store.GetOrCreate(phoneIdentity(t, "+1", "5551234567"), "")
	require.NoError(t, err)

	assert.NotEqual(t, byEmail.ID, byPhone.ID)
}

func TestGetOrCreateRejectsUnknownRole(t *testing.T) {
	db := testDB(t)
	store := NewIdentityStore(db)

	_, err := store.GetOrCreate(emailIdentity(t, "a@b.com"), "superuser")
	assert.ErrorIs(t, err, ErrInvalidIdentity)
}
