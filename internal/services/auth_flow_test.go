package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/laundrylink/internal/models"
)

func TestAuthFlowEndToEnd(t *testing.T) {
	db := testDB(t)
	flow := NewAuthFlow(db)
	id := emailIdentity(t, "a@b.com")

	code, err := flow.RequestCode(id, "")
	require.NoError(t, err)
	require.Len(t, code, 6)

	wrong := "999999"
	if wrong == code {
		wrong = "999998"
	}
	_, err = flow.VerifyCode(id, wrong, "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	// The wrong attempt must not burn the real code.
	result, err := flow.VerifyCode(id, code, "")
	require.NoError(t, err)
	assert.True(t, result.User.IsVerified)
	assert.NotEmpty(t, result.Token)
	assert.Nil(t, result.Profile)

	var stored models.User
	require.NoError(t, db.First(&stored, "id = ?", result.User.ID).Error)
	assert.True(t, stored.IsVerified)
}

func TestVerifyWithoutPriorRequestCreatesAccount(t *testing.T) {
	db := testDB(t)
	flow := NewAuthFlow(db)
	id := phoneIdentity(t, "+44", "7700900123")

	// No send-otp happened through this flow; verification still resolves
	// the account, and fails only on the missing code.
	_, err := flow.VerifyCode(id, "123456", "")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredCode)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestTokenIssuedOncePerAccount(t *testing.T) {
	db := testDB(t)
	flow := NewAuthFlow(db)
	id := emailIdentity(t, "a@b.com")

	code, err := flow.RequestCode(id, "")
	require.NoError(t, err)
	first, err := flow.VerifyCode(id, code, "")
	require.NoError(t, err)

	code, err = flow.RequestCode(id, "")
	require.NoError(t, err)
	second, err := flow.VerifyCode(id, code, "")
	require.NoError(t, err)

	assert.Equal(t, first.Token, second.Token)

	user, err := flow.ResolveToken(first.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, user.ID)
}

func TestResolveTokenRejectsUnknownKey(t *testing.T) {
	db := testDB(t)
	flow := NewAuthFlow(db)

	_, err := flow.ResolveToken("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")
	assert.Error(t, err)
}

func TestProfileLifecycle(t *testing.T) {
	db := testDB(t)
	flow := NewAuthFlow(db)
	user := createAccount(t, db, "a@b.com")

	_, err := flow.ReplaceProfile(user.ID, ProfileInput{FirstName: "Asha"})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	last := "Nair"
	_, err = flow.PatchProfile(user.ID, ProfileUpdate{LastName: &last})
	assert.ErrorIs(t, err, ErrProfileNotFound)

	profile, err := flow.CreateProfile(user.ID, ProfileInput{
		FirstName: "Asha",
		LastName:  "Nair",
		Pincode:   "682001",
		Address:   "Marine Drive",
	})
	require.NoError(t, err)
	assert.Equal(t, "Asha Nair", profile.FullName())

	_, err = flow.CreateProfile(user.ID, ProfileInput{FirstName: "Again"})
	assert.ErrorIs(t, err, ErrProfileExists)

	pin := "682002"
	patched, err := flow.PatchProfile(user.ID, ProfileUpdate{Pincode: &pin})
	require.NoError(t, err)
	assert.Equal(t, "682002", patched.Pincode)
	assert.Equal(t, "Asha", patched.FirstName)

	replaced, err := flow.ReplaceProfile(user.ID, ProfileInput{FirstName: "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "", replaced.LastName)
	assert.Equal(t, "", replaced.Pincode)

	loaded, err := flow.GetProfile(user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Profile)
	assert.Equal(t, "Asha", loaded.Profile.FirstName)
}
