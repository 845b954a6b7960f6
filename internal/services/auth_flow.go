package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/identity"
	"github.com/example/laundrylink/internal/models"
)

// AuthFlow orchestrates account lookup, OTP issue/verify, token issuance
// and the one-to-one profile resource.
type AuthFlow struct {
	db       *gorm.DB
	accounts *IdentityStore
	codes    *OTPLedger
}

// NewAuthFlow constructs an AuthFlow over the shared store.
func NewAuthFlow(db *gorm.DB) *AuthFlow {
	return &AuthFlow{
		db:       db,
		accounts: NewIdentityStore(db),
		codes:    NewOTPLedger(db),
	}
}

// RequestCode resolves (or creates) the account and issues a fresh OTP.
// The plaintext code is returned for the delivery channel; handlers echo
// it only in debug mode.
func (f *AuthFlow) RequestCode(id identity.Identity, userType string) (string, error) {
	user, err := f.accounts.GetOrCreate(id, userType)
	if err != nil {
		return "", err
	}
	return f.codes.Issue(user)
}

// VerifyResult is the payload of a successful verification.
type VerifyResult struct {
	User    *models.User
	Profile *models.UserProfile // nil when not yet created
	Token   string
}

// VerifyCode consumes the code for the identity's account and returns the
// account summary, its profile if one exists, and the bearer token. The
// account is created on the spot when missing, so verification does not
// depend on the request having gone through RequestCode.
func (f *AuthFlow) VerifyCode(id identity.Identity, code, userType string) (*VerifyResult, error) {
	user, err := f.accounts.GetOrCreate(id, userType)
	if err != nil {
		return nil, err
	}

	if err := f.codes.Consume(user, code); err != nil {
		return nil, err
	}

	// Idempotent: re-verifying an already-verified account is fine.
	if err := f.db.Model(user).Update("is_verified", true).Error; err != nil {
		return nil, err
	}
	user.IsVerified = true

	token, err := f.getOrCreateToken(user.ID)
	if err != nil {
		return nil, err
	}

	profile, err := f.profileFor(user.ID)
	if err != nil {
		return nil, err
	}

	return &VerifyResult{User: user, Profile: profile, Token: token}, nil
}

// ResolveToken maps a bearer key to its active account, for middleware.
func (f *AuthFlow) ResolveToken(key string) (*models.User, error) {
	var token models.AuthToken
	if err := f.db.Where("key = ?", key).First(&token).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := f.db.Where("id = ? AND is_active = ?", token.UserID, true).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile loads the account with its profile attached (nil when absent).
func (f *AuthFlow) GetProfile(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := f.db.Preload("Profile").First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ProfileInput carries the full profile field set.
type ProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Pincode   string `json:"pincode"`
	Address   string `json:"address"`
}

// ProfileUpdate carries a partial field set; nil means "leave unchanged".
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Pincode   *string `json:"pincode"`
	Address   *string `json:"address"`
}

// CreateProfile attaches a profile to the account. At most one exists.
func (f *AuthFlow) CreateProfile(userID uuid.UUID, input ProfileInput) (*models.UserProfile, error) {
	existing, err := f.profileFor(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	profile := models.UserProfile{
		UserID:    userID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Pincode:   input.Pincode,
		Address:   input.Address,
	}
	if err := f.db.Create(&profile).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrProfileExists
		}
		return nil, err
	}
	return &profile, nil
}

// ReplaceProfile overwrites every profile field.
func (f *AuthFlow) ReplaceProfile(userID uuid.UUID, input ProfileInput) (*models.UserProfile, error) {
	profile, err := f.profileFor(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	profile.FirstName = input.FirstName
	profile.LastName = input.LastName
	profile.Pincode = input.Pincode
	profile.Address = input.Address
	if err := f.db.Save(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// PatchProfile merges only the provided fields into the profile.
func (f *AuthFlow) PatchProfile(userID uuid.UUID, input ProfileUpdate) (*models.UserProfile, error) {
	profile, err := f.profileFor(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Pincode != nil {
		updates["pincode"] = *input.Pincode
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if len(updates) > 0 {
		if err := f.db.Model(profile).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return profile, nil
}

func (f *AuthFlow) profileFor(userID uuid.UUID) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := f.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// getOrCreateToken returns the account's permanent bearer key, minting it
// on first need. Once issued the key is never regenerated; a concurrent
// first verification losing the insert race reads the winner's key.
func (f *AuthFlow) getOrCreateToken(userID uuid.UUID) (string, error) {
	var token models.AuthToken
	err := f.db.Where("user_id = ?", userID).First(&token).Error
	if err == nil {
		return token.Key, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	key, err := generateTokenKey()
	if err != nil {
		return "", err
	}
	token = models.AuthToken{UserID: userID, Key: key}
	if err := f.db.Create(&token).Error; err != nil {
		if isUniqueViolation(err) {
			if lookupErr := f.db.Where("user_id = ?", userID).First(&token).Error; lookupErr == nil {
				return token.Key, nil
			}
		}
		return "", fmt.Errorf("issue auth token: %w", err)
	}
	return token.Key, nil
}

func generateTokenKey() (string, error) {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
