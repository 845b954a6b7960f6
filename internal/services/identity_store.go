package services

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/identity"
	"github.com/example/laundrylink/internal/models"
)

// IdentityStore resolves identities to durable account rows.
type IdentityStore struct {
	db *gorm.DB
}

// NewIdentityStore constructs an IdentityStore.
func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// GetOrCreate returns the account the identity resolves to, creating a
// minimal one on first contact. The unique indexes on the identity
// columns decide races between concurrent creators: the loser's insert
// fails and is retried as a lookup.
func (s *IdentityStore) GetOrCreate(id identity.Identity, userType string) (*models.User, error) {
	if userType != models.UserTypeCustomer && userType != models.UserTypeVendor {
		if userType != "" {
			return nil, ErrInvalidIdentity
		}
		userType = models.UserTypeCustomer
	}

	for attempt := 0; attempt < 2; attempt++ {
		var user models.User
		err := s.scope(id).First(&user).Error
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		user = newAccount(id, userType)
		err = s.db.Create(&user).Error
		if err == nil {
			return &user, nil
		}
		if !isUniqueViolation(err) {
			return nil, err
		}
		// lost the insert race, loop back to the lookup
	}

	return nil, ErrDuplicateAccount
}

func (s *IdentityStore) scope(id identity.Identity) *gorm.DB {
	if id.Channel() == identity.ChannelEmail {
		return s.db.Where("email = ?", id.Email())
	}
	countryCode, phoneNumber := id.Phone()
	return s.db.Where("country_code = ? AND phone_number = ?", countryCode, phoneNumber)
}

func newAccount(id identity.Identity, userType string) models.User {
	user := models.User{
		UserType: userType,
		IsActive: true,
	}
	if id.Channel() == identity.ChannelEmail {
		email := id.Email()
		user.Email = &email
	} else {
		countryCode, phoneNumber := id.Phone()
		user.CountryCode = &countryCode
		user.PhoneNumber = &phoneNumber
	}
	return user
}

// isUniqueViolation recognizes unique-index violations: gorm's translated
// form when the connection enables it, raw SQLSTATE 23505 from postgres,
// and the message form of the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
