package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"gorm.io/gorm"

	"github.com/example/laundrylink/internal/models"
)

// OTP codes are 6 fixed-width digits and live for 5 minutes.
const (
	otpCodeMax = 1000000
	otpTTL     = 5 * time.Minute
)

// OTPLedger owns the one-time-code table and its single-active-code
// invariant: at most one unconsumed, unexpired code per account.
type OTPLedger struct {
	db *gorm.DB
}

// NewOTPLedger constructs an OTPLedger.
func NewOTPLedger(db *gorm.DB) *OTPLedger {
	return &OTPLedger{db: db}
}

// Issue retires every outstanding code for the user and creates a fresh
// one, returning the plaintext for out-of-band delivery. Invalidate and
// create share one transaction so no window with two live codes exists.
func (l *OTPLedger) Issue(user *models.User) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	err = l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.OTP{}).
			Where("user_id = ? AND is_used = ?", user.ID, false).
			Update("is_used", true).Error; err != nil {
			return err
		}

		otp := models.OTP{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(otpTTL),
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		return "", fmt.Errorf("issue OTP: %w", err)
	}

	return code, nil
}

// Consume marks the newest live code matching the input as used. The
// guarded single-row update decides the winner when two verifications
// race on the same code; the loser sees zero rows affected.
func (l *OTPLedger) Consume(user *models.User, code string) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var otp models.OTP
		err := tx.Where("user_id = ? AND code = ?", user.ID, code).
			Order("created_at desc").
			First(&otp).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidOrExpiredCode
		}
		if err != nil {
			return err
		}
		if !otp.Valid(time.Now()) {
			return ErrInvalidOrExpiredCode
		}

		res := tx.Model(&models.OTP{}).
			Where("id = ? AND is_used = ?", otp.ID, false).
			Update("is_used", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidOrExpiredCode
		}
		return nil
	})
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpCodeMax))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
