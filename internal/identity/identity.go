// Package identity models the account-lookup key: an account is reached
// either by email address or by a country code + phone number pair,
// never by a half-specified mix of the two.
package identity

import (
	"errors"
	"net/mail"
	"regexp"
)

// Channel says which lookup key an Identity carries.
type Channel int

const (
	ChannelEmail Channel = iota + 1
	ChannelPhone
)

var (
	// ErrInvalid is returned for a missing or malformed identity.
	ErrInvalid = errors.New("identity: either email or both country code and phone number must be provided")

	countryCodeRe = regexp.MustCompile(`^\+\d{1,4}$`)
	phoneNumberRe = regexp.MustCompile(`^\d{6,15}$`)
)

// Identity is a validated account-lookup key. The zero value is invalid;
// construct one through NewEmail, NewPhone or Parse.
type Identity struct {
	channel     Channel
	email       string
	countryCode string
	phoneNumber string
}

// NewEmail builds an email identity, validating the address format.
func NewEmail(email string) (Identity, error) {
	if email == "" {
		return Identity{}, ErrInvalid
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return Identity{}, ErrInvalid
	}
	return Identity{channel: ChannelEmail, email: email}, nil
}

// NewPhone builds a phone identity. The country code must be "+" followed
// by 1-4 digits and the number 6-15 digits.
func NewPhone(countryCode, phoneNumber string) (Identity, error) {
	if !countryCodeRe.MatchString(countryCode) || !phoneNumberRe.MatchString(phoneNumber) {
		return Identity{}, ErrInvalid
	}
	return Identity{channel: ChannelPhone, countryCode: countryCode, phoneNumber: phoneNumber}, nil
}

// Parse builds an Identity from loosely-populated request fields. Email
// wins when both channels are fully present, mirroring account lookup
// being keyed on one channel at a time. A half-specified phone pair is
// rejected even when an email is also given.
func Parse(email, countryCode, phoneNumber string) (Identity, error) {
	if (countryCode == "") != (phoneNumber == "") {
		return Identity{}, ErrInvalid
	}
	if email != "" {
		return NewEmail(email)
	}
	if countryCode != "" {
		return NewPhone(countryCode, phoneNumber)
	}
	return Identity{}, ErrInvalid
}

// Channel reports which lookup key this identity carries.
func (i Identity) Channel() Channel { return i.channel }

// Email returns the address of an email identity, or "".
func (i Identity) Email() string { return i.email }

// Phone returns the pair of a phone identity, or two empty strings.
func (i Identity) Phone() (countryCode, phoneNumber string) {
	return i.countryCode, i.phoneNumber
}

// String renders the identity for logs.
func (i Identity) String() string {
	if i.channel == ChannelEmail {
		return i.email
	}
	return i.countryCode + i.phoneNumber
}
