package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		countryCode string
		phoneNumber string
		wantChannel Channel
		wantErr     bool
	}{
		{name: "email only", email: "a@b.com", wantChannel: ChannelEmail},
		{name: "phone only", countryCode: "+91", phoneNumber: "9876543210", wantChannel: ChannelPhone},
		{name: "both channels prefers email", email: "a@b.com", countryCode: "+91", phoneNumber: "9876543210", wantChannel: ChannelEmail},
		{name: "nothing", wantErr: true},
		{name: "bad email", email: "not-an-email", wantErr: true},
		{name: "country code without number", countryCode: "+91", wantErr: true},
		{name: "number without country code", phoneNumber: "9876543210", wantErr: true},
		{name: "half pair with email still invalid", email: "a@b.com", countryCode: "+91", wantErr: true},
		{name: "country code missing plus", countryCode: "91", phoneNumber: "9876543210", wantErr: true},
		{name: "country code too long", countryCode: "+12345", phoneNumber: "9876543210", wantErr: true},
		{name: "phone too short", countryCode: "+91", phoneNumber: "12345", wantErr: true},
		{name: "phone too long", countryCode: "+91", phoneNumber: "1234567890123456", wantErr: true},
		{name: "phone with letters", countryCode: "+91", phoneNumber: "98765abc10", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Parse(tt.email, tt.countryCode, tt.phoneNumber)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantChannel, id.Channel())
		})
	}
}

func TestIdentityAccessors(t *testing.T) {
	email, err := NewEmail("a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", email.Email())
	assert.Equal(t, "a@b.com", email.String())

	phone, err := NewPhone("+91", "9876543210")
	require.NoError(t, err)
	cc, number := phone.Phone()
	assert.Equal(t, "+91", cc)
	assert.Equal(t, "9876543210", number)
	assert.Equal(t, "+919876543210", phone.String())
}
