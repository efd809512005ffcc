package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccount(t *testing.T) {
	t.Parallel()

	account, err := NewAccount("09123456789", "MYTEL", "token")
	require.NoError(t, err)

	assert.Equal(t, "09123456789", account.PhoneNumber)
	assert.Equal(t, ConditionNotClaimed, account.Condition)
	assert.Equal(t, NetworkTestNotTested, account.NetworkTestOutcome)
	assert.Empty(t, account.FinishTime)
	assert.False(t, account.HasFinished())
}

func TestAccountValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{
			name:    "valid",
			account: Account{PhoneNumber: "0911", SIM: "MYTEL", AccessToken: "t"},
		},
		{
			name:    "empty phone",
			account: Account{SIM: "MYTEL", AccessToken: "t"},
			wantErr: ErrEmptyPhoneNumber,
		},
		{
			name:    "path separator in phone",
			account: Account{PhoneNumber: "09/11", SIM: "MYTEL", AccessToken: "t"},
			wantErr: ErrInvalidPhone,
		},
		{
			name:    "empty sim",
			account: Account{PhoneNumber: "0911", SIM: "  ", AccessToken: "t"},
			wantErr: ErrEmptySIM,
		},
		{
			name:    "empty token",
			account: Account{PhoneNumber: "0911", SIM: "MYTEL"},
			wantErr: ErrEmptyAccessToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.account.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestAccountCompletedOn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		finishTime string
		date       string
		want       bool
	}{
		{"same day", "2024-03-01 08:15:00", "2024-03-01", true},
		{"previous day", "2024-02-29 23:59:59", "2024-03-01", false},
		{"never finished", "", "2024-03-01", false},
		{"date only marker", "2024-03-01", "2024-03-01", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			a := Account{FinishTime: tc.finishTime}
			assert.Equal(t, tc.want, a.CompletedOn(tc.date))
		})
	}
}

func TestInternationalMSISDN(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+959123456789", InternationalMSISDN("09123456789"))
	assert.Equal(t, "+959123456789", InternationalMSISDN("9123456789"))
	// Only one leading zero is stripped.
	assert.Equal(t, "+9509123", InternationalMSISDN("009123"))
}
