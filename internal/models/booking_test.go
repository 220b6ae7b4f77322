package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingIsActive(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusApproved}).IsActive())
	assert.True(t, (&Booking{Status: BookingStatusInProgress}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusPending}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusCompleted}).IsActive())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).IsActive())
}

func TestValidateEndOdometer(t *testing.T) {
	start := 1200.5

	tests := []struct {
		name    string
		booking *Booking
		end     float64
		wantErr bool
	}{
		{"end ahead of start", &Booking{StartOdometer: &start}, 1450.0, false},
		{"end equals start", &Booking{StartOdometer: &start}, 1200.5, false},
		{"end behind start", &Booking{StartOdometer: &start}, 900.0, true},
		{"no start recorded", &Booking{}, 340.0, false},
		{"negative without start", &Booking{}, -10.0, true},
		{"negative with start", &Booking{StartOdometer: &start}, -1.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.booking.ValidateEndOdometer(tt.end)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateEndOdometerMentionsStartReading(t *testing.T) {
	start := 500.0
	err := (&Booking{StartOdometer: &start}).ValidateEndOdometer(499.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500.0")
	assert.Contains(t, err.Error(), "499.9")
}
