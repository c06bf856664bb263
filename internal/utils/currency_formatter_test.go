package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in       string
		decimals int32
		want     int64
		wantErr  bool
	}{
		{"150", 2, 15000, false},
		{"150.5", 2, 15050, false},
		{"150.50", 2, 15050, false},
		{" 30 ", 8, 3000000000, false},
		{"0.00000001", 8, 1, false},
		{"0.000000001", 8, 0, true},
		{"1.234", 2, 0, true},
		{"abc", 2, 0, true},
		{"", 2, 0, true},
		{"-5", 2, -500, false},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.in, tt.decimals)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "150.50", FormatAmount(15050, 2))
	assert.Equal(t, "100.00", FormatAmount(10000000000, 8))
	assert.Equal(t, "0.12345678", FormatAmount(12345678, 8))
	assert.Equal(t, "1.50", FormatAmount(150000000, 8))
	assert.Equal(t, "7", FormatAmount(7, 0))
}

func TestToMinorUnits(t *testing.T) {
	units, err := ToMinorUnits("0.000001", 8)
	require.NoError(t, err)
	assert.EqualValues(t, 100, units)

	units, err = ToMinorUnits("0.000001", 2)
	require.NoError(t, err)
	assert.Zero(t, units)

	_, err = ToMinorUnits("-1", 2)
	assert.Error(t, err)
}
