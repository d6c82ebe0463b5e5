package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain integer", "450", "450", false},
		{"decimal", "12.34", "12.34", false},
		{"formatted", "$1,234.50", "1234.5", false},
		{"negative with symbol", "-$50", "-50", false},
		{"sign after symbol", "$-50", "-50", false},
		{"trailing sign", "50-", "-50", false},
		{"whitespace", "  $ 1 200  ", "1200", false},
		{"euro symbol", "€99.90", "99.9", false},
		{"letters", "abc", "", true},
		{"empty", "", "", true},
		{"only decoration", "$,-", "", true},
		{"two dots", "1.2.3", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCurrency(tt.raw)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotNumeric)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestParseIncome(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "4000", "4000"},
		{"leading zeros stripped", "000450", "450"},
		{"all zeros", "000", "0"},
		{"empty", "", "0"},
		{"garbage defaults to zero", "lots", "0"},
		{"formatted", "$5,500", "5500"},
		{"fraction keeps leading zero semantics", "0.5", "0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIncome(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"0", "$0.00"},
		{"12.3", "$12.30"},
		{"1234.5", "$1,234.50"},
		{"-50", "-$50.00"},
		{"1234567.89", "$1,234,567.89"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.raw)))
	}
}
