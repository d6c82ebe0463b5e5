package core

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluateExpression(t *testing.T) {
	tests := []struct {
		name    string
		current string
		raw     string
		want    string
		wantErr bool
	}{
		{"incremental add", "100", "+50", "150", false},
		{"incremental subtract", "100", "-30", "70", false},
		{"incremental multiply", "100", "*3", "300", false},
		{"incremental divide", "100", "/4", "25", false},
		{"standalone replaces value", "100", "20*3", "60", false},
		{"standard precedence", "0", "2+3*4", "14", false},
		{"left associative division", "0", "100/5/2", "10", false},
		{"mixed precedence", "0", "10-2*3+1", "5", false},
		{"leading minus is incremental", "100", "-50+20", "70", false},
		{"unary minus after operator", "0", "5*-2", "-10", false},
		{"negative current incremental", "-100", "+50", "-50", false},
		{"plain currency", "100", "$1,234.50", "1234.5", false},
		{"plain number", "100", "42", "42", false},
		{"decimals", "0", "1.5*4", "6", false},
		{"division by zero", "100", "/0", "", true},
		{"standalone division by zero", "100", "5/0", "", true},
		{"garbage", "100", "bad", "", true},
		{"trailing operator", "100", "2+", "", true},
		{"double operator", "0", "2**3", "", true},
		{"identifiers rejected", "100", "x+1", "", true},
		{"empty", "100", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := decimal.RequireFromString(tt.current)
			got, err := EvaluateExpression(current, tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s want %s", got, tt.want)
		})
	}
}
