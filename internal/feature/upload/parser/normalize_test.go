package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCell(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want any
	}{
		{"", nil},
		{"   ", nil},
		{"42", 42.0},
		{" -3.5 ", -3.5},
		{"+7", 7.0},
		{".25", 0.25},
		{"10.", 10.0},
		{"1e3", 1000.0},
		{"2.5E-2", 0.025},
		{"1,234", "1,234"},
		{"0x1F", "0x1F"},
		{"NaN", "NaN"},
		{"Inf", "Inf"},
		{"1e400", "1e400"},
		{"12%", "12%"},
		{"  Jan ", "Jan"},
		{"2024-01-01", "2024-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCell(tt.in))
		})
	}
}
