package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{name: "plain amount", raw: "1234.56", want: 1234.56},
		{name: "dollar sign", raw: "$42.17", want: 42.17},
		{name: "thousands separator", raw: "$1,234.56", want: 1234.56},
		{name: "quoted", raw: `"$1,234.56"`, want: 1234.56},
		{name: "sentinel dashes", raw: "--", want: 0},
		{name: "empty string", raw: "", want: 0},
		{name: "whitespace only", raw: "   ", want: 0},
		{name: "sign before symbol", raw: "-$12.34", want: -12.34},
		{name: "sign after symbol", raw: "$-12.34", want: -12.34},
		{name: "quoted negative", raw: `"-$9.99"`, want: -9.99},
		{name: "garbage", raw: "N/A", want: 0},
		{name: "trailing junk", raw: "12.34x", want: 0},
		{name: "whole dollars", raw: "$100", want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Parse(tt.raw), 1e-9)
		})
	}
}

func TestParseNeverPanics(t *testing.T) {
	inputs := []string{"-", "$", "$$", "--$--", `"""`, "-,-", "1,2,3", "$.", "-$-"}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Parse(in) }, "input %q", in)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		raw  float64
		want string
	}{
		{raw: 0, want: "$0.00"},
		{raw: 5.2, want: "$5.20"},
		{raw: 1234.56, want: "$1,234.56"},
		{raw: 1234567.89, want: "$1,234,567.89"},
		{raw: -42.17, want: "-$42.17"},
		{raw: -1500, want: "-$1,500.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Format(tt.raw))
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.02, Round2(0.0200000001))
	assert.Equal(t, 100.1, Round2(100.0999999))
	assert.Equal(t, -3.33, Round2(-3.3349))
}
