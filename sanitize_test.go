package turing_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   error
	}{
		{name: "plain", input: "0110", want: "0110"},
		{name: "unicode symbols", input: "αβ□", want: "αβ□"},
		{name: "ansi escape stripped", input: "1\x1b[31m0", want: "1[31m0"},
		{name: "tab and nul stripped", input: "1\t0\x00", want: "10"},
		{name: "invalid utf8", input: "1\xff", err: turing.ErrInvalidUTF8},
		{name: "too large", input: strings.Repeat("1", turing.DefaultMaxInputSize+1), err: turing.ErrInputTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := turing.SanitizeInput(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeInput_EnvLimit(t *testing.T) {
	t.Setenv(turing.EnvMaxInputSize, "3")
	_, err := turing.SanitizeInput("0101")
	assert.ErrorIs(t, err, turing.ErrInputTooLarge)

	t.Setenv(turing.EnvMaxInputSize, "garbage")
	_, err = turing.SanitizeInput("0101")
	assert.NoError(t, err)
}
