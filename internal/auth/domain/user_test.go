package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"+2250700000000", "+2250700000000"},
		{"  +225 07 00 00 00 00 ", "+2250700000000"},
		{"+225-07-00-00-00-00", "+2250700000000"},
		{"(225) 0700.000.000", "2250700000000"},
		{"0700000000", "0700000000"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, NormalizePhone(tc.in), "input %q", tc.in)
	}
}

func TestNormalizePhoneIsIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"+225 07 00 00 00 00", "0700000000", "+2250700000000"} {
		once := NormalizePhone(in)
		require.Equal(t, once, NormalizePhone(once))
	}
}
