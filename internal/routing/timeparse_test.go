package routing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGTFSTime(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00:00", 0},
		{"08:30:00", 8*3600 + 30*60},
		{"25:15:00", 25*3600 + 15*60},
	}
	for _, c := range cases {
		got, err := ParseGTFSTime(c.in)
		require.NoError(t, err)
		require.Equal(t, c.want, got)
	}
}

func TestParseGTFSTimeMalformed(t *testing.T) {
	_, err := ParseGTFSTime("not-a-time")
	require.Error(t, err)
}

func TestSecondsToGTFSTimeRoundTrip(t *testing.T) {
	secs := 26*3600 + 5*60 + 9
	s := SecondsToGTFSTime(secs)
	got, err := ParseGTFSTime(s)
	require.NoError(t, err)
	require.Equal(t, secs, got)
}
