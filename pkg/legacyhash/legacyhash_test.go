package legacyhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{name: "single digit", code: "38", want: "1"},
		{name: "cedula", code: "3B3C3D", want: "456"},
		{name: "lowercase hex", code: "3b3c", want: "45"},
		{name: "offset floor", code: "07", want: "\x00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Decode(tc.code)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, code := range []string{"", "3", "383", "ZZ", "06", "3 "} {
		_, err := Decode(code)
		assert.ErrorIs(t, err, ErrDecode, "code %q", code)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, id := range []string{"1", "12345678", "V-20111222", "juan"} {
		code, err := Encode(id)
		require.NoError(t, err)
		got, err := Decode(code)
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestEncodeRejectsWideRunes(t *testing.T) {
	_, err := Encode("ñÿ")
	assert.Error(t, err)
}
