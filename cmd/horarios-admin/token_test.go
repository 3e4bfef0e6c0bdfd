package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintPortalToken(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	raw, err := mintPortalToken("secret", "1001", "horariosFIUM2025", 30*time.Minute, now)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(func() time.Time { return now }),
	).ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) { return []byte("secret"), nil })
	require.NoError(t, err)

	assert.Equal(t, "1001", claims["user_id"])
	assert.Equal(t, "horariosFIUM2025", claims["aud"])
	assert.EqualValues(t, now.Add(30*time.Minute).Unix(), claims["exp"])
}

func TestMintPortalTokenWithoutExpiry(t *testing.T) {
	raw, err := mintPortalToken("secret", "1001", "", 0, time.Now())
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(raw, claims)
	require.NoError(t, err)
	assert.NotContains(t, claims, "exp")
	assert.NotContains(t, claims, "aud")
}

func TestMintPortalTokenRejectsMissingInput(t *testing.T) {
	_, err := mintPortalToken("", "1001", "", 0, time.Now())
	assert.Error(t, err)
	_, err = mintPortalToken("secret", " ", "", 0, time.Now())
	assert.Error(t, err)
}

func TestLoginLink(t *testing.T) {
	assert.Equal(t, "http://localhost:5000/auth?token=a.b.c", loginLink("http://localhost:5000/", "token", "a.b.c"))
}

func TestHashCommands(t *testing.T) {
	run := func(args ...string) (string, error) {
		cmd := rootCmd()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		return out.String(), err
	}

	out, err := run("hash", "encode", "1", "--base-url", "https://horarios.example")
	require.NoError(t, err)
	assert.Equal(t, "38\nhttps://horarios.example/?hash=38\n", out)

	out, err = run("hash", "decode", "38")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	_, err = run("hash", "decode", "ZZ")
	assert.Error(t, err)
}
