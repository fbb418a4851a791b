package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "sufragio/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-signing-key", "sufragio", "sufragio-api")

	token, err := svc.GenerateAccessToken(42, "voter", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.VoterID)
	assert.Equal(t, "voter", claims.Role)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.VoterIDInt()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := New("test-signing-key", "sufragio", "sufragio-api")

	token, err := svc.GenerateAccessToken(7, "voter", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateWrongKey(t *testing.T) {
	svc := New("test-signing-key", "sufragio", "sufragio-api")
	other := New("another-key", "sufragio", "sufragio-api")

	token, err := svc.GenerateAccessToken(7, "voter", time.Hour)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
