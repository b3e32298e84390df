package util

import (
	"great_awareness_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtTestSecret = "util-test-secret-0123456789abcdef"

func TestJWTRoundTrip(t *testing.T) {
	tok, err := GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 4}, Email: "a@example.com", Role: model.RoleAdmin}, jwtTestSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseJWT(tok, jwtTestSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(4), claims.UserID)
	assert.Equal(t, "a@example.com", claims.Subject)
	assert.True(t, claims.IsAdmin())

	_, err = ParseJWT(tok, "some-other-secret-0123456789abcdef")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 4}}, jwtTestSecret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, jwtTestSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRoleHelpers(t *testing.T) {
	var none *Claims
	assert.False(t, none.IsAdmin())
	assert.False(t, (&Claims{Role: model.RoleContentCreator}).IsAdmin())

	assert.True(t, model.RoleAdmin.CanPublish())
	assert.True(t, model.RoleContentCreator.CanPublish())
	assert.False(t, model.RoleUser.CanPublish())
	assert.False(t, model.UserRole("").CanPublish())
}
