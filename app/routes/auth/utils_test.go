package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor-backoffice/app/models"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse battery staple", hash))
	assert.False(t, CheckPasswordHash("wrong password", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-1", "boss@the-anchor.pub", "Pat", "Moss", []string{"manager"})
	require.NoError(t, err)

	claims, err := ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "boss@the-anchor.pub", claims.Email)
	assert.Equal(t, []string{"manager"}, claims.Roles)

	_, err = ValidateJWT(token + "tampered")
	assert.Error(t, err)
}

func userWithRole(name string) *models.User {
	return &models.User{ID: "u1", Roles: []*models.Role{{Name: name}}}
}

func TestCanViewOrEdit(t *testing.T) {
	assert.True(t, CanViewOrEdit(userWithRole("admin"), ModulePayroll, ActionApprove))
	assert.True(t, CanViewOrEdit(userWithRole("manager"), ModulePayroll, ActionApprove))
	assert.True(t, CanViewOrEdit(userWithRole("supervisor"), ModulePayroll, ActionView))
	assert.False(t, CanViewOrEdit(userWithRole("supervisor"), ModulePayroll, ActionApprove))
	assert.False(t, CanViewOrEdit(userWithRole("staff"), ModulePayroll, ActionView))
	assert.True(t, CanViewOrEdit(userWithRole("staff"), ModuleSchedule, ActionView))
	assert.False(t, CanViewOrEdit(userWithRole("unknown"), ModuleSchedule, ActionView))
	assert.False(t, CanViewOrEdit(nil, ModuleSchedule, ActionView))
}
