package services

import (
	"testing"

	"github.com/ddongsuya/cro-project-tracker-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationNeverHonorsCallerRole(t *testing.T) {
	user := sanitizeRegistration(models.User{
		Name:  "Eve",
		Email: "eve@cro.example",
		Role:  "manager",
	})
	assert.Equal(t, "member", user.Role)
	assert.True(t, user.IsActive)
}

func TestRegistrationEscapesMarkup(t *testing.T) {
	user := sanitizeRegistration(models.User{Name: "<script>x</script>"})
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", user.Name)
}

func TestAdminPasswordIsRandomAndValid(t *testing.T) {
	svc := NewAuthService(nil)

	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		password := generateAdminPassword()
		require.NoError(t, svc.ValidatePassword(password))
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1, "seeded admin passwords must vary between generations")
}

func TestValidatePasswordRules(t *testing.T) {
	svc := NewAuthService(nil)

	assert.Error(t, svc.ValidatePassword("Ab1!"), "too short")
	assert.Error(t, svc.ValidatePassword("lowercase1!"), "no uppercase")
	assert.Error(t, svc.ValidatePassword("NoDigits!!"), "no number")
	assert.Error(t, svc.ValidatePassword("NoSpecial11"), "no special character")
	assert.NoError(t, svc.ValidatePassword("Str0ng.Pass"))
}
