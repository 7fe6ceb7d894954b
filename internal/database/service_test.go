package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*DB, *Repository) {
	t.Helper()
	db, err := NewDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, NewRepository(db)
}

func newTestUserService(t *testing.T) (*UserService, *Repository) {
	t.Helper()
	_, repo := newTestDB(t)
	return NewUserService(repo, "test-secret", time.Hour), repo
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, token, err := svc.Register("alice@example.com", "password123", "Alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.NotEmpty(t, token)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "free", user.SubscriptionType)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "password123", user.PasswordHash, "password must never be stored in clear")

	authed, _, err := svc.Authenticate("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, _, err := svc.Register("bob@example.com", "password123", "Bob")
	require.NoError(t, err)

	_, _, err = svc.Register("bob@example.com", "different456", "Bobby")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthenticateRejections(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, _, err := svc.Register("carol@example.com", "password123", "Carol")
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Authenticate("carol@example.com", "wrongpass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := svc.Authenticate("nobody@example.com", "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthenticateUpdatesLastLogin(t *testing.T) {
	svc, repo := newTestUserService(t)

	user, _, err := svc.Register("dave@example.com", "password123", "Dave")
	require.NoError(t, err)

	_, _, err = svc.Authenticate("dave@example.com", "password123")
	require.NoError(t, err)

	reloaded, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.NotNil(t, reloaded.LastLogin)
}

func TestTokenRoundTrip(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, token, err := svc.Register("erin@example.com", "password123", "Erin")
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestValidateTokenRejections(t *testing.T) {
	svc, _ := newTestUserService(t)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewUserService(svc.Repo(), "different-secret", time.Hour)
		_, token, err := other.Register("frank@example.com", "password123", "Frank")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewUserService(svc.Repo(), "test-secret", -time.Hour)
		_, token, err := expired.Register("grace@example.com", "password123", "Grace")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, _, err := svc.Register("henry@example.com", "oldpass123", "Henry")
	require.NoError(t, err)

	require.Error(t, svc.ChangePassword(user.ID, "wrongpass", "newpass123"))

	require.NoError(t, svc.ChangePassword(user.ID, "oldpass123", "newpass123"))

	_, _, err = svc.Authenticate("henry@example.com", "oldpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Authenticate("henry@example.com", "newpass123")
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newTestUserService(t)

	user, _, err := svc.Register("iris@example.com", "password123", "Iris")
	require.NoError(t, err)
	_, _, err = svc.Register("judy@example.com", "password123", "Judy")
	require.NoError(t, err)

	t.Run("email taken by someone else", func(t *testing.T) {
		_, err := svc.UpdateProfile(user.ID, "Iris", "judy@example.com")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("name only", func(t *testing.T) {
		updated, err := svc.UpdateProfile(user.ID, "Iris Updated", "")
		require.NoError(t, err)
		assert.Equal(t, "Iris Updated", updated.Name)
		assert.Equal(t, "iris@example.com", updated.Email)
	})

	t.Run("own email is not a conflict", func(t *testing.T) {
		updated, err := svc.UpdateProfile(user.ID, "", "iris@example.com")
		require.NoError(t, err)
		assert.Equal(t, "iris@example.com", updated.Email)
	})
}

func TestAuthenticateAdminSeededAccount(t *testing.T) {
	svc, _ := newTestUserService(t)

	admin, token, err := svc.AuthenticateAdmin("admin@startupeval.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "super_admin", admin.Role)
	assert.Equal(t, "System Admin", admin.Name)
	assert.NotEmpty(t, token)

	_, _, err = svc.AuthenticateAdmin("admin@startupeval.com", "badpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
