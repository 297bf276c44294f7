package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Avzolem/yugioh-server/internal/models"
)

func registerReq() *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:       "yugi@example.com",
		DisplayName: "Yugi",
		Password:    "millennium1",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the account and opens a session", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), newFakeSessionRepo(), 24)

		user, session, err := svc.Register(ctx, registerReq(), "203.0.113.9", "test-agent")

		require.NoError(t, err)
		assert.Equal(t, "yugi@example.com", user.Email)
		require.NotNil(t, session)
		assert.Equal(t, user.ID, session.UserID)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), newFakeSessionRepo(), 24)

		_, _, err := svc.Register(ctx, registerReq(), "", "")
		require.NoError(t, err)

		req := registerReq()
		req.Email = " YUGI@example.com "
		_, _, err = svc.Register(ctx, req, "", "")
		assert.ErrorIs(t, err, models.ErrEmailExists)
	})

	t.Run("short password is rejected", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo(), newFakeSessionRepo(), 24)

		req := registerReq()
		req.Password = "short"
		_, _, err := svc.Register(ctx, req, "", "")
		assert.ErrorIs(t, err, models.ErrPasswordTooShort)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, *fakeUserRepo) {
		users := newFakeUserRepo()
		svc := NewAuthService(users, newFakeSessionRepo(), 24)
		_, _, err := svc.Register(ctx, registerReq(), "", "")
		require.NoError(t, err)
		return svc, users
	}

	t.Run("valid credentials", func(t *testing.T) {
		svc, _ := setup(t)

		user, session, err := svc.Login(ctx, &models.LoginRequest{Email: "yugi@example.com", Password: "millennium1"}, "", "")

		require.NoError(t, err)
		assert.Equal(t, "yugi@example.com", user.Email)
		assert.NotNil(t, session)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.Login(ctx, &models.LoginRequest{Email: "yugi@example.com", Password: "wrong-pass"}, "", "")
		assert.ErrorIs(t, err, models.ErrInvalidPassword)
	})

	t.Run("unknown email reports the same error as a bad password", func(t *testing.T) {
		svc, _ := setup(t)

		_, _, err := svc.Login(ctx, &models.LoginRequest{Email: "kaiba@example.com", Password: "millennium1"}, "", "")
		assert.ErrorIs(t, err, models.ErrInvalidPassword)
	})

	t.Run("deactivated account cannot log in", func(t *testing.T) {
		svc, users := setup(t)
		for _, u := range users.users {
			u.IsActive = false
		}

		_, _, err := svc.Login(ctx, &models.LoginRequest{Email: "yugi@example.com", Password: "millennium1"}, "", "")
		assert.ErrorIs(t, err, models.ErrInvalidPassword)
	})
}

func TestAuthService_GetSession(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, *models.WebSession, *fakeSessionRepo) {
		sessions := newFakeSessionRepo()
		svc := NewAuthService(newFakeUserRepo(), sessions, 24)
		_, session, err := svc.Register(ctx, registerReq(), "", "")
		require.NoError(t, err)
		return svc, session, sessions
	}

	t.Run("valid session returns its user and touches activity", func(t *testing.T) {
		svc, session, sessions := setup(t)

		got, user, err := svc.GetSession(ctx, session.ID)

		require.NoError(t, err)
		assert.Equal(t, session.ID, got.ID)
		assert.Equal(t, "yugi@example.com", user.Email)
		assert.Contains(t, sessions.touched, session.ID)
	})

	t.Run("unknown session", func(t *testing.T) {
		svc, _, _ := setup(t)

		_, _, err := svc.GetSession(ctx, "no-such-session")
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})

	t.Run("expired session", func(t *testing.T) {
		svc, session, sessions := setup(t)
		sessions.sessions[session.ID].ExpiresAt = sessions.sessions[session.ID].CreatedAt

		_, _, err := svc.GetSession(ctx, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionExpired)
	})

	t.Run("invalidated session", func(t *testing.T) {
		svc, session, sessions := setup(t)
		sessions.sessions[session.ID].Invalidate()

		_, _, err := svc.GetSession(ctx, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionInactive)
	})

	t.Run("logged out session", func(t *testing.T) {
		svc, session, _ := setup(t)

		require.NoError(t, svc.Logout(ctx, session.ID))

		_, _, err := svc.GetSession(ctx, session.ID)
		assert.ErrorIs(t, err, models.ErrSessionNotFound)
	})
}

func TestAuthService_LogoutAll(t *testing.T) {
	ctx := context.Background()
	sessions := newFakeSessionRepo()
	svc := NewAuthService(newFakeUserRepo(), sessions, 24)

	user, first, err := svc.Register(ctx, registerReq(), "", "")
	require.NoError(t, err)
	_, second, err := svc.Login(ctx, &models.LoginRequest{Email: "yugi@example.com", Password: "millennium1"}, "", "")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(ctx, user.ID))

	_, _, err = svc.GetSession(ctx, first.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	_, _, err = svc.GetSession(ctx, second.ID)
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
}
