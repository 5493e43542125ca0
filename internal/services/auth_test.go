package services

import (
	"testing"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/models"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignupAndLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	created, err := svc.Signup(&SignupRequest{
		Username: "nabeel",
		Email:    "nabeel@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleCustomer, created.Role)
	assert.Equal(t, models.KYCStatusPending, created.KYCStatus)

	t.Run("CorrectPassword", func(t *testing.T) {
		resp, err := svc.Login(&LoginRequest{Email: "nabeel@example.com", Password: "correct horse"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, created.ID, resp.User.ID)

		stored, err := users.FindByEmail("nabeel@example.com")
		require.NoError(t, err)
		assert.NotNil(t, stored.LastLogin)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "nabeel@example.com", Password: "wrong"})
		require.Error(t, err)
		assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "whatever"})
		require.Error(t, err)
		assert.Equal(t, apperr.Authorization, apperr.KindOf(err))
	})
}

func TestSignupExplicitDriverRole(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	created, err := svc.Signup(&SignupRequest{
		Username: "driver1",
		Email:    "driver1@example.com",
		Password: "correct horse",
		Role:     models.RoleDriver,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleDriver, created.Role)
}

func TestGetProfile(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users)

	user := users.put(&models.User{Username: "owner", Email: "owner@example.com", Role: models.RoleCustomer})
	profile, err := svc.GetProfile(user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "owner", profile.Username)
}
