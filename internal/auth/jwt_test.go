package auth_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hugh/cardhub/internal/auth"
	"github.com/hugh/cardhub/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	userID := uuid.New()
	companyID := uuid.New()
	email := "test@example.com"
	role := models.RoleCompanyAdmin

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, companyID, email, role)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		// Should be parseable
		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, companyID, claims.CompanyID)
		assert.Equal(t, email, claims.Email)
		assert.Equal(t, role, claims.Role)
	})

	t.Run("token contains correct issuer", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, companyID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "cardhub", claims.Issuer)
	})

	t.Run("token contains correct subject", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, companyID, email, role)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.Subject)
	})

	t.Run("platform users carry a nil company", func(t *testing.T) {
		token, err := jwtService.GenerateToken(userID, uuid.Nil, email, models.RoleSuperAdmin)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, uuid.Nil, claims.CompanyID)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	userID := uuid.New()
	companyID := uuid.New()
	email := "test@example.com"
	role := models.RoleEmployee

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		signer := auth.NewJWTService("secret-a", 24*time.Hour)
		verifier := auth.NewJWTService("secret-b", 24*time.Hour)

		token, err := signer.GenerateToken(userID, companyID, email, role)
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", -time.Hour)

		token, err := jwtService.GenerateToken(userID, companyID, email, role)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		_, err := jwtService.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
