package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "caseflow/pkg/domain-errors"
)

func TestValidateToken(t *testing.T) {
	svc := NewJWTService("test-signing-key")

	t.Run("round trip", func(t *testing.T) {
		token, err := svc.GenerateToken("Z990123", "Saks Behandler", time.Hour)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "Z990123", claims.ActorID)
		assert.Equal(t, "Saks Behandler", claims.Name)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, err := svc.GenerateToken("Z990123", "Saks Behandler", -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		other := NewJWTService("different-key")
		token, err := other.GenerateToken("Z990123", "Saks Behandler", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("token without actor ident rejected", func(t *testing.T) {
		token, err := svc.GenerateToken("", "", time.Hour)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		require.Error(t, err)
	})
}
