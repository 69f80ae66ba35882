package jwtx

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkortel/panelauth/internal/domain/models"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestDecode_PermissionShapes(t *testing.T) {
	tests := []struct {
		name   string
		claims jwt.MapClaims
		want   models.PermissionClaim
	}{
		{
			name:   "no permission claim",
			claims: jwt.MapClaims{"sub": "u1"},
			want:   models.PermissionClaim{Kind: models.PermissionAbsent},
		},
		{
			name:   "single permission",
			claims: jwt.MapClaims{"sub": "u1", "Permission": "Users.List"},
			want:   models.PermissionClaim{Kind: models.PermissionSingle, Single: "Users.List"},
		},
		{
			name:   "comma joined permissions stay single until normalization",
			claims: jwt.MapClaims{"sub": "u1", "Permission": "Users.List,Roles.List"},
			want:   models.PermissionClaim{Kind: models.PermissionSingle, Single: "Users.List,Roles.List"},
		},
		{
			name:   "permission list",
			claims: jwt.MapClaims{"sub": "u1", "Permission": []string{"Users.List", "Roles.List"}},
			want:   models.PermissionClaim{Kind: models.PermissionMany, Many: []string{"Users.List", "Roles.List"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(signedToken(t, tt.claims))
			require.NoError(t, err)
			assert.Equal(t, tt.want, claims.Permissions)
		})
	}
}

func TestDecode_SubjectAndRoles(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"sub":                  "user-42",
		"email":                "admin@example.com",
		models.ClaimRole:       []string{"Admin", "Editor"},
		models.ClaimPermission: "Users.List",
	})

	claims, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, []string{"Admin", "Editor"}, claims.Roles)
}

func TestDecode_SubjectFallsBackToNameID(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{
		"nameid":         "user-42",
		models.ClaimRole: "Admin",
	})

	claims, err := Decode(token)
	require.NoError(t, err)

	assert.Equal(t, "user-42", claims.Subject)
	assert.Equal(t, []string{"Admin"}, claims.Roles)
}

func TestDecode_MalformedToken(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b", "!!!.@@@.###"} {
		_, err := Decode(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}
