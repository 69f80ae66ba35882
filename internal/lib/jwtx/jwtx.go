package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkortel/panelauth/internal/domain/models"
)

var ErrMalformedToken = errors.New("malformed token")

// Decode parses the payload segment of a bearer token without verifying the
// signature. The client never holds the signing key; trust in the token is
// established by the server on every request, the decode here only feeds the
// local permission cache. A token that does not carry a valid payload yields
// ErrMalformedToken, never a panic.
func Decode(tokenString string) (*models.Claims, error) {
	const op = "jwtx.Decode"

	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrMalformedToken)
	}

	claims := &models.Claims{
		Subject:     stringClaim(mc[models.ClaimSubject]),
		Email:       stringClaim(mc[models.ClaimEmail]),
		Roles:       stringListClaim(mc[models.ClaimRole]),
		Permissions: models.PermissionClaimOf(mc[models.ClaimPermission]),
	}
	if claims.Subject == "" {
		claims.Subject = stringClaim(mc[models.ClaimSubjectAlt])
	}

	return claims, nil
}

func stringClaim(value any) string {
	s, _ := value.(string)
	return s
}

// stringListClaim handles role claims that decoders collapse to either a
// single string or a list.
func stringListClaim(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}
