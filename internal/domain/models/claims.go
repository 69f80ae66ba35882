package models

import (
	"fmt"
	"strings"
)

// Claim names as the backend's token issuer emits them. The role claim keeps
// the WS-Fed schema URI used by the identity stack behind the API.
const (
	ClaimSubject    = "sub"
	ClaimSubjectAlt = "nameid"
	ClaimEmail      = "email"
	ClaimPermission = "Permission"
	ClaimRole       = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"
)

// Claims is the decoded payload of a bearer token.
type Claims struct {
	Subject     string
	Email       string
	Roles       []string
	Permissions PermissionClaim
}

// PermissionClaimKind tags the shape the issuer used for the permission claim.
type PermissionClaimKind int

const (
	PermissionAbsent PermissionClaimKind = iota
	PermissionSingle
	PermissionMany
)

// PermissionClaim is the tagged decode of the permission claim. The issuer
// may encode a single claim or multiple occurrences of the same claim type,
// and decoders collapse that into either one string (possibly comma-joined)
// or a list.
type PermissionClaim struct {
	Kind   PermissionClaimKind
	Single string
	Many   []string
}

// PermissionClaimOf builds the tagged variant from a raw decoded claim value.
func PermissionClaimOf(value any) PermissionClaim {
	switch v := value.(type) {
	case nil:
		return PermissionClaim{Kind: PermissionAbsent}
	case []string:
		return PermissionClaim{Kind: PermissionMany, Many: v}
	case []any:
		many := make([]string, 0, len(v))
		for _, item := range v {
			many = append(many, fmt.Sprint(item))
		}
		return PermissionClaim{Kind: PermissionMany, Many: many}
	case string:
		return PermissionClaim{Kind: PermissionSingle, Single: v}
	default:
		return PermissionClaim{Kind: PermissionSingle, Single: fmt.Sprint(v)}
	}
}

// Normalize flattens the claim into a plain permission-name list:
// absent claim yields an empty list, a list is used as-is, a comma-joined
// string is split and trimmed, any other single value becomes a singleton.
func (c PermissionClaim) Normalize() []string {
	switch c.Kind {
	case PermissionAbsent:
		return nil
	case PermissionMany:
		out := make([]string, 0, len(c.Many))
		for _, p := range c.Many {
			out = append(out, p)
		}
		return out
	default:
		if strings.Contains(c.Single, ",") {
			parts := strings.Split(c.Single, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				out = append(out, strings.TrimSpace(p))
			}
			return out
		}
		return []string{c.Single}
	}
}
