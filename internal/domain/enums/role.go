package enums

import "strings"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func NormalizeRole(value string) Role {
	return Role(strings.ToLower(strings.TrimSpace(value)))
}

func RolesFromStrings(values []string) []Role {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		role := NormalizeRole(v)
		if role == "" {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}

func RolesToStrings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, role := range roles {
		out = append(out, string(role))
	}
	return out
}
