package roles

import (
	"errors"
	"fmt"
	"strings"
)

// Role is a capability tag gating ledger operations. An address may hold any
// combination of roles.
type Role string

const (
	RoleBank     Role = "BANK"
	RoleHeritage Role = "HERITAGE"
	RoleSME      Role = "SME"
)

var (
	// ErrUnauthorized is returned when the caller does not hold the role an
	// operation requires. Wrapped errors carry the caller address and role.
	ErrUnauthorized = errors.New("caller lacks required role")

	ErrUnknownRole = errors.New("unknown role")
)

// Parse maps an external role identifier onto a Role, case-insensitively.
func Parse(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleBank:
		return RoleBank, nil
	case RoleHeritage:
		return RoleHeritage, nil
	case RoleSME:
		return RoleSME, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}

// Unauthorized builds the canonical access denial for a caller missing a role.
func Unauthorized(caller string, role Role) error {
	return fmt.Errorf("%w: account %s requires role %s", ErrUnauthorized, caller, role)
}
