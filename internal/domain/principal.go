package domain

import "context"

// Principal is the verified caller identity supplied by the authorization layer.
type Principal struct {
	ID   string
	Role Role
}

// Role represents a caller's access level
type Role string

const (
	// RoleAdmin may open accounts, change account status and correct entry status
	RoleAdmin Role = "admin"

	// RoleCustomer may only act on accounts it owns
	RoleCustomer Role = "customer"
)

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// CanManageAccounts checks if the role can manage accounts
func (r Role) CanManageAccounts() bool {
	return r == RoleAdmin
}

// CanAccess reports whether the principal may act on an account owned by ownerID.
func (p *Principal) CanAccess(ownerID string) bool {
	return p.Role == RoleAdmin || p.ID == ownerID
}

type principalKey struct{}

// ContextWithPrincipal returns a context carrying p.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext extracts the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
