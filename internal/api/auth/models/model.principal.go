package models

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    primitive.ObjectID `json:"userId"`
	Role      Role               `json:"role"`
	CompanyID primitive.ObjectID `json:"companyId,omitempty"`
}

// IsPrivileged reports whether the principal bypasses row-range gating.
func (p Principal) IsPrivileged() bool {
	return p.Role == RoleAdmin || p.Role == RoleSupervisor
}

// IsRestricted reports whether hidden columns must be stripped for p.
func (p Principal) IsRestricted() bool {
	return p.Role == RoleAgent || p.Role == RolePartner
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored by WithPrincipal.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
