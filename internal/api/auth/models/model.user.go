// Package models holds the user directory and principal types of the auth domain.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is the coarse role of a user.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleAgent      Role = "agent"
	RolePartner    Role = "partner"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleSupervisor, RoleAgent, RolePartner}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleAgent, RolePartner:
		return true
	}
	return false
}

// User is a directory entry. Reports use it to resolve supervisor names and
// membership changes use it to check roles.
type User struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email,omitempty" bson:"email,omitempty" index:"unique,sparse"`
	Role      Role               `json:"role" bson:"role" index:"single:1"`
	CompanyID primitive.ObjectID `json:"companyId,omitempty" bson:"companyId,omitempty" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
