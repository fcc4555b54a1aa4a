// Package authdto holds request payloads of the auth domain.
package authdto

// UserCreateInput creates a directory entry.
type UserCreateInput struct {
	Name      string `json:"name" validate:"required,max=200,no_xss"`
	Email     string `json:"email" validate:"omitempty,email"`
	Role      string `json:"role" validate:"required,role"`
	CompanyID string `json:"companyId" validate:"omitempty,object_id"`
}
