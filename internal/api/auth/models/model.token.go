package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload carried by bearer tokens.
type Claims struct {
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`
	CompanyID string `json:"companyId,omitempty"`
	jwt.RegisteredClaims
}
