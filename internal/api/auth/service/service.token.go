// Package authsvc issues and verifies bearer tokens and manages the user
// directory.
package authsvc

import (
	"errors"
	"time"

	authmodels "github.com/NamigGuliyef/avian-chat-sub000/internal/api/auth/models"
	"github.com/NamigGuliyef/avian-chat-sub000/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenService signs and parses HS256 bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokenService returns a TokenService for secret and issuer.
func NewTokenService(secret, issuer string) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token for user valid for ttl.
func (s *TokenService) Issue(user authmodels.User, ttl time.Duration) (string, error) {
	if !user.Role.IsValid() {
		return "", common.Validation("Unknown role", map[string]string{"role": string(user.Role)})
	}
	now := s.now()
	claims := authmodels.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if !user.CompanyID.IsZero() {
		claims.CompanyID = user.CompanyID.Hex()
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Parse verifies token and returns the principal it carries.
func (s *TokenService) Parse(token string) (authmodels.Principal, error) {
	claims := &authmodels.Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return authmodels.Principal{}, common.ErrTokenExpired
		}
		return authmodels.Principal{}, common.ErrTokenInvalid
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil || !claims.Role.IsValid() {
		return authmodels.Principal{}, common.ErrTokenInvalid
	}
	principal := authmodels.Principal{UserID: userID, Role: claims.Role}
	if claims.CompanyID != "" {
		companyID, err := primitive.ObjectIDFromHex(claims.CompanyID)
		if err != nil {
			return authmodels.Principal{}, common.ErrTokenInvalid
		}
		principal.CompanyID = companyID
	}
	return principal, nil
}
