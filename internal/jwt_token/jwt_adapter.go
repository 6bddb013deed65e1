package jwttoken

import (
	dErrors "rollcall/pkg/domain-errors"
	authmw "rollcall/pkg/platform/middleware/auth"
	"rollcall/pkg/requestcontext"
)

// JWTServiceAdapter satisfies authmw.JWTValidator and drops tokens whose role
// the service does not recognise.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !requestcontext.Role(claims.Role).Known() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown role")
	}
	return &authmw.JWTClaims{UserID: claims.UserID, Role: claims.Role}, nil
}
