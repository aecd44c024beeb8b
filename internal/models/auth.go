package models

import "github.com/golang-jwt/jwt/v5"

// AdminClaims are the claims carried by the hosted auth provider's access
// tokens. The API validates these tokens; it never issues them.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}
