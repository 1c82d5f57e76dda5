package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// AdminRole is the only role the catalog API issues tokens for
const AdminRole = "admin"

// TokenClaims represents the claims in an admin JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
