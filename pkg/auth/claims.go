package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stocknexus/stocknexus-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID     uuid.UUID
	Role       enums.Role
	Department enums.Department
	JTI        string
}

// AccessTokenClaims represents the typed JWT issued to clients. Role and
// department ride inside the token so authorization never needs a second
// lookup against the role table.
type AccessTokenClaims struct {
	UserID     uuid.UUID        `json:"user_id"`
	Role       enums.Role       `json:"role"`
	Department enums.Department `json:"department"`
	jwt.RegisteredClaims
}
