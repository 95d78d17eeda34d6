package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/growwithgreen/growwithgreen-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID        uuid.UUID
	CustomerClass enums.CustomerClass
	JTI           string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	UserID        uuid.UUID           `json:"user_id"`
	CustomerClass enums.CustomerClass `json:"customer_class"`
	jwt.RegisteredClaims
}
