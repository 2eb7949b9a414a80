package jwtutil

import (
	"time"

	"github.com/GrabRush/grabrush-app/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// Account roles carried in the token
const (
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

var (
	signingKey = []byte("grabrushsecretkey")
	expiration = 24 * time.Hour
)

// Initialize configures the signing key and token lifetime
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	expiration = cfg.ExpirationTime
}

// ActorClaims represents the JWT claims for an authenticated account
type ActorClaims struct {
	Email  string `json:"email"`
	UserID uint   `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Role   string `json:"role"` // customer or vendor
	jwt.RegisteredClaims
}

// GenerateToken issues a signed token for the given account
func GenerateToken(email string, userID uint, name, role string) (string, error) {
	claims := &ActorClaims{
		Email:  email,
		UserID: userID,
		Name:   name,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*ActorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ActorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*ActorClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
