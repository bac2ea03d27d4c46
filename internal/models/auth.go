package models

import "github.com/golang-jwt/jwt/v5"

// Claims is the access token payload. Only Email is trusted by route guards.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}
