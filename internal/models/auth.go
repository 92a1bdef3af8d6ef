package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleIssuer  UserRole = "ISSUER"
	RoleAuditor UserRole = "AUDITOR"
)

// JWTClaims represents the JWT payload for access tokens. Every token is
// scoped to a single tenant.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	TenantID string   `json:"tenant_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	jwt.RegisteredClaims
}
