package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminSessionTTL = 30 * 24 * time.Hour

// IssueAdminToken signs an HS256 session token for an authenticated admin,
// exchanged for the provider ID token after the membership check.
func IssueAdminToken(secret, adminID string) (string, error) {
	claims := jwt.MapClaims{
		"user":  adminID,
		"admin": true,
		"exp":   time.Now().Add(adminSessionTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAdminToken validates an admin session token and returns the admin id.
func ParseAdminToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	if isAdmin, _ := claims["admin"].(bool); !isAdmin {
		return "", ErrInvalidToken
	}
	user, _ := claims["user"].(string)
	if user == "" {
		return "", ErrInvalidToken
	}
	return user, nil
}
