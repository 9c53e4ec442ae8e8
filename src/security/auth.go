// backend/src/security/auth.go
package security

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService guards the single-user dashboard. Access is granted by one
// shared secret; a short-lived signed token keeps the session alive so the
// secret itself never travels on every request.
type AuthService struct {
	jwtSecret       []byte
	dashboardSecret []byte
	tokenExpiry     time.Duration
}

func NewAuthService(jwtSecret, dashboardSecret string, tokenExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret:       []byte(jwtSecret),
		dashboardSecret: []byte(dashboardSecret),
		tokenExpiry:     tokenExpiry,
	}
}

// Authenticate checks the supplied password against the dashboard secret in
// constant time.
func (s *AuthService) Authenticate(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), s.dashboardSecret) == 1
}

// GenerateToken issues a session token for the dashboard user.
func (s *AuthService) GenerateToken() (string, time.Time, error) {
	expiresAt := time.Now().Add(s.tokenExpiry)
	claims := jwt.RegisteredClaims{
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken verifies a session token's signature and expiry.
func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}
