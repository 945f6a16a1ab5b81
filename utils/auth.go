// utils/auth.go
package utils

import (
	"os"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/earnease/earnease_backend/middleware"
	"github.com/earnease/earnease_backend/models"
)

// GenerateJWT issues a signed token carrying the user's id, email and role
// claim. The role claim is the authorization capability; handlers never
// compare against a literal identity.
func GenerateJWT(user *models.User) (string, error) {
	claims := &middleware.JwtCustomClaims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(72 * time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(middleware.GetJWTSecret()))
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	cost := bcrypt.DefaultCost
	if os.Getenv("ENV") == "development" {
		cost = bcrypt.MinCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
