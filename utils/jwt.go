package utils

import (
	"errors"
	"time"

	"servilink/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "servilink-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT with the subject (user or provider ID) and role.
func GenerateToken(subject, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ValidateToken parses and validates a token string and returns the token if valid.
func ValidateToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
}

// ClaimsFromToken extracts the subject and role from a validated token.
func ClaimsFromToken(tokenString string) (subject string, role string, err error) {
	token, err := ValidateToken(tokenString)
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}
	subject, _ = claims["sub"].(string)
	role, _ = claims["role"].(string)
	if subject == "" || role == "" {
		return "", "", errors.New("token missing subject or role")
	}
	return subject, role, nil
}
