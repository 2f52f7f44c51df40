package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const tokenIssuer = "results-portal"

var ErrTokenExpired = errors.New("token expired")

func GenerateToken(secret []byte, username string, expiration time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("token secret is not set")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss":      tokenIssuer,
		"jti":      uuid.NewString(),
		"username": username,
		"role":     "admin",
		"exp":      now.Add(expiration).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return tokenString, nil
}

func ParseToken(secret []byte, tokenString string) (jwt.MapClaims, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok {
			if ve.Errors&jwt.ValidationErrorExpired != 0 {
				return nil, ErrTokenExpired
			}
		}
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if iss, _ := claims["iss"].(string); iss != tokenIssuer {
		return nil, errors.New("invalid token issuer")
	}
	return claims, nil
}
