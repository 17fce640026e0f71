package util

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

const originIssuer = "imperio-origin"

// OriginClaims binds a browsing session to a dine-in table.
type OriginClaims struct {
	TableID     uint `json:"tid"`
	TableNumber int  `json:"tno"`
	jwt.RegisteredClaims
}

// GenerateOriginToken signs table claims with HS256.
func GenerateOriginToken(tableID uint, tableNumber int, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := OriginClaims{
		TableID:     tableID,
		TableNumber: tableNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    originIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign origin token: %w", err)
	}
	return signed, nil
}

// ValidateOriginToken verifies signature, issuer and expiry.
func ValidateOriginToken(tokenString, secret string) (*OriginClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OriginClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(originIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*OriginClaims)
	if !ok || !token.Valid || claims.TableID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
