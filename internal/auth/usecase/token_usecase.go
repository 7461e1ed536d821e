package usecase

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrMissingUserID = errors.New("token carries no user id")
)

// TokenUsecase verifies bearer tokens issued by the account service.
// Issuing tokens is not part of this service.
type TokenUsecase interface {
	// ValidateToken returns the user id carried by a valid token
	ValidateToken(tokenString string) (string, error)
}

type tokenUsecase struct {
	secret []byte
}

// NewTokenUsecase creates a new instance of tokenUsecase
func NewTokenUsecase(secret string) TokenUsecase {
	return &tokenUsecase{secret: []byte(secret)}
}

func (u *tokenUsecase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return u.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}

	// user_id is what the account service issues; sub is accepted as well
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	return "", ErrMissingUserID
}
