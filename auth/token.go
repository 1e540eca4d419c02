package auth

import (
	"errors"
	"fmt"
	"time"

	"gala/config"
	"gala/repository"

	"github.com/golang-jwt/jwt/v5"
)

const tokenLifetime = time.Hour * 12

var ErrMalformedClaims = errors.New("malformed token claims")

type Claims struct {
	UserId int             `json:"user_id"`
	Role   repository.Role `json:"role"`
	Exp    int64           `json:"exp"`
}

func (claims *Claims) FromJWTClaims(jwtClaims jwt.Claims) error {
	mapClaims, ok := jwtClaims.(jwt.MapClaims)
	if !ok {
		return ErrMalformedClaims
	}
	userId, ok := mapClaims["user_id"].(float64)
	if !ok {
		return ErrMalformedClaims
	}
	exp, ok := mapClaims["exp"].(float64)
	if !ok {
		return ErrMalformedClaims
	}
	role, _ := mapClaims["role"].(string)
	claims.UserId = int(userId)
	claims.Exp = int64(exp)
	claims.Role = repository.Role(role)
	return nil
}

func (claims *Claims) Valid() error {
	if time.Now().Unix() > claims.Exp {
		return jwt.ErrTokenExpired
	}
	return nil
}

func CreateToken(user *repository.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"user_id": user.ID,
			"role":    string(user.Role),
			"exp":     time.Now().Add(tokenLifetime).Unix(),
		})

	tokenString, err := token.SignedString([]byte(config.Env().JWTSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(config.Env().JWTSecret), nil
	})

	if err != nil {
		return nil, err
	}
	return token, nil
}

// ParseClaims validates the token and returns its claims.
func ParseClaims(tokenString string) (*Claims, error) {
	token, err := ParseToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims := &Claims{}
	if err := claims.FromJWTClaims(token.Claims); err != nil {
		return nil, err
	}
	if err := claims.Valid(); err != nil {
		return nil, err
	}
	return claims, nil
}
