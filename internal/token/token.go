package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type claims struct {
	jwt.RegisteredClaims
	UserCode string
}

const tokenExp = time.Hour * 24

var secretKey = []byte("checkoutsecretkey")

var ErrInvalidToken = errors.New("invalid token")

// BuildToken выписывает JWT с кодом пользователя
func BuildToken(userCode string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenExp)),
		},
		UserCode: userCode,
	})

	return token.SignedString(secretKey)
}

// GetUserCode возвращает код пользователя из JWT
func GetUserCode(tokenString string) (string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return secretKey, nil
		})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	return c.UserCode, nil
}
