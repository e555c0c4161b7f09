package session

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by the session cookie. The JWT ID (jti) is
// the server-side session id; the subject is the user id. The signature only
// proves the cookie came from us; the session itself lives in Redis.
type Claims struct {
	jwt.RegisteredClaims
}

type tokenConfig struct {
	Secret    []byte
	ClockSkew time.Duration
}

func loadTokenConfig() tokenConfig {
	secret := os.Getenv("SESSION_SECRET")
	skew := 60 * time.Second
	if v := os.Getenv("SESSION_CLOCK_SKEW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			skew = d
		}
	}
	return tokenConfig{Secret: []byte(secret), ClockSkew: skew}
}

var tcfg = loadTokenConfig()

func signToken(userID, sid string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        sid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tcfg.Secret)
}

func parseToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithLeeway(tcfg.ClockSkew), jwt.WithValidMethods([]string{"HS256"}))
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return tcfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}
