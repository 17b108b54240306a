// Package token issues and verifies the signed session tokens that back the
// API's bearer authentication. Tokens are stateless HS256 JWTs; there is no
// server-side session store and no revocation, a token stays valid until it
// expires.
package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuerName = "inkwell-api"
	audience   = "inkwell-client"

	// DefaultTTL is the session lifetime from issuance.
	DefaultTTL = 7 * 24 * time.Hour
)

var (
	// ErrInvalidToken covers bad signatures, wrong signing methods,
	// malformed claims and expired tokens alike.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the identity embedded in a session token.
type Claims struct {
	UserID uint
	Email  string
}

// Issuer mints and verifies session tokens with a server-held secret.
// The secret is read-only after construction.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer creates an Issuer signing with secret. A zero ttl falls back to
// DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("token: signing secret must not be empty")
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue mints a signed token embedding the user's identity, expiring ttl
// from now.
func (i *Issuer) Issue(userID uint, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"iss":   issuerName,
		"aud":   audience,
		"exp":   now.Add(i.ttl).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify checks the signature and expiry of tokenString and returns the
// embedded identity. Any failure is reported as ErrInvalidToken; callers do
// not learn why a token was rejected.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuerName), jwt.WithAudience(audience))
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claimsFromMap(mapClaims)
}

// Decode extracts the identity from tokenString WITHOUT verifying the
// signature or expiry. It exists for display purposes on the client side
// only and must never gate access to protected data.
func Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser()
	mapClaims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, mapClaims); err != nil {
		return nil, ErrInvalidToken
	}
	return claimsFromMap(mapClaims)
}

func claimsFromMap(mapClaims jwt.MapClaims) (*Claims, error) {
	sub, ok := mapClaims["sub"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)

	return &Claims{UserID: uint(userID), Email: email}, nil
}
