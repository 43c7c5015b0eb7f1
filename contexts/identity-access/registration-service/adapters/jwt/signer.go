package jwtadapter

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	"eduvote/contexts/identity-access/registration-service/ports"
)

const issuer = "eduvote"

type Claims struct {
	VoterID string `json:"voter_id"`
	jwt.RegisteredClaims
}

// Signer mints and validates HS256 session tokens.
type Signer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	return &Signer{
		signingKey: []byte(secret),
		ttl:        ttl,
	}
}

func (s *Signer) Issue(voterID string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		VoterID: voterID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   voterID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return token.SignedString(s.signingKey)
}

// VoterID validates a session token and returns the voter it belongs to.
func (s *Signer) VoterID(tokenString string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", domainerrors.ErrInvalidCredentials
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.VoterID == "" {
		return "", domainerrors.ErrInvalidCredentials
	}
	return claims.VoterID, nil
}

var _ ports.SessionIssuer = (*Signer)(nil)
