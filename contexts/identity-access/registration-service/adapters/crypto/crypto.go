package cryptoadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"

	"eduvote/contexts/identity-access/registration-service/ports"
)

// BcryptHasher hashes voter passwords with bcrypt at the default cost.
type BcryptHasher struct{}

func (BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// HexTokenGenerator issues 64-character lowercase hex verification tokens
// from 32 cryptographically random bytes.
type HexTokenGenerator struct{}

func (HexTokenGenerator) NewVerificationToken(_ context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

var _ ports.PasswordHasher = BcryptHasher{}
var _ ports.VerificationTokenGenerator = HexTokenGenerator{}
