package jwtadapter

import (
	"errors"
	"testing"
	"time"

	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, err := signer.Issue("voter-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	voterID, err := signer.VoterID(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if voterID != "voter-1" {
		t.Fatalf("expected voter-1, got %s", voterID)
	}
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)

	token, err := signer.Issue("voter-1", time.Now().UTC().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := signer.VoterID(token); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for expired token, got %v", err)
	}
}

func TestSignerRejectsForeignKey(t *testing.T) {
	signer := NewSigner("test-secret", time.Hour)
	other := NewSigner("other-secret", time.Hour)

	token, err := other.Issue("voter-1", time.Now().UTC())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := signer.VoterID(token); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for foreign signature, got %v", err)
	}

	if _, err := signer.VoterID("not-a-token"); !errors.Is(err, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for malformed token, got %v", err)
	}
}
