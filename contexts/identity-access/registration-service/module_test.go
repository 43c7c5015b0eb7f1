package registrationservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	registrationservice "eduvote/contexts/identity-access/registration-service"
	cryptoadapter "eduvote/contexts/identity-access/registration-service/adapters/crypto"
	jwtadapter "eduvote/contexts/identity-access/registration-service/adapters/jwt"
	domainerrors "eduvote/contexts/identity-access/registration-service/domain/errors"
	httptransport "eduvote/contexts/identity-access/registration-service/transport/http"
)

// Tokens issued during login carry real expiry claims, so the test clock
// tracks wall time instead of a fixed date.
var registrationNow = time.Now().UTC().Truncate(time.Second)

const dateLayout = "2006-01-02"

func birthDateYearsAgo(years int) string {
	return registrationNow.AddDate(-years, 0, 0).Format(dateLayout)
}

func newRegistrationModule() (registrationservice.Module, *jwtadapter.Signer) {
	signer := jwtadapter.NewSigner("test-secret", time.Hour)
	module := registrationservice.NewInMemoryModule(cryptoadapter.BcryptHasher{}, signer, nil)
	module.Store.SetNow(registrationNow)
	return module, signer
}

func eligibleRegistration(email string) httptransport.RegisterRequest {
	return httptransport.RegisterRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       email,
		Password:    "correct-horse",
		DateOfBirth: birthDateYearsAgo(26),
		Citizenship: "UK",
		Residency:   "citizen",
	}
}

func TestRegisterVerifyLogin(t *testing.T) {
	module, signer := newRegistrationModule()

	voter, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if voter.IsVerified {
		t.Fatalf("new accounts must start unverified")
	}

	token, ok := module.Store.TokenFor(voter.VoterID)
	if !ok {
		t.Fatalf("expected a verification token to be issued")
	}
	if len(token) != 64 {
		t.Fatalf("expected 64-char verification token, got %d chars", len(token))
	}

	verified, err := module.Handler.VerifyHandler(context.Background(), httptransport.VerifyRequest{Token: token})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !verified.IsVerified {
		t.Fatalf("expected verified account")
	}

	session, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "ada@example.edu",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	voterID, err := signer.VoterID(session.Token)
	if err != nil {
		t.Fatalf("session token did not validate: %v", err)
	}
	if voterID != voter.VoterID {
		t.Fatalf("session token belongs to %s, expected %s", voterID, voter.VoterID)
	}
}

func TestRegisterRejectsIneligibleApplicants(t *testing.T) {
	module, _ := newRegistrationModule()

	underage := eligibleRegistration("kid@example.edu")
	underage.DateOfBirth = birthDateYearsAgo(10)
	if _, err := module.Handler.RegisterHandler(context.Background(), underage); !errors.Is(err, domainerrors.ErrIneligibleAge) {
		t.Fatalf("expected age rejection, got %v", err)
	}

	foreign := eligibleRegistration("visitor@example.edu")
	foreign.Citizenship = "FR"
	if _, err := module.Handler.RegisterHandler(context.Background(), foreign); !errors.Is(err, domainerrors.ErrIneligibleCitizenship) {
		t.Fatalf("expected citizenship rejection, got %v", err)
	}

	visa := eligibleRegistration("visa@example.edu")
	visa.Residency = "student_visa"
	if _, err := module.Handler.RegisterHandler(context.Background(), visa); !errors.Is(err, domainerrors.ErrIneligibleResidency) {
		t.Fatalf("expected residency rejection, got %v", err)
	}

	shortPassword := eligibleRegistration("short@example.edu")
	shortPassword.Password = "short"
	if _, err := module.Handler.RegisterHandler(context.Background(), shortPassword); !errors.Is(err, domainerrors.ErrInvalidRegistration) {
		t.Fatalf("expected invalid registration for short password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	module, _ := newRegistrationModule()

	if _, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("Ada@Example.edu"))
	if !errors.Is(err, domainerrors.ErrEmailTaken) {
		t.Fatalf("expected email taken for case-insensitive duplicate, got %v", err)
	}
}

func TestLoginRequiresVerification(t *testing.T) {
	module, _ := newRegistrationModule()

	if _, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu")); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "ada@example.edu",
		Password: "correct-horse",
	})
	if !errors.Is(err, domainerrors.ErrNotVerified) {
		t.Fatalf("expected not verified, got %v", err)
	}
}

func TestLoginDenialsAreUniform(t *testing.T) {
	module, _ := newRegistrationModule()

	if _, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu")); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, wrongPassword := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "ada@example.edu",
		Password: "wrong-password",
	})
	_, unknownEmail := module.Handler.LoginHandler(context.Background(), httptransport.LoginRequest{
		Email:    "nobody@example.edu",
		Password: "correct-horse",
	})
	if !errors.Is(wrongPassword, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong password, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, domainerrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", unknownEmail)
	}
}

func TestVerificationTokenIsSingleUse(t *testing.T) {
	module, _ := newRegistrationModule()

	voter, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _ := module.Store.TokenFor(voter.VoterID)

	if _, err := module.Handler.VerifyHandler(context.Background(), httptransport.VerifyRequest{Token: token}); err != nil {
		t.Fatalf("first verify failed: %v", err)
	}
	_, err = module.Handler.VerifyHandler(context.Background(), httptransport.VerifyRequest{Token: token})
	if !errors.Is(err, domainerrors.ErrTokenUsed) {
		t.Fatalf("expected token used, got %v", err)
	}
}

func TestVerificationTokenExpires(t *testing.T) {
	module, _ := newRegistrationModule()

	voter, err := module.Handler.RegisterHandler(context.Background(), eligibleRegistration("ada@example.edu"))
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _ := module.Store.TokenFor(voter.VoterID)

	module.Store.SetNow(registrationNow.Add(25 * time.Hour))
	_, err = module.Handler.VerifyHandler(context.Background(), httptransport.VerifyRequest{Token: token})
	if !errors.Is(err, domainerrors.ErrTokenExpired) {
		t.Fatalf("expected token expired, got %v", err)
	}

	_, err = module.Handler.VerifyHandler(context.Background(), httptransport.VerifyRequest{Token: "deadbeef"})
	if !errors.Is(err, domainerrors.ErrTokenInvalid) {
		t.Fatalf("expected token invalid, got %v", err)
	}
}

func TestEligibilityPreScreenCreatesNothing(t *testing.T) {
	module, _ := newRegistrationModule()

	resp, err := module.Handler.EligibilityHandler(context.Background(), httptransport.EligibilityCheckRequest{
		DateOfBirth: birthDateYearsAgo(26),
		Citizenship: "NZ",
		Residency:   "citizen",
	})
	if err != nil {
		t.Fatalf("eligibility check failed: %v", err)
	}
	if !resp.Eligible || resp.Reason != "" {
		t.Fatalf("expected eligible result, got %+v", resp)
	}

	denied, err := module.Handler.EligibilityHandler(context.Background(), httptransport.EligibilityCheckRequest{
		DateOfBirth: birthDateYearsAgo(10),
		Citizenship: "NZ",
		Residency:   "citizen",
	})
	if err != nil {
		t.Fatalf("eligibility check failed: %v", err)
	}
	if denied.Eligible || denied.Reason == "" {
		t.Fatalf("expected denial with reason, got %+v", denied)
	}

	if _, found, _ := module.Store.GetVoterByEmail(context.Background(), "nobody@example.edu"); found {
		t.Fatalf("pre-screen must not create accounts")
	}
}
