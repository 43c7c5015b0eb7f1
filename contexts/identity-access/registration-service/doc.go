// Package registrationservice owns voter accounts inside the
// identity-access context: the eligibility pre-screen, registration with
// email verification, and login session issuance.
package registrationservice
