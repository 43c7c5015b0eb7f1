package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	catalogservice "eduvote/contexts/election-operations/catalog-service"
	votingengine "eduvote/contexts/election-operations/voting-engine"
	votingentities "eduvote/contexts/election-operations/voting-engine/domain/entities"
	votingports "eduvote/contexts/election-operations/voting-engine/ports"
	votinghttp "eduvote/contexts/election-operations/voting-engine/transport/http"
	registrationservice "eduvote/contexts/identity-access/registration-service"
	cryptoadapter "eduvote/contexts/identity-access/registration-service/adapters/crypto"
	jwtadapter "eduvote/contexts/identity-access/registration-service/adapters/jwt"
	registrationhttp "eduvote/contexts/identity-access/registration-service/transport/http"
)

const testAdminToken = "test-admin-token"

var serverNow = time.Now().UTC().Truncate(time.Second)

type testServer struct {
	server       *Server
	signer       *jwtadapter.Signer
	voting       votingengine.Module
	registration registrationservice.Module
}

func newTestServer(t *testing.T, adminToken string) testServer {
	t.Helper()
	signer := jwtadapter.NewSigner("test-secret", time.Hour)
	catalog := catalogservice.NewInMemoryModule(nil, nil)
	voting := votingengine.NewInMemoryModule(nil, nil)
	registration := registrationservice.NewInMemoryModule(cryptoadapter.BcryptHasher{}, signer, nil)

	voting.Store.SetNow(serverNow)
	registration.Store.SetNow(serverNow)

	server := New(catalog, voting, registration, signer, adminToken, nil, "")
	return testServer{
		server:       server,
		signer:       signer,
		voting:       voting,
		registration: registration,
	}
}

func (ts testServer) seedReferendum(t *testing.T) {
	t.Helper()
	ts.voting.Store.SeedElection(votingentities.ElectionSnapshot{
		ElectionID: "election-ref",
		Title:      "Library Hours Referendum",
		Type:       votingentities.ElectionTypeOption,
		StartAt:    serverNow.Add(-time.Hour),
		EndAt:      serverNow.Add(time.Hour),
		IsActive:   true,
	}, votingports.BallotStructure{
		ElectionID: "election-ref",
		Type:       votingentities.ElectionTypeOption,
		Options: []votingports.OptionRef{
			{OptionID: "opt-yes", Name: "Extend to 24/7"},
			{OptionID: "opt-no", Name: "Keep current hours"},
		},
	})
}

func (ts testServer) bearerFor(t *testing.T, voterID string) string {
	t.Helper()
	token, err := ts.signer.Issue(voterID, time.Now().UTC())
	if err != nil {
		t.Fatalf("issue session token: %v", err)
	}
	return token
}

func (ts testServer) do(method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	ts.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("error response was not JSON: %v", err)
	}
	return body.Code
}

func TestVoterRoutesRequireBearerToken(t *testing.T) {
	ts := newTestServer(t, testAdminToken)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/elections"},
		{http.MethodGet, "/api/v1/elections/election-ref"},
		{http.MethodGet, "/api/v1/elections/election-ref/ballot-structure"},
		{http.MethodPost, "/api/v1/elections/election-ref/ballots"},
		{http.MethodGet, "/api/v1/receipts/0123456789abcdef0123456789abcdef"},
		{http.MethodGet, "/api/v1/me/ballots"},
	}
	for _, route := range routes {
		rec := ts.do(route.method, route.path, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", route.method, route.path, rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != "missing_token" {
			t.Fatalf("%s %s: expected missing_token, got %s", route.method, route.path, code)
		}

		rec = ts.do(route.method, route.path, map[string]string{"Authorization": "Bearer not-a-jwt"}, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s with garbage token: expected 401, got %d", route.method, route.path, rec.Code)
		}
		if code := decodeErrorCode(t, rec); code != "invalid_token" {
			t.Fatalf("%s %s: expected invalid_token, got %s", route.method, route.path, code)
		}
	}
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	ts := newTestServer(t, testAdminToken)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/v1/elections"},
		{http.MethodPost, "/api/admin/v1/elections"},
		{http.MethodPut, "/api/admin/v1/elections/election-1"},
		{http.MethodDelete, "/api/admin/v1/elections/election-1"},
		{http.MethodPost, "/api/admin/v1/elections/election-1/positions"},
		{http.MethodDelete, "/api/admin/v1/positions/pos-1"},
		{http.MethodPost, "/api/admin/v1/positions/pos-1/candidates"},
		{http.MethodDelete, "/api/admin/v1/candidates/cand-1"},
		{http.MethodPost, "/api/admin/v1/elections/election-1/options"},
		{http.MethodDelete, "/api/admin/v1/options/opt-1"},
	}
	for _, route := range routes {
		rec := ts.do(route.method, route.path, nil, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s without admin token: expected 403, got %d", route.method, route.path, rec.Code)
		}
		rec = ts.do(route.method, route.path, map[string]string{"X-Admin-Token": "wrong-token"}, nil)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("%s %s with wrong admin token: expected 403, got %d", route.method, route.path, rec.Code)
		}
	}

	rec := ts.do(http.MethodGet, "/api/admin/v1/elections", map[string]string{"X-Admin-Token": testAdminToken}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin listing with valid token: expected 200, got %d", rec.Code)
	}
}

func TestAdminDeniedWhenTokenUnconfigured(t *testing.T) {
	ts := newTestServer(t, "")

	rec := ts.do(http.MethodGet, "/api/admin/v1/elections", map[string]string{"X-Admin-Token": ""}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when no admin token is configured, got %d", rec.Code)
	}
}

func TestCastBallotRoundTrip(t *testing.T) {
	ts := newTestServer(t, testAdminToken)
	ts.seedReferendum(t)

	voterAuth := map[string]string{"Authorization": "Bearer " + ts.bearerFor(t, "voter-1")}
	rec := ts.do(http.MethodPost, "/api/v1/elections/election-ref/ballots", voterAuth, votinghttp.CastBallotRequest{
		OptionID: "opt-yes",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("cast ballot: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var receipt votinghttp.ReceiptResponse
	if err := json.NewDecoder(rec.Body).Decode(&receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if len(receipt.ReceiptID) != 32 {
		t.Fatalf("expected 32-char receipt id, got %q", receipt.ReceiptID)
	}

	rec = ts.do(http.MethodGet, "/api/v1/receipts/"+receipt.ReceiptID, voterAuth, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("receipt lookup: expected 200, got %d", rec.Code)
	}

	rec = ts.do(http.MethodPost, "/api/v1/elections/election-ref/ballots", voterAuth, votinghttp.CastBallotRequest{
		OptionID: "opt-no",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second ballot: expected 409, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "duplicate_vote" {
		t.Fatalf("second ballot: expected duplicate_vote, got %s", code)
	}

	otherAuth := map[string]string{"Authorization": "Bearer " + ts.bearerFor(t, "voter-2")}
	rec = ts.do(http.MethodGet, "/api/v1/receipts/"+receipt.ReceiptID, otherAuth, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("foreign receipt lookup: expected 404, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "receipt_not_found" {
		t.Fatalf("foreign receipt lookup: expected receipt_not_found, got %s", code)
	}
}

func TestRegistrationFlowOverHTTP(t *testing.T) {
	ts := newTestServer(t, testAdminToken)
	ts.seedReferendum(t)

	register := registrationhttp.RegisterRequest{
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Email:       "ada@example.edu",
		Password:    "correct-horse",
		DateOfBirth: serverNow.AddDate(-26, 0, 0).Format("2006-01-02"),
		Citizenship: "UK",
		Residency:   "citizen",
	}
	rec := ts.do(http.MethodPost, "/api/v1/voters", nil, register)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var voter registrationhttp.VoterResponse
	if err := json.NewDecoder(rec.Body).Decode(&voter); err != nil {
		t.Fatalf("decode voter: %v", err)
	}

	loginBody := registrationhttp.LoginRequest{Email: register.Email, Password: register.Password}
	rec = ts.do(http.MethodPost, "/api/v1/sessions", nil, loginBody)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("login before verification: expected 403, got %d", rec.Code)
	}

	token, ok := ts.registration.Store.TokenFor(voter.VoterID)
	if !ok {
		t.Fatalf("expected a verification token")
	}
	rec = ts.do(http.MethodPost, "/api/v1/voters/verify", nil, registrationhttp.VerifyRequest{Token: token})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = ts.do(http.MethodPost, "/api/v1/sessions", nil, loginBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var session registrationhttp.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&session); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if !strings.HasPrefix(session.Token, "ey") {
		t.Fatalf("expected a JWT session token, got %q", session.Token)
	}

	rec = ts.do(http.MethodGet, "/api/v1/me/ballots", map[string]string{"Authorization": "Bearer " + session.Token}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("voting history with session token: expected 200, got %d", rec.Code)
	}
}

func TestHealthzIsPublic(t *testing.T) {
	ts := newTestServer(t, testAdminToken)

	rec := ts.do(http.MethodGet, "/healthz", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: expected 200, got %d", rec.Code)
	}
}
