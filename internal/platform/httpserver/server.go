package httpserver

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	catalogservice "eduvote/contexts/election-operations/catalog-service"
	votingengine "eduvote/contexts/election-operations/voting-engine"
	registrationservice "eduvote/contexts/identity-access/registration-service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "eduvote/internal/platform/httpserver/docs"
)

// SessionValidator resolves a bearer token to the voter it belongs to.
type SessionValidator interface {
	VoterID(token string) (string, error)
}

type Server struct {
	mux          *http.ServeMux
	logger       *slog.Logger
	addr         string
	adminToken   string
	sessions     SessionValidator
	catalog      catalogservice.Module
	voting       votingengine.Module
	registration registrationservice.Module
}

func New(
	catalog catalogservice.Module,
	voting votingengine.Module,
	registration registrationservice.Module,
	sessions SessionValidator,
	adminToken string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		adminToken:   adminToken,
		sessions:     sessions,
		catalog:      catalog,
		voting:       voting,
		registration: registration,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.Handle("GET /metrics", promhttp.Handler())
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)

	s.mux.HandleFunc("POST /api/v1/eligibility-checks", s.handleEligibilityCheck)
	s.mux.HandleFunc("POST /api/v1/voters", s.handleRegister)
	s.mux.HandleFunc("POST /api/v1/voters/verify", s.handleVerify)
	s.mux.HandleFunc("POST /api/v1/sessions", s.handleLogin)

	s.mux.HandleFunc("GET /api/v1/elections", s.handleListVoterElections)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("GET /api/v1/elections/{election_id}/ballot-structure", s.handleBallotStructure)

	s.mux.HandleFunc("POST /api/v1/elections/{election_id}/ballots", s.handleCastBallot)
	s.mux.HandleFunc("GET /api/v1/receipts/{receipt_id}", s.handleGetReceipt)
	s.mux.HandleFunc("GET /api/v1/me/ballots", s.handleVotingHistory)

	s.mux.HandleFunc("GET /api/admin/v1/elections", s.handleAdminListElections)
	s.mux.HandleFunc("POST /api/admin/v1/elections", s.handleAdminCreateElection)
	s.mux.HandleFunc("PUT /api/admin/v1/elections/{election_id}", s.handleAdminUpdateElection)
	s.mux.HandleFunc("DELETE /api/admin/v1/elections/{election_id}", s.handleAdminDeleteElection)
	s.mux.HandleFunc("POST /api/admin/v1/elections/{election_id}/positions", s.handleAdminAddPosition)
	s.mux.HandleFunc("DELETE /api/admin/v1/positions/{position_id}", s.handleAdminDeletePosition)
	s.mux.HandleFunc("POST /api/admin/v1/positions/{position_id}/candidates", s.handleAdminAddCandidate)
	s.mux.HandleFunc("DELETE /api/admin/v1/candidates/{candidate_id}", s.handleAdminDeleteCandidate)
	s.mux.HandleFunc("POST /api/admin/v1/elections/{election_id}/options", s.handleAdminAddOption)
	s.mux.HandleFunc("DELETE /api/admin/v1/options/{option_id}", s.handleAdminDeleteOption)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireVoter authenticates the request via the Authorization bearer
// token. An empty voter id means the denial was already written.
func (s *Server) requireVoter(w http.ResponseWriter, r *http.Request) string {
	header := r.Header.Get("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		writeError(w, http.StatusUnauthorized, "missing_token", "Authorization bearer token is required")
		return ""
	}
	voterID, err := s.sessions.VoterID(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid_token", "session token is invalid or expired")
		return ""
	}
	return voterID
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	provided := r.Header.Get("X-Admin-Token")
	if s.adminToken == "" ||
		subtle.ConstantTimeCompare([]byte(provided), []byte(s.adminToken)) != 1 {
		writeError(w, http.StatusForbidden, "admin_token_required", "valid X-Admin-Token header is required")
		return false
	}
	return true
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorBody{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
