package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	airdropservice "airvault/contexts/distribution-core/airdrop-service"
	airdroperrors "airvault/contexts/distribution-core/airdrop-service/domain/errors"
	airdrophttp "airvault/contexts/distribution-core/airdrop-service/transport/http"
	custodyservice "airvault/contexts/treasury-core/custody-service"
	custodyerrors "airvault/contexts/treasury-core/custody-service/domain/errors"
	custodyhttp "airvault/contexts/treasury-core/custody-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "airvault/internal/platform/httpserver/docs"
)

// callerHeader carries the authenticated account identity. Upstream
// authentication terminates before this server; the header is trusted here.
const callerHeader = "X-Account-ID"

type Server struct {
	mux     *http.ServeMux
	logger  *slog.Logger
	addr    string
	airdrop airdropservice.Module
	custody custodyservice.Module
}

func New(
	airdrop airdropservice.Module,
	custody custodyservice.Module,
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
		mux:     http.NewServeMux(),
		logger:  logger,
		addr:    addr,
		airdrop: airdrop,
		custody: custody,
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

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/airdrop/participants", s.handleRegister)
	s.mux.HandleFunc("POST /v1/airdrop/treasury/fund", s.handleFund)
	s.mux.HandleFunc("POST /v1/airdrop/claims", s.handleClaim)
	s.mux.HandleFunc("GET /v1/airdrop/participants/{participant_id}", s.handleParticipantStatus)
	s.mux.HandleFunc("GET /v1/airdrop/treasury", s.handleTreasury)

	s.mux.HandleFunc("GET /v1/custody/accounts/{account_id}/balance", s.handleAccountBalance)
	s.mux.HandleFunc("POST /v1/custody/accounts/{account_id}/credit", s.handleAccountCredit)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	var req airdrophttp.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, airdroperrors.ErrInvalidAirdropInput)
		return
	}
	resp, err := s.airdrop.Handler.RegisterHandler(r.Context(), caller, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleFund(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	var req airdrophttp.FundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, airdroperrors.ErrInvalidAirdropInput)
		return
	}
	resp, err := s.airdrop.Handler.FundHandler(r.Context(), caller, req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	caller := strings.TrimSpace(r.Header.Get(callerHeader))
	resp, err := s.airdrop.Handler.ClaimHandler(r.Context(), caller)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleParticipantStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.airdrop.Handler.ParticipantStatusHandler(r.Context(), r.PathValue("participant_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	resp, err := s.airdrop.Handler.TreasuryHandler(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.custody.Handler.BalanceHandler(r.Context(), r.PathValue("account_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountCredit(w http.ResponseWriter, r *http.Request) {
	var req custodyhttp.CreditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, custodyerrors.ErrInvalidCustodyInput)
		return
	}
	resp, err := s.custody.Handler.CreditHandler(r.Context(), r.PathValue("account_id"), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("http response encode failed",
			"event", "http_response_encode_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("http request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err.Error(),
		)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, airdroperrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, airdroperrors.ErrAlreadyRegistered),
		errors.Is(err, airdroperrors.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, airdroperrors.ErrNotRegistered),
		errors.Is(err, custodyerrors.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, airdroperrors.ErrInsufficientFunds),
		errors.Is(err, custodyerrors.ErrInsufficientAccountFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, airdroperrors.ErrTransferFailed):
		return http.StatusBadGateway
	case errors.Is(err, airdroperrors.ErrInvalidAirdropInput),
		errors.Is(err, custodyerrors.ErrInvalidCustodyInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
