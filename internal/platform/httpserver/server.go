package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	engine "concord/contexts/governance/engine"
	domainerrors "concord/contexts/governance/engine/domain/errors"
	governancehttp "concord/contexts/governance/engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "concord/internal/platform/httpserver/docs"
)

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	governance engine.Module
}

func New(governance engine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:        http.NewServeMux(),
		logger:     logger,
		addr:       addr,
		governance: governance,
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

// Mux exposes the routing table for in-process tests.
func (s *Server) Mux() *http.ServeMux {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/governance/v1/members/join", s.handleJoin)
	s.mux.HandleFunc("POST /api/governance/v1/members/exit", s.handleExit)
	s.mux.HandleFunc("GET /api/governance/v1/members/{actor_id}/profile", s.handleAccountProfile)

	s.mux.HandleFunc("POST /api/governance/v1/treasury/contribute", s.handleContribute)
	s.mux.HandleFunc("POST /api/governance/v1/treasury/stake", s.handleStake)
	s.mux.HandleFunc("POST /api/governance/v1/treasury/withdraw", s.handleWithdrawStake)
	s.mux.HandleFunc("GET /api/governance/v1/treasury/status", s.handleTreasuryStatus)

	s.mux.HandleFunc("POST /api/governance/v1/proposals", s.handleCreateProposal)
	s.mux.HandleFunc("GET /api/governance/v1/proposals/{proposal_id}", s.handleGetProposal)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/governance/v1/proposals/{proposal_id}/execute", s.handleExecuteProposal)

	s.mux.HandleFunc("POST /api/governance/v1/collaborations", s.handleInitiateCollaboration)
	s.mux.HandleFunc("POST /api/governance/v1/collaborations/{collaboration_id}/accept", s.handleAcceptCollaboration)

	s.mux.HandleFunc("GET /api/governance/v1/statistics", s.handleSystemStatistics)

	s.mux.HandleFunc("POST /api/governance/v1/admin/reputation", s.handleAdjustReputation)
	s.mux.HandleFunc("POST /api/governance/v1/admin/decay", s.handleDecaySweep)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.JoinHandler(r.Context(), actorID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExit(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ExitHandler(r.Context(), actorID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAccountProfile(w http.ResponseWriter, r *http.Request) {
	actorID := r.PathValue("actor_id")
	resp, err := s.governance.Handler.AccountProfileHandler(r.Context(), actorID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleContribute(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.ContributeHandler(r.Context(), actorID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.StakeHandler(r.Context(), actorID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWithdrawStake(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.WithdrawStakeHandler(r.Context(), actorID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreasuryStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.TreasuryStatusHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.CreateProposalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CreateProposalHandler(r.Context(), actorID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.GetProposalHandler(r.Context(), proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	var req governancehttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.CastVoteHandler(r.Context(), actorID, proposalID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	proposalID, ok := parseProposalID(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.ExecuteProposalHandler(r.Context(), actorID, proposalID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleInitiateCollaboration(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.InitiateCollaborationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.InitiateCollaborationHandler(r.Context(), actorID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAcceptCollaboration(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	raw := r.PathValue("collaboration_id")
	collaborationID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_collaboration_id", "collaboration_id must be a positive integer")
		return
	}
	resp, err := s.governance.Handler.AcceptCollaborationHandler(r.Context(), actorID, collaborationID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSystemStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.governance.Handler.SystemStatisticsHandler(r.Context())
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdjustReputation(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req governancehttp.AdjustReputationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.governance.Handler.AdjustReputationHandler(r.Context(), callerID, req)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDecaySweep(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireActor(w, r)
	if !ok {
		return
	}
	resp, err := s.governance.Handler.DecaySweepHandler(r.Context(), actorID)
	if err != nil {
		writeGovernanceDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireActor(w http.ResponseWriter, r *http.Request) (string, bool) {
	actorID := strings.TrimSpace(r.Header.Get("X-Actor-Id"))
	if actorID == "" {
		writeGovernanceError(w, http.StatusUnauthorized, "missing_actor", "X-Actor-Id header is required")
		return "", false
	}
	return actorID, true
}

func parseProposalID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := r.PathValue("proposal_id")
	proposalID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeGovernanceError(w, http.StatusBadRequest, "invalid_proposal_id", "proposal_id must be a positive integer")
		return 0, false
	}
	return proposalID, true
}

func writeGovernanceDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidActor):
		writeGovernanceError(w, http.StatusUnauthorized, "invalid_actor", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyMember):
		writeGovernanceError(w, http.StatusConflict, "already_member", err.Error())
	case errors.Is(err, domainerrors.ErrNotMember):
		writeGovernanceError(w, http.StatusNotFound, "not_member", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidAmount):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		writeGovernanceError(w, http.StatusPaymentRequired, "insufficient_funds", err.Error())
	case errors.Is(err, domainerrors.ErrTransferFailed):
		writeGovernanceError(w, http.StatusBadGateway, "transfer_failed", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidProposal):
		writeGovernanceError(w, http.StatusNotFound, "invalid_proposal", err.Error())
	case errors.Is(err, domainerrors.ErrProposalExpired):
		writeGovernanceError(w, http.StatusGone, "proposal_expired", err.Error())
	case errors.Is(err, domainerrors.ErrVotingPeriodActive):
		writeGovernanceError(w, http.StatusConflict, "voting_period_active", err.Error())
	case errors.Is(err, domainerrors.ErrAlreadyVoted):
		writeGovernanceError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, domainerrors.ErrCollaborationNotFound):
		writeGovernanceError(w, http.StatusNotFound, "collaboration_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidCollaboration):
		writeGovernanceError(w, http.StatusBadRequest, "invalid_collaboration", err.Error())
	case errors.Is(err, domainerrors.ErrPartnerMismatch):
		writeGovernanceError(w, http.StatusForbidden, "partner_mismatch", err.Error())
	case errors.Is(err, domainerrors.ErrNotOwner):
		writeGovernanceError(w, http.StatusForbidden, "not_owner", err.Error())
	default:
		writeGovernanceError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeGovernanceError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, governancehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
