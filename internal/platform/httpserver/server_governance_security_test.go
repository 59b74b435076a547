package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	engine "concord/contexts/governance/engine"
)

func newTestServer() *Server {
	governance := engine.NewInMemoryModule("owner-1", nil)
	return New(governance, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, actorID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		req.Header.Set("X-Actor-Id", actorID)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestGovernanceJoinRequiresActorHeader(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "", "")

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["code"] != "missing_actor" {
		t.Fatalf("expected missing_actor code, got %#v", payload["code"])
	}
}

func TestGovernanceJoinThenDuplicateConflicts(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["reputation"] != float64(1) {
		t.Fatalf("expected join at reputation floor, got %#v", payload["reputation"])
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 on rejoin, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceProfileUnknownMemberReturns404(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/governance/v1/members/ghost/profile", "alice", "")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceStakeRejectsNonPositiveAmount(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/stake", "alice", `{"amount":0}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceWithdrawBeyondStakeReturns402(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")
	doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/stake", "alice", `{"amount":100}`)

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/withdraw", "alice", `{"amount":500}`)
	if rr.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceCreateProposalReturns201(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")
	doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/contribute", "backer", `{"amount":1000}`)

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals", "alice",
		`{"title":"chapter fund","description":"seed the local chapter","amount":400}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["proposal_id"] != float64(1) {
		t.Fatalf("expected first proposal id 1, got %#v", payload["proposal_id"])
	}
	if payload["status"] != "active" {
		t.Fatalf("expected active status, got %#v", payload["status"])
	}
}

func TestGovernanceVoteRejectsMalformedProposalID(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals/not-a-number/votes", "alice", `{"choice":true}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceExecuteBeforeExpiryConflicts(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")
	doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/contribute", "backer", `{"amount":1000}`)
	doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals", "alice",
		`{"title":"chapter fund","description":"seed the local chapter","amount":400}`)

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/proposals/1/execute", "alice", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 while voting is open, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceAdminEndpointsAreOwnerGated(t *testing.T) {
	server := newTestServer()
	doJSON(t, server, http.MethodPost, "/api/governance/v1/members/join", "alice", "")

	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/admin/reputation", "alice",
		`{"actor_id":"alice","delta":50}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner adjust, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/admin/decay", "alice", "")
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner sweep, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/governance/v1/admin/reputation", "owner-1",
		`{"actor_id":"alice","delta":50}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner adjust, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGovernanceContributeRejectsMalformedJSON(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/governance/v1/treasury/contribute", "alice", `{"amount":`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["code"] != "invalid_json" {
		t.Fatalf("expected invalid_json code, got %#v", payload["code"])
	}
}

func TestGovernanceStatisticsIsPublic(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodGet, "/api/governance/v1/statistics", "", "")

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var payload map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json response: %v", err)
	}
	if payload["health"] != "dormant" {
		t.Fatalf("expected dormant health for empty system, got %#v", payload["health"])
	}
}
