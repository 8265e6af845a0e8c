package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/config"
)

func newTestClient(serverURL string) *GatewayClient {
	return NewGatewayClient(config.GatewayConfig{
		BaseURL:  serverURL,
		Username: "console",
		Password: "secret",
	})
}

func TestGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/subscribers/254712345678/profile" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "console" || pass != "secret" {
			t.Error("expected basic auth credentials on the request")
		}
		json.NewEncoder(w).Encode(SubscriberProfile{
			MSISDN:       "254712345678",
			Status:       "ACTIVE",
			VoLTEEnabled: true,
			MainBalance:  "152.40",
			Offers:       []Offer{{ID: "DATA_1GB", Name: "1GB Daily", ExpiryDate: "2026-02-01"}},
		})
	}))
	defer server.Close()

	profile, err := newTestClient(server.URL).GetProfile(context.Background(), "254712345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if profile.Status != "ACTIVE" || !profile.VoLTEEnabled {
		t.Errorf("unexpected profile: %+v", profile)
	}
	if len(profile.Offers) != 1 || profile.Offers[0].ID != "DATA_1GB" {
		t.Errorf("unexpected offers: %+v", profile.Offers)
	}
}

func TestGetProfile_GatewayErrorMessageSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{
			"code":    "SUBSCRIBER_NOT_FOUND",
			"message": "subscriber is not provisioned",
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetProfile(context.Background(), "254712345678")
	if err == nil {
		t.Fatal("expected an error")
	}
	if got := err.Error(); !strings.Contains(got, "subscriber is not provisioned") {
		t.Errorf("expected the gateway message in the error, got %q", got)
	}
}

func TestSetVoLTE(t *testing.T) {
	var gotBody map[string]bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/subscribers/254712345678/volte" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	if err := newTestClient(server.URL).SetVoLTE(context.Background(), "254712345678", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gotBody["enabled"] {
		t.Errorf("expected enabled=true in the request body, got %v", gotBody)
	}
}

func TestSubmitBatchJob(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req BatchJobRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Operation != "VOLTE_ACTIVATE" || len(req.MSISDNs) != 2 {
			t.Errorf("unexpected batch request: %+v", req)
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(BatchJobResponse{JobID: "job-1", Accepted: 2})
	}))
	defer server.Close()

	resp, err := newTestClient(server.URL).SubmitBatchJob(context.Background(), BatchJobRequest{
		Operation: "VOLTE_ACTIVATE",
		MSISDNs:   []string{"254712345678", "254700000000"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.JobID != "job-1" || resp.Accepted != 2 {
		t.Errorf("unexpected response: %+v", resp)
	}
}
