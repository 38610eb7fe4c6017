package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ewilliams-labs/stride/internal/core/ports"
)

func TestClient_ParseGoal(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		wantDistance string
		wantMinutes  float64
		wantErr      error
		wantAnyErr   bool
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"distance\":\"marathon\",\"goal_minutes\":240}"}}`,
			wantDistance: "marathon",
			wantMinutes:  240,
		},
		{
			name:         "Reasoning preamble",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"<think>sub-4 means 240</think> {\"distance\":\" half \",\"goal_minutes\":105.5}"}}`,
			wantDistance: "half",
			wantMinutes:  105.5,
		},
		{
			name:         "Missing goal time",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"{\"distance\":\"10k\"}"}}`,
			wantErr:      ports.ErrUnparseableGoal,
		},
		{
			name:         "Prose only",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"I am not sure."}}`,
			wantErr:      ports.ErrUnparseableGoal,
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"bad"}`,
			wantAnyErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			intent, err := client.ParseGoal(context.Background(), "sub-4 marathon")

			if tt.wantErr != nil || tt.wantAnyErr {
				if err == nil {
					t.Fatalf("expected error, got intent %+v", intent)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotRequest.Model != defaultModel {
				t.Fatalf("expected model %s, got %q", defaultModel, gotRequest.Model)
			}
			if gotRequest.Format != "json" {
				t.Fatalf("expected format json, got %q", gotRequest.Format)
			}
			if len(gotRequest.Messages) != 2 {
				t.Fatalf("expected 2 messages, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "system" || gotRequest.Messages[0].Content != systemPrompt {
				t.Fatalf("system prompt mismatch")
			}
			if gotRequest.Messages[1].Role != "user" || gotRequest.Messages[1].Content != "sub-4 marathon" {
				t.Fatalf("user message mismatch")
			}
			if intent.Distance != tt.wantDistance || intent.GoalMinutes != tt.wantMinutes {
				t.Fatalf("intent: got %+v", intent)
			}
		})
	}
}
