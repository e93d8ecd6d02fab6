// Package main tests for the WebSocket hub.
package main

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mzhen/unisphere/backend/internal/backup"
)

func TestCheckOrigin_LocalhostAnyPort(t *testing.T) {
	tests := []struct {
		host string
		want bool
	}{
		{"localhost", true},
		{"localhost:8090", true},
		{"localhost:12345", true},
		{"127.0.0.1:9999", true},
		{"evil.example.com", false},
		{"evil.example.com:8090", false},
		{"localhost.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/ws", nil)
			req.Host = tt.host
			if got := upgrader.CheckOrigin(req); got != tt.want {
				t.Errorf("CheckOrigin(host=%s) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

// registerTestClient attaches a bare client to the hub and waits until the
// hub has adopted it, so a following broadcast cannot race the registration.
func registerTestClient(t *testing.T, hub *WSHub) *WSClient {
	t.Helper()
	client := &WSClient{id: "test-client", send: make(chan []byte, 4), hub: hub}
	hub.register <- client

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hub.mu.RLock()
		_, ok := hub.clients[client.id]
		hub.mu.RUnlock()
		if ok {
			return client
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("client was not registered")
	return nil
}

func TestHub_BroadcastBackupCompleted(t *testing.T) {
	hub := NewWSHub()
	client := registerTestClient(t, hub)

	hub.BroadcastBackupCompleted(&backup.ExportResult{
		FilePath:  "exports/unisphere_backup_2026-08-29.json",
		SizeBytes: 42,
		Checksum:  "abc123",
	})

	select {
	case msg := <-client.send:
		var envelope WSEnvelope
		if err := json.Unmarshal(msg, &envelope); err != nil {
			t.Fatalf("Failed to decode envelope: %v", err)
		}
		if envelope.Type != EventBackupCompleted {
			t.Errorf("Type = %s, want %s", envelope.Type, EventBackupCompleted)
		}
		if envelope.Data["checksum"] != "abc123" {
			t.Errorf("Data = %v", envelope.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No message delivered to the client")
	}
}

func TestHub_BroadcastBackupFailed(t *testing.T) {
	hub := NewWSHub()
	client := registerTestClient(t, hub)

	hub.BroadcastBackupFailed(errors.New("disk full"))

	select {
	case msg := <-client.send:
		var envelope WSEnvelope
		if err := json.Unmarshal(msg, &envelope); err != nil {
			t.Fatalf("Failed to decode envelope: %v", err)
		}
		if envelope.Type != EventBackupFailed {
			t.Errorf("Type = %s, want %s", envelope.Type, EventBackupFailed)
		}
		if envelope.Data["error"] != "disk full" {
			t.Errorf("Data = %v", envelope.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("No message delivered to the client")
	}
}
