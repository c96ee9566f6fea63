package matrix

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func testSession(t *testing.T, handler http.Handler) *AdminSession {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewClient(ClientConfig{HomeserverURL: server.URL, Logger: logger})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewAdminSession(client, "admin", "secret", logger)
}

func loginHandler(logins *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logins.Add(1)
		json.NewEncoder(w).Encode(AuthResponse{
			UserID:      "@admin:matrix.test",
			AccessToken: "tok",
			DeviceID:    "DEV",
		})
	}
}

func TestEnsureAuthenticatedLogsInOncePerTenant(t *testing.T) {
	var logins atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/_matrix/client/v3/login", loginHandler(&logins))
	session := testSession(t, mux)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if err := session.EnsureAuthenticated(ctx, "tenant-a"); err != nil {
			t.Fatalf("EnsureAuthenticated: %v", err)
		}
	}
	if got := logins.Load(); got != 1 {
		t.Errorf("logins = %d, want 1 for repeated calls on one tenant", got)
	}

	if err := session.EnsureAuthenticated(ctx, "tenant-b"); err != nil {
		t.Fatalf("EnsureAuthenticated: %v", err)
	}
	if got := logins.Load(); got != 2 {
		t.Errorf("logins = %d, want 2 after a second tenant", got)
	}
}

func TestEnsureAuthenticatedFailureIsTagged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/_matrix/client/v3/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"errcode": "M_FORBIDDEN", "error": "Invalid password"})
	})
	session := testSession(t, mux)

	err := session.EnsureAuthenticated(context.Background(), "tenant-a")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), `tenant "tenant-a"`) {
		t.Errorf("error does not name the tenant: %v", err)
	}
}

func TestAdminUserID(t *testing.T) {
	var logins atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/_matrix/client/v3/login", loginHandler(&logins))
	session := testSession(t, mux)

	userID, err := session.AdminUserID(context.Background(), "tenant-a")
	if err != nil {
		t.Fatalf("AdminUserID: %v", err)
	}
	if userID != "@admin:matrix.test" {
		t.Errorf("userID = %q", userID)
	}
}

func TestSetPowerLevelPreservesExistingContent(t *testing.T) {
	var logins atomic.Int32
	var putContent map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("/_matrix/client/v3/login", loginHandler(&logins))
	mux.HandleFunc("/_matrix/client/v3/rooms/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"ban":  50,
				"kick": 50,
				"users": map[string]any{
					"@admin:matrix.test": 100,
				},
			})
		case http.MethodPut:
			json.NewDecoder(r.Body).Decode(&putContent)
			json.NewEncoder(w).Encode(map[string]string{"event_id": "$ev"})
		}
	})
	session := testSession(t, mux)

	err := session.SetPowerLevel(context.Background(), "tenant-a", "!abc:matrix.test", "@u1:matrix.test", PowerLevelModerator)
	if err != nil {
		t.Fatalf("SetPowerLevel: %v", err)
	}

	users, ok := putContent["users"].(map[string]any)
	if !ok {
		t.Fatalf("no users map in PUT content: %v", putContent)
	}
	if users["@u1:matrix.test"] != float64(PowerLevelModerator) {
		t.Errorf("user level = %v, want 50", users["@u1:matrix.test"])
	}
	if users["@admin:matrix.test"] != float64(PowerLevelAdmin) {
		t.Errorf("admin level was not preserved: %v", users["@admin:matrix.test"])
	}
	if putContent["ban"] != float64(50) {
		t.Errorf("unmanaged field was not preserved: %v", putContent["ban"])
	}
}

func TestRoomExists(t *testing.T) {
	cases := []struct {
		name       string
		status     int
		errcode    string
		message    string
		wantExists bool
		wantErr    bool
	}{
		{"present", http.StatusOK, "", "", true, false},
		{"gone", http.StatusNotFound, "M_NOT_FOUND", "Room not found", false, false},
		{"forbidden", http.StatusForbidden, "M_FORBIDDEN", "not allowed", false, false},
		{"server error", http.StatusInternalServerError, "M_UNKNOWN", "boom", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var logins atomic.Int32
			mux := http.NewServeMux()
			mux.HandleFunc("/_matrix/client/v3/login", loginHandler(&logins))
			mux.HandleFunc("/_matrix/client/v3/rooms/", func(w http.ResponseWriter, r *http.Request) {
				if tc.status == http.StatusOK {
					json.NewEncoder(w).Encode(map[string]any{"creator": "@admin:matrix.test"})
					return
				}
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]string{"errcode": tc.errcode, "error": tc.message})
			})
			session := testSession(t, mux)

			exists, err := session.RoomExists(context.Background(), "tenant-a", "!abc:matrix.test")
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("RoomExists: %v", err)
			}
			if exists != tc.wantExists {
				t.Errorf("exists = %v, want %v", exists, tc.wantExists)
			}
		})
	}
}

func TestRemoveUserSendsKickReason(t *testing.T) {
	var logins atomic.Int32
	var kick KickRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/_matrix/client/v3/login", loginHandler(&logins))
	mux.HandleFunc("/_matrix/client/v3/rooms/", func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&kick)
		w.Write([]byte("{}"))
	})
	session := testSession(t, mux)

	if err := session.RemoveUser(context.Background(), "tenant-a", "!abc:matrix.test", "@u1:matrix.test"); err != nil {
		t.Fatalf("RemoveUser: %v", err)
	}
	if kick.UserID != "@u1:matrix.test" {
		t.Errorf("kick user = %q", kick.UserID)
	}
	if kick.Reason == "" {
		t.Error("expected a kick reason")
	}
}
