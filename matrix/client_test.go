package matrix

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientConfig{
		HomeserverURL: server.URL,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRequiresHomeserver(t *testing.T) {
	if _, err := NewClient(ClientConfig{}); err == nil {
		t.Fatal("expected error for empty homeserver URL")
	}
}

func TestLogin(t *testing.T) {
	var gotRequest LoginRequest
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/_matrix/client/v3/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("decode login body: %v", err)
		}
		json.NewEncoder(w).Encode(AuthResponse{
			UserID:      "@admin:matrix.test",
			AccessToken: "syt_token",
			DeviceID:    "DEVICE",
		})
	}))

	auth, err := client.Login(context.Background(), "admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if auth.UserID != "@admin:matrix.test" || auth.AccessToken != "syt_token" {
		t.Errorf("unexpected auth response: %+v", auth)
	}
	if gotRequest.Type != "m.login.password" {
		t.Errorf("login type = %q, want m.login.password", gotRequest.Type)
	}
	if gotRequest.User != "admin" || gotRequest.Password != "secret" {
		t.Errorf("unexpected credentials in request: %+v", gotRequest)
	}
}

func TestLoginRequiresUsername(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	if _, err := client.Login(context.Background(), "", "secret"); err == nil {
		t.Fatal("expected error for empty username")
	}
}

func TestErrorResponseParsing(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"errcode": "M_FORBIDDEN",
			"error":   "Invalid password",
		})
	}))

	_, err := client.Login(context.Background(), "admin", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	var matrixErr *Error
	if !errors.As(err, &matrixErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if matrixErr.Code != ErrCodeForbidden {
		t.Errorf("code = %q, want M_FORBIDDEN", matrixErr.Code)
	}
	if matrixErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", matrixErr.StatusCode)
	}
}

func TestCreateRoom(t *testing.T) {
	var gotRequest CreateRoomRequest
	var gotAuth string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/_matrix/client/v3/createRoom" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(CreateRoomResponse{RoomID: "!abc:matrix.test"})
	}))

	roomID, err := client.CreateRoom(context.Background(), "tok", CreateRoomRequest{
		Name:   "event-demo-default",
		Preset: "public_chat",
	})
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	if roomID != "!abc:matrix.test" {
		t.Errorf("roomID = %q", roomID)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("authorization = %q, want Bearer tok", gotAuth)
	}
	if gotRequest.Name != "event-demo-default" || gotRequest.Preset != "public_chat" {
		t.Errorf("unexpected request: %+v", gotRequest)
	}
}

func TestInviteAndKickPaths(t *testing.T) {
	var paths []string
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		w.Write([]byte("{}"))
	}))

	ctx := context.Background()
	if err := client.InviteUser(ctx, "tok", "!abc:matrix.test", "@u:matrix.test"); err != nil {
		t.Fatalf("InviteUser: %v", err)
	}
	if err := client.KickUser(ctx, "tok", "!abc:matrix.test", "@u:matrix.test", "bye"); err != nil {
		t.Fatalf("KickUser: %v", err)
	}

	want := []string{
		"/_matrix/client/v3/rooms/%21abc:matrix.test/invite",
		"/_matrix/client/v3/rooms/%21abc:matrix.test/kick",
	}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("path[%d] = %q, want %q", i, paths[i], p)
		}
	}
}

func TestDeleteRoom(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody map[string]any
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.EscapedPath()
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Write([]byte("{}"))
		}))

		deleted, err := client.DeleteRoom(context.Background(), "tok", "!abc:matrix.test")
		if err != nil {
			t.Fatalf("DeleteRoom: %v", err)
		}
		if !deleted {
			t.Error("expected deleted = true")
		}
		if gotMethod != http.MethodDelete || gotPath != "/_synapse/admin/v1/rooms/%21abc:matrix.test" {
			t.Errorf("unexpected request %s %s", gotMethod, gotPath)
		}
		if gotBody["purge"] != true || gotBody["block"] != false {
			t.Errorf("unexpected body: %v", gotBody)
		}
	})

	t.Run("room already gone", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{
				"errcode": "M_NOT_FOUND",
				"error":   "Room not found",
			})
		}))

		deleted, err := client.DeleteRoom(context.Background(), "tok", "!gone:matrix.test")
		if err != nil {
			t.Fatalf("DeleteRoom: %v", err)
		}
		if deleted {
			t.Error("expected deleted = false for an unknown room")
		}
	})

	t.Run("server error", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{
				"errcode": "M_UNKNOWN",
				"error":   "boom",
			})
		}))

		if _, err := client.DeleteRoom(context.Background(), "tok", "!abc:matrix.test"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestSendStateEvent(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		json.NewEncoder(w).Encode(map[string]string{"event_id": "$ev1"})
	}))

	eventID, err := client.SendStateEvent(context.Background(), "tok", "!abc:matrix.test",
		"m.room.power_levels", "", map[string]any{"users": map[string]any{}})
	if err != nil {
		t.Fatalf("SendStateEvent: %v", err)
	}
	if eventID != "$ev1" {
		t.Errorf("eventID = %q", eventID)
	}
}
