package matrix

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// AdminSession is the automation identity used for all room administration:
// create, invite, kick, power levels, delete, existence checks. It logs in
// lazily and caches one authenticated token per tenant.
//
// Safe for concurrent use. Two goroutines racing EnsureAuthenticated for the
// same tenant may both log in; the second token simply replaces the first,
// which is harmless (Matrix allows multiple devices per account).
type AdminSession struct {
	client   *Client
	username string
	password string
	logger   *slog.Logger

	mu     sync.Mutex
	tokens map[string]*AuthResponse // tenant id -> auth state
}

// NewAdminSession creates the session wrapper. No network call is made until
// the first operation needs authentication.
func NewAdminSession(client *Client, username, password string, logger *slog.Logger) *AdminSession {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminSession{
		client:   client,
		username: username,
		password: password,
		logger:   logger,
		tokens:   make(map[string]*AuthResponse),
	}
}

// EnsureAuthenticated logs the automation account in for the tenant if no
// token is cached yet. Authentication failure is fatal to the calling
// workflow and is returned tagged, never swallowed.
func (s *AdminSession) EnsureAuthenticated(ctx context.Context, tenantID string) error {
	s.mu.Lock()
	_, ok := s.tokens[tenantID]
	s.mu.Unlock()
	if ok {
		return nil
	}

	auth, err := s.client.Login(ctx, s.username, s.password)
	if err != nil {
		return fmt.Errorf("matrix admin authentication failed for tenant %q: %w", tenantID, err)
	}

	s.mu.Lock()
	s.tokens[tenantID] = auth
	s.mu.Unlock()

	s.logger.Info("matrix admin session established",
		"tenant_id", tenantID,
		"user_id", auth.UserID,
	)
	return nil
}

// AdminUserID ensures the session is authenticated and returns the
// automation account's fully-qualified Matrix user ID for the tenant.
func (s *AdminSession) AdminUserID(ctx context.Context, tenantID string) (string, error) {
	if err := s.EnsureAuthenticated(ctx, tenantID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tenantID].UserID, nil
}

func (s *AdminSession) token(ctx context.Context, tenantID string) (string, error) {
	if err := s.EnsureAuthenticated(ctx, tenantID); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tenantID].AccessToken, nil
}

// CreateRoom creates a room on behalf of the tenant's automation identity.
func (s *AdminSession) CreateRoom(ctx context.Context, tenantID string, request CreateRoomRequest) (string, error) {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return "", err
	}
	return s.client.CreateRoom(ctx, token, request)
}

// InviteUser invites a Matrix user to a room.
func (s *AdminSession) InviteUser(ctx context.Context, tenantID, roomID, userID string) error {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return err
	}
	return s.client.InviteUser(ctx, token, roomID, userID)
}

// RemoveUser kicks a Matrix user from a room.
func (s *AdminSession) RemoveUser(ctx context.Context, tenantID, roomID, userID string) error {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return err
	}
	return s.client.KickUser(ctx, token, roomID, userID, "removed by membership sync")
}

// SetPowerLevel grants a user the given power level in a room. The current
// power_levels content is fetched and updated in place so fields the service
// does not manage are preserved.
func (s *AdminSession) SetPowerLevel(ctx context.Context, tenantID, roomID, userID string, level int) error {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return err
	}

	raw, err := s.client.GetStateEvent(ctx, token, roomID, "m.room.power_levels", "")
	if err != nil {
		return err
	}

	var content map[string]any
	if err := json.Unmarshal(raw, &content); err != nil {
		return fmt.Errorf("matrix: failed to parse power levels for %q: %w", roomID, err)
	}

	users, _ := content["users"].(map[string]any)
	if users == nil {
		users = make(map[string]any)
	}
	users[userID] = level
	content["users"] = users

	if _, err := s.client.SendStateEvent(ctx, token, roomID, "m.room.power_levels", "", content); err != nil {
		return err
	}

	s.logger.Info("updated room power level",
		"tenant_id", tenantID,
		"room_id", roomID,
		"user_id", userID,
		"level", level,
	)
	return nil
}

// DeleteRoom deletes a room via the admin API. Returns false when the
// homeserver no longer knows the room.
func (s *AdminSession) DeleteRoom(ctx context.Context, tenantID, roomID string) (bool, error) {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return s.client.DeleteRoom(ctx, token, roomID)
}

// RoomExists probes the room's m.room.create state event. A room-gone or
// forbidden response means the room is not usable and counts as absent.
func (s *AdminSession) RoomExists(ctx context.Context, tenantID, roomID string) (bool, error) {
	token, err := s.token(ctx, tenantID)
	if err != nil {
		return false, err
	}

	_, err = s.client.GetStateEvent(ctx, token, roomID, "m.room.create", "")
	if err == nil {
		return true, nil
	}
	if IsRoomGone(err) || IsError(err, ErrCodeForbidden) {
		return false, nil
	}
	return false, err
}
