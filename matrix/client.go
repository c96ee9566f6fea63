// Package matrix is a minimal Matrix client-server / Synapse-admin API
// client covering the operations the chat room service needs: login, room
// creation, invite, kick, power levels, room existence checks, and room
// deletion. It is not a general-purpose Matrix SDK.
package matrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HomeserverURL is the base URL of the Matrix homeserver.
	HomeserverURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client is an unauthenticated Matrix client. It holds the homeserver URL
// and HTTP transport; authenticated calls take the access token explicitly.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a new Matrix client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("matrix: HomeserverURL is required")
	}
	// Request URLs are built by string concatenation on the validated base;
	// url.URL.String() re-encodes already-escaped path segments.
	if _, err := url.Parse(config.HomeserverURL); err != nil {
		return nil, fmt.Errorf("matrix: invalid HomeserverURL %q: %w", config.HomeserverURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.HomeserverURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Login authenticates with username and password and returns the auth
// response (user ID + access token).
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	if username == "" {
		return nil, fmt.Errorf("matrix: username is required for login")
	}

	loginRequest := LoginRequest{
		Type:                     "m.login.password",
		User:                     username,
		Password:                 password,
		InitialDeviceDisplayName: "openmeet-api",
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/login", "", loginRequest)
	if err != nil {
		return nil, fmt.Errorf("matrix: login failed: %w", err)
	}

	var authResponse AuthResponse
	if err := json.Unmarshal(body, &authResponse); err != nil {
		return nil, fmt.Errorf("matrix: failed to parse login response: %w", err)
	}

	c.logger.Info("logged in to matrix",
		"user_id", authResponse.UserID,
		"device_id", authResponse.DeviceID,
	)
	return &authResponse, nil
}

// CreateRoom creates a room and returns its room ID.
func (c *Client) CreateRoom(ctx context.Context, accessToken string, request CreateRoomRequest) (string, error) {
	body, err := c.doRequest(ctx, http.MethodPost, "/_matrix/client/v3/createRoom", accessToken, request)
	if err != nil {
		return "", fmt.Errorf("matrix: create room failed: %w", err)
	}

	var response CreateRoomResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("matrix: failed to parse createRoom response: %w", err)
	}

	c.logger.Info("created matrix room",
		"room_id", response.RoomID,
		"name", request.Name,
	)
	return response.RoomID, nil
}

// InviteUser invites a user to a room.
func (c *Client) InviteUser(ctx context.Context, accessToken, roomID, userID string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/invite", url.PathEscape(roomID))
	_, err := c.doRequest(ctx, http.MethodPost, path, accessToken, InviteRequest{UserID: userID})
	if err != nil {
		return fmt.Errorf("matrix: invite %q to %q failed: %w", userID, roomID, err)
	}
	return nil
}

// KickUser removes a user from a room.
func (c *Client) KickUser(ctx context.Context, accessToken, roomID, userID, reason string) error {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/kick", url.PathEscape(roomID))
	_, err := c.doRequest(ctx, http.MethodPost, path, accessToken, KickRequest{UserID: userID, Reason: reason})
	if err != nil {
		return fmt.Errorf("matrix: kick %q from %q failed: %w", userID, roomID, err)
	}
	return nil
}

// GetStateEvent fetches a state event's content from a room.
func (c *Client) GetStateEvent(ctx context.Context, accessToken, roomID, eventType, stateKey string) (json.RawMessage, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID), url.PathEscape(eventType), url.PathEscape(stateKey))
	body, err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil)
	if err != nil {
		return nil, fmt.Errorf("matrix: get state %s in %q failed: %w", eventType, roomID, err)
	}
	return json.RawMessage(body), nil
}

// SendStateEvent sends a state event to a room and returns the event ID.
func (c *Client) SendStateEvent(ctx context.Context, accessToken, roomID, eventType, stateKey string, content any) (string, error) {
	path := fmt.Sprintf("/_matrix/client/v3/rooms/%s/state/%s/%s",
		url.PathEscape(roomID), url.PathEscape(eventType), url.PathEscape(stateKey))
	body, err := c.doRequest(ctx, http.MethodPut, path, accessToken, content)
	if err != nil {
		return "", fmt.Errorf("matrix: send state %s to %q failed: %w", eventType, roomID, err)
	}

	var response struct {
		EventID string `json:"event_id"`
	}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("matrix: failed to parse state event response: %w", err)
	}
	return response.EventID, nil
}

// DeleteRoom removes a room via the Synapse admin API (block and purge).
// Returns false without error when the homeserver no longer knows the room.
func (c *Client) DeleteRoom(ctx context.Context, accessToken, roomID string) (bool, error) {
	path := "/_synapse/admin/v1/rooms/" + url.PathEscape(roomID)
	_, err := c.doRequest(ctx, http.MethodDelete, path, accessToken, map[string]any{
		"block": false,
		"purge": true,
	})
	if err != nil {
		if IsRoomGone(err) {
			return false, nil
		}
		return false, fmt.Errorf("matrix: delete room %q failed: %w", roomID, err)
	}
	return true, nil
}

// doRequest performs an HTTP request against the homeserver. On 2xx the body
// is returned. On 4xx/5xx the body is parsed into a *Error. accessToken may
// be empty for unauthenticated endpoints.
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, requestBody any) ([]byte, error) {
	requestURL := c.baseURL + path

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("matrix: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("matrix: failed to create request: %w", err)
	}

	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		request.Header.Set("Authorization", "Bearer "+accessToken)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("matrix: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("matrix: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	// All Matrix error responses share one JSON shape.
	var matrixErr Error
	if jsonErr := json.Unmarshal(responseBody, &matrixErr); jsonErr != nil {
		return nil, fmt.Errorf("matrix: unexpected %d response from %s %s: %s",
			response.StatusCode, method, path, string(responseBody))
	}
	matrixErr.StatusCode = response.StatusCode

	return nil, &matrixErr
}
