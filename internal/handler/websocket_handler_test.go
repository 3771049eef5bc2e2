package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// mockTokenValidator is a test double for JWT validation
type mockTokenValidator struct {
	userID uuid.UUID
	err    error
}

func (m *mockTokenValidator) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	return m.userID, m.err
}

// mockMembershipChecker is a test double for the workspace membership check
type mockMembershipChecker struct {
	member bool
	err    error
}

func (m *mockMembershipChecker) IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error) {
	return m.member, m.err
}

var testAllowedOrigins = []string{"http://localhost:3000", "https://huddle.app"}

func newWSHandler(validator TokenValidator, membership MembershipChecker) *WebSocketHandler {
	return NewWebSocketHandler(websocket.NewHub(), validator, membership, testAllowedOrigins)
}

func TestWebSocketHandler_HandleWS_MissingToken(t *testing.T) {
	e := echo.New()
	h := newWSHandler(&mockTokenValidator{userID: uuid.New()}, &mockMembershipChecker{member: true})

	// Request without token
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// Should return 401 for missing token
	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_InvalidToken(t *testing.T) {
	e := echo.New()
	h := newWSHandler(&mockTokenValidator{err: websocket.ErrInvalidToken}, &mockMembershipChecker{member: true})

	// Request with invalid token
	req := httptest.NewRequest(http.MethodGet, "/ws?token=invalid-jwt&workspaceId="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// Should return 401 for invalid token
	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_MissingWorkspaceID(t *testing.T) {
	e := echo.New()
	h := newWSHandler(&mockTokenValidator{userID: uuid.New()}, &mockMembershipChecker{member: true})

	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid-jwt", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_NotAMember(t *testing.T) {
	e := echo.New()
	h := newWSHandler(&mockTokenValidator{userID: uuid.New()}, &mockMembershipChecker{member: false})

	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid-jwt&workspaceId="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// Non-members can't subscribe to a workspace stream
	assert.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestWebSocketHandler_HandleWS_ValidRequest_NoUpgrade(t *testing.T) {
	e := echo.New()
	h := newWSHandler(&mockTokenValidator{userID: uuid.New()}, &mockMembershipChecker{member: true})

	// Request passes auth and membership but is not a WebSocket upgrade request
	req := httptest.NewRequest(http.MethodGet, "/ws?token=valid-jwt&workspaceId="+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.HandleWS(c)

	// gorilla/websocket returns an error when upgrade fails (no upgrade headers)
	// This is expected behavior - we're testing auth passes first
	assert.Error(t, err)
	assert.NotContains(t, err.Error(), "unauthorized")
}

func TestWebSocketHandler_CheckOrigin(t *testing.T) {
	h := newWSHandler(&mockTokenValidator{userID: uuid.New()}, &mockMembershipChecker{member: true})

	tests := []struct {
		name     string
		origin   string
		expected bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"allowed origin https", "https://huddle.app", true},
		{"disallowed origin", "https://evil.com", false},
		{"empty origin (same-origin)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.expected, h.checkOrigin(req))
		})
	}
}
