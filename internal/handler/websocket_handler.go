package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	ws "github.com/gorilla/websocket"
	"github.com/huddlehq/huddle-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// TokenValidator validates JWT tokens and returns the local user ID
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (userID uuid.UUID, err error)
}

// MembershipChecker verifies that a user belongs to a workspace
type MembershipChecker interface {
	IsMember(ctx context.Context, workspaceID, userID uuid.UUID) (bool, error)
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	validator      TokenValidator
	membership     MembershipChecker
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, validator TokenValidator, membership MembershipChecker, allowedOrigins []string) *WebSocketHandler {
	// Build origin lookup map
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		validator:      validator,
		membership:     membership,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws
//
// Clients authenticate with a token query parameter and subscribe to a
// single workspace's event stream via the workspaceId query parameter.
// Only members of the workspace may subscribe.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	ctx := c.Request().Context()

	token := c.QueryParam("token")
	if token == "" {
		log.Debug().Msg("WebSocket connection rejected: missing token")
		return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}

	userID, err := h.validator.ValidateToken(ctx, token)
	if err != nil {
		log.Debug().Err(err).Msg("WebSocket connection rejected: invalid token")
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	workspaceID, err := uuid.Parse(c.QueryParam("workspaceId"))
	if err != nil {
		log.Debug().Msg("WebSocket connection rejected: invalid workspace ID")
		return echo.NewHTTPError(http.StatusBadRequest, "invalid workspaceId")
	}

	isMember, err := h.membership.IsMember(ctx, workspaceID, userID)
	if err != nil {
		log.Error().Err(err).Stringer("workspace_id", workspaceID).Msg("WebSocket membership check failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "membership check failed")
	}
	if !isMember {
		log.Debug().
			Stringer("workspace_id", workspaceID).
			Stringer("user_id", userID).
			Msg("WebSocket connection rejected: not a member")
		return echo.NewHTTPError(http.StatusForbidden, "not a workspace member")
	}

	// Upgrade HTTP connection to WebSocket
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	// Create client and register with hub
	client := websocket.NewClient(conn, workspaceID, h.hub)
	h.hub.Register(client)

	log.Info().
		Stringer("workspace_id", workspaceID).
		Stringer("user_id", userID).
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	// Start read/write pumps in goroutines
	go client.WritePump()
	go client.ReadPump()

	return nil
}
