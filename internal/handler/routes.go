package handler

import (
	"github.com/huddlehq/huddle-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(
	e *echo.Echo,
	authMiddleware *middleware.AuthMiddleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *AuthHandler,
	workspaceHandler *WorkspaceHandler,
	memberHandler *MemberHandler,
	channelHandler *ChannelHandler,
	conversationHandler *ConversationHandler,
	messageHandler *MessageHandler,
	attachmentHandler *AttachmentHandler,
	wsHandler *WebSocketHandler,
) {
	// API version 1
	lenient := e.Group("/api/v1")
	lenient.Use(authMiddleware.AuthenticateOptional())
	lenient.Use(middleware.RateLimitMiddleware(rateLimiter))

	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Auth routes
	api.GET("/auth/me", authHandler.Me)

	// Profile routes
	api.PUT("/profile", authHandler.UpdateProfile)

	// Lenient reads: anonymous callers get an empty list / null instead of 401
	lenient.GET("/workspaces", workspaceHandler.GetWorkspaces)
	lenient.GET("/workspaces/:id/info", workspaceHandler.GetWorkspaceInfo)

	// Workspace routes
	workspaces := api.Group("/workspaces")
	workspaces.POST("", workspaceHandler.CreateWorkspace)
	workspaces.GET("/:id", workspaceHandler.GetWorkspace)
	workspaces.PATCH("/:id", workspaceHandler.RenameWorkspace)
	workspaces.DELETE("/:id", workspaceHandler.DeleteWorkspace)
	workspaces.POST("/:id/join", workspaceHandler.JoinWorkspace)
	workspaces.POST("/:id/join-code", workspaceHandler.RotateJoinCode)

	// Membership routes nested under a workspace
	workspaces.GET("/:id/members", memberHandler.GetMembers)
	workspaces.GET("/:id/member", memberHandler.GetCurrentMember)
	workspaces.GET("/:id/channels", channelHandler.GetChannels)
	workspaces.POST("/:id/channels", channelHandler.CreateChannel)
	workspaces.POST("/:id/conversations", conversationHandler.CreateConversation)
	workspaces.POST("/:id/attachments", attachmentHandler.UploadAttachment)

	// Member routes
	members := api.Group("/members")
	members.GET("/:id", memberHandler.GetMember)
	members.PATCH("/:id", memberHandler.UpdateMemberRole)
	members.DELETE("/:id", memberHandler.RemoveMember)

	// Channel routes
	channels := api.Group("/channels")
	channels.GET("/:id", channelHandler.GetChannel)
	channels.PATCH("/:id", channelHandler.RenameChannel)
	channels.DELETE("/:id", channelHandler.DeleteChannel)
	channels.GET("/:id/messages", channelHandler.GetChannelMessages)

	// Conversation routes
	conversations := api.Group("/conversations")
	conversations.GET("/:id", conversationHandler.GetConversation)
	conversations.GET("/:id/messages", conversationHandler.GetConversationMessages)

	// Message routes
	messages := api.Group("/messages")
	messages.POST("", messageHandler.CreateMessage)
	messages.PATCH("/:id", messageHandler.EditMessage)
	messages.DELETE("/:id", messageHandler.DeleteMessage)
	messages.GET("/:id/thread", messageHandler.GetThread)
	messages.GET("/:id/reactions", messageHandler.GetReactions)
	messages.POST("/:id/reactions", messageHandler.ToggleReaction)

	// Attachment presigning
	api.POST("/attachments/url", attachmentHandler.GetAttachmentURL)

	// WebSocket endpoint authenticates via query token, outside the
	// middleware chain
	e.GET("/ws", wsHandler.HandleWS)
}
