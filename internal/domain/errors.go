package domain

import "errors"

// Domain errors
var (
	ErrUnauthorized         = errors.New("unauthorized")
	ErrWorkspaceNotFound    = errors.New("workspace not found")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrMessageNotFound      = errors.New("message not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidJoinCode      = errors.New("invalid join code")
	ErrAlreadyMember        = errors.New("already a member of this workspace")
	ErrAdminRemoval         = errors.New("admin cannot be removed")
	ErrNameRequired         = errors.New("name is required")
	ErrNameTooLong          = errors.New("name exceeds maximum length")
	ErrInvalidRole          = errors.New("invalid role")
	ErrNotMessageAuthor     = errors.New("not the message author")
	ErrInvalidMessageStream = errors.New("message must target exactly one of channel or conversation")
	ErrBodyRequired         = errors.New("message body is required")
	ErrBodyTooLong          = errors.New("message body exceeds maximum length")
	ErrValueRequired        = errors.New("reaction value is required")
	ErrInternalError        = errors.New("internal error")
)

// Validation constants
const (
	MaxWorkspaceNameLength = 80
	MaxChannelNameLength   = 80
	MaxMessageBodyLength   = 10000
)
