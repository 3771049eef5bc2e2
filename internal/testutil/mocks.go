package testutil

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/websocket"
)

// MockTransactor is a pass-through implementation of domain.Transactor.
// It simply runs the function and counts invocations so tests can assert
// an operation was wrapped in a transaction.
type MockTransactor struct {
	Calls int
}

// NewMockTransactor creates a new MockTransactor
func NewMockTransactor() *MockTransactor {
	return &MockTransactor{}
}

// WithinTx runs fn directly
func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	return fn(ctx)
}

// MockEventPublisher records published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

// PublishedEvent pairs an event with the workspace it was sent to
type PublishedEvent struct {
	WorkspaceID uuid.UUID
	Event       websocket.Event
}

// NewMockEventPublisher creates a new MockEventPublisher
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

// Publish records the event
func (m *MockEventPublisher) Publish(workspaceID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, PublishedEvent{WorkspaceID: workspaceID, Event: event})
}

// EventTypes returns the types of all published events in order
func (m *MockEventPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.Type)
	}
	return types
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(ctx context.Context, auth0ID, email string, name, pictureURL *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:         uuid.New(),
		Auth0ID:    auth0ID,
		Email:      email,
		Name:       name,
		PictureURL: pictureURL,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	m.Users[auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// UpdateName updates only the user's name by Auth0 ID
func (m *MockUserRepository) UpdateName(ctx context.Context, auth0ID string, name string) (*domain.User, error) {
	user, ok := m.Users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Name = &name
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[uuid.UUID]*domain.Workspace
	// UserWorkspaces maps a user ID to the IDs of workspaces they belong to,
	// standing in for the members join the real repository performs.
	UserWorkspaces map[uuid.UUID][]uuid.UUID
	CreateErr      error
	DeleteErr      error
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces:     make(map[uuid.UUID]*domain.Workspace),
		UserWorkspaces: make(map[uuid.UUID][]uuid.UUID),
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetAllByUserID returns every workspace the user belongs to
func (m *MockWorkspaceRepository) GetAllByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	workspaces := []*domain.Workspace{}
	for _, id := range m.UserWorkspaces[userID] {
		if ws, ok := m.Workspaces[id]; ok {
			workspaces = append(workspaces, ws)
		}
	}
	return workspaces, nil
}

// Create creates a new workspace
func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *workspace
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.Workspaces[created.ID] = &created
	return &created, nil
}

// UpdateName updates a workspace's name
func (m *MockWorkspaceRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Workspace, error) {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	ws.Name = name
	ws.UpdatedAt = time.Now()
	return ws, nil
}

// UpdateJoinCode updates a workspace's join code
func (m *MockWorkspaceRepository) UpdateJoinCode(ctx context.Context, id uuid.UUID, joinCode string) (*domain.Workspace, error) {
	ws, ok := m.Workspaces[id]
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	ws.JoinCode = joinCode
	ws.UpdatedAt = time.Now()
	return ws, nil
}

// Delete removes a workspace
func (m *MockWorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Workspaces[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(m.Workspaces, id)
	return nil
}

// AddWorkspace adds a workspace to the mock repository (helper for tests)
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace) {
	m.Workspaces[workspace.ID] = workspace
}

// AddUserWorkspace records a user as belonging to a workspace (helper for tests)
func (m *MockWorkspaceRepository) AddUserWorkspace(userID, workspaceID uuid.UUID) {
	m.UserWorkspaces[userID] = append(m.UserWorkspaces[userID], workspaceID)
}

// MockMemberRepository is a mock implementation of domain.MemberRepository
type MockMemberRepository struct {
	Members map[uuid.UUID]*domain.Member
	// Users lets GetAllByWorkspace join member rows with user rows
	Users     map[uuid.UUID]*domain.User
	CreateErr error
	DeleteErr error
}

// NewMockMemberRepository creates a new MockMemberRepository
func NewMockMemberRepository() *MockMemberRepository {
	return &MockMemberRepository{
		Members: make(map[uuid.UUID]*domain.Member),
		Users:   make(map[uuid.UUID]*domain.User),
	}
}

// GetByWorkspaceAndUser resolves the member row for a (workspace, user) pair
func (m *MockMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	for _, member := range m.Members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// GetByID retrieves a member by ID
func (m *MockMemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	if member, ok := m.Members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

// GetAllByWorkspace returns all members of a workspace joined with users
func (m *MockMemberRepository) GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.WorkspaceMember, error) {
	members := []*domain.WorkspaceMember{}
	for _, member := range m.Members {
		if member.WorkspaceID != workspaceID {
			continue
		}
		wm := &domain.WorkspaceMember{Member: *member}
		if user, ok := m.Users[member.UserID]; ok {
			wm.User = *user
		}
		members = append(members, wm)
	}
	return members, nil
}

// Create creates a new member, enforcing the (workspace, user) uniqueness
// the real repository gets from its constraint
func (m *MockMemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	for _, existing := range m.Members {
		if existing.WorkspaceID == member.WorkspaceID && existing.UserID == member.UserID {
			return nil, domain.ErrAlreadyMember
		}
	}
	created := *member
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.Members[created.ID] = &created
	return &created, nil
}

// UpdateRole updates a member's role
func (m *MockMemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.Member, error) {
	member, ok := m.Members[id]
	if !ok {
		return nil, domain.ErrMemberNotFound
	}
	member.Role = role
	member.UpdatedAt = time.Now()
	return member, nil
}

// Delete removes a member
func (m *MockMemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.Members, id)
	return nil
}

// DeleteByWorkspace removes all members of a workspace
func (m *MockMemberRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	for id, member := range m.Members {
		if member.WorkspaceID == workspaceID {
			delete(m.Members, id)
		}
	}
	return nil
}

// AddMember adds a member to the mock repository (helper for tests)
func (m *MockMemberRepository) AddMember(member *domain.Member) {
	m.Members[member.ID] = member
}

// MockChannelRepository is a mock implementation of domain.ChannelRepository
type MockChannelRepository struct {
	Channels  map[uuid.UUID]*domain.Channel
	CreateErr error
}

// NewMockChannelRepository creates a new MockChannelRepository
func NewMockChannelRepository() *MockChannelRepository {
	return &MockChannelRepository{
		Channels: make(map[uuid.UUID]*domain.Channel),
	}
}

// GetByID retrieves a channel by ID
func (m *MockChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	if channel, ok := m.Channels[id]; ok {
		return channel, nil
	}
	return nil, domain.ErrChannelNotFound
}

// GetAllByWorkspace returns all channels of a workspace
func (m *MockChannelRepository) GetAllByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	channels := []*domain.Channel{}
	for _, channel := range m.Channels {
		if channel.WorkspaceID == workspaceID {
			channels = append(channels, channel)
		}
	}
	return channels, nil
}

// Create creates a new channel
func (m *MockChannelRepository) Create(ctx context.Context, channel *domain.Channel) (*domain.Channel, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *channel
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.Channels[created.ID] = &created
	return &created, nil
}

// UpdateName updates a channel's name
func (m *MockChannelRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.Channel, error) {
	channel, ok := m.Channels[id]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	channel.Name = name
	channel.UpdatedAt = time.Now()
	return channel, nil
}

// Delete removes a channel
func (m *MockChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.Channels[id]; !ok {
		return domain.ErrChannelNotFound
	}
	delete(m.Channels, id)
	return nil
}

// DeleteByWorkspace removes all channels of a workspace
func (m *MockChannelRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	for id, channel := range m.Channels {
		if channel.WorkspaceID == workspaceID {
			delete(m.Channels, id)
		}
	}
	return nil
}

// AddChannel adds a channel to the mock repository (helper for tests)
func (m *MockChannelRepository) AddChannel(channel *domain.Channel) {
	m.Channels[channel.ID] = channel
}

// MockConversationRepository is a mock implementation of domain.ConversationRepository
type MockConversationRepository struct {
	Conversations map[uuid.UUID]*domain.Conversation
}

// NewMockConversationRepository creates a new MockConversationRepository
func NewMockConversationRepository() *MockConversationRepository {
	return &MockConversationRepository{
		Conversations: make(map[uuid.UUID]*domain.Conversation),
	}
}

// GetByID retrieves a conversation by ID
func (m *MockConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	if conversation, ok := m.Conversations[id]; ok {
		return conversation, nil
	}
	return nil, domain.ErrConversationNotFound
}

// GetByMembers looks up the conversation for a member pair in either order
func (m *MockConversationRepository) GetByMembers(ctx context.Context, workspaceID, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	for _, conv := range m.Conversations {
		if conv.WorkspaceID != workspaceID {
			continue
		}
		if (conv.MemberOneID == memberA && conv.MemberTwoID == memberB) ||
			(conv.MemberOneID == memberB && conv.MemberTwoID == memberA) {
			return conv, nil
		}
	}
	return nil, domain.ErrConversationNotFound
}

// Create creates a new conversation
func (m *MockConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	created := *conversation
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.Conversations[created.ID] = &created
	return &created, nil
}

// DeleteByMember removes all conversations involving a member
func (m *MockConversationRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	for id, conv := range m.Conversations {
		if conv.MemberOneID == memberID || conv.MemberTwoID == memberID {
			delete(m.Conversations, id)
		}
	}
	return nil
}

// DeleteByWorkspace removes all conversations of a workspace
func (m *MockConversationRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	for id, conv := range m.Conversations {
		if conv.WorkspaceID == workspaceID {
			delete(m.Conversations, id)
		}
	}
	return nil
}

// AddConversation adds a conversation to the mock repository (helper for tests)
func (m *MockConversationRepository) AddConversation(conversation *domain.Conversation) {
	m.Conversations[conversation.ID] = conversation
}

// MockMessageRepository is a mock implementation of domain.MessageRepository
type MockMessageRepository struct {
	Messages  map[uuid.UUID]*domain.Message
	CreateErr error
	DeleteErr error
}

// NewMockMessageRepository creates a new MockMessageRepository
func NewMockMessageRepository() *MockMessageRepository {
	return &MockMessageRepository{
		Messages: make(map[uuid.UUID]*domain.Message),
	}
}

// GetByID retrieves a message by ID
func (m *MockMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	if message, ok := m.Messages[id]; ok {
		return message, nil
	}
	return nil, domain.ErrMessageNotFound
}

// GetPageByChannel returns top-level channel messages
func (m *MockMessageRepository) GetPageByChannel(ctx context.Context, channelID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	for _, message := range m.Messages {
		if message.ChannelID != nil && *message.ChannelID == channelID && message.ParentMessageID == nil {
			messages = append(messages, message)
		}
	}
	return paginate(messages, limit, offset), nil
}

// GetPageByConversation returns conversation messages
func (m *MockMessageRepository) GetPageByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	for _, message := range m.Messages {
		if message.ConversationID != nil && *message.ConversationID == conversationID && message.ParentMessageID == nil {
			messages = append(messages, message)
		}
	}
	return paginate(messages, limit, offset), nil
}

// GetThread returns replies to a parent message
func (m *MockMessageRepository) GetThread(ctx context.Context, parentMessageID uuid.UUID) ([]*domain.Message, error) {
	messages := []*domain.Message{}
	for _, message := range m.Messages {
		if message.ParentMessageID != nil && *message.ParentMessageID == parentMessageID {
			messages = append(messages, message)
		}
	}
	return messages, nil
}

// Create creates a new message
func (m *MockMessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	created := *message
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = time.Now()
	m.Messages[created.ID] = &created
	return &created, nil
}

// UpdateBody replaces a message's body
func (m *MockMessageRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*domain.Message, error) {
	message, ok := m.Messages[id]
	if !ok {
		return nil, domain.ErrMessageNotFound
	}
	message.Body = body
	message.UpdatedAt = time.Now()
	return message, nil
}

// Delete removes a message and its replies
func (m *MockMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	if _, ok := m.Messages[id]; !ok {
		return domain.ErrMessageNotFound
	}
	for replyID, message := range m.Messages {
		if message.ParentMessageID != nil && *message.ParentMessageID == id {
			delete(m.Messages, replyID)
		}
	}
	delete(m.Messages, id)
	return nil
}

// DeleteByMember removes all messages authored by a member
func (m *MockMessageRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	for id, message := range m.Messages {
		if message.MemberID == memberID {
			delete(m.Messages, id)
		}
	}
	return nil
}

// DeleteByWorkspace removes all messages of a workspace
func (m *MockMessageRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	for id, message := range m.Messages {
		if message.WorkspaceID == workspaceID {
			delete(m.Messages, id)
		}
	}
	return nil
}

// AddMessage adds a message to the mock repository (helper for tests)
func (m *MockMessageRepository) AddMessage(message *domain.Message) {
	m.Messages[message.ID] = message
}

func paginate(messages []*domain.Message, limit, offset int) []*domain.Message {
	if offset >= len(messages) {
		return []*domain.Message{}
	}
	messages = messages[offset:]
	if limit > 0 && limit < len(messages) {
		messages = messages[:limit]
	}
	return messages
}

// MockReactionRepository is a mock implementation of domain.ReactionRepository
type MockReactionRepository struct {
	Reactions map[uuid.UUID]*domain.Reaction
}

// NewMockReactionRepository creates a new MockReactionRepository
func NewMockReactionRepository() *MockReactionRepository {
	return &MockReactionRepository{
		Reactions: make(map[uuid.UUID]*domain.Reaction),
	}
}

// GetByMessageMemberValue returns (nil, nil) when no such reaction exists
func (m *MockReactionRepository) GetByMessageMemberValue(ctx context.Context, messageID, memberID uuid.UUID, value string) (*domain.Reaction, error) {
	for _, reaction := range m.Reactions {
		if reaction.MessageID == messageID && reaction.MemberID == memberID && reaction.Value == value {
			return reaction, nil
		}
	}
	return nil, nil
}

// GetAllByMessage returns all reactions on a message
func (m *MockReactionRepository) GetAllByMessage(ctx context.Context, messageID uuid.UUID) ([]*domain.Reaction, error) {
	reactions := []*domain.Reaction{}
	for _, reaction := range m.Reactions {
		if reaction.MessageID == messageID {
			reactions = append(reactions, reaction)
		}
	}
	return reactions, nil
}

// Create creates a new reaction
func (m *MockReactionRepository) Create(ctx context.Context, reaction *domain.Reaction) (*domain.Reaction, error) {
	created := *reaction
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	m.Reactions[created.ID] = &created
	return &created, nil
}

// Delete removes a reaction
func (m *MockReactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.Reactions[id]; !ok {
		return nil
	}
	delete(m.Reactions, id)
	return nil
}

// DeleteByMessage removes all reactions on a message
func (m *MockReactionRepository) DeleteByMessage(ctx context.Context, messageID uuid.UUID) error {
	for id, reaction := range m.Reactions {
		if reaction.MessageID == messageID {
			delete(m.Reactions, id)
		}
	}
	return nil
}

// DeleteByMember removes all reactions by a member
func (m *MockReactionRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) error {
	for id, reaction := range m.Reactions {
		if reaction.MemberID == memberID {
			delete(m.Reactions, id)
		}
	}
	return nil
}

// DeleteByWorkspace removes all reactions of a workspace
func (m *MockReactionRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) error {
	for id, reaction := range m.Reactions {
		if reaction.WorkspaceID == workspaceID {
			delete(m.Reactions, id)
		}
	}
	return nil
}

// AddReaction adds a reaction to the mock repository (helper for tests)
func (m *MockReactionRepository) AddReaction(reaction *domain.Reaction) {
	m.Reactions[reaction.ID] = reaction
}

// MockAttachmentRepository is an in-memory implementation of
// storage.AttachmentRepository
type MockAttachmentRepository struct {
	Objects   map[string][]byte
	UploadErr error
}

// NewMockAttachmentRepository creates a new MockAttachmentRepository
func NewMockAttachmentRepository() *MockAttachmentRepository {
	return &MockAttachmentRepository{
		Objects: make(map[string][]byte),
	}
}

// Upload stores the object bytes in memory
func (m *MockAttachmentRepository) Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error) {
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	m.Objects[objectPath] = buf
	return objectPath, nil
}

// Delete removes an object
func (m *MockAttachmentRepository) Delete(ctx context.Context, objectPath string) error {
	delete(m.Objects, objectPath)
	return nil
}

// PresignedURL returns a deterministic fake URL
func (m *MockAttachmentRepository) PresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error) {
	return "https://storage.test/" + strings.TrimPrefix(objectPath, "/"), nil
}
