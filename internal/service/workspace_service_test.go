package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/testutil"
)

type workspaceFixture struct {
	workspaceRepo    *testutil.MockWorkspaceRepository
	memberRepo       *testutil.MockMemberRepository
	channelRepo      *testutil.MockChannelRepository
	conversationRepo *testutil.MockConversationRepository
	messageRepo      *testutil.MockMessageRepository
	reactionRepo     *testutil.MockReactionRepository
	tx               *testutil.MockTransactor
	publisher        *testutil.MockEventPublisher
	service          *WorkspaceService
}

func newWorkspaceFixture() *workspaceFixture {
	f := &workspaceFixture{
		workspaceRepo:    testutil.NewMockWorkspaceRepository(),
		memberRepo:       testutil.NewMockMemberRepository(),
		channelRepo:      testutil.NewMockChannelRepository(),
		conversationRepo: testutil.NewMockConversationRepository(),
		messageRepo:      testutil.NewMockMessageRepository(),
		reactionRepo:     testutil.NewMockReactionRepository(),
		tx:               testutil.NewMockTransactor(),
		publisher:        testutil.NewMockEventPublisher(),
	}
	f.service = NewWorkspaceService(
		f.workspaceRepo, f.memberRepo, f.channelRepo,
		f.conversationRepo, f.messageRepo, f.reactionRepo,
		NewAuthorizer(f.memberRepo), f.tx,
	)
	f.service.SetEventPublisher(f.publisher)
	return f
}

// addWorkspace seeds a workspace with one member and returns both
func (f *workspaceFixture) addWorkspace(name, joinCode string, userID uuid.UUID, role domain.Role) (*domain.Workspace, *domain.Member) {
	workspace := &domain.Workspace{
		ID:            uuid.New(),
		Name:          name,
		JoinCode:      joinCode,
		CreatorUserID: userID,
	}
	f.workspaceRepo.AddWorkspace(workspace)

	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspace.ID,
		Role:        role,
	}
	f.memberRepo.AddMember(member)
	return workspace, member
}

// Create tests

func TestCreateWorkspace_Success(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()

	workspace, err := f.service.Create(context.Background(), userID, CreateWorkspaceInput{Name: "Acme"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if workspace.Name != "Acme" {
		t.Errorf("Expected name 'Acme', got %s", workspace.Name)
	}
	if len(workspace.JoinCode) != domain.JoinCodeLength {
		t.Errorf("Expected join code of length %d, got %q", domain.JoinCodeLength, workspace.JoinCode)
	}
	if workspace.CreatorUserID != userID {
		t.Errorf("Expected creator %s, got %s", userID, workspace.CreatorUserID)
	}
	if f.tx.Calls != 1 {
		t.Errorf("Expected create to run in a transaction, got %d tx calls", f.tx.Calls)
	}

	// Creator becomes the admin member
	member, err := f.memberRepo.GetByWorkspaceAndUser(context.Background(), workspace.ID, userID)
	if err != nil {
		t.Fatalf("Expected creator membership, got %v", err)
	}
	if member.Role != domain.RoleAdmin {
		t.Errorf("Expected admin role, got %s", member.Role)
	}

	// A default channel is provisioned
	channels, err := f.channelRepo.GetAllByWorkspace(context.Background(), workspace.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(channels) != 1 || channels[0].Name != domain.DefaultChannelName {
		t.Errorf("Expected one %q channel, got %v", domain.DefaultChannelName, channels)
	}
}

func TestCreateWorkspace_TrimsName(t *testing.T) {
	f := newWorkspaceFixture()

	workspace, err := f.service.Create(context.Background(), uuid.New(), CreateWorkspaceInput{Name: "  Acme  "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace.Name != "Acme" {
		t.Errorf("Expected trimmed name 'Acme', got %q", workspace.Name)
	}
}

func TestCreateWorkspace_EmptyName(t *testing.T) {
	f := newWorkspaceFixture()

	_, err := f.service.Create(context.Background(), uuid.New(), CreateWorkspaceInput{Name: "   "})
	if err != domain.ErrNameRequired {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
}

func TestCreateWorkspace_NameTooLong(t *testing.T) {
	f := newWorkspaceFixture()

	_, err := f.service.Create(context.Background(), uuid.New(), CreateWorkspaceInput{
		Name: strings.Repeat("a", domain.MaxWorkspaceNameLength+1),
	})
	if err != domain.ErrNameTooLong {
		t.Errorf("Expected ErrNameTooLong, got %v", err)
	}
}

func TestCreateWorkspace_Unauthenticated(t *testing.T) {
	f := newWorkspaceFixture()

	_, err := f.service.Create(context.Background(), uuid.Nil, CreateWorkspaceInput{Name: "Acme"})
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

// ListForUser tests

func TestListForUser_OnlyMemberWorkspaces(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()

	ws, _ := f.addWorkspace("Mine", "abc123", userID, domain.RoleMember)
	f.workspaceRepo.AddUserWorkspace(userID, ws.ID)
	f.addWorkspace("Other", "xyz789", uuid.New(), domain.RoleAdmin)

	workspaces, err := f.service.ListForUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(workspaces) != 1 || workspaces[0].ID != ws.ID {
		t.Errorf("Expected only the member workspace, got %v", workspaces)
	}
}

func TestListForUser_UnauthenticatedGetsEmptyList(t *testing.T) {
	f := newWorkspaceFixture()

	workspaces, err := f.service.ListForUser(context.Background(), uuid.Nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(workspaces) != 0 {
		t.Errorf("Expected empty list, got %v", workspaces)
	}
}

func TestGetInfo_UnauthenticatedGetsNil(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)

	info, err := f.service.GetInfo(context.Background(), uuid.Nil, ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info != nil {
		t.Errorf("Expected nil info, got %v", info)
	}
}

// GetInfo tests

func TestGetInfo_NonMemberSeesNameOnly(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)

	info, err := f.service.GetInfo(context.Background(), uuid.New(), ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.Name == nil || *info.Name != "Acme" {
		t.Errorf("Expected name 'Acme', got %v", info.Name)
	}
	if info.IsMember {
		t.Error("Expected IsMember false for non-member")
	}
}

func TestGetInfo_MemberFlagged(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleMember)

	info, err := f.service.GetInfo(context.Background(), userID, ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !info.IsMember {
		t.Error("Expected IsMember true for member")
	}
}

func TestGetInfo_MissingWorkspace(t *testing.T) {
	f := newWorkspaceFixture()

	info, err := f.service.GetInfo(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if info.Name != nil {
		t.Errorf("Expected nil name for missing workspace, got %v", *info.Name)
	}
	if info.IsMember {
		t.Error("Expected IsMember false for missing workspace")
	}
}

// GetFull tests

func TestGetFull_MemberSeesJoinCode(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleMember)

	workspace, err := f.service.GetFull(context.Background(), userID, ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace == nil || workspace.JoinCode != "abc123" {
		t.Errorf("Expected full workspace with join code, got %v", workspace)
	}
}

func TestGetFull_NonMemberGetsNothing(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)

	workspace, err := f.service.GetFull(context.Background(), uuid.New(), ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace != nil {
		t.Errorf("Expected nil workspace for non-member, got %v", workspace)
	}
}

// Rename tests

func TestRenameWorkspace_AdminOnly(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleMember)

	_, err := f.service.Rename(context.Background(), userID, ws.ID, "New Name")
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized for non-admin, got %v", err)
	}
}

func TestRenameWorkspace_Success(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	workspace, err := f.service.Rename(context.Background(), userID, ws.ID, "New Name")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace.Name != "New Name" {
		t.Errorf("Expected 'New Name', got %q", workspace.Name)
	}

	types := f.publisher.EventTypes()
	if len(types) != 1 || types[0] != "workspace.updated" {
		t.Errorf("Expected workspace.updated event, got %v", types)
	}
}

// RotateJoinCode tests

func TestRotateJoinCode_Success(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	workspace, err := f.service.RotateJoinCode(context.Background(), userID, ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace.JoinCode == "abc123" {
		t.Error("Expected join code to change")
	}
	if len(workspace.JoinCode) != domain.JoinCodeLength {
		t.Errorf("Expected join code of length %d, got %q", domain.JoinCodeLength, workspace.JoinCode)
	}
}

func TestRotateJoinCode_EventOmitsCode(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	workspace, err := f.service.RotateJoinCode(context.Background(), userID, ws.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(f.publisher.Events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(f.publisher.Events))
	}
	payload, ok := f.publisher.Events[0].Event.Payload.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected map payload, got %T", f.publisher.Events[0].Event.Payload)
	}
	for _, v := range payload {
		if s, ok := v.(string); ok && s == workspace.JoinCode {
			t.Error("Event payload must not contain the new join code")
		}
	}
}

func TestRotateJoinCode_NonAdmin(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleMember)

	_, err := f.service.RotateJoinCode(context.Background(), userID, ws.ID)
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

// Delete tests

func TestDeleteWorkspace_CascadesEverything(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, member := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	channel := &domain.Channel{ID: uuid.New(), Name: "general", WorkspaceID: ws.ID}
	f.channelRepo.AddChannel(channel)

	channelID := channel.ID
	message := &domain.Message{ID: uuid.New(), Body: "hi", MemberID: member.ID, WorkspaceID: ws.ID, ChannelID: &channelID}
	f.messageRepo.AddMessage(message)

	f.reactionRepo.AddReaction(&domain.Reaction{ID: uuid.New(), WorkspaceID: ws.ID, MessageID: message.ID, MemberID: member.ID, Value: "👍"})
	f.conversationRepo.AddConversation(&domain.Conversation{ID: uuid.New(), WorkspaceID: ws.ID, MemberOneID: member.ID, MemberTwoID: member.ID})

	if err := f.service.Delete(context.Background(), userID, ws.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if f.tx.Calls != 1 {
		t.Errorf("Expected delete to run in a transaction, got %d tx calls", f.tx.Calls)
	}
	if len(f.workspaceRepo.Workspaces) != 0 {
		t.Error("Expected workspace deleted")
	}
	if len(f.memberRepo.Members) != 0 {
		t.Error("Expected members deleted")
	}
	if len(f.channelRepo.Channels) != 0 {
		t.Error("Expected channels deleted")
	}
	if len(f.messageRepo.Messages) != 0 {
		t.Error("Expected messages deleted")
	}
	if len(f.reactionRepo.Reactions) != 0 {
		t.Error("Expected reactions deleted")
	}
	if len(f.conversationRepo.Conversations) != 0 {
		t.Error("Expected conversations deleted")
	}

	types := f.publisher.EventTypes()
	if len(types) != 1 || types[0] != "workspace.deleted" {
		t.Errorf("Expected workspace.deleted event, got %v", types)
	}
}

func TestDeleteWorkspace_RollsBackOnFailure(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	f.workspaceRepo.DeleteErr = domain.ErrInternalError

	err := f.service.Delete(context.Background(), userID, ws.ID)
	if err != domain.ErrInternalError {
		t.Errorf("Expected ErrInternalError, got %v", err)
	}
	if len(f.publisher.Events) != 0 {
		t.Error("Expected no event published on failed delete")
	}
}

func TestDeleteWorkspace_NonAdmin(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleMember)

	err := f.service.Delete(context.Background(), userID, ws.ID)
	if err != domain.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
	if len(f.workspaceRepo.Workspaces) != 1 {
		t.Error("Expected workspace to remain")
	}
}

// Join tests

func TestJoinWorkspace_Success(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)
	joiner := uuid.New()

	workspace, err := f.service.Join(context.Background(), joiner, ws.ID, "abc123")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if workspace.ID != ws.ID {
		t.Errorf("Expected workspace %s, got %s", ws.ID, workspace.ID)
	}

	member, err := f.memberRepo.GetByWorkspaceAndUser(context.Background(), ws.ID, joiner)
	if err != nil {
		t.Fatalf("Expected membership created, got %v", err)
	}
	if member.Role != domain.RoleMember {
		t.Errorf("Expected member role, got %s", member.Role)
	}
	if f.tx.Calls != 1 {
		t.Errorf("Expected join to run in a transaction, got %d tx calls", f.tx.Calls)
	}

	types := f.publisher.EventTypes()
	if len(types) != 1 || types[0] != "member.joined" {
		t.Errorf("Expected member.joined event, got %v", types)
	}
}

func TestJoinWorkspace_CodeCaseInsensitive(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)

	_, err := f.service.Join(context.Background(), uuid.New(), ws.ID, "ABC123")
	if err != nil {
		t.Fatalf("Expected uppercase code to match, got %v", err)
	}
}

func TestJoinWorkspace_WrongCode(t *testing.T) {
	f := newWorkspaceFixture()
	ws, _ := f.addWorkspace("Acme", "abc123", uuid.New(), domain.RoleAdmin)
	joiner := uuid.New()

	_, err := f.service.Join(context.Background(), joiner, ws.ID, "zzz999")
	if err != domain.ErrInvalidJoinCode {
		t.Errorf("Expected ErrInvalidJoinCode, got %v", err)
	}

	if _, err := f.memberRepo.GetByWorkspaceAndUser(context.Background(), ws.ID, joiner); err != domain.ErrMemberNotFound {
		t.Error("Expected no membership created on wrong code")
	}
}

func TestJoinWorkspace_AlreadyMember(t *testing.T) {
	f := newWorkspaceFixture()
	userID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", userID, domain.RoleAdmin)

	_, err := f.service.Join(context.Background(), userID, ws.ID, "abc123")
	if err != domain.ErrAlreadyMember {
		t.Errorf("Expected ErrAlreadyMember, got %v", err)
	}
}

func TestJoinWorkspace_WorkspaceNotFound(t *testing.T) {
	f := newWorkspaceFixture()

	_, err := f.service.Join(context.Background(), uuid.New(), uuid.New(), "abc123")
	if err != domain.ErrWorkspaceNotFound {
		t.Errorf("Expected ErrWorkspaceNotFound, got %v", err)
	}
}

func TestJoinWorkspace_StaleCodeAfterRotation(t *testing.T) {
	f := newWorkspaceFixture()
	adminID := uuid.New()
	ws, _ := f.addWorkspace("Acme", "abc123", adminID, domain.RoleAdmin)

	if _, err := f.service.RotateJoinCode(context.Background(), adminID, ws.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	_, err := f.service.Join(context.Background(), uuid.New(), ws.ID, "abc123")
	if err != domain.ErrInvalidJoinCode {
		t.Errorf("Expected stale code to be rejected, got %v", err)
	}
}
