package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/huddlehq/huddle-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

type messageFixture struct {
	messageRepo *testutil.MockMessageRepository
	channelRepo *testutil.MockChannelRepository
	memberRepo  *testutil.MockMemberRepository
	handler     *MessageHandler

	workspaceID uuid.UUID
	channelID   uuid.UUID
}

func newMessageFixture() *messageFixture {
	messageRepo := testutil.NewMockMessageRepository()
	channelRepo := testutil.NewMockChannelRepository()
	conversationRepo := testutil.NewMockConversationRepository()
	reactionRepo := testutil.NewMockReactionRepository()
	memberRepo := testutil.NewMockMemberRepository()
	authorizer := service.NewAuthorizer(memberRepo)
	tx := testutil.NewMockTransactor()

	messageService := service.NewMessageService(
		messageRepo, channelRepo, conversationRepo, reactionRepo,
		authorizer, tx, nil,
	)

	f := &messageFixture{
		messageRepo: messageRepo,
		channelRepo: channelRepo,
		memberRepo:  memberRepo,
		handler:     NewMessageHandler(messageService),
		workspaceID: uuid.New(),
		channelID:   uuid.New(),
	}

	channelRepo.AddChannel(&domain.Channel{
		ID:          f.channelID,
		Name:        "general",
		WorkspaceID: f.workspaceID,
	})
	return f
}

func (f *messageFixture) addMember(userID uuid.UUID, role domain.Role) *domain.Member {
	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: f.workspaceID,
		Role:        role,
	}
	f.memberRepo.AddMember(member)
	return member
}

func (f *messageFixture) addMessage(memberID uuid.UUID, body string) *domain.Message {
	channelID := f.channelID
	message := &domain.Message{
		ID:          uuid.New(),
		Body:        body,
		MemberID:    memberID,
		WorkspaceID: f.workspaceID,
		ChannelID:   &channelID,
	}
	f.messageRepo.AddMessage(message)
	return message
}

func TestCreateMessage_InChannel(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	member := f.addMember(userID, domain.RoleMember)

	body := fmt.Sprintf(`{"body":"hello team","channelId":"%s"}`, f.channelID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages", body)
	setupUserContext(c, userID)

	if err := f.handler.CreateMessage(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var message domain.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &message); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if message.Body != "hello team" {
		t.Errorf("Expected body 'hello team', got %q", message.Body)
	}
	if message.MemberID != member.ID {
		t.Errorf("Expected member %s, got %s", member.ID, message.MemberID)
	}
}

func TestCreateMessage_BothStreamsRejected(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	f.addMember(userID, domain.RoleMember)

	body := fmt.Sprintf(`{"body":"hi","channelId":"%s","conversationId":"%s"}`, f.channelID, uuid.New())
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages", body)
	setupUserContext(c, userID)

	if err := f.handler.CreateMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateMessage_EmptyBodyRejected(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	f.addMember(userID, domain.RoleMember)

	body := fmt.Sprintf(`{"body":"   ","channelId":"%s"}`, f.channelID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages", body)
	setupUserContext(c, userID)

	if err := f.handler.CreateMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateMessage_NonMemberForbidden(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()

	body := fmt.Sprintf(`{"body":"hi","channelId":"%s"}`, f.channelID)
	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages", body)
	setupUserContext(c, uuid.New())

	if err := f.handler.CreateMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestEditMessage_NonAuthorForbidden(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	author := f.addMember(uuid.New(), domain.RoleMember)
	message := f.addMessage(author.ID, "original")

	// An admin who didn't write the message still can't edit it
	adminUserID := uuid.New()
	f.addMember(adminUserID, domain.RoleAdmin)

	c, rec := newJSONContext(e, http.MethodPatch, "/api/v1/messages/"+message.ID.String(), `{"body":"edited"}`)
	c.SetParamNames("id")
	c.SetParamValues(message.ID.String())
	setupUserContext(c, adminUserID)

	if err := f.handler.EditMessage(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteMessage_AdminCanDelete(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	author := f.addMember(uuid.New(), domain.RoleMember)
	message := f.addMessage(author.ID, "to delete")

	adminUserID := uuid.New()
	f.addMember(adminUserID, domain.RoleAdmin)

	c, rec := newJSONContext(e, http.MethodDelete, "/api/v1/messages/"+message.ID.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(message.ID.String())
	setupUserContext(c, adminUserID)

	if err := f.handler.DeleteMessage(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestToggleReaction_AddAndRemove(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	member := f.addMember(userID, domain.RoleMember)
	message := f.addMessage(member.ID, "react to me")

	toggle := func() map[string]bool {
		c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages/"+message.ID.String()+"/reactions", `{"value":"👍"}`)
		c.SetParamNames("id")
		c.SetParamValues(message.ID.String())
		setupUserContext(c, userID)

		if err := f.handler.ToggleReaction(c); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var response map[string]bool
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		return response
	}

	if response := toggle(); !response["added"] {
		t.Errorf("Expected first toggle to add the reaction")
	}
	if response := toggle(); response["added"] {
		t.Errorf("Expected second toggle to remove the reaction")
	}
}

func TestToggleReaction_EmptyValueRejected(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	member := f.addMember(userID, domain.RoleMember)
	message := f.addMessage(member.ID, "react to me")

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/messages/"+message.ID.String()+"/reactions", `{"value":"  "}`)
	c.SetParamNames("id")
	c.SetParamValues(message.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.ToggleReaction(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetThread_MissingParent(t *testing.T) {
	e := echo.New()
	f := newMessageFixture()
	userID := uuid.New()
	f.addMember(userID, domain.RoleMember)

	missingID := uuid.New()
	c, rec := newJSONContext(e, http.MethodGet, "/api/v1/messages/"+missingID.String()+"/thread", "")
	c.SetParamNames("id")
	c.SetParamValues(missingID.String())
	setupUserContext(c, userID)

	if err := f.handler.GetThread(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
