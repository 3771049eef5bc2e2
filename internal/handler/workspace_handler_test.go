package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain"
	"github.com/huddlehq/huddle-backend/internal/service"
	"github.com/huddlehq/huddle-backend/internal/testutil"
	"github.com/labstack/echo/v4"
)

type workspaceFixture struct {
	workspaceRepo *testutil.MockWorkspaceRepository
	memberRepo    *testutil.MockMemberRepository
	handler       *WorkspaceHandler
	disconnector  *mockDisconnector
}

type mockDisconnector struct {
	mu           sync.Mutex
	disconnected []uuid.UUID
}

func (m *mockDisconnector) DisconnectWorkspace(workspaceID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnected = append(m.disconnected, workspaceID)
}

func newWorkspaceFixture() *workspaceFixture {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	memberRepo := testutil.NewMockMemberRepository()
	channelRepo := testutil.NewMockChannelRepository()
	conversationRepo := testutil.NewMockConversationRepository()
	messageRepo := testutil.NewMockMessageRepository()
	reactionRepo := testutil.NewMockReactionRepository()
	authorizer := service.NewAuthorizer(memberRepo)
	tx := testutil.NewMockTransactor()

	workspaceService := service.NewWorkspaceService(
		workspaceRepo, memberRepo, channelRepo, conversationRepo,
		messageRepo, reactionRepo, authorizer, tx,
	)

	disconnector := &mockDisconnector{}
	return &workspaceFixture{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		handler:       NewWorkspaceHandler(workspaceService, disconnector),
		disconnector:  disconnector,
	}
}

func (f *workspaceFixture) addWorkspace(joinCode string) *domain.Workspace {
	workspace := &domain.Workspace{
		ID:       uuid.New(),
		Name:     "Engineering",
		JoinCode: joinCode,
	}
	f.workspaceRepo.AddWorkspace(workspace)
	return workspace
}

func (f *workspaceFixture) addMember(workspaceID, userID uuid.UUID, role domain.Role) *domain.Member {
	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
	}
	f.memberRepo.AddMember(member)
	return member
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestCreateWorkspace_Success(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces", `{"name":"Engineering"}`)
	setupUserContext(c, userID)

	if err := f.handler.CreateWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", rec.Code)
	}

	var workspace domain.Workspace
	if err := json.Unmarshal(rec.Body.Bytes(), &workspace); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if workspace.Name != "Engineering" {
		t.Errorf("Expected name 'Engineering', got %q", workspace.Name)
	}
	if len(workspace.JoinCode) != domain.JoinCodeLength {
		t.Errorf("Expected %d-char join code, got %q", domain.JoinCodeLength, workspace.JoinCode)
	}
}

func TestCreateWorkspace_MissingName(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces", `{"name":"   "}`)
	setupUserContext(c, uuid.New())

	if err := f.handler.CreateWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreateWorkspace_Unauthenticated(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces", `{"name":"Engineering"}`)
	// No auth context

	if err := f.handler.CreateWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}

func TestGetWorkspace_NonMemberGets404(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	workspace := f.addWorkspace("ABC123")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, uuid.New())

	if err := f.handler.GetWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	// Existence is not revealed to non-members
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetWorkspace_MemberSeesJoinCode(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()
	workspace := f.addWorkspace("ABC123")
	f.addMember(workspace.ID, userID, domain.RoleMember)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.GetWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var got domain.Workspace
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if got.JoinCode != "ABC123" {
		t.Errorf("Expected join code 'ABC123', got %q", got.JoinCode)
	}
}

func TestJoinWorkspace_Success(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()
	workspace := f.addWorkspace("ABC123")

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/join", `{"joinCode":"abc123"}`)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.JoinWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Join codes are case-insensitive
	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["workspaceId"] != workspace.ID.String() {
		t.Errorf("Expected workspaceId %s, got %s", workspace.ID, response["workspaceId"])
	}
}

func TestJoinWorkspace_WrongCode(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	workspace := f.addWorkspace("ABC123")

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/join", `{"joinCode":"XYZ789"}`)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, uuid.New())

	if err := f.handler.JoinWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestJoinWorkspace_AlreadyMember(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()
	workspace := f.addWorkspace("ABC123")
	f.addMember(workspace.ID, userID, domain.RoleMember)

	c, rec := newJSONContext(e, http.MethodPost, "/api/v1/workspaces/"+workspace.ID.String()+"/join", `{"joinCode":"ABC123"}`)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.JoinWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestRenameWorkspace_NonAdminForbidden(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()
	workspace := f.addWorkspace("ABC123")
	f.addMember(workspace.ID, userID, domain.RoleMember)

	c, rec := newJSONContext(e, http.MethodPatch, "/api/v1/workspaces/"+workspace.ID.String(), `{"name":"Renamed"}`)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.RenameWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestDeleteWorkspace_DisconnectsClients(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()
	userID := uuid.New()
	workspace := f.addWorkspace("ABC123")
	f.addMember(workspace.ID, userID, domain.RoleAdmin)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/"+workspace.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(workspace.ID.String())
	setupUserContext(c, userID)

	if err := f.handler.DeleteWorkspace(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
	if len(f.disconnector.disconnected) != 1 || f.disconnector.disconnected[0] != workspace.ID {
		t.Errorf("Expected workspace %s to be disconnected, got %v", workspace.ID, f.disconnector.disconnected)
	}
}

func TestDeleteWorkspace_InvalidID(t *testing.T) {
	e := echo.New()
	f := newWorkspaceFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/workspaces/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	setupUserContext(c, uuid.New())

	if err := f.handler.DeleteWorkspace(c); err != nil {
		t.Fatalf("Expected JSON response, got error: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
	if len(f.disconnector.disconnected) != 0 {
		t.Errorf("Expected no disconnects, got %v", f.disconnector.disconnected)
	}
}
