package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"

	apiHandler "github.com/shahzaib1233/todo-app-phase-2/api/handler"
	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/internal/config"
	"github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/monitor"
	sqliteInfra "github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/sqlite"
	"github.com/shahzaib1233/todo-app-phase-2/internal/middleware"
	"github.com/shahzaib1233/todo-app-phase-2/internal/security/password"
	"github.com/shahzaib1233/todo-app-phase-2/internal/security/token"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
	sqliteRepo "github.com/shahzaib1233/todo-app-phase-2/repository/sqlite"
	authUC "github.com/shahzaib1233/todo-app-phase-2/usecase/auth"
	taskUC "github.com/shahzaib1233/todo-app-phase-2/usecase/task"
)

type staticStatus struct{ online bool }

func (s staticStatus) GetStatus() monitor.Status {
	return monitor.Status{Database: s.online, Driver: config.DriverSQLite}
}

type testAPI struct {
	handler fasthttp.RequestHandler
	tokens  *token.Service
}

func setupAPI(t *testing.T) *testAPI {
	t.Helper()

	db, err := sqliteInfra.Open(config.SQLiteConfig{Path: sqliteInfra.MemoryPath}, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = sqliteInfra.Close(db) })
	if err := sqliteRepo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	tokens, err := token.New("router-test-secret", time.Minute)
	if err != nil {
		t.Fatalf("token service: %v", err)
	}
	hasher := password.NewHasher(bcrypt.MinCost)
	adapter := httpcontext.NewAdapter(time.Second)

	handler := New(
		Handlers{
			Auth:   apiHandler.NewAuthHandler(authUC.New(sqliteRepo.NewUserRepository(db), hasher, tokens, nil), adapter, nil),
			Task:   apiHandler.NewTaskHandler(taskUC.New(sqliteRepo.NewTaskRepository(db), nil), adapter, nil),
			Health: apiHandler.NewHealthHandler(staticStatus{online: true}, adapter, nil),
			Errors: apiHandler.NewErrorHandler(adapter, nil),
		},
		middleware.BearerAuth(tokens, nil),
		middleware.CORS([]string{"*"}),
	)
	return &testAPI{handler: handler, tokens: tokens}
}

func (a *testAPI) do(t *testing.T, method, uri, bearer, body string) *fasthttp.RequestCtx {
	t.Helper()
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if bearer != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+bearer)
	}
	if body != "" {
		req.Header.SetContentType("application/json")
		req.SetBodyString(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	a.handler(ctx)
	return ctx
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(ctx.Response.Body(), dst); err != nil {
		t.Fatalf("decode %q: %v", ctx.Response.Body(), err)
	}
}

func expectStatus(t *testing.T, ctx *fasthttp.RequestCtx, want int) {
	t.Helper()
	if got := ctx.Response.StatusCode(); got != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, got, ctx.Response.Body())
	}
}

type errorBody struct {
	Detail string              `json:"detail"`
	Errors []domain.FieldError `json:"errors"`
}

// signup registers a user and returns its id and a signed-in token.
func (a *testAPI) signup(t *testing.T, email string) (string, string) {
	t.Helper()
	ctx := a.do(t, http.MethodPost, "/api/auth/signup", "",
		fmt.Sprintf(`{"name":"Test","email":%q,"password":"secret123"}`, email))
	expectStatus(t, ctx, http.StatusCreated)
	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decode(t, ctx, &user)
	if user.ID == "" || user.Email != email {
		t.Fatalf("unexpected signup body %s", ctx.Response.Body())
	}

	ctx = a.do(t, http.MethodPost, "/api/auth/signin", "",
		fmt.Sprintf(`{"email":%q,"password":"secret123"}`, email))
	expectStatus(t, ctx, http.StatusOK)
	var tok struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, ctx, &tok)
	if tok.TokenType != "bearer" || tok.AccessToken == "" {
		t.Fatalf("unexpected signin body %s", ctx.Response.Body())
	}
	return user.ID, tok.AccessToken
}

func (a *testAPI) createTask(t *testing.T, userID, bearer, body string) domain.Task {
	t.Helper()
	ctx := a.do(t, http.MethodPost, "/api/"+userID+"/tasks", bearer, body)
	expectStatus(t, ctx, http.StatusCreated)
	var task domain.Task
	decode(t, ctx, &task)
	return task
}

func TestRootAndHealth(t *testing.T) {
	api := setupAPI(t)

	ctx := api.do(t, http.MethodGet, "/", "", "")
	expectStatus(t, ctx, http.StatusOK)

	ctx = api.do(t, http.MethodGet, "/health", "", "")
	expectStatus(t, ctx, http.StatusOK)
	var health struct {
		Status string `json:"status"`
	}
	decode(t, ctx, &health)
	if health.Status != "healthy" {
		t.Fatalf("expected healthy, got %q", health.Status)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	api := setupAPI(t)
	api.signup(t, "dup@example.com")

	ctx := api.do(t, http.MethodPost, "/api/auth/signup", "",
		`{"name":"Other","email":"dup@example.com","password":"x"}`)
	expectStatus(t, ctx, http.StatusBadRequest)
	var body errorBody
	decode(t, ctx, &body)
	if body.Detail != "User with this email already exists" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestSignupValidation(t *testing.T) {
	api := setupAPI(t)

	ctx := api.do(t, http.MethodPost, "/api/auth/signup", "", `{"name":"","email":"a@b.c"}`)
	expectStatus(t, ctx, http.StatusUnprocessableEntity)
	var body errorBody
	decode(t, ctx, &body)
	if body.Detail == "" || len(body.Errors) == 0 {
		t.Fatalf("expected detail and field errors, got %s", ctx.Response.Body())
	}
}

func TestSigninWrongPassword(t *testing.T) {
	api := setupAPI(t)
	api.signup(t, "who@example.com")

	for _, body := range []string{
		`{"email":"who@example.com","password":"nope"}`,
		`{"email":"ghost@example.com","password":"secret123"}`,
	} {
		ctx := api.do(t, http.MethodPost, "/api/auth/signin", "", body)
		expectStatus(t, ctx, http.StatusUnauthorized)
		if got := string(ctx.Response.Header.Peek("WWW-Authenticate")); got != "Bearer" {
			t.Fatalf("expected bearer challenge, got %q", got)
		}
		var e errorBody
		decode(t, ctx, &e)
		if e.Detail != "Incorrect email or password" {
			t.Fatalf("unexpected detail %q", e.Detail)
		}
	}
}

func TestSignoutIsStateless(t *testing.T) {
	api := setupAPI(t)
	ctx := api.do(t, http.MethodPost, "/api/auth/signout", "", "")
	expectStatus(t, ctx, http.StatusOK)
	var body struct {
		Message string `json:"message"`
	}
	decode(t, ctx, &body)
	if body.Message != "Successfully signed out" {
		t.Fatalf("unexpected message %q", body.Message)
	}
}

func TestTasksRequireBearerToken(t *testing.T) {
	api := setupAPI(t)
	userID, _ := api.signup(t, "guard@example.com")

	expired, err := api.tokens.IssueWithTTL(userID, -time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	for name, bearer := range map[string]string{
		"missing": "",
		"garbage": "not-a-token",
		"expired": expired,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := api.do(t, http.MethodGet, "/api/"+userID+"/tasks", bearer, "")
			expectStatus(t, ctx, http.StatusUnauthorized)
			if got := string(ctx.Response.Header.Peek("WWW-Authenticate")); got != "Bearer" {
				t.Fatalf("expected bearer challenge, got %q", got)
			}
		})
	}
}

func TestTasksForbiddenForOtherUser(t *testing.T) {
	api := setupAPI(t)
	aliceID, aliceToken := api.signup(t, "alice@example.com")
	bobID, bobToken := api.signup(t, "bob@example.com")
	task := api.createTask(t, aliceID, aliceToken, `{"title":"alice only"}`)

	ctx := api.do(t, http.MethodGet, "/api/"+aliceID+"/tasks", bobToken, "")
	expectStatus(t, ctx, http.StatusForbidden)

	// The owner check runs before body validation.
	ctx = api.do(t, http.MethodPost, "/api/"+aliceID+"/tasks", bobToken, `{}`)
	expectStatus(t, ctx, http.StatusForbidden)

	ctx = api.do(t, http.MethodGet, fmt.Sprintf("/api/%s/tasks/%d", bobID, task.ID), bobToken, "")
	expectStatus(t, ctx, http.StatusNotFound)
	var body errorBody
	decode(t, ctx, &body)
	if body.Detail != "Task not found" {
		t.Fatalf("unexpected detail %q", body.Detail)
	}
}

func TestTaskLifecycle(t *testing.T) {
	api := setupAPI(t)
	userID, bearer := api.signup(t, "life@example.com")
	base := "/api/" + userID + "/tasks"

	ctx := api.do(t, http.MethodGet, base, bearer, "")
	expectStatus(t, ctx, http.StatusOK)
	if got := string(ctx.Response.Body()); got != "[]" {
		t.Fatalf("expected empty list, got %s", got)
	}

	task := api.createTask(t, userID, bearer, `{"title":"write tests","description":"router"}`)
	if task.UserID != userID || task.Completed {
		t.Fatalf("unexpected task %+v", task)
	}
	item := fmt.Sprintf("%s/%d", base, task.ID)

	ctx = api.do(t, http.MethodPut, item, bearer, `{"title":"write more tests"}`)
	expectStatus(t, ctx, http.StatusOK)
	var updated domain.Task
	decode(t, ctx, &updated)
	if updated.Title != "write more tests" || updated.Description == nil || *updated.Description != "router" {
		t.Fatalf("unexpected update %+v", updated)
	}

	prev := updated.UpdatedAt
	for _, want := range []bool{true, false} {
		ctx = api.do(t, http.MethodPatch, item+"/complete", bearer, "")
		expectStatus(t, ctx, http.StatusOK)
		var toggled domain.Task
		decode(t, ctx, &toggled)
		if toggled.Completed != want {
			t.Fatalf("expected completed=%v", want)
		}
		if !toggled.UpdatedAt.After(prev) {
			t.Fatalf("updated_at did not increase: %v -> %v", prev, toggled.UpdatedAt)
		}
		prev = toggled.UpdatedAt
	}

	ctx = api.do(t, http.MethodDelete, item, bearer, "")
	expectStatus(t, ctx, http.StatusNoContent)
	if len(ctx.Response.Body()) != 0 {
		t.Fatalf("expected empty body, got %s", ctx.Response.Body())
	}

	ctx = api.do(t, http.MethodGet, item, bearer, "")
	expectStatus(t, ctx, http.StatusNotFound)
}

func TestUpdateClearsDescriptionOnNull(t *testing.T) {
	api := setupAPI(t)
	userID, bearer := api.signup(t, "clear@example.com")
	task := api.createTask(t, userID, bearer, `{"title":"x","description":"d"}`)
	item := fmt.Sprintf("/api/%s/tasks/%d", userID, task.ID)

	ctx := api.do(t, http.MethodPut, item, bearer, `{"title":"y"}`)
	expectStatus(t, ctx, http.StatusOK)
	var kept domain.Task
	decode(t, ctx, &kept)
	if kept.Description == nil || *kept.Description != "d" {
		t.Fatalf("absent description must be kept, got %s", ctx.Response.Body())
	}

	ctx = api.do(t, http.MethodPut, item, bearer, `{"description":null}`)
	expectStatus(t, ctx, http.StatusOK)
	var raw map[string]interface{}
	decode(t, ctx, &raw)
	if v, ok := raw["description"]; !ok || v != nil {
		t.Fatalf("expected null description, got %s", ctx.Response.Body())
	}

	ctx = api.do(t, http.MethodGet, item, bearer, "")
	expectStatus(t, ctx, http.StatusOK)
	var stored domain.Task
	decode(t, ctx, &stored)
	if stored.Description != nil || stored.Title != "y" {
		t.Fatalf("unexpected stored task %s", ctx.Response.Body())
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	api := setupAPI(t)
	userID, bearer := api.signup(t, "list@example.com")
	base := "/api/" + userID + "/tasks"

	first := api.createTask(t, userID, bearer, `{"title":"first"}`)
	second := api.createTask(t, userID, bearer, `{"title":"second","completed":true}`)

	list := func(query string) []domain.Task {
		ctx := api.do(t, http.MethodGet, base+query, bearer, "")
		expectStatus(t, ctx, http.StatusOK)
		var tasks []domain.Task
		decode(t, ctx, &tasks)
		return tasks
	}

	if got := list(""); len(got) != 2 || got[0].ID != second.ID {
		t.Fatalf("expected newest first by default, got %+v", got)
	}
	if got := list("?sort=created_asc"); len(got) != 2 || got[0].ID != first.ID {
		t.Fatalf("expected oldest first, got %+v", got)
	}
	if got := list("?status=completed"); len(got) != 1 || got[0].ID != second.ID {
		t.Fatalf("expected only completed, got %+v", got)
	}
	if got := list("?status=pending"); len(got) != 1 || got[0].ID != first.ID {
		t.Fatalf("expected only pending, got %+v", got)
	}
	if got := list("?status=bogus&sort=bogus"); len(got) != 2 {
		t.Fatalf("expected unknown values to be ignored, got %+v", got)
	}

	ctx := api.do(t, http.MethodPatch, fmt.Sprintf("%s/%d/complete", base, first.ID), bearer, "")
	expectStatus(t, ctx, http.StatusOK)
	if got := list("?sort=updated_desc"); got[0].ID != first.ID {
		t.Fatalf("expected recently updated first, got %+v", got)
	}
}

func TestTaskValidation(t *testing.T) {
	api := setupAPI(t)
	userID, bearer := api.signup(t, "valid@example.com")
	base := "/api/" + userID + "/tasks"

	ctx := api.do(t, http.MethodPost, base, bearer, `{"title":""}`)
	expectStatus(t, ctx, http.StatusUnprocessableEntity)

	ctx = api.do(t, http.MethodGet, base+"/abc", bearer, "")
	expectStatus(t, ctx, http.StatusUnprocessableEntity)
	var body errorBody
	decode(t, ctx, &body)
	if len(body.Errors) != 1 || body.Errors[0].Type != "int_parsing" {
		t.Fatalf("unexpected errors %+v", body.Errors)
	}
}

func TestUnknownRoute(t *testing.T) {
	api := setupAPI(t)
	ctx := api.do(t, http.MethodGet, "/nope/at/all", "", "")
	expectStatus(t, ctx, http.StatusNotFound)
	var body errorBody
	decode(t, ctx, &body)
	if body.Detail == "" {
		t.Fatal("expected detail on not found")
	}
}

func TestCORSPreflight(t *testing.T) {
	api := setupAPI(t)

	var req fasthttp.Request
	req.Header.SetMethod(http.MethodOptions)
	req.SetRequestURI("/api/1/tasks")
	req.Header.Set(fasthttp.HeaderOrigin, "http://localhost:3000")
	req.Header.Set(fasthttp.HeaderAccessControlRequestMethod, http.MethodGet)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	api.handler(ctx)

	expectStatus(t, ctx, http.StatusNoContent)
	if got := string(ctx.Response.Header.Peek(fasthttp.HeaderAccessControlAllowOrigin)); got != "http://localhost:3000" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}
