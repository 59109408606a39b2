package handler

import (
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/internal/middleware"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
	"github.com/shahzaib1233/todo-app-phase-2/repository"
	taskUC "github.com/shahzaib1233/todo-app-phase-2/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Param status query string false "completed | pending"
// @Param sort query string false "created_asc | created_desc | updated_asc | updated_desc"
// @Router /api/{user_id}/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	in := taskUC.ListInput{
		Status: repository.ParseTaskStatus(string(ctx.QueryArgs().Peek("status"))),
		Sort:   repository.ParseTaskSort(string(ctx.QueryArgs().Peek("sort"))),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, scope, in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/{user_id}/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	scope, ok := h.scope(ctx)
	if !ok {
		return
	}

	var req transport.TaskCreateRequest
	if err := transport.DecodeJSON(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, scope, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Get task
// @Tags tasks
// @Router /api/{user_id}/tasks/{task_id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	scope, id, ok := h.scopeAndID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, scope, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Update task
// @Tags tasks
// @Router /api/{user_id}/tasks/{task_id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	scope, id, ok := h.scopeAndID(ctx)
	if !ok {
		return
	}

	var req transport.TaskUpdateRequest
	if err := transport.DecodeJSON(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, scope, id, domain.TaskPatch{
		Title:            req.Title,
		Description:      req.Description,
		ClearDescription: req.DescriptionSet && req.Description == nil,
		Completed:        req.Completed,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/{user_id}/tasks/{task_id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	scope, id, ok := h.scopeAndID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, scope, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Toggle task completion
// @Tags tasks
// @Router /api/{user_id}/tasks/{task_id}/complete [patch]
func (h *TaskHandler) ToggleComplete(ctx *fasthttp.RequestCtx) {
	scope, id, ok := h.scopeAndID(ctx)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.ToggleComplete(stdCtx, scope, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// scope pairs the authenticated subject with the user_id path parameter and
// rejects requests addressing another user's tasks before the body is read.
func (h *TaskHandler) scope(ctx *fasthttp.RequestCtx) (taskUC.Scope, bool) {
	subject, ok := middleware.Subject(ctx)
	if !ok {
		h.respondError(ctx, domain.ErrNotAuthenticated)
		return taskUC.Scope{}, false
	}
	userID, _ := ctx.UserValue("user_id").(string)
	scope := taskUC.Scope{Subject: subject, UserID: userID}
	if err := taskUC.Authorize(scope); err != nil {
		h.respondError(ctx, err)
		return scope, false
	}
	return scope, true
}

func (h *TaskHandler) scopeAndID(ctx *fasthttp.RequestCtx) (taskUC.Scope, int64, bool) {
	scope, ok := h.scope(ctx)
	if !ok {
		return scope, 0, false
	}

	raw, _ := ctx.UserValue("task_id").(string)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		h.respondError(ctx, transport.PathError("task_id",
			"Input should be a valid integer, unable to parse string as an integer", "int_parsing"))
		return scope, 0, false
	}
	return scope, id, true
}
