package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/api/transport"
	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/pkg/httpcontext"
	"github.com/fastygo/questlog/repository"
	taskUC "github.com/fastygo/questlog/usecase/task"
)

const defaultTaskLimit = 50

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
// @Param status query string false "pending, in_progress, completed or snoozed"
// @Param category query string false "category label"
// @Param related_status_type query string false "skill track"
// @Param is_daily_top query bool false "daily top flag"
// @Router /api/v1/tasks/ [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	filter, ok := h.parseFilter(ctx, userID)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondList(ctx, tasks, transport.PageMeta{Count: len(tasks), Limit: filter.Limit, Offset: filter.Offset})
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/tasks/{id}/ [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, userID, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Description Tasks with a due date and no scheduled date are placed on the first day with room.
// @Tags tasks
// @Router /api/v1/tasks/ [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}
	task, err := req.ToDomain()
	if err != nil {
		h.respondError(context.Background(), ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, userID, task)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Replace task
// @Tags tasks
// @Router /api/v1/tasks/{id}/ [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	h.update(ctx, false)
}

// @Summary Update task fields
// @Tags tasks
// @Router /api/v1/tasks/{id}/ [patch]
func (h *TaskHandler) PatchTask(ctx *fasthttp.RequestCtx) {
	h.update(ctx, true)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id}/ [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, userID, id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondNoContent(ctx)
}

// @Summary Complete task
// @Description Awards experience to the profile and the related status track. Repeat calls award again.
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete/ [post]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.CompleteTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.CompleteTask(stdCtx, userID, id, req.Learned); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ActionResult{Status: "task completed"})
}

// @Summary Snooze task
// @Description A task can be snoozed once, and only while its day has fewer than three active tasks.
// @Tags tasks
// @Router /api/v1/tasks/{id}/snooze/ [post]
func (h *TaskHandler) SnoozeTask(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.SnoozeTaskRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.uc.SnoozeTask(stdCtx, userID, id, req.Reason); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.ActionResult{Status: "task snoozed"})
}

func (h *TaskHandler) update(ctx *fasthttp.RequestCtx, partial bool) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	id := h.pathID(ctx)
	if id == "" {
		return
	}

	var req transport.TaskRequest
	if !h.decode(ctx, &req) {
		return
	}
	if !partial && !req.Title.Set {
		h.invalid(ctx, "title is required")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, userID, id, req.Apply)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

func (h *TaskHandler) parseFilter(ctx *fasthttp.RequestCtx, userID string) (repository.TaskFilter, bool) {
	args := ctx.QueryArgs()
	filter := repository.TaskFilter{
		UserID:            userID,
		Status:            domain.TaskStatus(args.Peek("status")),
		Category:          string(args.Peek("category")),
		RelatedStatusType: domain.StatusType(args.Peek("related_status_type")),
		Limit:             parseInt(args.Peek("limit"), defaultTaskLimit),
		Offset:            parseInt(args.Peek("offset"), 0),
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultTaskLimit
	}
	filter.Limit = repository.ClampLimit(filter.Limit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	if filter.Status != "" && !filter.Status.Valid() {
		h.invalid(ctx, "invalid status")
		return filter, false
	}
	if filter.RelatedStatusType != "" && !filter.RelatedStatusType.Valid() {
		h.invalid(ctx, "invalid related_status_type")
		return filter, false
	}
	if raw := args.Peek("is_daily_top"); len(raw) > 0 {
		top, err := strconv.ParseBool(string(raw))
		if err != nil {
			h.invalid(ctx, "invalid is_daily_top")
			return filter, false
		}
		filter.DailyTop = &top
	}
	return filter, true
}
