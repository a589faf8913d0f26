package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/pkg/httpcontext"
	"github.com/fastygo/questlog/repository"
	activityUC "github.com/fastygo/questlog/usecase/activity"
)

type ActivityHandler struct {
	baseHandler
	uc *activityUC.UseCase
}

func NewActivityHandler(uc *activityUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Activity journal
// @Tags activity
// @Param kind query string false "event kind"
// @Param limit query int false "max events"
// @Router /api/v1/activity/ [get]
func (h *ActivityHandler) ListActivity(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	args := ctx.QueryArgs()
	filter := repository.ActivityFilter{
		UserID: userID,
		Kind:   domain.ActivityKind(args.Peek("kind")),
		Limit:  repository.ClampLimit(parseInt(args.Peek("limit"), 0)),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	events, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, events)
}
