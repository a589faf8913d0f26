package handler

import (
	"context"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/questlog/api/transport"
	"github.com/fastygo/questlog/domain"
	"github.com/fastygo/questlog/pkg/httpcontext"
	profileUC "github.com/fastygo/questlog/usecase/profile"
)

// ProfileHandler serves the progression resources: profiles, status tracks and achievements.
type ProfileHandler struct {
	baseHandler
	uc *profileUC.UseCase
}

func NewProfileHandler(uc *profileUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Current user's profile and status tracks
// @Tags profile
// @Success 200 {object} transport.Envelope
// @Router /api/v1/user-profile/ [get]
func (h *ProfileHandler) GetSummary(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, false, http.StatusOK, func(c context.Context, userID, _ string) (interface{}, error) {
		return h.uc.GetSummary(c, userID)
	})
}

// @Summary List profiles
// @Tags profile
// @Router /api/v1/profiles/ [get]
func (h *ProfileHandler) ListProfiles(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, false, http.StatusOK, func(c context.Context, userID, _ string) (interface{}, error) {
		return h.uc.ListProfiles(c, userID)
	})
}

// @Summary Get profile
// @Tags profile
// @Router /api/v1/profiles/{id}/ [get]
func (h *ProfileHandler) GetProfile(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.GetProfile(c, userID, id)
	})
}

// @Summary Create profile
// @Tags profile
// @Router /api/v1/profiles/ [post]
func (h *ProfileHandler) CreateProfile(ctx *fasthttp.RequestCtx) {
	var req transport.ProfileRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.serve(ctx, false, http.StatusCreated, func(c context.Context, userID, _ string) (interface{}, error) {
		profile := &domain.UserProfile{}
		if err := req.Apply(profile); err != nil {
			return nil, err
		}
		return h.uc.CreateProfile(c, userID, profile)
	})
}

// @Summary Update profile
// @Tags profile
// @Router /api/v1/profiles/{id}/ [put]
// @Router /api/v1/profiles/{id}/ [patch]
func (h *ProfileHandler) UpdateProfile(ctx *fasthttp.RequestCtx) {
	var req transport.ProfileRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.UpdateProfile(c, userID, id, req.Apply)
	})
}

// @Summary Delete profile
// @Tags profile
// @Router /api/v1/profiles/{id}/ [delete]
func (h *ProfileHandler) DeleteProfile(ctx *fasthttp.RequestCtx) {
	h.serveDelete(ctx, h.uc.DeleteProfile)
}

// @Summary List status tracks
// @Tags status
// @Router /api/v1/statuses/ [get]
func (h *ProfileHandler) ListStatuses(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, false, http.StatusOK, func(c context.Context, userID, _ string) (interface{}, error) {
		return h.uc.ListStatuses(c, userID)
	})
}

// @Summary Get status track
// @Tags status
// @Router /api/v1/statuses/{id}/ [get]
func (h *ProfileHandler) GetStatus(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.GetStatus(c, userID, id)
	})
}

// @Summary Create status track
// @Tags status
// @Router /api/v1/statuses/ [post]
func (h *ProfileHandler) CreateStatus(ctx *fasthttp.RequestCtx) {
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.serve(ctx, false, http.StatusCreated, func(c context.Context, userID, _ string) (interface{}, error) {
		status := &domain.UserStatus{}
		if err := req.Apply(status); err != nil {
			return nil, err
		}
		return h.uc.CreateStatus(c, userID, status)
	})
}

// @Summary Replace status track
// @Tags status
// @Router /api/v1/statuses/{id}/ [put]
func (h *ProfileHandler) ReplaceStatus(ctx *fasthttp.RequestCtx) {
	h.updateStatus(ctx, false)
}

// @Summary Update status track fields
// @Tags status
// @Router /api/v1/statuses/{id}/ [patch]
func (h *ProfileHandler) UpdateStatus(ctx *fasthttp.RequestCtx) {
	h.updateStatus(ctx, true)
}

func (h *ProfileHandler) updateStatus(ctx *fasthttp.RequestCtx, partial bool) {
	var req transport.StatusRequest
	if !h.decode(ctx, &req) {
		return
	}
	if !partial && !req.StatusType.Set {
		h.invalid(ctx, "status_type is required")
		return
	}
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.UpdateStatus(c, userID, id, req.Apply)
	})
}

// @Summary Delete status track
// @Tags status
// @Router /api/v1/statuses/{id}/ [delete]
func (h *ProfileHandler) DeleteStatus(ctx *fasthttp.RequestCtx) {
	h.serveDelete(ctx, h.uc.DeleteStatus)
}

// @Summary List achievements
// @Tags achievements
// @Router /api/v1/achievements/ [get]
func (h *ProfileHandler) ListAchievements(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, false, http.StatusOK, func(c context.Context, userID, _ string) (interface{}, error) {
		return h.uc.ListAchievements(c, userID)
	})
}

// @Summary Get achievement
// @Tags achievements
// @Router /api/v1/achievements/{id}/ [get]
func (h *ProfileHandler) GetAchievement(ctx *fasthttp.RequestCtx) {
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.GetAchievement(c, userID, id)
	})
}

// @Summary Create achievement
// @Tags achievements
// @Router /api/v1/achievements/ [post]
func (h *ProfileHandler) CreateAchievement(ctx *fasthttp.RequestCtx) {
	var req transport.AchievementRequest
	if !h.decode(ctx, &req) {
		return
	}
	h.serve(ctx, false, http.StatusCreated, func(c context.Context, userID, _ string) (interface{}, error) {
		achievement := &domain.Achievement{}
		if err := req.Apply(achievement); err != nil {
			return nil, err
		}
		return h.uc.CreateAchievement(c, userID, achievement)
	})
}

// @Summary Replace achievement
// @Tags achievements
// @Router /api/v1/achievements/{id}/ [put]
func (h *ProfileHandler) ReplaceAchievement(ctx *fasthttp.RequestCtx) {
	h.updateAchievement(ctx, false)
}

// @Summary Update achievement fields
// @Tags achievements
// @Router /api/v1/achievements/{id}/ [patch]
func (h *ProfileHandler) UpdateAchievement(ctx *fasthttp.RequestCtx) {
	h.updateAchievement(ctx, true)
}

func (h *ProfileHandler) updateAchievement(ctx *fasthttp.RequestCtx, partial bool) {
	var req transport.AchievementRequest
	if !h.decode(ctx, &req) {
		return
	}
	if !partial && !(req.Name.Set && req.Description.Set) {
		h.invalid(ctx, "name and description are required")
		return
	}
	h.serve(ctx, true, http.StatusOK, func(c context.Context, userID, id string) (interface{}, error) {
		return h.uc.UpdateAchievement(c, userID, id, req.Apply)
	})
}

// @Summary Delete achievement
// @Tags achievements
// @Router /api/v1/achievements/{id}/ [delete]
func (h *ProfileHandler) DeleteAchievement(ctx *fasthttp.RequestCtx) {
	h.serveDelete(ctx, h.uc.DeleteAchievement)
}

// serve resolves the caller (and the {id} parameter when withID is set), runs fn and writes its result.
func (h *ProfileHandler) serve(ctx *fasthttp.RequestCtx, withID bool, status int, fn func(c context.Context, userID, id string) (interface{}, error)) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	var id string
	if withID {
		if id = h.pathID(ctx); id == "" {
			return
		}
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := fn(stdCtx, userID, id)
	if err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondSuccess(ctx, status, result)
}

func (h *ProfileHandler) serveDelete(ctx *fasthttp.RequestCtx, del func(c context.Context, userID, id string) error) {
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

	if err := del(stdCtx, userID, id); err != nil {
		h.respondError(stdCtx, ctx, err)
		return
	}
	h.respondNoContent(ctx)
}
