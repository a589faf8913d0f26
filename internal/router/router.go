package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/questlog/api/handler"
)

const apiPrefix = "/api/v1"

type Handlers struct {
	Task      *apiHandler.TaskHandler
	Dashboard *apiHandler.DashboardHandler
	Profile   *apiHandler.ProfileHandler
	Activity  *apiHandler.ActivityHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()
	r.RedirectTrailingSlash = false

	r.GET("/health", handlers.Health.Check)

	api := r.Group(apiPrefix)
	protected := func(method, path string, h fasthttp.RequestHandler) {
		api.Handle(method, path, authMiddleware(h))
	}

	// Tasks
	protected(fasthttp.MethodGet, "/tasks/", handlers.Task.ListTasks)
	protected(fasthttp.MethodPost, "/tasks/", handlers.Task.CreateTask)
	protected(fasthttp.MethodGet, "/tasks/{id}/", handlers.Task.GetTask)
	protected(fasthttp.MethodPut, "/tasks/{id}/", handlers.Task.UpdateTask)
	protected(fasthttp.MethodPatch, "/tasks/{id}/", handlers.Task.PatchTask)
	protected(fasthttp.MethodDelete, "/tasks/{id}/", handlers.Task.DeleteTask)
	protected(fasthttp.MethodPost, "/tasks/{id}/complete/", handlers.Task.CompleteTask)
	protected(fasthttp.MethodPost, "/tasks/{id}/snooze/", handlers.Task.SnoozeTask)
	protected(fasthttp.MethodGet, "/dashboard-tasks/", handlers.Dashboard.GetDashboard)

	// Progression
	protected(fasthttp.MethodGet, "/user-profile/", handlers.Profile.GetSummary)

	protected(fasthttp.MethodGet, "/profiles/", handlers.Profile.ListProfiles)
	protected(fasthttp.MethodPost, "/profiles/", handlers.Profile.CreateProfile)
	protected(fasthttp.MethodGet, "/profiles/{id}/", handlers.Profile.GetProfile)
	protected(fasthttp.MethodPut, "/profiles/{id}/", handlers.Profile.UpdateProfile)
	protected(fasthttp.MethodPatch, "/profiles/{id}/", handlers.Profile.UpdateProfile)
	protected(fasthttp.MethodDelete, "/profiles/{id}/", handlers.Profile.DeleteProfile)

	protected(fasthttp.MethodGet, "/statuses/", handlers.Profile.ListStatuses)
	protected(fasthttp.MethodPost, "/statuses/", handlers.Profile.CreateStatus)
	protected(fasthttp.MethodGet, "/statuses/{id}/", handlers.Profile.GetStatus)
	protected(fasthttp.MethodPut, "/statuses/{id}/", handlers.Profile.ReplaceStatus)
	protected(fasthttp.MethodPatch, "/statuses/{id}/", handlers.Profile.UpdateStatus)
	protected(fasthttp.MethodDelete, "/statuses/{id}/", handlers.Profile.DeleteStatus)

	protected(fasthttp.MethodGet, "/achievements/", handlers.Profile.ListAchievements)
	protected(fasthttp.MethodPost, "/achievements/", handlers.Profile.CreateAchievement)
	protected(fasthttp.MethodGet, "/achievements/{id}/", handlers.Profile.GetAchievement)
	protected(fasthttp.MethodPut, "/achievements/{id}/", handlers.Profile.ReplaceAchievement)
	protected(fasthttp.MethodPatch, "/achievements/{id}/", handlers.Profile.UpdateAchievement)
	protected(fasthttp.MethodDelete, "/achievements/{id}/", handlers.Profile.DeleteAchievement)

	// Journal
	protected(fasthttp.MethodGet, "/activity/", handlers.Activity.ListActivity)

	return r
}
