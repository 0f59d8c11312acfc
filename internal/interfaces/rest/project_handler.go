package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/atlaserp/backend/internal/application/services"
)

// ProjectHandler serves projects, tasks and progress tracking.
type ProjectHandler struct {
	projects *services.ProjectService
}

func NewProjectHandler(projects *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.ProjectRequest
	if !BindJSON(c, &req) {
		return
	}
	project, err := h.projects.Create(c.Request.Context(), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "project", "Project created", project)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	project, err := h.projects.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "project", project)
}

func (h *ProjectHandler) List(c *gin.Context) {
	limit, offset := ParsePagination(c)
	projects, err := h.projects.List(c.Request.Context(), limit, offset)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "projects", projects)
}

func (h *ProjectHandler) Update(c *gin.Context) {
	var updates map[string]interface{}
	if !BindJSON(c, &updates) {
		return
	}
	if err := h.projects.Update(c.Request.Context(), c.Param("id"), updates); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Project updated")
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projects.Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Project deleted")
}

// ---- tasks ----

func (h *ProjectHandler) AddTask(c *gin.Context) {
	var req services.TaskRequest
	if !BindJSON(c, &req) {
		return
	}
	task, err := h.projects.AddTask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondCreated(c, "task", "Task added", task)
}

func (h *ProjectHandler) GetTasks(c *gin.Context) {
	tasks, err := h.projects.ListTasks(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "tasks", tasks)
}

// SetTaskStatus handles POST /api/projects/tasks/:taskId/status
func (h *ProjectHandler) SetTaskStatus(c *gin.Context) {
	var req statusRequest
	if !BindJSON(c, &req) {
		return
	}
	if err := h.projects.SetTaskStatus(c.Request.Context(), c.Param("taskId"), req.Status); err != nil {
		RespondAppError(c, err)
		return
	}
	RespondMessage(c, "Task status updated")
}

// GetProgress handles GET /api/projects/:id/progress
func (h *ProjectHandler) GetProgress(c *gin.Context) {
	progress, err := h.projects.Progress(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondAppError(c, err)
		return
	}
	RespondOK(c, "progress", progress)
}
