package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

type ProjectsHandler struct {
	manager *lifecycle.Manager
	logger  *zap.Logger
}

func NewProjectsHandler(manager *lifecycle.Manager, logger *zap.Logger) *ProjectsHandler {
	return &ProjectsHandler{
		manager: manager,
		logger:  logger,
	}
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns the caller's projects, newest first. Admins see every project.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.ProjectListResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	projects, err := h.manager.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	summaries := make([]models.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, models.ProjectSummary{
			ID:        p.ID.String(),
			Title:     p.Title,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
			UpdatedAt: p.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: summaries})
}

// GetProject godoc
// @Summary     Get project details
// @Description Returns the project with its specification and files.
// @Tags        projects
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [get]
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	projectID, ok := pathUUID(c, "project_id", "project")
	if !ok {
		return
	}

	project, err := h.manager.GetProject(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FromProject(project))
}

// AssignDeveloper godoc
// @Summary     Assign a developer
// @Description Admin only. A null developer_id clears the assignment.
// @Tags        projects
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       request body models.AssignDeveloperRequest true "Developer"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id}/developer [patch]
func (h *ProjectsHandler) AssignDeveloper(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}

	projectID, ok := pathUUID(c, "project_id", "project")
	if !ok {
		return
	}

	var req models.AssignDeveloperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	var developerID uuid.NullUUID
	if req.DeveloperID != nil {
		id, ok := parseUUID(c, *req.DeveloperID, "developer")
		if !ok {
			return
		}
		developerID = uuid.NullUUID{UUID: id, Valid: true}
	}

	project, err := h.manager.AssignDeveloper(c.Request.Context(), projectID, developerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FromProject(project))
}
