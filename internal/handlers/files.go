package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"agency-backend/internal/lifecycle"
	"agency-backend/internal/models"
)

type FileUploader interface {
	UploadProjectFile(projectID uuid.UUID, filename, contentType string, data io.Reader) (string, error)
}

type FilesHandler struct {
	manager *lifecycle.Manager
	storage FileUploader
	logger  *zap.Logger
}

func NewFilesHandler(manager *lifecycle.Manager, storage FileUploader, logger *zap.Logger) *FilesHandler {
	return &FilesHandler{
		manager: manager,
		storage: storage,
		logger:  logger,
	}
}

// UploadFile godoc
// @Summary     Attach a file to a project
// @Description Uploads a deliverable and appends it to the project's file list. Requires the projects:files:write permission.
// @Tags        projects
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       project_id path string true "Project ID (UUID)"
// @Param       file formData file true "File (max 10MB)"
// @Success     201 {object} models.ProjectFile
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects/{project_id}/files [post]
func (h *FilesHandler) UploadFile(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}
	if h.storage == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	projectID, ok := pathUUID(c, "project_id", "project")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "file is required", err)
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")

	upload := func(p *models.Project) (string, error) {
		file, err := fileHeader.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		return h.storage.UploadProjectFile(p.ID, fileHeader.Filename, contentType, file)
	}

	f, err := h.manager.AddProjectFile(c.Request.Context(), projectID, fileHeader.Filename, contentType, upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, f)
}
