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

const maxUploadSize = 10 << 20

// ProofUploader stores a payment proof and returns its public URL.
type ProofUploader interface {
	UploadEstimateProof(estimateID uuid.UUID, filename, contentType string, data io.Reader) (string, error)
}

type UploadHandler struct {
	manager *lifecycle.Manager
	storage ProofUploader
	logger  *zap.Logger
}

func NewUploadHandler(manager *lifecycle.Manager, storage ProofUploader, logger *zap.Logger) *UploadHandler {
	return &UploadHandler{
		manager: manager,
		storage: storage,
		logger:  logger,
	}
}

// UploadProof godoc
// @Summary     Upload payment proof
// @Description Stores a bank transfer receipt for the estimate and moves it, its project and its order to waiting_verification.
// @Tags        estimates
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       estimate_id path string true "Estimate ID (UUID)"
// @Param       proof formData file true "Receipt (max 10MB)"
// @Success     200 {object} models.EstimateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /estimates/{estimate_id}/proof [post]
func (h *UploadHandler) UploadProof(c *gin.Context) {
	if h.manager == nil {
		managerUnavailable(c)
		return
	}
	if h.storage == nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "storage not available"})
		return
	}

	estimateID, ok := pathUUID(c, "estimate_id", "estimate")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	fileHeader, err := c.FormFile("proof")
	if err != nil {
		badRequest(c, "proof file is required", err)
		return
	}

	upload := func(e *models.Estimate) (string, error) {
		file, err := fileHeader.Open()
		if err != nil {
			return "", err
		}
		defer file.Close()
		return h.storage.UploadEstimateProof(e.ID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), file)
	}

	t, err := h.manager.SubmitPaymentProof(c.Request.Context(), estimateID, upload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, models.FromEstimate(t.Estimate))
}
