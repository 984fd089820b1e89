package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/services"
)

type ImportHandler struct {
	log           *logger.Logger
	importService services.ImportService
}

func NewImportHandler(log *logger.Logger, importService services.ImportService) *ImportHandler {
	return &ImportHandler{
		log:           log.With("handler", "ImportHandler"),
		importService: importService,
	}
}

// Preview accepts the raw delimited payload as the request body and returns
// provisional rows plus skip counts. Nothing is written here.
func (h *ImportHandler) Preview(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_payload", err)
		return
	}
	preview, err := h.importService.Preview(c.Request.Context(), payload)
	if err != nil {
		h.log.Warn("Preview failed", "error", err)
		RespondError(c, statusFor(err), "import_preview_failed", err)
		return
	}
	RespondOK(c, preview)
}

type importCommitRequest struct {
	Rows   []services.ImportRow `json:"rows" binding:"required"`
	Author string               `json:"author"`
}

// Commit writes the rows the operator confirmed, possibly after inline
// edits to date, description or priority.
func (h *ImportHandler) Commit(c *gin.Context) {
	var req importCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.importService.Commit(c.Request.Context(), req.Rows, req.Author)
	if err != nil {
		var partial *apperrors.PartialBatchError
		if errors.As(err, &partial) {
			c.JSON(http.StatusOK, gin.H{"result": result, "batch_error": partial.Error()})
			return
		}
		h.log.Warn("Commit failed", "error", err)
		RespondError(c, statusFor(err), "import_commit_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}
