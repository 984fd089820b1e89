package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/vbarroso/manutencao-backend/internal/pkg/errors"
	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/services"
)

type PlanningHandler struct {
	log              *logger.Logger
	planningService  services.PlanningService
	generatorService services.GeneratorService
}

func NewPlanningHandler(log *logger.Logger, planningService services.PlanningService, generatorService services.GeneratorService) *PlanningHandler {
	return &PlanningHandler{
		log:              log.With("handler", "PlanningHandler"),
		planningService:  planningService,
		generatorService: generatorService,
	}
}

func yearParam(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year <= 0 {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	return year, nil
}

func (h *PlanningHandler) GetGrid(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	grid, err := h.planningService.Grid(c.Request.Context(), year, c.Query("location"))
	if err != nil {
		h.log.Error("GetGrid failed", "error", err, "year", year)
		RespondError(c, statusFor(err), "load_grid_failed", err)
		return
	}
	RespondOK(c, grid)
}

func (h *PlanningHandler) ExportGridCSV(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="plano_manutencao_%d.csv"`, year))
	if err := h.planningService.GridCSV(c.Request.Context(), c.Writer, year, c.Query("location")); err != nil {
		h.log.Error("ExportGridCSV failed", "error", err, "year", year)
		RespondError(c, statusFor(err), "export_grid_failed", err)
	}
}

type generateRequest struct {
	Year     int    `json:"year" binding:"required"`
	Location string `json:"location"`
	Weeks    []int  `json:"weeks" binding:"required"`
	Author   string `json:"author"`
}

// respondGenerate reports counts even when a batch failed partway: prior
// batches stay committed and the operator retries from the counts shown.
func (h *PlanningHandler) respondGenerate(c *gin.Context, result *services.GenerateResult, err error) {
	if err != nil {
		var partial *apperrors.PartialBatchError
		if errors.As(err, &partial) {
			c.JSON(http.StatusOK, gin.H{"result": result, "batch_error": partial.Error()})
			return
		}
		RespondError(c, statusFor(err), "generate_failed", err)
		return
	}
	RespondOK(c, gin.H{"result": result})
}

func (h *PlanningHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.generatorService.Generate(c.Request.Context(), req.Year, req.Location, req.Weeks, req.Author)
	if err != nil && result == nil {
		h.log.Error("Generate failed", "error", err, "year", req.Year)
	}
	h.respondGenerate(c, result, err)
}

type generateCellRequest struct {
	Year    int       `json:"year" binding:"required"`
	AssetID uuid.UUID `json:"asset_id" binding:"required"`
	Week    *int      `json:"week" binding:"required"`
	Author  string    `json:"author"`
}

func (h *PlanningHandler) GenerateCell(c *gin.Context) {
	var req generateCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := h.generatorService.GenerateCell(c.Request.Context(), req.Year, req.AssetID, *req.Week, req.Author)
	h.respondGenerate(c, result, err)
}
