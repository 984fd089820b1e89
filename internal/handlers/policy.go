package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vbarroso/manutencao-backend/internal/pkg/logger"
	"github.com/vbarroso/manutencao-backend/internal/services"
)

type PolicyHandler struct {
	log           *logger.Logger
	policyService services.PolicyService
}

func NewPolicyHandler(log *logger.Logger, policyService services.PolicyService) *PolicyHandler {
	return &PolicyHandler{
		log:           log.With("handler", "PolicyHandler"),
		policyService: policyService,
	}
}

func (h *PolicyHandler) ListActive(c *gin.Context) {
	year, err := yearParam(c)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_year", err)
		return
	}
	policies, err := h.policyService.ListActive(c.Request.Context(), year)
	if err != nil {
		h.log.Error("ListActive failed", "error", err, "year", year)
		RespondError(c, statusFor(err), "load_policies_failed", err)
		return
	}
	RespondOK(c, gin.H{"policies": policies})
}

func (h *PolicyHandler) Upsert(c *gin.Context) {
	var req services.UpsertPolicyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	policy, err := h.policyService.Upsert(c.Request.Context(), req)
	if err != nil {
		h.log.Warn("Upsert failed", "error", err, "location", req.Location, "year", req.Year)
		RespondError(c, statusFor(err), "upsert_policy_failed", err)
		return
	}
	RespondOK(c, gin.H{"policy": policy})
}
