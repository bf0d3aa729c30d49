package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/simpro/backend/internal/application/inventory"
)

// SimPackageHandler serves purchase batches
type SimPackageHandler struct {
	BaseHandler
	svc *inventoryapp.SimPackageService
}

// NewSimPackageHandler creates a new SimPackageHandler
func NewSimPackageHandler(svc *inventoryapp.SimPackageService) *SimPackageHandler {
	return &SimPackageHandler{svc: svc}
}

// List returns every batch of the account
func (h *SimPackageHandler) List(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	packages, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, packages, len(packages))
}

// Create stores a batch and, unless bought on credit, its payment.
// A payment that could not be written is reported in warnings.
func (h *SimPackageHandler) Create(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req inventoryapp.CreateSimPackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.svc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Delete removes a batch
func (h *SimPackageHandler) Delete(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), accountID, c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
