package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/simpro/backend/internal/application/catalog"
)

// SimTypeHandler serves the SIM product catalog
type SimTypeHandler struct {
	BaseHandler
	svc *catalogapp.SimTypeService
}

// NewSimTypeHandler creates a new SimTypeHandler
func NewSimTypeHandler(svc *catalogapp.SimTypeService) *SimTypeHandler {
	return &SimTypeHandler{svc: svc}
}

// List returns every SIM type of the account
func (h *SimTypeHandler) List(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	types, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, types, len(types))
}

// Create adds a SIM type
func (h *SimTypeHandler) Create(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req catalogapp.CreateSimTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	st, err := h.svc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, st)
}

// Delete removes a SIM type. Batches and orders referring to it keep the id.
func (h *SimTypeHandler) Delete(c *gin.Context) {
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
