package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/simpro/backend/internal/application/partner"
)

// CustomerHandler serves the customer book
type CustomerHandler struct {
	BaseHandler
	svc *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(svc *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// List returns every customer of the account
func (h *CustomerHandler) List(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	customers, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, customers, len(customers))
}

// Create adds a customer and derives its CID
func (h *CustomerHandler) Create(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	customer, err := h.svc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Update replaces the editable fields of a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req partnerapp.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	customer, err := h.svc.Update(c.Request.Context(), accountID, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete removes a customer that owes nothing
func (h *CustomerHandler) Delete(c *gin.Context) {
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

// Stats returns one customer with its order count and debt
func (h *CustomerHandler) Stats(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	stats, err := h.svc.Stats(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
