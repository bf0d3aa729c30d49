package handler

import (
	"github.com/gin-gonic/gin"

	tradeapp "github.com/simpro/backend/internal/application/trade"
)

// SaleOrderHandler serves sale orders and their due dates
type SaleOrderHandler struct {
	BaseHandler
	svc *tradeapp.SaleOrderService
}

// NewSaleOrderHandler creates a new SaleOrderHandler
func NewSaleOrderHandler(svc *tradeapp.SaleOrderService) *SaleOrderHandler {
	return &SaleOrderHandler{svc: svc}
}

// List returns every order of the account
func (h *SaleOrderHandler) List(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	orders, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, len(orders))
}

// Create records an order. A paid order also gets its receipt.
func (h *SaleOrderHandler) Create(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req tradeapp.CreateSaleOrderRequest
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

// Delete removes an order. Its receipts stay.
func (h *SaleOrderHandler) Delete(c *gin.Context) {
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

// ExtendDueDate moves the due date of an order and logs the reason
func (h *SaleOrderHandler) ExtendDueDate(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req tradeapp.ExtendDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	result, err := h.svc.ExtendDueDate(c.Request.Context(), accountID, c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// DueDateLogs lists the due-date changes of an order
func (h *SaleOrderHandler) DueDateLogs(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	logs, err := h.svc.DueDateLogs(c.Request.Context(), accountID, c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, logs, len(logs))
}
