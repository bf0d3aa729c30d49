package handler

import (
	"github.com/gin-gonic/gin"

	financeapp "github.com/simpro/backend/internal/application/finance"
)

// TransactionHandler serves the cash book
type TransactionHandler struct {
	BaseHandler
	svc *financeapp.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(svc *financeapp.TransactionService) *TransactionHandler {
	return &TransactionHandler{svc: svc}
}

// List returns every transaction of the account
func (h *TransactionHandler) List(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	txs, err := h.svc.List(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, txs, len(txs))
}

// Create records a manual cash movement
func (h *TransactionHandler) Create(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req financeapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tx, err := h.svc.Create(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tx)
}

// Delete removes a transaction
func (h *TransactionHandler) Delete(c *gin.Context) {
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

// Balances returns IN minus OUT per payment method
func (h *TransactionHandler) Balances(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	balances, err := h.svc.Balances(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}
