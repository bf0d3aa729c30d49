package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/simpro/backend/internal/application/report"
)

// ReportHandler serves the derived views
type ReportHandler struct {
	BaseHandler
	svc *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(svc *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Inventory returns stock, cost and payables per SIM type
func (h *ReportHandler) Inventory(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	stats, err := h.svc.Inventory(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, stats, len(stats))
}

// Orders returns every order with its paid, remaining and profit figures
func (h *ReportHandler) Orders(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	orders, err := h.svc.Orders(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, orders, len(orders))
}

// Customers returns every customer with debt figures
func (h *ReportHandler) Customers(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	customers, err := h.svc.Customers(c.Request.Context(), accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessList(c, customers, len(customers))
}

// Dashboard returns the KPI summary, optionally limited to ?from=&to= (YYYY-MM-DD)
func (h *ReportHandler) Dashboard(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	var req reportapp.DashboardRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	dashboard, err := h.svc.Dashboard(c.Request.Context(), accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dashboard)
}
