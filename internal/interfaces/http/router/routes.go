package router

import (
	"github.com/gin-gonic/gin"

	"github.com/simpro/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API serves
type Handlers struct {
	SimTypes     *handler.SimTypeHandler
	SimPackages  *handler.SimPackageHandler
	SaleOrders   *handler.SaleOrderHandler
	Transactions *handler.TransactionHandler
	Customers    *handler.CustomerHandler
	Reports      *handler.ReportHandler
	Data         *handler.DataHandler
	Changes      *handler.ChangeHandler
	Health       *handler.HealthHandler
}

// DomainGroups returns one resource group per aggregate of the API
func DomainGroups(h Handlers) []RouteRegistrar {
	simTypes := NewResourceGroup("/sim-types")
	simTypes.GET("", h.SimTypes.List)
	simTypes.POST("", h.SimTypes.Create)
	simTypes.DELETE("/:id", h.SimTypes.Delete)

	packages := NewResourceGroup("/packages")
	packages.GET("", h.SimPackages.List)
	packages.POST("", h.SimPackages.Create)
	packages.DELETE("/:id", h.SimPackages.Delete)

	orders := NewResourceGroup("/orders")
	orders.GET("", h.SaleOrders.List)
	orders.POST("", h.SaleOrders.Create)
	orders.DELETE("/:id", h.SaleOrders.Delete)
	orders.POST("/:id/extend-due-date", h.SaleOrders.ExtendDueDate)
	orders.GET("/:id/due-date-logs", h.SaleOrders.DueDateLogs)

	transactions := NewResourceGroup("/transactions")
	transactions.GET("", h.Transactions.List)
	transactions.POST("", h.Transactions.Create)
	transactions.GET("/balances", h.Transactions.Balances)
	transactions.DELETE("/:id", h.Transactions.Delete)

	customers := NewResourceGroup("/customers")
	customers.GET("", h.Customers.List)
	customers.POST("", h.Customers.Create)
	customers.PUT("/:id", h.Customers.Update)
	customers.DELETE("/:id", h.Customers.Delete)
	customers.GET("/:id/stats", h.Customers.Stats)

	reports := NewResourceGroup("/reports")
	reports.GET("/inventory", h.Reports.Inventory)
	reports.GET("/orders", h.Reports.Orders)
	reports.GET("/customers", h.Reports.Customers)
	reports.GET("/dashboard", h.Reports.Dashboard)

	data := NewResourceGroup("/data")
	data.GET("/export", h.Data.ExportWorkbook)
	data.GET("/export.json", h.Data.ExportJSON)
	data.POST("/import", h.Data.Import)
	data.GET("/restore-runs", h.Data.RestoreRuns)
	backups := data.Nest("/backups")
	backups.GET("", h.Data.ListBackups)
	backups.POST("", h.Data.Backup)
	backups.POST("/restore", h.Data.Restore)

	changes := NewResourceGroup("/changes")
	changes.GET("/ws", h.Changes.Stream)

	return []RouteRegistrar{simTypes, packages, orders, transactions, customers, reports, data, changes}
}

// RegisterHealth mounts the probes outside the versioned API so they skip
// account resolution
func RegisterHealth(engine *gin.Engine, h *handler.HealthHandler) {
	engine.GET("/health", h.Health)
	engine.GET("/health/live", h.Live)
}
