package report

import (
	"github.com/shopspring/decimal"
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/finance"
	"github.com/simpro/backend/internal/domain/inventory"
	"github.com/simpro/backend/internal/domain/partner"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/trade"
)

func simType(id, name string) catalog.SimType {
	return catalog.SimType{BaseEntity: shared.BaseEntity{ID: id}, Name: name}
}

func batch(id, typeID string, qty int64, price int64, importDate string) inventory.SimPackage {
	return inventory.SimPackage{
		BaseEntity:       shared.BaseEntity{ID: id},
		Code:             "LO-" + id,
		SimTypeID:        typeID,
		ImportDate:       importDate,
		Quantity:         qty,
		TotalImportPrice: decimal.NewFromInt(price),
	}
}

func order(id, typeID, packageID string, qty, price int64) trade.SaleOrder {
	return trade.SaleOrder{
		BaseEntity:   shared.BaseEntity{ID: id},
		Code:         "SO-" + id,
		Date:         "2024-05-01",
		AgentName:    "Khách lẻ",
		SaleType:     trade.SaleTypeRetail,
		SimTypeID:    typeID,
		SimPackageID: packageID,
		Quantity:     qty,
		SalePrice:    decimal.NewFromInt(price),
		DueDate:      "2024-05-01",
	}
}

func cashIn(orderID string, amount int64) finance.Transaction {
	return finance.Transaction{
		BaseEntity:  shared.BaseEntity{ID: "in-" + orderID},
		Type:        finance.TransactionTypeIn,
		Method:      finance.PaymentMethodCash,
		Amount:      decimal.NewFromInt(amount),
		SaleOrderID: orderID,
		Date:        "2024-05-01",
	}
}

func cashOut(packageID string, amount int64) finance.Transaction {
	return finance.Transaction{
		BaseEntity:   shared.BaseEntity{ID: "out-" + packageID},
		Type:         finance.TransactionTypeOut,
		Method:       finance.PaymentMethodTransfer,
		Amount:       decimal.NewFromInt(amount),
		SimPackageID: packageID,
		Date:         "2024-05-01",
	}
}

func customer(id, name string) partner.Customer {
	return partner.Customer{BaseEntity: shared.BaseEntity{ID: id}, Name: name, Type: partner.CustomerTypeWholesale}
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
