package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/simpro/backend/internal/domain/report"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// SnapshotSource hands out the current snapshot of an account
type SnapshotSource interface {
	Snapshot(ctx context.Context, accountID uuid.UUID) (*snapshot.Snapshot, error)
}

// DashboardRequest is an optional inclusive date range
type DashboardRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ReportService runs the aggregators over the account snapshot
type ReportService struct {
	snapshots  SnapshotSource
	thresholds report.DashboardThresholds
	loc        *time.Location
	now        func() time.Time
}

// NewReportService creates a new ReportService. loc is the business time zone.
func NewReportService(snapshots SnapshotSource, thresholds report.DashboardThresholds, loc *time.Location) *ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportService{snapshots: snapshots, thresholds: thresholds, loc: loc, now: time.Now}
}

// Now is the current instant in the business time zone
func (s *ReportService) Now() time.Time {
	return s.now().In(s.loc)
}

// Today is the current calendar day in the business time zone
func (s *ReportService) Today() time.Time {
	return shared.StartOfDay(s.Now())
}

func (s *ReportService) derive(ctx context.Context, accountID uuid.UUID) (*snapshot.Snapshot, snapshot.Derived, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "derive", telemetry.AttrAccountID, accountID)
	defer span.End()

	snap, err := s.snapshots.Snapshot(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, snapshot.Derived{}, fmt.Errorf("load account snapshot: %w", err)
	}
	return snap, snap.Derive(s.Now()), nil
}

// Inventory returns stock and cost per SIM type
func (s *ReportService) Inventory(ctx context.Context, accountID uuid.UUID) ([]report.InventoryProductStat, error) {
	_, d, err := s.derive(ctx, accountID)
	return d.Inventory, err
}

// Orders returns every order with profit and receivable figures
func (s *ReportService) Orders(ctx context.Context, accountID uuid.UUID) ([]report.SaleOrderWithStats, error) {
	_, d, err := s.derive(ctx, accountID)
	return d.Orders, err
}

// Customers returns every customer with debt and credit figures
func (s *ReportService) Customers(ctx context.Context, accountID uuid.UUID) ([]report.CustomerWithStats, error) {
	_, d, err := s.derive(ctx, accountID)
	return d.Customers, err
}

// Dashboard returns the control-center summary for an optional date range
func (s *ReportService) Dashboard(ctx context.Context, accountID uuid.UUID, req DashboardRequest) (*report.Dashboard, error) {
	for _, date := range []string{req.From, req.To} {
		if date == "" {
			continue
		}
		if err := shared.ValidateDate(date); err != nil {
			return nil, err
		}
	}
	if req.From != "" && req.To != "" && req.From > req.To {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "from must not be after to")
	}

	snap, d, err := s.derive(ctx, accountID)
	if err != nil {
		return nil, err
	}
	dashboard := report.BuildDashboard(report.DashboardInput{
		Inventory:    d.Inventory,
		Orders:       d.Orders,
		Customers:    d.Customers,
		Transactions: snap.Data.Transactions,
		From:         req.From,
		To:           req.To,
		Today:        s.Today(),
		Thresholds:   s.thresholds,
	})
	return &dashboard, nil
}
