package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/catalog"
	"github.com/simpro/backend/internal/domain/snapshot"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// SimTypeService handles SIM type operations
type SimTypeService struct {
	repo     catalog.SimTypeRepository
	notifier *appsync.Notifier
}

// NewSimTypeService creates a new SimTypeService
func NewSimTypeService(repo catalog.SimTypeRepository, notifier *appsync.Notifier) *SimTypeService {
	return &SimTypeService{repo: repo, notifier: notifier}
}

// List returns every SIM type of the account in creation order
func (s *SimTypeService) List(ctx context.Context, accountID uuid.UUID) ([]catalog.SimType, error) {
	return s.repo.FindAll(ctx, accountID)
}

// Create adds a SIM type
func (s *SimTypeService) Create(ctx context.Context, accountID uuid.UUID, req CreateSimTypeRequest) (*catalog.SimType, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sim_type", "create", telemetry.AttrAccountID, accountID)
	defer span.End()

	simType, err := catalog.NewSimType(accountID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, simType); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("create sim type: %w", err)
	}

	s.notifier.Inserted(ctx, accountID, snapshot.EntitySimType, simType.ID, simType)
	return simType, nil
}

// Delete removes a SIM type. Batches and orders that reference it keep the
// dangling id and are reported under a placeholder name.
func (s *SimTypeService) Delete(ctx context.Context, accountID uuid.UUID, id string) error {
	if err := s.repo.Delete(ctx, accountID, id); err != nil {
		return err
	}
	s.notifier.Deleted(ctx, accountID, snapshot.EntitySimType, id)
	return nil
}
