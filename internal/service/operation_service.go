package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/api/request"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/model"
	"github.com/ndewijer/Investment-Tax-Engine-Backend/internal/repository"
)

// OperationService handles operation-related business logic.
// Operations are immutable once recorded: they can be created and deleted but
// never edited. Any mutation invalidates cached reports from the operation's
// month onward, because cost basis and loss balances compound forward.
type OperationService struct {
	operationRepo *repository.OperationRepository
	assetRepo     *repository.AssetRepository
	reportCache   *repository.ReportCacheRepository
}

// NewOperationService creates a new OperationService with the provided repository dependencies.
func NewOperationService(
	operationRepo *repository.OperationRepository,
	assetRepo *repository.AssetRepository,
	reportCache *repository.ReportCacheRepository,
) *OperationService {
	return &OperationService{
		operationRepo: operationRepo,
		assetRepo:     assetRepo,
		reportCache:   reportCache,
	}
}

// GetOperations retrieves the full operation history in replay order.
func (s *OperationService) GetOperations() ([]model.Operation, error) {
	return s.operationRepo.GetOperations()
}

// GetOperation retrieves a single operation by its ID.
func (s *OperationService) GetOperation(operationID string) (model.Operation, error) {
	return s.operationRepo.GetOperation(operationID)
}

// CreateOperation validates and stores a new operation, then invalidates
// cached reports from the operation's month onward.
func (s *OperationService) CreateOperation(ctx context.Context, req request.CreateOperationRequest) (*model.Operation, error) {
	asset, err := s.assetRepo.GetAsset(req.AssetID)
	if err != nil {
		return nil, err
	}

	kind, err := model.ParseOperationKind(req.Kind)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", req.Date, err)
	}

	totalValue := req.TotalValue
	if totalValue.IsZero() {
		totalValue = req.Quantity.Mul(req.UnitPrice)
	}

	operation := &model.Operation{
		ID:             uuid.New().String(),
		AssetID:        asset.ID,
		AssetType:      asset.AssetType,
		Kind:           kind,
		Quantity:       req.Quantity,
		UnitPrice:      req.UnitPrice,
		TotalValue:     totalValue,
		Fees:           req.Fees,
		SourceWithheld: req.SourceWithheld,
		Date:           date,
		CreatedAt:      time.Now(),
	}

	if err := s.operationRepo.InsertOperation(ctx, operation); err != nil {
		return nil, fmt.Errorf("failed to create operation: %w", err)
	}

	if err := s.reportCache.InvalidateFrom(ctx, model.PeriodOf(date)); err != nil {
		return nil, err
	}

	return operation, nil
}

// DeleteOperation removes an operation and invalidates cached reports from
// its month onward.
func (s *OperationService) DeleteOperation(ctx context.Context, operationID string) error {
	operation, err := s.operationRepo.GetOperation(operationID)
	if err != nil {
		return err
	}

	if err := s.operationRepo.DeleteOperation(ctx, operationID); err != nil {
		return err
	}

	return s.reportCache.InvalidateFrom(ctx, model.PeriodOf(operation.Date))
}
