package trade

import (
	"context"

	"github.com/eightysix/analytics/internal/domain/shared"
	"github.com/eightysix/analytics/internal/domain/trade"
)

// TransactionService handles delivery lines and the orders built from them
type TransactionService struct {
	repo trade.TransactionRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo trade.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

// ListForAdmin lists every transaction
func (s *TransactionService) ListForAdmin(ctx context.Context, params shared.ListParams) ([]TransactionResponse, int64, error) {
	views, err := s.repo.ListForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForAdmin(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(views), total, nil
}

// ListForSupplier lists the transactions of a customer the actor follows
func (s *TransactionService) ListForSupplier(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]TransactionResponse, int64, error) {
	views, err := s.repo.ListForSupplierCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountForSupplierCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(views), total, nil
}

// ListOrders lists a followed customer's orders, one per delivery date, newest first
func (s *TransactionService) ListOrders(ctx context.Context, actorID, customerID int64, params shared.ListParams) ([]OrderResponse, int64, error) {
	orders, err := s.repo.ListOrdersForSupplierCustomer(ctx, actorID, customerID, params)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountOrdersForSupplierCustomer(ctx, actorID, customerID)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(orders[i])
	}
	return responses, total, nil
}

// Create records a transaction
func (s *TransactionService) Create(ctx context.Context, req CreateTransactionRequest) (*TransactionResponse, error) {
	tx, err := trade.NewTransaction(req.CustomerID, req.ProductID, req.Price, req.Quantity, req.Delivered)
	if err != nil {
		return nil, err
	}
	tx.Cost = req.Cost
	tx.Stopped = req.Stopped
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return s.get(ctx, tx.ID)
}

// Update applies a partial transaction update
func (s *TransactionService) Update(ctx context.Context, id int64, req UpdateTransactionRequest) (*TransactionResponse, error) {
	view, err := s.repo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	tx := view.Transaction

	if req.CustomerID != nil {
		tx.CustomerID = *req.CustomerID
	}
	if req.ProductID != nil {
		tx.ProductID = *req.ProductID
	}
	if req.Cost != nil {
		tx.Cost = *req.Cost
	}
	if req.Price != nil {
		tx.Price = *req.Price
	}
	if req.Quantity != nil {
		tx.Quantity = *req.Quantity
	}
	if req.Delivered != nil {
		tx.Delivered = *req.Delivered
	}
	if req.Stopped != nil {
		tx.Stopped = *req.Stopped
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &tx); err != nil {
		return nil, err
	}
	return s.get(ctx, id)
}

// SetStopped flags a transaction of a followed customer
func (s *TransactionService) SetStopped(ctx context.Context, actorID, id int64, stopped bool) error {
	tx, err := s.repo.GetByIDForSupplier(ctx, actorID, id)
	if err != nil {
		return err
	}
	tx.Stopped = stopped
	return s.repo.Update(ctx, tx)
}

func (s *TransactionService) get(ctx context.Context, id int64) (*TransactionResponse, error) {
	view, err := s.repo.GetByIDForAdmin(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTransactionResponse(*view)
	return &resp, nil
}

func toResponses(views []trade.TransactionView) []TransactionResponse {
	responses := make([]TransactionResponse, len(views))
	for i := range views {
		responses[i] = ToTransactionResponse(views[i])
	}
	return responses
}
