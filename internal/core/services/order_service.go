package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/google/uuid"
)

// orderService keeps the paid total of business orders in lockstep with their ledger rows.
type orderService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	orderRepo     portsrepo.OrderRepositoryFacade
	clientRepo    portsrepo.ClientRepositoryFacade
	productRepo   portsrepo.ProductRepositoryFacade
	transportRepo portsrepo.TransportRepositoryFacade
	allocator     *ReferenceAllocator
	ledger        portssvc.LedgerWriterSvc
	poster        *ledgerPoster
}

// NewOrderService creates a new business order service.
func NewOrderService(
	repos portsrepo.RepositoryProvider,
	allocator *ReferenceAllocator,
	ledger portssvc.LedgerWriterSvc,
	currency portssvc.CurrencySvcFacade,
	options ...Option,
) portssvc.OrderSvcFacade {
	return &orderService{
		BaseService:   newBaseService(options),
		txManager:     repos.TxManager,
		orderRepo:     repos.OrderRepo,
		clientRepo:    repos.ClientRepo,
		productRepo:   repos.ProductRepo,
		transportRepo: repos.TransportRepo,
		allocator:     allocator,
		ledger:        ledger,
		poster:        newLedgerPoster(ledger, repos.AccountRepo, currency),
	}
}

var _ portssvc.OrderSvcFacade = (*orderService)(nil)

func orderRelated(orderID string) domain.RelatedEntity {
	return domain.RelatedEntity{Kind: domain.RelatedBusinessOrder, ID: orderID}
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, userID string) (*domain.BusinessOrder, error) {
	currency := domain.NormalizeCurrency(req.CurrencyCode)
	legs := dto.ToPaymentLegs(req.Payments)
	if err := validateLegs(legs); err != nil {
		return nil, err
	}

	now := s.Now()
	order := domain.BusinessOrder{
		OrderID:     uuid.NewString(),
		ClientID:    req.ClientID,
		WaveID:      req.WaveID,
		Status:      domain.OrderPending,
		Notes:       req.Notes,
		Payable:     domain.Payable{CurrencyCode: currency},
		AuditFields: domain.NewAuditFields(userID, now),
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkClient(ctx, req.ClientID); err != nil {
			return err
		}
		if err := checkWaveOpen(ctx, s.transportRepo, req.WaveID, domain.WaveBusiness); err != nil {
			return err
		}
		items, err := s.buildItems(ctx, currency, req.Items)
		if err != nil {
			return err
		}
		order.Items = items
		order.SetPrincipal(domain.ItemsTotal(items))
		if err := mapPayableError(order.ApplyPayment(domain.SumPaymentLegs(legs))); err != nil {
			return err
		}

		order.Reference, err = s.allocator.Allocate(ctx, domain.OrderReferencePattern(), func(ctx context.Context, reference string) error {
			order.Reference = reference
			return s.orderRepo.SaveOrder(ctx, order)
		})
		if err != nil {
			return err
		}

		related := orderRelated(order.OrderID)
		if err := s.poster.postPayments(ctx, order.Payable, related, domain.CategoryOrderPayment, legs, "Payment "+order.Reference, userID); err != nil {
			return err
		}
		if req.Purchase != nil {
			_, err := s.poster.post(ctx, domain.Debit, req.Purchase.AccountID, req.Purchase.Amount, currency,
				domain.CategoryOrderPurchase, related, "Purchase "+order.Reference, userID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create order", slog.String("client_id", req.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Order created",
		slog.String("order_id", order.OrderID),
		slog.String("reference", order.Reference),
		slog.String("principal", order.PrincipalAmount.StringFixed(2)))
	return &order, nil
}

func (s *orderService) UpdateOrderItems(ctx context.Context, orderID string, req dto.UpdateOrderItemsRequest, userID string) (*domain.BusinessOrder, error) {
	return s.mutate(ctx, orderID, "update items", func(ctx context.Context, order *domain.BusinessOrder) error {
		if !order.Status.ItemsEditable() {
			return apperrors.NewConflictError(fmt.Sprintf("items of a %s order cannot change", order.Status))
		}
		items, err := s.buildItems(ctx, order.CurrencyCode, req.Items)
		if err != nil {
			return err
		}
		total := domain.ItemsTotal(items)
		if total.LessThan(order.TotalPaid) {
			return apperrors.NewConflictError(fmt.Sprintf("items total %s is below the %s already paid", total.StringFixed(2), order.TotalPaid.StringFixed(2)))
		}
		order.Items = items
		order.SetPrincipal(total)
		return nil
	}, userID)
}

func (s *orderService) AssignOrderToConvoy(ctx context.Context, orderID string, convoyID string, userID string) (*domain.BusinessOrder, error) {
	return s.mutate(ctx, orderID, "assign convoy", func(ctx context.Context, order *domain.BusinessOrder) error {
		if !order.Status.ItemsEditable() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s order cannot be assigned", order.Status))
		}
		if err := checkLegAssignable(ctx, s.transportRepo, convoyID, domain.LegConvoy, order.WaveID); err != nil {
			return err
		}
		order.ConvoyID = convoyID
		if order.Status == domain.OrderPending {
			order.Status = domain.OrderConfirmed
		}
		return nil
	}, userID)
}

func (s *orderService) RegisterOrderPayment(ctx context.Context, orderID string, req dto.PaymentRequest, userID string) (*domain.BusinessOrder, error) {
	legs := dto.ToPaymentLegs(req.Payments)
	if err := validateLegs(legs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, "register payment", func(ctx context.Context, order *domain.BusinessOrder) error {
		if order.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s order takes no payment", order.Status))
		}
		if err := mapPayableError(order.ApplyPayment(domain.SumPaymentLegs(legs))); err != nil {
			return err
		}
		return s.poster.postPayments(ctx, order.Payable, orderRelated(order.OrderID), domain.CategoryOrderPayment,
			legs, describe(req.Description, "Payment "+order.Reference), userID)
	}, userID)
}

func (s *orderService) PickupOrder(ctx context.Context, orderID string, req dto.PickupRequest, userID string) (*domain.BusinessOrder, error) {
	legs := dto.ToPaymentLegs(req.Payments)
	if err := validateLegs(legs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, orderID, "pickup", func(ctx context.Context, order *domain.BusinessOrder) error {
		if order.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s order cannot be picked up", order.Status))
		}
		if err := applyPickup(&order.Payable, legs); err != nil {
			return err
		}
		if err := s.poster.postPayments(ctx, order.Payable, orderRelated(order.OrderID), domain.CategoryOrderPickupPayment,
			legs, describe(req.Description, "Pickup "+order.Reference), userID); err != nil {
			return err
		}
		order.Status = domain.OrderDelivered
		return nil
	}, userID)
}

func (s *orderService) CancelOrder(ctx context.Context, orderID string, userID string) (*domain.BusinessOrder, error) {
	return s.mutate(ctx, orderID, "cancel", func(ctx context.Context, order *domain.BusinessOrder) error {
		if order.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s order cannot be cancelled", order.Status))
		}
		order.Status = domain.OrderCancelled
		return nil
	}, userID)
}

func (s *orderService) DeleteOrder(ctx context.Context, orderID string, userID string) error {
	var removed int
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !order.Status.IsDeletable() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s order cannot be deleted", order.Status))
		}
		removed, err = s.ledger.DeleteRelatedTransactions(ctx, orderRelated(orderID), domain.OrderCategories, userID)
		if err != nil {
			return err
		}
		return s.orderRepo.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete order", slog.String("order_id", orderID))
		return err
	}

	s.LogInfo(ctx, "Order deleted", slog.String("order_id", orderID), slog.Int("transactions_removed", removed))
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (*domain.BusinessOrder, error) {
	return s.orderRepo.FindOrderByID(ctx, orderID)
}

func (s *orderService) ListOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.BusinessOrder, error) {
	return s.orderRepo.ListOrders(ctx, filter)
}

// mutate locks the order, applies fn, and saves the result in one unit.
func (s *orderService) mutate(ctx context.Context, orderID, action string, fn func(ctx context.Context, order *domain.BusinessOrder) error, userID string) (*domain.BusinessOrder, error) {
	var updated domain.BusinessOrder
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(ctx, order); err != nil {
			return err
		}
		order.Touch(userID, s.Now())
		if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
			return err
		}
		updated = *order
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Order "+action+" failed", slog.String("order_id", orderID))
		return nil, err
	}

	s.LogInfo(ctx, "Order "+action+" done",
		slog.String("order_id", orderID),
		slog.String("status", string(updated.Status)),
		slog.String("total_paid", updated.TotalPaid.StringFixed(2)),
		slog.Bool("has_debt", updated.HasDebt))
	return &updated, nil
}

func (s *orderService) checkClient(ctx context.Context, clientID string) error {
	client, err := s.clientRepo.FindClientByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client.Kind == domain.ClientExpress {
		return apperrors.NewValidationError("client " + client.ClientCode + " is an express-only client")
	}
	return nil
}

// buildItems resolves catalogue products and computes line totals. A zero
// unit price falls back to the product price.
func (s *orderService) buildItems(ctx context.Context, currency string, reqs []dto.OrderItemRequest) ([]domain.OrderItem, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("an order needs at least one item")
	}
	items := make([]domain.OrderItem, 0, len(reqs))
	for _, req := range reqs {
		if req.Quantity < 1 {
			return nil, apperrors.NewValidationError("quantity must be at least 1")
		}
		if req.UnitPrice.IsNegative() {
			return nil, apperrors.NewValidationError("unit price must not be negative")
		}
		item := domain.OrderItem{
			ItemID:      uuid.NewString(),
			ProductID:   req.ProductID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice.Round(moneyPlaces),
		}
		if req.ProductID != "" {
			product, err := s.productRepo.FindProductByID(ctx, req.ProductID)
			if err != nil {
				return nil, err
			}
			if product.CurrencyCode != currency {
				return nil, apperrors.NewCurrencyMismatchError(currency, product.CurrencyCode)
			}
			if item.UnitPrice.IsZero() {
				item.UnitPrice = product.UnitPrice
			}
			if item.Description == "" {
				item.Description = product.Name
			}
		}
		item.ComputeLineTotal()
		items = append(items, item)
	}
	return items, nil
}

func describe(given, fallback string) string {
	if given != "" {
		return given
	}
	return fallback
}
