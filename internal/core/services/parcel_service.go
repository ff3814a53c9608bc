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

type parcelService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	parcelRepo    portsrepo.ParcelRepositoryFacade
	clientRepo    portsrepo.ClientRepositoryFacade
	transportRepo portsrepo.TransportRepositoryFacade
	allocator     *ReferenceAllocator
	ledger        portssvc.LedgerWriterSvc
	poster        *ledgerPoster
}

// NewParcelService creates a new express parcel service.
func NewParcelService(
	repos portsrepo.RepositoryProvider,
	allocator *ReferenceAllocator,
	ledger portssvc.LedgerWriterSvc,
	currency portssvc.CurrencySvcFacade,
	options ...Option,
) portssvc.ParcelSvcFacade {
	return &parcelService{
		BaseService:   newBaseService(options),
		txManager:     repos.TxManager,
		parcelRepo:    repos.ParcelRepo,
		clientRepo:    repos.ClientRepo,
		transportRepo: repos.TransportRepo,
		allocator:     allocator,
		ledger:        ledger,
		poster:        newLedgerPoster(ledger, repos.AccountRepo, currency),
	}
}

var _ portssvc.ParcelSvcFacade = (*parcelService)(nil)

func parcelRelated(parcelID string) domain.RelatedEntity {
	return domain.RelatedEntity{Kind: domain.RelatedExpressParcel, ID: parcelID}
}

func (s *parcelService) CreateParcel(ctx context.Context, req dto.CreateParcelRequest, userID string) (*domain.ExpressParcel, error) {
	if req.TotalPrice.IsNegative() || req.WeightKg.IsNegative() {
		return nil, apperrors.NewValidationError("price and weight must not be negative")
	}
	deposits := dto.ToPaymentLegs(req.Deposits)
	if err := validateLegs(deposits); err != nil {
		return nil, err
	}

	now := s.Now()
	parcel := domain.ExpressParcel{
		ParcelID:    uuid.NewString(),
		ClientID:    req.ClientID,
		WaveID:      req.WaveID,
		Description: req.Description,
		WeightKg:    req.WeightKg,
		Status:      domain.ParcelRegistered,
		Payable:     domain.Payable{CurrencyCode: domain.NormalizeCurrency(req.CurrencyCode)},
		AuditFields: domain.NewAuditFields(userID, now),
	}
	parcel.SetPrincipal(req.TotalPrice)

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		client, err := s.clientRepo.FindClientByID(ctx, req.ClientID)
		if err != nil {
			return err
		}
		if client.Kind == domain.ClientBusiness {
			return apperrors.NewValidationError("client " + client.ClientCode + " is a business-only client")
		}
		if err := checkWaveOpen(ctx, s.transportRepo, req.WaveID, domain.WaveExpress); err != nil {
			return err
		}
		if err := mapPayableError(parcel.ApplyPayment(domain.SumPaymentLegs(deposits))); err != nil {
			return err
		}

		_, err = s.allocator.Allocate(ctx, domain.ParcelReferencePattern(now), func(ctx context.Context, reference string) error {
			parcel.Reference = reference
			return s.parcelRepo.SaveParcel(ctx, parcel)
		})
		if err != nil {
			return err
		}
		return s.poster.postPayments(ctx, parcel.Payable, parcelRelated(parcel.ParcelID), domain.CategoryParcelDeposit,
			deposits, "Deposit "+parcel.Reference, userID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create parcel", slog.String("client_id", req.ClientID))
		return nil, err
	}

	s.LogInfo(ctx, "Parcel created",
		slog.String("parcel_id", parcel.ParcelID),
		slog.String("reference", parcel.Reference),
		slog.String("total_price", parcel.PrincipalAmount.StringFixed(2)))
	return &parcel, nil
}

func (s *parcelService) UpdateParcelPrice(ctx context.Context, parcelID string, req dto.UpdateParcelPriceRequest, userID string) (*domain.ExpressParcel, error) {
	return s.mutate(ctx, parcelID, "update price", func(ctx context.Context, parcel *domain.ExpressParcel) error {
		if parcel.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("the price of a %s parcel cannot change", parcel.Status))
		}
		if req.TotalPrice.IsNegative() {
			return apperrors.NewValidationError("price must not be negative")
		}
		if req.TotalPrice.LessThan(parcel.TotalPaid) {
			return apperrors.NewConflictError(fmt.Sprintf("price %s is below the %s already paid", req.TotalPrice.StringFixed(2), parcel.TotalPaid.StringFixed(2)))
		}
		parcel.SetPrincipal(req.TotalPrice)
		return nil
	}, userID)
}

func (s *parcelService) AssignParcelToTrip(ctx context.Context, parcelID string, tripID string, userID string) (*domain.ExpressParcel, error) {
	return s.mutate(ctx, parcelID, "assign trip", func(ctx context.Context, parcel *domain.ExpressParcel) error {
		if parcel.Status != domain.ParcelRegistered {
			return apperrors.NewConflictError(fmt.Sprintf("a %s parcel cannot be assigned", parcel.Status))
		}
		if err := checkLegAssignable(ctx, s.transportRepo, tripID, domain.LegTrip, parcel.WaveID); err != nil {
			return err
		}
		parcel.TripID = tripID
		return nil
	}, userID)
}

func (s *parcelService) RegisterParcelPayment(ctx context.Context, parcelID string, req dto.PaymentRequest, userID string) (*domain.ExpressParcel, error) {
	legs := dto.ToPaymentLegs(req.Payments)
	if err := validateLegs(legs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, parcelID, "register payment", func(ctx context.Context, parcel *domain.ExpressParcel) error {
		if parcel.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s parcel takes no payment", parcel.Status))
		}
		if err := mapPayableError(parcel.ApplyPayment(domain.SumPaymentLegs(legs))); err != nil {
			return err
		}
		return s.poster.postPayments(ctx, parcel.Payable, parcelRelated(parcel.ParcelID), domain.CategoryParcelDeposit,
			legs, describe(req.Description, "Deposit "+parcel.Reference), userID)
	}, userID)
}

func (s *parcelService) PickupParcel(ctx context.Context, parcelID string, req dto.PickupRequest, userID string) (*domain.ExpressParcel, error) {
	legs := dto.ToPaymentLegs(req.Payments)
	if err := validateLegs(legs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, parcelID, "pickup", func(ctx context.Context, parcel *domain.ExpressParcel) error {
		if parcel.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s parcel cannot be picked up", parcel.Status))
		}
		if err := applyPickup(&parcel.Payable, legs); err != nil {
			return err
		}
		if err := s.poster.postPayments(ctx, parcel.Payable, parcelRelated(parcel.ParcelID), domain.CategoryParcelPickupPayment,
			legs, describe(req.Description, "Pickup "+parcel.Reference), userID); err != nil {
			return err
		}
		parcel.Status = domain.ParcelDelivered
		return nil
	}, userID)
}

func (s *parcelService) CancelParcel(ctx context.Context, parcelID string, userID string) (*domain.ExpressParcel, error) {
	return s.mutate(ctx, parcelID, "cancel", func(ctx context.Context, parcel *domain.ExpressParcel) error {
		if parcel.Status.IsSettled() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s parcel cannot be cancelled", parcel.Status))
		}
		parcel.Status = domain.ParcelCancelled
		return nil
	}, userID)
}

func (s *parcelService) DeleteParcel(ctx context.Context, parcelID string, userID string) error {
	var removed int
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		parcel, err := s.parcelRepo.FindParcelByIDForUpdate(ctx, parcelID)
		if err != nil {
			return err
		}
		if !parcel.Status.IsDeletable() {
			return apperrors.NewConflictError(fmt.Sprintf("a %s parcel cannot be deleted", parcel.Status))
		}
		removed, err = s.ledger.DeleteRelatedTransactions(ctx, parcelRelated(parcelID), domain.ParcelCategories, userID)
		if err != nil {
			return err
		}
		return s.parcelRepo.DeleteParcel(ctx, parcelID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete parcel", slog.String("parcel_id", parcelID))
		return err
	}

	s.LogInfo(ctx, "Parcel deleted", slog.String("parcel_id", parcelID), slog.Int("transactions_removed", removed))
	return nil
}

func (s *parcelService) GetParcel(ctx context.Context, parcelID string) (*domain.ExpressParcel, error) {
	return s.parcelRepo.FindParcelByID(ctx, parcelID)
}

func (s *parcelService) ListParcels(ctx context.Context, filter domain.ParcelFilter) ([]domain.ExpressParcel, error) {
	return s.parcelRepo.ListParcels(ctx, filter)
}

func (s *parcelService) mutate(ctx context.Context, parcelID, action string, fn func(ctx context.Context, parcel *domain.ExpressParcel) error, userID string) (*domain.ExpressParcel, error) {
	var updated domain.ExpressParcel
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		parcel, err := s.parcelRepo.FindParcelByIDForUpdate(ctx, parcelID)
		if err != nil {
			return err
		}
		if err := fn(ctx, parcel); err != nil {
			return err
		}
		parcel.Touch(userID, s.Now())
		if err := s.parcelRepo.UpdateParcel(ctx, *parcel); err != nil {
			return err
		}
		updated = *parcel
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Parcel "+action+" failed", slog.String("parcel_id", parcelID))
		return nil, err
	}

	s.LogInfo(ctx, "Parcel "+action+" done",
		slog.String("parcel_id", parcelID),
		slog.String("status", string(updated.Status)),
		slog.String("total_paid", updated.TotalPaid.StringFixed(2)),
		slog.Bool("has_debt", updated.HasDebt))
	return &updated, nil
}
