package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/cargo_ledger/internal/apperrors"
	"github.com/SscSPs/cargo_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/cargo_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/cargo_ledger/internal/core/ports/services"
	"github.com/SscSPs/cargo_ledger/internal/dto"
	"github.com/google/uuid"
)

// costService pairs every cost with exactly one debit.
type costService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	costRepo      portsrepo.CostRepositoryFacade
	transportRepo portsrepo.TransportRepositoryFacade
	ledger        portssvc.LedgerWriterSvc
	poster        *ledgerPoster
}

// NewCostService creates a new cost service.
func NewCostService(
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerWriterSvc,
	currency portssvc.CurrencySvcFacade,
	options ...Option,
) portssvc.CostSvcFacade {
	return &costService{
		BaseService:   newBaseService(options),
		txManager:     repos.TxManager,
		costRepo:      repos.CostRepo,
		transportRepo: repos.TransportRepo,
		ledger:        ledger,
		poster:        newLedgerPoster(ledger, repos.AccountRepo, currency),
	}
}

var _ portssvc.CostSvcFacade = (*costService)(nil)

func costRelated(cost domain.Cost) domain.RelatedEntity {
	return domain.RelatedEntity{Kind: cost.Kind.RelatedKind(), ID: cost.CostID}
}

func (s *costService) CreateCost(ctx context.Context, req dto.CreateCostRequest, userID string) (*domain.Cost, error) {
	if !req.Kind.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown cost kind %q", req.Kind))
	}
	if err := validateCostLine(req.CostLineRequest); err != nil {
		return nil, err
	}

	cost := domain.Cost{
		CostID:       uuid.NewString(),
		Kind:         req.Kind,
		OwnerID:      req.OwnerID,
		AccountID:    req.AccountID,
		Amount:       req.Amount.Round(moneyPlaces),
		CurrencyCode: domain.NormalizeCurrency(req.CurrencyCode),
		Label:        strings.TrimSpace(req.Label),
		Description:  req.Description,
		AuditFields:  domain.NewAuditFields(userID, s.Now()),
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkOwnerOpen(ctx, cost.Kind, cost.OwnerID); err != nil {
			return err
		}
		if err := s.postDebit(ctx, &cost, userID); err != nil {
			return err
		}
		return s.costRepo.SaveCost(ctx, cost)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create cost",
			slog.String("kind", string(req.Kind)),
			slog.String("owner_id", req.OwnerID))
		return nil, err
	}

	s.LogInfo(ctx, "Cost created",
		slog.String("cost_id", cost.CostID),
		slog.String("kind", string(cost.Kind)),
		slog.String("amount", cost.Amount.StringFixed(2)),
		slog.String("transaction_id", cost.TransactionID))
	return &cost, nil
}

func (s *costService) UpdateCost(ctx context.Context, costID string, req dto.UpdateCostRequest, userID string) (*domain.Cost, error) {
	var updated domain.Cost
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cost, err := s.costRepo.FindCostByIDForUpdate(ctx, costID)
		if err != nil {
			return err
		}
		if err := s.checkOwnerOpen(ctx, cost.Kind, cost.OwnerID); err != nil {
			return err
		}

		repost := false
		if req.AccountID != nil && *req.AccountID != cost.AccountID {
			cost.AccountID, repost = *req.AccountID, true
		}
		if req.Amount != nil && !req.Amount.Round(moneyPlaces).Equal(cost.Amount) {
			cost.Amount, repost = req.Amount.Round(moneyPlaces), true
		}
		if req.CurrencyCode != nil && domain.NormalizeCurrency(*req.CurrencyCode) != cost.CurrencyCode {
			cost.CurrencyCode, repost = domain.NormalizeCurrency(*req.CurrencyCode), true
		}
		if req.Label != nil {
			cost.Label = strings.TrimSpace(*req.Label)
		}
		if req.Description != nil {
			cost.Description = *req.Description
		}
		if err := validateCostLine(dto.CostLineRequest{
			AccountID: cost.AccountID, Amount: cost.Amount, CurrencyCode: cost.CurrencyCode, Label: cost.Label,
		}); err != nil {
			return err
		}

		if repost {
			if _, err := s.ledger.DeleteRelatedTransactions(ctx, costRelated(*cost), []domain.Category{cost.Kind.Category()}, userID); err != nil {
				return err
			}
			if err := s.postDebit(ctx, cost, userID); err != nil {
				return err
			}
		}

		cost.Touch(userID, s.Now())
		if err := s.costRepo.UpdateCost(ctx, *cost); err != nil {
			return err
		}
		updated = *cost
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to update cost", slog.String("cost_id", costID))
		return nil, err
	}

	s.LogInfo(ctx, "Cost updated", slog.String("cost_id", costID), slog.String("transaction_id", updated.TransactionID))
	return &updated, nil
}

func (s *costService) DeleteCost(ctx context.Context, costID string, userID string) error {
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cost, err := s.costRepo.FindCostByIDForUpdate(ctx, costID)
		if err != nil {
			return err
		}
		if err := s.checkOwnerOpen(ctx, cost.Kind, cost.OwnerID); err != nil {
			return err
		}
		if _, err := s.ledger.DeleteRelatedTransactions(ctx, costRelated(*cost), []domain.Category{cost.Kind.Category()}, userID); err != nil {
			return err
		}
		return s.costRepo.DeleteCost(ctx, costID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to delete cost", slog.String("cost_id", costID))
		return err
	}

	s.LogInfo(ctx, "Cost deleted", slog.String("cost_id", costID))
	return nil
}

func (s *costService) GetCost(ctx context.Context, costID string) (*domain.Cost, error) {
	return s.costRepo.FindCostByID(ctx, costID)
}

func (s *costService) ListCosts(ctx context.Context, kind domain.CostKind, ownerID string) ([]domain.Cost, error) {
	if !kind.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown cost kind %q", kind))
	}
	return s.costRepo.ListCosts(ctx, kind, ownerID)
}

func (s *costService) postDebit(ctx context.Context, cost *domain.Cost, userID string) error {
	txn, err := s.poster.post(ctx, domain.Debit, cost.AccountID, cost.Amount, cost.CurrencyCode,
		cost.Kind.Category(), costRelated(*cost), describe(cost.Description, cost.Label), userID)
	if err != nil {
		return err
	}
	cost.TransactionID = txn.TransactionID
	return nil
}

// checkOwnerOpen locks the owner of a cost and refuses closed owners.
func (s *costService) checkOwnerOpen(ctx context.Context, kind domain.CostKind, ownerID string) error {
	if kind == domain.CostWave {
		wave, err := s.transportRepo.FindWaveByIDForUpdate(ctx, ownerID)
		if err != nil {
			return err
		}
		if wave.Status == domain.WaveClosed {
			return apperrors.NewConflictError("wave " + wave.Name + " is closed")
		}
		return nil
	}

	leg, err := s.transportRepo.FindLegByIDForUpdate(ctx, ownerID)
	if err != nil {
		return err
	}
	if leg.Kind.CostKind() != kind {
		return apperrors.NewValidationError(fmt.Sprintf("a %s cost cannot be attached to a %s", kind, leg.Kind))
	}
	if leg.Status == domain.LegClosed {
		return apperrors.NewConflictError(string(leg.Kind) + " " + leg.Name + " is closed")
	}
	return nil
}

func validateCostLine(line dto.CostLineRequest) error {
	switch {
	case line.AccountID == "":
		return apperrors.NewValidationError("cost account is required")
	case line.Amount.IsNegative():
		return apperrors.NewValidationError("cost amount must not be negative")
	case strings.TrimSpace(line.Label) == "":
		return apperrors.NewValidationError("cost label is required")
	case strings.TrimSpace(line.CurrencyCode) == "":
		return apperrors.NewValidationError("cost currency is required")
	}
	return nil
}
