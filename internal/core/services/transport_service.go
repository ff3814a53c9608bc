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

type transportService struct {
	BaseService
	txManager     portsrepo.TransactionManager
	transportRepo portsrepo.TransportRepositoryFacade
	orderRepo     portsrepo.OrderRepositoryFacade
	parcelRepo    portsrepo.ParcelRepositoryFacade
	costs         portssvc.CostSvcFacade
}

// NewTransportService creates a new wave, convoy and trip service.
func NewTransportService(repos portsrepo.RepositoryProvider, costs portssvc.CostSvcFacade, options ...Option) portssvc.TransportSvcFacade {
	return &transportService{
		BaseService:   newBaseService(options),
		txManager:     repos.TxManager,
		transportRepo: repos.TransportRepo,
		orderRepo:     repos.OrderRepo,
		parcelRepo:    repos.ParcelRepo,
		costs:         costs,
	}
}

var _ portssvc.TransportSvcFacade = (*transportService)(nil)

func (s *transportService) CreateWave(ctx context.Context, req dto.CreateWaveRequest, userID string) (*domain.Wave, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("wave name is required")
	}
	if req.Kind != domain.WaveBusiness && req.Kind != domain.WaveExpress {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown wave kind %q", req.Kind))
	}

	wave := domain.Wave{
		WaveID:      uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Kind:        req.Kind,
		Status:      domain.WaveOpen,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	if err := s.transportRepo.SaveWave(ctx, wave); err != nil {
		s.LogError(ctx, err, "Failed to save wave", slog.String("name", wave.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Wave created", slog.String("wave_id", wave.WaveID), slog.String("kind", string(wave.Kind)))
	return &wave, nil
}

func (s *transportService) GetWave(ctx context.Context, waveID string) (*domain.Wave, error) {
	return s.transportRepo.FindWaveByID(ctx, waveID)
}

func (s *transportService) ListWaves(ctx context.Context, kind *domain.WaveKind) ([]domain.Wave, error) {
	return s.transportRepo.ListWaves(ctx, kind)
}

func (s *transportService) CreateLeg(ctx context.Context, req dto.CreateLegRequest, userID string) (*domain.Leg, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("name is required")
	}
	if req.Kind != domain.LegConvoy && req.Kind != domain.LegTrip {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown leg kind %q", req.Kind))
	}

	leg := domain.Leg{
		LegID:       uuid.NewString(),
		WaveID:      req.WaveID,
		Kind:        req.Kind,
		Name:        strings.TrimSpace(req.Name),
		Status:      domain.LegPreparing,
		AuditFields: domain.NewAuditFields(userID, s.Now()),
	}
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := checkWaveOpen(ctx, s.transportRepo, req.WaveID, req.Kind.WaveKind()); err != nil {
			return err
		}
		return s.transportRepo.SaveLeg(ctx, leg)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create leg", slog.String("wave_id", req.WaveID))
		return nil, err
	}

	s.LogInfo(ctx, "Leg created", slog.String("leg_id", leg.LegID), slog.String("kind", string(leg.Kind)))
	return &leg, nil
}

func (s *transportService) GetLeg(ctx context.Context, legID string) (*domain.Leg, error) {
	return s.transportRepo.FindLegByID(ctx, legID)
}

func (s *transportService) ListLegs(ctx context.Context, waveID string) ([]domain.Leg, error) {
	if _, err := s.transportRepo.FindWaveByID(ctx, waveID); err != nil {
		return nil, err
	}
	return s.transportRepo.ListLegsByWave(ctx, waveID)
}

func (s *transportService) DepartLeg(ctx context.Context, legID string, userID string) (*domain.Leg, error) {
	return s.advanceLeg(ctx, legID, "depart", func(ctx context.Context, leg *domain.Leg) error {
		if leg.Status != domain.LegPreparing {
			return apperrors.NewConflictError(fmt.Sprintf("a %s %s cannot depart", leg.Status, leg.Kind))
		}
		now := s.Now()
		leg.Status, leg.DepartedAt = domain.LegInTransit, &now
		return s.moveItems(ctx, *leg, domain.OrderInTransit, domain.ParcelInTransit, userID)
	}, userID)
}

func (s *transportService) ArriveLeg(ctx context.Context, legID string, userID string) (*domain.Leg, error) {
	return s.advanceLeg(ctx, legID, "arrive", func(ctx context.Context, leg *domain.Leg) error {
		if leg.Status != domain.LegInTransit {
			return apperrors.NewConflictError(fmt.Sprintf("a %s %s cannot arrive", leg.Status, leg.Kind))
		}
		now := s.Now()
		leg.Status, leg.ArrivedAt = domain.LegArrived, &now
		return s.moveItems(ctx, *leg, domain.OrderArrived, domain.ParcelArrived, userID)
	}, userID)
}

func (s *transportService) CloseLeg(ctx context.Context, legID string, req dto.CloseRequest, userID string) (*domain.Leg, error) {
	return s.advanceLeg(ctx, legID, "close", func(ctx context.Context, leg *domain.Leg) error {
		if leg.Status != domain.LegArrived {
			return apperrors.NewConflictError(fmt.Sprintf("a %s %s cannot be closed", leg.Status, leg.Kind))
		}
		open, err := s.countOpenItems(ctx, legItems(*leg))
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("%s %s still carries %d undelivered items", leg.Kind, leg.Name, open))
		}
		if err := s.postCosts(ctx, leg.Kind.CostKind(), leg.LegID, req.Costs, userID); err != nil {
			return err
		}
		now := s.Now()
		leg.Status, leg.ClosedAt = domain.LegClosed, &now
		return nil
	}, userID)
}

func (s *transportService) CloseWave(ctx context.Context, waveID string, req dto.CloseRequest, userID string) (*domain.Wave, error) {
	var closed domain.Wave
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		wave, err := s.transportRepo.FindWaveByIDForUpdate(ctx, waveID)
		if err != nil {
			return err
		}
		if wave.Status == domain.WaveClosed {
			return apperrors.NewConflictError("wave " + wave.Name + " is already closed")
		}

		legs, err := s.transportRepo.ListLegsByWave(ctx, waveID)
		if err != nil {
			return err
		}
		for _, leg := range legs {
			if leg.Status != domain.LegClosed {
				return apperrors.NewConflictError(fmt.Sprintf("%s %s is still %s", leg.Kind, leg.Name, leg.Status))
			}
		}
		open, err := s.countOpenItems(ctx, itemSelector{kind: wave.Kind, waveID: waveID})
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.NewConflictError(fmt.Sprintf("wave %s still has %d undelivered items", wave.Name, open))
		}

		if err := s.postCosts(ctx, domain.CostWave, waveID, req.Costs, userID); err != nil {
			return err
		}
		now := s.Now()
		wave.Status, wave.ClosedAt = domain.WaveClosed, &now
		wave.Touch(userID, now)
		if err := s.transportRepo.UpdateWave(ctx, *wave); err != nil {
			return err
		}
		closed = *wave
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close wave", slog.String("wave_id", waveID))
		return nil, err
	}

	s.LogInfo(ctx, "Wave closed", slog.String("wave_id", waveID), slog.Int("costs", len(req.Costs)))
	return &closed, nil
}

func (s *transportService) advanceLeg(ctx context.Context, legID, action string, fn func(ctx context.Context, leg *domain.Leg) error, userID string) (*domain.Leg, error) {
	var updated domain.Leg
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		leg, err := s.transportRepo.FindLegByIDForUpdate(ctx, legID)
		if err != nil {
			return err
		}
		if err := fn(ctx, leg); err != nil {
			return err
		}
		leg.Touch(userID, s.Now())
		if err := s.transportRepo.UpdateLeg(ctx, *leg); err != nil {
			return err
		}
		updated = *leg
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to "+action+" leg", slog.String("leg_id", legID))
		return nil, err
	}

	s.LogInfo(ctx, "Leg "+action+" done", slog.String("leg_id", legID), slog.String("status", string(updated.Status)))
	return &updated, nil
}

func (s *transportService) postCosts(ctx context.Context, kind domain.CostKind, ownerID string, lines []dto.CostLineRequest, userID string) error {
	for _, line := range lines {
		if _, err := s.costs.CreateCost(ctx, dto.CreateCostRequest{Kind: kind, OwnerID: ownerID, CostLineRequest: line}, userID); err != nil {
			return err
		}
	}
	return nil
}

// itemSelector picks the orders or parcels carried by a leg or a wave.
type itemSelector struct {
	kind   domain.WaveKind
	waveID string
	legID  string
}

func legItems(leg domain.Leg) itemSelector {
	return itemSelector{kind: leg.Kind.WaveKind(), legID: leg.LegID}
}

func (s *transportService) countOpenItems(ctx context.Context, sel itemSelector) (int, error) {
	open := 0
	if sel.kind == domain.WaveBusiness {
		orders, err := s.orderRepo.ListOrders(ctx, domain.OrderFilter{WaveID: sel.waveID, ConvoyID: sel.legID})
		if err != nil {
			return 0, err
		}
		for _, order := range orders {
			if !order.Status.IsSettled() {
				open++
			}
		}
		return open, nil
	}

	parcels, err := s.parcelRepo.ListParcels(ctx, domain.ParcelFilter{WaveID: sel.waveID, TripID: sel.legID})
	if err != nil {
		return 0, err
	}
	for _, parcel := range parcels {
		if !parcel.Status.IsSettled() {
			open++
		}
	}
	return open, nil
}

// moveItems advances every active item of leg. Each item is re-read under
// lock so concurrent payments are not overwritten.
func (s *transportService) moveItems(ctx context.Context, leg domain.Leg, orderStatus domain.OrderStatus, parcelStatus domain.ParcelStatus, userID string) error {
	now := s.Now()
	if leg.Kind == domain.LegConvoy {
		orders, err := s.orderRepo.ListOrders(ctx, domain.OrderFilter{ConvoyID: leg.LegID})
		if err != nil {
			return err
		}
		for _, listed := range orders {
			order, err := s.orderRepo.FindOrderByIDForUpdate(ctx, listed.OrderID)
			if err != nil {
				return err
			}
			if order.Status.IsSettled() {
				continue
			}
			order.Status = orderStatus
			order.Touch(userID, now)
			if err := s.orderRepo.UpdateOrder(ctx, *order); err != nil {
				return err
			}
		}
		return nil
	}

	parcels, err := s.parcelRepo.ListParcels(ctx, domain.ParcelFilter{TripID: leg.LegID})
	if err != nil {
		return err
	}
	for _, listed := range parcels {
		parcel, err := s.parcelRepo.FindParcelByIDForUpdate(ctx, listed.ParcelID)
		if err != nil {
			return err
		}
		if parcel.Status.IsSettled() {
			continue
		}
		parcel.Status = parcelStatus
		parcel.Touch(userID, now)
		if err := s.parcelRepo.UpdateParcel(ctx, *parcel); err != nil {
			return err
		}
	}
	return nil
}

// checkWaveOpen fails unless the wave exists, has the given kind, and is open.
func checkWaveOpen(ctx context.Context, repo portsrepo.WaveRepository, waveID string, kind domain.WaveKind) error {
	wave, err := repo.FindWaveByID(ctx, waveID)
	if err != nil {
		return err
	}
	if wave.Kind != kind {
		return apperrors.NewValidationError(fmt.Sprintf("wave %s is a %s wave, expected %s", wave.Name, wave.Kind, kind))
	}
	if wave.Status != domain.WaveOpen {
		return apperrors.NewConflictError("wave " + wave.Name + " is closed")
	}
	return nil
}

// checkLegAssignable fails unless the leg has the given kind, belongs to
// waveID, and has not departed yet.
func checkLegAssignable(ctx context.Context, repo portsrepo.LegRepository, legID string, kind domain.LegKind, waveID string) error {
	leg, err := repo.FindLegByID(ctx, legID)
	if err != nil {
		return err
	}
	if leg.Kind != kind {
		return apperrors.NewValidationError(fmt.Sprintf("%s is a %s, expected a %s", leg.Name, leg.Kind, kind))
	}
	if leg.WaveID != waveID {
		return apperrors.NewValidationError(fmt.Sprintf("%s %s belongs to another wave", leg.Kind, leg.Name))
	}
	if leg.Status != domain.LegPreparing {
		return apperrors.NewConflictError(fmt.Sprintf("%s %s is already %s", leg.Kind, leg.Name, leg.Status))
	}
	return nil
}
