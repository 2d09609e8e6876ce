package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/internal/rules"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

type RequestServiceInterface interface {
	CreateRequest(ctx context.Context, actor *entities.User, payload *dto.CreateRequestDTO) (*dto.RequestDTO, error)
	UpdateStatus(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateRequestStatusDTO) (*dto.RequestDTO, error)
	GetRequest(ctx context.Context, actor *entities.User, id uint64) (*dto.RequestDTO, error)
	ListRequests(ctx context.Context, actor *entities.User, filter types.Filter) ([]dto.RequestDTO, uint64, error)
}

type RequestService struct {
	requestRepo   repositories.RequestRepositoryInterface
	equipmentRepo repositories.EquipmentRepositoryInterface
	txManager     repositories.TxManagerInterface
	gatekeeper    *authz.Gatekeeper
	logger        *zap.Logger
	now           func() time.Time
}

func NewRequestService(
	requestRepo repositories.RequestRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	gatekeeper *authz.Gatekeeper,
	logger *zap.Logger,
) *RequestService {
	return &RequestService{
		requestRepo:   requestRepo,
		equipmentRepo: equipmentRepo,
		txManager:     txManager,
		gatekeeper:    gatekeeper,
		logger:        logger,
		now:           time.Now,
	}
}

// CreateRequest создаёт заявку. Любая роль создаёт заявки, и все они
// начинают жизнь в статусе New. Списанное оборудование новых заявок
// не принимает.
func (s *RequestService) CreateRequest(ctx context.Context, actor *entities.User, payload *dto.CreateRequestDTO) (*dto.RequestDTO, error) {
	if !s.gatekeeper.CanCreateRequest(actor) {
		return nil, apperrors.ErrUnauthorized
	}

	request := &entities.Request{
		Subject:     payload.Subject,
		Description: payload.Description,
		EquipmentID: payload.EquipmentID,
		Kind:        entities.RequestKind(payload.Kind),
		Status:      entities.StatusNew,
		CreatedByID: actor.ID,
	}
	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		request.TeamID = &teamID
	}
	if payload.TechnicianID.Valid {
		technicianID := payload.TechnicianID.Uint64
		request.TechnicianID = &technicianID
	}
	if payload.ScheduledAt.Valid {
		scheduledAt := payload.ScheduledAt.Time
		request.ScheduledAt = &scheduledAt
	}

	if err := rules.ValidateSchedule(request); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, request.EquipmentID)
		if err != nil {
			return err
		}
		if equipment.IsScrapped {
			return apperrors.ErrEquipmentScrapped
		}

		rules.Apply(nil, request, equipment, s.now())

		newID, err := s.requestRepo.CreateRequestInTx(ctx, tx, request)
		if err != nil {
			return err
		}
		request.ID = newID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("заявка создана",
		zap.Uint64("request_id", request.ID),
		zap.Uint64("equipment_id", request.EquipmentID),
		zap.Uint64("actor_id", actor.ID),
	)

	return s.requestRepo.FindRequestDTO(ctx, request.ID)
}

// UpdateStatus переводит заявку по графу статусов. Порядок проверок
// фиксирован: доступ, затем легальность перехода, затем состояние
// оборудования. Переход в тот же статус — no-op. Переход в Scrap
// каскадно списывает оборудование в той же транзакции.
func (s *RequestService) UpdateStatus(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateRequestStatusDTO) (*dto.RequestDTO, error) {
	nextStatus := entities.RequestStatus(payload.Status)
	if !nextStatus.Valid() {
		return nil, apperrors.NewValidationError("неизвестный статус: %s", payload.Status)
	}

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		request, err := s.requestRepo.FindRequestForUpdateInTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if !s.gatekeeper.CanWriteRequest(actor, request) {
			return apperrors.ErrUnauthorized
		}
		if !request.Status.CanTransitionTo(nextStatus) {
			return apperrors.ErrIllegalTransition
		}

		if request.Status == nextStatus && !payload.DurationHours.Valid {
			return nil
		}

		equipment, err := s.equipmentRepo.FindEquipmentForUpdateInTx(ctx, tx, request.EquipmentID)
		if err != nil {
			return err
		}
		if equipment.IsScrapped {
			return apperrors.ErrEquipmentScrapped
		}

		old := *request
		request.Status = nextStatus
		if payload.DurationHours.Valid {
			hours := payload.DurationHours.Float64
			request.DurationHrs = &hours
		}

		rules.Apply(&old, request, equipment, s.now())

		if err := s.requestRepo.UpdateRequestInTx(ctx, tx, request); err != nil {
			return err
		}

		if rules.ShouldScrapEquipment(request) {
			if err := s.equipmentRepo.MarkScrappedInTx(ctx, tx, equipment.ID); err != nil {
				return err
			}
			s.logger.Info("оборудование списано каскадом",
				zap.Uint64("request_id", request.ID),
				zap.Uint64("equipment_id", equipment.ID),
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("статус заявки обновлён",
		zap.Uint64("request_id", id),
		zap.String("status", string(nextStatus)),
		zap.Uint64("actor_id", actor.ID),
	)

	return s.requestRepo.FindRequestDTO(ctx, id)
}

// GetRequest отдаёт одну заявку. Точечный доступ вне области видимости
// отвечает отказом, а не «не найдено»: существование заявки не скрывается.
func (s *RequestService) GetRequest(ctx context.Context, actor *entities.User, id uint64) (*dto.RequestDTO, error) {
	request, err := s.requestRepo.FindRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.gatekeeper.CanReadRequest(actor, request) {
		return nil, apperrors.ErrUnauthorized
	}
	return s.requestRepo.FindRequestDTO(ctx, id)
}

func (s *RequestService) ListRequests(ctx context.Context, actor *entities.User, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	scope := authz.ScopeFor(actor)
	return s.requestRepo.ListRequests(ctx, scope.SQLCondition(), filter)
}
