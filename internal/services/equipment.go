package services

import (
	"context"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	apperrors "gearguard/pkg/errors"
)

type EquipmentServiceInterface interface {
	CreateEquipment(ctx context.Context, actor *entities.User, payload *dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	GetEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	ListEquipment(ctx context.Context) ([]dto.EquipmentDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	gatekeeper    *authz.Gatekeeper
	logger        *zap.Logger
}

func NewEquipmentService(equipmentRepo repositories.EquipmentRepositoryInterface, gatekeeper *authz.Gatekeeper, logger *zap.Logger) *EquipmentService {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		gatekeeper:    gatekeeper,
		logger:        logger,
	}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, actor *entities.User, payload *dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if !s.gatekeeper.CanManageEquipment(actor) {
		return nil, apperrors.ErrUnauthorized
	}

	equipment := &entities.Equipment{
		Name:       payload.Name,
		Department: payload.Department,
		Location:   payload.Location,
	}
	if payload.SerialNumber.Valid {
		serial := payload.SerialNumber.String
		equipment.SerialNumber = &serial
	}
	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		equipment.TeamID = &teamID
	}
	if payload.AssignedUserID.Valid {
		userID := payload.AssignedUserID.Uint64
		equipment.AssignedUserID = &userID
	}

	newID, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		return nil, err
	}

	s.logger.Info("оборудование создано", zap.Uint64("equipment_id", newID), zap.Uint64("actor_id", actor.ID))
	return s.equipmentRepo.FindEquipmentDTO(ctx, newID)
}

// UpdateEquipment обновляет карточку. Списание через карточку разрешено,
// обратный путь закрыт: флаг is_scrapped с TRUE на FALSE не меняется.
func (s *EquipmentService) UpdateEquipment(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	if !s.gatekeeper.CanManageEquipment(actor) {
		return nil, apperrors.ErrUnauthorized
	}

	equipment, err := s.equipmentRepo.FindEquipmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload.Name.Valid {
		equipment.Name = payload.Name.String
	}
	if payload.SerialNumber.Valid {
		serial := payload.SerialNumber.String
		equipment.SerialNumber = &serial
	}
	if payload.Department.Valid {
		equipment.Department = payload.Department.String
	}
	if payload.Location.Valid {
		equipment.Location = payload.Location.String
	}
	if payload.TeamID.Valid {
		teamID := payload.TeamID.Uint64
		equipment.TeamID = &teamID
	}
	if payload.AssignedUserID.Valid {
		userID := payload.AssignedUserID.Uint64
		equipment.AssignedUserID = &userID
	}
	if payload.IsScrapped.Valid {
		if equipment.IsScrapped && !payload.IsScrapped.Bool {
			return nil, apperrors.NewValidationError("списанное оборудование нельзя вернуть в строй")
		}
		equipment.IsScrapped = payload.IsScrapped.Bool
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, equipment); err != nil {
		return nil, err
	}
	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	return s.equipmentRepo.FindEquipmentDTO(ctx, id)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]dto.EquipmentDTO, error) {
	return s.equipmentRepo.ListEquipment(ctx)
}
