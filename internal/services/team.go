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

type TeamServiceInterface interface {
	CreateTeam(ctx context.Context, actor *entities.User, payload *dto.CreateTeamDTO) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateTeamDTO) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, actor *entities.User, id uint64) error
	GetTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error)
	ListTeams(ctx context.Context) ([]dto.TeamDTO, error)
}

type TeamService struct {
	teamRepo   repositories.TeamRepositoryInterface
	gatekeeper *authz.Gatekeeper
	logger     *zap.Logger
}

func NewTeamService(teamRepo repositories.TeamRepositoryInterface, gatekeeper *authz.Gatekeeper, logger *zap.Logger) *TeamService {
	return &TeamService{
		teamRepo:   teamRepo,
		gatekeeper: gatekeeper,
		logger:     logger,
	}
}

func (s *TeamService) CreateTeam(ctx context.Context, actor *entities.User, payload *dto.CreateTeamDTO) (*dto.TeamDTO, error) {
	if !s.gatekeeper.CanManageTeams(actor) {
		return nil, apperrors.ErrUnauthorized
	}

	team := &entities.Team{
		Name:    payload.Name,
		Members: payload.MemberIDs,
	}
	newID, err := s.teamRepo.CreateTeam(ctx, team)
	if err != nil {
		return nil, err
	}

	s.logger.Info("команда создана", zap.Uint64("team_id", newID), zap.Uint64("actor_id", actor.ID))
	return s.teamRepo.FindTeamDTO(ctx, newID)
}

func (s *TeamService) UpdateTeam(ctx context.Context, actor *entities.User, id uint64, payload *dto.UpdateTeamDTO) (*dto.TeamDTO, error) {
	if !s.gatekeeper.CanManageTeams(actor) {
		return nil, apperrors.ErrUnauthorized
	}

	team, err := s.teamRepo.FindTeamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payload.Name.Valid {
		team.Name = payload.Name.String
	}
	if payload.MemberIDs != nil {
		team.Members = *payload.MemberIDs
	}

	if err := s.teamRepo.UpdateTeam(ctx, team); err != nil {
		return nil, err
	}
	return s.teamRepo.FindTeamDTO(ctx, id)
}

// DeleteTeam удаляет команду. Команда, на которую ссылается оборудование
// или заявки, не удаляется (ErrTeamInUse).
func (s *TeamService) DeleteTeam(ctx context.Context, actor *entities.User, id uint64) error {
	if !s.gatekeeper.CanManageTeams(actor) {
		return apperrors.ErrUnauthorized
	}
	if err := s.teamRepo.DeleteTeam(ctx, id); err != nil {
		return err
	}
	s.logger.Info("команда удалена", zap.Uint64("team_id", id), zap.Uint64("actor_id", actor.ID))
	return nil
}

func (s *TeamService) GetTeam(ctx context.Context, id uint64) (*dto.TeamDTO, error) {
	return s.teamRepo.FindTeamDTO(ctx, id)
}

func (s *TeamService) ListTeams(ctx context.Context) ([]dto.TeamDTO, error) {
	return s.teamRepo.ListTeams(ctx)
}
