package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	"gearguard/internal/repositories"
	"gearguard/pkg/types"
)

const recentRequestsLimit = 10

type DashboardServiceInterface interface {
	Stats(ctx context.Context, actor *entities.User) (*dto.DashboardStatsDTO, error)
}

// DashboardService собирает сводку в области видимости актора и кэширует
// её на короткий TTL. Кэш per-user: у разных ролей разные области,
// общий ключ смешал бы данные.
type DashboardService struct {
	dashboardRepo repositories.DashboardRepositoryInterface
	requestRepo   repositories.RequestRepositoryInterface
	cache         repositories.CacheRepositoryInterface
	cacheTTL      time.Duration
	logger        *zap.Logger
}

func NewDashboardService(
	dashboardRepo repositories.DashboardRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		requestRepo:   requestRepo,
		cache:         cache,
		cacheTTL:      cacheTTL,
		logger:        logger,
	}
}

func dashboardCacheKey(userID uint64) string {
	return fmt.Sprintf("dashboard:user:%d", userID)
}

func (s *DashboardService) Stats(ctx context.Context, actor *entities.User) (*dto.DashboardStatsDTO, error) {
	key := dashboardCacheKey(actor.ID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var stats dto.DashboardStatsDTO
			if err := json.Unmarshal(cached, &stats); err == nil {
				return &stats, nil
			}
			// Битый кэш просто пересчитываем.
		}
	}

	scope := authz.ScopeFor(actor)
	stats, err := s.collect(ctx, scope)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
				s.logger.Warn("не удалось записать дашборд в кэш", zap.Error(err))
			}
		}
	}
	return stats, nil
}

func (s *DashboardService) collect(ctx context.Context, scope authz.RequestScope) (*dto.DashboardStatsDTO, error) {
	requestScope := scope.SQLCondition()

	totalRequests, openRequests, overdueRequests, completedToday, err := s.dashboardRepo.RequestCounts(ctx, requestScope)
	if err != nil {
		return nil, err
	}

	totalEquipment, scrappedEquipment, err := s.dashboardRepo.EquipmentCounts(ctx, scope.EquipmentSQLCondition())
	if err != nil {
		return nil, err
	}

	statusBreakdown, err := s.dashboardRepo.CountByStatus(ctx, requestScope)
	if err != nil {
		return nil, err
	}
	kindBreakdown, err := s.dashboardRepo.CountByKind(ctx, requestScope)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.requestRepo.ListRequests(ctx, requestScope, types.Filter{Limit: recentRequestsLimit})
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsDTO{
		TotalEquipment:    totalEquipment,
		ScrappedEquipment: scrappedEquipment,
		TotalRequests:     totalRequests,
		OpenRequests:      openRequests,
		OverdueRequests:   overdueRequests,
		CompletedToday:    completedToday,
		StatusBreakdown:   statusBreakdown,
		KindBreakdown:     kindBreakdown,
		RecentRequests:    recent,
	}, nil
}
