package services

import (
	"context"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gearguard/internal/authz"
	"gearguard/internal/dto"
	"gearguard/internal/entities"
	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func uintPtr(v uint64) *uint64 { return &v }

// --- Фейки поверх интерфейсов репозиториев ---

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeRequestRepo struct {
	requests       map[uint64]*entities.Request
	listItems      []dto.RequestDTO
	nextID         uint64
	updateCalls    int
	lastListFilter types.Filter
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[uint64]*entities.Request), nextID: 1}
}

func (f *fakeRequestRepo) CreateRequestInTx(_ context.Context, _ pgx.Tx, r *entities.Request) (uint64, error) {
	id := f.nextID
	f.nextID++
	stored := *r
	stored.ID = id
	f.requests[id] = &stored
	return id, nil
}

func (f *fakeRequestRepo) FindRequestForUpdateInTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.Request, error) {
	return f.find(id)
}

func (f *fakeRequestRepo) FindRequest(_ context.Context, id uint64) (*entities.Request, error) {
	return f.find(id)
}

func (f *fakeRequestRepo) find(id uint64) (*entities.Request, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRequestRepo) UpdateRequestInTx(_ context.Context, _ pgx.Tx, r *entities.Request) error {
	if _, ok := f.requests[r.ID]; !ok {
		return apperrors.ErrNotFound
	}
	stored := *r
	f.requests[r.ID] = &stored
	f.updateCalls++
	return nil
}

func (f *fakeRequestRepo) FindRequestDTO(_ context.Context, id uint64) (*dto.RequestDTO, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	item := &dto.RequestDTO{
		ID:      r.ID,
		Subject: r.Subject,
		Kind:    string(r.Kind),
		Status:  string(r.Status),
	}
	if r.CompletedAt != nil {
		item.CompletedAt = null.TimeFrom(*r.CompletedAt)
	}
	if r.DurationHrs != nil {
		item.DurationHours = null.Float64From(*r.DurationHrs)
	}
	return item, nil
}

func (f *fakeRequestRepo) ListRequests(_ context.Context, _ sq.Sqlizer, filter types.Filter) ([]dto.RequestDTO, uint64, error) {
	f.lastListFilter = filter
	return f.listItems, uint64(len(f.listItems)), nil
}

func (f *fakeRequestRepo) ListCalendar(_ context.Context, _ sq.Sqlizer, _, _ time.Time) ([]dto.RequestDTO, error) {
	return f.listItems, nil
}

type fakeEquipmentRepo struct {
	equipments map[uint64]*entities.Equipment
	scrapCalls int
}

func newFakeEquipmentRepo(items ...*entities.Equipment) *fakeEquipmentRepo {
	f := &fakeEquipmentRepo{equipments: make(map[uint64]*entities.Equipment)}
	for _, e := range items {
		f.equipments[e.ID] = e
	}
	return f
}

func (f *fakeEquipmentRepo) CreateEquipment(_ context.Context, _ *entities.Equipment) (uint64, error) {
	panic("не используется в тестах")
}

func (f *fakeEquipmentRepo) UpdateEquipment(_ context.Context, _ *entities.Equipment) error {
	panic("не используется в тестах")
}

func (f *fakeEquipmentRepo) FindEquipmentByID(_ context.Context, id uint64) (*entities.Equipment, error) {
	return f.find(id)
}

func (f *fakeEquipmentRepo) FindEquipmentForUpdateInTx(_ context.Context, _ pgx.Tx, id uint64) (*entities.Equipment, error) {
	return f.find(id)
}

func (f *fakeEquipmentRepo) find(id uint64) (*entities.Equipment, error) {
	e, ok := f.equipments[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEquipmentRepo) MarkScrappedInTx(_ context.Context, _ pgx.Tx, id uint64) error {
	e, ok := f.equipments[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	e.IsScrapped = true
	f.scrapCalls++
	return nil
}

func (f *fakeEquipmentRepo) FindEquipmentDTO(_ context.Context, _ uint64) (*dto.EquipmentDTO, error) {
	panic("не используется в тестах")
}

func (f *fakeEquipmentRepo) ListEquipment(_ context.Context) ([]dto.EquipmentDTO, error) {
	panic("не используется в тестах")
}

// --- Вспомогательная сборка сервиса ---

func newTestRequestService(requestRepo *fakeRequestRepo, equipmentRepo *fakeEquipmentRepo) *RequestService {
	s := NewRequestService(requestRepo, equipmentRepo, fakeTxManager{}, authz.NewGatekeeper(), zap.NewNop())
	s.now = func() time.Time { return testNow }
	return s
}

var (
	testManager    = &entities.User{ID: 1, Role: entities.RoleManager}
	testTechnician = &entities.User{ID: 2, Role: entities.RoleTechnician, TeamIDs: []uint64{10}}
	testUser       = &entities.User{ID: 3, Role: entities.RoleUser}
)

// --- Создание заявок ---

func TestCreateRequestInheritsTeamFromEquipment(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, TeamID: uintPtr(10)})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	res, err := svc.CreateRequest(context.Background(), testUser, &dto.CreateRequestDTO{
		Subject:     "Вибрация шпинделя",
		EquipmentID: 5,
		Kind:        "Corrective",
	})
	require.NoError(t, err)

	stored := requestRepo.requests[res.ID]
	require.NotNil(t, stored.TeamID)
	assert.Equal(t, uint64(10), *stored.TeamID)
	assert.Equal(t, entities.StatusNew, stored.Status)
	assert.Equal(t, testUser.ID, stored.CreatedByID)
}

func TestCreateRequestKeepsExplicitTeam(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, TeamID: uintPtr(10)})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	res, err := svc.CreateRequest(context.Background(), testManager, &dto.CreateRequestDTO{
		Subject:     "Срочный ремонт",
		EquipmentID: 5,
		Kind:        "Corrective",
		TeamID:      null.Uint64From(20),
	})
	require.NoError(t, err)

	stored := requestRepo.requests[res.ID]
	assert.Equal(t, uint64(20), *stored.TeamID)
}

func TestCreateRequestOnScrappedEquipment(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, IsScrapped: true})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	_, err := svc.CreateRequest(context.Background(), testUser, &dto.CreateRequestDTO{
		Subject:     "Ремонт списанного",
		EquipmentID: 5,
		Kind:        "Corrective",
	})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)
	assert.Empty(t, requestRepo.requests)
}

func TestCreateRequestPreventiveRequiresSchedule(t *testing.T) {
	svc := newTestRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

	_, err := svc.CreateRequest(context.Background(), testManager, &dto.CreateRequestDTO{
		Subject:     "Плановое ТО",
		EquipmentID: 5,
		Kind:        "Preventive",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

// --- Переходы статусов ---

func TestUpdateStatusHappyPath(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, TeamID: uintPtr(10)})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(10), Status: entities.StatusNew,
	}

	_, err := svc.UpdateStatus(context.Background(), testTechnician, 1, &dto.UpdateRequestStatusDTO{Status: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, entities.StatusInProgress, requestRepo.requests[1].Status)

	res, err := svc.UpdateStatus(context.Background(), testTechnician, 1, &dto.UpdateRequestStatusDTO{
		Status:        "Repaired",
		DurationHours: null.Float64From(2.5),
	})
	require.NoError(t, err)

	stored := requestRepo.requests[1]
	assert.Equal(t, entities.StatusRepaired, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, testNow, *stored.CompletedAt)
	require.NotNil(t, stored.DurationHrs)
	assert.Equal(t, 2.5, *stored.DurationHrs)
	assert.True(t, res.CompletedAt.Valid)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	completed := testNow.Add(-time.Hour)
	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(10),
		Status: entities.StatusRepaired, CompletedAt: &completed,
	}

	_, err := svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "New"})
	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
	assert.Equal(t, entities.StatusRepaired, requestRepo.requests[1].Status)
}

func TestUpdateStatusScrapCascadesToEquipment(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, TeamID: uintPtr(10)})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(10), Status: entities.StatusInProgress,
	}

	_, err := svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "Scrap"})
	require.NoError(t, err)

	assert.Equal(t, entities.StatusScrap, requestRepo.requests[1].Status)
	assert.True(t, equipmentRepo.equipments[5].IsScrapped)
	assert.Equal(t, 1, equipmentRepo.scrapCalls)
}

func TestUpdateStatusOnScrappedEquipment(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5, IsScrapped: true})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(10), Status: entities.StatusNew,
	}

	// Оборудование уже списано (например, каскадом другой заявки):
	// любой переход запрещён, включая переход в Scrap.
	_, err := svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "In Progress"})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)

	_, err = svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "Scrap"})
	assert.ErrorIs(t, err, apperrors.ErrEquipmentScrapped)

	assert.Equal(t, entities.StatusNew, requestRepo.requests[1].Status)
	assert.Equal(t, 0, requestRepo.updateCalls)
}

func TestUpdateStatusSelfTransitionIsNoop(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(10), Status: entities.StatusInProgress,
	}

	_, err := svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "In Progress"})
	require.NoError(t, err)
	assert.Equal(t, 0, requestRepo.updateCalls)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	equipmentRepo := newFakeEquipmentRepo(&entities.Equipment{ID: 5})
	svc := newTestRequestService(requestRepo, equipmentRepo)

	requestRepo.requests[1] = &entities.Request{
		ID: 1, EquipmentID: 5, TeamID: uintPtr(20), Status: entities.StatusNew, CreatedByID: 3,
	}

	// Техник чужой команды.
	_, err := svc.UpdateStatus(context.Background(), testTechnician, 1, &dto.UpdateRequestStatusDTO{Status: "In Progress"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	// Обычный пользователь, даже автор заявки.
	_, err = svc.UpdateStatus(context.Background(), testUser, 1, &dto.UpdateRequestStatusDTO{Status: "In Progress"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	assert.Equal(t, entities.StatusNew, requestRepo.requests[1].Status)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	svc := newTestRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

	_, err := svc.UpdateStatus(context.Background(), testManager, 1, &dto.UpdateRequestStatusDTO{Status: "Rejected"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := newTestRequestService(newFakeRequestRepo(), newFakeEquipmentRepo())

	_, err := svc.UpdateStatus(context.Background(), testManager, 42, &dto.UpdateRequestStatusDTO{Status: "Scrap"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- Точечное чтение ---

func TestGetRequestAuthorization(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	svc := newTestRequestService(requestRepo, newFakeEquipmentRepo())

	requestRepo.requests[1] = &entities.Request{
		ID: 1, TeamID: uintPtr(10), Status: entities.StatusNew, CreatedByID: 99,
	}

	_, err := svc.GetRequest(context.Background(), testManager, 1)
	assert.NoError(t, err)

	_, err = svc.GetRequest(context.Background(), testTechnician, 1)
	assert.NoError(t, err)

	// Вне области видимости — отказ, а не «не найдено».
	_, err = svc.GetRequest(context.Background(), testUser, 1)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
