package maintenance

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
	paginationpkg "github.com/stocknexus/stocknexus-backend/pkg/pagination"
)

type fakeRepository struct {
	createFn  func(ctx context.Context, record *models.ServiceRecord) error
	getByIDFn func(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error)
	updateFn  func(ctx context.Context, record *models.ServiceRecord) error
	listFn    func(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *paginationpkg.Cursor, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, record *models.ServiceRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, record)
	}
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, record *models.ServiceRecord) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, record)
	}
	return nil
}

func (f *fakeRepository) List(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *paginationpkg.Cursor, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}
	return nil, nil, nil
}

func (f *fakeRepository) ListByDepartment(ctx context.Context, department enums.Department) ([]models.ServiceRecord, error) {
	return nil, nil
}

type fakeItemGetter struct {
	fn func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

func (f fakeItemGetter) GetByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if f.fn != nil {
		return f.fn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func itemInDept(id uuid.UUID, dept enums.Department) *models.InventoryItem {
	return &models.InventoryItem{ID: id, Name: "Oscilloscope", Department: dept, Status: enums.ItemStatusActive}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "maintenance-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func newTestService(t *testing.T, repo Repository, items itemGetter) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{Repo: repo, Items: items, Logger: testLogger()})
	require.NoError(t, err)
	return svc
}

func hodActor(dept enums.Department) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleHOD, Department: dept}
}

func validCreate(itemID uuid.UUID) CreateRecordRequest {
	return CreateRecordRequest{
		ItemID:         itemID,
		Type:           enums.ServiceTypeExternal,
		Nature:         enums.ServiceNatureRepair,
		ServiceDate:    time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		TechnicianName: "R. Iyer",
		Cost:           decimal.NewFromInt(1500),
	}
}

func TestCreateDefaultsToScheduled(t *testing.T) {
	itemID := uuid.New()
	var saved *models.ServiceRecord
	repo := &fakeRepository{
		createFn: func(ctx context.Context, record *models.ServiceRecord) error {
			saved = record
			return nil
		},
	}
	items := fakeItemGetter{fn: func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
		return itemInDept(itemID, enums.DepartmentPhysics), nil
	}}
	svc := newTestService(t, repo, items)

	actor := hodActor(enums.DepartmentPhysics)
	record, err := svc.Create(context.Background(), actor, validCreate(itemID))
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, enums.ServiceStatusScheduled, record.Status)
	assert.Equal(t, actor.UserID, record.CreatedBy)
	assert.True(t, record.Cost.Equal(decimal.NewFromInt(1500)))
}

func TestCreateCrossDepartmentIsNotFound(t *testing.T) {
	itemID := uuid.New()
	items := fakeItemGetter{fn: func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
		return itemInDept(itemID, enums.DepartmentCSE), nil
	}}
	svc := newTestService(t, &fakeRepository{}, items)

	_, err := svc.Create(context.Background(), hodActor(enums.DepartmentPhysics), validCreate(itemID))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateStaffDenied(t *testing.T) {
	itemID := uuid.New()
	items := fakeItemGetter{fn: func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
		return itemInDept(itemID, enums.DepartmentIT), nil
	}}
	svc := newTestService(t, &fakeRepository{}, items)

	actor := authz.Actor{UserID: uuid.New(), Role: enums.RoleStaff, Department: enums.DepartmentIT}
	_, err := svc.Create(context.Background(), actor, validCreate(itemID))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestCreateRejectsNegativeCost(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, fakeItemGetter{})

	req := validCreate(uuid.New())
	req.Cost = decimal.NewFromInt(-1)
	_, err := svc.Create(context.Background(), hodActor(enums.DepartmentIT), req)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	itemID := uuid.New()
	recordID := uuid.New()
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
			return &models.ServiceRecord{
				ID: recordID, ItemID: itemID,
				Type: enums.ServiceTypeInternal, Nature: enums.ServiceNatureCalibration,
				Status: enums.ServiceStatusScheduled, TechnicianName: "R. Iyer",
				Cost: decimal.NewFromInt(200),
			}, nil
		},
	}
	items := fakeItemGetter{fn: func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
		return itemInDept(itemID, enums.DepartmentChemistry), nil
	}}
	svc := newTestService(t, repo, items)

	status := enums.ServiceStatusCompleted
	bill := "bills/2025/record.pdf"
	record, err := svc.Update(context.Background(), hodActor(enums.DepartmentChemistry), recordID, UpdateRecordRequest{
		Status:   &status,
		BillPath: &bill,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.ServiceStatusCompleted, record.Status)
	require.NotNil(t, record.BillPath)
	assert.Equal(t, bill, *record.BillPath)
	// untouched fields survive
	assert.Equal(t, "R. Iyer", record.TechnicianName)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	itemID := uuid.New()
	repo := &fakeRepository{
		getByIDFn: func(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
			return &models.ServiceRecord{
				ID: id, ItemID: itemID,
				Status: enums.ServiceStatusScheduled, TechnicianName: "R. Iyer",
			}, nil
		},
	}
	items := fakeItemGetter{fn: func(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
		return itemInDept(itemID, enums.DepartmentChemistry), nil
	}}
	svc := newTestService(t, repo, items)

	bogus := enums.ServiceStatus("paused")
	_, err := svc.Update(context.Background(), hodActor(enums.DepartmentChemistry), uuid.New(), UpdateRecordRequest{Status: &bogus})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestGetMissingRecordIsNotFound(t *testing.T) {
	svc := newTestService(t, &fakeRepository{}, fakeItemGetter{})

	_, err := svc.Get(context.Background(), hodActor(enums.DepartmentIT), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListScopesNonAdmins(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *paginationpkg.Cursor, error) {
			if params.Department == nil || *params.Department != enums.DepartmentPhysics {
				t.Fatalf("expected Physics scope, got %v", params.Department)
			}
			return []models.ServiceRecord{{ID: uuid.New()}}, nil, nil
		},
	}
	svc := newTestService(t, repo, fakeItemGetter{})

	result, err := svc.List(context.Background(), hodActor(enums.DepartmentPhysics), ListParams{})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
}

func TestListCrossDepartmentLooksEmpty(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, params listServiceParams) ([]models.ServiceRecord, *paginationpkg.Cursor, error) {
			t.Fatal("repository must not be queried for cross-department listing")
			return nil, nil, nil
		},
	}
	svc := newTestService(t, repo, fakeItemGetter{})

	other := enums.DepartmentCSE
	result, err := svc.List(context.Background(), hodActor(enums.DepartmentPhysics), ListParams{Department: &other})
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}
