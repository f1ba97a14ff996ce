package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

type fakeInventoryLister struct {
	requested []enums.Department
	items     []models.InventoryItem
}

func (f *fakeInventoryLister) ListByDepartment(ctx context.Context, department enums.Department) ([]models.InventoryItem, error) {
	f.requested = append(f.requested, department)
	return f.items, nil
}

type fakeScrapLister struct {
	items []models.ScrapItem
}

func (f *fakeScrapLister) ListByDepartment(ctx context.Context, department enums.Department) ([]models.ScrapItem, error) {
	return f.items, nil
}

type fakeServiceLister struct {
	records []models.ServiceRecord
}

func (f *fakeServiceLister) ListByDepartment(ctx context.Context, department enums.Department) ([]models.ServiceRecord, error) {
	return f.records, nil
}

func newTestService(t *testing.T, inv *fakeInventoryLister, scrap *fakeScrapLister, records *fakeServiceLister) Service {
	t.Helper()

	if inv == nil {
		inv = &fakeInventoryLister{}
	}
	if scrap == nil {
		scrap = &fakeScrapLister{}
	}
	if records == nil {
		records = &fakeServiceLister{}
	}
	logg := logger.New(logger.Options{ServiceName: "reports-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	svc, err := NewService(ServiceParams{Inventory: inv, Scrap: scrap, Records: records, Logger: logg})
	require.NoError(t, err)
	return svc
}

func hodActor(dept enums.Department) authz.Actor {
	return authz.Actor{UserID: uuid.New(), Role: enums.RoleHOD, Department: dept}
}

func TestExportInventoryCSV(t *testing.T) {
	inv := &fakeInventoryLister{items: []models.InventoryItem{
		{
			Name: "Microscope", Category: "Lab Equipment", Model: "MX-100",
			Quantity: 4, LowStockThreshold: 5,
			Department: enums.DepartmentBioTech, Location: "Lab 2",
			Status: enums.ItemStatusActive,
		},
	}}
	svc := newTestService(t, inv, nil, nil)

	result, err := svc.Export(context.Background(), hodActor(enums.DepartmentBioTech), ExportRequest{
		Kind:   KindInventory,
		Format: FormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.FileName, ".csv"))

	rows, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Name", rows[0][0])
	assert.Equal(t, "Microscope", rows[1][0])
	assert.Equal(t, "4", rows[1][4])
}

func TestExportScrapXLSX(t *testing.T) {
	scrap := &fakeScrapLister{items: []models.ScrapItem{
		{
			ItemName: "Old Bench", Department: enums.DepartmentPhysics,
			Quantity: 1, Reason: "rusted", CreatedAt: time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC),
		},
	}}
	svc := newTestService(t, nil, scrap, nil)

	result, err := svc.Export(context.Background(), hodActor(enums.DepartmentPhysics), ExportRequest{
		Kind:   KindScrap,
		Format: FormatXLSX,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.FileName, ".xlsx"))

	f, err := excelize.OpenReader(bytes.NewReader(result.Data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("scrap")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Item Name", rows[0][0])
	assert.Equal(t, "Old Bench", rows[1][0])
	assert.Equal(t, "rusted", rows[1][5])
}

func TestExportServiceIncludesCost(t *testing.T) {
	records := &fakeServiceLister{records: []models.ServiceRecord{
		{
			ItemID: uuid.New(), Type: enums.ServiceTypeExternal, Nature: enums.ServiceNatureRepair,
			ServiceDate: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
			Status:      enums.ServiceStatusCompleted, TechnicianName: "R. Iyer",
			Cost: decimal.RequireFromString("1499.50"),
		},
	}}
	svc := newTestService(t, nil, nil, records)

	result, err := svc.Export(context.Background(), hodActor(enums.DepartmentIT), ExportRequest{
		Kind:   KindService,
		Format: FormatCSV,
	})
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(result.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1499.50", rows[1][6])
}

func TestExportHODForcedToOwnDepartment(t *testing.T) {
	inv := &fakeInventoryLister{}
	svc := newTestService(t, inv, nil, nil)

	other := enums.DepartmentCSE
	_, err := svc.Export(context.Background(), hodActor(enums.DepartmentPhysics), ExportRequest{
		Kind:       KindInventory,
		Department: &other,
		Format:     FormatCSV,
	})
	require.NoError(t, err)
	require.Len(t, inv.requested, 1)
	assert.Equal(t, enums.DepartmentPhysics, inv.requested[0])
}

func TestExportStaffDenied(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	actor := authz.Actor{UserID: uuid.New(), Role: enums.RoleStaff, Department: enums.DepartmentIT}
	_, err := svc.Export(context.Background(), actor, ExportRequest{Kind: KindInventory, Format: FormatCSV})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestExportUnknownKindRejected(t *testing.T) {
	svc := newTestService(t, nil, nil, nil)

	_, err := svc.Export(context.Background(), hodActor(enums.DepartmentIT), ExportRequest{Kind: Kind("payroll")})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
