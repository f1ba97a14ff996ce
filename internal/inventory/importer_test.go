package inventory

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
)

func buildWorkbook(t *testing.T, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []string{
		"Name", "Category", "Model", "Serial Number", "Quantity",
		"Low Stock Threshold", "Department", "Location", "Cabin Number",
	}
	for col, value := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, value))
	}
	for i, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, value))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportXLSXHappyPath(t *testing.T) {
	var created []models.InventoryItem
	repo := &fakeRepository{
		createFn: func(ctx context.Context, item *models.InventoryItem) error {
			created = append(created, *item)
			return nil
		},
	}
	svc := newTestService(repo, nil)

	buf := buildWorkbook(t, [][]string{
		{"Microscope", "Lab Equipment", "MX-100", "SN-1", "4", "5", "Bio-tech", "Lab 2", "C-12"},
		{"Centrifuge", "Lab Equipment", "", "", "2", "", "Bio-tech", "", ""},
	})

	result, err := svc.ImportXLSX(context.Background(), adminActor(), ImportRequest{Reader: buf})
	require.NoError(t, err)
	require.Equal(t, 2, result.Imported)
	require.Equal(t, 0, result.Skipped)
	require.Len(t, created, 2)
	require.Equal(t, "Microscope", created[0].Name)
	require.Equal(t, enums.DepartmentBioTech, created[0].Department)
}

func TestImportXLSXCollectsRowErrors(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil)

	buf := buildWorkbook(t, [][]string{
		{"Microscope", "Lab Equipment", "", "", "4", "", "Bio-tech", "", ""},
		{"", "Lab Equipment", "", "", "4", "", "Bio-tech", "", ""},
		{"Burette", "Glassware", "", "", "not-a-number", "", "Chemistry", "", ""},
		{"Router", "Networking", "", "", "3", "", "Atlantis", "", ""},
	})

	result, err := svc.ImportXLSX(context.Background(), adminActor(), ImportRequest{Reader: buf})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, 3, result.Skipped)
	require.Len(t, result.Errors, 3)
	require.Equal(t, 3, result.Errors[0].Row)
}

func TestImportXLSXHODCrossDepartmentRowsSkipped(t *testing.T) {
	repo := &fakeRepository{}
	svc := newTestService(repo, nil)

	buf := buildWorkbook(t, [][]string{
		{"Microscope", "Lab Equipment", "", "", "4", "", "Bio-tech", "", ""},
		{"Router", "Networking", "", "", "3", "", "CSE", "", ""},
	})

	result, err := svc.ImportXLSX(context.Background(), hodActor(enums.DepartmentBioTech), ImportRequest{Reader: buf})
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
}

func TestImportXLSXStaffDenied(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)
	buf := buildWorkbook(t, [][]string{
		{"Microscope", "Lab Equipment", "", "", "4", "", "Bio-tech", "", ""},
	})

	actor := hodActor(enums.DepartmentBioTech)
	actor.Role = enums.RoleStaff
	_, err := svc.ImportXLSX(context.Background(), actor, ImportRequest{Reader: buf})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestImportXLSXRejectsBadHeader(t *testing.T) {
	svc := newTestService(&fakeRepository{}, nil)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Wrong"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "data"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = svc.ImportXLSX(context.Background(), adminActor(), ImportRequest{Reader: buf})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestImportXLSXEnforcesRowLimit(t *testing.T) {
	svc, err := NewService(ServiceParams{
		DB:         fakeTxRunner{},
		Repo:       &fakeRepository{},
		Reconciler: &fakeReconciler{},
		Logger:     testLogger(),
		MaxImport:  2,
	})
	require.NoError(t, err)

	var rows [][]string
	for i := 0; i < 3; i++ {
		rows = append(rows, []string{fmt.Sprintf("Item %d", i), "Misc", "", "", "1", "", "IT", "", ""})
	}
	buf := buildWorkbook(t, rows)

	_, err = svc.ImportXLSX(context.Background(), adminActor(), ImportRequest{Reader: buf})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
