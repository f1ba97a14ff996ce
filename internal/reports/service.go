package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/db/models"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
	"github.com/stocknexus/stocknexus-backend/pkg/logger"
)

// Kind selects which dataset an export covers.
type Kind string

const (
	KindInventory Kind = "inventory"
	KindScrap     Kind = "scrap"
	KindService   Kind = "service"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ExportRequest selects a dataset, department, and format.
type ExportRequest struct {
	Kind       Kind              `json:"kind"`
	Department *enums.Department `json:"department,omitempty"`
	Format     Format            `json:"format"`
}

// ExportResult is a generated report file.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Service generates department-scoped report files.
type Service interface {
	Export(ctx context.Context, actor authz.Actor, req ExportRequest) (*ExportResult, error)
}

type inventoryLister interface {
	ListByDepartment(ctx context.Context, department enums.Department) ([]models.InventoryItem, error)
}

type scrapLister interface {
	ListByDepartment(ctx context.Context, department enums.Department) ([]models.ScrapItem, error)
}

type serviceLister interface {
	ListByDepartment(ctx context.Context, department enums.Department) ([]models.ServiceRecord, error)
}

// ServiceParams packages report dependencies.
type ServiceParams struct {
	Inventory inventoryLister
	Scrap     scrapLister
	Records   serviceLister
	Logger    *logger.Logger
}

type service struct {
	inventory inventoryLister
	scrap     scrapLister
	records   serviceLister
	logg      *logger.Logger
}

// NewService wires report dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if params.Scrap == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "scrap repository required")
	}
	if params.Records == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "service record repository required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		inventory: params.Inventory,
		scrap:     params.Scrap,
		records:   params.Records,
		logg:      params.Logger,
	}, nil
}

func (s *service) Export(ctx context.Context, actor authz.Actor, req ExportRequest) (*ExportResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	// Staff never export; HODs export their own department only.
	if actor.Role != enums.RoleAdmin && actor.Role != enums.RoleHOD {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}

	dept := actor.Department
	if actor.IsAdmin() && req.Department != nil {
		dept = *req.Department
	}
	if !dept.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown department")
	}

	format := req.Format
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatXLSX {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown format")
	}

	var (
		header [][]string
		err    error
	)
	switch req.Kind {
	case KindInventory:
		header, err = s.inventoryRows(ctx, dept)
	case KindScrap:
		header, err = s.scrapRows(ctx, dept)
	case KindService:
		header, err = s.serviceRows(ctx, dept)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown report kind")
	}
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s_%s_%s.%s", req.Kind, sanitizeDept(dept), time.Now().UTC().Format("20060102"), format)
	var result *ExportResult
	switch format {
	case FormatCSV:
		result, err = buildCSV(name, header)
	case FormatXLSX:
		result, err = buildXLSX(name, string(req.Kind), header)
	}
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"kind": req.Kind, "department": dept, "format": format, "rows": len(header) - 1,
	}), "report exported")
	return result, nil
}

func (s *service) inventoryRows(ctx context.Context, dept enums.Department) ([][]string, error) {
	items, err := s.inventory.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list inventory")
	}
	rows := [][]string{{
		"Name", "Category", "Model", "Serial Number", "Quantity",
		"Low Stock Threshold", "Department", "Location", "Cabin Number", "Status",
	}}
	for _, item := range items {
		rows = append(rows, []string{
			item.Name, item.Category, item.Model, item.SerialNumber,
			strconv.Itoa(item.Quantity), strconv.Itoa(item.LowStockThreshold),
			item.Department.String(), item.Location, item.CabinNumber, item.Status.String(),
		})
	}
	return rows, nil
}

func (s *service) scrapRows(ctx context.Context, dept enums.Department) ([][]string, error) {
	items, err := s.scrap.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list scrap history")
	}
	rows := [][]string{{
		"Item Name", "Model", "Serial Number", "Department", "Quantity",
		"Reason", "Notes", "Scrapped At",
	}}
	for _, item := range items {
		rows = append(rows, []string{
			item.ItemName, item.Model, item.SerialNumber, item.Department.String(),
			strconv.Itoa(item.Quantity), item.Reason, item.Notes,
			item.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return rows, nil
}

func (s *service) serviceRows(ctx context.Context, dept enums.Department) ([][]string, error) {
	records, err := s.records.ListByDepartment(ctx, dept)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service records")
	}
	rows := [][]string{{
		"Item ID", "Type", "Nature", "Service Date", "Status",
		"Technician", "Cost", "Remarks",
	}}
	for _, record := range records {
		rows = append(rows, []string{
			record.ItemID.String(), record.Type.String(), record.Nature.String(),
			record.ServiceDate.UTC().Format("2006-01-02"), record.Status.String(),
			record.TechnicianName, record.Cost.StringFixed(2), record.Remarks,
		})
	}
	return rows, nil
}

func buildCSV(name string, rows [][]string) (*ExportResult, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.WriteAll(rows); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv")
	}
	return &ExportResult{
		FileName:    name,
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func buildXLSX(name, sheet string, rows [][]string) (*ExportResult, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rename sheet")
	}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve cell")
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write cell")
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write workbook")
	}
	return &ExportResult{
		FileName:    name,
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Data:        buf.Bytes(),
	}, nil
}

func sanitizeDept(dept enums.Department) string {
	out := make([]rune, 0, len(dept))
	for _, r := range dept.String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
