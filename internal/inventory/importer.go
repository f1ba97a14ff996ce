package inventory

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stocknexus/stocknexus-backend/internal/authz"
	"github.com/stocknexus/stocknexus-backend/pkg/enums"
	pkgerrors "github.com/stocknexus/stocknexus-backend/pkg/errors"
)

// importColumns is the expected header row of an import workbook, matched
// case-insensitively.
var importColumns = []string{
	"name", "category", "model", "serial number", "quantity",
	"low stock threshold", "department", "location", "cabin number",
}

// ImportRequest carries the uploaded workbook.
type ImportRequest struct {
	Reader io.Reader
}

// ImportRowError reports why one spreadsheet row was skipped. Row numbers are
// 1-based as shown in the spreadsheet.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk import. Valid rows commit even when other
// rows fail.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

func (s *service) ImportXLSX(ctx context.Context, actor authz.Actor, req ImportRequest) (*ImportResult, error) {
	if !actor.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if actor.Role != enums.RoleAdmin && actor.Role != enums.RoleHOD {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "access denied")
	}
	if req.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook file required")
	}

	f, err := excelize.OpenReader(req.Reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid xlsx workbook")
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read workbook rows")
	}
	if len(rows) < 2 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "workbook has no data rows")
	}
	if err := checkImportHeader(rows[0]); err != nil {
		return nil, err
	}
	if len(rows)-1 > s.maxImport {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("workbook exceeds %d row import limit", s.maxImport))
	}

	result := &ImportResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		req, err := parseImportRow(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}

		// Each row commits independently so one bad row cannot sink the batch.
		if _, err := s.Create(ctx, actor, *req); err != nil {
			result.Skipped++
			message := err.Error()
			if coded := pkgerrors.As(err); coded != nil {
				message = coded.Message()
			}
			result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Message: message})
			continue
		}
		result.Imported++
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"imported": result.Imported, "skipped": result.Skipped,
	}), "inventory import completed")
	return result, nil
}

func checkImportHeader(header []string) error {
	if len(header) < len(importColumns) {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("expected %d columns, got %d", len(importColumns), len(header)))
	}
	for i, want := range importColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("unexpected column %d: want %q", i+1, want))
		}
	}
	return nil
}

func parseImportRow(row []string) (*CreateItemRequest, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	name := cell(0)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	category := cell(1)
	if category == "" {
		return nil, fmt.Errorf("category is required")
	}

	quantity, err := strconv.Atoi(cell(4))
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("quantity must be a non-negative integer")
	}

	threshold := 0
	if raw := cell(5); raw != "" {
		threshold, err = strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return nil, fmt.Errorf("low stock threshold must be a non-negative integer")
		}
	}

	department := enums.Department(cell(6))
	if !department.IsValid() {
		return nil, fmt.Errorf("unknown department %q", cell(6))
	}

	return &CreateItemRequest{
		Name:              name,
		Category:          category,
		Model:             cell(2),
		SerialNumber:      cell(3),
		Quantity:          quantity,
		LowStockThreshold: threshold,
		Department:        department,
		Location:          cell(7),
		CabinNumber:       cell(8),
	}, nil
}
