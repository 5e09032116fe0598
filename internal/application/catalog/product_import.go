package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bakery/backend/internal/domain/catalog"
	"github.com/bakery/backend/internal/domain/shared"
	csvimport "github.com/bakery/backend/internal/infrastructure/import"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultImportMaxRows bounds a single upload
const DefaultImportMaxRows = 5000

// Row error codes raised after the column checks pass
const (
	ImportCodeAlreadyExists = "ALREADY_EXISTS"
	ImportCodeRejected      = "REJECTED"
)

var productImportRules = []csvimport.FieldRule{
	csvimport.Field("sku").Required().MaxLength(50).Unique().Build(),
	csvimport.Field("name").Required().MaxLength(200).Build(),
	csvimport.Field("category").MaxLength(100).Build(),
	csvimport.Field("unit").MaxLength(20).Build(),
	csvimport.Field("selling_price").Required().Decimal().Min(decimal.Zero).Build(),
	csvimport.Field("base_price").Decimal().Min(decimal.Zero).Build(),
	csvimport.Field("cost_price").Decimal().Min(decimal.Zero).Build(),
	csvimport.Field("tax_rate").Decimal().Min(decimal.Zero).Max(decimal.NewFromInt(100)).Build(),
	csvimport.Field("min_stock").Decimal().Min(decimal.Zero).Build(),
	csvimport.Field("reorder_level").Decimal().Min(decimal.Zero).Build(),
	csvimport.Field("shelf_life_days").Int().Min(decimal.Zero).Build(),
}

// ImportOptions controls a catalogue upload
type ImportOptions struct {
	// DryRun validates every row without saving anything
	DryRun bool
	// MaxRows rejects larger files, DefaultImportMaxRows when zero
	MaxRows int
}

// ImportResult reports what an upload did. Nothing is saved when any row fails.
type ImportResult struct {
	TotalRows   int                  `json:"total_rows"`
	ValidRows   int                  `json:"valid_rows"`
	ErrorRows   int                  `json:"error_rows"`
	Created     int                  `json:"created"`
	DryRun      bool                 `json:"dry_run"`
	Errors      []csvimport.RowError `json:"errors,omitempty"`
	TotalErrors int                  `json:"total_errors"`
	Truncated   bool                 `json:"truncated,omitempty"`
}

// Import creates products from a CSV catalogue. Every row is checked first,
// against the column rules, the product invariants and existing SKUs; the
// file is only written when all rows pass.
func (s *ProductService) Import(ctx context.Context, tenantID uuid.UUID, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultImportMaxRows
	}

	parser, err := csvimport.NewParser(r)
	if err != nil {
		return nil, importFileError(err)
	}
	if missing := parser.Missing("sku", "name", "selling_price"); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE",
			"Missing required columns: "+strings.Join(missing, ", "))
	}

	errs := csvimport.NewErrors(csvimport.DefaultErrorLimit)
	validator := csvimport.NewValidator(productImportRules, errs)
	result := &ImportResult{DryRun: opts.DryRun}

	var pending []CreateProductRequest
	for {
		row, err := parser.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			result.TotalRows++
			errs.Add(csvimport.RowError{Row: perr.StartLine, Code: csvimport.CodeMalformedRow, Message: perr.Err.Error()})
			continue
		}
		if err != nil {
			return nil, importFileError(err)
		}

		result.TotalRows++
		if result.TotalRows > maxRows {
			return nil, shared.NewDomainError("IMPORT_TOO_LARGE",
				fmt.Sprintf("Import is limited to %d rows", maxRows))
		}
		if !validator.Check(row) {
			continue
		}

		req := productRequestFromRow(row)
		if rowErr := s.checkImportRow(ctx, tenantID, req); rowErr != nil {
			rowErr.Row = row.Line
			errs.Add(*rowErr)
			continue
		}
		pending = append(pending, req)
	}

	if result.TotalRows == 0 {
		return nil, shared.NewDomainError("INVALID_IMPORT_FILE", "CSV file contains no data rows")
	}

	result.ErrorRows = errs.Rows()
	result.ValidRows = result.TotalRows - result.ErrorRows
	result.Errors = errs.List()
	result.TotalErrors = errs.Total()
	result.Truncated = errs.Truncated()

	if opts.DryRun || !errs.Empty() {
		return result, nil
	}

	for _, req := range pending {
		if _, err := s.Create(ctx, tenantID, req); err != nil {
			return result, fmt.Errorf("import %s: %w", req.SKU, err)
		}
		result.Created++
	}
	return result, nil
}

// checkImportRow applies the same invariants Create enforces so that a
// failing row is reported before anything is written.
func (s *ProductService) checkImportRow(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) *csvimport.RowError {
	taxRate := DefaultProductTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	prices := catalog.Prices{Base: req.BasePrice, Selling: req.SellingPrice, Cost: req.CostPrice}
	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Unit, prices, taxRate)
	if err == nil {
		err = product.SetStockThresholds(req.MinStock, req.ReorderLevel)
	}
	if err != nil {
		code := ImportCodeRejected
		var de *shared.DomainError
		if errors.As(err, &de) {
			code = de.Code
		}
		return &csvimport.RowError{Code: code, Message: err.Error()}
	}

	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, product.SKU)
	if err != nil {
		return &csvimport.RowError{Column: "sku", Code: ImportCodeRejected, Message: "could not check existing products", Value: req.SKU}
	}
	if exists {
		return &csvimport.RowError{Column: "sku", Code: ImportCodeAlreadyExists, Message: "a product with this SKU already exists", Value: req.SKU}
	}
	return nil
}

// productRequestFromRow converts a row that passed productImportRules
func productRequestFromRow(row *csvimport.Row) CreateProductRequest {
	req := CreateProductRequest{
		SKU:          row.Get("sku"),
		Name:         row.Get("name"),
		Description:  row.Get("description"),
		Category:     row.Get("category"),
		Unit:         row.Get("unit"),
		SellingPrice: cellDecimal(row, "selling_price"),
		BasePrice:    cellDecimal(row, "base_price"),
		CostPrice:    cellDecimal(row, "cost_price"),
		MinStock:     cellDecimal(row, "min_stock"),
		ReorderLevel: cellDecimal(row, "reorder_level"),
	}
	if v := row.Get("tax_rate"); v != "" {
		rate := cellDecimal(row, "tax_rate")
		req.TaxRate = &rate
	}
	if v := row.Get("shelf_life_days"); v != "" {
		req.ShelfLifeDays, _ = strconv.Atoi(v)
	}
	return req
}

func cellDecimal(row *csvimport.Row, column string) decimal.Decimal {
	d, err := decimal.NewFromString(row.Get(column))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func importFileError(err error) error {
	switch {
	case errors.Is(err, csvimport.ErrEmptyFile),
		errors.Is(err, csvimport.ErrInvalidEncoding),
		errors.Is(err, csvimport.ErrMissingHeader),
		errors.Is(err, csvimport.ErrDuplicateHeader):
		return shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return shared.NewDomainError("INVALID_IMPORT_FILE", err.Error())
	}
	return err
}
