package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bizgrow/backend/internal/domain/catalog"
	"github.com/bizgrow/backend/internal/domain/shared"
	csvimport "github.com/bizgrow/backend/internal/infrastructure/import"
	"github.com/bizgrow/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// MaxImportRows caps the data rows of one CSV import
	MaxImportRows = 5000

	maxImportErrors = 100
	lookupBatchSize = 100
	exportPageSize  = 100
)

// ProductCSVColumns is the column order of product exports. Imports accept any order.
var ProductCSVColumns = []string{"name", "price", "category", "description", "brand", "stock", "mrp", "image_url", "is_active"}

var requiredProductColumns = []string{"name", "price"}

// ConflictMode decides what happens to a row whose name already exists in the store
type ConflictMode string

const (
	ConflictModeSkip   ConflictMode = "skip"
	ConflictModeUpdate ConflictMode = "update"
	ConflictModeFail   ConflictMode = "fail"
)

// IsValid checks if the conflict mode is valid
func (c ConflictMode) IsValid() bool {
	switch c {
	case ConflictModeSkip, ConflictModeUpdate, ConflictModeFail:
		return true
	}
	return false
}

// ImportResult summarises a product CSV import
type ImportResult struct {
	TotalRows   int                  `json:"total"`
	Imported    int                  `json:"imported"`
	Updated     int                  `json:"updated"`
	Skipped     int                  `json:"skipped"`
	ErrorRows   int                  `json:"error_rows"`
	Errors      []csvimport.RowError `json:"errors"`
	IsTruncated bool                 `json:"is_truncated,omitempty"`
	Aborted     bool                 `json:"aborted,omitempty"`
}

// productRecord is one CSV row before conversion
type productRecord struct {
	Name        string `csv:"name" validate:"required,max=200"`
	Price       string `csv:"price" validate:"required,max=20"`
	Category    string `csv:"category" validate:"max=100"`
	Description string `csv:"description" validate:"max=2000"`
	Brand       string `csv:"brand" validate:"max=100"`
	Stock       string `csv:"stock" validate:"omitempty,number"`
	MRP         string `csv:"mrp" validate:"max=20"`
	ImageURL    string `csv:"image_url" validate:"omitempty,url,max=500"`
	IsActive    string `csv:"is_active" validate:"omitempty,oneof=true false TRUE FALSE yes no 1 0"`
}

// parsedRow is a validated row ready to become a product
type parsedRow struct {
	line   int
	record productRecord
	price  decimal.Decimal
	mrp    decimal.Decimal
	stock  *int
	active *bool
}

// ImportService imports and exports the product catalog as CSV
type ImportService struct {
	products  catalog.ProductRepository
	events    shared.EventPublisher
	validator *csvimport.RowValidator
	logger    *zap.Logger
}

// NewImportService creates a new ImportService. events may be nil.
func NewImportService(products catalog.ProductRepository, events shared.EventPublisher, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{
		products:  products,
		events:    events,
		validator: csvimport.DefaultRowValidator(),
		logger:    logger,
	}
}

// ImportProducts reads a product CSV and writes it in batches. Rows with errors
// are reported and left out. In fail mode any name conflict aborts the import
// before anything is written.
func (s *ImportService) ImportProducts(ctx context.Context, storeID uuid.UUID, r io.Reader, mode ConflictMode) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "import_products",
		telemetry.SpanAttrStoreID, storeID.String(),
		telemetry.SpanAttrConflictMode, string(mode),
	)
	result, err := s.importProducts(ctx, storeID, r, mode)
	if result != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrRows, result.TotalRows)
	}
	telemetry.EndSpan(span, err)
	return result, err
}

func (s *ImportService) importProducts(ctx context.Context, storeID uuid.UUID, r io.Reader, mode ConflictMode) (*ImportResult, error) {
	if mode == "" {
		mode = ConflictModeSkip
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "conflict_mode must be skip, update or fail")
	}

	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}

	errs := csvimport.NewErrorCollection(maxImportErrors)
	result := &ImportResult{TotalRows: len(rows)}

	parsed := s.parseRows(rows, errs)
	existing, err := s.existingByName(ctx, storeID, parsed)
	if err != nil {
		return nil, err
	}

	var toSave []*catalog.Product
	conflicts := 0
	for _, row := range parsed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		current, exists := existing[nameKey(row.record.Name)]
		if exists {
			switch mode {
			case ConflictModeSkip:
				result.Skipped++
				continue
			case ConflictModeFail:
				conflicts++
				errs.Add(csvimport.RowError{
					Row:     row.line,
					Column:  "name",
					Code:    csvimport.ErrCodeImportConflict,
					Message: "a product with this name already exists",
					Value:   row.record.Name,
				})
				continue
			}
		}

		p, err := buildProduct(storeID, current, row)
		if err != nil {
			errs.Add(domainRowError(row.line, err))
			continue
		}
		toSave = append(toSave, p)
		if exists {
			result.Updated++
		} else {
			result.Imported++
		}
	}

	if conflicts > 0 {
		result.Imported, result.Updated = 0, 0
		result.Aborted = true
		toSave = nil
	}

	if len(toSave) > 0 {
		if err := s.products.SaveBatch(ctx, toSave); err != nil {
			return nil, shared.WrapDomainError(shared.ErrPersistenceWrite.Code, "Failed to save imported products", err)
		}
		s.publishImported(ctx, storeID, result)
	}

	result.ErrorRows = errs.RowCount()
	result.Errors = errs.Errors()
	result.IsTruncated = errs.IsTruncated()

	s.logger.Info("product import finished",
		zap.String("store_id", storeID.String()),
		zap.String("mode", string(mode)),
		zap.Int("total", result.TotalRows),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("error_rows", result.ErrorRows))
	return result, nil
}

func readRows(r io.Reader) ([]*csvimport.Row, error) {
	parser, err := csvimport.NewCSVParser(r)
	if err != nil {
		return nil, csvError(err)
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, csvError(err)
	}
	if missing := parser.MissingHeaders(requiredProductColumns); len(missing) > 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("CSV header is missing required columns: %s", strings.Join(missing, ", ")))
	}
	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, csvError(err)
	}
	if len(rows) == 0 {
		return nil, csvError(csvimport.ErrNoDataRows)
	}
	if len(rows) > MaxImportRows {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code,
			fmt.Sprintf("CSV files are limited to %d rows", MaxImportRows))
	}
	return rows, nil
}

func csvError(err error) error {
	return shared.WrapDomainError(shared.ErrInvalidInput.Code, err.Error(), err)
}

// parseRows validates and converts rows. A name repeated in the file keeps its first row.
func (s *ImportService) parseRows(rows []*csvimport.Row, errs *csvimport.ErrorCollection) []parsedRow {
	seen := make(map[string]int, len(rows))
	out := make([]parsedRow, 0, len(rows))
	for _, row := range rows {
		var rec productRecord
		if err := csvimport.Decode(row, &rec); err != nil {
			errs.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeImportMalformedRow, err.Error()))
			continue
		}
		if rowErrs := s.validator.Validate(row.LineNumber, &rec); len(rowErrs) > 0 {
			errs.Add(rowErrs...)
			continue
		}

		p := parsedRow{line: row.LineNumber, record: rec}
		var rowErrs []csvimport.RowError
		var err error
		if p.price, err = parseMoney(rec.Price); err != nil {
			rowErrs = append(rowErrs, typeError(row.LineNumber, "price", rec.Price))
		}
		if p.mrp, err = parseMoney(rec.MRP); err != nil {
			rowErrs = append(rowErrs, typeError(row.LineNumber, "mrp", rec.MRP))
		}
		if rec.Stock != "" {
			stock, err := strconv.Atoi(rec.Stock)
			if err != nil {
				rowErrs = append(rowErrs, typeError(row.LineNumber, "stock", rec.Stock))
			}
			p.stock = &stock
		}
		if rec.IsActive != "" {
			active := parseBool(rec.IsActive)
			p.active = &active
		}

		key := nameKey(rec.Name)
		if first, dup := seen[key]; dup {
			rowErrs = append(rowErrs, csvimport.RowError{
				Row:     row.LineNumber,
				Column:  "name",
				Code:    csvimport.ErrCodeImportDuplicateFile,
				Message: fmt.Sprintf("duplicate name (first seen in row %d)", first),
				Value:   rec.Name,
			})
		}
		if len(rowErrs) > 0 {
			errs.Add(rowErrs...)
			continue
		}
		seen[key] = row.LineNumber
		out = append(out, p)
	}
	return out
}

func (s *ImportService) existingByName(ctx context.Context, storeID uuid.UUID, rows []parsedRow) (map[string]*catalog.Product, error) {
	existing := make(map[string]*catalog.Product, len(rows))
	for start := 0; start < len(rows); start += lookupBatchSize {
		end := min(start+lookupBatchSize, len(rows))
		names := make([]string, 0, end-start)
		for _, row := range rows[start:end] {
			names = append(names, row.record.Name)
		}
		found, err := s.products.FindByNames(ctx, storeID, names)
		if err != nil {
			return nil, err
		}
		for i := range found {
			existing[nameKey(found[i].Name)] = &found[i]
		}
	}
	return existing, nil
}

// buildProduct creates a product, or updates current when it is non-nil
func buildProduct(storeID uuid.UUID, current *catalog.Product, row parsedRow) (*catalog.Product, error) {
	rec := row.record
	p := current
	if p == nil {
		var err error
		if p, err = catalog.NewProduct(storeID, rec.Name, row.price); err != nil {
			return nil, err
		}
	}

	imageURL := rec.ImageURL
	if imageURL == "" && current != nil {
		imageURL = current.ImageURL
	}
	if err := p.Update(rec.Name, rec.Description, rec.Category, rec.Brand, imageURL); err != nil {
		return nil, err
	}
	if err := p.SetPricing(row.price, row.mrp); err != nil {
		return nil, err
	}
	if row.stock != nil {
		if err := p.SetStock(*row.stock); err != nil {
			return nil, err
		}
	}
	if row.active != nil {
		if *row.active {
			p.Activate()
		} else {
			p.Deactivate()
		}
	}
	// imported products are announced once per import, not one by one
	p.ClearDomainEvents()
	return p, nil
}

func (s *ImportService) publishImported(ctx context.Context, storeID uuid.UUID, result *ImportResult) {
	if s.events == nil {
		return
	}
	evt := catalog.NewProductsImportedEvent(storeID, result.Imported, result.Updated)
	if err := s.events.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish import event", zap.String("store_id", storeID.String()), zap.Error(err))
	}
}

// ExportProducts streams every product of the store as CSV, ordered by name
func (s *ImportService) ExportProducts(ctx context.Context, storeID uuid.UUID, w io.Writer) error {
	cw, err := csvimport.NewWriter(w, ProductCSVColumns)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.PageSize = exportPageSize
	filter.OrderBy = "name"
	filter.OrderDir = "asc"
	for {
		products, err := s.products.FindAllForStore(ctx, storeID, filter)
		if err != nil {
			return err
		}
		for i := range products {
			if err := cw.Write(productRecordOf(&products[i])); err != nil {
				return err
			}
		}
		if len(products) < filter.PageSize {
			break
		}
		filter.Page++
	}
	return cw.Flush()
}

func productRecordOf(p *catalog.Product) []string {
	mrp := ""
	if !p.MRP.IsZero() {
		mrp = p.MRP.StringFixed(2)
	}
	return []string{
		p.Name,
		p.Price.StringFixed(2),
		p.Category,
		p.Description,
		p.Brand,
		strconv.Itoa(p.Stock),
		mrp,
		p.ImageURL,
		strconv.FormatBool(p.IsActive),
	}
}

// parseMoney accepts "1200", "1,200.50" and "₹1,200". Empty means zero.
func parseMoney(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(value), "₹"))
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func typeError(line int, column, value string) csvimport.RowError {
	return csvimport.RowError{
		Row:     line,
		Column:  column,
		Code:    csvimport.ErrCodeImportInvalidType,
		Message: "expected a number",
		Value:   value,
	}
}

func domainRowError(line int, err error) csvimport.RowError {
	re := csvimport.RowError{Row: line, Code: csvimport.ErrCodeImportRejected, Message: err.Error()}
	var de *shared.DomainError
	if errors.As(err, &de) {
		re.Code = de.Code
		re.Message = de.Message
	}
	return re
}
