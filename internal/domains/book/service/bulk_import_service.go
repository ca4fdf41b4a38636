package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
	"library-backend/internal/shared"
	"library-backend/pkg/database"
)

type bulkImportService struct {
	bookRepo repository.RepositoryInterface
	tx       database.TxManager
}

// NewBulkImportService creates a new bulk import service
func NewBulkImportService(bookRepo repository.RepositoryInterface, tx database.TxManager) BulkImportService {
	return &bulkImportService{bookRepo: bookRepo, tx: tx}
}

// ImportBooks là main entry point cho bulk import (sync mode)
func (s *bulkImportService) ImportBooks(ctx context.Context, caller shared.Caller, file *multipart.FileHeader) (*model.BulkImportResult, error) {
	if !caller.IsStaff {
		return nil, model.ErrCreateStaffOnly
	}

	log.Info().
		Str("user_id", caller.UserID.String()).
		Str("file_name", file.Filename).
		Int64("file_size", file.Size).
		Msg("Starting bulk import books")

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	return s.importWorkbook(ctx, src)
}

func (s *bulkImportService) importWorkbook(ctx context.Context, r io.Reader) (*model.BulkImportResult, error) {
	// PHASE 1: Parse workbook
	rows, err := parseWorkbook(r)
	if err != nil {
		return nil, err
	}
	total := len(rows)

	// PHASE 2: Validate ALL rows (không insert gì)
	rowErrors, err := s.validateAllRows(ctx, rows)
	if err != nil {
		return nil, err
	}
	if len(rowErrors) > 0 {
		log.Warn().Int("error_count", len(rowErrors)).Msg("Bulk import validation failed")
		return &model.BulkImportResult{
			Success:    false,
			TotalRows:  total,
			FailedRows: countFailedRows(rowErrors),
			Errors:     rowErrors,
		}, nil
	}

	// PHASE 3: Insert everything or nothing
	books := make([]*model.Book, 0, total)
	for _, row := range rows {
		books = append(books, &model.Book{
			ID:           uuid.New(),
			Title:        row.Title,
			Author:       row.Author,
			ISBN:         row.ISBN,
			Availability: true,
		})
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.bookRepo.CreateBatch(ctx, books)
	})
	if err != nil {
		if errors.Is(err, model.ErrISBNAlreadyExists) {
			// another request won the race after validation
			return &model.BulkImportResult{
				Success:   false,
				TotalRows: total,
				Errors: []model.ImportValidationError{
					{Row: 0, Field: "isbn", Error: model.ErrISBNAlreadyExists.Message},
				},
			}, nil
		}
		return nil, fmt.Errorf("create books: %w", err)
	}

	ids := make([]uuid.UUID, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}

	log.Info().Int("success_count", len(ids)).Msg("Bulk import completed successfully")

	return &model.BulkImportResult{
		Success:      true,
		TotalRows:    total,
		SuccessRows:  len(ids),
		CreatedBooks: ids,
	}, nil
}

// parseWorkbook reads the first sheet. Row 1 is the header.
func parseWorkbook(r io.Reader) ([]model.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, model.ErrInvalidImportFile.Wrap(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, model.ErrInvalidImportFile
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, model.ErrInvalidImportFile.Wrap(err)
	}
	if len(records) < 2 {
		return nil, model.ErrInvalidImportFile.WithDetails(map[string]any{"file": "workbook has no data rows"})
	}
	if len(records)-1 > model.MaxImportRows {
		return nil, model.ErrImportTooLarge
	}

	colMap := buildColumnIndexMap(records[0])
	var missing []string
	for _, col := range model.ImportColumns {
		if _, ok := colMap[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, model.ErrInvalidImportFile.WithDetails(map[string]any{"missing_columns": missing})
	}

	rows := make([]model.ImportRow, 0, len(records)-1)
	for i, record := range records[1:] {
		get := func(name string) string {
			if idx := colMap[name]; idx < len(record) {
				return strings.TrimSpace(record[idx])
			}
			return ""
		}
		row := model.ImportRow{
			Row:    i + 2,
			Title:  get("title"),
			Author: get("author"),
			ISBN:   get("isbn"),
		}
		if row.Title == "" && row.Author == "" && row.ISBN == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// buildColumnIndexMap tạo map từ column name → index
func buildColumnIndexMap(header []string) map[string]int {
	colMap := make(map[string]int, len(header))
	for i, name := range header {
		colMap[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return colMap
}

func (s *bulkImportService) validateAllRows(ctx context.Context, rows []model.ImportRow) ([]model.ImportValidationError, error) {
	var errs []model.ImportValidationError

	seen := make(map[string]int) // isbn -> first row
	isbns := make([]string, 0, len(rows))
	for _, row := range rows {
		errs = append(errs, validateRow(row)...)

		if row.ISBN == "" {
			continue
		}
		if first, ok := seen[row.ISBN]; ok {
			errs = append(errs, model.ImportValidationError{
				Row:   row.Row,
				Field: "isbn",
				Value: row.ISBN,
				Error: fmt.Sprintf("duplicate ISBN (also at row %d)", first),
			})
			continue
		}
		seen[row.ISBN] = row.Row
		isbns = append(isbns, row.ISBN)
	}

	existing, err := s.bookRepo.ExistingISBNs(ctx, isbns)
	if err != nil {
		return nil, fmt.Errorf("check existing isbns: %w", err)
	}
	for _, row := range rows {
		if existing[row.ISBN] && seen[row.ISBN] == row.Row {
			errs = append(errs, model.ImportValidationError{
				Row:   row.Row,
				Field: "isbn",
				Value: row.ISBN,
				Error: "isbn already exists",
			})
		}
	}

	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Row < errs[j].Row })
	return errs, nil
}

// validateRow runs the same rules as POST /books
func validateRow(row model.ImportRow) []model.ImportValidationError {
	req := model.CreateBookRequest{Title: row.Title, Author: row.Author, ISBN: row.ISBN}
	err := req.Validate()
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return []model.ImportValidationError{{Row: row.Row, Field: "row", Error: err.Error()}}
	}

	values := map[string]string{"title": row.Title, "author": row.Author, "isbn": row.ISBN}
	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]model.ImportValidationError, 0, len(fields))
	for _, field := range fields {
		out = append(out, model.ImportValidationError{
			Row:   row.Row,
			Field: field,
			Value: values[field],
			Error: fieldErrs[field].Error(),
		})
	}
	return out
}

func countFailedRows(errs []model.ImportValidationError) int {
	rows := make(map[int]struct{})
	for _, e := range errs {
		rows[e.Row] = struct{}{}
	}
	return len(rows)
}
