package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

const exportSheet = "Books"

var exportHeaders = []string{"ID", "Title", "Author", "ISBN", "Availability", "Current Borrower", "Cover URL"}

// ExportBooksToExcel writes the caller's listing to a workbook.
// Returns the file and the number of data rows.
func (s *BookService) ExportBooksToExcel(ctx context.Context, caller shared.Caller, req model.ListBooksRequest) (*excelize.File, int, error) {
	if !caller.IsStaff {
		return nil, 0, model.ErrStaffOnly
	}

	views, err := s.ListBooks(ctx, caller, req)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(views)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, len(views), nil
}

func buildBooksExcelFile(views []model.BookView) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	}

	for i, v := range views {
		row, ok := v.(model.StaffBookView)
		if !ok {
			continue
		}
		values := []interface{}{
			row.ID.String(),
			row.Title,
			row.Author,
			row.ISBN,
			row.Availability,
			row.CurrentBorrower,
			row.CoverURL,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(exportSheet, "A", lastCol, 20); err != nil {
		log.Debug().Err(err).Msg("set export column width")
	}
	return f, nil
}
