package model

import "github.com/google/uuid"

// ========================================
// XLSX IMPORT MODEL
// ========================================

// MaxImportRows - hard limit per workbook
const MaxImportRows = 1000

// Required header columns, case-insensitive, any order
var ImportColumns = []string{"title", "author", "isbn"}

// ImportRow represents one data row of the first sheet
type ImportRow struct {
	Row    int    `json:"row"` // 1-based sheet row, header is row 1
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// ImportValidationError represents một lỗi validation từ một row
type ImportValidationError struct {
	Row   int    `json:"row"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
	Error string `json:"error"`
}

// BulkImportResult là response trả về sau khi import.
// Rows are validated first; nothing is written unless every row is valid.
type BulkImportResult struct {
	Success      bool                    `json:"success"`
	TotalRows    int                     `json:"total_rows"`
	SuccessRows  int                     `json:"success_rows"`
	FailedRows   int                     `json:"failed_rows"`
	Errors       []ImportValidationError `json:"errors,omitempty"`
	CreatedBooks []uuid.UUID             `json:"created_book_ids,omitempty"`
}
