package model

import "library-backend/pkg/apperror"

var (
	ErrBookNotFound      = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrISBNAlreadyExists = apperror.Conflict("ISBN_ALREADY_EXISTS", "A book with this ISBN already exists")
	ErrCreateStaffOnly   = apperror.Permission("STAFF_ONLY", "Only the administrator has permission to add books.")
	ErrStaffOnly         = apperror.Permission("STAFF_ONLY", "Only the administrator has permission to modify books.")
	ErrInvalidCover      = apperror.Validation("INVALID_COVER", "Cover must be a JPEG or PNG image up to 5MB")
	ErrInvalidImportFile = apperror.Validation("INVALID_IMPORT_FILE", "Import file must be a valid .xlsx workbook")
	ErrImportTooLarge    = apperror.Validation("IMPORT_TOO_LARGE", "Import file exceeds the 1000 rows limit")
)
