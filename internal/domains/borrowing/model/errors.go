package model

import "library-backend/pkg/apperror"

var (
	ErrBorrowingNotFound   = apperror.NotFound("BORROWING_NOT_FOUND", "Borrowing not found")
	ErrBookNotFound        = apperror.NotFound("BOOK_NOT_FOUND", "Book not found")
	ErrBorrowerNotFound    = apperror.NotFound("BORROWER_NOT_FOUND", "Borrower not found")
	ErrScannedISBNNotFound = apperror.NotFound("ISBN_NOT_FOUND", "Book with this ISBN not found.")
	ErrBookUnavailable     = apperror.Conflict("BOOK_UNAVAILABLE", "The book is not available for borrowing on these dates.")
	ErrEditUnavailable     = apperror.Conflict("EDIT_RANGE_UNAVAILABLE", "Book is not available")
	ErrDuplicateBorrowing  = apperror.Conflict("DUPLICATE_BORROWING", "You already have a borrowing on these dates.")
	ErrAlreadyReturned     = apperror.Conflict("ALREADY_RETURNED", "This borrowing has already been returned.")
	ErrISBNMismatch        = apperror.Validation("ISBN_MISMATCH", "Scanned ISBN does not match the borrowed book's ISBN.")
	ErrScannedISBNRequired = apperror.Validation("SCANNED_ISBN_REQUIRED", "scanned_isbn is required")
	ErrInvalidDateRange    = apperror.Validation("INVALID_DATE_RANGE", "return_date must not be before borrow_date")
	ErrNotBorrowingOwner   = apperror.Permission("NOT_BORROWING_OWNER", "You do not have permission to access this borrowing.")
	ErrBorrowerNotAllowed  = apperror.Permission("BORROWER_NOT_ALLOWED", "Only staff can borrow on behalf of another user.")
	ErrStaffOnlyDelete     = apperror.Permission("STAFF_ONLY", "Only staff can remove borrowing records.")
	ErrReturnedNotEditable = apperror.Conflict("RETURNED_NOT_EDITABLE", "A returned borrowing cannot be edited.")
)
