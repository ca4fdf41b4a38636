package model_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"library-backend/internal/domains/borrowing/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

func rng(start, end string) model.DateRange {
	r := model.DateRange{Start: day(start)}
	if end != "" {
		r.End = dayPtr(end)
	}
	return r
}

func Test_OverlapsInclusive(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     model.DateRange
		expected bool
	}{
		{"disjoint", rng("2024-01-01", "2024-01-04"), rng("2024-01-05", "2024-01-10"), false},
		{"touching end to start", rng("2024-01-01", "2024-01-05"), rng("2024-01-05", "2024-01-10"), true},
		{"partial overlap", rng("2024-01-01", "2024-01-10"), rng("2024-01-05", "2024-01-12"), true},
		{"contained", rng("2024-01-01", "2024-01-31"), rng("2024-01-10", "2024-01-11"), true},
		{"same single day", rng("2024-01-03", "2024-01-03"), rng("2024-01-03", "2024-01-03"), true},
		{"open range after candidate", rng("2024-02-01", ""), rng("2024-01-01", "2024-01-31"), false},
		{"open range reaches candidate", rng("2024-01-15", ""), rng("2024-01-01", "2024-01-31"), true},
		{"both open", rng("2024-01-01", ""), rng("2030-01-01", ""), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, model.OverlapsInclusive(tc.a, tc.b))
			assert.Equal(t, tc.expected, model.OverlapsInclusive(tc.b, tc.a), "overlap must be symmetric")
		})
	}
}

func Test_FirstConflict(t *testing.T) {
	// arrange
	bookID := uuid.New()
	returned := &model.Borrowing{
		ID: uuid.New(), BookID: bookID,
		BorrowDate: day("2024-01-01"), ReturnDate: dayPtr("2024-01-10"),
		ReturnedAt: dayPtr("2024-01-03"),
	}
	active := &model.Borrowing{
		ID: uuid.New(), BookID: bookID,
		BorrowDate: day("2024-01-01"), ReturnDate: dayPtr("2024-01-10"),
	}
	existing := []*model.Borrowing{returned, active}
	candidate := rng("2024-01-05", "2024-01-12")

	// act / assert
	assert.Equal(t, active, model.FirstConflict(candidate, existing, uuid.Nil))
	assert.Nil(t, model.FirstConflict(candidate, existing, active.ID), "edited record must not conflict with itself")
	assert.Nil(t, model.FirstConflict(candidate, nil, uuid.Nil), "no borrowings never conflicts")
}

func Test_Window_BlockedBy(t *testing.T) {
	loan := rng("2024-01-05", "2024-01-10")
	openLoan := rng("2024-01-05", "")

	testCases := []struct {
		name     string
		window   model.Window
		r        model.DateRange
		expected bool
	}{
		{"window inside loan", model.Window{From: dayPtr("2024-01-06"), To: dayPtr("2024-01-08")}, loan, true},
		{"window ends on loan start", model.Window{From: dayPtr("2024-01-01"), To: dayPtr("2024-01-05")}, loan, false},
		{"window starts on loan end", model.Window{From: dayPtr("2024-01-10"), To: dayPtr("2024-01-15")}, loan, false},
		{"window before loan", model.Window{From: dayPtr("2023-12-01"), To: dayPtr("2023-12-31")}, loan, false},
		{"open loan blocks later window", model.Window{From: dayPtr("2025-01-01"), To: dayPtr("2025-01-02")}, openLoan, true},
		{"only from, before loan end", model.Window{From: dayPtr("2024-01-07")}, loan, true},
		{"only from, after loan end", model.Window{From: dayPtr("2024-01-11")}, loan, false},
		{"only to, after loan start", model.Window{To: dayPtr("2024-01-06")}, loan, true},
		{"only to, on loan start", model.Window{To: dayPtr("2024-01-05")}, loan, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.window.BlockedBy(tc.r))
		})
	}
}

func Test_DateRange_Contains(t *testing.T) {
	r := rng("2024-01-05", "2024-01-10")

	assert.True(t, r.Contains(day("2024-01-05")))
	assert.True(t, r.Contains(day("2024-01-10")))
	assert.False(t, r.Contains(day("2024-01-04")))
	assert.False(t, r.Contains(day("2024-01-11")))
	assert.True(t, rng("2024-01-05", "").Contains(day("2099-01-01")))
}

func Test_Borrowing_IsActiveOn(t *testing.T) {
	b := &model.Borrowing{BorrowDate: day("2024-01-01"), ReturnDate: dayPtr("2024-01-10")}
	assert.True(t, b.IsActiveOn(day("2024-01-05")))

	b.ReturnedAt = dayPtr("2024-01-05")
	assert.False(t, b.IsActiveOn(day("2024-01-05")))
}

func Test_Borrowing_NumberOfDaysBorrowed(t *testing.T) {
	b := &model.Borrowing{BorrowDate: day("2024-01-01"), ReturnDate: dayPtr("2024-01-10")}
	if assert.NotNil(t, b.NumberOfDaysBorrowed()) {
		assert.Equal(t, 9, *b.NumberOfDaysBorrowed())
	}

	b.ReturnDate = nil
	assert.Nil(t, b.NumberOfDaysBorrowed())
}

func Test_CreateBorrowingRequest_Range(t *testing.T) {
	ret := "2024-01-01"
	req := model.CreateBorrowingRequest{BookID: uuid.NewString(), BorrowDate: "2024-01-10", ReturnDate: &ret}
	assert.NoError(t, req.Validate())

	_, err := req.Range()
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)

	req.BorrowDate = "10/01/2024"
	assert.Error(t, req.Validate())
}
