package model_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/shared"
)

func Test_ViewFor(t *testing.T) {
	book := &model.Book{ID: uuid.New(), Title: "Dune", Author: "Herbert", ISBN: "111", Availability: false}

	staff := model.ViewFor(shared.Caller{IsStaff: true}, book, "", "alice", false)
	member := model.ViewFor(shared.Caller{}, book, "", "alice", true)

	staffView, ok := staff.(model.StaffBookView)
	require.True(t, ok)
	assert.Equal(t, "alice", staffView.CurrentBorrower)
	assert.False(t, staffView.Availability)

	memberView, ok := member.(model.PublicBookView)
	require.True(t, ok)
	assert.True(t, memberView.IsAvailable)
}

func Test_ViewFor_JSONFields(t *testing.T) {
	book := &model.Book{ID: uuid.New(), Title: "Dune", Author: "Herbert", ISBN: "111", Availability: true}

	staffJSON, err := json.Marshal(model.ViewFor(shared.Caller{IsStaff: true}, book, "", "", true))
	require.NoError(t, err)
	memberJSON, err := json.Marshal(model.ViewFor(shared.Caller{}, book, "", "", true))
	require.NoError(t, err)

	var staffFields, memberFields map[string]any
	require.NoError(t, json.Unmarshal(staffJSON, &staffFields))
	require.NoError(t, json.Unmarshal(memberJSON, &memberFields))

	assert.Contains(t, staffFields, "availability")
	assert.Contains(t, staffFields, "current_borrower")
	assert.NotContains(t, staffFields, "is_available")

	assert.Contains(t, memberFields, "is_available")
	assert.NotContains(t, memberFields, "availability")
	assert.NotContains(t, memberFields, "current_borrower")
}

func Test_ListBooksRequest_ToFilter(t *testing.T) {
	req := model.ListBooksRequest{Title: " dune ", BorrowingDate: "2024-01-01"}
	require.NoError(t, req.Validate())

	f := req.ToFilter(true)

	assert.Equal(t, "dune", f.Title)
	assert.True(t, f.OnlyAvailable)
	require.NotNil(t, f.Window.From)
	assert.Nil(t, f.Window.To)

	assert.Error(t, model.ListBooksRequest{ReturningDate: "tomorrow"}.Validate())
}

func Test_CreateBookRequest_Validate(t *testing.T) {
	testCases := []struct {
		name  string
		isbn  string
		valid bool
	}{
		{"short numeric", "111", true},
		{"isbn-10 with X", "123456789X", true},
		{"isbn-13", "9780306406157", true},
		{"too long", "97803064061570", false},
		{"letters", "abc", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := model.CreateBookRequest{Title: "T", Author: "A", ISBN: tc.isbn}.Validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
