package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
)

func Test_buildListBooksQuery(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name       string
		filter     model.BookFilter
		contains   []string
		notContain []string
		args       int
	}{
		{
			name:       "no filter",
			filter:     model.BookFilter{},
			notContain: []string{"WHERE"},
		},
		{
			name:     "title and availability",
			filter:   model.BookFilter{Title: "dune", OnlyAvailable: true},
			contains: []string{`"title" ILIKE $1`, `"availability" IS TRUE`},
			args:     1,
		},
		{
			name:     "full window",
			filter:   model.BookFilter{Window: model.Window{From: &from, To: &to}},
			contains: []string{"NOT EXISTS", `"br"."borrow_date" < $1`, `"br"."return_date" IS NULL`, `"br"."return_date" > $2`},
			args:     2,
		},
		{
			name:       "open ended window",
			filter:     model.BookFilter{Window: model.Window{From: &from}},
			contains:   []string{"NOT EXISTS", `"br"."return_date" > $1`},
			notContain: []string{"borrow_date"},
			args:       1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			query, args, err := buildListBooksQuery(tc.filter)
			require.NoError(t, err)

			for _, s := range tc.contains {
				assert.Contains(t, query, s)
			}
			for _, s := range tc.notContain {
				assert.NotContains(t, query, s)
			}
			assert.Len(t, args, tc.args)
		})
	}
}

func Test_escapeLike(t *testing.T) {
	assert.Equal(t, `100\% \_real\_`, escapeLike("100% _real_"))
}
