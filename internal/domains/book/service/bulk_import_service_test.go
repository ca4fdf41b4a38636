package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/testutil/memstore"
)

func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestImportWorkbook_CreatesAllRows(t *testing.T) {
	store := memstore.New()
	svc := &bulkImportService{bookRepo: store.Books(), tx: store}

	buf := workbook(t, [][]interface{}{
		{"ISBN", "Title", "Author"},
		{"111", "Dune", "Frank Herbert"},
		{"222", "Emma", "Jane Austen"},
		{"", "", ""},
		{"33X", "Ulysses", "James Joyce"},
	})

	res, err := svc.importWorkbook(context.Background(), buf)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.TotalRows)
	assert.Equal(t, 3, res.SuccessRows)
	assert.Len(t, res.CreatedBooks, 3)
	assert.Equal(t, 3, store.BookCount())
}

func TestImportWorkbook_RejectsWholeFileOnAnyRowError(t *testing.T) {
	store := memstore.New()
	require.NoError(t, store.Books().Create(context.Background(), &model.Book{Title: "Old", Author: "A", ISBN: "999"}))
	svc := &bulkImportService{bookRepo: store.Books(), tx: store}

	buf := workbook(t, [][]interface{}{
		{"title", "author", "isbn"},
		{"Dune", "Frank Herbert", "111"},
		{"", "Nobody", "222"},
		{"Dune again", "Frank Herbert", "111"},
		{"Clash", "Someone", "999"},
		{"Bad", "Someone", "12-4"},
	})

	res, err := svc.importWorkbook(context.Background(), buf)
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, 5, res.TotalRows)
	assert.Equal(t, 4, res.FailedRows)

	byRow := make(map[int][]string)
	for _, e := range res.Errors {
		byRow[e.Row] = append(byRow[e.Row], e.Field)
	}
	assert.Equal(t, []string{"title"}, byRow[3])
	assert.Equal(t, []string{"isbn"}, byRow[4])
	assert.Equal(t, []string{"isbn"}, byRow[5])
	assert.Equal(t, []string{"isbn"}, byRow[6])

	assert.Equal(t, 1, store.BookCount())
}

func TestImportWorkbook_FileErrors(t *testing.T) {
	store := memstore.New()
	svc := &bulkImportService{bookRepo: store.Books(), tx: store}

	_, err := svc.importWorkbook(context.Background(), bytes.NewBufferString("title,author,isbn"))
	assert.ErrorIs(t, err, model.ErrInvalidImportFile)

	_, err = svc.importWorkbook(context.Background(), workbook(t, [][]interface{}{{"title", "isbn"}, {"Dune", "111"}}))
	assert.ErrorIs(t, err, model.ErrInvalidImportFile)

	_, err = svc.importWorkbook(context.Background(), workbook(t, [][]interface{}{{"title", "author", "isbn"}}))
	assert.ErrorIs(t, err, model.ErrInvalidImportFile)
}
