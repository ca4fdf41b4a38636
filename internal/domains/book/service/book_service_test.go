package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
	borrowingModel "library-backend/internal/domains/borrowing/model"
	"library-backend/internal/infrastructure/storage"
	"library-backend/internal/shared"
	"library-backend/internal/testutil/memstore"
	"library-backend/pkg/apperror"
)

type bookFixture struct {
	store   *memstore.Store
	cache   *memstore.Cache
	objects *memstore.Objects
	tasks   *memstore.Tasks
	svc     *BookService
	staff   shared.Caller
	reader  shared.Caller
}

func newBookFixture(t *testing.T) *bookFixture {
	t.Helper()
	store := memstore.New()
	f := &bookFixture{
		store:   store,
		cache:   memstore.NewCache(),
		objects: memstore.NewObjects(),
		tasks:   &memstore.Tasks{},
	}
	f.svc = NewService(store.Books(), store.Borrowings(), f.objects, storage.NewImageProcessor(), f.tasks, f.cache, time.Minute)
	f.svc.now = func() time.Time { return time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC) }

	staff := store.AddUser("librarian", true)
	reader := store.AddUser("reader", false)
	f.staff = shared.Caller{UserID: staff.ID, Username: staff.Username, IsStaff: true}
	f.reader = shared.Caller{UserID: reader.ID, Username: reader.Username}
	return f
}

func (f *bookFixture) create(t *testing.T, title, isbn string) model.StaffBookView {
	t.Helper()
	v, err := f.svc.CreateBook(context.Background(), f.staff, model.CreateBookRequest{Title: title, Author: "Author", ISBN: isbn})
	require.NoError(t, err)
	return v.(model.StaffBookView)
}

func (f *bookFixture) lend(t *testing.T, bookID uuid.UUID, from, to string) {
	t.Helper()
	start, _ := time.Parse("2006-01-02", from)
	end, _ := time.Parse("2006-01-02", to)
	b := &borrowingModel.Borrowing{BookID: bookID, BorrowerID: f.reader.UserID, BorrowDate: start, ReturnDate: &end}
	require.NoError(t, f.store.Borrowings().Create(context.Background(), b))
	_, err := f.store.Books().RecomputeAvailability(context.Background(), []uuid.UUID{bookID}, f.svc.now())
	require.NoError(t, err)
}

func TestCreateBook_NonStaffIsForbidden(t *testing.T) {
	f := newBookFixture(t)

	_, err := f.svc.CreateBook(context.Background(), f.reader, model.CreateBookRequest{Title: "Dune", Author: "Herbert", ISBN: "111"})
	assert.ErrorIs(t, err, model.ErrCreateStaffOnly)
	assert.True(t, apperror.IsKind(err, apperror.KindPermission))
	assert.Equal(t, 0, f.store.BookCount())
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	f := newBookFixture(t)
	f.create(t, "Dune", "111")

	_, err := f.svc.CreateBook(context.Background(), f.staff, model.CreateBookRequest{Title: "Other", Author: "X", ISBN: "111"})
	assert.ErrorIs(t, err, model.ErrISBNAlreadyExists)

	_, err = f.svc.CreateBook(context.Background(), f.staff, model.CreateBookRequest{Title: "Other", Author: "X", ISBN: "12a"})
	assert.Error(t, err)
	assert.Equal(t, 1, f.store.BookCount())
}

func TestListBooks_ScopedByRole(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")
	f.create(t, "Emma", "222")
	f.lend(t, dune.ID, "2024-01-01", "2024-01-10")

	staffViews, err := f.svc.ListBooks(ctx, f.staff, model.ListBooksRequest{})
	require.NoError(t, err)
	require.Len(t, staffViews, 2)
	first := staffViews[0].(model.StaffBookView)
	assert.Equal(t, "Dune", first.Title)
	assert.False(t, first.Availability)
	assert.Equal(t, "reader", first.CurrentBorrower)

	publicViews, err := f.svc.ListBooks(ctx, f.reader, model.ListBooksRequest{})
	require.NoError(t, err)
	require.Len(t, publicViews, 1)
	pv := publicViews[0].(model.PublicBookView)
	assert.Equal(t, "Emma", pv.Title)
	assert.True(t, pv.IsAvailable)
}

func TestListBooks_WindowUsesExclusiveRule(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")
	f.create(t, "Emma", "222")
	f.lend(t, dune.ID, "2024-03-01", "2024-03-10")

	views, err := f.svc.ListBooks(ctx, f.staff, model.ListBooksRequest{BorrowingDate: "2024-03-05", ReturningDate: "2024-03-20"})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Emma", views[0].(model.StaffBookView).Title)

	// touching at the edge does not block
	views, err = f.svc.ListBooks(ctx, f.staff, model.ListBooksRequest{BorrowingDate: "2024-03-10", ReturningDate: "2024-03-20"})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	views, err = f.svc.ListBooks(ctx, f.staff, model.ListBooksRequest{Title: "dU"})
	require.NoError(t, err)
	assert.Len(t, views, 1)

	_, err = f.svc.ListBooks(ctx, f.staff, model.ListBooksRequest{BorrowingDate: "03/05/2024"})
	assert.Error(t, err)
}

func TestGetBook_CachesAndHidesUnavailableFromReaders(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")

	v, err := f.svc.GetBook(ctx, f.reader, dune.ID)
	require.NoError(t, err)
	assert.IsType(t, model.PublicBookView{}, v)
	assert.True(t, f.cache.Has(model.CacheKey(dune.ID)))

	f.lend(t, dune.ID, "2024-01-01", "2024-01-10")
	require.NoError(t, f.cache.Delete(ctx, model.CacheKey(dune.ID)))

	_, err = f.svc.GetBook(ctx, f.reader, dune.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	v, err = f.svc.GetBook(ctx, f.staff, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader", v.(model.StaffBookView).CurrentBorrower)
}

func TestUpdateBook(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")
	f.create(t, "Emma", "222")

	title := "Dune Messiah"
	v, err := f.svc.UpdateBook(ctx, f.staff, dune.ID, model.UpdateBookRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", v.(model.StaffBookView).Title)

	isbn := "222"
	_, err = f.svc.UpdateBook(ctx, f.staff, dune.ID, model.UpdateBookRequest{ISBN: &isbn})
	assert.ErrorIs(t, err, model.ErrISBNAlreadyExists)

	_, err = f.svc.UpdateBook(ctx, f.reader, dune.ID, model.UpdateBookRequest{Title: &title})
	assert.ErrorIs(t, err, model.ErrStaffOnly)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadCoverAndDelete(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")

	_, err := f.svc.UploadCover(ctx, f.staff, dune.ID, []byte("not an image"))
	assert.ErrorIs(t, err, model.ErrInvalidCover)

	v, err := f.svc.UploadCover(ctx, f.staff, dune.ID, pngBytes(t, 40, 60))
	require.NoError(t, err)
	key := storage.CoverKey(dune.ID.String())
	assert.Equal(t, f.objects.ObjectURL(key), v.(model.StaffBookView).CoverURL)
	assert.True(t, f.objects.Has(key))

	res, err := f.svc.DeleteBook(ctx, f.staff, dune.ID)
	require.NoError(t, err)
	assert.Equal(t, dune.ID.String(), res.ID)
	assert.False(t, f.objects.Has(key))
	assert.Empty(t, f.tasks.CoverDeletes)
	assert.Equal(t, 0, f.store.BookCount())
}

func TestDeleteBook_CoverFailureIsRetriedLater(t *testing.T) {
	f := newBookFixture(t)
	ctx := context.Background()
	dune := f.create(t, "Dune", "111")
	_, err := f.svc.UploadCover(ctx, f.staff, dune.ID, pngBytes(t, 10, 10))
	require.NoError(t, err)
	f.lend(t, dune.ID, "2024-01-01", "2024-01-10")

	f.objects.FailDeletes = true
	_, err = f.svc.DeleteBook(ctx, f.staff, dune.ID)
	require.NoError(t, err)

	require.Len(t, f.tasks.CoverDeletes, 1)
	assert.Equal(t, storage.CoverKey(dune.ID.String()), f.tasks.CoverDeletes[0].ObjectKey)
	assert.Equal(t, 0, f.store.BorrowingCount())
}

func TestDeleteBook_NonStaff(t *testing.T) {
	f := newBookFixture(t)
	dune := f.create(t, "Dune", "111")

	_, err := f.svc.DeleteBook(context.Background(), f.reader, dune.ID)
	assert.ErrorIs(t, err, model.ErrStaffOnly)
	assert.Equal(t, 1, f.store.BookCount())
}

func TestExportBooksToExcel(t *testing.T) {
	f := newBookFixture(t)
	f.create(t, "Dune", "111")
	f.create(t, "Emma", "222")

	file, n, err := f.svc.ExportBooksToExcel(context.Background(), f.staff, model.ListBooksRequest{})
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, 2, n)

	rows, err := file.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders[0], rows[0][0])
	assert.Equal(t, "Dune", rows[1][1])
	assert.Equal(t, "222", rows[2][3])

	_, _, err = f.svc.ExportBooksToExcel(context.Background(), f.reader, model.ListBooksRequest{})
	assert.ErrorIs(t, err, model.ErrStaffOnly)
}
