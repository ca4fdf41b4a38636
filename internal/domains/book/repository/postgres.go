package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/pkg/database"
)

const bookColumns = "id, title, author, isbn, availability, cover_key, created_at, updated_at"

var dialect = goqu.Dialect("postgres")

// postgresRepository - Raw SQL with pgxpool, goqu for the filtered listing
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) q(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Availability, &b.CoverKey, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ========================= CREATE =====================

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, title, author, isbn, availability, cover_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	now := time.Now()
	if book.ID == uuid.Nil {
		book.ID = uuid.New()
	}
	book.CreatedAt, book.UpdatedAt = now, now

	_, err := r.q(ctx).Exec(ctx, query,
		book.ID, book.Title, book.Author, book.ISBN, book.Availability, book.CoverKey, book.CreatedAt, book.UpdatedAt,
	)
	if _, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
		return model.ErrISBNAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// CreateBatch sends every insert in one pgx batch. Callers run it inside a
// transaction so a failing row rolls back the whole import.
func (r *postgresRepository) CreateBatch(ctx context.Context, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	now := time.Now()
	for _, b := range books {
		if b.ID == uuid.Nil {
			b.ID = uuid.New()
		}
		b.CreatedAt, b.UpdatedAt = now, now
		batch.Queue(`
			INSERT INTO books (id, title, author, isbn, availability, cover_key, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			b.ID, b.Title, b.Author, b.ISBN, b.Availability, b.CoverKey, b.CreatedAt, b.UpdatedAt,
		)
	}

	var results pgx.BatchResults
	if tx, ok := r.q(ctx).(pgx.Tx); ok {
		results = tx.SendBatch(ctx, batch)
	} else {
		results = r.pool.SendBatch(ctx, batch)
	}
	defer results.Close()

	for range books {
		if _, err := results.Exec(); err != nil {
			if _, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
				return model.ErrISBNAlreadyExists.Wrap(err)
			}
			return fmt.Errorf("failed to insert book batch: %w", err)
		}
	}
	return nil
}

// ========================= READ =====================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, "SELECT "+bookColumns+" FROM books WHERE id = $1", id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return r.getOne(ctx, "SELECT "+bookColumns+" FROM books WHERE id = $1 FOR UPDATE", id)
}

func (r *postgresRepository) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	return r.getOne(ctx, "SELECT "+bookColumns+" FROM books WHERE isbn = $1", isbn)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*model.Book, error) {
	book, err := scanBook(r.q(ctx).QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return book, nil
}

func (r *postgresRepository) ExistingISBNs(ctx context.Context, isbns []string) (map[string]bool, error) {
	existing := make(map[string]bool)
	if len(isbns) == 0 {
		return existing, nil
	}

	rows, err := r.q(ctx).Query(ctx, `SELECT isbn FROM books WHERE isbn = ANY($1)`, isbns)
	if err != nil {
		return nil, fmt.Errorf("failed to check isbns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var isbn string
		if err := rows.Scan(&isbn); err != nil {
			return nil, err
		}
		existing[isbn] = true
	}
	return existing, rows.Err()
}

func (r *postgresRepository) ISBNExistsExcept(ctx context.Context, isbn string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.q(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM books WHERE isbn = $1 AND id <> $2)`,
		isbn, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check isbn: %w", err)
	}
	return exists, nil
}

// ListBooks builds:
//
//	SELECT ... FROM books
//	WHERE title ILIKE $1 AND availability IS TRUE
//	  AND NOT EXISTS (SELECT 1 FROM borrowings br WHERE br.book_id = books.id
//	                  AND br.borrow_date < $to AND (br.return_date IS NULL OR br.return_date > $from))
//	ORDER BY title
func (r *postgresRepository) ListBooks(ctx context.Context, filter model.BookFilter) ([]*model.Book, error) {
	query, args, err := buildListBooksQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build list query: %w", err)
	}

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func buildListBooksQuery(filter model.BookFilter) (string, []interface{}, error) {
	ds := dialect.From("books").Select(
		"id", "title", "author", "isbn", "availability", "cover_key", "created_at", "updated_at",
	)

	if filter.Title != "" {
		ds = ds.Where(goqu.C("title").ILike("%" + escapeLike(filter.Title) + "%"))
	}
	if filter.OnlyAvailable {
		ds = ds.Where(goqu.C("availability").IsTrue())
	}
	if !filter.Window.IsZero() {
		blocking := dialect.From(goqu.T("borrowings").As("br")).
			Select(goqu.L("1")).
			Where(goqu.I("br.book_id").Eq(goqu.I("books.id")))
		if filter.Window.To != nil {
			blocking = blocking.Where(goqu.I("br.borrow_date").Lt(*filter.Window.To))
		}
		if filter.Window.From != nil {
			blocking = blocking.Where(goqu.Or(
				goqu.I("br.return_date").IsNull(),
				goqu.I("br.return_date").Gt(*filter.Window.From),
			))
		}
		ds = ds.Where(goqu.L("NOT EXISTS ?", blocking))
	}

	return ds.Order(goqu.C("title").Asc(), goqu.C("id").Asc()).Prepared(true).ToSQL()
}

// escapeLike escapes ILIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// ========================= UPDATE =====================

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	book.UpdatedAt = time.Now()
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE books SET title = $2, author = $3, isbn = $4, updated_at = $5 WHERE id = $1`,
		book.ID, book.Title, book.Author, book.ISBN, book.UpdatedAt,
	)
	if _, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
		return model.ErrISBNAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateCover(ctx context.Context, id uuid.UUID, coverKey *string) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE books SET cover_key = $2, updated_at = NOW() WHERE id = $1`, id, coverKey,
	)
	if err != nil {
		return fmt.Errorf("failed to update cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE books SET availability = $2, updated_at = NOW() WHERE id = $1`, id, available,
	)
	if err != nil {
		return fmt.Errorf("failed to set availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *postgresRepository) RecomputeAvailability(ctx context.Context, ids []uuid.UUID, day time.Time) ([]uuid.UUID, error) {
	query := `
		WITH target AS (
			SELECT b.id,
			       NOT EXISTS (
			           SELECT 1 FROM borrowings br
			           WHERE br.book_id = b.id
			             AND br.returned_at IS NULL
			             AND br.borrow_date <= $1::date
			             AND (br.return_date IS NULL OR br.return_date >= $1::date)
			       ) AS available
			FROM books b
			WHERE cardinality($2::uuid[]) = 0 OR b.id = ANY($2::uuid[])
		)
		UPDATE books
		SET availability = target.available, updated_at = NOW()
		FROM target
		WHERE books.id = target.id AND books.availability <> target.available
		RETURNING books.id
	`
	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := r.q(ctx).Query(ctx, query, day, idStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute availability: %w", err)
	}
	defer rows.Close()

	var changed []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		changed = append(changed, id)
	}
	return changed, rows.Err()
}

// ========================= DELETE =====================

// Delete removes the book; borrowings cascade
func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
