package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/borrowing/model"
	"library-backend/pkg/database"
)

const (
	borrowingColumns = "br.id, br.book_id, br.borrower_id, br.borrow_date, br.return_date, br.returned_at, br.created_at, br.updated_at"
	detailColumns    = borrowingColumns + ", b.title, b.isbn, u.username"
	detailFrom       = "borrowings br JOIN books b ON b.id = br.book_id JOIN users u ON u.id = br.borrower_id"

	constraintBookFK     = "borrowings_book_id_fkey"
	constraintBorrowerFK = "borrowings_borrower_id_fkey"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) q(ctx context.Context) database.Querier {
	return database.QuerierFrom(ctx, r.pool)
}

func scanBorrowing(row pgx.Row) (*model.Borrowing, error) {
	var b model.Borrowing
	err := row.Scan(&b.ID, &b.BookID, &b.BorrowerID, &b.BorrowDate, &b.ReturnDate, &b.ReturnedAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanDetail(row pgx.Row) (*model.BorrowingDetail, error) {
	var d model.BorrowingDetail
	err := row.Scan(
		&d.ID, &d.BookID, &d.BorrowerID, &d.BorrowDate, &d.ReturnDate, &d.ReturnedAt, &d.CreatedAt, &d.UpdatedAt,
		&d.BookTitle, &d.BookISBN, &d.BorrowerUsername,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// translateWriteError maps constraint violations to domain errors
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := database.ConstraintViolation(err, database.CodeUniqueViolation); ok {
		return model.ErrDuplicateBorrowing
	}
	if name, ok := database.ConstraintViolation(err, database.CodeForeignKeyViolation); ok {
		switch name {
		case constraintBookFK:
			return model.ErrBookNotFound
		case constraintBorrowerFK:
			return model.ErrBorrowerNotFound
		}
	}
	return err
}

// ========================= WRITE =====================

func (r *postgresRepository) Create(ctx context.Context, b *model.Borrowing) error {
	now := time.Now()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt, b.UpdatedAt = now, now

	_, err := r.q(ctx).Exec(ctx, `
		INSERT INTO borrowings (id, book_id, borrower_id, borrow_date, return_date, returned_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.BookID, b.BorrowerID, b.BorrowDate, b.ReturnDate, b.ReturnedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err := translateWriteError(err); err != nil {
		return fmt.Errorf("failed to create borrowing: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, b *model.Borrowing) error {
	b.UpdatedAt = time.Now()
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE borrowings
		SET borrow_date = $2, return_date = $3, returned_at = $4, updated_at = $5
		WHERE id = $1`,
		b.ID, b.BorrowDate, b.ReturnDate, b.ReturnedAt, b.UpdatedAt,
	)
	if err := translateWriteError(err); err != nil {
		return fmt.Errorf("failed to update borrowing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBorrowingNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM borrowings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete borrowing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBorrowingNotFound
	}
	return nil
}

// ========================= READ =====================

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Borrowing, error) {
	return r.getOne(ctx, "SELECT "+borrowingColumns+" FROM borrowings br WHERE br.id = $1", id)
}

func (r *postgresRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Borrowing, error) {
	return r.getOne(ctx, "SELECT "+borrowingColumns+" FROM borrowings br WHERE br.id = $1 FOR UPDATE", id)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, id uuid.UUID) (*model.Borrowing, error) {
	b, err := scanBorrowing(r.q(ctx).QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBorrowingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrowing: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) GetDetail(ctx context.Context, id uuid.UUID) (*model.BorrowingDetail, error) {
	d, err := scanDetail(r.q(ctx).QueryRow(ctx, "SELECT "+detailColumns+" FROM "+detailFrom+" WHERE br.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrBorrowingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get borrowing detail: %w", err)
	}
	return d, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.BorrowingFilter) ([]*model.BorrowingDetail, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.BookID != nil {
		args = append(args, *filter.BookID)
		where = append(where, fmt.Sprintf("br.book_id = $%d", len(args)))
	}
	if filter.BorrowerID != nil {
		args = append(args, *filter.BorrowerID)
		where = append(where, fmt.Sprintf("br.borrower_id = $%d", len(args)))
	}
	if filter.ActiveOnly {
		where = append(where, "br.returned_at IS NULL")
	}

	query := "SELECT " + detailColumns + " FROM " + detailFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY br.borrow_date DESC, br.created_at DESC"

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list borrowings: %w", err)
	}
	defer rows.Close()

	var out []*model.BorrowingDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrowing: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// FindOverlapping: existing.borrow_date <= r.End AND r.Start <= existing.return_date,
// NULL return_date and a nil r.End are unbounded
func (r *postgresRepository) FindOverlapping(ctx context.Context, bookID uuid.UUID, rng model.DateRange, excludeID uuid.UUID) ([]*model.Borrowing, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT `+borrowingColumns+`
		FROM borrowings br
		WHERE br.book_id = $1
		  AND br.id <> $2
		  AND br.returned_at IS NULL
		  AND ($4::date IS NULL OR br.borrow_date <= $4::date)
		  AND (br.return_date IS NULL OR br.return_date >= $3::date)
		ORDER BY br.borrow_date`,
		bookID, excludeID, rng.Start, rng.End,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping borrowings: %w", err)
	}
	defer rows.Close()

	var out []*model.Borrowing
	for rows.Next() {
		b, err := scanBorrowing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan borrowing: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) CurrentBorrowers(ctx context.Context, bookIDs []uuid.UUID, day time.Time) (map[uuid.UUID]string, error) {
	current := make(map[uuid.UUID]string, len(bookIDs))
	if len(bookIDs) == 0 {
		return current, nil
	}

	ids := make([]string, len(bookIDs))
	for i, id := range bookIDs {
		ids[i] = id.String()
	}

	rows, err := r.q(ctx).Query(ctx, `
		SELECT DISTINCT ON (br.book_id) br.book_id, u.username
		FROM borrowings br
		JOIN users u ON u.id = br.borrower_id
		WHERE br.book_id = ANY($1::uuid[])
		  AND br.returned_at IS NULL
		  AND br.borrow_date <= $2::date
		  AND (br.return_date IS NULL OR br.return_date >= $2::date)
		ORDER BY br.book_id, br.borrow_date`,
		ids, day,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load current borrowers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID   uuid.UUID
			username string
		)
		if err := rows.Scan(&bookID, &username); err != nil {
			return nil, err
		}
		current[bookID] = username
	}
	return current, rows.Err()
}
