package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrDuplicateName means a person with that name is already registered.
	ErrDuplicateName = errors.New("person already exists")
	// ErrNotFound means no person matches the given id.
	ErrNotFound = errors.New("person not found")
)

// Person is a registered identity. Name is the natural key the browser-side
// recognizer and the attendance ledger both use.
type Person struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	PhotoCount int       `json:"photoCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Repository persists the person directory in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new person. A unique violation on name maps to
// ErrDuplicateName.
func (r *Repository) Create(ctx context.Context, name string, photoCount int) (Person, error) {
	p := Person{Name: name, PhotoCount: photoCount}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO people (name, photo_count)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, name, photoCount)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Person{}, ErrDuplicateName
		}
		return Person{}, fmt.Errorf("insert person %q: %w", name, err)
	}
	return p, nil
}

// GetByName returns the person with that exact name, or nil.
func (r *Repository) GetByName(ctx context.Context, name string) (*Person, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, photo_count, created_at FROM people WHERE name = $1
	`, name)
	var p Person
	if err := row.Scan(&p.ID, &p.Name, &p.PhotoCount, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("person by name %q: %w", name, err)
	}
	return &p, nil
}

// List returns all people, newest registration first.
func (r *Repository) List(ctx context.Context) ([]Person, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, photo_count, created_at FROM people
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []Person
	for rows.Next() {
		var p Person
		if err := rows.Scan(&p.ID, &p.Name, &p.PhotoCount, &p.CreatedAt); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// Count returns the directory size.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`).Scan(&n)
	return n, err
}

// DeleteCascade removes a person and every attendance record carrying their
// name in one transaction. It returns the deleted name, or ErrNotFound.
func (r *Repository) DeleteCascade(ctx context.Context, id int64) (string, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var name string
	if err := tx.QueryRowContext(ctx, `SELECT name FROM people WHERE id = $1`, id).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("person by id %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance WHERE name = $1`, name); err != nil {
		return "", fmt.Errorf("delete attendance for %q: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM people WHERE id = $1`, id); err != nil {
		return "", fmt.Errorf("delete person %d: %w", id, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit delete: %w", err)
	}
	return name, nil
}
