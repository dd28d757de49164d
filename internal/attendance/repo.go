package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record represents a single check-in event. Records are immutable once
// written; there is no update path.
type Record struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// Filter narrows a ledger listing. All set fields apply conjunctively.
type Filter struct {
	Search string
	Start  *time.Time
	End    *time.Time
}

// NameCount is a per-identity check-in tally.
type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Repository persists the attendance ledger in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// RecentExists reports whether a record for name exists at or after since.
func (r *Repository) RecentExists(ctx context.Context, name string, since time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM attendance WHERE name = $1 AND timestamp >= $2
		)
	`, name, since).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("recent lookup for %q: %w", name, err)
	}
	return exists, nil
}

// Insert writes a new record and returns it with generated fields filled in.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Status == "" {
		rec.Status = "present"
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance (id, name, timestamp, status)
		VALUES ($1, $2, $3, $4)
		RETURNING timestamp
	`, rec.ID, rec.Name, rec.Timestamp, rec.Status)
	if err := row.Scan(&rec.Timestamp); err != nil {
		return Record{}, fmt.Errorf("insert record for %q: %w", rec.Name, err)
	}
	return rec, nil
}

// List returns records matching the filter, most recent first.
func (r *Repository) List(ctx context.Context, f Filter) ([]Record, error) {
	query := `SELECT id, name, timestamp, status FROM attendance`
	args := []any{}
	clauses := []string{}
	if f.Search != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE '%%' || $%d || '%%'", len(args)+1))
		args = append(args, f.Search)
	}
	if f.Start != nil {
		clauses = append(clauses, fmt.Sprintf("timestamp >= $%d", len(args)+1))
		args = append(args, *f.Start)
	}
	if f.End != nil {
		clauses = append(clauses, fmt.Sprintf("timestamp <= $%d", len(args)+1))
		args = append(args, *f.End)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY timestamp DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// Recent returns the most recent records, capped at limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, timestamp, status FROM attendance
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent records: %w", err)
	}
	defer rows.Close()
	return scanRecords(rows)
}

// CountAll returns the full ledger size.
func (r *Repository) CountAll(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM attendance`).Scan(&n)
	return n, err
}

// CountSince counts records with timestamp at or after since.
func (r *Repository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance WHERE timestamp >= $1
	`, since).Scan(&n)
	return n, err
}

// CountBetween counts records in [start, end).
func (r *Repository) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM attendance WHERE timestamp >= $1 AND timestamp < $2
	`, start, end).Scan(&n)
	return n, err
}

// TopNames returns the identities with the most check-ins, count descending,
// name ascending on ties.
func (r *Repository) TopNames(ctx context.Context, limit int) ([]NameCount, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, COUNT(*) AS n FROM attendance
		GROUP BY name
		ORDER BY n DESC, name ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top names: %w", err)
	}
	defer rows.Close()

	var res []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, err
		}
		res = append(res, nc)
	}
	return res, rows.Err()
}

func scanRecords(rows *sql.Rows) ([]Record, error) {
	var res []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Timestamp, &rec.Status); err != nil {
			return nil, err
		}
		res = append(res, rec)
	}
	return res, rows.Err()
}
