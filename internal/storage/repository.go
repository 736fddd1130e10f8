// Package storage is the SQLite persistence backend. It satisfies
// store.Store using a single database/sql pool over modernc.org/sqlite.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"

	_ "modernc.org/sqlite"
)

const (
	dateLayout = "2006-01-02"
	tsLayout   = time.RFC3339Nano
)

type SQLiteRepository struct {
	db *sql.DB
}

var _ store.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (amount_cents, description, date, type, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.Amount.Cents, t.Description, t.Date.Format(dateLayout), string(t.Type), t.Category,
		now.Format(tsLayout), now.Format(tsLayout))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	t.UpdatedAt = now
	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, amount_cents, description, date, type, category, created_at, updated_at
		FROM transactions WHERE id = ?`, id)
	return scanTransaction(row)
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, description = ?, date = ?, type = ?, category = ?, updated_at = ?
		WHERE id = ?`,
		t.Amount.Cents, t.Description, t.Date.Format(dateLayout), string(t.Type), t.Category,
		now.Format(tsLayout), t.ID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Transaction{}, store.ErrNotFound
	}
	return r.GetTransaction(ctx, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount_cents, description, date, type, category, created_at, updated_at
		FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (category, amount_cents, month, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		b.Category, b.Amount.Cents, b.Month, now.Format(tsLayout), now.Format(tsLayout))
	if err != nil {
		if isUniqueViolation(err) {
			return core.Budget{}, store.ErrDuplicateBudget
		}
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id int64) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, category, amount_cents, month, created_at, updated_at
		FROM budgets WHERE id = ?`, id)
	return scanBudget(row)
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, amount_cents = ?, month = ?, updated_at = ?
		WHERE id = ?`,
		b.Category, b.Amount.Cents, b.Month, now.Format(tsLayout), b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return core.Budget{}, store.ErrDuplicateBudget
		}
		return core.Budget{}, fmt.Errorf("update budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Budget{}, store.ErrNotFound
	}
	return r.GetBudget(ctx, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, month string) ([]core.Budget, error) {
	query := `
		SELECT id, category, amount_cents, month, created_at, updated_at
		FROM budgets`
	args := []any{}
	if month != "" {
		query += ` WHERE month = ?`
		args = append(args, month)
	}
	query += ` ORDER BY category ASC, month ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	out := []core.Budget{}
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t                           core.Transaction
		date, typ, created, updated string
	)
	err := row.Scan(&t.ID, &t.Amount.Cents, &t.Description, &date, &typ, &t.Category, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date %q: %w", date, err)
	}
	t.Date = core.Date{Time: day}
	t.Type = core.TransactionType(typ)
	if t.CreatedAt, err = parseTimestamp(created); err != nil {
		return core.Transaction{}, err
	}
	if t.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func scanBudget(row rowScanner) (core.Budget, error) {
	var (
		b                core.Budget
		created, updated string
	)
	err := row.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Month, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, store.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("scan budget: %w", err)
	}
	if b.CreatedAt, err = parseTimestamp(created); err != nil {
		return core.Budget{}, err
	}
	if b.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return core.Budget{}, err
	}
	return b, nil
}

// parseTimestamp accepts both RFC3339 values written by the repository and
// the strftime default SQLite fills in for column defaults.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{tsLayout, time.RFC3339, "2006-01-02T15:04:05.000Z"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", s)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
