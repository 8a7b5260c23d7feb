package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Paging bounds applied by Store.GetAll. A request without an explicit page
// size gets DefaultPageSize rows; no request ever gets more than MaxPageSize.
const (
	DefaultPageSize = 3
	MaxPageSize     = 100
)

// Scanner is the subset of sql.Row / sql.Rows a Table scan function needs.
type Scanner interface {
	Scan(dest ...any) error
}

// Clause is an optional SQL predicate applied to reads. Expr is a WHERE
// fragment with ? placeholders, Args the matching values. A nil *Clause
// means all rows are eligible.
type Clause struct {
	Expr string
	Args []any
}

// Table describes how an entity type maps onto its SQL table. Store uses it
// to build queries generically while the scanning and binding stay explicit
// per entity.
//
// Columns lists the insertable columns excluding the key (when AutoKey) and
// the timestamp columns, which the database fills itself. Scan must consume
// key, Columns values, created_at and updated_at in that order.
type Table[T any] struct {
	Name    string
	Key     string
	AutoKey bool // key assigned by the database on insert
	Columns []string

	Bind   func(*T) []any          // values matching Columns
	Scan   func(Scanner, *T) error // key, Columns..., created_at, updated_at
	KeyOf  func(*T) any
	SetKey func(*T, uint64) // used only when AutoKey
}

// Store is a generic data-access wrapper over a single SQL table. Mutating
// calls commit immediately; there is no separate save step.
type Store[T any] struct {
	db  *sql.DB
	tbl Table[T]
}

// NewStore constructs a Store for the given table descriptor.
func NewStore[T any](db *sql.DB, tbl Table[T]) *Store[T] {
	return &Store[T]{db: db, tbl: tbl}
}

// DB exposes the underlying pool for entity-specific SQL in specialized
// repositories.
func (s *Store[T]) DB() *sql.DB { return s.db }

// Create inserts the entity. For auto-keyed tables the generated key is
// written back; afterwards the row is re-read so database-assigned
// timestamps are populated. Duplicate-key violations map to ErrConflict.
func (s *Store[T]) Create(ctx context.Context, e *T) error {
	cols := s.tbl.Columns
	args := s.tbl.Bind(e)
	if !s.tbl.AutoKey {
		cols = append([]string{s.tbl.Key}, cols...)
		args = append([]any{s.tbl.KeyOf(e)}, args...)
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		s.tbl.Name, strings.Join(cols, ","), placeholders(len(cols)))
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	if s.tbl.AutoKey {
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		s.tbl.SetKey(e, uint64(id))
	}
	return s.reload(ctx, e)
}

// GetAll returns one page of entities matching the optional filter. Rows are
// ordered by primary key ascending, which is the documented stable order for
// paging. pageSize defaults to DefaultPageSize when zero or negative and is
// clamped to MaxPageSize; the window starts at offset pageSize*(pageNumber-1).
func (s *Store[T]) GetAll(ctx context.Context, filter *Clause, pageSize, pageNumber int) ([]*T, error) {
	limit, offset := Window(pageSize, pageNumber)
	q := fmt.Sprintf("%s%s ORDER BY %s ASC LIMIT ? OFFSET ?",
		s.selectBase(), whereOf(filter), s.tbl.Key)
	args := append(argsOf(filter), limit, offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*T
	for rows.Next() {
		e := new(T)
		if err := s.tbl.Scan(rows, e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetOne returns the first entity matching the filter, ordered by key, or
// ErrNotFound.
func (s *Store[T]) GetOne(ctx context.Context, filter *Clause) (*T, error) {
	q := fmt.Sprintf("%s%s ORDER BY %s ASC LIMIT 1", s.selectBase(), whereOf(filter), s.tbl.Key)
	e := new(T)
	if err := s.tbl.Scan(s.db.QueryRowContext(ctx, q, argsOf(filter)...), e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// Remove deletes the entity by primary key. Deleting a row that no longer
// exists reports ErrNotFound.
func (s *Store[T]) Remove(ctx context.Context, e *T) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.tbl.Name, s.tbl.Key)
	res, err := s.db.ExecContext(ctx, q, s.tbl.KeyOf(e))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of rows matching the filter, ignoring paging.
func (s *Store[T]) Count(ctx context.Context, filter *Clause) (int64, error) {
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", s.tbl.Name, whereOf(filter))
	var n int64
	if err := s.db.QueryRowContext(ctx, q, argsOf(filter)...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// reload re-reads the entity by key so database-assigned fields (timestamps)
// are populated after an insert.
func (s *Store[T]) reload(ctx context.Context, e *T) error {
	q := fmt.Sprintf("%s WHERE %s = ?", s.selectBase(), s.tbl.Key)
	return s.tbl.Scan(s.db.QueryRowContext(ctx, q, s.tbl.KeyOf(e)), e)
}

func (s *Store[T]) selectBase() string {
	cols := append([]string{s.tbl.Key}, s.tbl.Columns...)
	cols = append(cols, "created_at", "updated_at")
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ","), s.tbl.Name)
}

// Window converts page parameters into a LIMIT/OFFSET pair, applying the
// default and the clamp.
func Window(pageSize, pageNumber int) (limit, offset int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	return pageSize, pageSize * (pageNumber - 1)
}

func whereOf(f *Clause) string {
	if f == nil || f.Expr == "" {
		return ""
	}
	return " WHERE " + f.Expr
}

func argsOf(f *Clause) []any {
	if f == nil {
		return nil
	}
	return f.Args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
