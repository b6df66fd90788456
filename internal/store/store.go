// Package store persists todos in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "github.com/elpatron68/todo-web/internal/log"
	"github.com/elpatron68/todo-web/internal/todo"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound  = errors.New("todo not found")
	ErrEmptyTask = errors.New("task cannot be empty")
)

const schema = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	task TEXT NOT NULL,
	completed BOOLEAN NOT NULL DEFAULT 0,
	due_date TEXT,
	category TEXT NOT NULL DEFAULT ''
);
`

type Store struct {
	db   *sql.DB
	path string
}

// Open opens (and creates if needed) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path empty")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection: handlers share it, sqlite serialises writers anyway.
	db.SetMaxOpenConns(1)
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", strings.TrimSpace(p), err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	applog.Debugf("store opened: %s", path)
	return &Store{db: db, path: path}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Path returns the database file the store was opened with.
func (s *Store) Path() string { return s.path }

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(row scanner) (todo.Todo, error) {
	var t todo.Todo
	var due sql.NullString
	if err := row.Scan(&t.ID, &t.Task, &t.Completed, &due, &t.Category); err != nil {
		return todo.Todo{}, err
	}
	if due.Valid && due.String != "" {
		d, err := time.Parse(todo.DateLayout, due.String)
		if err != nil {
			return todo.Todo{}, fmt.Errorf("todo %d: %w", t.ID, err)
		}
		t.DueDate = d
	}
	return t, nil
}

func dueValue(t todo.Todo) any {
	if !t.HasDueDate() {
		return nil
	}
	return t.DueString()
}

// List returns all todos, earliest due date first; undated todos come last.
func (s *Store) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, task, completed, due_date, category FROM todos
		ORDER BY due_date IS NULL OR due_date = '', due_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []todo.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id int64) (todo.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, task, completed, due_date, category FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return t, err
}

// Add inserts t as an open todo and returns it with its new id.
func (s *Store) Add(ctx context.Context, t todo.Todo) (todo.Todo, error) {
	t.Task = strings.TrimSpace(t.Task)
	if t.Task == "" {
		return todo.Todo{}, ErrEmptyTask
	}
	t.Category = strings.TrimSpace(t.Category)
	t.Completed = false
	res, err := s.db.ExecContext(ctx, `INSERT INTO todos(task, completed, due_date, category) VALUES(?, ?, ?, ?)`,
		t.Task, false, dueValue(t), t.Category)
	if err != nil {
		return todo.Todo{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return todo.Todo{}, err
	}
	t.ID = id
	return t, nil
}

// Update changes task text, due date and category. Completion is left alone.
func (s *Store) Update(ctx context.Context, t todo.Todo) error {
	t.Task = strings.TrimSpace(t.Task)
	if t.Task == "" {
		return ErrEmptyTask
	}
	res, err := s.db.ExecContext(ctx, `UPDATE todos SET task = ?, due_date = ?, category = ? WHERE id = ?`,
		t.Task, dueValue(t), strings.TrimSpace(t.Category), t.ID)
	if err != nil {
		return err
	}
	return expectOne(res, t.ID)
}

// ToggleCompleted flips the completion flag and returns the new value.
func (s *Store) ToggleCompleted(ctx context.Context, id int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var completed bool
	err = tx.QueryRowContext(ctx, `SELECT completed FROM todos WHERE id = ?`, id).Scan(&completed)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return false, err
	}
	completed = !completed
	if _, err := tx.ExecContext(ctx, `UPDATE todos SET completed = ? WHERE id = ?`, completed, id); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return completed, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOne(res, id)
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
