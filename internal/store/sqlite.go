package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/hr-console/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertEmployees inserts or replaces a batch of directory entries.
func (s *SQLiteStore) UpsertEmployees(ctx context.Context, employees []model.Employee) error {
	if len(employees) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO employees (
			id, name, email, position, division, hired_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range employees {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Name, e.Email, e.Position, e.Division,
			e.HiredAt, e.FetchedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting employee %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing employee upsert: %w", err)
	}
	return nil
}

// GetEmployees retrieves directory entries matching the filter,
// ordered by name.
func (s *SQLiteStore) GetEmployees(
	ctx context.Context,
	filter EmployeeFilter,
) ([]model.Employee, error) {
	query := "SELECT * FROM employees"
	var conditions []string
	var args []interface{}

	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions,
			"(name LIKE ? OR email LIKE ? OR position LIKE ?)")
		like := "%" + *filter.Query + "%"
		args = append(args, like, like, like)
	}
	if filter.Division != nil && *filter.Division != "" {
		conditions = append(conditions, "division = ?")
		args = append(args, *filter.Division)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY name ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var employees []model.Employee
	if err := s.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, fmt.Errorf("querying employees: %w", err)
	}
	return employees, nil
}

// GetEmployeeByID retrieves a single directory entry, or nil if absent.
func (s *SQLiteStore) GetEmployeeByID(
	ctx context.Context,
	id string,
) (*model.Employee, error) {
	var e model.Employee
	err := s.db.GetContext(ctx, &e, "SELECT * FROM employees WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying employee %s: %w", id, err)
	}
	return &e, nil
}

// UpsertLeaves inserts or replaces a batch of leave request snapshots.
func (s *SQLiteStore) UpsertLeaves(ctx context.Context, leaves []model.LeaveRequest) error {
	if len(leaves) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO leaves (
			id, employee_id, leave_type, start_date, end_date,
			reason, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, l := range leaves {
		_, err := stmt.ExecContext(ctx,
			l.ID, l.EmployeeID, string(l.Type), l.StartDate, l.EndDate,
			l.Reason, string(l.Status), l.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting leave %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing leave upsert: %w", err)
	}
	return nil
}

// GetLeaves retrieves cached leave requests matching the filter,
// newest first.
func (s *SQLiteStore) GetLeaves(
	ctx context.Context,
	filter LeaveFilter,
) ([]model.LeaveRequest, error) {
	query := "SELECT * FROM leaves"
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		conditions = append(conditions, "employee_id = ?")
		args = append(args, *filter.EmployeeID)
	}
	if filter.Status != nil && *filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, *filter.Status)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	var leaves []model.LeaveRequest
	if err := s.db.SelectContext(ctx, &leaves, query, args...); err != nil {
		return nil, fmt.Errorf("querying leaves: %w", err)
	}
	return leaves, nil
}
