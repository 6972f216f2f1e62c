/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements the persistence interfaces (leave.Store) and the employee
  directory (leave.Directory) using SQLite. In production, the same patterns
  apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  requests:     Leave requests with their full officer chain state
  entitlements: One balance record per (employee, leave type, year)
  quotas:       One short-leave record per (employee, year, month)
  employees:    Directory entries (email, name, department, admin flag)

UPDATE MODEL:
  Every write is a full-record upsert, last writer wins. Requests are never
  deleted; cancellation is a status. Entitlements and quotas are created
  lazily by the engine and reset in place by the recalculation pass.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/leave.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := leave.NewService(store, store, notifier, leave.DefaultConfig(), logger)

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - leave/store.go: Interface definitions
  - leave/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/leave-engine/leave"
)

// Store implements leave.Store and leave.Directory using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Leave requests (never deleted; cancellation is a status)
	CREATE TABLE IF NOT EXISTS requests (
		id TEXT PRIMARY KEY,
		employee_email TEXT NOT NULL,
		employee_name TEXT NOT NULL,
		kind TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL DEFAULT '',
		reason TEXT NOT NULL DEFAULT '',
		half_day_period TEXT NOT NULL DEFAULT '',
		short_start TEXT NOT NULL DEFAULT '',
		short_end TEXT NOT NULL DEFAULT '',
		pay_tier TEXT NOT NULL DEFAULT '',
		end_date_set INTEGER NOT NULL DEFAULT 0,
		maternity_note TEXT NOT NULL DEFAULT '',

		acting_email TEXT NOT NULL DEFAULT '',
		acting_name TEXT NOT NULL DEFAULT '',
		acting_status TEXT NOT NULL DEFAULT '',
		acting_comments TEXT NOT NULL DEFAULT '',
		acting_approved_at TEXT NOT NULL DEFAULT '',
		supervising_email TEXT NOT NULL DEFAULT '',
		supervising_name TEXT NOT NULL DEFAULT '',
		supervising_status TEXT NOT NULL DEFAULT '',
		supervising_comments TEXT NOT NULL DEFAULT '',
		supervising_approved_at TEXT NOT NULL DEFAULT '',
		approval_email TEXT NOT NULL DEFAULT '',
		approval_name TEXT NOT NULL DEFAULT '',
		approval_status TEXT NOT NULL DEFAULT '',
		approval_comments TEXT NOT NULL DEFAULT '',
		approval_approved_at TEXT NOT NULL DEFAULT '',
		chain TEXT NOT NULL DEFAULT '',

		status TEXT NOT NULL,
		cancelled INTEGER NOT NULL DEFAULT 0,
		cancelled_at TEXT NOT NULL DEFAULT '',
		cancelled_by TEXT NOT NULL DEFAULT '',
		cancellation_reason TEXT NOT NULL DEFAULT '',

		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_employee
		ON requests(employee_email);
	CREATE INDEX IF NOT EXISTS idx_requests_status
		ON requests(status);
	-- Officer worklist lookups (one per role)
	CREATE INDEX IF NOT EXISTS idx_requests_acting
		ON requests(acting_email, status);
	CREATE INDEX IF NOT EXISTS idx_requests_supervising
		ON requests(supervising_email, status);
	CREATE INDEX IF NOT EXISTS idx_requests_approval
		ON requests(approval_email, status);

	-- Entitlements (one record per employee, leave type, year)
	CREATE TABLE IF NOT EXISTS entitlements (
		employee_email TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		year INTEGER NOT NULL,
		total INTEGER NOT NULL,
		used TEXT NOT NULL,
		remaining TEXT NOT NULL,
		accumulated_half_days INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_email, leave_type, year)
	);

	-- Short-leave quotas (one record per employee, year, month)
	CREATE TABLE IF NOT EXISTS quotas (
		employee_email TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		total INTEGER NOT NULL,
		used INTEGER NOT NULL,
		remaining INTEGER NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (employee_email, year, month)
	);

	-- Employees (the directory)
	CREATE TABLE IF NOT EXISTS employees (
		email TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL,
		admin INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_department
		ON employees(department);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// REQUESTS
// =============================================================================

const requestColumns = `id, employee_email, employee_name, kind, leave_type,
	start_date, end_date, reason, half_day_period, short_start, short_end,
	pay_tier, end_date_set, maternity_note,
	acting_email, acting_name, acting_status, acting_comments, acting_approved_at,
	supervising_email, supervising_name, supervising_status, supervising_comments, supervising_approved_at,
	approval_email, approval_name, approval_status, approval_comments, approval_approved_at,
	chain, status, cancelled, cancelled_at, cancelled_by, cancellation_reason,
	created_at, updated_at`

func (s *Store) GetRequest(ctx context.Context, id string) (*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE id = ?`, id)
	r, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, &leave.NotFoundError{Kind: "request", ID: id}
	}
	return r, err
}

func (s *Store) PutRequest(ctx context.Context, r *leave.Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := r.Record()
	acting := flattenAssignment(rec.Acting)
	supervising := flattenAssignment(rec.Supervising)
	approval := flattenAssignment(rec.Approval)

	chain := make([]string, len(rec.Chain))
	for i, role := range rec.Chain {
		chain[i] = string(role)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO requests (`+requestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			employee_email = excluded.employee_email,
			employee_name = excluded.employee_name,
			kind = excluded.kind,
			leave_type = excluded.leave_type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			reason = excluded.reason,
			half_day_period = excluded.half_day_period,
			short_start = excluded.short_start,
			short_end = excluded.short_end,
			pay_tier = excluded.pay_tier,
			end_date_set = excluded.end_date_set,
			maternity_note = excluded.maternity_note,
			acting_email = excluded.acting_email,
			acting_name = excluded.acting_name,
			acting_status = excluded.acting_status,
			acting_comments = excluded.acting_comments,
			acting_approved_at = excluded.acting_approved_at,
			supervising_email = excluded.supervising_email,
			supervising_name = excluded.supervising_name,
			supervising_status = excluded.supervising_status,
			supervising_comments = excluded.supervising_comments,
			supervising_approved_at = excluded.supervising_approved_at,
			approval_email = excluded.approval_email,
			approval_name = excluded.approval_name,
			approval_status = excluded.approval_status,
			approval_comments = excluded.approval_comments,
			approval_approved_at = excluded.approval_approved_at,
			chain = excluded.chain,
			status = excluded.status,
			cancelled = excluded.cancelled,
			cancelled_at = excluded.cancelled_at,
			cancelled_by = excluded.cancelled_by,
			cancellation_reason = excluded.cancellation_reason,
			updated_at = excluded.updated_at`,
		rec.ID, rec.EmployeeEmail, rec.EmployeeName, string(rec.Kind), string(rec.Type),
		dateOut(rec.StartDate), dateOut(rec.EndDate), rec.Reason,
		string(rec.HalfDayPeriod), timeOut(rec.ShortStart), timeOut(rec.ShortEnd),
		string(rec.PayTier), boolOut(rec.EndDateSet), rec.MaternityNote,
		acting.email, acting.name, acting.status, acting.comments, acting.approvedAt,
		supervising.email, supervising.name, supervising.status, supervising.comments, supervising.approvedAt,
		approval.email, approval.name, approval.status, approval.comments, approval.approvedAt,
		strings.Join(chain, ","), string(rec.Status),
		boolOut(rec.Cancelled), timePtrOut(rec.CancelledAt), rec.CancelledBy, rec.CancellationReason,
		stampOut(rec.CreatedAt), stampOut(rec.UpdatedAt))
	return err
}

func (s *Store) RequestsByEmployee(ctx context.Context, email string) ([]*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE employee_email = ? COLLATE NOCASE
		 ORDER BY created_at DESC`, email)
}

func (s *Store) RequestsByOfficer(ctx context.Context, email string, role leave.OfficerRole, status leave.Status) ([]*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var col string
	switch role {
	case leave.RoleActing:
		col = "acting_email"
	case leave.RoleSupervising:
		col = "supervising_email"
	case leave.RoleApproval:
		col = "approval_email"
	default:
		return nil, fmt.Errorf("unknown officer role %q", string(role))
	}
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE `+col+` = ? COLLATE NOCASE AND status = ?
		 ORDER BY created_at ASC`, email, string(status))
}

func (s *Store) RequestsByStatus(ctx context.Context, status leave.Status) ([]*leave.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queryRequests(ctx,
		`SELECT `+requestColumns+` FROM requests
		 WHERE status = ?
		 ORDER BY created_at DESC`, string(status))
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]*leave.Request, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRequest(row scannable) (*leave.Request, error) {
	var rec leave.Record
	var kind, leaveType, halfDay, shortStart, shortEnd, payTier, status string
	var startDate, endDate, chain string
	var acting, supervising, approval flatAssignment
	var endDateSet, cancelled int
	var cancelledAt, createdAt, updatedAt string

	err := row.Scan(
		&rec.ID, &rec.EmployeeEmail, &rec.EmployeeName, &kind, &leaveType,
		&startDate, &endDate, &rec.Reason, &halfDay, &shortStart, &shortEnd,
		&payTier, &endDateSet, &rec.MaternityNote,
		&acting.email, &acting.name, &acting.status, &acting.comments, &acting.approvedAt,
		&supervising.email, &supervising.name, &supervising.status, &supervising.comments, &supervising.approvedAt,
		&approval.email, &approval.name, &approval.status, &approval.comments, &approval.approvedAt,
		&chain, &status, &cancelled, &cancelledAt, &rec.CancelledBy, &rec.CancellationReason,
		&createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.Kind = leave.Kind(kind)
	rec.Type = leave.Type(leaveType)
	rec.HalfDayPeriod = leave.HalfDayPeriod(halfDay)
	rec.PayTier = leave.PayTier(payTier)
	rec.Status = leave.Status(status)
	rec.EndDateSet = endDateSet != 0
	rec.Cancelled = cancelled != 0

	if rec.StartDate, err = dateIn(startDate); err != nil {
		return nil, err
	}
	if rec.EndDate, err = dateIn(endDate); err != nil {
		return nil, err
	}
	if rec.ShortStart, err = timeIn(shortStart); err != nil {
		return nil, err
	}
	if rec.ShortEnd, err = timeIn(shortEnd); err != nil {
		return nil, err
	}
	if rec.Acting, err = acting.assignment(); err != nil {
		return nil, err
	}
	if rec.Supervising, err = supervising.assignment(); err != nil {
		return nil, err
	}
	if rec.Approval, err = approval.assignment(); err != nil {
		return nil, err
	}
	if rec.CancelledAt, err = timePtrIn(cancelledAt); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = stampIn(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = stampIn(updatedAt); err != nil {
		return nil, err
	}

	if chain != "" {
		for _, role := range strings.Split(chain, ",") {
			rec.Chain = append(rec.Chain, leave.OfficerRole(role))
		}
	}
	return leave.FromRecord(rec), nil
}

// =============================================================================
// ENTITLEMENTS
// =============================================================================

func (s *Store) GetEntitlement(ctx context.Context, email string, leaveType leave.Type, year int) (*leave.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT employee_email, leave_type, year, total, used, remaining,
		       accumulated_half_days, created_at, updated_at
		FROM entitlements
		WHERE employee_email = ? COLLATE NOCASE AND leave_type = ? AND year = ?`,
		email, string(leaveType), year)
	e, err := scanEntitlement(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return e, err
}

func (s *Store) PutEntitlement(ctx context.Context, e *leave.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entitlements (employee_email, leave_type, year, total, used,
			remaining, accumulated_half_days, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_email, leave_type, year) DO UPDATE SET
			total = excluded.total,
			used = excluded.used,
			remaining = excluded.remaining,
			accumulated_half_days = excluded.accumulated_half_days,
			updated_at = excluded.updated_at`,
		e.EmployeeEmail, string(e.Type), e.Year, e.Total,
		e.Used.String(), e.Remaining.String(), e.AccumulatedHalfDays,
		stampOut(e.CreatedAt), stampOut(e.UpdatedAt))
	return err
}

func (s *Store) EntitlementsByYear(ctx context.Context, email string, year int) ([]*leave.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_email, leave_type, year, total, used, remaining,
		       accumulated_half_days, created_at, updated_at
		FROM entitlements
		WHERE employee_email = ? COLLATE NOCASE AND year = ?
		ORDER BY leave_type`, email, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Entitlement
	for rows.Next() {
		e, err := scanEntitlement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntitlement(row scannable) (*leave.Entitlement, error) {
	var e leave.Entitlement
	var leaveType, used, remaining, createdAt, updatedAt string
	err := row.Scan(&e.EmployeeEmail, &leaveType, &e.Year, &e.Total,
		&used, &remaining, &e.AccumulatedHalfDays, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	e.Type = leave.Type(leaveType)
	if e.Used, err = decimal.NewFromString(used); err != nil {
		return nil, fmt.Errorf("invalid used amount %q: %w", used, err)
	}
	if e.Remaining, err = decimal.NewFromString(remaining); err != nil {
		return nil, fmt.Errorf("invalid remaining amount %q: %w", remaining, err)
	}
	if e.CreatedAt, err = stampIn(createdAt); err != nil {
		return nil, err
	}
	if e.UpdatedAt, err = stampIn(updatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

// =============================================================================
// QUOTAS
// =============================================================================

func (s *Store) GetQuota(ctx context.Context, email string, year, month int) (*leave.Quota, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT employee_email, year, month, total, used, remaining, created_at, updated_at
		FROM quotas
		WHERE employee_email = ? COLLATE NOCASE AND year = ? AND month = ?`,
		email, year, month)
	q, err := scanQuota(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return q, err
}

func (s *Store) PutQuota(ctx context.Context, q *leave.Quota) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO quotas (employee_email, year, month, total, used, remaining,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(employee_email, year, month) DO UPDATE SET
			total = excluded.total,
			used = excluded.used,
			remaining = excluded.remaining,
			updated_at = excluded.updated_at`,
		q.EmployeeEmail, q.Year, q.Month, q.Total, q.Used, q.Remaining,
		stampOut(q.CreatedAt), stampOut(q.UpdatedAt))
	return err
}

func (s *Store) QuotasByYear(ctx context.Context, email string, year int) ([]*leave.Quota, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT employee_email, year, month, total, used, remaining, created_at, updated_at
		FROM quotas
		WHERE employee_email = ? COLLATE NOCASE AND year = ?
		ORDER BY month`, email, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Quota
	for rows.Next() {
		q, err := scanQuota(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func scanQuota(row scannable) (*leave.Quota, error) {
	var q leave.Quota
	var createdAt, updatedAt string
	err := row.Scan(&q.EmployeeEmail, &q.Year, &q.Month, &q.Total, &q.Used,
		&q.Remaining, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if q.CreatedAt, err = stampIn(createdAt); err != nil {
		return nil, err
	}
	if q.UpdatedAt, err = stampIn(updatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

// =============================================================================
// DIRECTORY
// =============================================================================

func (s *Store) Lookup(ctx context.Context, email string) (*leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var e leave.Employee
	var admin int
	err := s.db.QueryRowContext(ctx, `
		SELECT email, name, department, admin FROM employees
		WHERE email = ? COLLATE NOCASE`, email).
		Scan(&e.Email, &e.Name, &e.Department, &admin)
	if err == sql.ErrNoRows {
		return nil, &leave.NotFoundError{Kind: "employee", ID: email}
	}
	if err != nil {
		return nil, err
	}
	e.Admin = admin != 0
	return &e, nil
}

func (s *Store) ByDepartment(ctx context.Context, department string) ([]*leave.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT email, name, department, admin FROM employees
		WHERE department = ? COLLATE NOCASE
		ORDER BY email`, department)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*leave.Employee
	for rows.Next() {
		var e leave.Employee
		var admin int
		if err := rows.Scan(&e.Email, &e.Name, &e.Department, &admin); err != nil {
			return nil, err
		}
		e.Admin = admin != 0
		out = append(out, &e)
	}
	return out, rows.Err()
}

// UpsertEmployee writes a directory entry, used by seeding and admin tooling.
func (s *Store) UpsertEmployee(ctx context.Context, e leave.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (email, name, department, admin, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			admin = excluded.admin`,
		e.Email, e.Name, e.Department, boolOut(e.Admin), stampOut(time.Now().UTC()))
	return err
}

// =============================================================================
// COLUMN CODECS
// =============================================================================

type flatAssignment struct {
	email, name, status, comments, approvedAt string
}

func flattenAssignment(a *leave.OfficerAssignment) flatAssignment {
	if a == nil {
		return flatAssignment{}
	}
	return flatAssignment{
		email:      a.Email,
		name:       a.Name,
		status:     string(a.Status),
		comments:   a.Comments,
		approvedAt: timePtrOut(a.ApprovedAt),
	}
}

func (f flatAssignment) assignment() (*leave.OfficerAssignment, error) {
	if f.email == "" {
		return nil, nil
	}
	approvedAt, err := timePtrIn(f.approvedAt)
	if err != nil {
		return nil, err
	}
	return &leave.OfficerAssignment{
		Email:      f.email,
		Name:       f.name,
		Status:     leave.OfficerStatus(f.status),
		Comments:   f.comments,
		ApprovedAt: approvedAt,
	}, nil
}

func dateOut(d leave.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func dateIn(s string) (leave.Date, error) {
	if s == "" {
		return leave.Date{}, nil
	}
	return leave.ParseDate(s)
}

func timeOut(t leave.TimeOfDay) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}

func timeIn(s string) (leave.TimeOfDay, error) {
	if s == "" {
		return leave.TimeOfDay{}, nil
	}
	return leave.ParseTimeOfDay(s)
}

func stampOut(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func stampIn(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

func timePtrOut(t *time.Time) string {
	if t == nil {
		return ""
	}
	return stampOut(*t)
}

func timePtrIn(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := stampIn(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolOut(b bool) int {
	if b {
		return 1
	}
	return 0
}
