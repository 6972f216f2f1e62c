/*
store.go - Persistence interfaces for requests, entitlements and quotas

PURPOSE:
  Defines the seam between the workflow/ledger logic and the database. The
  engine assumes an abstract keyed store with get/put and last-writer-wins
  updates per record; no cross-record transaction is required. Different
  implementations back this with SQLite or in-memory maps.

KEY INTERFACES:
  RequestStore:     leave requests by id / employee / officer
  EntitlementStore: per-(employee, leave type, year) balance records
  QuotaStore:       per-(employee, year, month) short-leave quota records
  Store:            the union, what the service is wired with

MISSING RECORDS:
  GetRequest returns a NotFoundError for unknown ids. GetEntitlement and
  GetQuota return (nil, nil) when the record does not exist yet - both are
  lazily created on first reference per period.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store (also serves as the Directory)
  - leave/store:  in-memory store for tests and development
*/
package leave

import "context"

// RequestStore persists leave requests. Requests are never deleted;
// cancellation is a state change.
type RequestStore interface {
	// GetRequest returns the request or a NotFoundError.
	GetRequest(ctx context.Context, id string) (*Request, error)

	// PutRequest writes the full record, last writer wins.
	PutRequest(ctx context.Context, r *Request) error

	// RequestsByEmployee returns the employee's requests, newest first.
	RequestsByEmployee(ctx context.Context, email string) ([]*Request, error)

	// RequestsByOfficer returns requests where the officer holds the given
	// role and the request sits in the given status, oldest first.
	RequestsByOfficer(ctx context.Context, email string, role OfficerRole, status Status) ([]*Request, error)

	// RequestsByStatus returns every request in the given status, newest
	// first. Used for the admin maternity worklist.
	RequestsByStatus(ctx context.Context, status Status) ([]*Request, error)
}

// EntitlementStore persists annual balance records.
type EntitlementStore interface {
	// GetEntitlement returns the record, or (nil, nil) if it does not exist.
	GetEntitlement(ctx context.Context, email string, leaveType Type, year int) (*Entitlement, error)

	// PutEntitlement writes the full record, last writer wins.
	PutEntitlement(ctx context.Context, e *Entitlement) error

	// EntitlementsByYear returns all of an employee's records for a year.
	EntitlementsByYear(ctx context.Context, email string, year int) ([]*Entitlement, error)
}

// QuotaStore persists monthly short-leave quota records.
type QuotaStore interface {
	// GetQuota returns the record, or (nil, nil) if it does not exist.
	GetQuota(ctx context.Context, email string, year, month int) (*Quota, error)

	// PutQuota writes the full record, last writer wins.
	PutQuota(ctx context.Context, q *Quota) error

	// QuotasByYear returns all of an employee's quota records for a year.
	QuotasByYear(ctx context.Context, email string, year int) ([]*Quota, error)
}

// Store is the full persistence surface the service is wired with.
type Store interface {
	RequestStore
	EntitlementStore
	QuotaStore
}
