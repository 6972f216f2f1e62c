// Package store provides in-memory implementations of the persistence
// interfaces, for testing and development.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/warp/leave-engine/leave"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu           sync.RWMutex
	requests     map[string]leave.Record
	entitlements map[entitlementKey]leave.Entitlement
	quotas       map[quotaKey]leave.Quota
}

type entitlementKey struct {
	Email string
	Type  leave.Type
	Year  int
}

type quotaKey struct {
	Email string
	Year  int
	Month int
}

func NewMemory() *Memory {
	return &Memory{
		requests:     make(map[string]leave.Record),
		entitlements: make(map[entitlementKey]leave.Entitlement),
		quotas:       make(map[quotaKey]leave.Quota),
	}
}

func (m *Memory) GetRequest(_ context.Context, id string) (*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := m.requests[id]
	if !ok {
		return nil, &leave.NotFoundError{Kind: "request", ID: id}
	}
	return leave.FromRecord(rec), nil
}

func (m *Memory) PutRequest(_ context.Context, r *leave.Request) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[r.ID] = r.Record()
	return nil
}

func (m *Memory) RequestsByEmployee(_ context.Context, email string) ([]*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.Request
	for _, rec := range m.requests {
		if strings.EqualFold(rec.EmployeeEmail, email) {
			out = append(out, leave.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (m *Memory) RequestsByOfficer(_ context.Context, email string, role leave.OfficerRole, status leave.Status) ([]*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.Request
	for _, rec := range m.requests {
		if rec.Status != status {
			continue
		}
		r := leave.FromRecord(rec)
		a := r.Assignment(role)
		if a != nil && strings.EqualFold(a.Email, email) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().Before(out[j].CreatedAt())
	})
	return out, nil
}

func (m *Memory) RequestsByStatus(_ context.Context, status leave.Status) ([]*leave.Request, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.Request
	for _, rec := range m.requests {
		if rec.Status == status {
			out = append(out, leave.FromRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (m *Memory) GetEntitlement(_ context.Context, email string, leaveType leave.Type, year int) (*leave.Entitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := entitlementKey{Email: strings.ToLower(email), Type: leaveType, Year: year}
	e, ok := m.entitlements[k]
	if !ok {
		return nil, nil
	}
	c := e
	return &c, nil
}

func (m *Memory) PutEntitlement(_ context.Context, e *leave.Entitlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := entitlementKey{Email: strings.ToLower(e.EmployeeEmail), Type: e.Type, Year: e.Year}
	m.entitlements[k] = *e
	return nil
}

func (m *Memory) EntitlementsByYear(_ context.Context, email string, year int) ([]*leave.Entitlement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.Entitlement
	for k, e := range m.entitlements {
		if k.Email == strings.ToLower(email) && k.Year == year {
			c := e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out, nil
}

func (m *Memory) GetQuota(_ context.Context, email string, year, month int) (*leave.Quota, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	k := quotaKey{Email: strings.ToLower(email), Year: year, Month: month}
	q, ok := m.quotas[k]
	if !ok {
		return nil, nil
	}
	c := q
	return &c, nil
}

func (m *Memory) PutQuota(_ context.Context, q *leave.Quota) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := quotaKey{Email: strings.ToLower(q.EmployeeEmail), Year: q.Year, Month: q.Month}
	m.quotas[k] = *q
	return nil
}

func (m *Memory) QuotasByYear(_ context.Context, email string, year int) ([]*leave.Quota, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*leave.Quota
	for k, q := range m.quotas {
		if k.Email == strings.ToLower(email) && k.Year == year {
			c := q
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

// =============================================================================
// MEMORY DIRECTORY
// =============================================================================

// MemoryDirectory is an in-memory employee directory for testing/dev.
type MemoryDirectory struct {
	mu        sync.RWMutex
	employees map[string]leave.Employee
}

func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{employees: make(map[string]leave.Employee)}
}

// Add registers an employee, replacing any existing entry.
func (d *MemoryDirectory) Add(e leave.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[strings.ToLower(e.Email)] = e
}

func (d *MemoryDirectory) Lookup(_ context.Context, email string) (*leave.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.employees[strings.ToLower(email)]
	if !ok {
		return nil, &leave.NotFoundError{Kind: "employee", ID: email}
	}
	c := e
	return &c, nil
}

func (d *MemoryDirectory) ByDepartment(_ context.Context, department string) ([]*leave.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []*leave.Employee
	for _, e := range d.employees {
		if strings.EqualFold(e.Department, department) {
			c := e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
