/*
service.go - The leave engine facade

PURPOSE:
  Service is the single entry point callers are wired with. It owns
  submission (the only place requests are created), delegates officer
  actions, cancellation and the maternity end date to their components, and
  exposes the query and admin surface: balances, worklists, entitlement
  adjustment, and the recalculation repair pass.

SUBMISSION PIPELINE:
  validate shape -> validate officer chain against the directory ->
  validate capacity (ledger / quota / maternity rules) -> check overlap ->
  resolve chain -> persist in the first pending state -> notify the first
  officer. Every check runs before the first write; a declined submission
  leaves no trace.

SEE ALSO:
  - workflow.go, reversal.go, maternity.go: the delegated state changes
  - entitlement.go, shortleave.go: the capacity authorities
*/
package leave

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Service is the engine facade.
type Service struct {
	store     Store
	dir       Directory
	notifier  Notifier
	cfg       Config
	log       *slog.Logger
	ledger    *Ledger
	quota     *QuotaTracker
	workflow  *Workflow
	maternity *MaternityRules
	reversal  *ReversalCoordinator
}

// NewService wires the full engine over a store, a directory and a
// notification sink.
func NewService(store Store, dir Directory, notifier Notifier, cfg Config, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	ledger := NewLedger(store, cfg, log)
	quota := NewQuotaTracker(store, cfg, log)
	return &Service{
		store:     store,
		dir:       dir,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
		ledger:    ledger,
		quota:     quota,
		workflow:  NewWorkflow(store, ledger, quota, notifier, log),
		maternity: NewMaternityRules(store, ledger, dir, notifier, log),
		reversal:  NewReversalCoordinator(store, ledger, quota, dir, notifier, log),
	}
}

// =============================================================================
// SUBMISSION
// =============================================================================

// Submission carries everything an employee provides when requesting leave.
type Submission struct {
	EmployeeEmail string
	Kind          Kind
	Type          Type
	StartDate     Date
	EndDate       Date
	Reason        string

	HalfDayPeriod HalfDayPeriod
	ShortStart    TimeOfDay
	ShortEnd      TimeOfDay
	PayTier       PayTier

	ActingEmail      string
	SupervisingEmail string
	ApprovalEmail    string
}

// Submit validates and files a new leave request.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Request, error) {
	if err := s.validateShape(&sub); err != nil {
		return nil, err
	}

	employee, err := s.dir.Lookup(ctx, sub.EmployeeEmail)
	if err != nil {
		return nil, err
	}

	r := NewRequest(employee.Email, employee.Name, sub.Kind, sub.Type)
	r.StartDate = sub.StartDate
	r.EndDate = sub.EndDate
	r.Reason = sub.Reason
	r.HalfDayPeriod = sub.HalfDayPeriod
	r.ShortStart = sub.ShortStart
	r.ShortEnd = sub.ShortEnd
	r.PayTier = sub.PayTier

	if err := s.assignOfficers(ctx, r, employee, sub); err != nil {
		return nil, err
	}

	switch r.Kind {
	case KindShort:
		if err := s.quota.Validate(ctx, r); err != nil {
			return nil, err
		}
	case KindMaternity:
		if err := s.maternity.ValidateSubmission(ctx, r); err != nil {
			return nil, err
		}
	default:
		if err := s.ledger.Validate(ctx, r); err != nil {
			return nil, err
		}
	}

	if err := s.checkOverlap(ctx, r); err != nil {
		return nil, err
	}

	r.ResolveChain()
	first, ok := r.FirstRole()
	if !ok {
		return nil, Validationf("an approval officer is required")
	}
	r.Status = PendingStatus(first)

	if err := s.store.PutRequest(ctx, r); err != nil {
		return nil, err
	}

	if err := s.notifier.OfficerActionRequired(ctx, r, first); err != nil {
		s.log.Warn("submission notification failed", "request", r.ID, "error", err)
	}
	s.log.Info("request submitted",
		"request", r.ID, "employee", r.EmployeeEmail, "kind", string(r.Kind),
		"type", string(r.Type), "start", r.StartDate.String())
	return r, nil
}

func (s *Service) validateShape(sub *Submission) error {
	if sub.EmployeeEmail == "" {
		return Validationf("employee email is required")
	}
	if !sub.Kind.Valid() {
		return Validationf("unknown leave kind %q", string(sub.Kind))
	}
	if !sub.Type.Valid() {
		return Validationf("unknown leave type %q", string(sub.Type))
	}
	if sub.StartDate.IsZero() {
		return Validationf("start date is required")
	}
	switch sub.Kind {
	case KindStandard:
		if sub.EndDate.IsZero() {
			return Validationf("end date is required")
		}
		if sub.EndDate.Before(sub.StartDate) {
			return Validationf("end date %s is before start date %s", sub.EndDate, sub.StartDate)
		}
	case KindHalfDay:
		if sub.HalfDayPeriod != Morning && sub.HalfDayPeriod != Afternoon {
			return Validationf("half-day leave requires a morning or afternoon period")
		}
		sub.EndDate = sub.StartDate
	case KindShort:
		if sub.ShortStart.IsZero() || sub.ShortEnd.IsZero() {
			return Validationf("short leave requires start and end times")
		}
		if !sub.ShortStart.Before(sub.ShortEnd) {
			return Validationf("short leave end time %s is not after start time %s", sub.ShortEnd, sub.ShortStart)
		}
		sub.EndDate = sub.StartDate
	case KindMaternity:
		if sub.Type != TypeMaternity {
			return Validationf("maternity leave must draw on the maternity entitlement")
		}
		if !sub.PayTier.Valid() {
			return Validationf("maternity leave requires a pay tier")
		}
		if !sub.EndDate.IsZero() {
			return Validationf("maternity leave is submitted without an end date")
		}
	}
	if sub.ApprovalEmail == "" {
		return Validationf("an approval officer is required")
	}
	return nil
}

// assignOfficers resolves the configured officers against the directory and
// enforces the chain rules: the approval officer is mandatory and may sit in
// any department flagged for cross-department approval; acting and
// supervising officers must share the employee's department; nobody approves
// their own leave; no officer holds two slots.
func (s *Service) assignOfficers(ctx context.Context, r *Request, employee *Employee, sub Submission) error {
	type slot struct {
		email string
		role  OfficerRole
	}
	slots := []slot{
		{sub.ActingEmail, RoleActing},
		{sub.SupervisingEmail, RoleSupervising},
		{sub.ApprovalEmail, RoleApproval},
	}
	seen := make(map[string]OfficerRole)
	for _, sl := range slots {
		if sl.email == "" {
			continue
		}
		officer, err := s.dir.Lookup(ctx, sl.email)
		if err != nil {
			return err
		}
		if strings.EqualFold(officer.Email, employee.Email) {
			return Validationf("%s cannot be assigned as their own %s officer", employee.Email, strings.ToLower(string(sl.role)))
		}
		if prev, dup := seen[strings.ToLower(officer.Email)]; dup {
			return Validationf("%s cannot hold both the %s and %s officer roles on one request",
				officer.Email, strings.ToLower(string(prev)), strings.ToLower(string(sl.role)))
		}
		seen[strings.ToLower(officer.Email)] = sl.role

		sameDept := strings.EqualFold(officer.Department, employee.Department)
		if sl.role == RoleApproval {
			if !sameDept && !strings.EqualFold(officer.Department, AllDepartments) {
				return Validationf("approval officer %s is outside the employee's department", officer.Email)
			}
		} else if !sameDept {
			return Validationf("%s officer %s is outside the employee's department",
				strings.ToLower(string(sl.role)), officer.Email)
		}

		a := &OfficerAssignment{Email: officer.Email, Name: officer.Name, Status: OfficerPending}
		switch sl.role {
		case RoleActing:
			r.Acting = a
		case RoleSupervising:
			r.Supervising = a
		case RoleApproval:
			r.Approval = a
		}
	}
	if r.Approval == nil {
		return Validationf("an approval officer is required")
	}
	return nil
}

// checkOverlap refuses a submission whose date range intersects another of
// the employee's live day-consuming requests. Short leave is sub-day and
// maternity has no end date yet, so both are exempt on either side.
func (s *Service) checkOverlap(ctx context.Context, r *Request) error {
	if r.Kind == KindShort || r.Kind == KindMaternity {
		return nil
	}
	existing, err := s.store.RequestsByEmployee(ctx, r.EmployeeEmail)
	if err != nil {
		return err
	}
	for _, prev := range existing {
		if prev.ID == r.ID || prev.Kind == KindShort || prev.Kind == KindMaternity {
			continue
		}
		if prev.Cancelled || prev.Status.IsRejected() {
			continue
		}
		if !r.StartDate.After(prev.EndDate) && !r.EndDate.Before(prev.StartDate) {
			return Validationf("dates overlap an existing request from %s to %s", prev.StartDate, prev.EndDate)
		}
	}
	return nil
}

// =============================================================================
// DELEGATED STATE CHANGES
// =============================================================================

// ActOnRequest applies one officer decision; see workflow.go.
func (s *Service) ActOnRequest(ctx context.Context, requestID string, role OfficerRole, callerEmail string, decision OfficerDecision, comments string) (*ActionResult, error) {
	return s.workflow.ActOnRequest(ctx, requestID, role, callerEmail, decision, comments)
}

// Cancel cancels a request; see reversal.go.
func (s *Service) Cancel(ctx context.Context, requestID, callerEmail, reason string) (*Request, error) {
	return s.reversal.Cancel(ctx, requestID, callerEmail, reason)
}

// SetMaternityEndDate closes an open maternity period; see maternity.go.
func (s *Service) SetMaternityEndDate(ctx context.Context, requestID, adminEmail string, end Date, comments string) (*Request, error) {
	return s.maternity.SetEndDate(ctx, requestID, adminEmail, end, comments)
}

// =============================================================================
// QUERIES
// =============================================================================

// Request returns one request by id.
func (s *Service) Request(ctx context.Context, id string) (*Request, error) {
	return s.store.GetRequest(ctx, id)
}

// RequestsForEmployee returns an employee's requests, newest first.
func (s *Service) RequestsForEmployee(ctx context.Context, email string) ([]*Request, error) {
	return s.store.RequestsByEmployee(ctx, email)
}

// PendingForOfficer returns the requests waiting on an officer in a role,
// oldest first.
func (s *Service) PendingForOfficer(ctx context.Context, email string, role OfficerRole) ([]*Request, error) {
	if !role.Valid() {
		return nil, Validationf("unknown officer role %q", string(role))
	}
	return s.store.RequestsByOfficer(ctx, email, role, PendingStatus(role))
}

// PendingCountForOfficer is the officer's total worklist size across roles.
func (s *Service) PendingCountForOfficer(ctx context.Context, email string) (int, error) {
	total := 0
	for _, role := range roleOrder {
		rs, err := s.store.RequestsByOfficer(ctx, email, role, PendingStatus(role))
		if err != nil {
			return 0, err
		}
		total += len(rs)
	}
	return total, nil
}

// CancellableRequests returns the employee's requests still inside the
// cancellation window.
func (s *Service) CancellableRequests(ctx context.Context, email string) ([]*Request, error) {
	all, err := s.store.RequestsByEmployee(ctx, email)
	if err != nil {
		return nil, err
	}
	today := Today()
	out := make([]*Request, 0)
	for _, r := range all {
		if r.CanBeCancelled(today) {
			out = append(out, r)
		}
	}
	return out, nil
}

// MaternityAwaitingEndDate is the admin worklist of open maternity periods.
func (s *Service) MaternityAwaitingEndDate(ctx context.Context) ([]*Request, error) {
	return s.maternity.AwaitingEndDate(ctx)
}

// Balances returns the employee's entitlement records for a year.
func (s *Service) Balances(ctx context.Context, email string, year int) ([]*Entitlement, error) {
	return s.ledger.Balances(ctx, email, year)
}

// Quotas returns the employee's short-leave quota records for a year.
func (s *Service) Quotas(ctx context.Context, email string, year int) ([]*Quota, error) {
	return s.store.QuotasByYear(ctx, email, year)
}

// =============================================================================
// ADMINISTRATION
// =============================================================================

// AdjustEntitlement sets a new total for one pool, admin only.
func (s *Service) AdjustEntitlement(ctx context.Context, adminEmail, employeeEmail string, leaveType Type, year, total int) (*Entitlement, error) {
	admin, err := s.dir.Lookup(ctx, adminEmail)
	if err != nil {
		return nil, err
	}
	if !admin.Admin {
		return nil, &AuthorizationError{Caller: adminEmail, Action: "adjust entitlements"}
	}
	if _, err := s.dir.Lookup(ctx, employeeEmail); err != nil {
		return nil, err
	}
	if !leaveType.Valid() {
		return nil, Validationf("unknown leave type %q", string(leaveType))
	}
	return s.ledger.Adjust(ctx, employeeEmail, leaveType, year, total)
}

// InitializeEmployee creates all default entitlement pools for an employee
// up front. Idempotent.
func (s *Service) InitializeEmployee(ctx context.Context, email string, year int) error {
	if _, err := s.dir.Lookup(ctx, email); err != nil {
		return err
	}
	return s.ledger.Initialize(ctx, email, year)
}

// Recalculate zeroes an employee's balances and quotas for a year and
// replays every approved, non-cancelled request in original approval order.
// This is the repair pass for drift left by partial failures; it is
// idempotent and bypasses capacity checks (the requests were already
// granted).
func (s *Service) Recalculate(ctx context.Context, email string, year int) error {
	entitlements, err := s.ledger.Balances(ctx, email, year)
	if err != nil {
		return err
	}
	byType := make(map[Type]*Entitlement, len(entitlements))
	for _, e := range entitlements {
		e.ResetUsage()
		byType[e.Type] = e
	}

	quotas, err := s.store.QuotasByYear(ctx, email, year)
	if err != nil {
		return err
	}
	byMonth := make(map[int]*Quota, len(quotas))
	for _, q := range quotas {
		q.ResetUsage()
		byMonth[q.Month] = q
	}

	all, err := s.store.RequestsByEmployee(ctx, email)
	if err != nil {
		return err
	}
	replay := make([]*Request, 0, len(all))
	for _, r := range all {
		if r.Status != StatusApproved || r.Cancelled {
			continue
		}
		if r.StartDate.Year() != year {
			continue
		}
		replay = append(replay, r)
	}
	sort.Slice(replay, func(i, j int) bool {
		return replay[i].FinalApprovalTime().Before(replay[j].FinalApprovalTime())
	})

	for _, r := range replay {
		switch r.Kind {
		case KindShort:
			month := r.StartDate.Month()
			q, ok := byMonth[month]
			if !ok {
				q = NewQuota(email, year, month, s.cfg.ShortLeavesPerMonth)
				byMonth[month] = q
			}
			q.Use()
		case KindHalfDay:
			byType[r.LedgerType()].AddHalfDay()
		default:
			if days := r.EffectiveDays(); !days.Equal(decimal.Zero) {
				byType[r.LedgerType()].DebitDays(days)
			}
		}
	}

	for _, e := range byType {
		if err := s.store.PutEntitlement(ctx, e); err != nil {
			return err
		}
	}
	for _, q := range byMonth {
		if err := s.store.PutQuota(ctx, q); err != nil {
			return err
		}
	}
	s.log.Info("balances recalculated",
		"employee", email, "year", year, "replayed", len(replay))
	return nil
}
