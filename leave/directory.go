package leave

import "context"

// =============================================================================
// DIRECTORY - Employee/officer identity lookup (external collaborator)
// =============================================================================

// Employee is a directory entry. The engine only needs identity, display
// name, department membership and the admin flag.
type Employee struct {
	Email      string
	Name       string
	Department string
	Admin      bool
}

// AllDepartments is the wildcard department for cross-department approval
// officers (department heads).
const AllDepartments = "All"

// Directory resolves employee and officer identities. It is an external
// collaborator; the engine never writes to it.
type Directory interface {
	// Lookup returns the employee or a NotFoundError.
	Lookup(ctx context.Context, email string) (*Employee, error)

	// ByDepartment returns every employee in a department.
	ByDepartment(ctx context.Context, department string) ([]*Employee, error)
}
