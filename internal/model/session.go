package model

// Role distinguishes the two viewer classes the server recognizes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Session is the explicit viewer context handed to every component that
// talks to the server. Nothing reads identity or credentials from
// ambient globals; constructing a second Session yields a fully
// independent viewer.
type Session struct {
	// EmployeeID is the authenticated user's employee record id.
	EmployeeID string

	// Role selects which notification scope the viewer is entitled to.
	Role Role

	// Token is the bearer token forwarded verbatim on every request.
	// The client never inspects it.
	Token string
}

// Scope returns the notification scope this session is entitled to see.
func (s Session) Scope() Scope {
	if s.Role == RoleAdmin {
		return ScopeAdmins
	}
	return UserScope(s.EmployeeID)
}

// Sees reports whether a notification with the given scope belongs to
// this session's inbox. Anything else is a scope violation.
func (s Session) Sees(scope Scope) bool {
	return scope == s.Scope()
}
