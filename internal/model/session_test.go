package model

import "testing"

func TestSessionScope(t *testing.T) {
	admin := Session{EmployeeID: "a1", Role: RoleAdmin}
	if admin.Scope() != ScopeAdmins {
		t.Errorf("admin scope = %q, want admins", admin.Scope())
	}

	emp := Session{EmployeeID: "e1", Role: RoleEmployee}
	if emp.Scope() != UserScope("e1") {
		t.Errorf("employee scope = %q, want user:e1", emp.Scope())
	}
}

func TestSessionSees(t *testing.T) {
	emp := Session{EmployeeID: "e1", Role: RoleEmployee}

	if !emp.Sees(UserScope("e1")) {
		t.Error("employee cannot see own scope")
	}
	if emp.Sees(UserScope("e2")) {
		t.Error("employee sees another employee's scope")
	}
	if emp.Sees(ScopeAdmins) {
		t.Error("employee sees the admin scope")
	}

	admin := Session{EmployeeID: "a1", Role: RoleAdmin}
	if !admin.Sees(ScopeAdmins) {
		t.Error("admin cannot see the admin scope")
	}
	if admin.Sees(UserScope("a1")) {
		t.Error("admin sees a personal scope")
	}
}

func TestScopeIsUser(t *testing.T) {
	if id, ok := UserScope("e7").IsUser(); !ok || id != "e7" {
		t.Errorf("IsUser = %q/%v, want e7/true", id, ok)
	}
	if _, ok := ScopeAdmins.IsUser(); ok {
		t.Error("admins scope parsed as a user scope")
	}
	if _, ok := Scope("user:").IsUser(); ok {
		t.Error("empty user id accepted")
	}
}
