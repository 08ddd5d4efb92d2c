package models

import "testing"

func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name  string
		role  Role
		other Role
		want  bool
	}{
		{"Admin covers manager", RoleAdmin, RoleManager, true},
		{"Admin covers staff", RoleAdmin, RoleStaff, true},
		{"Manager covers staff", RoleManager, RoleStaff, true},
		{"Manager not admin", RoleManager, RoleAdmin, false},
		{"Staff not manager", RoleStaff, RoleManager, false},
		{"Role covers itself", RoleStaff, RoleStaff, true},
		{"Unknown role covers nothing", Role("intern"), RoleStaff, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.role.AtLeast(tt.other); got != tt.want {
				t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.other, got, tt.want)
			}
		})
	}
}

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleStaff} {
		if !r.Valid() {
			t.Errorf("expected %s to be valid", r)
		}
	}
	if Role("owner").Valid() {
		t.Error("expected unknown role to be invalid")
	}
}
