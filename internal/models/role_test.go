package models

import "testing"

func TestParseRole(t *testing.T) {
	for code, want := range map[int]Role{0: Admin, 1: Teacher, 2: Student} {
		got, err := ParseRole(code)
		if err != nil {
			t.Fatalf("code %d: %v", code, err)
		}
		if got != want {
			t.Fatalf("code %d: got %v want %v", code, got, want)
		}
	}
	for _, code := range []int{-1, 3, 42} {
		if _, err := ParseRole(code); err == nil {
			t.Fatalf("code %d: expected error", code)
		}
	}
}

func TestRoleIsStaff(t *testing.T) {
	if !Admin.IsStaff() || !Teacher.IsStaff() {
		t.Fatal("admin and teacher are staff")
	}
	if Student.IsStaff() {
		t.Fatal("student is not staff")
	}
}
