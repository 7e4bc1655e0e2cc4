package models

import (
	"fmt"
	"time"
)

// Role is the integer user level stored in users.user_level.
type Role int

const (
	Admin   Role = 0
	Teacher Role = 1
	Student Role = 2
)

// ParseRole accepts only the three known codes.
func ParseRole(code int) (Role, error) {
	switch Role(code) {
	case Admin, Teacher, Student:
		return Role(code), nil
	}
	return 0, fmt.Errorf("unknown role code %d", code)
}

func (r Role) String() string {
	switch r {
	case Admin:
		return "admin"
	case Teacher:
		return "teacher"
	case Student:
		return "student"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// IsStaff: admins and teachers manage the bank and read grades.
func (r Role) IsStaff() bool { return r == Admin || r == Teacher }

type User struct {
	ID           string    `db:"id"`
	Seq          int64     `db:"seq"`
	Name         string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         Role      `db:"user_level"`
	ClassName    string    `db:"class_name"`
	StudentNum   *int      `db:"student_num"`
	TeacherID    *string   `db:"teacher_id"`
	CreatedAt    time.Time `db:"created_at"`
}

// Number returns the student number or 0 when none is stored.
func (u User) Number() int {
	if u.StudentNum == nil {
		return 0
	}
	return *u.StudentNum
}
