package models

import "time"

// PersonRole is the closed set of roles a person may hold.
type PersonRole string

const (
	RoleProfessor PersonRole = "profesor"
	RoleAdmin     PersonRole = "administrador"
)

// Person is an identity keyed by government id (cedula).
type Person struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	Email         *string    `db:"email" json:"email,omitempty"`
	PersonalEmail *string    `db:"personal_email" json:"personal_email,omitempty"`
	Role          PersonRole `db:"role" json:"role"`
	PasswordHash  *string    `db:"password_hash" json:"-"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Professor extends a Person with teaching metadata.
type Professor struct {
	ID           string     `db:"id" json:"id"`
	ShortName    string     `db:"short_name" json:"short_name"`
	FullName     string     `db:"full_name" json:"full_name"`
	MinMaxDays   *bool      `db:"min_max_days" json:"min_max_days,omitempty"`
	LastModified *time.Time `db:"last_modified" json:"last_modified,omitempty"`
}

// ProfessorProgress adds the number of stored priorities for admin listings.
type ProfessorProgress struct {
	Professor
	PriorityCount int `db:"priority_count" json:"priority_count"`
}
