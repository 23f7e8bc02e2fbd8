package domain

import "time"

// Role enumerates account roles.
type Role string

const (
	RoleStaff  Role = "STAFF"
	RoleWorker Role = "WORKER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleWorker, RoleAdmin:
		return true
	default:
		return false
	}
}

// CanWork reports whether the role may progress requests through the lifecycle.
func (r Role) CanWork() bool {
	switch r {
	case RoleWorker, RoleAdmin:
		return true
	case RoleStaff:
		return false
	default:
		return false
	}
}

// User is a directory account for staff, workers and administrators.
type User struct {
	ID         string
	UserCode   string
	Name       string
	Email      string
	Role       Role
	Department string
	ContactNo  string
	Approved   bool
	CreatedAt  time.Time
}

// Actor returns the identity the user acts under.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, Approved: u.Approved}
}

// Actor is the caller performing an operation.
type Actor struct {
	ID       string
	Name     string
	Email    string
	Role     Role
	Approved bool
}
