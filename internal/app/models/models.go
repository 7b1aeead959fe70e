package models

// Role defines the user role type
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleRegistrar  Role = "REGISTRAR"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
	RoleAccountant Role = "ACCOUNTANT"
	RoleLibrarian  Role = "LIBRARIAN"
	RoleHR         Role = "HR"
)

// Term represents a semester term
type Term string

const (
	TermFall   Term = "FALL"
	TermSpring Term = "SPRING"
	TermSummer Term = "SUMMER"
)
