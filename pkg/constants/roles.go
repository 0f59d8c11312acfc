package constants

// User roles. The suite has a flat two-tier model: admins manage
// users, pricing rules and analytics; everyone else gets module CRUD.
const (
	RoleAdmin    = "admin"
	RoleStandard = "standard"
)

// IsAdmin checks if a role grants administrative privileges
func IsAdmin(role string) bool {
	return role == RoleAdmin
}

// IsValidRole checks if a role name is part of the suite's model
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleStandard
}
