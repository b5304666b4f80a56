package domain

// Roles carried in access tokens. Staff review applications and post event comments.
const (
	RoleStaff = "staff"
	RoleUser  = "user"
)

// KnownRole reports whether r is one of the roles the API authorizes.
func KnownRole(r string) bool {
	return r == RoleStaff || r == RoleUser
}
